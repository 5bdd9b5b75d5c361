package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

// TUI is the terminal trace browser: a scrollable instruction list, a
// register-dependency panel for the instruction under the cursor, a
// statistics summary, and a command line for navigation/filter commands.
type TUI struct {
	Browser *Browser
	App     *tview.Application
	Pages   *tview.Pages

	MainLayout *tview.Flex
	RightPanel *tview.Flex

	TraceView    *tview.TextView
	RegisterView *tview.TextView
	StatsView    *tview.TextView
	OutputView   *tview.TextView
	CommandInput *tview.InputField
}

// NewTUI builds a trace browser TUI over an already-populated Browser.
func NewTUI(browser *Browser) *TUI {
	t := &TUI{
		Browser: browser,
		App:     tview.NewApplication(),
	}

	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()

	return t
}

func (t *TUI) initializeViews() {
	t.TraceView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.TraceView.SetBorder(true).SetTitle(" Trace ")

	t.RegisterView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.StatsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.StatsView.SetBorder(true).SetTitle(" Categories / Watches ")

	t.OutputView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 0, 2, false).
		AddItem(t.StatsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.TraceView, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 6, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().
		AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyDown:
			t.executeCommand("next")
			return nil
		case tcell.KeyUp:
			t.executeCommand("prev")
			return nil
		case tcell.KeyPgDn:
			t.executeCommand("next 10")
			return nil
		case tcell.KeyPgUp:
			t.executeCommand("prev 10")
			return nil
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key == tcell.KeyEnter {
		cmd := t.CommandInput.GetText()
		if cmd != "" {
			t.executeCommand(cmd)
			t.CommandInput.SetText("")
		}
	}
}

func (t *TUI) executeCommand(cmd string) {
	t.Browser.Output.Reset()

	err := t.Browser.ExecuteCommand(cmd)
	output := t.Browser.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}

	t.RefreshAll()
}

// WriteOutput writes to the output view.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll refreshes every view panel.
func (t *TUI) RefreshAll() {
	t.UpdateTraceView()
	t.UpdateRegisterView()
	t.UpdateStatsView()
	t.App.Draw()
}

// UpdateTraceView renders a window of the trace around the cursor,
// marking the current position, filter matches, and watch highlights.
func (t *TUI) UpdateTraceView() {
	t.TraceView.Clear()

	b := t.Browser
	if len(b.Insts) == 0 {
		t.TraceView.SetText("[yellow]Trace is empty[white]")
		return
	}

	start := b.Position - TraceWindowBefore
	if start < 0 {
		start = 0
	}
	end := b.Position + TraceWindowAfter
	if end > len(b.Insts) {
		end = len(b.Insts)
	}

	var lines []string
	for i := start; i < end; i++ {
		inst := b.Insts[i]

		marker := "  "
		color := "white"
		if i == b.Position {
			marker = "->"
			color = "yellow"
		}
		if t.Browser.IsHighlighted(i) {
			marker = "* "
		}

		dim := ""
		if !b.MatchesFilter(i) {
			dim = "[gray]"
			color = "gray"
		}

		line := fmt.Sprintf("%s[%s]%s %04d: %s %s%s[white]",
			dim, color, marker, i, inst.Category, formatRegLists(inst), "[white]")
		lines = append(lines, line)
	}

	t.TraceView.SetText(strings.Join(lines, "\n"))
}

func formatRegLists(inst *regdeps.Instruction) string {
	dsts := make([]string, len(inst.Dsts))
	for i, r := range inst.Dsts {
		dsts[i] = r.String()
	}
	srcs := make([]string, len(inst.Srcs))
	for i, r := range inst.Srcs {
		srcs[i] = r.String()
	}
	return fmt.Sprintf("[%s] <- [%s]", strings.Join(dsts, ","), strings.Join(srcs, ","))
}

// UpdateRegisterView shows the register-dependency detail for the
// instruction under the cursor.
func (t *TUI) UpdateRegisterView() {
	t.RegisterView.Clear()

	inst := t.Browser.Current()
	if inst == nil {
		t.RegisterView.SetText("[yellow]No instruction at cursor[white]")
		return
	}

	var lines []string
	lines = append(lines, t.Browser.FormatCurrent())
	lines = append(lines, "")

	for _, r := range inst.Dsts {
		stats := t.Browser.RegTrace.Stats(r)
		if stats == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: writes=%d reads=%d", r, stats.WriteCount, stats.ReadCount))
	}
	for _, r := range inst.Srcs {
		stats := t.Browser.RegTrace.Stats(r)
		if stats == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: writes=%d reads=%d", r, stats.WriteCount, stats.ReadCount))
	}

	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

// UpdateStatsView shows the top trace categories and active watches.
func (t *TUI) UpdateStatsView() {
	t.StatsView.Clear()

	var lines []string
	lines = append(lines, "[yellow]Top categories:[white]")
	for _, c := range t.Browser.CatStats.TopCategories(DefaultTopCategories) {
		lines = append(lines, fmt.Sprintf("  %s: %d", c.Category, c.Count))
	}

	lines = append(lines, "")
	lines = append(lines, "[yellow]Watches:[white]")
	watches := t.Browser.Watches.All()
	if len(watches) == 0 {
		lines = append(lines, "  none")
	}
	for _, w := range watches {
		status := "enabled"
		if !w.Enabled {
			status = "disabled"
		}
		lines = append(lines, fmt.Sprintf("  %d: V%d [%s]", w.ID, w.Register, status))
	}

	if t.Browser.FilterOf != "" {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("[yellow]Filter:[white] %s", t.Browser.FilterOf))
	}

	t.StatsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI application.
func (t *TUI) Run() error {
	t.RefreshAll()

	t.WriteOutput("[green]Register-dependency trace browser[white]\n")
	t.WriteOutput("Press F1 for help, arrow keys or 'next'/'prev' to move\n")
	t.WriteOutput("Type 'help' for the full command list\n\n")

	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop stops the TUI application.
func (t *TUI) Stop() {
	t.App.Stop()
}
