package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RunCLI runs the line-oriented command-line trace browser.
func RunCLI(b *Browser) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(regdeps) ")

		if !scanner.Scan() {
			break
		}

		cmdLine := strings.TrimSpace(scanner.Text())

		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("Exiting...")
			break
		}

		if err := b.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		output := b.GetOutput()
		if output != "" {
			fmt.Print(output)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	return nil
}

// RunTUI runs the full-screen trace browser.
func RunTUI(b *Browser) error {
	tui := NewTUI(b)
	return tui.Run()
}
