package trace

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

// CategoryCount tracks how many instructions in a trace belonged to a
// given category bitmask.
type CategoryCount struct {
	Category regdeps.Category
	Count    uint64
}

// CategoryStats buckets a decoded trace by its instructions' category
// bitmasks and flag usage.
type CategoryStats struct {
	TotalInstructions uint64
	ArithWrites       uint64
	ArithReads        uint64
	categoryCounts    map[regdeps.Category]uint64
	opSizeCounts      map[regdeps.OpSize]uint64
}

// NewCategoryStats creates an empty category-statistics tracker.
func NewCategoryStats() *CategoryStats {
	return &CategoryStats{
		categoryCounts: make(map[regdeps.Category]uint64),
		opSizeCounts:   make(map[regdeps.OpSize]uint64),
	}
}

// Analyze replays insts, tallying category, flag, and operand-size usage.
func (s *CategoryStats) Analyze(insts []*regdeps.Instruction) {
	for _, inst := range insts {
		s.TotalInstructions++
		s.categoryCounts[inst.Category]++
		s.opSizeCounts[inst.Size]++
		if inst.Flags.Writes() {
			s.ArithWrites++
		}
		if inst.Flags.Reads() {
			s.ArithReads++
		}
	}
}

// TopCategories returns up to n category bitmasks sorted by frequency,
// descending. n <= 0 returns every observed bitmask.
func (s *CategoryStats) TopCategories(n int) []CategoryCount {
	out := make([]CategoryCount, 0, len(s.categoryCounts))
	for cat, count := range s.categoryCounts {
		out = append(out, CategoryCount{Category: cat, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if n > 0 && n < len(out) {
		return out[:n]
	}
	return out
}

// ExportJSON writes the statistics to w as indented JSON.
func (s *CategoryStats) ExportJSON(w io.Writer) error {
	data := map[string]interface{}{
		"total_instructions": s.TotalInstructions,
		"arith_writes":       s.ArithWrites,
		"arith_reads":        s.ArithReads,
		"categories":         jsonCategories(s.TopCategories(0)),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func jsonCategories(counts []CategoryCount) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(counts))
	for _, c := range counts {
		out = append(out, map[string]interface{}{
			"category": c.Category.String(),
			"count":    c.Count,
		})
	}
	return out
}

// ExportCSV writes the statistics to w as CSV: a summary block followed
// by a blank line and the per-category breakdown.
func (s *CategoryStats) ExportCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	rows := [][]string{
		{"Total Instructions", fmt.Sprintf("%d", s.TotalInstructions)},
		{"Arith Flag Writes", fmt.Sprintf("%d", s.ArithWrites)},
		{"Arith Flag Reads", fmt.Sprintf("%d", s.ArithReads)},
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	if err := writer.Write([]string{}); err != nil {
		return err
	}
	if err := writer.Write([]string{"Category", "Count"}); err != nil {
		return err
	}
	for _, c := range s.TopCategories(0) {
		if err := writer.Write([]string{c.Category.String(), fmt.Sprintf("%d", c.Count)}); err != nil {
			return err
		}
	}
	return nil
}

var categoryStatsHTML = template.Must(template.New("stats").Parse(`
<!DOCTYPE html>
<html>
<head>
    <title>Register Dependency Trace Statistics</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        h1 { color: #333; }
        h2 { color: #666; margin-top: 30px; }
        table { border-collapse: collapse; margin: 10px 0; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #4CAF50; color: white; }
        tr:nth-child(even) { background-color: #f2f2f2; }
        .metric { font-weight: bold; }
    </style>
</head>
<body>
    <h1>Register Dependency Trace Statistics</h1>

    <h2>Summary</h2>
    <table>
        <tr><td class="metric">Total Instructions</td><td>{{.TotalInstructions}}</td></tr>
        <tr><td class="metric">Arith Flag Writes</td><td>{{.ArithWrites}}</td></tr>
        <tr><td class="metric">Arith Flag Reads</td><td>{{.ArithReads}}</td></tr>
    </table>

    <h2>Categories (by frequency)</h2>
    <table>
        <tr><th>Category</th><th>Count</th></tr>
        {{range .Categories}}
        <tr><td>{{.Category}}</td><td>{{.Count}}</td></tr>
        {{end}}
    </table>
</body>
</html>
`))

// ExportHTML writes the statistics to w as a standalone HTML report.
func (s *CategoryStats) ExportHTML(w io.Writer) error {
	data := struct {
		TotalInstructions uint64
		ArithWrites       uint64
		ArithReads        uint64
		Categories        []struct {
			Category string
			Count    uint64
		}
	}{
		TotalInstructions: s.TotalInstructions,
		ArithWrites:       s.ArithWrites,
		ArithReads:        s.ArithReads,
	}
	for _, c := range s.TopCategories(0) {
		data.Categories = append(data.Categories, struct {
			Category string
			Count    uint64
		}{Category: c.Category.String(), Count: c.Count})
	}
	return categoryStatsHTML.Execute(w, data)
}
