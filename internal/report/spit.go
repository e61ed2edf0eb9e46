// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/covctl/covctl/internal/config"
	"github.com/covctl/covctl/internal/differ"
	"github.com/covctl/covctl/internal/filters"
	"github.com/covctl/covctl/internal/ranges"
)

// Column describes one table column: the dataset key it reads, its title, and
// how to render the raw value.
type Column struct {
	Key    string
	Title  string
	Format func(v interface{}, colorize bool) string
}

// SpitRows filters, sorts, and renders a single-snapshot report. The footer
// row is exempt from filtering and sorting and always lands last.
func SpitRows(rows []Row, cmd *cli.Command, w io.Writer) error {
	log.Debugf(">> SpitRows()")

	if w == nil {
		w = os.Stdout
	}

	body := make([]map[string]interface{}, 0, len(rows))
	var footer map[string]interface{}
	for _, row := range rows {
		m := map[string]interface{}{
			"name":        row.Name,
			"statements":  row.TotalStatements,
			"misses":      row.TotalMisses,
			"lineRate":    row.LineRate,
			"missedLines": row.MissedLines,
		}
		if row.Name == FooterName {
			footer = m
			continue
		}
		body = append(body, m)
	}

	body = filters.FilterDataset(body, cmd.String("filter"))
	if spec := cmd.String("sort"); spec != "" {
		SortDataset(body, spec)
	}
	if footer != nil {
		body = append(body, footer)
	}

	switch cmd.String("output") {
	case "json":
		return emitJSON(body, w)
	case "yaml":
		return emitYAML(body, w)
	default:
		TableWriter(body, showColumns(cmd), cmd, w)
		statements := 0
		if footer != nil {
			statements = footer["statements"].(int)
		}
		fmt.Fprintf(w, "%s class files, %s statements\n",
			humanize.Comma(int64(len(body)-1)), humanize.Comma(int64(statements)))
		return nil
	}
}

// SpitDeltaRows filters, sorts, and renders a delta report.
func SpitDeltaRows(rows []DeltaRow, includeSource bool, cmd *cli.Command, w io.Writer) error {
	log.Debugf(">> SpitDeltaRows()")

	if w == nil {
		w = os.Stdout
	}

	body := make([]map[string]interface{}, 0, len(rows))
	var footer map[string]interface{}
	for _, row := range rows {
		m := map[string]interface{}{
			"name":       row.Name,
			"statements": row.Statements,
			"misses":     row.Misses,
			"lineRate":   row.LineRate,
		}
		if includeSource {
			m["missedLines"] = missedLinesDataset(row.MissedLines)
		}
		if row.Name == FooterName {
			footer = m
			continue
		}
		body = append(body, m)
	}

	body = filters.FilterDataset(body, cmd.String("filter"))
	if spec := cmd.String("sort"); spec != "" {
		SortDataset(body, spec)
	}
	if footer != nil {
		body = append(body, footer)
	}

	switch cmd.String("output") {
	case "json":
		return emitJSON(body, w)
	case "yaml":
		return emitYAML(body, w)
	default:
		TableWriter(body, deltaColumns(cmd, includeSource), cmd, w)
		return nil
	}
}

// TableWriter renders the result set in a tabular form honoring color, titles
// and padding options. Output is written to w. If w is nil, os.Stdout is used.
func TableWriter(
	resultSet []map[string]interface{},
	columns []Column,
	cmd *cli.Command,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	// We return early if there are no results to display.
	if len(resultSet) == 0 {
		return
	}

	// We initialize the table styles.
	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	colorize := ColorEnabled(cmd)

	// And then color styles if --color is present.
	if colorize {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	// We build the table rows from the result set.
	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(columns))
		for _, column := range columns {
			row = append(row, column.Format(result[column.Key], colorize))
		}
		rows = append(rows, row)
	}

	// We configure the table with padding and styles.
	pad := cmd.Int("padding")
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	// We add column headers if titles are enabled.
	if cmd.Bool("titles") {
		var headers []string
		for _, column := range columns {
			headers = append(headers, column.Title)
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// ColorEnabled honors --color but never colors a non-terminal stdout.
func ColorEnabled(cmd *cli.Command) bool {
	if !cmd.Bool("color") {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		if value == "" {
			return emptyValue[0]
		}
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return fmt.Sprintf("%.2f", value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// showColumns lays out the single-snapshot table: absolute counts, a percent
// cover column, and the rangified missing lines.
func showColumns(_ *cli.Command) []Column {
	return []Column{
		{Key: "name", Title: "Filename", Format: formatName},
		{Key: "statements", Title: "Stmts", Format: formatCount},
		{Key: "misses", Title: "Miss", Format: formatCount},
		{Key: "lineRate", Title: "Cover", Format: formatRate},
		{Key: "missedLines", Title: "Missing", Format: formatMissingRanges},
	}
}

// deltaColumns lays out the delta table. The Missing column only exists when
// source detail was requested.
func deltaColumns(_ *cli.Command, includeSource bool) []Column {
	columns := []Column{
		{Key: "name", Title: "Filename", Format: formatName},
		{Key: "statements", Title: "Stmts", Format: formatDeltaCount},
		{Key: "misses", Title: "Miss", Format: formatDeltaMisses},
		{Key: "lineRate", Title: "Cover", Format: formatDeltaRate},
	}
	if includeSource {
		columns = append(columns, Column{
			Key: "missedLines", Title: "Missing", Format: formatDeltaMissing,
		})
	}
	return columns
}

func formatName(v interface{}, _ bool) string {
	return InterfaceToString(v, "-")
}

func formatCount(v interface{}, _ bool) string {
	return InterfaceToString(v, "0")
}

// formatRate renders an absolute line rate as a percentage.
func formatRate(v interface{}, _ bool) string {
	rate, ok := toFloat(v)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", rate*100)
}

// formatMissingRanges compresses missed line numbers into display ranges,
// e.g. "3-5, 9".
func formatMissingRanges(v interface{}, _ bool) string {
	lines := toIntSlice(v)
	if len(lines) == 0 {
		return ""
	}

	parts := make([]string, 0, len(lines))
	for _, r := range ranges.Rangify(lines) {
		if r.Start == r.Stop {
			parts = append(parts, strconv.Itoa(r.Start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", r.Start, r.Stop))
		}
	}

	return strings.Join(parts, ", ")
}

// formatDeltaCount renders a signed count, "-" when zero.
func formatDeltaCount(v interface{}, _ bool) string {
	n, ok := toFloat(v)
	if !ok || n == 0 {
		return "-"
	}
	return fmt.Sprintf("%+d", int(n))
}

// formatDeltaMisses is formatDeltaCount plus color: growth in misses is a
// regression, shrinkage an improvement.
func formatDeltaMisses(v interface{}, colorize bool) string {
	n, ok := toFloat(v)
	if !ok || n == 0 {
		return "-"
	}

	out := fmt.Sprintf("%+d", int(n))
	if colorize {
		out = colorizeDelta(out, n > 0)
	}
	return out
}

// formatDeltaRate renders a signed percentage, "-" when zero.
func formatDeltaRate(v interface{}, _ bool) string {
	rate, ok := toFloat(v)
	if !ok || rate == 0 {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", rate*100)
}

// formatDeltaMissing renders per-line churn as "+N" (newly missed) and "-N"
// (no longer missed) markers.
func formatDeltaMissing(v interface{}, colorize bool) string {
	entries := toMissedLines(v)
	if len(entries) == 0 {
		return ""
	}

	parts := make([]string, 0, len(entries))
	for _, ml := range entries {
		marker := "-"
		if ml.IsNew {
			marker = "+"
		}
		part := fmt.Sprintf("%s%d", marker, ml.Line)
		if colorize {
			part = colorizeDelta(part, ml.IsNew)
		}
		parts = append(parts, part)
	}

	return strings.Join(parts, ", ")
}

// colorizeDelta paints regressions and improvements with the configured (or
// default) colors.
func colorizeDelta(s string, regression bool) string {
	worse, better := deltaColors()
	style := lipgloss.NewStyle().Foreground(better)
	if regression {
		style = lipgloss.NewStyle().Foreground(worse)
	}
	return style.Render(s)
}

// deltaColors resolves the regression/improvement colors, preferring explicit
// config values.
func deltaColors() (worse, better color.Color) {
	resolveColor := func(key string, def string) color.Color {
		if v, err := config.GetString(key); err == nil {
			return lipgloss.Color(v)
		}
		return lipgloss.Color(def)
	}

	worse = resolveColor("colors.regression", "#d70000")
	better = resolveColor("colors.improvement", "#00af00")

	return
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that we can
// make sure output is reasonably visible for all(?) terminal themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config and leave it up to the user
	// to choose appropriate colors for their theme. If not found, pick a
	// reasonable default based on terminal background.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}

func emitJSON(ds []map[string]interface{}, w io.Writer) error {
	out, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, _ = w.Write(out)
	return nil
}

func emitYAML(ds []map[string]interface{}, w io.Writer) error {
	out, err := yaml.Marshal(ds)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, _ = w.Write(out)
	return nil
}

// missedLinesDataset converts the typed missed-line slice into the generic
// shapes the filter/sort/emit pipeline works with.
func missedLinesDataset(entries []differ.MissedLine) []interface{} {
	out := make([]interface{}, len(entries))
	for i, ml := range entries {
		out[i] = map[string]interface{}{"line": ml.Line, "isNew": ml.IsNew}
	}
	return out
}

// toIntSlice recovers a line-number list from a dataset value.
func toIntSlice(v interface{}) []int {
	switch lines := v.(type) {
	case []int:
		return lines
	case []interface{}:
		out := make([]int, 0, len(lines))
		for _, item := range lines {
			if n, ok := toFloat(item); ok {
				out = append(out, int(n))
			}
		}
		return out
	default:
		return nil
	}
}

// toMissedLines recovers missed-line entries from a dataset value.
func toMissedLines(v interface{}) []differ.MissedLine {
	switch entries := v.(type) {
	case []differ.MissedLine:
		return entries
	case []interface{}:
		out := make([]differ.MissedLine, 0, len(entries))
		for _, item := range entries {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			line, _ := toFloat(m["line"])
			isNew, _ := m["isNew"].(bool)
			out = append(out, differ.MissedLine{Line: int(line), IsNew: isNew})
		}
		return out
	default:
		return nil
	}
}
