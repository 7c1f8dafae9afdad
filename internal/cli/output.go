package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/PaesslerAG/jsonpath"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Printer writes command results and status lines.
type Printer struct {
	Out      io.Writer
	Err      io.Writer
	Format   string
	JSONPath string
	color    bool
}

// NewPrinter returns a printer. Colour is enabled when errOut is a terminal.
func NewPrinter(out, errOut io.Writer, format, path string) (*Printer, error) {
	switch format {
	case "", FormatTable:
		format = FormatTable
	case FormatJSON:
	default:
		return nil, fmt.Errorf("unknown output format %q (want table or json)", format)
	}
	if path != "" && !strings.HasPrefix(path, "$") {
		return nil, fmt.Errorf("jsonpath must start with $")
	}
	return &Printer{Out: out, Err: errOut, Format: format, JSONPath: path, color: IsTerminal(errOut)}, nil
}

// Colorize wraps text in color when the printer writes to a terminal.
func (p *Printer) Colorize(text, color string) string {
	if !p.color {
		return text
	}
	return color + text + ColorReset
}

// Success prints a success line to Err.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.Err, "%s %s\n", p.Colorize("✓", ColorGreen), fmt.Sprintf(format, args...))
}

// Error prints an error line to Err.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.Err, "%s %s\n", p.Colorize("✗", ColorRed), fmt.Sprintf(format, args...))
}

// Warning prints a warning line to Err.
func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintf(p.Err, "%s %s\n", p.Colorize("⚠", ColorYellow), fmt.Sprintf(format, args...))
}

// Info prints an informational line to Err.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.Err, "%s %s\n", p.Colorize("ℹ", ColorBlue), fmt.Sprintf(format, args...))
}

// Table is a rendered-on-demand text table.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Append adds a row.
func (t *Table) Append(cells ...any) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.Rows = append(t.Rows, row)
}

// Print writes v. In table mode table is rendered; in JSON mode, or whenever a
// jsonpath is set, v is encoded and filtered instead.
func (p *Printer) Print(v any, table *Table) error {
	if p.Format == FormatJSON || p.JSONPath != "" || table == nil {
		return p.printJSON(v)
	}
	return p.printTable(table)
}

func (p *Printer) printJSON(v any) error {
	out := v
	if p.JSONPath != "" {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		out, err = jsonpath.Get(p.JSONPath, generic)
		if err != nil {
			return fmt.Errorf("jsonpath %s: %w", p.JSONPath, err)
		}
		if s, ok := out.(string); ok {
			_, err := fmt.Fprintln(p.Out, s)
			return err
		}
	}
	enc := json.NewEncoder(p.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (p *Printer) printTable(t *Table) error {
	w := tabwriter.NewWriter(p.Out, 0, 0, 2, ' ', 0)
	if len(t.Headers) > 0 {
		fmt.Fprintln(w, strings.ToUpper(strings.Join(t.Headers, "\t")))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if len(t.Rows) == 0 {
		fmt.Fprintln(w, "(no results)")
	}
	return w.Flush()
}
