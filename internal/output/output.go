package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes command output in JSON or styled human form.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	json   bool
	color  bool
	theme  theme
}

type theme struct {
	errorLabel lipgloss.Style
	warnLabel  lipgloss.Style
	good       lipgloss.Style
	heading    lipgloss.Style
	faint      lipgloss.Style
	key        lipgloss.Style
	bold       lipgloss.Style
	border     lipgloss.TerminalColor
}

func newTheme(color bool) theme {
	if !color {
		plain := lipgloss.NewStyle()
		return theme{
			errorLabel: plain, warnLabel: plain, good: plain, heading: plain,
			faint: plain, key: plain, bold: plain, border: lipgloss.NoColor{},
		}
	}
	return theme{
		errorLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warnLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		good:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		heading:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		faint:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		key:        lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		bold:       lipgloss.NewStyle().Bold(true),
		border:     lipgloss.Color("8"),
	}
}

// NewPrinter returns a Printer writing to w. Colour is used only when
// color is true and jsonMode is false.
func NewPrinter(w io.Writer, jsonMode, color bool) *Printer {
	return &Printer{
		out:    w,
		errOut: w,
		json:   jsonMode,
		color:  color,
		theme:  newTheme(color && !jsonMode),
	}
}

// WithStderr routes human-mode errors, warnings and progress notes to w.
// JSON mode keeps everything on the main writer.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.errOut = w
	return p
}

// IsJSON reports whether the printer emits JSON.
func (p *Printer) IsJSON() bool { return p.json }

// IsTTY reports whether human output is styled for a terminal.
func (p *Printer) IsTTY() bool { return p.color }

// Error reports err. In JSON mode it writes {"error": ..., "code": ...} to
// the main writer.
func (p *Printer) Error(err error) {
	exitErr := asExitError(err)
	if p.json {
		_ = p.WriteJSON(map[string]any{"error": exitErr.Message, "code": exitErr.Code})
		return
	}
	p.writeErr("%s: %s\n", p.theme.errorLabel.Render("Error"), exitErr.Message)
}

// Warn reports a non-fatal problem.
func (p *Printer) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.json {
		_ = p.WriteJSON(map[string]any{"warning": msg})
		return
	}
	p.writeErr("%s: %s\n", p.theme.warnLabel.Render("Warning"), msg)
}

// Info writes a dimmed progress note, such as a file removed during
// rollback. JSON mode drops it.
func (p *Printer) Info(format string, args ...any) {
	if p.json {
		return
	}
	p.writeErr("%s\n", p.theme.faint.Render(fmt.Sprintf(format, args...)))
}

// Stderr writes raw text to the error writer. JSON mode drops it.
func (p *Printer) Stderr(format string, args ...any) {
	if p.json {
		return
	}
	p.writeErr(format, args...)
}

// Print writes formatted text to the main writer.
func (p *Printer) Print(format string, args ...any) {
	mustWrite(fmt.Fprintf(p.out, format, args...))
}

// Println writes its arguments and a newline to the main writer.
func (p *Printer) Println(args ...any) {
	mustWrite(fmt.Fprintln(p.out, args...))
}

// WriteJSON writes v as indented JSON.
func (p *Printer) WriteJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func (p *Printer) writeErr(format string, args ...any) {
	mustWrite(fmt.Fprintf(p.errOut, format, args...))
}

// mustWrite panics on a failed write to stdout, stderr or a buffer; there
// is nowhere left to report it.
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}

// Mark classifies one line of a status listing.
type Mark int

// Marks, in the order quality-check and init use them.
const (
	MarkOK Mark = iota
	MarkWarn
	MarkFail
	MarkSkip
	MarkPlan
)

var markText = map[Mark]string{
	MarkOK:   "ok",
	MarkWarn: "!!",
	MarkFail: "XX",
	MarkSkip: "--",
	MarkPlan: "..",
}

// Badge returns the two-character badge for m, coloured on a terminal.
func (p *Printer) Badge(m Mark) string {
	text, ok := markText[m]
	if !ok {
		text = "??"
	}
	switch m {
	case MarkOK:
		return p.theme.good.Render(text)
	case MarkWarn:
		return p.theme.warnLabel.Render(text)
	case MarkFail:
		return p.theme.errorLabel.Render(text)
	default:
		return p.theme.faint.Render(text)
	}
}

// Mark writes an indented status line: badge, two spaces, then the text.
func (p *Printer) Mark(m Mark, format string, args ...any) {
	p.Print("  %s  %s\n", p.Badge(m), fmt.Sprintf(format, args...))
}

// Hint writes a follow-up suggestion under the previous Mark line.
func (p *Printer) Hint(text string) {
	p.Print("      %s %s\n", p.theme.faint.Render("->"), text)
}

// Section writes a blank line, a heading and an underline.
func (p *Printer) Section(title string) {
	p.Println()
	p.Println(p.theme.heading.Render(title))
	p.Println(p.theme.faint.Render(strings.Repeat("─", lipgloss.Width(title))))
}

// KeyValue writes "key: value".
func (p *Printer) KeyValue(key, value string) {
	p.Print("%s %s\n", p.theme.key.Render(key+":"), value)
}

// Table writes rows under bold headers, padding each column to its widest
// cell. Cells beyond the header count are dropped; the last column is not
// padded.
func (p *Printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	p.tableRow(headers, widths, p.theme.bold)
	for _, row := range rows {
		p.tableRow(row, widths, lipgloss.NewStyle())
	}
}

func (p *Printer) tableRow(cells []string, widths []int, style lipgloss.Style) {
	last := min(len(cells), len(widths)) - 1
	var b strings.Builder
	for i := 0; i <= last; i++ {
		if i > 0 {
			b.WriteString("  ")
		}
		cell := cells[i]
		if i < last {
			cell += strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		b.WriteString(style.Render(cell))
	}
	p.Println(b.String())
}

// Box writes content under a title, inside a rounded border on a terminal
// and as plain text otherwise.
func (p *Printer) Box(title, content string) {
	if !p.color {
		if title != "" {
			p.Println(title)
			p.Println()
		}
		p.Println(content)
		return
	}

	body := content
	if title != "" {
		body = p.theme.heading.Render(title) + "\n\n" + content
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.theme.border).
		Padding(0, 1)
	p.Println(style.Render(body))
}
