// Package formatter renders templates, validation reports and bucket
// listings for the terminal. Styling is lipgloss-based and disabled in
// plain mode, which is forced automatically when stdout is not a TTY.
package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"

	"github.com/objedit/jsonshape/internal/store"
	"github.com/objedit/jsonshape/internal/template"
	"github.com/objedit/jsonshape/internal/validate"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleDim     = lipgloss.NewStyle().Faint(true)
)

// Formatter renders report text. A plain formatter emits no ANSI styling.
type Formatter struct {
	plain bool
}

// NewFormatter creates a Formatter. plain forces unstyled output; when
// false, styling is still dropped if stdout is not a terminal.
func NewFormatter(plain bool) *Formatter {
	return &Formatter{plain: plain || !stdoutIsTTY()}
}

func stdoutIsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (f *Formatter) style(s lipgloss.Style, text string) string {
	if f.plain {
		return text
	}
	return s.Render(text)
}

// TemplateSummary renders a field/type/required table for an inferred
// template.
func (f *Formatter) TemplateSummary(t *template.Template) string {
	var b strings.Builder
	b.WriteString(f.style(styleTitle, "Inferred template"))
	b.WriteString(f.style(styleDim, fmt.Sprintf(" (sampled %d %s)", t.SampleSize, plural(t.SampleSize, "object", "objects"))))
	b.WriteString("\n")

	names := t.FieldNames()

	// Column widths follow the widest content.
	nameWidth := len("FIELD")
	typeWidth := len("TYPE")
	for _, name := range names {
		if len(name) > nameWidth {
			nameWidth = len(name)
		}
		if l := len(string(t.Fields[name].Type)); l > typeWidth {
			typeWidth = l
		}
	}

	b.WriteString(f.style(styleDim, fmt.Sprintf("  %-*s  %-*s  %s\n", nameWidth, "FIELD", typeWidth, "TYPE", "REQUIRED")))
	for _, name := range names {
		fs := t.Fields[name]
		required := "optional"
		if fs.Required {
			required = "required"
		}
		b.WriteString(fmt.Sprintf("  %-*s  %-*s  %s\n", nameWidth, name, typeWidth, string(fs.Type), required))
	}
	return b.String()
}

// ValidationReport renders every violation with a severity marker,
// followed by a summary line.
func (f *Formatter) ValidationReport(result validate.ValidationResult) string {
	var b strings.Builder

	if result.IsValid {
		b.WriteString(f.style(styleSuccess, "✓ No violations found"))
		b.WriteString("\n")
		return b.String()
	}

	for _, v := range result.Violations {
		marker := f.style(styleError, "✗ error")
		if v.Severity == validate.SeverityWarning {
			marker = f.style(styleWarning, "! warning")
		}
		location := fmt.Sprintf("[%d]", v.Index)
		if v.Path != "" {
			location = fmt.Sprintf("[%d].%s", v.Index, v.Path)
		}
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n", marker, f.style(styleDim, location), v.Message))
	}

	errs := result.ErrorCount()
	warns := result.WarningCount()
	b.WriteString(f.style(styleTitle, fmt.Sprintf("%d %s, %d %s\n",
		errs, plural(errs, "error", "errors"),
		warns, plural(warns, "warning", "warnings"))))
	return b.String()
}

// Listing renders a bucket listing with size and modification time.
func (f *Formatter) Listing(infos []store.ObjectInfo) string {
	if len(infos) == 0 {
		return f.style(styleDim, "(empty bucket)") + "\n"
	}

	keyWidth := len("KEY")
	for _, info := range infos {
		if len(info.Key) > keyWidth {
			keyWidth = len(info.Key)
		}
	}

	var b strings.Builder
	b.WriteString(f.style(styleDim, fmt.Sprintf("  %-*s  %10s  %s\n", keyWidth, "KEY", "SIZE", "MODIFIED")))
	for _, info := range infos {
		b.WriteString(fmt.Sprintf("  %-*s  %10d  %s\n", keyWidth, info.Key, info.Size, info.LastModified.Format("2006-01-02 15:04:05")))
	}
	return b.String()
}

// Success renders a green success line.
func (f *Formatter) Success(message string) string {
	return f.style(styleSuccess, "✓ "+message) + "\n"
}

// Failure renders a red error line.
func (f *Formatter) Failure(message string) string {
	return f.style(styleError, "✗ "+message) + "\n"
}

// JSON emits a machine-readable, indented JSON rendering of v for --json
// flags. Never styled.
func (f *Formatter) JSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return string(data) + "\n", nil
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
