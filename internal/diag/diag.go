// Package diag renders parser and type-checker errors against a
// source.View, following the teacher's pattern of returning positioned
// error values from the x86_64 parser (internal/ast/x86_64/parser.go)
// generalized into a reusable Diagnostic type so both pipeline stages
// named in spec.md §7 share one rendering path.
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"uvmasm/internal/source"
)

// Severity distinguishes errors from warnings; which pipeline stage
// raised a diagnostic is recorded separately by Stage.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Stage identifies which pipeline stage raised a Diagnostic, per the
// "[Stage] message at Ln R, Col C" shape spec.md §4.5 mandates.
type Stage int

const (
	StageParser Stage = iota
	StageTypeCheck
)

func (s Stage) String() string {
	switch s {
	case StageParser:
		return "Parser"
	case StageTypeCheck:
		return "TypeCheck"
	default:
		return "?"
	}
}

// Diagnostic is one positioned message.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Message  string
	Index    uint32
	LineRow  uint32
	LineCol  uint32
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("[%s] %s at Ln %d, Col %d", d.Stage, d.Message, d.LineRow, d.LineCol)
}

// Errorf builds an error-severity Diagnostic raised by stage at the
// given position.
func Errorf(stage Stage, index, line, col uint32, format string, args ...any) Diagnostic {
	return Diagnostic{Stage: stage, Severity: SeverityError, Message: fmt.Sprintf(format, args...), Index: index, LineRow: line, LineCol: col}
}

// Render formats a diagnostic as "[Stage] message at Ln R, Col C"
// followed by the source line and a caret underline at the offending
// column, per spec.md §4.5. Colorization uses github.com/fatih/color,
// an ecosystem-standard pick for CLI diagnostics (no repo in the
// example corpus ships a terminal color library); Render degrades to
// plain text when color.NoColor is set (e.g. non-tty output, honored
// automatically by the library).
func Render(view *source.View, d Diagnostic) string {
	line, lineStart := view.LineOf(d.Index)
	col := int(d.Index - lineStart)

	label := color.New(color.FgRed, color.Bold).Sprintf("[%s]", d.Stage)
	if d.Severity == SeverityWarning {
		label = color.New(color.FgYellow, color.Bold).Sprintf("[%s]", d.Stage)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s at Ln %d, Col %d\n", label, d.Message, d.LineRow, d.LineCol)
	fmt.Fprintf(&sb, "   | %s\n", line)
	fmt.Fprintf(&sb, "   | %s%s\n", strings.Repeat(" ", col), color.New(color.FgRed, color.Bold).Sprint("^"))
	return sb.String()
}

// RenderAll renders a full batch of diagnostics in order.
func RenderAll(view *source.View, diags []Diagnostic) string {
	var sb strings.Builder
	for _, d := range diags {
		sb.WriteString(Render(view, d))
	}
	return sb.String()
}
