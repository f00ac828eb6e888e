// Package formatters renders requirement reports for the show command.
package formatters

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatText    OutputFormat = "text"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatDOT     OutputFormat = "dot"
	OutputFormatMermaid OutputFormat = "mermaid"
)

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

// SupportedFormats lists the accepted --format values.
func SupportedFormats() string {
	return strings.Join([]string{
		OutputFormatText.String(),
		OutputFormatJSON.String(),
		OutputFormatDOT.String(),
		OutputFormatMermaid.String(),
	}, ", ")
}

// Formatter is the interface that all report formatters must implement.
type Formatter interface {
	Format(r Report) (string, error)
}

// NewFormatter creates a Formatter for the specified format type.
func NewFormatter(format string) (Formatter, error) {
	switch OutputFormat(format) {
	case OutputFormatText:
		return textFormatter{}, nil
	case OutputFormatJSON:
		return jsonFormatter{}, nil
	case OutputFormatDOT:
		return dotFormatter{}, nil
	case OutputFormatMermaid:
		return mermaidFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, SupportedFormats())
	}
}

type jsonFormatter struct{}

func (jsonFormatter) Format(r Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

type textFormatter struct{}

func (textFormatter) Format(r Report) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "type: %s\n", r.Type)
	fmt.Fprintf(&sb, "kind: %s\n", r.Kind)
	if r.Origin != "" {
		fmt.Fprintf(&sb, "origin: %s\n", r.Origin)
	}
	fmt.Fprintf(&sb, "implementation: %s\n", r.Implementation)

	sb.WriteString("\nparents:\n")
	if len(r.Parents) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, p := range r.Parents {
		fmt.Fprintf(&sb, "  %s %s", p.Kind, p.Type)
		if !p.Resolved {
			sb.WriteString(" (unresolved)")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nconstructors:\n")
	if len(r.Constructors) == 0 {
		sb.WriteString("  (implicit)\n")
	}
	for _, c := range r.Constructors {
		fmt.Fprintf(&sb, "  %s\n", member(c))
	}

	sb.WriteString("\nrequired methods:\n")
	if len(r.Methods) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, m := range r.Methods {
		fmt.Fprintf(&sb, "  %s\n", member(m))
	}

	return sb.String(), nil
}

func member(m MemberEntry) string {
	var parts []string
	if m.Visibility != "" {
		parts = append(parts, m.Visibility)
	}
	if m.Returns != "" {
		parts = append(parts, m.Returns)
	}
	parts = append(parts, m.Name+"("+strings.Join(m.Params, ", ")+")")

	line := strings.Join(parts, " ")
	if len(m.Throws) > 0 {
		line += " throws " + strings.Join(m.Throws, ", ")
	}
	return line
}
