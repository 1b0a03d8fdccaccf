package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bidgoat/bidgoat/internal/analysis"
	"github.com/bidgoat/bidgoat/internal/stats"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts text, json or yaml in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (must be text, json or yaml)", ErrUnknownFormat, s)
	}
}

// Section is one labelled sample profile.
type Section struct {
	Label   string         `json:"label" yaml:"label"`
	Summary *stats.Summary `json:"summary" yaml:"summary"`
}

// Write renders a full analysis report.
func Write(w io.Writer, rep *analysis.Report, format Format) error {
	switch format {
	case FormatText:
		return writeText(w, rep)
	case FormatJSON:
		return writeJSON(w, rep)
	case FormatYAML:
		return writeYAML(w, rep)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteSummaries renders only the descriptive profiles.
func WriteSummaries(w io.Writer, format Format, sections ...Section) error {
	switch format {
	case FormatText:
		tw := &textWriter{w: w}
		for _, s := range sections {
			tw.summary(s.Label, s.Summary)
		}
		return tw.err
	case FormatJSON:
		return writeJSON(w, sections)
	case FormatYAML:
		return writeYAML(w, sections)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
