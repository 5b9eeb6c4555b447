package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/toodle/pkg/types"
)

// emit writes v as JSON or YAML when requested and reports whether it did.
func (a *app) emit(v any) (bool, error) {
	switch {
	case a.asJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(a.out, string(data))
		return true, err
	case a.asYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("marshal YAML: %w", err)
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

// renderItems writes one line per item:
//
//	[ ] <uuid>  <name>  due <relative>  #label #label
func renderItems(w io.Writer, r *lipgloss.Renderer, items types.Items, now time.Time) error {
	for _, item := range items {
		var b strings.Builder
		if item.Completed() {
			b.WriteString("[x] ")
		} else {
			b.WriteString("[ ] ")
		}
		b.WriteString(item.UUID.String())
		b.WriteString("  ")
		b.WriteString(item.Name)
		if item.DueDate != nil {
			b.WriteString("  due ")
			b.WriteString(humanize.RelTime(*item.DueDate, now, "ago", "from now"))
		}
		if len(item.Labels) > 0 {
			tags := make([]string, len(item.Labels))
			for i, l := range item.Labels {
				tags[i] = labelStyle(r, l).Render("#" + l.Name)
			}
			b.WriteString("  ")
			b.WriteString(strings.Join(tags, " "))
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// renderLabels writes one line per label with the names aligned.
func renderLabels(w io.Writer, r *lipgloss.Renderer, labels []types.Label) error {
	width := 0
	for _, l := range labels {
		width = max(width, lipgloss.Width(l.Name))
	}
	for _, l := range labels {
		pad := strings.Repeat(" ", width-lipgloss.Width(l.Name))
		if _, err := fmt.Fprintf(w, "%s%s  %s\n", l.Name, pad, labelStyle(r, l).Render(l.Color)); err != nil {
			return err
		}
	}
	return nil
}

func labelStyle(r *lipgloss.Renderer, l types.Label) lipgloss.Style {
	return r.NewStyle().Foreground(lipgloss.Color(l.Color))
}
