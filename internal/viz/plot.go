// Package viz renders simulation traces: styled terminal plots and PNG
// export.
package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// Trace renders a terminal plot of the sampled values.
func Trace(caption string, values []float64) string {
	if len(values) < 2 {
		return ""
	}
	graph := asciigraph.Plot(values,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption(caption),
	)
	return graphStyle.Render(graph)
}

// Stat renders one aligned label/value line.
func Stat(label string, format string, args ...any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, args...))
}

func Header(text string) string {
	return headerStyle.Render(text)
}

// SavePNG writes an x/y line plot to path (format from the extension).
func SavePNG(xs, ys []float64, title, xLabel, yLabel, path string) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("viz: mismatched trace lengths %d and %d", len(xs), len(ys))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)

	return p.Save(7*vg.Inch, 4*vg.Inch, path)
}
