package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/polysim/internal/experiment"
)

// PlotResult renders a sweep as an ASCII chart captioned with the
// observable and the argument range.
func PlotResult(r *experiment.Result, width, height int) string {
	if len(r.Values) == 0 {
		return ""
	}
	caption := fmt.Sprintf("%s (%s) vs %s in [%g, %g]",
		r.Observable, r.Model, r.Argument, r.Arguments[0], r.Arguments[len(r.Arguments)-1])
	return asciigraph.Plot(r.Values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(4),
		asciigraph.Caption(caption),
	)
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Aqua, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green, asciigraph.Red,
}

// PlotCompare overlays several results over the same grid, for
// instance the variants of one observable.
func PlotCompare(results []*experiment.Result, width, height int) string {
	if len(results) == 0 {
		return ""
	}
	data := make([][]float64, 0, len(results))
	names := make([]string, 0, len(results))
	colors := make([]asciigraph.AnsiColor, 0, len(results))
	for i, r := range results {
		if len(r.Values) == 0 {
			continue
		}
		data = append(data, r.Values)
		names = append(names, r.Variant)
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}
	if len(data) == 0 {
		return ""
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(4),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(names...),
		asciigraph.Caption(results[0].Observable),
	)
}
