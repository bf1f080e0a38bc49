package export

import (
	"fmt"

	"github.com/san-kum/heatrod/internal/heat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type ChartOptions struct {
	Title string
	// Every keeps one snapshot out of Every; the last one is always drawn.
	Every int
	// Lower and Upper fix the temperature axis. Ignored when equal.
	Lower, Upper float64
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Title: "Temperature distribution",
		Every: 20,
		Lower: 900,
		Upper: 1300,
	}
}

// ProfileChart draws temperature against node index, one line per sampled
// snapshot. index is the mesh's node positions.
func ProfileChart(index []float64, snapshots []heat.Field, opts ChartOptions) (*plot.Plot, error) {
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("no snapshots to plot")
	}
	if opts.Every <= 0 {
		opts.Every = 1
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Nodes"
	p.Y.Label.Text = "Temperature"
	if opts.Lower != opts.Upper {
		p.Y.Min, p.Y.Max = opts.Lower, opts.Upper
	}

	last := len(snapshots) - 1
	for i, snap := range snapshots {
		if i%opts.Every != 0 && i != last {
			continue
		}
		if len(snap) != len(index) {
			return nil, fmt.Errorf("snapshot %d has %d nodes, index has %d", i+1, len(snap), len(index))
		}

		pts := make(plotter.XYs, len(snap))
		for n, v := range snap {
			pts[n].X = index[n]
			pts[n].Y = v
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i / opts.Every)
		points.GlyphStyle.Shape = draw.CrossGlyph{}
		points.GlyphStyle.Color = line.Color

		p.Add(line, points)
		p.Legend.Add(fmt.Sprintf("step %d", i+1), line)
	}

	return p, nil
}

// SaveChart writes p to path; the extension picks the format (png, svg, pdf).
func SaveChart(p *plot.Plot, path string) error {
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
