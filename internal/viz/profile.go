package viz

import (
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/heatrod/internal/heat"
)

const (
	profileWidth  = 60
	profileHeight = 12
)

type ProfileOptions struct {
	Caption string
	Width   int
	Height  int
	// Lower and Upper fix the y axis so consecutive frames line up. Ignored
	// when equal.
	Lower, Upper float64
}

// RenderProfile plots temperature against node index. Fields with fewer than
// two nodes render as an empty string.
func RenderProfile(t heat.Field, opts ProfileOptions) string {
	if len(t) < 2 {
		return ""
	}
	if opts.Width <= 0 {
		opts.Width = profileWidth
	}
	if opts.Height <= 0 {
		opts.Height = profileHeight
	}

	options := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(1),
	}
	if opts.Caption != "" {
		options = append(options, asciigraph.Caption(opts.Caption))
	}
	if opts.Lower != opts.Upper {
		options = append(options, asciigraph.LowerBound(opts.Lower), asciigraph.UpperBound(opts.Upper))
	}
	return asciigraph.Plot([]float64(t), options...)
}
