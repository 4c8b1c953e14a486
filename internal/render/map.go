// Package render draws the analysis map and writes the export artifacts.
package render

import (
	"fmt"
	"image/color"

	"github.com/paulmach/orb/geojson"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/urbanatlas/greenspace/internal/geo"
)

// Layer colors follow the flat UI palette of the original cartography:
// emerald for green spaces, orange for residential areas.
var (
	greenColor       = color.NRGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 178} // alpha 0.7
	residentialColor = color.NRGBA{R: 0xf3, G: 0x9c, B: 0x12, A: 102} // alpha 0.4
)

// Map builds the scatter figure for the two layers. Either collection may
// be nil or empty; the corresponding layer is simply left off the map.
func Map(green, residential *geojson.FeatureCollection, city string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Urban Green Space Analysis - %s", city)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(grid)

	if s, err := scatterLayer(green, greenColor); err != nil {
		return nil, err
	} else if s != nil {
		p.Add(s)
		p.Legend.Add("Green Spaces", s)
	}

	if s, err := scatterLayer(residential, residentialColor); err != nil {
		return nil, err
	} else if s != nil {
		p.Add(s)
		p.Legend.Add("Residential Areas", s)
	}

	// Legend in the lower right corner.
	p.Legend.Top = false
	p.Legend.Left = false

	p.Add(northArrow{})

	return p, nil
}

func scatterLayer(fc *geojson.FeatureCollection, c color.Color) (*plotter.Scatter, error) {
	pts := geo.Flatten(fc)
	if len(pts) == 0 {
		return nil, nil
	}

	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i].X = pt.X()
		xys[i].Y = pt.Y()
	}

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}

	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(1.5)
	s.GlyphStyle.Shape = draw.CircleGlyph{}

	return s, nil
}

// Save writes the figure at 12x8 inches; the format follows the file
// extension (.png and .pdf are used by the pipeline).
func Save(p *plot.Plot, path string) error {
	return p.Save(12*vg.Inch, 8*vg.Inch, path)
}

// northArrow draws the conventional "N" arrow near the top right corner of
// the plotting area. It works in canvas coordinates so the annotation is
// independent of the data extent.
type northArrow struct{}

// Plot implements plot.Plotter.
func (northArrow) Plot(c draw.Canvas, plt *plot.Plot) {
	width := c.Max.X - c.Min.X
	height := c.Max.Y - c.Min.Y

	x := c.Min.X + 0.95*width
	tip := c.Min.Y + 0.95*height
	length := 0.1 * height
	head := 0.35 * length

	line := draw.LineStyle{Color: color.Black, Width: vg.Points(2)}
	c.StrokeLine2(line, x, tip-length, x, tip-head)

	c.FillPolygon(color.Black, []vg.Point{
		{X: x - head/2, Y: tip - head},
		{X: x + head/2, Y: tip - head},
		{X: x, Y: tip},
	})

	sty := plt.Title.TextStyle
	sty.XAlign = text.XCenter
	sty.YAlign = text.YTop
	c.FillText(sty, vg.Point{X: x, Y: tip - length - vg.Points(2)}, "N")
}
