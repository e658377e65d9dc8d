// Package plotter renders chromatograms and environmental series as
// SVG plots.
package plotter

import (
	"fmt"
	"math"
	"strings"

	"github.com/chromalab/go-chroma/results"
)

// Series is a single data series to plot.
type Series struct {
	X     []float64
	Y     []float64
	Label string
	Color string
}

// SVGPlotter creates SVG plots with axes, ticks, and a legend.
type SVGPlotter struct {
	Width      float64
	Height     float64
	Margin     map[string]float64
	PlotWidth  float64
	PlotHeight float64
	Title      string
	XLabel     string
	YLabel     string
	Series     []Series
}

// NewSVGPlotter creates a plotter with the given canvas dimensions.
func NewSVGPlotter(width, height float64) *SVGPlotter {
	margin := map[string]float64{"top": 40, "right": 30, "bottom": 50, "left": 60}
	return &SVGPlotter{
		Width:      width,
		Height:     height,
		Margin:     margin,
		PlotWidth:  width - margin["left"] - margin["right"],
		PlotHeight: height - margin["top"] - margin["bottom"],
		XLabel:     "Time (s)",
		YLabel:     "Intensity",
	}
}

// SetTitle sets the plot title.
func (p *SVGPlotter) SetTitle(t string) *SVGPlotter {
	p.Title = t
	return p
}

// SetXLabel sets the X-axis label.
func (p *SVGPlotter) SetXLabel(s string) *SVGPlotter {
	p.XLabel = s
	return p
}

// SetYLabel sets the Y-axis label.
func (p *SVGPlotter) SetYLabel(s string) *SVGPlotter {
	p.YLabel = s
	return p
}

// AddSeries adds a data series. An empty color picks one from the
// default palette.
func (p *SVGPlotter) AddSeries(x, y []float64, label, color string) *SVGPlotter {
	if color == "" {
		colors := []string{"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00", "#a65628"}
		color = colors[len(p.Series)%len(colors)]
	}
	p.Series = append(p.Series, Series{X: x, Y: y, Label: label, Color: color})
	return p
}

// Render generates the SVG document.
func (p *SVGPlotter) Render() string {
	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, s := range p.Series {
		for i := range s.X {
			xmin = math.Min(xmin, s.X[i])
			xmax = math.Max(xmax, s.X[i])
			ymin = math.Min(ymin, s.Y[i])
			ymax = math.Max(ymax, s.Y[i])
		}
	}
	if math.IsInf(xmin, 1) {
		xmin, xmax = 0, 1
	}
	if math.IsInf(ymin, 1) {
		ymin, ymax = 0, 1
	}
	if xmax == xmin {
		xmax = xmin + 1
	}
	if ymax == ymin {
		ymax = ymin + 1
	}
	ymin -= (ymax - ymin) * 0.05
	ymax += (ymax - ymin) * 0.05

	sx := func(x float64) float64 {
		return p.Margin["left"] + (x-xmin)/(xmax-xmin)*p.PlotWidth
	}
	sy := func(y float64) float64 {
		return p.Margin["top"] + p.PlotHeight - (y-ymin)/(ymax-ymin)*p.PlotHeight
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`, int(p.Width), int(p.Height))
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="#ffffff"/>`, int(p.Width), int(p.Height))

	if p.Title != "" {
		fmt.Fprintf(&sb, `<text x="%f" y="25" text-anchor="middle" font-family="sans-serif" font-size="16" font-weight="bold">%s</text>`,
			p.Width/2, escape(p.Title))
	}

	// Axes
	fmt.Fprintf(&sb, `<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="2"/>`,
		p.Margin["left"], p.Margin["top"], p.Margin["left"], p.Margin["top"]+p.PlotHeight)
	fmt.Fprintf(&sb, `<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="2"/>`,
		p.Margin["left"], p.Margin["top"]+p.PlotHeight, p.Margin["left"]+p.PlotWidth, p.Margin["top"]+p.PlotHeight)

	fmt.Fprintf(&sb, `<text x="%f" y="%f" text-anchor="middle" font-family="sans-serif" font-size="12">%s</text>`,
		p.Margin["left"]+p.PlotWidth/2, p.Height-10, escape(p.XLabel))
	fmt.Fprintf(&sb, `<text x="15" y="%f" text-anchor="middle" font-family="sans-serif" font-size="12" transform="rotate(-90, 15, %f)">%s</text>`,
		p.Margin["top"]+p.PlotHeight/2, p.Margin["top"]+p.PlotHeight/2, escape(p.YLabel))

	// Ticks and gridlines
	const ticks = 5
	for i := 0; i <= ticks; i++ {
		x := xmin + (xmax-xmin)*float64(i)/ticks
		px := sx(x)
		fmt.Fprintf(&sb, `<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#ddd" stroke-width="0.5"/>`,
			px, p.Margin["top"], px, p.Margin["top"]+p.PlotHeight)
		fmt.Fprintf(&sb, `<text x="%f" y="%f" text-anchor="middle" font-family="sans-serif" font-size="10">%.0f</text>`,
			px, p.Margin["top"]+p.PlotHeight+20, x)

		y := ymin + (ymax-ymin)*float64(i)/ticks
		py := sy(y)
		fmt.Fprintf(&sb, `<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#ddd" stroke-width="0.5"/>`,
			p.Margin["left"], py, p.Margin["left"]+p.PlotWidth, py)
		fmt.Fprintf(&sb, `<text x="%f" y="%f" text-anchor="end" font-family="sans-serif" font-size="10">%.1f</text>`,
			p.Margin["left"]-10, py+4, y)
	}

	// Series paths
	for _, s := range p.Series {
		if len(s.X) == 0 {
			continue
		}
		var path strings.Builder
		for i := range s.X {
			if i == 0 {
				fmt.Fprintf(&path, "M%.2f,%.2f", sx(s.X[i]), sy(s.Y[i]))
			} else {
				fmt.Fprintf(&path, " L%.2f,%.2f", sx(s.X[i]), sy(s.Y[i]))
			}
		}
		fmt.Fprintf(&sb, `<path d="%s" stroke="%s" stroke-width="1.5" fill="none"/>`, path.String(), s.Color)
	}

	// Legend
	legendY := p.Margin["top"] + 10
	for _, s := range p.Series {
		if s.Label == "" {
			continue
		}
		x1 := p.Width - p.Margin["right"] - 120
		fmt.Fprintf(&sb, `<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="%s" stroke-width="2"/>`,
			x1, legendY, x1+20, legendY, s.Color)
		fmt.Fprintf(&sb, `<text x="%f" y="%f" font-family="sans-serif" font-size="10">%s</text>`,
			x1+25, legendY+4, escape(s.Label))
		legendY += 16
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// PlotChromatograms renders every detector trace of a run on one
// canvas.
func PlotChromatograms(r *results.RunResult, width, height float64) string {
	p := NewSVGPlotter(width, height).SetTitle("Chromatogram")
	for _, c := range r.Chromatograms {
		p.AddSeries(c.Time, c.Intensity, fmt.Sprintf("%s (%s)", c.DetectorID, c.DetectorType), "")
	}
	return p.Render()
}

// PlotOvenProgram renders the oven temperature series of a run.
func PlotOvenProgram(r *results.RunResult, width, height float64) string {
	p := NewSVGPlotter(width, height).
		SetTitle("Oven Program").
		SetYLabel("Temperature (°C)")
	p.AddSeries(r.OvenSeries.Time, r.OvenSeries.Values, "oven", "")
	return p.Render()
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
