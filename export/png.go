package export

import (
	"fmt"
	"io"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/chromalab/go-chroma/results"
)

var seriesColors = []drawing.Color{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
}

// WriteChromatogramPNG renders every detector trace of a run into a
// single PNG chart.
func WriteChromatogramPNG(r *results.RunResult, w io.Writer, width, height int) error {
	if len(r.Chromatograms) == 0 {
		return fmt.Errorf("no chromatograms in result")
	}

	series := make([]chart.Series, 0, len(r.Chromatograms))
	for i, c := range r.Chromatograms {
		series = append(series, chart.ContinuousSeries{
			Name:    c.DetectorID,
			XValues: c.Time,
			YValues: c.Intensity,
			Style: chart.Style{
				StrokeColor: seriesColors[i%len(seriesColors)],
				StrokeWidth: 1.2,
			},
		})
	}

	graph := chart.Chart{
		Title:  r.Metadata.MethodName,
		Width:  width,
		Height: height,
		XAxis:  chart.XAxis{Name: "Time (s)"},
		YAxis:  chart.YAxis{Name: "Intensity"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// WriteOvenPNG renders the oven temperature program of a run as a PNG.
func WriteOvenPNG(r *results.RunResult, w io.Writer, width, height int) error {
	if len(r.OvenSeries.Time) == 0 {
		return fmt.Errorf("no oven series in result")
	}

	graph := chart.Chart{
		Title:  "Oven Program",
		Width:  width,
		Height: height,
		XAxis:  chart.XAxis{Name: "Time (s)"},
		YAxis:  chart.YAxis{Name: "Temperature (C)"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "oven",
				XValues: r.OvenSeries.Time,
				YValues: r.OvenSeries.Values,
				Style: chart.Style{
					StrokeColor: seriesColors[1],
					StrokeWidth: 1.5,
				},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// SaveChromatogramPNG renders the chromatogram chart to a file.
func SaveChromatogramPNG(r *results.RunResult, filename string, width, height int) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()
	return WriteChromatogramPNG(r, f, width, height)
}
