package http

import (
	"bytes"
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	logs "well-analysis/internal/logs/domain"
)

var errNoSamples = errors.New("logs: no samples to plot")

// RenderCurvePNG draws a curve against depth, depth increasing downwards.
func RenderCurvePNG(info logs.CurveInfo, samples []logs.Sample, width, height vg.Length) ([]byte, error) {
	if len(samples) == 0 {
		return nil, errNoSamples
	}
	p := plot.New()
	p.Title.Text = info.Name
	p.X.Label.Text = fmt.Sprintf("%s (%s)", info.Type, info.Unit)
	p.Y.Label.Text = "Depth (m)"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.Value
		pts[i].Y = s.Depth
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Width = vg.Points(1)
	p.Add(line)

	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
