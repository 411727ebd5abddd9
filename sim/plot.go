package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	diffdrive "github.com/milosgajdos/go-diffdrive"
)

// NewTrajectoryPlot creates a plot of one estimator run: the true path, the
// estimated path and the landmark positions.
// It returns error if the log is empty or if the gonum plotters fail to be
// created.
func NewTrajectoryPlot(title string, recs []diffdrive.Record, landmarks []diffdrive.Landmark) (*plot.Plot, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("empty trajectory log")
	}

	p := plot.New()

	p.Title.Text = title
	p.X.Label.Text = "X Position"
	p.Y.Label.Text = "Y Position"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	truthLine, err := plotter.NewLine(truthPoints(recs))
	if err != nil {
		return nil, err
	}
	truthLine.LineStyle.Color = color.Black

	p.Add(truthLine)
	p.Legend.Add("ground truth", truthLine)

	estLine, err := plotter.NewLine(estPoints(recs))
	if err != nil {
		return nil, err
	}
	estLine.LineStyle.Color = color.RGBA{R: 0, G: 128, B: 128, A: 255}
	estLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(estLine)
	p.Legend.Add("estimated", estLine)

	lmScatter, err := plotter.NewScatter(landmarkPoints(landmarks))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	lmScatter.GlyphStyle.Color = color.Black
	lmScatter.Shape = draw.BoxGlyph{}
	lmScatter.GlyphStyle.Radius = vg.Points(4)

	p.Add(lmScatter)
	p.Legend.Add("landmarks", lmScatter)

	return p, nil
}

func truthPoints(recs []diffdrive.Record) plotter.XYs {
	pts := make(plotter.XYs, len(recs))
	for i, r := range recs {
		pts[i].X = r.Truth.X
		pts[i].Y = r.Truth.Y
	}

	return pts
}

func estPoints(recs []diffdrive.Record) plotter.XYs {
	pts := make(plotter.XYs, len(recs))
	for i, r := range recs {
		pts[i].X = r.Est.X
		pts[i].Y = r.Est.Y
	}

	return pts
}

func landmarkPoints(landmarks []diffdrive.Landmark) plotter.XYs {
	pts := make(plotter.XYs, len(landmarks))
	for i, lm := range landmarks {
		pts[i].X = lm.X
		pts[i].Y = lm.Y
	}

	return pts
}
