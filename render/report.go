package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/sponticelli/trimesh/tools"
)

// QualityReport writes an HTML page with the angle histogram of the mesh
// statistics and a summary subtitle. Open it in a browser.
func QualityReport(w io.Writer, s tools.Statistics) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Height: "580px",
			Width:  "1020px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Triangle corner angles",
			Subtitle: fmt.Sprintf(
				"%d triangles, %d vertices | angles %.2f°..%.2f° | shortest edge %.4g",
				s.Triangles, s.Vertices, s.SmallestAngle, s.LargestAngle, s.ShortestEdge),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "angle (degrees)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "corners"}),
	)

	labels := make([]string, len(s.AngleHistogram))
	data := make([]opts.BarData, len(s.AngleHistogram))
	for i, count := range s.AngleHistogram {
		labels[i] = fmt.Sprintf("%d-%d", i*10, (i+1)*10)
		data[i] = opts.BarData{Value: count}
	}
	bar.SetXAxis(labels).AddSeries("corners", data)

	return bar.Render(w)
}
