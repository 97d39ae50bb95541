package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/sponticelli/trimesh"
	"github.com/sponticelli/trimesh/mesh"
	"github.com/sponticelli/trimesh/render"
	"github.com/sponticelli/trimesh/smooth"
	"github.com/sponticelli/trimesh/tools"
	"github.com/sponticelli/trimesh/voronoi"
	"go.uber.org/zap"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

// Demo of the mesher. Input on stdin should be newline separated points in the
// form "x y", with each polygon separated by an extra newline. Counterclockwise
// polygons are solid; clockwise polygons are holes. A hole should be contained
// by one outer polygon and should not intersect its edges; this is not
// validated.
var (
	minAngle = kingpin.Flag("min-angle", "Refine until no angle is below this many degrees (0 disables).").Short('q').Default("0").Float64()
	maxArea  = kingpin.Flag("max-area", "Refine until no triangle exceeds this area (0 disables).").Short('a').Default("0").Float64()
	algoName = kingpin.Flag("algorithm", "Construction algorithm: dwyer, incremental or sweepline.").Default("dwyer").Enum("dwyer", "incremental", "sweepline")
	convex   = kingpin.Flag("convex", "Mesh the whole convex hull of the input.").Bool()
	smoothN  = kingpin.Flag("smooth", "Lloyd relaxation iterations.").Default("0").Int()
	svgOut   = kingpin.Flag("svg", "Write the mesh as SVG to this file.").String()
	pngOut   = kingpin.Flag("png", "Write the mesh as PNG to this file.").String()
	vorOut   = kingpin.Flag("voronoi", "Write the bounded Voronoi diagram as SVG to this file.").String()
	report   = kingpin.Flag("report", "Write an HTML quality report to this file.").String()
	verbose  = kingpin.Flag("verbose", "Log engine tracing to stderr.").Short('v').Bool()
)

func main() {
	kingpin.Parse()

	input, npolys, err := readInput(os.Stdin)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Read %s in %s\n",
		aurora.Cyan(fmt.Sprintf("%d points", input.Count())),
		aurora.Cyan(fmt.Sprintf("%d polygons", npolys)))

	b := mesh.NewBehavior()
	b.Convex = *convex
	switch *algoName {
	case "incremental":
		b.Algorithm = mesh.Incremental
	case "sweepline":
		b.Algorithm = mesh.SweepLine
	}
	if *minAngle > 0 || *maxArea > 0 {
		b.Quality = true
		b.MinAngle = *minAngle
		if *maxArea > 0 {
			b.MaxArea = *maxArea
		}
	}
	if *verbose {
		logger, _ := zap.NewDevelopment()
		b.Verbose = true
		b.Logger = logger
	}

	var m *trimesh.Mesh
	if *smoothN > 0 {
		m, err = smooth.Lloyd(input, b, *smoothN)
	} else {
		m, err = trimesh.TriangulateWithBehavior(input, b)
	}
	if err != nil {
		fail(err)
	}

	stats := tools.Measure(m)
	fmt.Printf("Meshed %s, %s, %s\n",
		aurora.Green(fmt.Sprintf("%d triangles", stats.Triangles)),
		aurora.Green(fmt.Sprintf("%d vertices", stats.Vertices)),
		aurora.Green(fmt.Sprintf("%d segments", stats.Subsegs)))
	fmt.Printf("Angles %s to %s\n",
		aurora.Yellow(fmt.Sprintf("%.2f°", stats.SmallestAngle)),
		aurora.Yellow(fmt.Sprintf("%.2f°", stats.LargestAngle)))
	if m.IncompleteRefinement() {
		fmt.Println(aurora.Red("Steiner point budget ran out before all constraints were met"))
	}

	if *svgOut != "" {
		writeFile(*svgOut, func(f *os.File) error { return render.WriteSVG(f, m, 800) })
	}
	if *pngOut != "" {
		if err := render.DrawPNG(m, *pngOut, pngScale(m)); err != nil {
			fail(err)
		}
	}
	if *vorOut != "" {
		d, err := voronoi.Bounded(m)
		if err != nil {
			fail(err)
		}
		writeFile(*vorOut, func(f *os.File) error { return render.WriteVoronoiSVG(f, d, 800) })
	}
	if *report != "" {
		writeFile(*report, func(f *os.File) error { return render.QualityReport(f, stats) })
	}
}

func pngScale(m *trimesh.Mesh) float64 {
	w := m.Bounds().Hi().X - m.Bounds().Lo().X
	if w <= 0 {
		return 1
	}
	return 800 / w
}

func writeFile(path string, write func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		fail(err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, aurora.Red(err.Error()))
	os.Exit(1)
}

type poly struct{ xs, ys []float64 }

// readInput parses blank-line separated polygons and assembles the input
// geometry: each polygon's points plus its closing segments, and a hole marker
// at the centroid of each clockwise polygon.
func readInput(in *os.File) (*trimesh.InputGeometry, int, error) {
	var polys []poly
	var cur poly
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(cur.xs) > 0 {
				polys = append(polys, cur)
				cur = poly{}
			}
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			return nil, 0, fmt.Errorf("bad point line %q", line)
		}
		x, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, 0, fmt.Errorf("bad x value %q: %v", parts[0], err)
		}
		y, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, 0, fmt.Errorf("bad y value %q: %v", parts[1], err)
		}
		cur.xs = append(cur.xs, x)
		cur.ys = append(cur.ys, y)
	}
	if len(cur.xs) > 0 {
		polys = append(polys, cur)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}

	total := 0
	for _, p := range polys {
		total += len(p.xs)
	}
	input := trimesh.NewInputGeometry(total)
	base := 0
	for _, p := range polys {
		n := len(p.xs)
		for i := 0; i < n; i++ {
			input.AddPoint(p.xs[i], p.ys[i], 1)
		}
		for i := 0; i < n; i++ {
			if err := input.AddSegment(base+i, base+(i+1)%n, 1); err != nil {
				return nil, 0, err
			}
		}
		if signedArea(p) < 0 {
			cx, cy := centroid(p)
			input.AddHole(cx, cy)
		}
		base += n
	}
	return input, len(polys), nil
}

func signedArea(p poly) float64 {
	area := 0.0
	n := len(p.xs)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.xs[i]*p.ys[j] - p.xs[j]*p.ys[i]
	}
	return 0.5 * area
}

func centroid(p poly) (float64, float64) {
	var cx, cy float64
	for i := range p.xs {
		cx += p.xs[i]
		cy += p.ys[i]
	}
	n := float64(len(p.xs))
	return cx / n, cy / n
}
