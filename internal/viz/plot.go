package viz

import (
	"math"

	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
)

// Series is one named curve of a line plot.
type Series struct {
	Label string
	X     []float64
	Y     []float64
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func seriesBounds(series []Series) bounds {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, s := range series {
		for _, x := range s.X {
			b.minX = math.Min(b.minX, x)
			b.maxX = math.Max(b.maxX, x)
		}
		for _, y := range s.Y {
			b.minY = math.Min(b.minY, y)
			b.maxY = math.Max(b.maxY, y)
		}
	}
	// Degenerate ranges still need a drawable box.
	if b.minX >= b.maxX {
		b.minX, b.maxX = b.minX-1, b.minX+1
	}
	if b.minY >= b.maxY {
		b.minY, b.maxY = b.minY-1, b.minY+1
	}
	padY := (b.maxY - b.minY) * 0.05
	b.minY -= padY
	b.maxY += padY
	return b
}

// SeriesPlot draws every series into a fresh canvas, sharing one scale.
// The first and last X of the widest series span the full width.
func SeriesPlot(series []Series, width, height int) *Canvas {
	c := NewCanvas(width, height)
	if len(series) == 0 {
		return c
	}
	b := seriesBounds(series)
	pw, ph := float64(c.PixelWidth()-1), float64(c.PixelHeight()-1)

	toPx := func(x, y float64) (int, int) {
		px := (x - b.minX) / (b.maxX - b.minX) * pw
		py := ph - (y-b.minY)/(b.maxY-b.minY)*ph
		return int(math.Round(px)), int(math.Round(py))
	}

	for _, s := range series {
		n := len(s.X)
		if n != len(s.Y) || n == 0 {
			continue
		}
		x0, y0 := toPx(s.X[0], s.Y[0])
		for i := 1; i < n; i++ {
			x1, y1 := toPx(s.X[i], s.Y[i])
			c.Line(x0, y0, x1, y1)
			x0, y0 = x1, y1
		}
		if n == 1 {
			c.Set(x0, y0)
		}
	}
	return c
}

// SpectrumBars draws per-mode damping ratios as grouped vertical bars, one
// group per mode index, one bar per environment. A horizontal baseline
// marks zeta = 0 so negative ratios hang below it.
func SpectrumBars(zeta [][]float64, width, height int) *Canvas {
	c := NewCanvas(width, height)
	if len(zeta) == 0 || len(zeta[0]) == 0 {
		return c
	}
	nEnv, nMode := len(zeta), len(zeta[0])

	maxY, minY := 0.0, 0.0
	for _, env := range zeta {
		for _, z := range env {
			maxY = math.Max(maxY, z)
			minY = math.Min(minY, z)
		}
	}
	if maxY == minY {
		maxY = minY + 1
	}
	span := (maxY - minY) * 1.1

	pw, ph := float64(c.PixelWidth()), float64(c.PixelHeight()-1)
	toY := func(z float64) int {
		return int(math.Round(ph - (z-minY)/span*ph))
	}

	base := toY(0)
	for x := 0; x < c.PixelWidth(); x++ {
		c.Set(x, base)
	}

	// One pixel-wide bar per environment inside each mode's slot.
	slot := pw / float64(nMode)
	for n := 0; n < nMode; n++ {
		for e := 0; e < nEnv; e++ {
			frac := (float64(e) + 1) / float64(nEnv+1)
			x := int(math.Round(slot*float64(n) + slot*frac))
			c.VBar(x, toY(zeta[e][n]), base)
		}
	}
	return c
}

// RingLayout draws the cluster cross-section: the vehicle base circle and
// every engine at its ring position, to a shared metric scale.
func RingLayout(cl cluster.Cluster, width, height int) *Canvas {
	c := NewCanvas(width, height)
	rMax := cl.BaseDiameter / 2
	for _, ring := range cl.Rings {
		if ring.Radius > rMax {
			rMax = ring.Radius
		}
	}
	if rMax <= 0 {
		return c
	}

	pw, ph := float64(c.PixelWidth()), float64(c.PixelHeight())
	cx, cy := pw/2, ph/2
	// Braille cells are taller than wide; scale y by half to keep circles
	// round in character space.
	scale := math.Min(cx, cy*2) / (rMax * 1.1)

	toPx := func(x, y float64) (int, int) {
		return int(math.Round(cx + x*scale)), int(math.Round(cy - y*scale/2))
	}

	// Base outline.
	br := cl.BaseDiameter / 2 * scale
	for deg := 0; deg < 360; deg += 2 {
		rad := float64(deg) * math.Pi / 180
		x := int(math.Round(cx + br*math.Cos(rad)))
		y := int(math.Round(cy - br*math.Sin(rad)/2))
		c.Set(x, y)
	}

	for _, ring := range cl.Rings {
		for _, theta := range ring.Angles() {
			x, y := toPx(ring.Radius*math.Cos(theta), ring.Radius*math.Sin(theta))
			c.Circle(x, y, 1)
		}
	}
	return c
}
