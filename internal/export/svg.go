package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/afgany/rocket-clusters-dynamics/internal/analysis"
	"github.com/afgany/rocket-clusters-dynamics/internal/physics"
	"github.com/afgany/rocket-clusters-dynamics/internal/viz"
)

// frame maps data coordinates into the plot region of an SVG figure.
type frame struct {
	w, h                     float64
	left, right, top, bottom float64
	minX, maxX, minY, maxY   float64
}

func newFrame(s Style, minX, maxX, minY, maxY float64) frame {
	if maxX <= minX {
		maxX = minX + 1
	}
	if maxY <= minY {
		maxY = minY + 1
	}
	return frame{
		w: float64(s.Width), h: float64(s.Height),
		left: 70, right: 30, top: 40, bottom: 60,
		minX: minX, maxX: maxX, minY: minY, maxY: maxY,
	}
}

func (f frame) x(v float64) float64 {
	return f.left + (v-f.minX)/(f.maxX-f.minX)*(f.w-f.left-f.right)
}

func (f frame) y(v float64) float64 {
	return f.h - f.bottom - (v-f.minY)/(f.maxY-f.minY)*(f.h-f.top-f.bottom)
}

func svgOpen(b *strings.Builder, s Style, title string) {
	fmt.Fprintf(b, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, s.Width, s.Height, s.Width, s.Height)
	fmt.Fprintf(b, `<text x="%d" y="24" font-size="%d" font-family="serif" text-anchor="middle" font-weight="bold">%s</text>
`, s.Width/2, s.FontSize+2, title)
}

func svgClose(b *strings.Builder, s Style) {
	fmt.Fprintf(b, `<text x="%d" y="%d" font-size="9" font-family="serif" font-style="italic" fill="#888888" text-anchor="middle">%s</text>
</svg>`, s.Width/2, s.Height-6, analysis.Disclaimer)
}

// axes draws the plot frame, linear ticks, and axis labels.
func (f frame) axes(b *strings.Builder, s Style, xLabel, yLabel string) {
	fmt.Fprintf(b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#333333"/>
`, f.left, f.top, f.w-f.left-f.right, f.h-f.top-f.bottom)

	const ticks = 5
	for i := 0; i <= ticks; i++ {
		vx := f.minX + (f.maxX-f.minX)*float64(i)/ticks
		px := f.x(vx)
		if s.Grid && i > 0 && i < ticks {
			fmt.Fprintf(b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#dddddd"/>
`, px, f.top, px, f.h-f.bottom)
		}
		fmt.Fprintf(b, `<text x="%.1f" y="%.1f" font-size="%d" font-family="serif" text-anchor="middle">%.3g</text>
`, px, f.h-f.bottom+16, s.FontSize-2, vx)

		vy := f.minY + (f.maxY-f.minY)*float64(i)/ticks
		py := f.y(vy)
		if s.Grid && i > 0 && i < ticks {
			fmt.Fprintf(b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#dddddd"/>
`, f.left, py, f.w-f.right, py)
		}
		fmt.Fprintf(b, `<text x="%.1f" y="%.1f" font-size="%d" font-family="serif" text-anchor="end">%.3g</text>
`, f.left-6, py+4, s.FontSize-2, vy)
	}

	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" font-size="%d" font-family="serif" text-anchor="middle">%s</text>
`, f.left+(f.w-f.left-f.right)/2, f.h-f.bottom+36, s.FontSize, xLabel)
	fmt.Fprintf(b, `<text x="16" y="%.1f" font-size="%d" font-family="serif" text-anchor="middle" transform="rotate(-90 16 %.1f)">%s</text>
`, f.top+(f.h-f.top-f.bottom)/2, s.FontSize, f.top+(f.h-f.top-f.bottom)/2, yLabel)
}

func (f frame) polyline(b *strings.Builder, xs, ys []float64, color, dash string, width float64) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return
	}
	b.WriteString(`<polyline fill="none" stroke="` + color + `"`)
	fmt.Fprintf(b, ` stroke-width="%.1f"`, width)
	if dash != "" {
		b.WriteString(` stroke-dasharray="` + dash + `"`)
	}
	b.WriteString(` points="`)
	for i := range xs {
		fmt.Fprintf(b, "%.1f,%.1f ", f.x(xs[i]), f.y(ys[i]))
	}
	b.WriteString("\"/>\n")
}

func legendEntry(b *strings.Builder, s Style, x, y float64, color, dash, label string) {
	if dash == "" {
		fmt.Fprintf(b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
`, x, y, x+22, y, color)
	} else {
		fmt.Fprintf(b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2" stroke-dasharray="%s"/>
`, x, y, x+22, y, color, dash)
	}
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" font-size="%d" font-family="serif">%s</text>
`, x+28, y+4, s.FontSize-2, label)
}

var envDisplay = map[string]string{
	"earth_sl":     "Earth (1 atm)",
	"lunar_vacuum": "Lunar vacuum",
}

func displayEnv(name string) string {
	if d, ok := envDisplay[name]; ok {
		return d
	}
	return name
}

// DampingSpectrumSVG renders the per-mode damping ratio bar chart: one bar
// group per mode, one bar per environment, with the critical threshold as
// a dashed line. Negative ratios hang below the zero baseline.
func DampingSpectrumSVG(zeta [][]float64, envs []string, zetaCrit float64, s Style) string {
	var b strings.Builder
	svgOpen(&b, s, "Per-mode damping ratio by environment")
	if len(zeta) == 0 || len(zeta[0]) == 0 {
		svgClose(&b, s)
		return b.String()
	}

	nEnv, nMode := len(zeta), len(zeta[0])
	minY, maxY := 0.0, zetaCrit
	for _, env := range zeta {
		for _, z := range env {
			minY = math.Min(minY, z)
			maxY = math.Max(maxY, z)
		}
	}
	f := newFrame(s, -0.5, float64(nMode)-0.5, minY*1.15-0.002, maxY*1.15)
	f.axes(&b, s, "Mode index n", "Damping ratio")

	slot := (f.w - f.left - f.right) / float64(nMode)
	barW := slot / float64(nEnv+1)
	y0 := f.y(0)
	for n := 0; n < nMode; n++ {
		for e := 0; e < nEnv; e++ {
			cx := f.x(float64(n)) - slot/2 + barW*(float64(e)+0.75)
			yv := f.y(zeta[e][n])
			top, hgt := yv, y0-yv
			if hgt < 0 {
				top, hgt = y0, -hgt
			}
			fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.7" stroke="#ffffff" stroke-width="0.5"/>
`, cx, top, barW*0.9, hgt, s.seriesColor(e))
		}
	}

	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#000000" stroke-width="1.5" stroke-dasharray="6,4"/>
`, f.left, f.y(zetaCrit), f.w-f.right, f.y(zetaCrit))
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="%d" font-family="serif">critical threshold</text>
`, f.w-f.right-130, f.y(zetaCrit)-6, s.FontSize-2)

	// The breathing mode takes no coupling term; call it out.
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="%d" font-family="serif" fill="#555555">breathing mode</text>
`, f.x(0)-30, f.top+14, s.FontSize-2)

	ly := f.top + 14
	for e, name := range envs {
		legendEntry(&b, s, f.w-f.right-190, ly, s.seriesColor(e), "", displayEnv(name))
		ly += 18
	}
	svgClose(&b, s)
	return b.String()
}

// BoundaryMapSVG renders the critical interaction index over the delay
// range, one curve per frequency per environment. Color keys the
// environment, dash pattern the frequency.
func BoundaryMapSVG(bm *physics.BoundaryMap, s Style) string {
	var b strings.Builder
	svgOpen(&b, s, "Stability boundary map")
	if bm == nil || len(bm.Tau) == 0 {
		svgClose(&b, s)
		return b.String()
	}

	tauMs := make([]float64, len(bm.Tau))
	for i, t := range bm.Tau {
		tauMs[i] = t * 1000
	}
	maxN := 0.0
	for _, envGrid := range bm.NCrit {
		for _, row := range envGrid {
			for _, v := range row {
				maxN = math.Max(maxN, v)
			}
		}
	}
	f := newFrame(s, tauMs[0], tauMs[len(tauMs)-1], 0, maxN*1.05)
	f.axes(&b, s, "Sensitive time lag tau [ms]", "Critical interaction index n_crit")

	dashes := []string{"", "8,4", "2,3"}
	ly := f.top + 14
	for ei, envGrid := range bm.NCrit {
		color := s.seriesColor(ei)
		for fi, row := range envGrid {
			dash := dashes[fi%len(dashes)]
			f.polyline(&b, tauMs, row, color, dash, 1.5)
			label := fmt.Sprintf("%.0f Hz, %s", bm.Frequencies[fi], displayEnv(bm.Environments[ei]))
			legendEntry(&b, s, f.w-f.right-210, ly, color, dash, label)
			ly += 16
		}
	}
	svgClose(&b, s)
	return b.String()
}

// Published engine counts worth marking on the amplification figure.
var vehicleMarkers = map[int]string{
	6:  "Starship upper",
	9:  "Falcon 9",
	27: "Falcon Heavy",
	33: "Super Heavy",
}

// AmplificationSVG renders the coherent and incoherent scaling curves with
// the phase-locking risk zone between them and the vacuum damping margin
// on a right-hand axis.
func AmplificationSVG(res *physics.AmplificationResult, s Style) string {
	var b strings.Builder
	svgOpen(&b, s, "Thrust oscillation amplification vs engine count")
	if res == nil || len(res.Counts) == 0 {
		svgClose(&b, s)
		return b.String()
	}

	xs := make([]float64, len(res.Counts))
	for i, n := range res.Counts {
		xs[i] = float64(n)
	}
	maxY := res.Coherent[len(res.Coherent)-1]
	f := newFrame(s, xs[0], xs[len(xs)-1], 0, maxY*1.08)
	f.axes(&b, s, "Number of engines N", "Normalized total oscillation")

	// Risk zone between the two superposition limits.
	b.WriteString(`<polygon fill="` + s.ColorCoherent + `" fill-opacity="0.08" points="`)
	for i := range xs {
		fmt.Fprintf(&b, "%.1f,%.1f ", f.x(xs[i]), f.y(res.Coherent[i]))
	}
	for i := len(xs) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%.1f,%.1f ", f.x(xs[i]), f.y(res.Incoherent[i]))
	}
	b.WriteString("\"/>\n")

	f.polyline(&b, xs, res.Coherent, s.ColorCoherent, "", 2)
	f.polyline(&b, xs, res.Incoherent, s.ColorIncoherent, "", 2)

	for i, n := range res.Counts {
		label, ok := vehicleMarkers[n]
		if !ok {
			continue
		}
		px, py := f.x(xs[i]), f.y(res.Coherent[i])
		fmt.Fprintf(&b, `<path d="M %.1f %.1f l 5 5 l -5 5 l -5 -5 z" fill="%s"/>
`, px, py-5, s.ColorCoherent)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="%d" font-family="serif" font-weight="bold">%s</text>
`, px+8, py-8, s.FontSize-3, label)
	}

	// Damping margin on its own right-hand scale.
	mf := f
	mf.minY, mf.maxY = 0, 110
	mf.polyline(&b, xs, res.MarginPercent, s.ColorMargin, "2,3", 2)
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="%d" font-family="serif" text-anchor="middle" fill="%s" transform="rotate(90 %.1f %.1f)">Vacuum-to-Earth damping margin [%%]</text>
`, f.w-10, f.top+(f.h-f.top-f.bottom)/2, s.FontSize-1, s.ColorMargin, f.w-10, f.top+(f.h-f.top-f.bottom)/2)

	ly := f.top + 14
	legendEntry(&b, s, f.left+16, ly, s.ColorCoherent, "", "Coherent: N x single engine")
	legendEntry(&b, s, f.left+16, ly+18, s.ColorIncoherent, "", "Incoherent: sqrt(N) x single engine")
	legendEntry(&b, s, f.left+16, ly+36, s.ColorMargin, "2,3", "Damping margin [%]")
	svgClose(&b, s)
	return b.String()
}

// CanvasToSVG rasterizes a Braille canvas into SVG dots, for saving a
// terminal plot exactly as rendered.
func CanvasToSVG(c *viz.Canvas, scale float64) string {
	if c == nil {
		return ""
	}
	width := float64(c.Width) * scale * 2
	height := float64(c.Height) * scale * 4

	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotBits := [4][2]int{{0x01, 0x08}, {0x02, 0x10}, {0x04, 0x20}, {0x40, 0x80}}
	r := scale * 0.4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := c.Cell(col, row)
			if pattern == 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotBits[dy][dx] != 0 {
						cx := float64(col)*scale*2 + float64(dx)*scale + scale/2
						cy := float64(row)*scale*4 + float64(dy)*scale + scale/2
						fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, r)
					}
				}
			}
		}
	}
	b.WriteString("</g>\n</svg>")
	return b.String()
}
