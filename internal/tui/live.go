package tui

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	liveWidth   = 70
	liveHeight  = 18
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer animates a parameter sweep in the terminal, one operating
// point per frame. Each frame shows the per-mode damping bars of the ring
// at the current parameter value plus the running margin history. The
// analysis itself is instantaneous; Frame paces the animation to the
// configured frame rate.
type LiveRenderer struct {
	title     string
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	margins   []float64
}

func NewLiveRenderer(title string, frameRate int) *LiveRenderer {
	if frameRate < 1 {
		frameRate = 12
	}
	canvas := make([][]rune, liveHeight)
	for i := range canvas {
		canvas[i] = make([]rune, liveWidth)
	}
	return &LiveRenderer{
		title:     title,
		frameRate: frameRate,
		canvas:    canvas,
		margins:   make([]float64, 0, 60),
	}
}

// Frame renders one sweep sample. The label names the swept value, e.g.
// "tau = 2.750 ms".
func (r *LiveRenderer) Frame(label string, zeta []float64, margin float64, stable bool) {
	if !r.lastFrame.IsZero() {
		interval := time.Second / time.Duration(r.frameRate)
		if wait := interval - time.Since(r.lastFrame); wait > 0 {
			time.Sleep(wait)
		}
	}
	r.lastFrame = time.Now()

	r.margins = append(r.margins, margin)
	if len(r.margins) > 60 {
		r.margins = r.margins[1:]
	}

	r.clear()
	r.drawBars(zeta)
	r.render(label, zeta, margin, stable)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < liveWidth && y >= 0 && y < liveHeight {
		r.canvas[y][x] = c
	}
}

// drawBars draws one vertical bar per mode around a zero axis. Negative
// damping hangs below the axis; that is the unstable direction.
func (r *LiveRenderer) drawBars(zeta []float64) {
	if len(zeta) == 0 {
		return
	}
	axis := liveHeight * 3 / 4
	for i := 5; i < liveWidth-5; i++ {
		r.set(i, axis, '-')
	}

	maxVal := 0.0
	for _, v := range zeta {
		if math.Abs(v) > maxVal {
			maxVal = math.Abs(v)
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	bw := (liveWidth - 12) / len(zeta)
	if bw < 2 {
		bw = 2
	}
	span := axis - 2
	for i, v := range zeta {
		bx := 7 + i*bw
		bh := int(v / maxVal * float64(span))
		if bh >= 0 {
			for y := axis - 1; y >= axis-bh && y >= 1; y-- {
				r.set(bx, y, '#')
			}
		} else {
			for y := axis + 1; y <= axis-bh && y < liveHeight-1; y++ {
				r.set(bx, y, '!')
			}
		}
	}
}

func (r *LiveRenderer) render(label string, zeta []float64, margin float64, stable bool) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString("  " + cyan.Render(r.title) + "  " + white.Render(label) + "\n")
	b.WriteString("  " + dimmer.Render(strings.Repeat("─", liveWidth)) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + dimmer.Render(strings.Repeat("─", liveWidth)) + "\n")

	verdict := green.Render("STABLE")
	if !stable {
		verdict = red.Render("UNSTABLE")
	}
	minZeta := math.Inf(1)
	for _, v := range zeta {
		if v < minZeta {
			minZeta = v
		}
	}
	b.WriteString("  " + dim.Render(fmt.Sprintf("%d modes", len(zeta))) +
		white.Render(fmt.Sprintf("  min zeta=%+.4f  margin=%+.4f  ", minZeta, margin)) + verdict + "\n")
	if len(r.margins) > 1 {
		b.WriteString("  " + dim.Render("margin ") + cyan.Render(sparkline(r.margins, 40)) + "\n")
	}

	fmt.Print(b.String())
}

func (r *LiveRenderer) Start() { fmt.Print(hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Print(showCursor) }
