package viz

import "strings"

// Braille cell dot layout, 2 columns by 4 rows:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// Unicode offset 0x2800.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a Braille pixel grid. Width and Height count characters; pixel
// coordinates run over (2*Width) x (4*Height) with the origin at the top
// left.
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
		for j := range c.cells[i] {
			c.cells[i][j] = brailleBase
		}
	}
	return c
}

// PixelWidth and PixelHeight are the addressable pixel dimensions.
func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

// Set turns on the pixel at (x, y). Out-of-range coordinates are ignored,
// so plot code can draw without clipping first.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col] |= dotBits[y%4][x%2]
}

// Cell returns the dot pattern of one character cell, 0 when empty.
func (c *Canvas) Cell(col, row int) int {
	return int(c.cells[row][col] - brailleBase)
}

// Clear resets every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = brailleBase
		}
	}
}

// Line draws from (x0, y0) to (x1, y1) with Bresenham stepping.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// VBar fills a one-pixel-wide column from yTop down to yBottom at x.
func (c *Canvas) VBar(x, yTop, yBottom int) {
	if yTop > yBottom {
		yTop, yBottom = yBottom, yTop
	}
	for y := yTop; y <= yBottom; y++ {
		c.Set(x, y)
	}
}

// Circle draws a circle of radius r around (cx, cy) with the midpoint
// algorithm. Radius 0 sets the single center pixel.
func (c *Canvas) Circle(cx, cy, r int) {
	if r <= 0 {
		c.Set(cx, cy)
		return
	}
	x, y := r, 0
	err := 1 - r
	for x >= y {
		c.Set(cx+x, cy+y)
		c.Set(cx+y, cy+x)
		c.Set(cx-y, cy+x)
		c.Set(cx-x, cy+y)
		c.Set(cx-x, cy-y)
		c.Set(cx-y, cy-x)
		c.Set(cx+y, cy-x)
		c.Set(cx+x, cy-y)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
