package draw

import (
	"math"
	"strings"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to cell pixels.
type Canvas struct {
	width          int    // Columns
	height         int    // Rows
	subPixelHeight int    // height * 2
	pixels         []bool // Flat slice: [y * width + x] - true if pixel is set

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // (width-1) / logicalWidth
	scaleY        float64 // (height*2-1) / logicalHeight
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to pixels.
// Pixel (0,0) is the top-left corner; the last logical coordinate maps to the
// last pixel.
func NewScaledCanvas(width, height int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.resize(width, height)
	return c
}

// resize updates the canvas for new dimensions while keeping the logical size.
func (c *Canvas) resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	subPixelHeight := height * 2

	// Reallocate if size changed
	if width != c.width || height != c.height || c.pixels == nil {
		c.pixels = make([]bool, subPixelHeight*width)
		c.width = width
		c.height = height
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = scale(width, c.logicalWidth)
	c.scaleY = scale(subPixelHeight, c.logicalHeight)
}

// scale maps [0, logical] onto [0, pixels-1].
func scale(pixels int, logical float64) float64 {
	if pixels <= 1 || logical <= 0 {
		return 0
	}
	return float64(pixels-1) / logical
}

// setPixel sets a pixel at pixel coordinates (no scaling).
func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.width && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.width+x] = true
	}
}

// Set sets a pixel at logical coordinates.
func (c *Canvas) Set(x, y float64) {
	c.setPixel(c.toPixel(x, y))
}

func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Round(x * c.scaleX)), int(math.Round(y * c.scaleY))
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x1, y1 := c.toPixel(p1.X, p1.Y)
	x2, y2 := c.toPixel(p2.X, p2.Y)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolyline connects consecutive points.
func (c *Canvas) DrawPolyline(points []Point) {
	if len(points) == 1 {
		c.Set(points[0].X, points[0].Y)
	}
	for i := 1; i < len(points); i++ {
		c.DrawLine(points[i-1], points[i])
	}
}

// Lines renders the canvas as rows of half-block characters, each exactly
// as wide as the canvas.
func (c *Canvas) Lines() []string {
	lines := make([]string, c.height)
	var b strings.Builder
	for row := range c.height {
		b.Reset()
		topOffset := row * 2 * c.width
		bottomOffset := topOffset + c.width

		for col := range c.width {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]

			switch {
			case top && bottom:
				b.WriteRune(BlockFull)
			case top:
				b.WriteRune(BlockUpperHalf)
			case bottom:
				b.WriteRune(BlockLowerHalf)
			default:
				b.WriteRune(BlockEmpty)
			}
		}
		lines[row] = b.String()
	}
	return lines
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Plot draws values left to right as a line chart width columns by height
// rows, scaled between their minimum and maximum. A flat series is drawn
// along the bottom.
func Plot(values []float64, width, height int) []string {
	if len(values) == 0 || width <= 0 || height <= 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo

	logicalWidth := float64(max(len(values)-1, 1))
	c := NewScaledCanvas(width, height, logicalWidth, 1)
	points := make([]Point, len(values))
	for i, v := range values {
		y := 1.0 // Bottom row
		if span > 0 && !math.IsInf(span, 0) {
			y = 1 - (v-lo)/span
		}
		points[i] = Point{X: float64(i), Y: y}
	}
	c.DrawPolyline(points)
	return c.Lines()
}
