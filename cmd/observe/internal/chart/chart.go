// Package chart records the history of an observed value and renders it as a
// PNG line chart.
package chart

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	defaultWidth  = 480
	defaultHeight = 240
	margin        = 24
)

var (
	background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	axis       = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	line       = color.RGBA{R: 0x1e, G: 0x63, B: 0xd6, A: 0xff}
	ink        = color.RGBA{A: 0xff}
)

// Chart is an observer that keeps every value it receives.
type Chart struct {
	// Width and Height of the rendered image. Zero means the default size.
	Width, Height int

	history []int64
}

// New returns an empty Chart of the default size.
func New() *Chart {
	return &Chart{Width: defaultWidth, Height: defaultHeight}
}

// Update implements observable.Observer.
func (c *Chart) Update(value int64) {
	c.history = append(c.history, value)
}

// History returns the recorded values in arrival order.
func (c *Chart) History() []int64 {
	return c.history
}

func (c *Chart) size() (int, int) {
	w, h := c.Width, c.Height
	if w <= 2*margin {
		w = defaultWidth
	}
	if h <= 2*margin {
		h = defaultHeight
	}
	return w, h
}

// Render draws the recorded history. An empty history yields the axes only.
func (c *Chart) Render() *image.RGBA {
	w, h := c.size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	left, right := margin, w-margin
	top, bottom := margin, h-margin
	drawLine(img, left, bottom, right, bottom, axis)
	drawLine(img, left, top, left, bottom, axis)

	if len(c.history) == 0 {
		return img
	}

	lo, hi := c.history[0], c.history[0]
	for _, v := range c.history {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	// float64 so that the span of extreme values does not overflow.
	span := float64(hi) - float64(lo)
	if span == 0 {
		span = 1
	}

	point := func(i int) (int, int) {
		x := left
		if n := len(c.history); n > 1 {
			x = left + i*(right-left)/(n-1)
		}
		frac := (float64(c.history[i]) - float64(lo)) / span
		y := bottom - int(frac*float64(bottom-top))
		return x, min(max(y, top), bottom)
	}

	px, py := point(0)
	img.Set(px, py, line)
	for i := 1; i < len(c.history); i++ {
		x, y := point(i)
		drawLine(img, px, py, x, y, line)
		px, py = x, y
	}

	label(img, left, top-8, "max "+strconv.FormatInt(hi, 10), false)
	label(img, left, h-8, "min "+strconv.FormatInt(lo, 10), false)
	label(img, right, top-8, "last "+strconv.FormatInt(c.history[len(c.history)-1], 10), true)
	return img
}

// WritePNG renders the chart and encodes it to w.
func (c *Chart) WritePNG(w io.Writer) error {
	return png.Encode(w, c.Render())
}

// label draws s with its baseline at y. With alignRight, s ends at x.
func label(dst draw.Image, x, y int, s string, alignRight bool) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
	}
	if alignRight {
		x -= d.MeasureString(s).Round()
	}
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

// drawLine draws a line between two points with Bresenham's algorithm. Points
// outside dst are moved to its nearest edge first.
func drawLine(dst draw.Image, x0, y0, x1, y1 int, c color.Color) {
	r := dst.Bounds()
	if r.Empty() {
		return
	}
	x0, y0 = clampPoint(r, x0, y0)
	x1, y1 = clampPoint(r, x1, y1)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		dst.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func clampPoint(r image.Rectangle, x, y int) (int, int) {
	return min(max(x, r.Min.X), r.Max.X-1), min(max(y, r.Min.Y), r.Max.Y-1)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
