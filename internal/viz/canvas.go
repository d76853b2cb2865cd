package viz

import (
	"image"
	"image/color"
	"image/color/palette"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells. Each cell carries the colour of the
// last dot drawn into it; terminals cannot colour single dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]string

	styles map[string]lipgloss.Style
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Ink:    make([][]string, h),
		styles: make(map[string]lipgloss.Style),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]string, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// SubWidth and SubHeight give the canvas size in dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set sets a dot at (x, y) in dot coordinates without changing the ink.
func (c *Canvas) Set(x, y int) {
	c.Paint(x, y, "")
}

// Paint sets a dot and, when ink is not empty, recolours its cell.
func (c *Canvas) Paint(x, y int, ink string) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if ink != "" {
		c.Ink[row][col] = ink
	}
}

// Unset clears a dot.
func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

// IsSet reports whether the dot at (x, y) is drawn.
func (c *Canvas) IsSet(x, y int) bool {
	row, col, ok := c.cell(x, y)
	if !ok {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Clone returns a deep copy sharing the style cache.
func (c *Canvas) Clone() *Canvas {
	out := &Canvas{
		Width:  c.Width,
		Height: c.Height,
		Grid:   make([][]rune, c.Height),
		Ink:    make([][]string, c.Height),
		styles: c.styles,
	}
	for i := range c.Grid {
		out.Grid[i] = append([]rune(nil), c.Grid[i]...)
		out.Ink[i] = append([]string(nil), c.Ink[i]...)
	}
	return out
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = ""
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, ink string) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Paint(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			break
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

// Circle draws the outline of a circle with the midpoint algorithm.
func (c *Canvas) Circle(cx, cy, r int, ink string) {
	if r <= 0 {
		c.Paint(cx, cy, ink)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			c.Paint(cx+p[0], cy+p[1], ink)
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// FillCircle draws a solid disc. A radius below one dot still draws the
// centre so small bodies stay visible.
func (c *Canvas) FillCircle(cx, cy, r int, ink string) {
	if r <= 0 {
		c.Paint(cx, cy, ink)
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Paint(cx+dx, cy+dy, ink)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			ink := c.Ink[i][j]
			if ink == "" || r == blank {
				b.WriteRune(r)
				continue
			}
			b.WriteString(c.style(ink).Render(string(r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Canvas) style(ink string) lipgloss.Style {
	s, ok := c.styles[ink]
	if !ok {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(ink))
		c.styles[ink] = s
	}
	return s
}

// Image rasterises the canvas with each dot drawn as a dotSize square.
func (c *Canvas) Image(dotSize int, inkColor func(string) color.Color) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, c.SubWidth()*dotSize, c.SubHeight()*dotSize), palette.Plan9)
	black := uint8(img.Palette.Index(color.Black))
	for i := range img.Pix {
		img.Pix[i] = black
	}
	for y := 0; y < c.SubHeight(); y++ {
		for x := 0; x < c.SubWidth(); x++ {
			if !c.IsSet(x, y) {
				continue
			}
			var col color.Color = color.White
			if ink := c.Ink[y/4][x/2]; ink != "" && inkColor != nil {
				col = inkColor(ink)
			}
			idx := uint8(img.Palette.Index(col))
			for py := 0; py < dotSize; py++ {
				for px := 0; px < dotSize; px++ {
					img.SetColorIndex(x*dotSize+px, y*dotSize+py, idx)
				}
			}
		}
	}
	return img
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
