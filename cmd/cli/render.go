package main

import (
	"math"
	"strings"

	"masterplan/internal/viewport"
	"masterplan/pkg/models"
)

// A terminal cell covers cellWidth screen units across and twice that down.
type grid struct {
	cols, rows int
	cellWidth  float64
}

func (g grid) container() viewport.Size {
	return viewport.Size{W: float64(g.cols) * g.cellWidth, H: float64(g.rows) * 2 * g.cellWidth}
}

// center returns the screen point in the middle of a cell.
func (g grid) center(col, row int) viewport.Point {
	return viewport.Point{
		X: (float64(col) + 0.5) * g.cellWidth,
		Y: (float64(row) + 0.5) * 2 * g.cellWidth,
	}
}

func (g grid) cell(p viewport.Point) (int, int, bool) {
	col := int(math.Floor(p.X / g.cellWidth))
	row := int(math.Floor(p.Y / (2 * g.cellWidth)))
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return 0, 0, false
	}
	return col, row, true
}

func statusMarker(s models.PlotStatus) rune {
	switch s {
	case models.StatusReserved:
		return '+'
	case models.StatusSold:
		return 'x'
	}
	return 'o'
}

// render draws the image area as dots and each label as a status marker
// followed by its text. Later labels draw over earlier ones.
func render(g grid, s viewport.State, image viewport.Size, labels []viewport.Label) []string {
	if g.cols <= 0 || g.rows <= 0 {
		return nil
	}
	cells := make([][]rune, g.rows)
	for r := range cells {
		cells[r] = []rune(strings.Repeat(" ", g.cols))
	}

	if !image.Empty() {
		tl := viewport.ImageToScreen(s, viewport.Point{})
		br := viewport.ImageToScreen(s, viewport.Point{X: image.W, Y: image.H})
		for r := 0; r < g.rows; r++ {
			for c := 0; c < g.cols; c++ {
				p := g.center(c, r)
				if p.X >= tl.X && p.X <= br.X && p.Y >= tl.Y && p.Y <= br.Y {
					cells[r][c] = '.'
				}
			}
		}
	}

	for _, l := range labels {
		col, row, ok := g.cell(l.At)
		if !ok {
			continue
		}
		text := l.Text
		if l.Selected {
			text = "[" + text + "]"
		}
		cells[row][col] = statusMarker(l.Status)
		for i, ch := range []rune(text) {
			if col+1+i >= g.cols {
				break
			}
			cells[row][col+1+i] = ch
		}
	}

	lines := make([]string, g.rows)
	for r := range cells {
		lines[r] = strings.TrimRight(string(cells[r]), " ")
	}
	return lines
}
