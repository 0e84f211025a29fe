package tui

import (
	"github.com/gdamore/tcell"
)

// DrawString writes str starting at x, y, one rune per cell.
func DrawString(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for _, c := range str {
		s.SetContent(x, y, c, nil, style)
		x++
	}
}

// Box outlines a w by h rectangle with its top left corner at x, y.
func Box(s tcell.Screen, x, y, w, h int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)

	s.SetContent(x, y, tcell.RuneULCorner, nil, style)
	s.SetContent(x+w, y, tcell.RuneURCorner, nil, style)
	s.SetContent(x, y+h, tcell.RuneLLCorner, nil, style)
	s.SetContent(x+w, y+h, tcell.RuneLRCorner, nil, style)

	// top/bottom
	for col := x + 1; col < x+w; col++ {
		s.SetContent(col, y, tcell.RuneHLine, nil, style)
		s.SetContent(col, y+h, tcell.RuneHLine, nil, style)
	}

	// left/right
	for row := y + 1; row < y+h; row++ {
		s.SetContent(x, row, tcell.RuneVLine, nil, style)
		s.SetContent(x+w, row, tcell.RuneVLine, nil, style)
	}
}

// LogBox draws lines inside a labelled box, cutting off anything too wide.
func LogBox(s tcell.Screen, x, y, w, h int, lines []string) {
	Box(s, x, y, w, h)

	label := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	DrawString(s, x+2, y, label, " Log ")

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	for i, line := range lines {
		if i >= h-1 {
			break
		}

		if len(line) > w-3 {
			line = line[:w-6] + "..."
		}

		DrawString(s, x+2, y+1+i, style, line)
	}
}
