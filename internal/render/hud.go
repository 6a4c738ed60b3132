package render

import (
	"fmt"

	"scriptbridge/internal/engine"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Status is the line of numbers shown above the diagnostics.
type Status struct {
	Scene    string
	Tick     uint64
	Entities int
	Scripts  int
	Paused   bool
}

// DrawHUD renders the status line and the last diagnostics below the view,
// then shows the frame.
func (r *Renderer) DrawHUD(st Status, logs []engine.LogEntry) {
	w, h := r.screen.Size()
	y := h - hudRows
	if y < 0 {
		r.screen.Show()
		return
	}
	r.drawHLine(y, w)

	line := fmt.Sprintf("[%s]  tick %d  entities %d  scripts %d", st.Scene, st.Tick, st.Entities, st.Scripts)
	if st.Paused {
		line += "  PAUSED"
	}
	r.drawText(0, y+1, w, line, styleStatus)

	shown := hudRows - 2
	start := max(len(logs)-shown, 0)
	for i, e := range logs[start:] {
		text := fmt.Sprintf("%-5s %s", e.Level, e.Text)
		r.drawText(0, y+2+i, w, text, logStyle(e.Level))
	}
	r.screen.Show()
}

func (r *Renderer) drawHLine(y, w int) {
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, styleRule)
	}
}

// drawText writes text from column x, clipped at maxW columns. Wide runes
// advance two columns.
func (r *Renderer) drawText(x, y, maxW int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		cw := runewidth.RuneWidth(ch)
		if cw == 0 {
			continue
		}
		if col+cw > maxW {
			return
		}
		r.screen.SetContent(col, y, ch, nil, style)
		col += cw
	}
}
