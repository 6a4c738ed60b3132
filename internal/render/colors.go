package render

import (
	"scriptbridge/internal/bridge"

	"github.com/gdamore/tcell/v2"
)

// Emoji carry their own colours; styles only tint the background and the
// ASCII parts of the frame.
var (
	styleGround  = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray).Background(tcell.ColorBlack)
	styleEntity  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	styleTrigger = tcell.StyleDefault.Foreground(tcell.ColorAqua).Background(tcell.ColorNavy)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleRule    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// logColors colours diagnostics by level.
var logColors = map[bridge.LogLevel]tcell.Color{
	bridge.LogDebug: tcell.ColorGray,
	bridge.LogInfo:  tcell.ColorLightYellow,
	bridge.LogWarn:  tcell.ColorOrange,
	bridge.LogError: tcell.ColorRed,
}

func logStyle(level bridge.LogLevel) tcell.Style {
	c, ok := logColors[level]
	if !ok {
		c = tcell.ColorWhite
	}
	return tcell.StyleDefault.Foreground(c)
}
