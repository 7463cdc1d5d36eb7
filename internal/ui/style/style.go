// Package style holds the colors and icons shared by every terminal writer.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Plum   = lipgloss.Color("#7E3F8F")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Blue   = lipgloss.Color("#2F80ED")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Reload  = "↻"
)

// KindColor returns the color used to label an asset kind in log lines.
func KindColor(kind string) lipgloss.Color {
	switch kind {
	case "css":
		return Blue
	case "js":
		return Yellow
	case "html":
		return Plum
	default:
		return Slate
	}
}
