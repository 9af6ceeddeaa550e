package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptiq/internal/ui/theme"
)

const bannerArt = `
  █████╗ ██████╗  █████╗ ██████╗ ████████╗██╗ ██████╗
 ██╔══██╗██╔══██╗██╔══██╗██╔══██╗╚══██╔══╝██║██╔═══██╗
 ███████║██║  ██║███████║██████╔╝   ██║   ██║██║   ██║
 ██╔══██║██║  ██║██╔══██║██╔═══╝    ██║   ██║██║▄▄ ██║
 ██║  ██║██████╔╝██║  ██║██║        ██║   ██║╚██████╔╝
 ╚═╝  ╚═╝╚═════╝ ╚═╝  ╚═╝╚═╝        ╚═╝   ╚═╝ ╚══▀▀═╝`

const bannerCompact = "A D A P T I Q"

// RenderBanner returns the banner styled in the primary color, falling
// back to spaced letters below 58 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 58 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
