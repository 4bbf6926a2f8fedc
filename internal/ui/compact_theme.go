package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/ytget/chroma-browser/internal/config"
)

// CompactTheme defines a compact theme for the UI with reduced padding and a
// configurable text size. Heading and caption sizes scale with the text size.
type CompactTheme struct {
	textSize float32
}

// NewCompactTheme creates a new compact theme. A non-positive textSize uses
// config.DefaultTextSize.
func NewCompactTheme(textSize float32) fyne.Theme {
	if textSize <= 0 {
		textSize = config.DefaultTextSize
	}
	return &CompactTheme{textSize: textSize}
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return color.RGBA{R: 46, G: 160, B: 67, A: 255}
	case theme.ColorNameError:
		return color.RGBA{R: 183, G: 28, B: 28, A: 255}
	case theme.ColorNameWarning:
		return color.RGBA{R: 255, G: 193, B: 7, A: 255}
	case theme.ColorNamePrimary:
		return color.RGBA{R: 25, G: 118, B: 210, A: 255}
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return color.RGBA{R: 18, G: 18, B: 18, A: 255}
		}
		return color.RGBA{R: 250, G: 250, B: 250, A: 255}
	case theme.ColorNameForeground:
		if variant == theme.VariantDark {
			return color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.RGBA{R: 33, G: 33, B: 33, A: 255}
	}

	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameScrollBarSmall:
		return 3
	case theme.SizeNameSeparatorThickness:
		return 1
	case theme.SizeNameText:
		return t.textSize
	case theme.SizeNameHeadingText:
		return t.textSize + 3
	case theme.SizeNameSubHeadingText:
		return t.textSize
	case theme.SizeNameCaptionText:
		return t.textSize - 3
	case theme.SizeNameInputBorder:
		return 1
	case theme.SizeNameInputRadius:
		return 3
	case theme.SizeNameSelectionRadius:
		return 2
	}

	return theme.DefaultTheme().Size(name)
}
