package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	HiddenFg    tcell.Color
	DirectoryFg tcell.Color
	SymlinkFg   tcell.Color
	FileFg      tcell.Color
	SizeFg      tcell.Color
	TagFg       tcell.Color
	MarkFg      tcell.Color
	HeaderBg    tcell.Color
	HeaderFg    tcell.Color
	StatusBg    tcell.Color
	StatusFg    tcell.Color
	SuccessFg   tcell.Color
	ErrorFg     tcell.Color
	RunningFg   tcell.Color
	BorderFg    tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HiddenFg:    tcell.ColorLightSlateGray,
		DirectoryFg: tcell.Color33,
		SymlinkFg:   tcell.Color51,
		FileFg:      tcell.ColorDefault,
		SizeFg:      tcell.Color250,
		TagFg:       tcell.ColorRed,
		MarkFg:      tcell.ColorYellow,
		HeaderBg:    tcell.ColorDefault,
		HeaderFg:    tcell.ColorDefault,
		StatusBg:    tcell.ColorDefault,
		StatusFg:    tcell.ColorDefault,
		SuccessFg:   tcell.ColorGreen,
		ErrorFg:     tcell.ColorRed,
		RunningFg:   tcell.ColorYellow,
		BorderFg:    tcell.Color240,
	}
}

// Base is the default text style of the theme.
func (t ColorTheme) Base() tcell.Style {
	return tcell.StyleDefault.Background(t.Background).Foreground(t.Foreground)
}

// Fg returns the base style with a different foreground.
func (t ColorTheme) Fg(c tcell.Color) tcell.Style {
	return t.Base().Foreground(c)
}
