package ui

import "github.com/gdamore/tcell/v2"

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor           tcell.Color
	FgColor           tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	NumericKeyColor   tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	AccentColor       tcell.Color
	MutedColor        tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color
}

// DarkTheme returns the default dark theme.
func DarkTheme() *Theme {
	return &Theme{
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorCadetBlue,
		BorderColor:       tcell.ColorDodgerBlue,
		BorderFocusColor:  tcell.ColorLightSkyBlue,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     tcell.ColorAqua,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorOrange,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorAqua,
		MenuKeyColor:      tcell.ColorDodgerBlue,
		NumericKeyColor:   tcell.ColorFuchsia,
		TitleColor:        tcell.ColorFuchsia,
		CounterColor:      tcell.ColorPapayaWhip,
		AccentColor:       tcell.ColorMediumSpringGreen,
		MutedColor:        tcell.ColorGray,
		FlashInfoColor:    tcell.ColorNavajoWhite,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.ColorDodgerBlue,
	}
}

// LightTheme returns the light variant selected from appearance settings.
func LightTheme() *Theme {
	return &Theme{
		BgColor:           tcell.ColorWhiteSmoke,
		FgColor:           tcell.ColorDarkSlateGray,
		BorderColor:       tcell.ColorSteelBlue,
		BorderFocusColor:  tcell.ColorRoyalBlue,
		TableHeaderFg:     tcell.ColorBlack,
		TableHeaderBg:     tcell.ColorWhiteSmoke,
		TableCursorFg:     tcell.ColorWhite,
		TableCursorBg:     tcell.ColorSteelBlue,
		CrumbActiveFg:     tcell.ColorWhite,
		CrumbActiveBg:     tcell.ColorDarkOrange,
		CrumbInactiveFg:   tcell.ColorWhite,
		CrumbInactiveBg:   tcell.ColorSteelBlue,
		MenuKeyColor:      tcell.ColorRoyalBlue,
		NumericKeyColor:   tcell.ColorDarkMagenta,
		TitleColor:        tcell.ColorDarkMagenta,
		CounterColor:      tcell.ColorSaddleBrown,
		AccentColor:       tcell.ColorSeaGreen,
		MutedColor:        tcell.ColorDarkGray,
		FlashInfoColor:    tcell.ColorDarkGoldenrod,
		FlashWarnColor:    tcell.ColorDarkOrange,
		FlashErrColor:     tcell.ColorFireBrick,
		PromptBorderColor: tcell.ColorSteelBlue,
	}
}

// ThemeByName maps a config theme name to a Theme. Unknown names get dark.
func ThemeByName(name string) *Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}
