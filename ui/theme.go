package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Theme is a small colour palette applied to every primitive of the shell.
type Theme struct {
	Name            string
	Background      tcell.Color
	Text            tcell.Color
	Secondary       tcell.Color
	Border          tcell.Color
	Accent          tcell.Color
	FieldBackground tcell.Color
}

var (
	DarkTheme = Theme{
		Name:            "dark",
		Background:      tcell.ColorBlack,
		Text:            tcell.ColorWhite,
		Secondary:       tcell.ColorGray,
		Border:          tcell.ColorWhite,
		Accent:          tcell.ColorGreen,
		FieldBackground: tcell.ColorDarkBlue,
	}
	LightTheme = Theme{
		Name:            "light",
		Background:      tcell.ColorWhite,
		Text:            tcell.ColorBlack,
		Secondary:       tcell.ColorDarkSlateGray,
		Border:          tcell.ColorDarkGray,
		Accent:          tcell.ColorDarkGreen,
		FieldBackground: tcell.ColorLightGray,
	}
)

// ThemeByName returns the named theme, defaulting to dark.
func ThemeByName(name string) Theme {
	if name == LightTheme.Name {
		return LightTheme
	}
	return DarkTheme
}

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t.Name == LightTheme.Name {
		return DarkTheme
	}
	return LightTheme
}

// SetGlobalStyles makes primitives created afterwards use the theme.
func (t Theme) SetGlobalStyles() {
	tview.Styles.PrimitiveBackgroundColor = t.Background
	tview.Styles.ContrastBackgroundColor = t.FieldBackground
	tview.Styles.MoreContrastBackgroundColor = t.Accent
	tview.Styles.BorderColor = t.Border
	tview.Styles.TitleColor = t.Text
	tview.Styles.PrimaryTextColor = t.Text
	tview.Styles.SecondaryTextColor = t.Accent
	tview.Styles.TertiaryTextColor = t.Secondary
	tview.Styles.InverseTextColor = t.Background
	tview.Styles.ContrastSecondaryTextColor = t.Secondary
}

func (t Theme) applyBox(b *tview.Box) {
	b.SetBackgroundColor(t.Background)
	b.SetBorderColor(t.Border)
	b.SetTitleColor(t.Text)
}

func (t Theme) applyTextView(v *tview.TextView) {
	t.applyBox(v.Box)
	v.SetTextColor(t.Text)
}

func (t Theme) applyList(l *tview.List) {
	t.applyBox(l.Box)
	l.SetMainTextColor(t.Text).
		SetSecondaryTextColor(t.Secondary).
		SetSelectedBackgroundColor(t.Accent).
		SetSelectedTextColor(t.Background)
}

func (t Theme) applyForm(f *tview.Form) {
	t.applyBox(f.Box)
	f.SetLabelColor(t.Text).
		SetFieldBackgroundColor(t.FieldBackground).
		SetFieldTextColor(t.Text).
		SetButtonBackgroundColor(t.Accent).
		SetButtonTextColor(t.Background)
}
