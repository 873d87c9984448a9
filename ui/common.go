package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/deathrjj/ghusers/models"
	"github.com/deathrjj/ghusers/session"
)

// UpdateResultList refreshes the list with the users of page.
func UpdateResultList(list *tview.List, page models.SearchPage) {
	current := list.GetCurrentItem()
	list.Clear()
	for _, u := range page.Items {
		main, secondary := ResultItem(u)
		list.AddItem(main, secondary, 0, nil)
	}
	if current >= 0 && current < len(page.Items) {
		list.SetCurrentItem(current)
	}
}

// BottomBarText returns the key help for a view.
func BottomBarText(view session.View, focusedForm bool) string {
	switch {
	case focusedForm:
		return "⏎ : Search | ⇥ : Results | Ctrl+T: Theme | Ctrl+C: Quit"
	case view == session.ViewResults:
		return "↑/↓: Move Highlight | ⏎ : Open Profile | n/p: Page | ⇥ : Search Form | q: Quit"
	case view == session.ViewProfile:
		return "Esc/b: Back to Results | c: Copy Profile URL | q: Quit"
	case view == session.ViewSearchLoading, view == session.ViewProfileLoading:
		return "Loading..."
	case view == session.ViewSearchError, view == session.ViewProfileError:
		return "⏎ : Choose"
	}
	return "⇥ : Search Form | Ctrl+T: Theme | Ctrl+C: Quit"
}

// NewFailureModal builds the modal shown for a failure. onAction runs when
// the single button is pressed.
func NewFailureModal(info FailureInfo, onAction func()) *tview.Modal {
	label := info.Action
	if !info.ShowRetry {
		label = "OK"
	}
	return tview.NewModal().
		SetText(info.Icon + "  " + info.Title + "\n\n" + info.Message).
		AddButtons([]string{label}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			onAction()
		})
}

// CreateErrorModal creates a modal to display a plain error message.
func CreateErrorModal(app *tview.Application, pages *tview.Pages, name, message string, returnFocus tview.Primitive) *tview.Modal {
	return tview.NewModal().
		SetText(message).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			pages.RemovePage(name)
			app.SetFocus(returnFocus)
		})
}

type inputCapturer interface {
	tview.Primitive
	GetInputCapture() func(event *tcell.EventKey) *tcell.EventKey
	SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) *tview.Box
}

// SetupKeyboardNavigation makes Tab on any of components move focus to
// target, keeping any input capture already installed.
func SetupKeyboardNavigation(app *tview.Application, target tview.Primitive, components ...inputCapturer) {
	for _, component := range components {
		original := component.GetInputCapture()
		component.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
			if event.Key() == tcell.KeyTab {
				app.SetFocus(target)
				return nil
			}
			if original != nil {
				return original(event)
			}
			return event
		})
	}
}
