package ui

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/deathrjj/ghusers/config"
	"github.com/deathrjj/ghusers/github"
	"github.com/deathrjj/ghusers/models"
	"github.com/deathrjj/ghusers/session"
)

const (
	pageMain    = "main"
	pageFailure = "failure"
	pageNotice  = "notice"

	contentStatus  = "status"
	contentResults = "results"
	contentProfile = "profile"
)

// FormValues is the raw text of the search form.
type FormValues struct {
	Username string
	Location string
	MinRepos string
}

// Criteria converts the form text into search criteria.
func (v FormValues) Criteria() models.SearchCriteria {
	return models.NewSearchCriteria(v.Username, v.Location, v.MinRepos)
}

// IsZero reports whether every field is blank.
func (v FormValues) IsZero() bool {
	return strings.TrimSpace(v.Username) == "" &&
		strings.TrimSpace(v.Location) == "" &&
		strings.TrimSpace(v.MinRepos) == ""
}

// StepMinRepos adds delta to a minimum repository count, never going below
// zero. Non-numeric input counts as zero.
func StepMinRepos(value string, delta int) string {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		n = 0
	}
	n += delta
	if n < 0 {
		n = 0
	}
	return strconv.Itoa(n)
}

// SearchUI handles the search and profile UI flow
type SearchUI struct {
	App        *tview.Application
	Controller *session.Controller
	Prefs      *config.Prefs
	Logger     *slog.Logger

	ctx    context.Context
	theme  Theme
	values FormValues
	state  session.State

	pages        *tview.Pages
	content      *tview.Pages
	form         *tview.Form
	resultsPanel *tview.Flex
	resultList   *tview.List
	pager        *tview.TextView
	profileView  *tview.TextView
	statusView   *tview.TextView
	bottomBar    *tview.TextView
	layout       *tview.Flex
}

// NewSearchUI creates a new search UI instance
func NewSearchUI(app *tview.Application, controller *session.Controller, prefs *config.Prefs, logger *slog.Logger) *SearchUI {
	if prefs == nil {
		prefs = &config.Prefs{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SearchUI{
		App:        app,
		Controller: controller,
		Prefs:      prefs,
		Logger:     logger,
		theme:      ThemeByName(prefs.Theme),
	}
}

// Start builds the layout, subscribes to session transitions and, when
// initial has any field set, submits it right away.
func (ui *SearchUI) Start(ctx context.Context, initial FormValues) {
	ui.ctx = ctx
	ui.values = initial
	ui.theme.SetGlobalStyles()

	ui.buildForm()
	ui.buildResults()
	ui.buildProfile()

	ui.statusView = tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	ui.content = tview.NewPages().
		AddPage(contentStatus, ui.statusView, true, true).
		AddPage(contentResults, ui.resultsPanel, true, false).
		AddPage(contentProfile, ui.profileView, true, false)

	ui.bottomBar = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	ui.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.form, 5, 0, true).
		AddItem(ui.content, 0, 1, false).
		AddItem(ui.bottomBar, 1, 0, false)

	ui.pages = tview.NewPages().AddPage(pageMain, ui.layout, true, true)

	SetupKeyboardNavigation(ui.App, ui.form, ui.resultList, ui.profileView)

	ui.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlT {
			ui.toggleTheme()
			return nil
		}
		return event
	})

	ui.Controller.Subscribe(func(st session.State) {
		ui.App.QueueUpdateDraw(func() {
			ui.render(st)
		})
	})

	ui.applyTheme()
	ui.render(ui.Controller.State())
	ui.App.SetRoot(ui.pages, true).SetFocus(ui.form)

	if !initial.IsZero() {
		ui.submit()
	}
}

func (ui *SearchUI) buildForm() {
	ui.form = tview.NewForm().SetHorizontal(true)
	ui.form.AddInputField("Username", ui.values.Username, 20, nil, func(text string) {
		ui.values.Username = text
	})
	ui.form.AddInputField("Location", ui.values.Location, 20, nil, func(text string) {
		ui.values.Location = text
	})
	ui.form.AddInputField("Min repos", ui.values.MinRepos, 6, tview.InputFieldInteger, func(text string) {
		ui.values.MinRepos = text
	})
	ui.form.AddButton("Search", ui.submit)
	ui.form.SetCancelFunc(ui.focusContent)
	ui.form.SetBorder(true).SetTitle("Search GitHub Users")

	if field, ok := ui.form.GetFormItemByLabel("Min repos").(*tview.InputField); ok {
		field.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
			switch event.Key() {
			case tcell.KeyUp:
				field.SetText(StepMinRepos(field.GetText(), 1))
				return nil
			case tcell.KeyDown:
				field.SetText(StepMinRepos(field.GetText(), -1))
				return nil
			case tcell.KeyEnter:
				ui.submit()
				return nil
			}
			return event
		})
	}
	for _, label := range []string{"Username", "Location"} {
		if field, ok := ui.form.GetFormItemByLabel(label).(*tview.InputField); ok {
			field.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
				if event.Key() == tcell.KeyEnter {
					ui.submit()
					return nil
				}
				return event
			})
		}
	}
}

func (ui *SearchUI) buildResults() {
	ui.resultList = tview.NewList().ShowSecondaryText(true)
	ui.resultList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		ui.selectUser(index)
	})
	ui.resultList.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyRight, isRune(event, 'n'):
			ui.changePage(1)
			return nil
		case event.Key() == tcell.KeyLeft, isRune(event, 'p'):
			ui.changePage(-1)
			return nil
		case isRune(event, 'q'):
			ui.App.Stop()
			return nil
		}
		return event
	})

	ui.pager = tview.NewTextView().SetTextAlign(tview.AlignCenter)

	ui.resultsPanel = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.resultList, 0, 1, true).
		AddItem(ui.pager, 1, 0, false)
	ui.resultsPanel.SetBorder(true)
}

func (ui *SearchUI) buildProfile() {
	ui.profileView = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	ui.profileView.SetBorder(true).SetTitle("Profile")
	ui.profileView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape, event.Key() == tcell.KeyBackspace,
			event.Key() == tcell.KeyBackspace2, isRune(event, 'b'):
			ui.back()
			return nil
		case isRune(event, 'c'):
			ui.copyProfileURL()
			return nil
		case isRune(event, 'q'):
			ui.App.Stop()
			return nil
		}
		return event
	})
}

func isRune(event *tcell.EventKey, r rune) bool {
	return event.Key() == tcell.KeyRune && event.Rune() == r
}

// render draws st. It runs on the application goroutine.
func (ui *SearchUI) render(st session.State) {
	ui.state = st
	view := st.View()

	if button := ui.form.GetButton(0); button != nil {
		button.SetDisabled(st.SearchLoading)
	}
	ui.pages.RemovePage(pageFailure)

	switch view {
	case session.ViewIdle:
		ui.showStatus("Enter a username, a location or a minimum repository count and press Enter.")
		ui.App.SetFocus(ui.form)
	case session.ViewSearchLoading:
		ui.showStatus("Searching GitHub users...")
	case session.ViewProfileLoading:
		ui.showStatus("Loading user details and calculating stars...")
	case session.ViewResults:
		ui.showResults(st.CurrentPage)
		ui.App.SetFocus(ui.resultList)
	case session.ViewProfile:
		ui.showProfile(*st.SelectedProfile)
		ui.App.SetFocus(ui.profileView)
	case session.ViewSearchError:
		ui.showStatus("")
		ui.showFailure(st.SearchError, ui.retrySearch)
	case session.ViewProfileError:
		ui.showResults(st.CurrentPage)
		ui.showFailure(st.ProfileError, ui.retryProfile)
	}

	ui.bottomBar.SetText(BottomBarText(view, ui.form.HasFocus()))
}

func (ui *SearchUI) showStatus(text string) {
	ui.statusView.SetText("\n\n" + text)
	ui.content.SwitchToPage(contentStatus)
}

func (ui *SearchUI) showResults(page models.SearchPage) {
	UpdateResultList(ui.resultList, page)
	ui.resultsPanel.SetTitle(ResultsHeader(page))
	ui.pager.SetText(PagerLabel(page))
	ui.content.SwitchToPage(contentResults)
}

func (ui *SearchUI) showProfile(profile models.UserProfile) {
	ui.profileView.SetText(FormatProfile(profile)).ScrollToBeginning()
	ui.profileView.SetTitle("@" + profile.Login)
	ui.content.SwitchToPage(contentProfile)
}

func (ui *SearchUI) showFailure(f *github.Failure, action func()) {
	modal := NewFailureModal(DescribeFailure(f), func() {
		ui.pages.RemovePage(pageFailure)
		action()
	})
	modal.SetBackgroundColor(ui.theme.FieldBackground)
	modal.SetTextColor(ui.theme.Text)
	ui.pages.AddPage(pageFailure, modal, false, true)
	ui.App.SetFocus(modal)
}

func (ui *SearchUI) showNotice(message string) {
	returnFocus := ui.App.GetFocus()
	ui.pages.AddPage(pageNotice, CreateErrorModal(ui.App, ui.pages, pageNotice, message, returnFocus), false, true)
}

func (ui *SearchUI) focusContent() {
	switch ui.state.View() {
	case session.ViewResults:
		ui.App.SetFocus(ui.resultList)
	case session.ViewProfile:
		ui.App.SetFocus(ui.profileView)
	}
	ui.bottomBar.SetText(BottomBarText(ui.state.View(), ui.form.HasFocus()))
}

func (ui *SearchUI) applyTheme() {
	ui.theme.SetGlobalStyles()
	ui.theme.applyForm(ui.form)
	ui.theme.applyList(ui.resultList)
	ui.theme.applyBox(ui.resultsPanel.Box)
	ui.theme.applyTextView(ui.pager)
	ui.theme.applyTextView(ui.profileView)
	ui.theme.applyTextView(ui.statusView)
	ui.theme.applyTextView(ui.bottomBar)
	ui.theme.applyBox(ui.layout.Box)
	ui.theme.applyBox(ui.content.Box)
	ui.theme.applyBox(ui.pages.Box)
}

func (ui *SearchUI) toggleTheme() {
	ui.theme = ui.theme.Toggled()
	ui.applyTheme()
	if err := ui.Prefs.SetTheme(ui.theme.Name); err != nil {
		ui.Logger.Warn("failed to save theme preference", slog.String("error", err.Error()))
	}
}

func (ui *SearchUI) submit() {
	if ui.state.SearchLoading {
		return
	}
	criteria := ui.values.Criteria()
	go ui.Controller.Submit(ui.ctx, criteria)
}

func (ui *SearchUI) changePage(delta int) {
	n := ui.state.CurrentPage.PageNumber + delta
	if !ui.state.CurrentPage.HasPage(n) {
		return
	}
	go ui.Controller.ChangePage(ui.ctx, n)
}

func (ui *SearchUI) selectUser(index int) {
	items := ui.state.CurrentPage.Items
	if index < 0 || index >= len(items) {
		return
	}
	go ui.Controller.SelectUser(ui.ctx, items[index])
}

func (ui *SearchUI) back() {
	go ui.Controller.Back()
}

func (ui *SearchUI) retrySearch() {
	go ui.Controller.RetrySearch(ui.ctx)
}

func (ui *SearchUI) retryProfile() {
	go ui.Controller.RetryProfile()
}

func (ui *SearchUI) copyProfileURL() {
	profile := ui.state.SelectedProfile
	if profile == nil || profile.ProfileURL == "" {
		return
	}
	if err := clipboard.WriteAll(profile.ProfileURL); err != nil {
		ui.showNotice("Could not copy to clipboard: " + err.Error())
		return
	}
	ui.bottomBar.SetText("Copied " + profile.ProfileURL)
}
