package session

import (
	"fmt"

	"github.com/deathrjj/ghusers/github"
	"github.com/deathrjj/ghusers/models"
)

// View is the dominant thing the shell should display for a State.
type View int

const (
	ViewIdle View = iota
	ViewSearchLoading
	ViewResults
	ViewSearchError
	ViewProfileLoading
	ViewProfile
	ViewProfileError
)

func (v View) String() string {
	switch v {
	case ViewIdle:
		return "idle"
	case ViewSearchLoading:
		return "search-loading"
	case ViewResults:
		return "results"
	case ViewSearchError:
		return "search-error"
	case ViewProfileLoading:
		return "profile-loading"
	case ViewProfile:
		return "profile"
	case ViewProfileError:
		return "profile-error"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// Snapshot is the result page saved before drilling into a profile.
// Version increases with every drill-in.
type Snapshot struct {
	Page    models.SearchPage
	Version int
}

// State is the session record rendered by the shell.
type State struct {
	Criteria        models.SearchCriteria
	RequestedPage   int
	CurrentPage     models.SearchPage
	SelectedProfile *models.UserProfile
	SavedPage       Snapshot
	SearchError     *github.Failure
	ProfileError    *github.Failure
	SearchLoading   bool
	ProfileLoading  bool
}

// View derives the dominant view. Loading and errors take precedence over
// the data they overlay.
func (s State) View() View {
	switch {
	case s.SearchLoading:
		return ViewSearchLoading
	case s.ProfileLoading:
		return ViewProfileLoading
	case s.SearchError != nil:
		return ViewSearchError
	case s.ProfileError != nil:
		return ViewProfileError
	case s.SelectedProfile != nil:
		return ViewProfile
	case !s.CurrentPage.IsEmpty():
		return ViewResults
	}
	return ViewIdle
}

func (s State) clone() State {
	c := s
	c.CurrentPage = s.CurrentPage.Clone()
	c.SavedPage.Page = s.SavedPage.Page.Clone()
	if s.SelectedProfile != nil {
		p := *s.SelectedProfile
		c.SelectedProfile = &p
	}
	return c
}
