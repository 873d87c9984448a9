// Package session owns the search session state and the transitions between
// search results and a single user's profile.
package session

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/deathrjj/ghusers/github"
	"github.com/deathrjj/ghusers/models"
)

// Service is the GitHub API surface the controller depends on.
type Service interface {
	ProfileService
	SearchUsers(ctx context.Context, criteria models.SearchCriteria, page, perPage int) (models.SearchPage, error)
}

// Controller applies user intents to the session State. Blocking operations
// run their network calls without holding the lock; a response is applied
// only if no newer action has been started for the same slot.
type Controller struct {
	svc    Service
	logger *slog.Logger

	mu         sync.Mutex
	state      State
	searchSeq  uint64
	profileSeq uint64
	observers  []func(State)
}

// NewController creates a controller in the idle state.
func NewController(svc Service, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{svc: svc, logger: logger}
}

// Subscribe registers fn to receive a copy of the state after every
// transition. fn is called with the controller locked and must not call
// back into the controller.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) notifyLocked(event string) {
	st := c.state.clone()
	c.logger.Debug("session transition",
		slog.String("event", event),
		slog.String("view", st.View().String()),
		slog.Int("page", st.CurrentPage.PageNumber),
	)
	for _, fn := range c.observers {
		fn(st.clone())
	}
}

// Submit starts a new search for criteria at page 1. Criteria with no usable
// field fail validation without reaching the service.
func (c *Controller) Submit(ctx context.Context, criteria models.SearchCriteria) {
	if _, err := github.BuildQuery(criteria); err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.searchSeq++
		c.resetForNewSearchLocked(criteria, 1)
		c.state.SearchError = github.AsFailure(err, "Invalid search.")
		c.notifyLocked("submit")
		return
	}

	c.search(ctx, "submit", func(st *State) (models.SearchCriteria, int, bool) {
		c.resetForNewSearchLocked(criteria, 1)
		return criteria, 1, true
	})
}

// ChangePage requests page n of the current result set. It is a no-op
// returning false when no results are shown, an action is in flight or n is
// outside the result set.
func (c *Controller) ChangePage(ctx context.Context, n int) bool {
	return c.search(ctx, "change-page", func(st *State) (models.SearchCriteria, int, bool) {
		if st.SearchLoading || st.ProfileLoading || st.SelectedProfile != nil {
			return models.SearchCriteria{}, 0, false
		}
		if st.CurrentPage.IsEmpty() || !st.CurrentPage.HasPage(n) {
			return models.SearchCriteria{}, 0, false
		}
		st.RequestedPage = n
		st.SearchError = nil
		st.ProfileError = nil
		return st.Criteria, n, true
	})
}

// RetrySearch handles the retry affordance of a search failure. Failures
// that need different input are cleared so the form is shown again; any
// other failure re-runs the last requested search. It returns false when
// there is no search failure to act on.
func (c *Controller) RetrySearch(ctx context.Context) bool {
	c.mu.Lock()
	if c.state.SearchError == nil || c.state.SearchLoading {
		c.mu.Unlock()
		return false
	}
	if !c.state.SearchError.Retryable() {
		c.state.SearchError = nil
		c.notifyLocked("retry-search")
		c.mu.Unlock()
		return true
	}
	c.mu.Unlock()

	return c.search(ctx, "retry-search", func(st *State) (models.SearchCriteria, int, bool) {
		if st.SearchError == nil || st.SearchLoading {
			return models.SearchCriteria{}, 0, false
		}
		page := st.RequestedPage
		if page < 1 {
			page = 1
		}
		st.SearchError = nil
		return st.Criteria, page, true
	})
}

// search runs prepare under the lock to decide what to fetch, enters the
// loading state, performs the request and applies the result unless a newer
// search has started meanwhile.
func (c *Controller) search(ctx context.Context, event string, prepare func(st *State) (models.SearchCriteria, int, bool)) bool {
	c.mu.Lock()
	criteria, page, ok := prepare(&c.state)
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.searchSeq++
	seq := c.searchSeq
	c.state.SearchLoading = true
	c.notifyLocked(event)
	c.mu.Unlock()

	result, err := c.svc.SearchUsers(ctx, criteria, page, models.SearchPageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.searchSeq {
		c.logger.Debug("discarding stale search response", slog.Int("page", page))
		return true
	}

	c.state.SearchLoading = false
	if err != nil {
		f := github.AsFailure(err, "An unexpected error occurred while searching.")
		c.logger.Info("search failed", slog.String("kind", string(f.Kind)), slog.Int("status", f.Status))
		c.state.SearchError = f
		c.state.CurrentPage = models.SearchPage{}
	} else {
		c.state.CurrentPage = result
	}
	c.notifyLocked(event + "-done")
	return true
}

// resetForNewSearchLocked clears results, profile and snapshot for a fresh
// search and abandons any profile load in flight.
func (c *Controller) resetForNewSearchLocked(criteria models.SearchCriteria, page int) {
	c.profileSeq++
	st := &c.state
	st.Criteria = criteria
	st.RequestedPage = page
	st.CurrentPage = models.SearchPage{}
	st.SelectedProfile = nil
	st.ProfileError = nil
	st.ProfileLoading = false
	st.SearchLoading = false
	st.SearchError = nil
	st.SavedPage = Snapshot{Version: st.SavedPage.Version}
}

// SelectUser drills into summary's profile. The current page is saved and
// hidden while the profile and star total load; on failure the saved page is
// shown again with the error. It returns false when no results are shown or
// another action is in flight.
func (c *Controller) SelectUser(ctx context.Context, summary models.UserSummary) bool {
	c.mu.Lock()
	st := &c.state
	if st.SearchLoading || st.ProfileLoading || st.SelectedProfile != nil || st.CurrentPage.IsEmpty() {
		c.mu.Unlock()
		return false
	}
	c.profileSeq++
	seq := c.profileSeq
	st.SavedPage = Snapshot{Page: st.CurrentPage.Clone(), Version: st.SavedPage.Version + 1}
	st.CurrentPage = models.SearchPage{}
	st.ProfileError = nil
	st.ProfileLoading = true
	c.notifyLocked("select-user")
	c.mu.Unlock()

	profile, err := LoadProfile(ctx, c.svc, summary.Login)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.profileSeq {
		c.logger.Debug("discarding stale profile response", slog.String("login", summary.Login))
		return true
	}

	st.ProfileLoading = false
	if err != nil {
		f := github.AsFailure(err, "Failed to load user details. Please try again.")
		c.logger.Info("profile load failed",
			slog.String("login", summary.Login),
			slog.String("kind", string(f.Kind)),
			slog.Int("status", f.Status),
		)
		st.ProfileError = f
		st.CurrentPage = st.SavedPage.Page.Clone()
	} else {
		st.SelectedProfile = &profile
	}
	c.notifyLocked("select-user-done")
	return true
}

// Back leaves the profile view and shows the saved result page again. A
// profile load still in flight is abandoned.
func (c *Controller) Back() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := &c.state
	if st.SelectedProfile == nil && st.ProfileError == nil && !st.ProfileLoading {
		return false
	}
	c.profileSeq++
	st.ProfileLoading = false
	st.SelectedProfile = nil
	st.ProfileError = nil
	st.CurrentPage = st.SavedPage.Page.Clone()
	c.notifyLocked("back")
	return true
}

// RetryProfile dismisses a profile failure. The result list is already
// restored, so nothing is fetched again.
func (c *Controller) RetryProfile() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.ProfileError == nil {
		return false
	}
	c.state.ProfileError = nil
	c.notifyLocked("retry-profile")
	return true
}
