package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deathrjj/ghusers/github"
	"github.com/deathrjj/ghusers/models"
)

type fakeService struct {
	searchUsers  func(ctx context.Context, criteria models.SearchCriteria, page, perPage int) (models.SearchPage, error)
	fetchProfile func(ctx context.Context, login string) (models.UserProfile, error)
	sumStars     func(ctx context.Context, login string) (int, error)

	searchCalls  atomic.Int32
	profileCalls atomic.Int32
	starsCalls   atomic.Int32
}

func (f *fakeService) SearchUsers(ctx context.Context, criteria models.SearchCriteria, page, perPage int) (models.SearchPage, error) {
	f.searchCalls.Add(1)
	if f.searchUsers == nil {
		return models.SearchPage{}, errors.New("searchUsers not configured")
	}
	return f.searchUsers(ctx, criteria, page, perPage)
}

func (f *fakeService) FetchProfile(ctx context.Context, login string) (models.UserProfile, error) {
	f.profileCalls.Add(1)
	if f.fetchProfile == nil {
		return models.UserProfile{}, errors.New("fetchProfile not configured")
	}
	return f.fetchProfile(ctx, login)
}

func (f *fakeService) SumStars(ctx context.Context, login string) (int, error) {
	f.starsCalls.Add(1)
	if f.sumStars == nil {
		return 0, errors.New("sumStars not configured")
	}
	return f.sumStars(ctx, login)
}

func pageOf(total, number int, logins ...string) models.SearchPage {
	items := make([]models.UserSummary, len(logins))
	for i, l := range logins {
		items[i] = models.UserSummary{ID: i + 1, Login: l, ProfileURL: "https://github.com/" + l}
	}
	return models.SearchPage{Items: items, TotalCount: total, PageNumber: number, PageSize: models.SearchPageSize}
}

func staticSearch(total int, logins ...string) func(context.Context, models.SearchCriteria, int, int) (models.SearchPage, error) {
	return func(_ context.Context, _ models.SearchCriteria, page, _ int) (models.SearchPage, error) {
		return pageOf(total, page, logins...), nil
	}
}

func byUsername(u string) models.SearchCriteria {
	return models.SearchCriteria{Username: u}
}

func TestSearchThenProfileThenBack(t *testing.T) {
	svc := &fakeService{
		searchUsers: func(_ context.Context, c models.SearchCriteria, page, perPage int) (models.SearchPage, error) {
			assert.Equal(t, "torvalds", c.Username)
			assert.Equal(t, 1, page)
			assert.Equal(t, models.SearchPageSize, perPage)
			return pageOf(1, 1, "torvalds"), nil
		},
		fetchProfile: func(_ context.Context, login string) (models.UserProfile, error) {
			return models.UserProfile{Login: login, Name: "Linus Torvalds", PublicRepos: 137}, nil
		},
		sumStars: func(_ context.Context, login string) (int, error) {
			return 500, nil
		},
	}
	c := NewController(svc, nil)
	ctx := context.Background()

	c.Submit(ctx, byUsername("torvalds"))
	st := c.State()
	require.Equal(t, ViewResults, st.View())
	results := st.CurrentPage

	require.True(t, c.SelectUser(ctx, results.Items[0]))
	st = c.State()
	assert.Equal(t, ViewProfile, st.View())
	require.NotNil(t, st.SelectedProfile)
	assert.Equal(t, 500, st.SelectedProfile.TotalStars)
	assert.Equal(t, "Linus Torvalds", st.SelectedProfile.Name)
	assert.True(t, st.CurrentPage.IsEmpty())
	assert.Equal(t, results, st.SavedPage.Page)
	assert.Equal(t, 1, st.SavedPage.Version)

	require.True(t, c.Back())
	st = c.State()
	assert.Equal(t, ViewResults, st.View())
	assert.Equal(t, results, st.CurrentPage)
	assert.Nil(t, st.SelectedProfile)
}

func TestProfileFailureRestoresResults(t *testing.T) {
	svc := &fakeService{
		searchUsers: staticSearch(2, "ghost", "octocat"),
		fetchProfile: func(context.Context, string) (models.UserProfile, error) {
			return models.UserProfile{}, github.NewFailure(github.KindUserNotFound, "User not found or profile is private.", 404)
		},
		sumStars: func(context.Context, string) (int, error) { return 0, nil },
	}
	c := NewController(svc, nil)
	ctx := context.Background()

	c.Submit(ctx, byUsername("o"))
	results := c.State().CurrentPage

	require.True(t, c.SelectUser(ctx, results.Items[0]))
	st := c.State()
	assert.Equal(t, ViewProfileError, st.View())
	require.NotNil(t, st.ProfileError)
	assert.Equal(t, github.KindUserNotFound, st.ProfileError.Kind)
	assert.Equal(t, results, st.CurrentPage)
	assert.Nil(t, st.SelectedProfile)

	require.True(t, c.RetryProfile())
	st = c.State()
	assert.Equal(t, ViewResults, st.View())
	assert.Equal(t, results, st.CurrentPage)
	assert.Equal(t, int32(1), svc.profileCalls.Load())
}

func TestSubmitEmptyCriteriaFailsValidation(t *testing.T) {
	svc := &fakeService{}
	c := NewController(svc, nil)

	var views []View
	c.Subscribe(func(st State) { views = append(views, st.View()) })

	c.Submit(context.Background(), models.NewSearchCriteria("  ", "", "abc"))

	st := c.State()
	require.NotNil(t, st.SearchError)
	assert.Equal(t, github.KindValidation, st.SearchError.Kind)
	assert.False(t, st.SearchLoading)
	assert.Zero(t, svc.searchCalls.Load())
	assert.Equal(t, []View{ViewSearchError}, views)

	require.True(t, c.RetrySearch(context.Background()))
	assert.Equal(t, ViewIdle, c.State().View())
	assert.Zero(t, svc.searchCalls.Load())
}

func TestSubmitNotifiesLoadingThenResults(t *testing.T) {
	svc := &fakeService{searchUsers: staticSearch(3, "a", "b", "c")}
	c := NewController(svc, nil)

	var views []View
	c.Subscribe(func(st State) { views = append(views, st.View()) })

	c.Submit(context.Background(), byUsername("a"))

	assert.Equal(t, []View{ViewSearchLoading, ViewResults}, views)
}

func TestChangePageBounds(t *testing.T) {
	var requested []int
	svc := &fakeService{
		searchUsers: func(_ context.Context, _ models.SearchCriteria, page, _ int) (models.SearchPage, error) {
			requested = append(requested, page)
			return pageOf(25, page, "a", "b"), nil
		},
	}
	c := NewController(svc, nil)
	ctx := context.Background()

	assert.False(t, c.ChangePage(ctx, 2), "no results yet")

	c.Submit(ctx, byUsername("a"))
	assert.False(t, c.ChangePage(ctx, 0))
	assert.False(t, c.ChangePage(ctx, 4))

	require.True(t, c.ChangePage(ctx, 3))
	st := c.State()
	assert.Equal(t, 3, st.CurrentPage.PageNumber)
	assert.Equal(t, 3, st.RequestedPage)
	assert.Equal(t, []int{1, 3}, requested)
}

func TestChangePageStopsAtSearchWindow(t *testing.T) {
	svc := &fakeService{searchUsers: staticSearch(5000, "a")}
	c := NewController(svc, nil)
	ctx := context.Background()

	c.Submit(ctx, byUsername("a"))
	require.Equal(t, 100, c.State().CurrentPage.LastPage())

	assert.False(t, c.ChangePage(ctx, 101))
	assert.Equal(t, 1, c.State().CurrentPage.PageNumber)
	assert.Equal(t, int32(1), svc.searchCalls.Load())

	require.True(t, c.ChangePage(ctx, 100))
	assert.Equal(t, 100, c.State().CurrentPage.PageNumber)
}

func TestChangePageRejectedWhileProfileShown(t *testing.T) {
	svc := &fakeService{
		searchUsers:  staticSearch(30, "a"),
		fetchProfile: func(_ context.Context, l string) (models.UserProfile, error) { return models.UserProfile{Login: l}, nil },
		sumStars:     func(context.Context, string) (int, error) { return 1, nil },
	}
	c := NewController(svc, nil)
	ctx := context.Background()

	c.Submit(ctx, byUsername("a"))
	require.True(t, c.SelectUser(ctx, c.State().CurrentPage.Items[0]))

	assert.False(t, c.ChangePage(ctx, 2))
	assert.Equal(t, int32(1), svc.searchCalls.Load())
}

func TestRetrySearchRepeatsRequestedPage(t *testing.T) {
	var (
		requested []int
		failNext  bool
	)
	svc := &fakeService{
		searchUsers: func(_ context.Context, _ models.SearchCriteria, page, _ int) (models.SearchPage, error) {
			requested = append(requested, page)
			if failNext {
				failNext = false
				return models.SearchPage{}, github.NewFailure(github.KindNetwork, "offline", 0)
			}
			return pageOf(50, page, "a"), nil
		},
	}
	c := NewController(svc, nil)
	ctx := context.Background()

	c.Submit(ctx, byUsername("a"))
	failNext = true
	require.True(t, c.ChangePage(ctx, 4))

	st := c.State()
	assert.Equal(t, ViewSearchError, st.View())
	assert.True(t, st.CurrentPage.IsEmpty())
	assert.Equal(t, 4, st.RequestedPage)

	require.True(t, c.RetrySearch(ctx))
	st = c.State()
	assert.Equal(t, ViewResults, st.View())
	assert.Equal(t, 4, st.CurrentPage.PageNumber)
	assert.Equal(t, []int{1, 4, 4}, requested)
}

func TestRetrySearchNoResultsClearsError(t *testing.T) {
	svc := &fakeService{
		searchUsers: func(context.Context, models.SearchCriteria, int, int) (models.SearchPage, error) {
			return models.SearchPage{}, github.NewFailure(github.KindNoResults, "none", 0)
		},
	}
	c := NewController(svc, nil)
	ctx := context.Background()

	c.Submit(ctx, byUsername("zzzz"))
	require.Equal(t, ViewSearchError, c.State().View())

	require.True(t, c.RetrySearch(ctx))
	assert.Equal(t, ViewIdle, c.State().View())
	assert.Equal(t, int32(1), svc.searchCalls.Load())

	assert.False(t, c.RetrySearch(ctx), "nothing left to retry")
}

func TestUnknownErrorsBecomeAPIFailures(t *testing.T) {
	svc := &fakeService{
		searchUsers: func(context.Context, models.SearchCriteria, int, int) (models.SearchPage, error) {
			return models.SearchPage{}, errors.New("boom")
		},
	}
	c := NewController(svc, nil)

	c.Submit(context.Background(), byUsername("a"))

	st := c.State()
	require.NotNil(t, st.SearchError)
	assert.Equal(t, github.KindAPI, st.SearchError.Kind)
}

func TestInvalidSubmitEndsSearchInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := &fakeService{
		searchUsers: func(_ context.Context, _ models.SearchCriteria, page int, _ int) (models.SearchPage, error) {
			close(started)
			<-release
			return pageOf(1, page, "slow"), nil
		},
	}
	c := NewController(svc, nil)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Submit(ctx, byUsername("slow"))
	}()
	<-started

	c.Submit(ctx, models.SearchCriteria{})
	close(release)
	<-done

	st := c.State()
	assert.False(t, st.SearchLoading)
	assert.Equal(t, ViewSearchError, st.View())
	require.NotNil(t, st.SearchError)
	assert.Equal(t, github.KindValidation, st.SearchError.Kind)

	require.True(t, c.RetrySearch(ctx))
	assert.Equal(t, ViewIdle, c.State().View())
	assert.Equal(t, int32(1), svc.searchCalls.Load())
}

func TestStaleSearchResponseIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := &fakeService{
		searchUsers: func(_ context.Context, c models.SearchCriteria, page, _ int) (models.SearchPage, error) {
			if c.Username == "slow" {
				close(started)
				<-release
				return pageOf(1, page, "slow"), nil
			}
			return pageOf(1, page, "fast"), nil
		},
	}
	c := NewController(svc, nil)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Submit(ctx, byUsername("slow"))
	}()
	<-started

	c.Submit(ctx, byUsername("fast"))
	close(release)
	<-done

	st := c.State()
	assert.Equal(t, ViewResults, st.View())
	require.Len(t, st.CurrentPage.Items, 1)
	assert.Equal(t, "fast", st.CurrentPage.Items[0].Login)
	assert.Equal(t, "fast", st.Criteria.Username)
}

func TestBackAbandonsProfileLoad(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := &fakeService{
		searchUsers: staticSearch(1, "octocat"),
		fetchProfile: func(_ context.Context, l string) (models.UserProfile, error) {
			close(started)
			<-release
			return models.UserProfile{Login: l}, nil
		},
		sumStars: func(context.Context, string) (int, error) { return 3, nil },
	}
	c := NewController(svc, nil)
	ctx := context.Background()

	c.Submit(ctx, byUsername("octocat"))
	results := c.State().CurrentPage

	done := make(chan bool)
	go func() { done <- c.SelectUser(ctx, results.Items[0]) }()
	<-started
	assert.Equal(t, ViewProfileLoading, c.State().View())

	require.True(t, c.Back())
	close(release)
	<-done

	st := c.State()
	assert.Equal(t, ViewResults, st.View())
	assert.Nil(t, st.SelectedProfile)
	assert.Equal(t, results, st.CurrentPage)
}

func TestSubmitFromProfileClearsSnapshot(t *testing.T) {
	svc := &fakeService{
		searchUsers:  staticSearch(1, "octocat"),
		fetchProfile: func(_ context.Context, l string) (models.UserProfile, error) { return models.UserProfile{Login: l}, nil },
		sumStars:     func(context.Context, string) (int, error) { return 0, nil },
	}
	c := NewController(svc, nil)
	ctx := context.Background()

	c.Submit(ctx, byUsername("octocat"))
	require.True(t, c.SelectUser(ctx, c.State().CurrentPage.Items[0]))

	c.Submit(ctx, byUsername("octocat"))
	st := c.State()
	assert.Equal(t, ViewResults, st.View())
	assert.Nil(t, st.SelectedProfile)
	assert.True(t, st.SavedPage.Page.IsEmpty())
	assert.False(t, c.Back())
}

func TestSelectUserRequiresResults(t *testing.T) {
	c := NewController(&fakeService{}, nil)
	assert.False(t, c.SelectUser(context.Background(), models.UserSummary{Login: "x"}))
	assert.False(t, c.Back())
	assert.False(t, c.RetryProfile())
}

func TestLoadProfileCombinesResults(t *testing.T) {
	svc := &fakeService{
		fetchProfile: func(_ context.Context, l string) (models.UserProfile, error) {
			return models.UserProfile{Login: l, Followers: 9}, nil
		},
		sumStars: func(context.Context, string) (int, error) { return 42, nil },
	}

	p, err := LoadProfile(context.Background(), svc, "octocat")

	require.NoError(t, err)
	assert.Equal(t, "octocat", p.Login)
	assert.Equal(t, 9, p.Followers)
	assert.Equal(t, 42, p.TotalStars)
}

func TestLoadProfileFailsFast(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	svc := &fakeService{
		fetchProfile: func(context.Context, string) (models.UserProfile, error) {
			<-release
			return models.UserProfile{}, nil
		},
		sumStars: func(context.Context, string) (int, error) {
			return 0, github.NewFailure(github.KindRateLimit, "slow down", 403)
		},
	}

	errc := make(chan error, 1)
	go func() {
		_, err := LoadProfile(context.Background(), svc, "octocat")
		errc <- err
	}()

	select {
	case err := <-errc:
		assert.Equal(t, github.KindRateLimit, github.KindOf(err))
	case <-time.After(2 * time.Second):
		t.Fatal("LoadProfile waited for the slower request")
	}
}

func TestLoadProfileCancelsSibling(t *testing.T) {
	cancelled := make(chan struct{})
	svc := &fakeService{
		fetchProfile: func(context.Context, string) (models.UserProfile, error) {
			return models.UserProfile{}, github.NewFailure(github.KindUserNotFound, "gone", 404)
		},
		sumStars: func(ctx context.Context, _ string) (int, error) {
			<-ctx.Done()
			close(cancelled)
			return 0, ctx.Err()
		},
	}

	_, err := LoadProfile(context.Background(), svc, "ghost")

	assert.Equal(t, github.KindUserNotFound, github.KindOf(err))
	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("star walk was not cancelled")
	}
}
