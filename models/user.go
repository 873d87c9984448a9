package models

import (
	"strconv"
	"strings"
	"time"
)

// SearchPageSize is the number of users requested per search page.
const SearchPageSize = 10

// MaxSearchResults is the number of results GitHub's search API will page
// through for any query.
const MaxSearchResults = 1000

// SearchCriteria holds the user supplied search constraints.
type SearchCriteria struct {
	Username string
	Location string
	MinRepos *int
}

// NewSearchCriteria builds criteria from raw form input. minRepos is kept
// only when it is an integer >= 0.
func NewSearchCriteria(username, location, minRepos string) SearchCriteria {
	c := SearchCriteria{
		Username: strings.TrimSpace(username),
		Location: strings.TrimSpace(location),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(minRepos)); err == nil && n >= 0 {
		c.MinRepos = &n
	}
	return c
}

// IsEmpty reports whether no field would contribute to a query.
func (c SearchCriteria) IsEmpty() bool {
	return strings.TrimSpace(c.Username) == "" &&
		strings.TrimSpace(c.Location) == "" &&
		(c.MinRepos == nil || *c.MinRepos < 0)
}

// UserSummary is a single entry of a user search result.
type UserSummary struct {
	ID         int    `json:"id"`
	Login      string `json:"login"`
	AvatarURL  string `json:"avatar_url"`
	ProfileURL string `json:"html_url"`
}

// SearchPage is one page of user search results.
type SearchPage struct {
	Items      []UserSummary
	TotalCount int
	PageNumber int
	PageSize   int
}

// IsEmpty reports whether the page holds no results.
func (p SearchPage) IsEmpty() bool {
	return len(p.Items) == 0
}

// LastPage returns the highest page number that can be requested for this
// result set.
func (p SearchPage) LastPage() int {
	if p.PageSize <= 0 || p.TotalCount <= 0 {
		return 0
	}
	total := p.TotalCount
	if total > MaxSearchResults {
		total = MaxSearchResults
	}
	return (total + p.PageSize - 1) / p.PageSize
}

// HasPage reports whether n is a valid page number for this result set.
func (p SearchPage) HasPage(n int) bool {
	return n >= 1 && n <= p.LastPage()
}

func (p SearchPage) HasPrev() bool {
	return p.HasPage(p.PageNumber - 1)
}

func (p SearchPage) HasNext() bool {
	return p.HasPage(p.PageNumber + 1)
}

// Clone returns a copy that does not share its item slice.
func (p SearchPage) Clone() SearchPage {
	c := p
	if p.Items != nil {
		c.Items = make([]UserSummary, len(p.Items))
		copy(c.Items, p.Items)
	}
	return c
}

// UserProfile is the detailed view of a single GitHub user.
type UserProfile struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	ProfileURL  string    `json:"html_url"`
	Location    string    `json:"location"`
	Blog        string    `json:"blog"`
	Twitter     string    `json:"twitter_username"`
	Company     string    `json:"company"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
	TotalStars  int       `json:"-"`
}

// DisplayName returns the user's name, falling back to the login.
func (u UserProfile) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// Repository is the subset of a GitHub repository needed for star totals.
type Repository struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	StargazersCount int    `json:"stargazers_count"`
}
