package github

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/deathrjj/ghusers/models"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// RepoPageSize is the page size used when walking a user's repositories.
const RepoPageSize = 100

// Options configures a Client.
type Options struct {
	BaseURL string
	// Token is sent as a bearer token on every request when non-empty.
	Token string
	// Timeout of zero leaves requests bounded only by their context.
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// Client handles GitHub API interactions
type Client struct {
	BaseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a new GitHub API client
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
			Base:   transport,
		}
	}

	return &Client{
		BaseURL: baseURL,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &loggingTransport{next: transport, logger: logger},
		},
		logger: logger,
	}
}

type searchResponse struct {
	TotalCount int                  `json:"total_count"`
	Items      []models.UserSummary `json:"items"`
}

// SearchUsers runs a user search and returns the requested page. Invalid
// criteria are rejected before any request is made, and a successful search
// with no items is reported as NO_RESULTS.
func (c *Client) SearchUsers(ctx context.Context, criteria models.SearchCriteria, page, perPage int) (models.SearchPage, error) {
	query, err := BuildQuery(criteria)
	if err != nil {
		return models.SearchPage{}, err
	}
	if page < 1 {
		return models.SearchPage{}, validationFailure(fmt.Sprintf("Invalid page number %d.", page))
	}
	if perPage < 1 || perPage > 100 {
		return models.SearchPage{}, validationFailure(fmt.Sprintf("Invalid page size %d.", perPage))
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	var body searchResponse
	if err := c.get(ctx, "/search/users", params, FamilyListing, &body); err != nil {
		return models.SearchPage{}, AsFailure(err, "An unexpected error occurred while searching.")
	}

	if len(body.Items) == 0 {
		return models.SearchPage{}, NewFailure(KindNoResults, "No users found matching your search criteria. Try different search terms.", 0)
	}
	if len(body.Items) > perPage {
		body.Items = body.Items[:perPage]
	}

	c.logger.Debug("search completed",
		slog.String("query", query),
		slog.Int("page", page),
		slog.Int("items", len(body.Items)),
		slog.Int("total", body.TotalCount),
	)

	return models.SearchPage{
		Items:      body.Items,
		TotalCount: body.TotalCount,
		PageNumber: page,
		PageSize:   perPage,
	}, nil
}

// FetchProfile retrieves the public profile for login.
func (c *Client) FetchProfile(ctx context.Context, login string) (models.UserProfile, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return models.UserProfile{}, validationFailure("Username is required to fetch user details.")
	}

	var profile models.UserProfile
	if err := c.get(ctx, "/users/"+url.PathEscape(login), nil, FamilyUserLookup, &profile); err != nil {
		return models.UserProfile{}, AsFailure(err, "Failed to load user details. Please try again.")
	}
	return profile, nil
}

// SumStars walks the repositories owned by login page by page and returns
// the sum of their stargazer counts. Pages are fetched sequentially and the
// walk stops at the first short page.
func (c *Client) SumStars(ctx context.Context, login string) (int, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return 0, validationFailure("Username is required to fetch user stars.")
	}

	path := "/users/" + url.PathEscape(login) + "/repos"
	total := 0

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(RepoPageSize))
		params.Set("type", "owner")

		var repos []models.Repository
		if err := c.get(ctx, path, params, FamilyListing, &repos); err != nil {
			return 0, AsFailure(err, "Failed to load user stars. Please try again.")
		}

		for _, r := range repos {
			total += r.StargazersCount
		}

		if len(repos) < RepoPageSize {
			c.logger.Debug("stars summed", slog.String("login", login), slog.Int("pages", page), slog.Int("stars", total))
			break
		}
	}

	return total, nil
}

// get issues a GET request and decodes the classified response into v.
func (c *Client) get(ctx context.Context, path string, params url.Values, family Family, v any) error {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	c.addHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return networkFailure(err)
	}
	return decodeResponse(resp, family, v)
}

// addHeaders sets the Accept and User-Agent headers. Authorization is added
// by the transport.
func (c *Client) addHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", "ghusers")
}
