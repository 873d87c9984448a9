package github

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Family tells the classifier what a 404 means for an endpoint.
type Family int

const (
	// FamilyUserLookup is a single resource lookup such as /users/{login}.
	FamilyUserLookup Family = iota
	// FamilyListing is a paged collection such as /search/users.
	FamilyListing
)

func (f Family) String() string {
	switch f {
	case FamilyUserLookup:
		return "user-lookup"
	case FamilyListing:
		return "listing"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// Classify maps a response status to a failure. It returns nil for 2xx.
func Classify(status int, family Family) *Failure {
	if status >= 200 && status < 300 {
		return nil
	}

	switch status {
	case http.StatusForbidden, http.StatusTooManyRequests:
		return NewFailure(KindRateLimit, "API rate limit exceeded. Please wait before making more requests.", status)
	case http.StatusNotFound:
		if family == FamilyUserLookup {
			return NewFailure(KindUserNotFound, "User not found or profile is private.", status)
		}
		return NewFailure(KindNoResults, "No results found for your search.", status)
	case http.StatusUnprocessableEntity:
		return NewFailure(KindValidation, "Invalid search parameters provided.", status)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return NewFailure(KindAPI, "GitHub servers are currently unavailable. Please try again later.", status)
	}
	return NewFailure(KindAPI, fmt.Sprintf("Request failed with status %d", status), status)
}

// decodeResponse classifies resp and, on success, decodes the JSON body
// into v. The body is always closed.
func decodeResponse(resp *http.Response, family Family, v any) error {
	defer resp.Body.Close()

	if f := Classify(resp.StatusCode, family); f != nil {
		return f
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &Failure{
			Kind:    KindAPI,
			Message: "GitHub returned a response that could not be read.",
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("decode %s response: %w", family, err),
		}
	}
	return nil
}
