package ui

import (
	"net/http"

	"github.com/deathrjj/ghusers/github"
)

// FailureInfo is how a failure is presented to the user.
type FailureInfo struct {
	Icon      string
	Title     string
	Message   string
	Action    string
	ShowRetry bool
}

// DescribeFailure picks the icon, title, message and retry affordance for f.
func DescribeFailure(f *github.Failure) FailureInfo {
	info := FailureInfo{
		Icon:      "!",
		Title:     "Something went wrong",
		Message:   "An unexpected error occurred",
		Action:    "Try Again",
		ShowRetry: true,
	}
	if f == nil {
		return info
	}
	if f.Message != "" {
		info.Message = f.Message
	}

	switch f.Kind {
	case github.KindNoResults:
		info.Icon = "?"
		info.Title = "No users found"
		info.Message = "We couldn't find any users matching your search criteria. Try adjusting your filters or search terms."
		info.Action = "Search Again"
	case github.KindNetwork:
		info.Icon = "~"
		info.Title = "Connection problem"
		info.Message = "Please check your internet connection and try again."
		info.Action = "Retry"
	case github.KindAPI:
		info.Icon = "#"
		info.Title = "Server error"
		info.Message = "GitHub API is currently unavailable. Please try again later."
		if f.Status == http.StatusForbidden {
			info.Message = "API rate limit exceeded. Please wait a moment before searching again."
		}
		info.Action = "Retry"
	case github.KindValidation:
		info.Title = "Invalid search"
		info.Message = "Please enter at least one search criteria (username, location, or minimum repositories)."
		info.ShowRetry = false
	case github.KindUserNotFound:
		info.Icon = "?"
		info.Title = "User not found"
		info.Message = "The requested user profile could not be found. They may have been deleted or made private."
		info.Action = "Go Back"
	case github.KindRateLimit:
		info.Icon = "@"
		info.Title = "Rate limit exceeded"
		info.Message = "Too many requests. Please wait a few minutes before searching again."
		info.Action = "Retry Later"
	}
	return info
}
