package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rivo/tview"

	"github.com/deathrjj/ghusers/models"
)

const notAvailable = "Not Available"

// FormatJoined renders a join date the way the profile card shows it.
func FormatJoined(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format("Jan 2, 2006")
}

// ResultsHeader is the title shown above a page of results.
func ResultsHeader(page models.SearchPage) string {
	if page.TotalCount == 1 {
		return "Found 1 user"
	}
	return fmt.Sprintf("Found %s users", humanize.Comma(int64(page.TotalCount)))
}

// PagerLabel renders "Page p of n" with the available directions.
func PagerLabel(page models.SearchPage) string {
	var b strings.Builder
	if page.HasPrev() {
		b.WriteString("← p: Prev  ")
	}
	fmt.Fprintf(&b, "Page %d of %d", page.PageNumber, page.LastPage())
	if page.HasNext() {
		b.WriteString("  n: Next →")
	}
	return b.String()
}

// ResultItem returns the main and secondary text of a result list entry.
func ResultItem(u models.UserSummary) (string, string) {
	return tview.Escape(u.Login), fmt.Sprintf("ID: %d  %s", u.ID, tview.Escape(u.ProfileURL))
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return tview.Escape(s)
}

// FormatProfile renders a profile card as tview-tagged text.
func FormatProfile(u models.UserProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[::b]%s[::-]  @%s\n", tview.Escape(u.DisplayName()), tview.Escape(u.Login))
	fmt.Fprintf(&b, "Joined %s\n\n", FormatJoined(u.CreatedAt))

	bio := u.Bio
	if strings.TrimSpace(bio) == "" {
		bio = "No bio available."
	}
	fmt.Fprintf(&b, "%s\n\n", tview.Escape(bio))

	fmt.Fprintf(&b, "[::b]%s[::-] Repos   [::b]%s[::-] Followers   [::b]%s[::-] Following   [::b]%s[::-] Stars\n\n",
		humanize.Comma(int64(u.PublicRepos)),
		humanize.Comma(int64(u.Followers)),
		humanize.Comma(int64(u.Following)),
		humanize.Comma(int64(u.TotalStars)),
	)

	twitter := notAvailable
	if u.Twitter != "" {
		twitter = fmt.Sprintf("@%s (https://twitter.com/%s)", tview.Escape(u.Twitter), tview.Escape(u.Twitter))
	}

	fmt.Fprintf(&b, "Location: %s\n", orNotAvailable(u.Location))
	fmt.Fprintf(&b, "Blog:     %s\n", orNotAvailable(u.Blog))
	fmt.Fprintf(&b, "Twitter:  %s\n", twitter)
	fmt.Fprintf(&b, "Company:  %s\n", orNotAvailable(u.Company))
	if u.ProfileURL != "" {
		fmt.Fprintf(&b, "\n%s\n", tview.Escape(u.ProfileURL))
	}

	return b.String()
}
