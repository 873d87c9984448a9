package github

import (
	"fmt"
	"strings"

	"github.com/deathrjj/ghusers/models"
)

// BuildQuery turns criteria into a search query. Clauses are emitted in the
// order username, location, minimum repository count.
func BuildQuery(c models.SearchCriteria) (string, error) {
	var clauses []string

	if u := strings.TrimSpace(c.Username); u != "" {
		clauses = append(clauses, u+" in:login")
	}
	if l := strings.TrimSpace(c.Location); l != "" {
		clauses = append(clauses, "location:"+l)
	}
	if c.MinRepos != nil && *c.MinRepos >= 0 {
		clauses = append(clauses, fmt.Sprintf("repos:>=%d", *c.MinRepos))
	}

	if len(clauses) == 0 {
		return "", validationFailure("Please enter at least one search criteria (username, location, or minimum repositories).")
	}
	return strings.Join(clauses, " "), nil
}
