package session

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/deathrjj/ghusers/models"
)

// ProfileService is the subset of the GitHub client needed to load a profile.
type ProfileService interface {
	FetchProfile(ctx context.Context, login string) (models.UserProfile, error)
	SumStars(ctx context.Context, login string) (int, error)
}

// LoadProfile fetches the profile and the star total for login
// concurrently. It returns on the first failure; the other request is
// cancelled and its result dropped.
func LoadProfile(ctx context.Context, svc ProfileService, login string) (models.UserProfile, error) {
	var (
		profile models.UserProfile
		stars   int
	)

	g, gctx := errgroup.WithContext(ctx)
	failed := make(chan error, 2)

	g.Go(func() error {
		p, err := svc.FetchProfile(gctx, login)
		if err != nil {
			failed <- err
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		n, err := svc.SumStars(gctx, login)
		if err != nil {
			failed <- err
			return err
		}
		stars = n
		return nil
	})

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case err := <-failed:
		return models.UserProfile{}, err
	case <-done:
	}

	select {
	case err := <-failed:
		return models.UserProfile{}, err
	default:
	}

	profile.TotalStars = stars
	return profile, nil
}
