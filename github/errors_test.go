package github

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewFailure(KindNoResults, "nothing", 0))

	assert.True(t, errors.Is(err, &Failure{Kind: KindNoResults}))
	assert.False(t, errors.Is(err, &Failure{Kind: KindAPI}))
}

func TestFailureError(t *testing.T) {
	assert.Equal(t, "RATE_LIMIT (403): slow down", NewFailure(KindRateLimit, "slow down", 403).Error())
	assert.Equal(t, "NETWORK_ERROR: offline", NewFailure(KindNetwork, "offline", 0).Error())
}

func TestFailureRetryable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindValidation, false},
		{KindNoResults, false},
		{KindUserNotFound, true},
		{KindRateLimit, true},
		{KindAPI, true},
		{KindNetwork, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, NewFailure(tt.kind, "", 0).Retryable())
		})
	}
}

func TestAsFailure(t *testing.T) {
	assert.Nil(t, AsFailure(nil, "unused"))

	typed := NewFailure(KindUserNotFound, "gone", 404)
	assert.Same(t, typed, AsFailure(fmt.Errorf("ctx: %w", typed), "unused"))

	cause := errors.New("boom")
	f := AsFailure(cause, "An unexpected error occurred while searching.")
	assert.Equal(t, KindAPI, f.Kind)
	assert.Equal(t, "An unexpected error occurred while searching.", f.Message)
	assert.ErrorIs(t, f, cause)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNetwork, KindOf(networkFailure(errors.New("dial"))))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}
