package downloadgate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func(ctx context.Context, orderID, userID string) (bool, error)

func (f checkerFunc) IsRated(ctx context.Context, orderID, userID string) (bool, error) {
	return f(ctx, orderID, userID)
}

func ratedChecker(rated bool) RatingChecker {
	return checkerFunc(func(context.Context, string, string) (bool, error) {
		return rated, nil
	})
}

func failingChecker() RatingChecker {
	return checkerFunc(func(context.Context, string, string) (bool, error) {
		return false, errors.New("rating lookup unavailable")
	})
}

func TestOpenRatedOrderMovesToConfirming(t *testing.T) {
	store := NewStore(ratedChecker(true))

	snap := store.Open(context.Background(), "order-1", "user-1", true)

	assert.Equal(t, StateConfirming, snap.State)
	require.NotNil(t, snap.IsRated)
	assert.True(t, *snap.IsRated)
	assert.False(t, snap.CheckFailed)
	assert.False(t, snap.CanProceed, "confirmation inputs not collected yet")
}

func TestOpenUnratedOrderRequiresRating(t *testing.T) {
	store := NewStore(ratedChecker(false))

	snap := store.Open(context.Background(), "order-1", "user-1", true)

	assert.Equal(t, StateRatingRequired, snap.State)
	require.NotNil(t, snap.IsRated)
	assert.False(t, *snap.IsRated)
	assert.False(t, snap.CheckFailed)
}

func TestOpenUnauthenticatedFailsClosed(t *testing.T) {
	called := false
	store := NewStore(checkerFunc(func(context.Context, string, string) (bool, error) {
		called = true
		return true, nil
	}))

	snap := store.Open(context.Background(), "order-1", "", false)

	assert.Equal(t, StateRatingRequired, snap.State)
	require.NotNil(t, snap.IsRated)
	assert.False(t, *snap.IsRated)
	assert.False(t, called, "checker must not run for unauthenticated callers")
}

func TestOpenCheckerFailureFailsClosedAndFlags(t *testing.T) {
	store := NewStore(failingChecker())

	snap := store.Open(context.Background(), "order-1", "user-1", true)

	assert.Equal(t, StateRatingRequired, snap.State)
	require.NotNil(t, snap.IsRated)
	assert.False(t, *snap.IsRated, "a failed check must never read as rated")
	assert.True(t, snap.CheckFailed)
}

func TestConfirmGuardRequiresEverything(t *testing.T) {
	store := NewStore(ratedChecker(true))
	store.Open(context.Background(), "order-1", "user-1", true)

	confirmed := false
	onConfirm := func(string) error {
		confirmed = true
		return nil
	}

	// Nothing collected yet.
	err := store.Confirm("order-1", "user-1", onConfirm)
	assert.ErrorIs(t, err, ErrConfirmationInvalid)

	// Phrase without acknowledgement.
	store.SetConfirmText("order-1", "user-1", "CONFIRM")
	err = store.Confirm("order-1", "user-1", onConfirm)
	assert.ErrorIs(t, err, ErrConfirmationInvalid)

	// Acknowledgement without a valid phrase.
	store.SetConfirmText("order-1", "user-1", "YES")
	store.SetAgreed("order-1", "user-1", true)
	err = store.Confirm("order-1", "user-1", onConfirm)
	assert.ErrorIs(t, err, ErrConfirmationInvalid)
	assert.False(t, confirmed)

	// Both present.
	store.SetConfirmText("order-1", "user-1", "CONFIRM")
	err = store.Confirm("order-1", "user-1", onConfirm)
	assert.NoError(t, err)
	assert.True(t, confirmed)
}

func TestConfirmPhraseIsCaseAndSpaceInsensitive(t *testing.T) {
	store := NewStore(ratedChecker(true))
	store.Open(context.Background(), "order-1", "user-1", true)
	store.SetAgreed("order-1", "user-1", true)

	for _, phrase := range []string{"confirm", "Confirm", "  CONFIRM  ", "cOnFiRm"} {
		store.SetConfirmText("order-1", "user-1", phrase)
		snap := store.Snapshot("order-1", "user-1")
		assert.True(t, snap.ConfirmValid, "phrase %q should validate", phrase)
		assert.True(t, snap.CanProceed)
	}

	store.SetConfirmText("order-1", "user-1", "CONFIRMED")
	assert.False(t, store.Snapshot("order-1", "user-1").ConfirmValid)
}

func TestConfirmOnUnratedOrderIsRefused(t *testing.T) {
	store := NewStore(ratedChecker(false))
	store.Open(context.Background(), "order-1", "user-1", true)
	store.SetConfirmText("order-1", "user-1", "CONFIRM")
	store.SetAgreed("order-1", "user-1", true)

	err := store.Confirm("order-1", "user-1", func(string) error {
		t.Fatal("callback must not run for an unrated order")
		return nil
	})
	assert.ErrorIs(t, err, ErrRatingRequired)
}

func TestConfirmWithoutOpenSession(t *testing.T) {
	store := NewStore(ratedChecker(true))

	err := store.Confirm("order-1", "user-1", func(string) error { return nil })
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestMarkRatedUnlocksConfirmation(t *testing.T) {
	store := NewStore(ratedChecker(false))
	store.Open(context.Background(), "order-1", "user-1", true)
	assert.Equal(t, StateRatingRequired, store.Snapshot("order-1", "user-1").State)

	store.MarkRated("order-1", "user-1")

	snap := store.Snapshot("order-1", "user-1")
	assert.Equal(t, StateConfirming, snap.State)
	require.NotNil(t, snap.IsRated)
	assert.True(t, *snap.IsRated)
	assert.False(t, snap.CheckFailed)
}

func TestCloseResetsEverything(t *testing.T) {
	store := NewStore(ratedChecker(false))
	store.Open(context.Background(), "order-1", "user-1", true)
	store.SetConfirmText("order-1", "user-1", "CONFIRM")
	store.SetAgreed("order-1", "user-1", true)
	store.MarkRated("order-1", "user-1")
	assert.True(t, store.Snapshot("order-1", "user-1").CanProceed)

	store.Close("order-1", "user-1")

	// The checker still says unrated, so reopening re-runs the check and
	// none of the previous inputs survive.
	snap := store.Open(context.Background(), "order-1", "user-1", true)
	assert.Equal(t, StateRatingRequired, snap.State)
	assert.False(t, snap.ConfirmValid)
	assert.False(t, snap.Agreed)
	require.NotNil(t, snap.IsRated)
	assert.False(t, *snap.IsRated)
	assert.False(t, snap.CanProceed)
}

func TestStaleCheckResultIsDiscarded(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	first := true

	store := NewStore(checkerFunc(func(context.Context, string, string) (bool, error) {
		if first {
			first = false
			close(entered)
			<-release
			return true, nil // stale answer: rated
		}
		return false, nil // fresh answer: not rated
	}))

	done := make(chan Snapshot)
	go func() {
		done <- store.Open(context.Background(), "order-1", "user-1", true)
	}()
	<-entered

	// A second open supersedes the in-flight check.
	snap := store.Open(context.Background(), "order-1", "user-1", true)
	assert.Equal(t, StateRatingRequired, snap.State)

	close(release)
	<-done

	// The stale "rated" answer must not have overwritten the newer state.
	snap = store.Snapshot("order-1", "user-1")
	assert.Equal(t, StateRatingRequired, snap.State)
	require.NotNil(t, snap.IsRated)
	assert.False(t, *snap.IsRated)
}

func TestSessionsAreIsolatedPerUserAndOrder(t *testing.T) {
	store := NewStore(ratedChecker(true))
	store.Open(context.Background(), "order-1", "user-1", true)
	store.Open(context.Background(), "order-1", "user-2", true)
	store.SetConfirmText("order-1", "user-1", "CONFIRM")
	store.SetAgreed("order-1", "user-1", true)

	assert.True(t, store.Snapshot("order-1", "user-1").CanProceed)
	assert.False(t, store.Snapshot("order-1", "user-2").CanProceed)

	store.Close("order-1", "user-1")
	assert.Equal(t, StateConfirming, store.Snapshot("order-1", "user-2").State)
}
