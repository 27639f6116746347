// Package downloadgate implements the confirmation workflow that gates
// access to a delivered file: the order must be rated, the caller must
// type the confirmation phrase, and the caller must acknowledge that the
// action is irreversible. The engine performs no I/O of its own beyond
// the injected rating checker and invokes a caller-supplied callback only
// when every guard holds.
package downloadgate

import (
	"context"
	"errors"
	"sync"

	"suvix_backend/internal/validator"
)

type State string

const (
	// StateChecking: the rating status lookup is in flight.
	StateChecking State = "checking_rating"
	// StateRatingRequired: the order is not rated (or the check could not
	// be performed); rating must be submitted before confirmation.
	StateRatingRequired State = "rating_required"
	// StateConfirming: rated; collecting the confirmation phrase and the
	// irreversibility acknowledgement.
	StateConfirming State = "confirming"
)

var (
	ErrNotOpen             = errors.New("download gate: session not open")
	ErrChecking            = errors.New("download gate: rating check in progress")
	ErrRatingRequired      = errors.New("download gate: order must be rated first")
	ErrConfirmationInvalid = errors.New("download gate: confirmation text or acknowledgement missing")
)

// RatingChecker reports whether the order has been rated by the user.
type RatingChecker interface {
	IsRated(ctx context.Context, orderID, userID string) (bool, error)
}

// session is the mutable per-(user, order) state. All mutation goes
// through Store.apply; nothing outside this package sees the struct.
type session struct {
	state state
	gen   uint64
}

type state struct {
	phase       State
	confirmText string
	agreed      bool
	isRated     *bool // nil = unknown/loading
	checkFailed bool  // the lookup errored; isRated=false is a default, not a fact
}

// Snapshot is the read-only view handed to callers.
type Snapshot struct {
	State        State `json:"state"`
	ConfirmValid bool  `json:"confirm_valid"`
	Agreed       bool  `json:"agreed"`
	IsRated      *bool `json:"is_rated"`
	CheckFailed  bool  `json:"check_failed"`
	CanProceed   bool  `json:"can_proceed"`
}

// Store owns every gate session. It is safe for concurrent use; a single
// mutex plus the apply entry point make each transition atomic.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	checker  RatingChecker
}

func NewStore(checker RatingChecker) *Store {
	return &Store{
		sessions: make(map[string]*session),
		checker:  checker,
	}
}

func key(orderID, userID string) string {
	return userID + ":" + orderID
}

// apply is the single mutation entry point. It returns the session's
// generation so in-flight work can detect it has been superseded.
func (s *Store) apply(k string, fn func(*session)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[k]
	if !ok {
		sess = &session{}
		s.sessions[k] = sess
	}
	fn(sess)
	return sess.gen
}

// Open starts (or restarts) a gate session and runs the rating check.
// An unauthenticated caller or a checker failure defaults to "not rated":
// the gate fails closed toward requiring a rating, never open toward
// allowing a download. A checker failure is additionally flagged on the
// snapshot so callers can distinguish "unrated" from "check failed".
func (s *Store) Open(ctx context.Context, orderID, userID string, authenticated bool) Snapshot {
	k := key(orderID, userID)

	gen := s.apply(k, func(sess *session) {
		sess.gen++
		sess.state = state{phase: StateChecking}
	})

	if !authenticated {
		notRated := false
		s.applyIfCurrent(k, gen, func(sess *session) {
			sess.state.isRated = &notRated
			sess.state.phase = StateRatingRequired
		})
		return s.Snapshot(orderID, userID)
	}

	rated, err := s.checker.IsRated(ctx, orderID, userID)
	s.applyIfCurrent(k, gen, func(sess *session) {
		if err != nil {
			notRated := false
			sess.state.isRated = &notRated
			sess.state.checkFailed = true
			sess.state.phase = StateRatingRequired
			return
		}
		sess.state.isRated = &rated
		if rated {
			sess.state.phase = StateConfirming
		} else {
			sess.state.phase = StateRatingRequired
		}
	})

	return s.Snapshot(orderID, userID)
}

// applyExisting mutates an open session and reports whether one existed.
// Unlike apply it never creates a session, so collecting inputs against a
// closed gate is a no-op instead of a phantom session.
func (s *Store) applyExisting(k string, fn func(*session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[k]
	if !ok {
		return false
	}
	fn(sess)
	return true
}

// applyIfCurrent applies fn only when the session still exists and its
// generation matches; a stale in-flight result never overwrites newer
// state.
func (s *Store) applyIfCurrent(k string, gen uint64, fn func(*session)) bool {
	applied := false
	s.applyExisting(k, func(sess *session) {
		if sess.gen == gen {
			fn(sess)
			applied = true
		}
	})
	return applied
}

// MarkRated records a successful rating submission and moves the session
// to the confirmation step. This is the sole transition that flips
// isRated to true.
func (s *Store) MarkRated(orderID, userID string) {
	rated := true
	s.applyExisting(key(orderID, userID), func(sess *session) {
		sess.state.isRated = &rated
		sess.state.checkFailed = false
		sess.state.phase = StateConfirming
	})
}

func (s *Store) SetConfirmText(orderID, userID, text string) {
	s.applyExisting(key(orderID, userID), func(sess *session) {
		sess.state.confirmText = text
	})
}

func (s *Store) SetAgreed(orderID, userID string, agreed bool) {
	s.applyExisting(key(orderID, userID), func(sess *session) {
		sess.state.agreed = agreed
	})
}

// Snapshot returns the current view; a session that was never opened
// reads as a fresh checking session with nothing granted.
func (s *Store) Snapshot(orderID, userID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key(orderID, userID)]
	if !ok {
		return Snapshot{State: StateChecking}
	}
	return snapshotOf(sess)
}

func snapshotOf(sess *session) Snapshot {
	st := sess.state
	confirmValid := validator.IsConfirmPhrase(st.confirmText)
	rated := st.isRated != nil && *st.isRated
	return Snapshot{
		State:        st.phase,
		ConfirmValid: confirmValid,
		Agreed:       st.agreed,
		IsRated:      st.isRated,
		CheckFailed:  st.checkFailed,
		CanProceed:   st.phase == StateConfirming && confirmValid && st.agreed && rated,
	}
}

// Confirm invokes onConfirm with the typed confirmation text if and only
// if every guard holds: the session is past the rating check, the order
// is rated, the phrase matches, and the acknowledgement is set. The gate
// performs no network I/O for the download itself.
func (s *Store) Confirm(orderID, userID string, onConfirm func(confirmText string) error) error {
	s.mu.Lock()

	sess, ok := s.sessions[key(orderID, userID)]
	if !ok {
		s.mu.Unlock()
		return ErrNotOpen
	}

	snap := snapshotOf(sess)
	confirmText := sess.state.confirmText
	s.mu.Unlock()

	switch {
	case snap.State == StateChecking:
		return ErrChecking
	case snap.IsRated == nil || !*snap.IsRated:
		return ErrRatingRequired
	case !snap.ConfirmValid || !snap.Agreed:
		return ErrConfirmationInvalid
	}

	// Callback runs outside the lock; it may perform I/O.
	return onConfirm(confirmText)
}

// Close discards the session entirely. Reopening resets confirmText,
// agreed and isRated and re-runs the rating check; no state leaks
// across open/close cycles.
func (s *Store) Close(orderID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key(orderID, userID))
}
