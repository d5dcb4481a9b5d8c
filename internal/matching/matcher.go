// Package matching pairs seekers with waiting users. A seeker either claims
// the oldest eligible waiter (same locale, not mutually blocked, not banned)
// or joins the waiting queue; the claim-or-enqueue step is a single database
// transaction so two concurrent seekers can never claim the same waiter.
package matching

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/randompartner/chat-bot/internal/metrics"
	"github.com/randompartner/chat-bot/internal/store"
)

// ErrAlreadyPaired is returned when a seeker invokes TryMatch while still in
// an active chat. The dispatcher rejects this earlier; the guard here keeps
// the pair tables consistent even if a caller slips through.
var ErrAlreadyPaired = errors.New("matching: seeker is already paired")

// Result is the outcome of a match attempt.
type Result struct {
	Matched bool
	Peer    int64 // set when Matched
}

// Matcher runs match attempts against the store.
type Matcher struct {
	store *store.Store
}

// New creates a Matcher.
func New(st *store.Store) *Matcher {
	return &Matcher{store: st}
}

// TryMatch attempts to pair the seeker with an eligible waiter. When no
// waiter qualifies the seeker is enqueued; a seeker who was already waiting
// keeps their original queue position.
func (m *Matcher) TryMatch(ctx context.Context, seeker int64) (Result, error) {
	if _, paired, err := m.store.PartnerOf(ctx, seeker); err != nil {
		return Result{}, fmt.Errorf("matching: guard read: %w", err)
	} else if paired {
		return Result{}, ErrAlreadyPaired
	}

	locale, err := m.store.LocaleOf(ctx, seeker)
	if err != nil {
		return Result{}, fmt.Errorf("matching: locale read: %w", err)
	}

	peer, matched, err := m.store.TryMatch(ctx, seeker, locale)
	if err != nil {
		return Result{}, err
	}
	if !matched {
		log.Printf("[matcher] user %d enqueued (locale %s)", seeker, locale)
		return Result{}, nil
	}

	metrics.MatchesTotal.Inc()
	log.Printf("[matcher] match found: %d <-> %d (locale %s)", seeker, peer, locale)
	return Result{Matched: true, Peer: peer}, nil
}
