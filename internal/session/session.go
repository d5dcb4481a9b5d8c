// Package session derives a user's logical chat state from the store. The
// state is never materialized: every command resolves it fresh from the
// authoritative pair and queue tables.
package session

import (
	"context"
	"fmt"

	"github.com/randompartner/chat-bot/internal/store"
)

// State is a user's logical position in the chat lifecycle.
type State int

const (
	// Idle: not chatting, not searching.
	Idle State = iota
	// Waiting: enqueued, searching for a partner.
	Waiting
	// Paired: in an active chat.
	Paired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Waiting:
		return "waiting"
	case Paired:
		return "paired"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Status is a resolved state plus the partner id when Paired.
type Status struct {
	State   State
	Partner int64
}

// Resolve computes the user's current state from the store. Pair membership
// wins over queue membership; the store's exclusivity constraint keeps the
// two from coexisting anyway.
func Resolve(ctx context.Context, st *store.Store, userID int64) (Status, error) {
	partner, paired, err := st.PartnerOf(ctx, userID)
	if err != nil {
		return Status{}, err
	}
	if paired {
		return Status{State: Paired, Partner: partner}, nil
	}

	waiting, err := st.IsWaiting(ctx, userID)
	if err != nil {
		return Status{}, err
	}
	if waiting {
		return Status{State: Waiting}, nil
	}
	return Status{State: Idle}, nil
}
