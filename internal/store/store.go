// Package store provides PostgreSQL-backed storage for the matching and
// relay core: registered users, the waiting queue, active pairs, mutual
// blocks, and global bans. Every operation is atomic with respect to
// concurrent callers; the claim-a-waiter path uses row locking so two
// seekers can never claim the same waiter.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DefaultLocale is assumed for users that have never picked a language.
const DefaultLocale = "en"

// Store manages all durable chat state in PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a Store backed by the given database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migrations and health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// EnsureUser upserts a user record, overwriting the stored locale.
func (s *Store) EnsureUser(ctx context.Context, userID int64, locale string) error {
	const query = `
		INSERT INTO all_users (user_id, language) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET language = EXCLUDED.language`

	if _, err := s.db.ExecContext(ctx, query, userID, locale); err != nil {
		return fmt.Errorf("store: ensure user: %w", err)
	}
	return nil
}

// UserExists reports whether the user has been observed before.
func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	const query = `SELECT 1 FROM all_users WHERE user_id = $1`

	var one int
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: user exists: %w", err)
	}
	return true, nil
}

// LocaleOf returns the user's locale, or DefaultLocale for unknown users.
func (s *Store) LocaleOf(ctx context.Context, userID int64) (string, error) {
	const query = `SELECT language FROM all_users WHERE user_id = $1`

	var locale string
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&locale)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultLocale, nil
	}
	if err != nil {
		return "", fmt.Errorf("store: locale of: %w", err)
	}
	return locale, nil
}

// IsBanned reports whether the user is globally banned.
func (s *Store) IsBanned(ctx context.Context, userID int64) (bool, error) {
	const query = `SELECT 1 FROM global_bans WHERE user_id = $1`

	var one int
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: is banned: %w", err)
	}
	return true, nil
}

// PartnerOf returns the user's current chat partner, if any.
func (s *Store) PartnerOf(ctx context.Context, userID int64) (int64, bool, error) {
	const query = `SELECT partner_id FROM active_chats WHERE user_id = $1`

	var partner int64
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&partner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("store: partner of: %w", err)
	}
	return partner, true, nil
}

// IsWaiting reports whether the user is in the waiting queue.
func (s *Store) IsWaiting(ctx context.Context, userID int64) (bool, error) {
	const query = `SELECT 1 FROM waiting_queue WHERE user_id = $1`

	var one int
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: is waiting: %w", err)
	}
	return true, nil
}

// EnqueueIfAbsent adds the user to the waiting queue. No-op if already
// queued; the original enqueue timestamp is kept so FIFO order holds.
func (s *Store) EnqueueIfAbsent(ctx context.Context, userID int64) error {
	const query = `
		INSERT INTO waiting_queue (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("store: enqueue: %w", err)
	}
	return nil
}

// Dequeue removes the user from the waiting queue. No-op if absent.
func (s *Store) Dequeue(ctx context.Context, userID int64) error {
	const query = `DELETE FROM waiting_queue WHERE user_id = $1`

	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("store: dequeue: %w", err)
	}
	return nil
}

// claimQuery selects the oldest eligible waiter for a seeker and removes it
// from the queue in one statement. FOR UPDATE SKIP LOCKED makes concurrent
// seekers skip rows already claimed by an uncommitted transaction instead
// of blocking on them, so exactly one seeker wins each waiter.
const claimQuery = `
	DELETE FROM waiting_queue
	WHERE user_id = (
		SELECT w.user_id
		FROM waiting_queue w
		JOIN all_users au ON au.user_id = w.user_id
		WHERE w.user_id <> $1
		  AND au.language = $2
		  AND NOT EXISTS (SELECT 1 FROM user_blocks b WHERE b.blocker_id = $1 AND b.blocked_id = w.user_id)
		  AND NOT EXISTS (SELECT 1 FROM user_blocks b WHERE b.blocker_id = w.user_id AND b.blocked_id = $1)
		  AND NOT EXISTS (SELECT 1 FROM global_bans g WHERE g.user_id = w.user_id)
		ORDER BY w.timestamp ASC
		LIMIT 1
		FOR UPDATE OF w SKIP LOCKED
	)
	RETURNING user_id`

const bindQuery = `INSERT INTO active_chats (user_id, partner_id) VALUES ($1, $2), ($2, $1)`

// ClaimEligibleWaiter atomically removes and returns the oldest waiter that
// shares the seeker's locale, is not mutually blocked with the seeker, and
// is not globally banned. Returns ok=false when no waiter qualifies.
func (s *Store) ClaimEligibleWaiter(ctx context.Context, seeker int64, seekerLocale string) (int64, bool, error) {
	var waiter int64
	err := s.db.QueryRowContext(ctx, claimQuery, seeker, seekerLocale).Scan(&waiter)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("store: claim waiter: %w", err)
	}
	return waiter, true, nil
}

// BindPair inserts both symmetric pair rows. The primary key on user_id and
// the uniqueness constraint on partner_id make concurrent attempts to bind
// an already-paired user fail loudly.
func (s *Store) BindPair(ctx context.Context, a, b int64) error {
	if _, err := s.db.ExecContext(ctx, bindQuery, a, b); err != nil {
		return fmt.Errorf("store: bind pair: %w", err)
	}
	return nil
}

// TryMatch runs the claim-or-enqueue step in a single transaction: claim an
// eligible waiter and bind the pair, or enqueue the seeker when no waiter
// qualifies. Holding both steps in one transaction keeps the claimed row
// locked until the pair rows are committed.
func (s *Store) TryMatch(ctx context.Context, seeker int64, seekerLocale string) (int64, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("store: try match begin: %w", err)
	}
	defer tx.Rollback()

	var partner int64
	err = tx.QueryRowContext(ctx, claimQuery, seeker, seekerLocale).Scan(&partner)
	if errors.Is(err, sql.ErrNoRows) {
		// Recheck pair membership inside the transaction: a concurrent
		// seeker may have claimed and bound this seeker after the caller's
		// guard read, and a paired user must never sit in the queue.
		const enqueue = `
			INSERT INTO waiting_queue (user_id)
			SELECT $1
			WHERE NOT EXISTS (SELECT 1 FROM active_chats WHERE user_id = $1)
			ON CONFLICT (user_id) DO NOTHING`
		if _, err := tx.ExecContext(ctx, enqueue, seeker); err != nil {
			return 0, false, fmt.Errorf("store: try match enqueue: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return 0, false, fmt.Errorf("store: try match commit: %w", err)
		}
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("store: try match claim: %w", err)
	}

	if _, err := tx.ExecContext(ctx, bindQuery, seeker, partner); err != nil {
		return 0, false, fmt.Errorf("store: try match bind: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("store: try match commit: %w", err)
	}
	return partner, true, nil
}

// EndPair deletes both symmetric pair rows in one transaction and returns
// the former partner. Returns ok=false (and no error) when the user was not
// in a pair.
func (s *Store) EndPair(ctx context.Context, userID int64) (int64, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("store: end pair begin: %w", err)
	}
	defer tx.Rollback()

	partner, ok, err := endPairTx(ctx, tx, userID)
	if err != nil {
		return 0, false, err
	}
	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("store: end pair commit: %w", err)
	}
	return partner, ok, nil
}

func endPairTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, bool, error) {
	const del = `DELETE FROM active_chats WHERE user_id = $1 RETURNING partner_id`

	var partner int64
	err := tx.QueryRowContext(ctx, del, userID).Scan(&partner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("store: end pair delete: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM active_chats WHERE user_id = $1`, partner); err != nil {
		return 0, false, fmt.Errorf("store: end pair delete partner: %w", err)
	}
	return partner, true, nil
}

// AddBlock records that blocker never wants to meet blocked again.
// Idempotent; blocks are never deleted.
func (s *Store) AddBlock(ctx context.Context, blocker, blocked int64) error {
	const query = `
		INSERT INTO user_blocks (blocker_id, blocked_id) VALUES ($1, $2)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, blocker, blocked); err != nil {
		return fmt.Errorf("store: add block: %w", err)
	}
	return nil
}

// AddGlobalBan bans a user and atomically evicts them from the waiting
// queue and from any active pair. Returns the evicted partner, if there was
// one, so the caller can notify them. Idempotent.
func (s *Store) AddGlobalBan(ctx context.Context, userID int64) (int64, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("store: ban begin: %w", err)
	}
	defer tx.Rollback()

	const ban = `INSERT INTO global_bans (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, ban, userID); err != nil {
		return 0, false, fmt.Errorf("store: ban insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM waiting_queue WHERE user_id = $1`, userID); err != nil {
		return 0, false, fmt.Errorf("store: ban dequeue: %w", err)
	}

	partner, ok, err := endPairTx(ctx, tx, userID)
	if err != nil {
		return 0, false, err
	}
	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("store: ban commit: %w", err)
	}
	return partner, ok, nil
}

// RemoveGlobalBan lifts a global ban. Operator action only; no-op if the
// user is not banned.
func (s *Store) RemoveGlobalBan(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM global_bans WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("store: remove ban: %w", err)
	}
	return nil
}

// CountWaiting returns the current waiting-queue depth.
func (s *Store) CountWaiting(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM waiting_queue`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count waiting: %w", err)
	}
	return n, nil
}

// CountActiveChats returns the number of active pairs (two rows per pair).
func (s *Store) CountActiveChats(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM active_chats`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count active chats: %w", err)
	}
	return n / 2, nil
}

// AllUsers returns every registered user id, for operator broadcasts.
func (s *Store) AllUsers(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM all_users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("store: all users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: all users scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: all users rows: %w", err)
	}
	return ids, nil
}
