package session

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"

	"github.com/randompartner/chat-bot/internal/store"
)

func setupSession(t *testing.T) (*store.Store, context.Context) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("skipping: TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open Postgres: %v", err)
	}

	ctx := context.Background()
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		t.Skipf("skipping: Postgres not available: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	truncate := func() {
		_, err := db.ExecContext(ctx,
			`TRUNCATE all_users, active_chats, waiting_queue, user_blocks, global_bans`)
		if err != nil {
			t.Fatalf("truncate: %v", err)
		}
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		db.Close()
	})

	return store.New(db), ctx
}

func TestResolve_Lifecycle(t *testing.T) {
	st, ctx := setupSession(t)
	for _, id := range []int64{1, 2} {
		if err := st.EnsureUser(ctx, id, "en"); err != nil {
			t.Fatal(err)
		}
	}

	status, err := Resolve(ctx, st, 1)
	if err != nil {
		t.Fatal(err)
	}
	if status.State != Idle {
		t.Fatalf("fresh user state = %v, want idle", status.State)
	}

	if err := st.EnqueueIfAbsent(ctx, 1); err != nil {
		t.Fatal(err)
	}
	status, _ = Resolve(ctx, st, 1)
	if status.State != Waiting {
		t.Fatalf("enqueued state = %v, want waiting", status.State)
	}

	if err := st.Dequeue(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := st.BindPair(ctx, 1, 2); err != nil {
		t.Fatal(err)
	}
	status, _ = Resolve(ctx, st, 1)
	if status.State != Paired || status.Partner != 2 {
		t.Fatalf("paired status = %+v, want paired with 2", status)
	}

	if _, _, err := st.EndPair(ctx, 1); err != nil {
		t.Fatal(err)
	}
	status, _ = Resolve(ctx, st, 1)
	if status.State != Idle {
		t.Fatalf("post-chat state = %v, want idle", status.State)
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{
		Idle:     "idle",
		Waiting:  "waiting",
		Paired:   "paired",
		State(9): "state(9)",
	} {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
