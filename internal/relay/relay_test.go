package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/randompartner/chat-bot/internal/i18n"
)

// fakeStore is an in-memory Store covering the relay's read/teardown needs.
type fakeStore struct {
	locales map[int64]string
	banned  map[int64]bool
	pairs   map[int64]int64
	ended   []int64 // users EndPair was called for
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		locales: map[int64]string{},
		banned:  map[int64]bool{},
		pairs:   map[int64]int64{},
	}
}

func (s *fakeStore) pair(a, b int64) {
	s.pairs[a] = b
	s.pairs[b] = a
}

func (s *fakeStore) IsBanned(_ context.Context, id int64) (bool, error) {
	return s.banned[id], nil
}

func (s *fakeStore) PartnerOf(_ context.Context, id int64) (int64, bool, error) {
	p, ok := s.pairs[id]
	return p, ok, nil
}

func (s *fakeStore) EndPair(_ context.Context, id int64) (int64, bool, error) {
	s.ended = append(s.ended, id)
	p, ok := s.pairs[id]
	if !ok {
		return 0, false, nil
	}
	delete(s.pairs, id)
	delete(s.pairs, p)
	return p, true, nil
}

func (s *fakeStore) LocaleOf(_ context.Context, id int64) (string, error) {
	if l, ok := s.locales[id]; ok {
		return l, nil
	}
	return "en", nil
}

type sentText struct {
	to   int64
	text string
}

type sentMedia struct {
	to      int64
	kind    Kind
	fileID  string
	caption string
}

// fakeSender records outbound sends and can fail sends to chosen peers.
type fakeSender struct {
	texts   []sentText
	media   []sentMedia
	prompts []int64
	failTo  map[int64]error
}

func newFakeSender() *fakeSender {
	return &fakeSender{failTo: map[int64]error{}}
}

func (f *fakeSender) SendText(_ context.Context, to int64, text string) error {
	if err := f.failTo[to]; err != nil {
		return err
	}
	f.texts = append(f.texts, sentText{to: to, text: text})
	return nil
}

func (f *fakeSender) SendMedia(_ context.Context, to int64, kind Kind, fileID, caption string) error {
	if err := f.failTo[to]; err != nil {
		return err
	}
	f.media = append(f.media, sentMedia{to: to, kind: kind, fileID: fileID, caption: caption})
	return nil
}

func (f *fakeSender) PromptJoin(_ context.Context, to int64, _ string) error {
	f.prompts = append(f.prompts, to)
	return nil
}

// textsTo returns all text messages sent to a user.
func (f *fakeSender) textsTo(id int64) []string {
	var out []string
	for _, s := range f.texts {
		if s.to == id {
			out = append(out, s.text)
		}
	}
	return out
}

type fakeArchive struct {
	msgs []Message
	err  error
}

func (a *fakeArchive) Archive(_ context.Context, msg Message, _ int64) error {
	if a.err != nil {
		return a.err
	}
	a.msgs = append(a.msgs, msg)
	return nil
}

type fakeGate struct {
	unsubscribed map[int64]bool
}

func (g *fakeGate) IsSubscribed(_ context.Context, id int64) (bool, error) {
	return !g.unsubscribed[id], nil
}

func setupRelay(t *testing.T) (*Relay, *fakeStore, *fakeSender, *fakeArchive, *fakeGate) {
	t.Helper()
	st := newFakeStore()
	sender := newFakeSender()
	arch := &fakeArchive{}
	gate := &fakeGate{unsubscribed: map[int64]bool{}}
	return New(st, sender, arch, gate), st, sender, arch, gate
}

func TestRelay_RoundTripTextWithPeerPrefix(t *testing.T) {
	r, st, sender, arch, _ := setupRelay(t)
	st.locales[1] = "en"
	st.locales[2] = "es"
	st.pair(1, 2)

	err := r.Do(context.Background(), Message{From: 1, Kind: KindText, Text: "hello"})
	if err != nil {
		t.Fatalf("relay: %v", err)
	}

	got := sender.textsTo(2)
	if len(got) != 1 {
		t.Fatalf("peer received %d messages, want 1", len(got))
	}
	wantPrefix := i18n.T("es", "partner_prefix")
	if !strings.HasPrefix(got[0], wantPrefix) {
		t.Errorf("forwarded text %q lacks peer-locale prefix %q", got[0], wantPrefix)
	}
	if !strings.Contains(got[0], "hello") {
		t.Errorf("forwarded text %q lacks the original body", got[0])
	}
	if len(arch.msgs) != 1 {
		t.Errorf("archive received %d messages, want 1", len(arch.msgs))
	}
}

func TestRelay_URLBlockedButArchived(t *testing.T) {
	r, st, sender, arch, _ := setupRelay(t)
	st.pair(1, 2)

	err := r.Do(context.Background(), Message{From: 1, Kind: KindText, Text: "visit https://x"})
	if err != nil {
		t.Fatalf("relay: %v", err)
	}

	if got := sender.textsTo(2); len(got) != 0 {
		t.Errorf("peer received %v, want nothing", got)
	}
	replies := sender.textsTo(1)
	if len(replies) != 1 || replies[0] != i18n.T("en", "link_blocked") {
		t.Errorf("sender replies = %v, want link_blocked notice", replies)
	}
	// Archive happens before filtering.
	if len(arch.msgs) != 1 {
		t.Errorf("archive received %d messages, want the pre-filter copy", len(arch.msgs))
	}
	// Pair preserved.
	if _, ok, _ := st.PartnerOf(context.Background(), 1); !ok {
		t.Error("pair should survive a policy block")
	}
}

func TestRelay_MentionBlocked(t *testing.T) {
	r, st, sender, _, _ := setupRelay(t)
	st.pair(1, 2)

	if err := r.Do(context.Background(), Message{From: 1, Kind: KindText, Text: "find me @someone"}); err != nil {
		t.Fatalf("relay: %v", err)
	}

	replies := sender.textsTo(1)
	if len(replies) != 1 || replies[0] != i18n.T("en", "username_blocked") {
		t.Errorf("sender replies = %v, want username_blocked notice", replies)
	}
	if got := sender.textsTo(2); len(got) != 0 {
		t.Errorf("peer received %v, want nothing", got)
	}
}

func TestRelay_CaptionedMediaGetsPrefix(t *testing.T) {
	r, st, sender, _, _ := setupRelay(t)
	st.locales[2] = "ar"
	st.pair(1, 2)

	msg := Message{From: 1, Kind: KindPhoto, FileID: "f1", Caption: "look"}
	if err := r.Do(context.Background(), msg); err != nil {
		t.Fatalf("relay: %v", err)
	}

	if len(sender.media) != 1 {
		t.Fatalf("peer received %d media, want 1", len(sender.media))
	}
	m := sender.media[0]
	wantPrefix := i18n.T("ar", "partner_prefix")
	if !strings.HasPrefix(m.caption, wantPrefix) || !strings.Contains(m.caption, "look") {
		t.Errorf("caption = %q, want prefix %q + original", m.caption, wantPrefix)
	}
	if m.fileID != "f1" || m.kind != KindPhoto {
		t.Errorf("forwarded media = %+v, want original file handle and kind", m)
	}
}

func TestRelay_StickerForwardedWithoutPrefix(t *testing.T) {
	r, st, sender, _, _ := setupRelay(t)
	st.pair(1, 2)

	if err := r.Do(context.Background(), Message{From: 1, Kind: KindSticker, FileID: "s1"}); err != nil {
		t.Fatalf("relay: %v", err)
	}

	if len(sender.media) != 1 {
		t.Fatalf("peer received %d media, want 1", len(sender.media))
	}
	if sender.media[0].caption != "" {
		t.Errorf("sticker caption = %q, want empty", sender.media[0].caption)
	}
}

func TestRelay_NotPaired(t *testing.T) {
	r, st, sender, arch, _ := setupRelay(t)
	st.locales[1] = "en"

	if err := r.Do(context.Background(), Message{From: 1, Kind: KindText, Text: "hi"}); err != nil {
		t.Fatalf("relay: %v", err)
	}

	replies := sender.textsTo(1)
	if len(replies) != 1 || replies[0] != i18n.T("en", "not_in_chat_msg") {
		t.Errorf("replies = %v, want not_in_chat notice", replies)
	}
	if len(arch.msgs) != 0 {
		t.Error("nothing should be archived for an unpaired sender")
	}
}

func TestRelay_BannedSender(t *testing.T) {
	r, st, sender, arch, _ := setupRelay(t)
	st.banned[1] = true
	st.pair(1, 2)

	if err := r.Do(context.Background(), Message{From: 1, Kind: KindText, Text: "hi"}); err != nil {
		t.Fatalf("relay: %v", err)
	}

	replies := sender.textsTo(1)
	if len(replies) != 1 || replies[0] != i18n.T("en", "globally_banned") {
		t.Errorf("replies = %v, want banned notice", replies)
	}
	if got := sender.textsTo(2); len(got) != 0 {
		t.Errorf("peer received %v, want nothing", got)
	}
	if len(arch.msgs) != 0 {
		t.Error("banned sender's message must not be archived")
	}
}

func TestRelay_UnsubscribedSenderPrompted(t *testing.T) {
	r, st, sender, _, gate := setupRelay(t)
	st.pair(1, 2)
	gate.unsubscribed[1] = true

	if err := r.Do(context.Background(), Message{From: 1, Kind: KindText, Text: "hi"}); err != nil {
		t.Fatalf("relay: %v", err)
	}

	if len(sender.prompts) != 1 || sender.prompts[0] != 1 {
		t.Errorf("join prompts = %v, want [1]", sender.prompts)
	}
	if got := sender.textsTo(2); len(got) != 0 {
		t.Errorf("peer received %v, want nothing", got)
	}
}

func TestRelay_UnreachablePeerTearsDownPair(t *testing.T) {
	r, st, sender, _, _ := setupRelay(t)
	st.pair(1, 2)
	sender.failTo[2] = fmt.Errorf("%w: bot was blocked by the user", ErrPeerUnreachable)

	if err := r.Do(context.Background(), Message{From: 1, Kind: KindText, Text: "hi"}); err != nil {
		t.Fatalf("relay: %v", err)
	}

	if _, ok, _ := st.PartnerOf(context.Background(), 1); ok {
		t.Error("pair should be gone after an unreachable peer")
	}
	if _, ok, _ := st.PartnerOf(context.Background(), 2); ok {
		t.Error("peer row should be gone too")
	}
	replies := sender.textsTo(1)
	if len(replies) != 1 || replies[0] != i18n.T("en", "unreachable_partner") {
		t.Errorf("replies = %v, want unreachable_partner notice", replies)
	}
}

func TestRelay_TransientSendErrorKeepsPair(t *testing.T) {
	r, st, sender, _, _ := setupRelay(t)
	st.pair(1, 2)
	sender.failTo[2] = errors.New("429: too many requests")

	err := r.Do(context.Background(), Message{From: 1, Kind: KindText, Text: "hi"})
	if err == nil {
		t.Fatal("transient failure should surface an error for logging")
	}

	if _, ok, _ := st.PartnerOf(context.Background(), 1); !ok {
		t.Error("pair must survive a transient send failure")
	}
	replies := sender.textsTo(1)
	if len(replies) != 1 || replies[0] != i18n.T("en", "send_failed") {
		t.Errorf("replies = %v, want send_failed notice", replies)
	}
	if len(st.ended) != 0 {
		t.Errorf("EndPair called %d times, want 0", len(st.ended))
	}
}

func TestRelay_ArchiveFailureDoesNotAbort(t *testing.T) {
	r, st, sender, arch, _ := setupRelay(t)
	st.pair(1, 2)
	arch.err = errors.New("log channel unavailable")

	if err := r.Do(context.Background(), Message{From: 1, Kind: KindText, Text: "hello"}); err != nil {
		t.Fatalf("relay: %v", err)
	}

	if got := sender.textsTo(2); len(got) != 1 {
		t.Errorf("peer received %d messages, want the relay to proceed", len(got))
	}
}
