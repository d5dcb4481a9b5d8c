// Package relay forwards content messages between paired users. Each relay
// runs the full gate chain (ban, channel subscription, partner lookup,
// best-effort archive, content policy) before the message is forwarded
// with the peer's localized anonymity prefix. A terminal delivery failure
// (the peer blocked the bot, deactivated, or has no chat) tears the pair
// down; transient failures leave it intact.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/randompartner/chat-bot/internal/i18n"
	"github.com/randompartner/chat-bot/internal/metrics"
	"github.com/randompartner/chat-bot/internal/policy"
)

// ErrPeerUnreachable marks a terminal delivery failure. The platform
// adapter wraps bot-blocked / user-deactivated / chat-not-found errors with
// it so the relay can distinguish teardown from retry-later conditions.
var ErrPeerUnreachable = errors.New("peer unreachable")

// Store is the subset of store operations the relay needs.
type Store interface {
	IsBanned(ctx context.Context, userID int64) (bool, error)
	PartnerOf(ctx context.Context, userID int64) (int64, bool, error)
	EndPair(ctx context.Context, userID int64) (int64, bool, error)
	LocaleOf(ctx context.Context, userID int64) (string, error)
}

// Sender delivers outbound messages. Every send sets the platform's
// copy-protection flag.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendMedia(ctx context.Context, chatID int64, kind Kind, fileID, caption string) error
	PromptJoin(ctx context.Context, chatID int64, locale string) error
}

// Archiver copies relayed messages to the operator log channel. A nil
// Archiver disables archiving.
type Archiver interface {
	Archive(ctx context.Context, msg Message, partner int64) error
}

// SubscriptionGate checks mandatory channel membership.
type SubscriptionGate interface {
	IsSubscribed(ctx context.Context, userID int64) (bool, error)
}

// Relay forwards messages from a sender to their current partner.
type Relay struct {
	store   Store
	sender  Sender
	archive Archiver // may be nil
	gate    SubscriptionGate
}

// New creates a Relay. archive may be nil to disable the log channel copy.
func New(st Store, sender Sender, archive Archiver, gate SubscriptionGate) *Relay {
	return &Relay{store: st, sender: sender, archive: archive, gate: gate}
}

// Do relays one inbound message from its sender to the sender's partner.
// All user-visible failures are reported to the sender in their own locale;
// the returned error is for logging only.
func (r *Relay) Do(ctx context.Context, msg Message) error {
	start := time.Now()
	defer func() { metrics.RelayLatency.Observe(time.Since(start).Seconds()) }()

	sender := msg.From

	locale, err := r.store.LocaleOf(ctx, sender)
	if err != nil {
		return fmt.Errorf("relay: locale: %w", err)
	}

	banned, err := r.store.IsBanned(ctx, sender)
	if err != nil {
		return fmt.Errorf("relay: ban check: %w", err)
	}
	if banned {
		r.reply(ctx, sender, locale, "globally_banned")
		return nil
	}

	subscribed, err := r.gate.IsSubscribed(ctx, sender)
	if err != nil {
		// Membership unknown: let the message through rather than lock the
		// user out on a flaky channel query.
		log.Printf("[relay] subscription check for %d failed: %v (allowing)", sender, err)
	} else if !subscribed {
		if err := r.sender.PromptJoin(ctx, sender, locale); err != nil {
			log.Printf("[relay] join prompt to %d failed: %v", sender, err)
		}
		return nil
	}

	peer, paired, err := r.store.PartnerOf(ctx, sender)
	if err != nil {
		return fmt.Errorf("relay: partner lookup: %w", err)
	}
	if !paired {
		r.reply(ctx, sender, locale, "not_in_chat_msg")
		return nil
	}

	// Archive before filtering so operators can see what was blocked.
	// Fire-and-forget: archive failures never abort the relay.
	if r.archive != nil {
		if err := r.archive.Archive(ctx, msg, peer); err != nil {
			log.Printf("[relay] archive failed for %d -> %d: %v", sender, peer, err)
		}
	}

	if v := policy.Check(msg.Body()); v.Blocked {
		key := "link_blocked"
		if v.Reason == policy.ReasonMention {
			key = "username_blocked"
		}
		r.reply(ctx, sender, locale, key)
		metrics.RelaysTotal.WithLabelValues("blocked").Inc()
		log.Printf("[relay] blocked %s from %d (%s)", msg.Kind, sender, v.Reason)
		return nil
	}

	if err := r.forward(ctx, msg, peer); err != nil {
		if errors.Is(err, ErrPeerUnreachable) {
			// Terminal: tear the pair down and tell the sender.
			if _, _, endErr := r.store.EndPair(ctx, sender); endErr != nil {
				log.Printf("[relay] teardown after unreachable peer %d: %v", peer, endErr)
			}
			r.reply(ctx, sender, locale, "unreachable_partner")
			metrics.RelaysTotal.WithLabelValues("failed").Inc()
			log.Printf("[relay] peer %d unreachable, chat with %d ended", peer, sender)
			return nil
		}
		r.reply(ctx, sender, locale, "send_failed")
		metrics.RelaysTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("relay: forward to %d: %w", peer, err)
	}

	metrics.RelaysTotal.WithLabelValues("sent").Inc()
	return nil
}

// forward sends the message to the peer with the peer-locale anonymity
// prefix. Stickers carry no text and are forwarded as-is.
func (r *Relay) forward(ctx context.Context, msg Message, peer int64) error {
	peerLocale, err := r.store.LocaleOf(ctx, peer)
	if err != nil {
		return fmt.Errorf("peer locale: %w", err)
	}
	prefix := i18n.T(peerLocale, "partner_prefix")

	switch msg.Kind {
	case KindText:
		return r.sender.SendText(ctx, peer, prefix+msg.Text)
	case KindSticker:
		return r.sender.SendMedia(ctx, peer, KindSticker, msg.FileID, "")
	default:
		caption := msg.Caption
		if caption != "" {
			caption = prefix + caption
		}
		return r.sender.SendMedia(ctx, peer, msg.Kind, msg.FileID, caption)
	}
}

// reply sends a localized notice to the sender; failures are only logged.
func (r *Relay) reply(ctx context.Context, userID int64, locale, key string) {
	if err := r.sender.SendText(ctx, userID, i18n.T(locale, key)); err != nil {
		log.Printf("[relay] reply %q to %d failed: %v", key, userID, err)
	}
}
