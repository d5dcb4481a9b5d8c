// Package policy screens relayed message text for content that would break
// anonymity: links that lead off-platform and @-mentions that leak usernames.
// Checks run on the text body or media caption before a message is forwarded
// to the partner.
package policy

import (
	"regexp"
	"strings"
)

// urlPattern matches http/https URLs, www. links, and Telegram's own
// short-link hostnames, followed by a host-like run. Compiled once at
// package init and reused for every call, safe for concurrent use.
var urlPattern = regexp.MustCompile(
	`(?i)(https?://|www\.|t\.me/|t\.co/|telegram\.me/|telegram\.dog/)` +
		`[\w.-]+(\.[\w.-]+)*([\w\-._~:/?#\[\]@!$&'()*+,;=])*`)

// Reasons a message can be rejected.
const (
	ReasonLink    = "link"
	ReasonMention = "mention"
)

// Verdict is the outcome of a content check.
type Verdict struct {
	Blocked bool
	Reason  string // ReasonLink or ReasonMention when Blocked
}

// ContainsURL reports whether text contains a URL or a platform short link.
func ContainsURL(text string) bool {
	return urlPattern.MatchString(text)
}

// ContainsMention reports whether text contains a username mention. Any
// literal '@' counts: partial usernames are as identifying as full ones.
func ContainsMention(text string) bool {
	return strings.ContainsRune(text, '@')
}

// Check runs all content checks against text. The first match wins; links
// are checked before mentions.
func Check(text string) Verdict {
	if text == "" {
		return Verdict{}
	}
	if ContainsURL(text) {
		return Verdict{Blocked: true, Reason: ReasonLink}
	}
	if ContainsMention(text) {
		return Verdict{Blocked: true, Reason: ReasonMention}
	}
	return Verdict{}
}
