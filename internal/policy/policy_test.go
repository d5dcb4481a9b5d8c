package policy

import "testing"

// TestCheck_URLs verifies that link formats from every supported scheme and
// short-link host are blocked.
func TestCheck_URLs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		blocked bool
	}{
		{"http url", "visit http://example.com now", true},
		{"https url", "visit https://x", true},
		{"uppercase scheme", "VISIT HTTPS://EXAMPLE.COM", true},
		{"www link", "go to www.example.com", true},
		{"telegram short link", "join t.me/somechannel", true},
		{"t.co link", "see t.co/abc123", true},
		{"telegram.me link", "telegram.me/group here", true},
		{"telegram.dog link", "telegram.dog/bots", true},
		{"plain text", "hello how are you", false},
		{"decimal number", "pi is 3.14 roughly", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Check(tt.input)
			if v.Blocked != tt.blocked {
				t.Errorf("Check(%q).Blocked = %v, want %v", tt.input, v.Blocked, tt.blocked)
			}
			if tt.blocked && v.Reason != ReasonLink {
				t.Errorf("Check(%q).Reason = %q, want %q", tt.input, v.Reason, ReasonLink)
			}
		})
	}
}

// TestCheck_Mentions verifies that any literal '@' blocks the message.
func TestCheck_Mentions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		blocked bool
	}{
		{"full username", "message me @someone", true},
		{"bare at sign", "meet @ the corner", true},
		{"email address", "mail me a@b.c", true},
		{"no at sign", "just a normal message", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Check(tt.input)
			if v.Blocked != tt.blocked {
				t.Errorf("Check(%q).Blocked = %v, want %v", tt.input, v.Blocked, tt.blocked)
			}
			if tt.blocked && v.Reason != ReasonMention {
				t.Errorf("Check(%q).Reason = %q, want %q", tt.input, v.Reason, ReasonMention)
			}
		})
	}
}

// TestCheck_LinkWinsOverMention verifies check ordering when both match.
func TestCheck_LinkWinsOverMention(t *testing.T) {
	v := Check("https://example.com/@someone")
	if !v.Blocked || v.Reason != ReasonLink {
		t.Errorf("Check = %+v, want blocked with reason %q", v, ReasonLink)
	}
}
