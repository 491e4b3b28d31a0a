package credentials

import "strings"

// redactPrefix is how many characters of a key may appear in logs.
const redactPrefix = 5

// SessionField is the session key under which a credential is stored.
const SessionField = "api_key"

// Credential is a provider API key. It is passed by value and never logged in full.
type Credential struct {
	raw string
}

// New trims the key and wraps it.
func New(raw string) Credential {
	return Credential{raw: strings.TrimSpace(raw)}
}

// Key returns the raw key for handing to a provider.
func (c Credential) Key() string { return c.raw }

// Empty reports whether the credential carries no key.
func (c Credential) Empty() bool { return c.raw == "" }

// Redacted returns a short prefix safe for diagnostics.
func (c Credential) Redacted() string {
	r := []rune(c.raw)
	if len(r) <= redactPrefix {
		return strings.Repeat("*", len(r)) + "..."
	}
	return string(r[:redactPrefix]) + "..."
}

// String implements fmt.Stringer with the redacted form.
func (c Credential) String() string { return c.Redacted() }
