package credentials

import (
	"strings"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/credentials"
)

// HeaderName carries a per-request key.
const HeaderName = "X-API-Key"

// Resolve picks the caller's credential: the header first, then the session.
// A nil session or blank values resolve to absent.
func Resolve(header string, session domain.Reader) (domain.Credential, bool) {
	if h := strings.TrimSpace(header); h != "" {
		return domain.New(h), true
	}
	if session == nil {
		return domain.Credential{}, false
	}
	v, ok := session.Get(domain.SessionField)
	if !ok || strings.TrimSpace(v) == "" {
		return domain.Credential{}, false
	}
	return domain.New(v), true
}
