package ai

import (
	"errors"
	"fmt"
	"strings"
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = errors.New("ai returned an empty response")

// ErrorKind is the classified reason a provider call failed.
type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindInvalid           ErrorKind = "invalid"
	KindExpired           ErrorKind = "expired"
	KindQuotaExceeded     ErrorKind = "quota_exceeded"
	KindPermissionDenied  ErrorKind = "permission_denied"
	KindResourceExhausted ErrorKind = "resource_exhausted"
	KindEmptyResponse     ErrorKind = "empty_response"
	KindUnknown           ErrorKind = "unknown"
)

// Provider error code tokens.
const (
	CodeAPIKeyInvalid     = "API_KEY_INVALID"
	CodeAPIKeyExpired     = "API_KEY_EXPIRED"
	CodeQuotaExceeded     = "QUOTA_EXCEEDED"
	CodePermissionDenied  = "PERMISSION_DENIED"
	CodeResourceExhausted = "RESOURCE_EXHAUSTED"
)

// codeKinds is checked in order; the first token found in the error text wins.
var codeKinds = []struct {
	code string
	kind ErrorKind
}{
	{CodeAPIKeyInvalid, KindInvalid},
	{CodeAPIKeyExpired, KindExpired},
	{CodeQuotaExceeded, KindQuotaExceeded},
	{CodePermissionDenied, KindPermissionDenied},
	{CodeResourceExhausted, KindResourceExhausted},
}

// Codes returns the known code tokens in match order.
func Codes() []string {
	out := make([]string, len(codeKinds))
	for i, ck := range codeKinds {
		out[i] = ck.code
	}
	return out
}

// KindOf maps a single code token to its kind.
func KindOf(code string) ErrorKind {
	for _, ck := range codeKinds {
		if ck.code == code {
			return ck.kind
		}
	}
	return KindUnknown
}

// ProviderError carries a normalised code token next to the provider's own error.
type ProviderError struct {
	Code string
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Code == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Classify maps a provider error to an ErrorKind. A ProviderError code is
// preferred; otherwise the error text is searched for known tokens.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrEmptyResponse) {
		return KindEmptyResponse
	}
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Code != "" {
		if k := KindOf(pe.Code); k != KindUnknown {
			return k
		}
	}
	msg := err.Error()
	for _, ck := range codeKinds {
		if strings.Contains(msg, ck.code) {
			return ck.kind
		}
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return KindQuotaExceeded
	}
	return KindUnknown
}
