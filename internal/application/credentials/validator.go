package credentials

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sbateeni/legal-analysis-nextjs/internal/application"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/ai"
	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/credentials"
)

// ProbePrompt is the trivial prompt sent to check a key.
const ProbePrompt = "Test"

const keyHelpURL = "https://makersuite.google.com/app/apikey"

// KindFormat marks a key rejected by the syntactic check.
const KindFormat ai.ErrorKind = "invalid_format"

// ErrMissingKey is returned for a blank key.
var ErrMissingKey = errors.New("api key is required")

// ErrFormat is returned when a key fails the syntactic check.
var ErrFormat = errors.New("invalid api key format")

// Validation is the outcome of checking a credential.
type Validation struct {
	Valid   bool         `json:"valid"`
	Kind    ai.ErrorKind `json:"kind,omitempty"`
	Message string       `json:"message"`
	Details string       `json:"details"`
	Help    string       `json:"help,omitempty"`
}

// Options tunes the validator.
type Options struct {
	Prefix    string
	MinLength int
	// CacheTTL keeps successful probes; zero disables caching.
	CacheTTL time.Duration
	// CheckTimeout bounds a live check; zero means DefaultCheckTimeout.
	CheckTimeout time.Duration
}

// DefaultCheckTimeout bounds a live check when Options leave it unset.
const DefaultCheckTimeout = 30 * time.Second

// Validator checks keys syntactically, then with a live probe.
type Validator struct {
	provider ai.Provider
	opts     Options
	clock    application.Clock
	log      *zap.Logger

	group singleflight.Group

	mu    sync.Mutex
	valid map[string]time.Time
}

func NewValidator(provider ai.Provider, opts Options, clock application.Clock, log *zap.Logger) *Validator {
	if clock == nil {
		clock = application.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{
		provider: provider,
		opts:     opts,
		clock:    clock,
		log:      log,
		valid:    make(map[string]time.Time),
	}
}

// CheckFormat applies the prefix and length rules without any network call.
func (v *Validator) CheckFormat(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrMissingKey
	}
	if !strings.HasPrefix(key, v.opts.Prefix) || len(key) < v.opts.MinLength {
		return fmt.Errorf("%w: must start with %q and be at least %d characters long", ErrFormat, v.opts.Prefix, v.opts.MinLength)
	}
	return nil
}

// Valid is the boolean form of Validate.
func (v *Validator) Valid(ctx context.Context, c domain.Credential) bool {
	return v.Validate(ctx, c).Valid
}

// Validate runs the format check and then the live probe.
func (v *Validator) Validate(ctx context.Context, c domain.Credential) Validation {
	if err := v.CheckFormat(c.Key()); err != nil {
		v.log.Warn("api key rejected by format check", zap.String("key", c.Redacted()))
		return formatFailure(err, v.opts)
	}

	digest := digestOf(c.Key())
	if v.cached(digest) {
		return success()
	}

	// The shared check outlives any single caller; each caller waits on its
	// own context only.
	ch := v.group.DoChan(digest, func() (any, error) {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.checkTimeout())
		defer cancel()
		val := v.probe(pctx, c)
		if val.Valid {
			v.remember(digest)
		}
		return val, nil
	})
	select {
	case res := <-ch:
		return res.Val.(Validation)
	case <-ctx.Done():
		return failure(ai.KindUnknown, ctx.Err())
	}
}

// FormatFailure describes a CheckFormat error to the caller.
func (v *Validator) FormatFailure(err error) Validation {
	return formatFailure(err, v.opts)
}

func (v *Validator) checkTimeout() time.Duration {
	if v.opts.CheckTimeout > 0 {
		return v.opts.CheckTimeout
	}
	return DefaultCheckTimeout
}

func (v *Validator) probe(ctx context.Context, c domain.Credential) Validation {
	text, err := v.provider.Generate(ctx, c.Key(), ProbePrompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ai.ErrEmptyResponse
	}
	if err != nil {
		kind := ai.Classify(err)
		v.log.Error("api key probe failed",
			zap.String("key", c.Redacted()),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return failure(kind, err)
	}
	v.log.Info("api key validated", zap.String("key", c.Redacted()))
	return success()
}

func (v *Validator) cached(digest string) bool {
	if v.opts.CacheTTL <= 0 {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	exp, ok := v.valid[digest]
	if !ok {
		return false
	}
	if v.clock.Now().After(exp) {
		delete(v.valid, digest)
		return false
	}
	return true
}

func (v *Validator) remember(digest string) {
	if v.opts.CacheTTL <= 0 {
		return
	}
	v.mu.Lock()
	v.valid[digest] = v.clock.Now().Add(v.opts.CacheTTL)
	v.mu.Unlock()
}

// Forget drops a cached validation, e.g. when the key is cleared.
func (v *Validator) Forget(c domain.Credential) {
	v.mu.Lock()
	delete(v.valid, digestOf(c.Key()))
	v.mu.Unlock()
}

func digestOf(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func success() Validation {
	return Validation{
		Valid:   true,
		Message: "API key is valid",
		Details: "The API key has been successfully validated",
	}
}

func formatFailure(err error, opts Options) Validation {
	if errors.Is(err, ErrMissingKey) {
		return Validation{
			Kind:    ai.KindInvalid,
			Message: "API key is required",
			Details: "Please provide a valid Google API key",
			Help:    "Get your API key from " + keyHelpURL,
		}
	}
	return Validation{
		Kind:    KindFormat,
		Message: "Invalid API key format",
		Details: fmt.Sprintf("API key must start with %q and be at least %d characters long", opts.Prefix, opts.MinLength),
		Help:    "Get a valid API key from " + keyHelpURL,
	}
}

func failure(kind ai.ErrorKind, err error) Validation {
	v := Validation{Kind: kind}
	switch kind {
	case ai.KindInvalid:
		v.Message, v.Details, v.Help = "Invalid API key", "The provided API key is not valid", "Get a new API key from "+keyHelpURL
	case ai.KindExpired:
		v.Message, v.Details, v.Help = "Expired API key", "The provided API key has expired", "Create a new API key from Google AI Studio"
	case ai.KindQuotaExceeded:
		v.Message, v.Details, v.Help = "Quota exceeded", "You have exceeded your API quota", "Wait a while or upgrade your account"
	case ai.KindPermissionDenied:
		v.Message, v.Details, v.Help = "Permission denied", "This API key is not allowed to use the model", "Make sure the Gemini API is enabled in your project"
	case ai.KindResourceExhausted:
		v.Message, v.Details, v.Help = "Resources exhausted", "The API resources are temporarily exhausted", "Wait a while or upgrade your account"
	case ai.KindEmptyResponse:
		v.Message, v.Details, v.Help = "Failed to get response from API", "The API key is valid but no response was received", "Try again or contact support if the problem persists"
	default:
		v.Kind = ai.KindUnknown
		v.Message, v.Details, v.Help = "API test failed", err.Error(), "Check your API key and try again"
	}
	return v
}
