package identity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/pkg/jwtx"
)

// FirebaseOptions configures a FirebaseVerifier.
type FirebaseOptions struct {
	ProjectID          string
	ServiceAccountJSON string

	// Keys overrides where signing keys come from. Defaults to Google's
	// securetoken certificates at CertsURL.
	Keys       jwtx.KeySource
	CertsURL   string
	HTTPClient *http.Client

	Logger *slog.Logger
	Now    func() time.Time
}

// FirebaseVerifier verifies Firebase Authentication ID tokens.
//
// Trust material is loaded on the first call to Verify and never again. If
// loading fails the error is kept and every later call is rejected.
type FirebaseVerifier struct {
	opts   FirebaseOptions
	logger *slog.Logger

	once    sync.Once
	load    func() (*jwtx.FirebaseVerifier, error)
	tokens  *jwtx.FirebaseVerifier
	initErr error

	certs atomic.Pointer[jwtx.CertSource]
}

// NewFirebaseVerifier returns a verifier that initializes lazily.
func NewFirebaseVerifier(opts FirebaseOptions) *FirebaseVerifier {
	if opts.CertsURL == "" {
		opts.CertsURL = jwtx.GoogleSecureTokenCertsURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	v := &FirebaseVerifier{opts: opts, logger: logger}
	v.load = v.loadTrust
	return v
}

func (v *FirebaseVerifier) loadTrust() (*jwtx.FirebaseVerifier, error) {
	sa, err := ParseServiceAccount([]byte(v.opts.ServiceAccountJSON), v.opts.ProjectID)
	if err != nil {
		return nil, err
	}

	keys := v.opts.Keys
	if keys == nil {
		certs := jwtx.NewCertSource(v.opts.CertsURL, v.opts.HTTPClient)
		v.certs.Store(certs)
		keys = certs
	}

	tv := jwtx.NewFirebaseVerifier(keys, v.opts.ProjectID)
	if v.opts.Now != nil {
		tv.WithClock(v.opts.Now)
	}

	v.logger.Info("firebase verifier initialized",
		"project_id", sa.ProjectID,
		"client_email", sa.ClientEmail,
	)
	return tv, nil
}

// KeysReady reports whether Google's signing certificates are cached. It
// never triggers a fetch, so it stays false until the first token arrives.
func (v *FirebaseVerifier) KeysReady() bool {
	certs := v.certs.Load()
	return certs != nil && certs.Ready()
}

// Verify checks the token and returns the identity it carries.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (domain.Claims, error) {
	v.once.Do(func() {
		v.tokens, v.initErr = v.load()
	})
	if v.initErr != nil {
		v.logger.ErrorContext(ctx, "firebase verifier unavailable", "error", v.initErr)
		return domain.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, v.initErr)
	}

	claims, err := v.tokens.Verify(ctx, token)
	if err != nil {
		v.logger.DebugContext(ctx, "token rejected", "error", err)
		return domain.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return domain.Claims{
		Subject:        claims.Subject,
		Email:          claims.Email,
		SignInProvider: claims.Firebase.SignInProvider,
	}, nil
}
