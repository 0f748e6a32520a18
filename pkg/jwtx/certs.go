package jwtx

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// GoogleSecureTokenCertsURL publishes the X.509 certificates Firebase signs
// ID tokens with.
const GoogleSecureTokenCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

const (
	certsCacheKey   = "certs"
	defaultCertsTTL = time.Hour
)

// CertSource is a KeySource backed by a remote kid to certificate document.
// The parsed keys are cached for the lifetime announced by the response's
// Cache-Control max-age, and concurrent refreshes share one request.
type CertSource struct {
	url   string
	http  *http.Client
	cache *gocache.Cache
	sf    singleflight.Group
}

// NewCertSource returns a CertSource reading url. A nil client gets a 10s
// timeout default.
func NewCertSource(url string, client *http.Client) *CertSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &CertSource{
		url:   url,
		http:  client,
		cache: gocache.New(defaultCertsTTL, 10*time.Minute),
	}
}

func (c *CertSource) PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	keys, err := c.keys(ctx)
	if err != nil {
		return nil, err
	}
	if pk, ok := keys[kid]; ok {
		return pk, nil
	}
	return nil, ErrNoKey
}

// Ready reports whether a non-expired key set is cached.
func (c *CertSource) Ready() bool {
	_, ok := c.cache.Get(certsCacheKey)
	return ok
}

func (c *CertSource) keys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	if v, ok := c.cache.Get(certsCacheKey); ok {
		return v.(map[string]*rsa.PublicKey), nil
	}

	// The shared fetch outlives any single caller; the client timeout bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(certsCacheKey, func() (any, error) {
		// Another caller may have refreshed while we waited.
		if v, ok := c.cache.Get(certsCacheKey); ok {
			return v, nil
		}

		keys, ttl, err := c.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.cache.Set(certsCacheKey, keys, ttl)
		return keys, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(map[string]*rsa.PublicKey), nil
	}
}

func (c *CertSource) fetch(ctx context.Context) (map[string]*rsa.PublicKey, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("jwtx: build certs request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("jwtx: fetch certs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, 0, fmt.Errorf("jwtx: fetch certs: http %d", resp.StatusCode)
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return nil, 0, fmt.Errorf("jwtx: decode certs: %w", err)
	}

	keys, err := ParseCertificates(certs)
	if err != nil {
		return nil, 0, err
	}

	return keys, maxAge(resp.Header.Get("Cache-Control")), nil
}

// maxAge extracts max-age from a Cache-Control header, falling back to
// defaultCertsTTL.
func maxAge(header string) time.Duration {
	for _, directive := range strings.Split(header, ",") {
		directive = strings.TrimSpace(directive)
		value, ok := strings.CutPrefix(strings.ToLower(directive), "max-age=")
		if !ok {
			continue
		}
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultCertsTTL
}
