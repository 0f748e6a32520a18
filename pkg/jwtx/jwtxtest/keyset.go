// Package jwtxtest provides in-memory key sources for tests.
package jwtxtest

import (
	"context"
	"crypto/rsa"
	"sync"

	"github.com/aussiebroadwan/profiles/pkg/jwtx"
)

// KeySet is a static, thread-safe jwtx.KeySource.
type KeySet struct {
	mu  sync.RWMutex
	pub map[string]*rsa.PublicKey
}

func NewKeySet() *KeySet {
	return &KeySet{pub: make(map[string]*rsa.PublicKey)}
}

// Add registers pub under kid, replacing any previous key.
func (k *KeySet) Add(kid string, pub *rsa.PublicKey) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pub[kid] = pub
}

func (k *KeySet) PublicKey(_ context.Context, kid string) (*rsa.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if pk, ok := k.pub[kid]; ok {
		return pk, nil
	}
	return nil, jwtx.ErrNoKey
}
