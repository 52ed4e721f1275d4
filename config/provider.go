package config

import (
	"sync/atomic"
)

// Provider hands out the current configuration. Handlers call Get on
// every request, so a reload becomes visible without restarting; the
// pointer swap is atomic and readers never block writers.
type Provider struct {
	current atomic.Pointer[Config]
}

// NewProvider creates a provider seeded with cfg.
func NewProvider(cfg *Config) *Provider {
	p := &Provider{}
	p.current.Store(cfg)
	return p
}

// Get returns the current config. Callers must treat it as read-only.
func (p *Provider) Get() *Config {
	return p.current.Load()
}

// Update replaces the current config. The caller is responsible for
// validating cfg first.
func (p *Provider) Update(cfg *Config) {
	p.current.Store(cfg)
}
