// Package provider defines the correction capability boundary: an opaque
// asynchronous function from text to a corrected text plus discrete changes.
// The engine neither knows nor depends on which backend fulfils it.
//
// Backends register a named factory with metadata. The contract is enforced
// by explicit validation at registration and call time — bad metadata and
// malformed responses surface as typed failures, never as partial results.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/hazyhaar/proofwatch/correction"
)

// Provider maps input text to a correction result.
type Provider interface {
	Correct(ctx context.Context, text string) (*correction.Result, error)
}

// Config carries backend construction parameters. Fields a backend does not
// need are ignored by its factory.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Rules   map[string]RuleChange // rule provider only
	Logger  *slog.Logger
}

// Metadata describes a registered backend.
type Metadata struct {
	Name        string
	DisplayName string
	RequiresKey bool
}

// Factory constructs a Provider from configuration.
type Factory func(cfg Config) (Provider, error)

// ErrUnknownProvider is returned by Open for unregistered names.
var ErrUnknownProvider = fmt.Errorf("provider: unknown provider")

// MetadataError reports invalid registration metadata.
type MetadataError struct {
	Name  string
	Field string
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("provider: invalid metadata for %q: %s", e.Name, e.Field)
}

type entry struct {
	meta    Metadata
	factory Factory
}

var (
	mu       sync.RWMutex
	registry = map[string]entry{}
)

// Register adds a backend to the registry. Metadata is validated here, at
// registration time, so a misdeclared backend fails fast instead of at the
// first user keystroke.
func Register(meta Metadata, f Factory) error {
	if meta.Name == "" {
		return &MetadataError{Name: meta.Name, Field: "name empty"}
	}
	if meta.DisplayName == "" {
		return &MetadataError{Name: meta.Name, Field: "display name empty"}
	}
	if f == nil {
		return &MetadataError{Name: meta.Name, Field: "nil factory"}
	}

	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[meta.Name]; dup {
		return &MetadataError{Name: meta.Name, Field: "already registered"}
	}
	registry[meta.Name] = entry{meta: meta, factory: f}
	return nil
}

// Open constructs the named backend. A backend whose metadata requires a
// key rejects an empty one before construction.
func Open(name string, cfg Config) (Provider, error) {
	mu.RLock()
	e, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	if e.meta.RequiresKey && cfg.APIKey == "" {
		return nil, fmt.Errorf("provider: %q requires an API key", name)
	}
	return e.factory(cfg)
}

// Lookup returns the metadata for a registered name.
func Lookup(name string) (Metadata, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := registry[name]
	return e.meta, ok
}

// Names lists registered backends, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
