// Package loader orchestrates getting a decoded crate index: disk cache
// first, then the network, with concurrent requests for the same crate
// collapsed into one fetch.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jcdickinson/rsdoclink/internal/cache"
	"github.com/jcdickinson/rsdoclink/internal/config"
	"github.com/jcdickinson/rsdoclink/internal/docsurl"
	"github.com/jcdickinson/rsdoclink/internal/fetch"
	"github.com/jcdickinson/rsdoclink/internal/index"
	"github.com/jcdickinson/rsdoclink/internal/simplepath"
	"github.com/jcdickinson/rsdoclink/internal/version"
)

// Loaded is a decoded crate together with the identity needed to build URLs
// for it.
type Loaded struct {
	Crate *index.Crate
	ID    docsurl.CrateID
	// Doc is the crate-level documentation summary from the payload.
	Doc string
}

type Loader struct {
	cfg    *config.Config
	client *fetch.Client
	group  singleflight.Group

	mu     sync.RWMutex
	loaded map[string]*Loaded
}

func New(cfg *config.Config) *Loader {
	return &Loader{
		cfg:    cfg,
		client: fetch.NewClient(cfg.HTTP.Timeout, cfg.HTTP.UserAgent),
		loaded: make(map[string]*Loaded),
	}
}

// Load returns the decoded index for a crate at the requested version.
// Standard library crates are served from doc.rust-lang.org on the
// configured channel; everything else from docs.rs. Decoded crates are kept
// in memory for the lifetime of the loader, and raw payloads are cached on
// disk once the concrete version is known.
func (l *Loader) Load(ctx context.Context, name string, ver version.Version) (*Loaded, error) {
	key := name + "@" + ver.String()

	l.mu.RLock()
	if ld, ok := l.loaded[key]; ok {
		l.mu.RUnlock()
		return ld, nil
	}
	l.mu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		ld, err := l.load(ctx, name, ver)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.loaded[key] = ld
		l.loaded[name+"@"+ld.ID.Version] = ld
		l.mu.Unlock()
		return ld, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Loaded), nil
}

func (l *Loader) load(ctx context.Context, name string, ver version.Version) (*Loaded, error) {
	std := simplepath.IsStdCrate(name)
	dir := l.cfg.CacheDir()
	cacheName := name
	if std {
		cacheName = "std-" + l.cfg.Std.Channel
	}

	var (
		payload  []byte
		resolved version.Version
		err      error
	)
	if !ver.IsLatest() && cache.Has(dir, cacheName, ver.String()) {
		slog.Debug("using cached payload", "crate", name, "version", ver)
		payload, err = cache.Load(dir, cacheName, ver.String())
		if err != nil {
			return nil, err
		}
		resolved = ver
	} else {
		if std {
			resolved, payload, err = l.client.Std(ctx, l.cfg.Std.Channel)
		} else {
			resolved, payload, err = l.client.DocsRs(ctx, name, ver)
		}
		if err != nil {
			return nil, fmt.Errorf("fetching index for %s: %w", name, err)
		}
		if !resolved.IsLatest() {
			if err := cache.Save(dir, payload, cacheName, resolved.String()); err != nil {
				slog.Warn("caching payload failed", "crate", name, "error", err)
			}
		}
	}

	crates, err := index.Decode(payload, index.VersionUnknown)
	if err != nil {
		return nil, fmt.Errorf("decoding index for %s: %w", name, err)
	}

	crate, ok := findCrate(crates, name)
	if !ok {
		return nil, fmt.Errorf("index for %s didn't contain data for the crate", name)
	}
	slog.Info("crate loaded", "crate", crate.Name, "version", resolved, "items", len(crate.Index.Items))

	return &Loaded{
		Crate: crate,
		ID: docsurl.CrateID{
			Name:    name,
			Version: resolved.String(),
			Std:     std,
		},
		Doc: crate.Doc,
	}, nil
}

// findCrate selects the requested crate from a decoded payload. The stdlib
// index carries several crates; docs.rs payloads normally one. Names are
// compared as lib names, with hyphens mapped to underscores.
func findCrate(crates []index.Crate, name string) (*index.Crate, bool) {
	lib := strings.ReplaceAll(name, "-", "_")
	for i := range crates {
		if crates[i].Name == lib {
			return &crates[i], true
		}
	}
	if len(crates) == 1 {
		return &crates[0], true
	}
	return nil, false
}
