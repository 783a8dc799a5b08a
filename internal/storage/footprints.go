package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/runnerr0/recalldoc/internal/footprint"
	"github.com/runnerr0/recalldoc/internal/logging"
)

// ConfigKey is the item key of the per-user search configuration.
const ConfigKey = "config"

const footprintsPrefix = "footprints_"

// Audit actions.
const (
	ActionVisit         = "visit"
	ActionDelete        = "delete"
	ActionSaveConfig    = "save_config"
	ActionSaveFootprint = "save_footprints"
)

// Repository reads and writes footprint histories and the search
// configuration on top of a Store. Malformed stored documents are logged
// and replaced by empty history or default config.
type Repository struct {
	store  Store
	logger *slog.Logger
	audit  bool

	// mu serializes read-modify-write cycles so saves land in the order
	// their updates were computed.
	mu sync.Mutex
}

// NewRepository wraps store. A nil logger discards log output.
func NewRepository(store Store, logger *slog.Logger, audit bool) *Repository {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Repository{store: store, logger: logger, audit: audit}
}

// LoadFootprints returns the scope's history, newest first. A missing or
// unreadable history is empty.
func (r *Repository) LoadFootprints(ctx context.Context, scope footprint.Scope) ([]footprint.Footprint, error) {
	data, err := r.store.LoadItem(ctx, scope.FootprintsKey())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []footprint.Footprint{}, nil
		}
		return nil, err
	}

	fps, err := footprint.DecodeFootprints(data)
	if err != nil {
		r.logger.Warn("discarding malformed footprints", "scope", scope.String(), "error", err)
		return []footprint.Footprint{}, nil
	}
	return fps, nil
}

// SaveFootprints replaces the scope's history.
func (r *Repository) SaveFootprints(ctx context.Context, scope footprint.Scope, fps []footprint.Footprint) error {
	data, err := footprint.EncodeFootprints(fps)
	if err != nil {
		return err
	}
	if err := r.store.SaveItem(ctx, scope.FootprintsKey(), data); err != nil {
		return err
	}
	r.recordAudit(ctx, ActionSaveFootprint, scope.FootprintsKey(), fmt.Sprintf("%d footprints", len(fps)))
	return nil
}

// UpdateFootprint moves fp to the front of the scope's history and persists
// the result.
func (r *Repository) UpdateFootprint(ctx context.Context, scope footprint.Scope, fp footprint.Footprint) ([]footprint.Footprint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	history, err := r.LoadFootprints(ctx, scope)
	if err != nil {
		return nil, err
	}

	history = footprint.Upsert(history, fp)
	if err := r.saveFootprints(ctx, scope, history); err != nil {
		return nil, err
	}
	r.logger.Debug("footprint recorded", "scope", scope.String(), "url", fp.URL, "size", len(history))
	r.recordAudit(ctx, ActionVisit, scope.FootprintsKey(), fp.URL)
	return history, nil
}

// DeleteFootprint removes the footprint with url from the scope's history.
// It returns ErrNotFound when no such footprint exists.
func (r *Repository) DeleteFootprint(ctx context.Context, scope footprint.Scope, url string) ([]footprint.Footprint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	history, err := r.LoadFootprints(ctx, scope)
	if err != nil {
		return nil, err
	}
	if footprint.IndexOf(history, url) < 0 {
		return history, fmt.Errorf("%w: footprint %s", ErrNotFound, url)
	}

	history = footprint.Delete(history, url)
	if err := r.saveFootprints(ctx, scope, history); err != nil {
		return nil, err
	}
	r.recordAudit(ctx, ActionDelete, scope.FootprintsKey(), url)
	return history, nil
}

func (r *Repository) saveFootprints(ctx context.Context, scope footprint.Scope, fps []footprint.Footprint) error {
	data, err := footprint.EncodeFootprints(fps)
	if err != nil {
		return err
	}
	return r.store.SaveItem(ctx, scope.FootprintsKey(), data)
}

// LoadConfig returns the stored search configuration, or defaults.
func (r *Repository) LoadConfig(ctx context.Context) (footprint.Config, error) {
	data, err := r.store.LoadItem(ctx, ConfigKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return footprint.DefaultConfig(), nil
		}
		return footprint.Config{}, err
	}

	cfg, err := footprint.DecodeConfig(data)
	if err != nil {
		r.logger.Warn("discarding malformed config", "error", err)
	}
	return cfg, nil
}

// SaveConfig persists the search configuration.
func (r *Repository) SaveConfig(ctx context.Context, cfg footprint.Config) error {
	if _, err := footprint.ParseStartupKeyCombination(string(cfg.StartupKeyCombination)); err != nil {
		return err
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := r.store.SaveItem(ctx, ConfigKey, data); err != nil {
		return err
	}
	r.recordAudit(ctx, ActionSaveConfig, ConfigKey, string(data))
	return nil
}

// Scopes lists every scope with a stored history.
func (r *Repository) Scopes(ctx context.Context) ([]footprint.Scope, error) {
	keys, err := r.store.ListKeys(ctx, footprintsPrefix)
	if err != nil {
		return nil, err
	}
	scopes := make([]footprint.Scope, 0, len(keys))
	for _, k := range keys {
		if s, ok := footprint.ParseFootprintsKey(k); ok {
			scopes = append(scopes, s)
		}
	}
	return scopes, nil
}

// Store returns the underlying store.
func (r *Repository) Store() Store {
	return r.store
}

func (r *Repository) recordAudit(ctx context.Context, action, key, detail string) {
	if !r.audit {
		return
	}
	if err := r.store.RecordAudit(ctx, action, key, detail); err != nil {
		r.logger.Warn("audit log write failed", "action", action, "error", err)
	}
}
