// Package provider selects, opens and switches between the persistence
// backends. It owns the persisted backend preference: once a user switches
// backends the choice survives restarts, taking precedence over the
// configured default.
package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/shopbook/backend/internal/domain/shared"
	"github.com/shopbook/backend/internal/infrastructure/blob"
	"github.com/shopbook/backend/internal/infrastructure/cache"
	"github.com/shopbook/backend/internal/infrastructure/config"
	"github.com/shopbook/backend/internal/infrastructure/logger"
	"github.com/shopbook/backend/internal/storage"
	"github.com/shopbook/backend/internal/storage/cloudstore"
	"github.com/shopbook/backend/internal/storage/localstore"
)

// Kind identifies a persistence backend.
type Kind string

const (
	// KindLocal is the embedded single-user database.
	KindLocal Kind = "local"
	// KindCloud is the shared multi-tenant database.
	KindCloud Kind = "cloud"
)

// ParseKind validates a backend name.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.TrimSpace(strings.ToLower(s))) {
	case KindLocal:
		return KindLocal, nil
	case KindCloud:
		return KindCloud, nil
	default:
		return "", fmt.Errorf("unknown backend %q", s)
	}
}

// Provider opens stores according to configuration and the persisted
// backend preference.
type Provider struct {
	cfg *config.Config
	log *zap.Logger
}

// New creates a Provider. The logger may be nil.
func New(cfg *config.Config, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{cfg: cfg, log: log}
}

// preferencePath resolves the preference file location. A relative path is
// anchored under the data directory.
func (p *Provider) preferencePath() string {
	pref := p.cfg.Storage.PreferenceFile
	if filepath.IsAbs(pref) {
		return pref
	}
	return filepath.Join(p.cfg.Storage.DataDir, pref)
}

// Resolve returns the backend to use: the persisted preference when one has
// been written, otherwise the configured default. An unreadable or corrupt
// preference file falls back to the default.
func (p *Provider) Resolve() Kind {
	data, err := os.ReadFile(p.preferencePath())
	if err == nil {
		if kind, perr := ParseKind(string(data)); perr == nil {
			return kind
		}
		p.log.Warn("ignoring corrupt backend preference file",
			zap.String("path", p.preferencePath()))
	}
	kind, err := ParseKind(p.cfg.Storage.Backend)
	if err != nil {
		return KindLocal
	}
	return kind
}

// SavePreference persists the backend choice so it survives restarts.
func (p *Provider) SavePreference(kind Kind) error {
	if err := os.MkdirAll(p.cfg.Storage.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(p.preferencePath(), []byte(kind), 0o644); err != nil {
		return fmt.Errorf("failed to persist backend preference: %w", err)
	}
	return nil
}

// OpenDefault opens the store for the resolved backend.
func (p *Provider) OpenDefault(ctx context.Context) (storage.Store, Kind, error) {
	kind := p.Resolve()
	store, err := p.Open(ctx, kind)
	return store, kind, err
}

// Open builds a fully wired store for the given backend.
func (p *Provider) Open(ctx context.Context, kind Kind) (storage.Store, error) {
	gormLevel := logger.MapGormLogLevel(p.cfg.Log.Level)

	var (
		backend storage.Backend
		err     error
	)
	switch kind {
	case KindLocal:
		backend, err = localstore.OpenWithLogger(p.cfg.Storage.DataDir, p.cfg.Storage.TenantID, gormLevel)
	case KindCloud:
		backend, err = cloudstore.OpenWithLogger(p.cfg.Database, p.cfg.Storage.TenantID, gormLevel)
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", kind, err)
	}

	files, err := p.fileStore(kind)
	if err != nil {
		backend.Close()
		return nil, err
	}

	opts := []storage.Option{
		storage.WithLogger(p.log.Named(string(kind))),
		storage.WithPrivileged(p.resolvePrivilege(ctx, backend)),
	}

	// Only the shared backend needs cross-device coordination for
	// recurring-expense application.
	if kind == KindCloud && p.cfg.Redis.Enabled {
		lock, lerr := cache.NewRedisApplyLock(
			p.cfg.Redis.Addr(), p.cfg.Redis.Password, p.cfg.Redis.DB,
			p.cfg.Storage.TenantID)
		if lerr != nil {
			p.log.Warn("apply lock unavailable, continuing without it", zap.Error(lerr))
		} else {
			opts = append(opts, storage.WithApplyLocker(lock))
		}
	}

	return storage.NewDataStore(backend, files, opts...), nil
}

// Switch persists the new preference, opens the new backend and closes the
// old one. On failure the current store stays usable.
func (p *Provider) Switch(ctx context.Context, current storage.Store, kind Kind) (storage.Store, error) {
	next, err := p.Open(ctx, kind)
	if err != nil {
		return nil, err
	}
	if err := p.SavePreference(kind); err != nil {
		next.Close()
		return nil, err
	}
	if current != nil {
		if cerr := current.Close(); cerr != nil {
			p.log.Warn("failed to close previous backend", zap.Error(cerr))
		}
	}
	return next, nil
}

// fileStore picks the upload strategy. The local backend always inlines
// files so the database stays self-contained; the cloud backend uses the
// configured object store when one is set up.
func (p *Provider) fileStore(kind Kind) (blob.FileStore, error) {
	if kind == KindCloud && p.cfg.Blob.Driver == "s3" {
		store, err := blob.NewS3Store(blob.S3Config{
			Endpoint:     p.cfg.Blob.Endpoint,
			Region:       p.cfg.Blob.Region,
			Bucket:       p.cfg.Blob.Bucket,
			AccessKey:    p.cfg.Blob.AccessKey,
			SecretKey:    p.cfg.Blob.SecretKey,
			UseSSL:       p.cfg.Blob.UseSSL,
			UsePathStyle: p.cfg.Blob.UsePathStyle,
		}, blob.WithS3Logger(p.log.Named("blob")))
		if err != nil {
			return nil, fmt.Errorf("failed to build object store: %w", err)
		}
		return store, nil
	}
	return blob.NewInlineStore(), nil
}

// resolvePrivilege reads this tenant's own profile once at open time. A
// missing profile simply means no elevated access.
func (p *Provider) resolvePrivilege(ctx context.Context, backend storage.Backend) bool {
	profile, err := backend.GetProfile(ctx, p.cfg.Storage.TenantID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			p.log.Debug("could not resolve tenant profile", zap.Error(err))
		}
		return false
	}
	return profile.IsPrivileged()
}
