// Package container wires the application's dependencies.
package container

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pocketbase/dbx"

	"github.com/ericfisherdev/volunteer-tracker/internal/config"
	"github.com/ericfisherdev/volunteer-tracker/internal/repository"
	"github.com/ericfisherdev/volunteer-tracker/internal/services"
)

// Container holds the constructed dependency graph. Repositories are exposed
// as interfaces so tests can substitute the in-memory implementations.
type Container struct {
	Config *config.AppConfig

	DB *dbx.DB

	Identities   repository.IdentityRepository
	PendingLinks repository.PendingLinkRepository
	HourLogs     repository.HourLogRepository
	Commits      repository.CommitRepository

	LinkService    *services.LinkService
	CommitService  *services.CommitService
	HourLogService *services.HourLogService
	Sweeper        *services.StateSweeper
}

// NewContainer builds the production dependency graph on SQLite.
func NewContainer(cfg *config.AppConfig) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if dir := filepath.Dir(cfg.GetDatabasePath()); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := repository.OpenSQLite(cfg.GetDatabasePath())
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:       cfg,
		DB:           db,
		Identities:   repository.NewSQLiteIdentityRepository(db),
		PendingLinks: repository.NewSQLitePendingLinkRepository(db),
		HourLogs:     repository.NewSQLiteHourLogRepository(db),
		Commits:      repository.NewSQLiteCommitRepository(db),
	}
	c.buildServices()
	return c, nil
}

// NewMemoryContainer builds the graph on in-memory stores, for tests and
// single-instance development without a database file.
func NewMemoryContainer(cfg *config.AppConfig) *Container {
	c := &Container{
		Config:       cfg,
		Identities:   repository.NewMemoryIdentityRepository(),
		PendingLinks: repository.NewMemoryPendingLinkRepository(),
		HourLogs:     repository.NewMemoryHourLogRepository(),
		Commits:      repository.NewMemoryCommitRepository(),
	}
	c.buildServices()
	return c
}

func (c *Container) buildServices() {
	cfg := c.Config

	provider := services.NewGitHubOAuthProvider(
		cfg.GetGitHubClientID(),
		cfg.GetGitHubClientSecret(),
		cfg.GetGitHubRedirectURL(),
	)
	lister := services.NewGitHubActivityLister(cfg.GetGitHubReadToken())

	c.LinkService = services.NewLinkService(
		c.Identities, c.PendingLinks, provider,
		cfg.GetStateTTL(), cfg.GetProviderTimeout(),
	)
	c.CommitService = services.NewCommitService(
		c.Identities, c.Commits, lister, nil,
		cfg.GetCommitWindowDays(), cfg.GetMaxCommitResults(), cfg.GetProviderTimeout(),
	)
	c.HourLogService = services.NewHourLogService(c.Identities, c.HourLogs)
	c.Sweeper = services.NewStateSweeper(c.LinkService, nil, cfg.GetSweepInterval())
}

// Ping reports whether the backing store is reachable.
func (c *Container) Ping(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}
	return c.DB.DB().PingContext(ctx)
}

// Close releases held resources.
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
