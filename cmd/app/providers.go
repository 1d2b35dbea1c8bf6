package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/hiking-guide/internal/domain/edge"
	"github.com/yanqian/hiking-guide/internal/domain/safetyform"
	"github.com/yanqian/hiking-guide/internal/infra/config"
	"github.com/yanqian/hiking-guide/internal/infra/hikingapi"
	"github.com/yanqian/hiking-guide/internal/infra/trailcache"
	httpiface "github.com/yanqian/hiking-guide/internal/interface/http"
)

func provideEdgeConfig(cfg *config.Config) edge.Config {
	return edge.Config{
		APIBaseURL:   cfg.Edge.APIBaseURL,
		AllowOrigin:  cfg.Edge.AllowOrigin,
		AllowMethods: cfg.Edge.AllowMethods,
		AllowHeaders: cfg.Edge.AllowHeaders,
		Timeout:      cfg.Edge.Timeout,
	}
}

func provideFormConfig(cfg *config.Config) safetyform.Config {
	return safetyform.Config{
		DefaultTrailID:     cfg.Form.DefaultTrailID,
		DefaultDescription: cfg.Form.DefaultDescription,
	}
}

func provideHikingClient(cfg *config.Config) *hikingapi.Client {
	return hikingapi.NewClient(cfg.FormAPIBaseURL(), cfg.Form.Timeout)
}

func provideTrailStore(cfg *config.Config, logger *slog.Logger) (safetyform.TrailStore, func()) {
	noop := func() {}
	if !cfg.TrailCache.Valkey.Enabled {
		return trailcache.NewMemoryStore(), noop
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return trailcache.NewMemoryStore(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return trailcache.NewMemoryStore(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return trailcache.NewMemoryStore(), noop
	}
	logger.Info("trail cache valkey store enabled", "addr", cfg.TrailCache.Valkey.Addr)
	return trailcache.NewValkeyStore(client, cfg.TrailCache.Valkey.Prefix), client.Close
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.TrailCache.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.TrailCache.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.TrailCache.Valkey.Addr}}, nil
}

func provideTrailAPI(cfg *config.Config, client *hikingapi.Client, store safetyform.TrailStore, logger *slog.Logger) safetyform.TrailAPI {
	return safetyform.NewCachedAPI(client, store, cfg.TrailCache.TTL, logger)
}

func provideFormFactory(cfg safetyform.Config, api safetyform.TrailAPI, logger *slog.Logger) httpiface.FormFactory {
	return func() *safetyform.Form {
		return safetyform.NewForm(cfg, api, logger)
	}
}
