package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/pillmein/supplement-advisor/internal/domain/recommend"
	"github.com/pillmein/supplement-advisor/internal/domain/survey"
	"github.com/pillmein/supplement-advisor/internal/infra/catalogrepo"
	"github.com/pillmein/supplement-advisor/internal/infra/config"
	"github.com/pillmein/supplement-advisor/internal/infra/embedder"
	"github.com/pillmein/supplement-advisor/internal/infra/indexstore"
	"github.com/pillmein/supplement-advisor/internal/infra/llm/chatgpt"
	"github.com/pillmein/supplement-advisor/internal/infra/shopping/imagecache"
	"github.com/pillmein/supplement-advisor/internal/infra/shopping/naver"
	"github.com/pillmein/supplement-advisor/internal/infra/surveyrepo"
)

func provideSurveyConfig(cfg *config.Config) survey.Config {
	return survey.Config{
		Model:       cfg.LLM.SummaryModel,
		Temperature: cfg.LLM.Temperature,
	}
}

func provideRecommendConfig(cfg *config.Config) recommend.Config {
	return recommend.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		TopK:        cfg.Recommend.TopK,
		MaxAttempts: cfg.Recommend.MaxAttempts,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
}

func provideEmbedder(cfg *config.Config, client *chatgpt.Client, logger *slog.Logger) recommend.Embedder {
	return embedder.NewChatGPTEmbedder(client, cfg.LLM.EmbeddingModel, logger)
}

// providePostgresPool connects to the supplement database. A nil pool is a
// valid result; the repository providers fall back to memory implementations.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Catalog.Postgres.DSN)
	if dsn == "" {
		logger.Info("catalog postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Catalog.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Catalog.Postgres.MaxConns
	}
	if cfg.Catalog.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Catalog.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("catalog postgres enabled")
	return pool
}

func provideCatalogRepository(pool *pgxpool.Pool) recommend.CatalogRepository {
	if pool == nil {
		return catalogrepo.NewMemoryRepository(nil)
	}
	return catalogrepo.NewPostgresRepository(pool)
}

func provideSurveyRepository(pool *pgxpool.Pool) survey.Repository {
	if pool == nil {
		return surveyrepo.NewMemoryRepository()
	}
	return surveyrepo.NewPostgresRepository(pool)
}

func provideSnapshotStore(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) recommend.SnapshotStore {
	if !cfg.Catalog.SnapshotEnabled || pool == nil {
		logger.Info("index snapshot persistence disabled")
		return nil
	}
	return indexstore.NewPostgresStore(pool)
}

func provideImageSearcher(cfg *config.Config, logger *slog.Logger) recommend.ImageSearcher {
	if strings.TrimSpace(cfg.Shopping.ClientID) == "" || strings.TrimSpace(cfg.Shopping.ClientSecret) == "" {
		logger.Info("shopping api credentials not set, image enrichment disabled")
		return nil
	}
	searcher := naver.NewClient(cfg.Shopping.BaseURL, cfg.Shopping.ClientID, cfg.Shopping.ClientSecret)
	return imagecache.NewCachedSearcher(searcher, provideImageCacheStore(cfg, logger), cfg.Shopping.CacheTTL)
}

func provideImageCacheStore(cfg *config.Config, logger *slog.Logger) imagecache.Store {
	if cfg.Shopping.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return imagecache.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return imagecache.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		} else {
			logger.Info("image cache valkey store enabled", "addr", cfg.Shopping.Redis.Addr)
			return imagecache.NewValkeyStore(client, "shopimg")
		}
	}
	return imagecache.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Shopping.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Shopping.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Shopping.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
