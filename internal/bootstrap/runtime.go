// Package bootstrap wires the configured backends into a ready Store.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clique/internal/cache"
	"clique/internal/config"
	"clique/internal/database"
	"clique/internal/notifications"
	"clique/internal/observability"
	"clique/internal/repository"
	"clique/internal/seed"
	"clique/internal/store"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/gorm"
)

const connectTimeout = 10 * time.Second

// Runtime holds the initialised store and the connections behind it.
type Runtime struct {
	Store *store.Store
	Redis *redis.Client
	DB    *gorm.DB
	Mongo *mongo.Client
}

// Options control runtime initialization behavior.
type Options struct {
	// SkipFixtures ignores SEED_FIXTURES.
	SkipFixtures bool
}

// InitRuntime connects the backend selected by cfg.StoreDriver, picks the
// change feed and optionally loads the fixture file into an empty store.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	rt := &Runtime{}

	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		switch {
		case err == nil:
			rt.Redis = rdb
		case cfg.StoreDriver == config.DriverRedis:
			return nil, fmt.Errorf("redis store unavailable: %w", err)
		default:
			observability.GlobalLogger.Warn("Redis unavailable, continuing without change feed or rate limits",
				slog.String("error", err.Error()))
		}
	}

	repo, err := rt.repository(ctx, cfg)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	var feed notifications.Feed = notifications.NewLocalFeed()
	if rt.Redis != nil {
		feed = notifications.NewNotifier(rt.Redis)
	}
	rt.Store = store.New(repo, cfg.StoreKey, store.WithFeed(feed))

	if cfg.SeedFixtures != "" && !opts.SkipFixtures {
		fixture, err := seed.LoadFixturesFile(cfg.SeedFixtures)
		if err != nil {
			_ = rt.Close(ctx)
			return nil, err
		}
		applied, err := seed.ApplyFixtures(ctx, rt.Store, fixture)
		if err != nil {
			_ = rt.Close(ctx)
			return nil, fmt.Errorf("apply fixtures: %w", err)
		}
		if applied {
			observability.GlobalLogger.Info("Loaded fixtures", slog.String("path", cfg.SeedFixtures))
		}
	}

	observability.GlobalLogger.Info("Store ready",
		slog.String("backend", rt.Store.Backend()),
		slog.String("key", rt.Store.Key()),
		slog.Bool("redis", rt.Redis != nil),
	)
	return rt, nil
}

func (rt *Runtime) repository(ctx context.Context, cfg *config.Config) (repository.DocumentRepository, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return repository.NewMemoryDocumentRepository(), nil
	case config.DriverRedis:
		if rt.Redis == nil {
			return nil, errors.New("the redis store driver needs REDIS_URL")
		}
		return repository.NewRedisDocumentRepository(rt.Redis), nil
	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		rt.DB = db
		return repository.NewSQLDocumentRepository(db), nil
	case config.DriverMongo:
		client, err := connectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		rt.Mongo = client
		return repository.NewMongoDocumentRepository(
			client.Database(cfg.MongoDatabase).Collection(repository.DocumentCollection),
		), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Close releases every connection the runtime opened.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.DB != nil {
		errs = append(errs, database.Close(rt.DB))
	}
	if rt.Mongo != nil {
		errs = append(errs, rt.Mongo.Disconnect(ctx))
	}
	if rt.Redis != nil {
		errs = append(errs, rt.Redis.Close())
	}
	return errors.Join(errs...)
}
