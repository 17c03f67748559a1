package app

import (
	"context"

	slotAPI "cluster_slots/internal/api/slot"
	streamAPI "cluster_slots/internal/api/stream"
	"cluster_slots/internal/config"
	"cluster_slots/internal/config/env"
	"cluster_slots/internal/engine"
	"cluster_slots/internal/middleware"
	"cluster_slots/internal/repository"
	"cluster_slots/internal/repository/session_mem_repo"
	"cluster_slots/internal/repository/session_redis_repo"
	"cluster_slots/internal/repository/session_repo"
	"cluster_slots/internal/repository/stats_repo"
	"cluster_slots/internal/service"
	"cluster_slots/internal/service/slot"
	"cluster_slots/pkg/rng"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ServiceProvider struct {
	// Logging
	logCfg config.LogConfig
	logger *zap.Logger

	// Game rules
	gameCfg config.GameConfig
	engine  *engine.Engine

	// Storage
	storeCfg    config.StoreConfig
	pgConfig    config.PGConfig
	dbClient    *pgxpool.Pool
	redisCfg    config.RedisConfig
	redisClient *redis.Client
	txManager   service.TxManager

	// Slot bits
	sessionRepo repository.SessionRepository
	statsRepo   repository.StatsRepository
	slotServ    service.SlotService
	slotHand    *slotAPI.Handler
	streamHand  *streamAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) LogCfg() config.LogConfig {
	if sp.logCfg == nil {
		cfg, err := env.NewLogConfig()
		if err != nil {
			panic("failed to get log config: " + err.Error())
		}
		sp.logCfg = cfg
	}
	return sp.logCfg
}

func (sp *ServiceProvider) Logger() *zap.Logger {
	if sp.logger == nil {
		level, err := zap.ParseAtomicLevel(sp.LogCfg().Level())
		if err != nil {
			panic("failed to parse log level: " + err.Error())
		}
		cfg := zap.NewProductionConfig()
		cfg.Level = level
		l, err := cfg.Build()
		if err != nil {
			panic("failed to build logger: " + err.Error())
		}
		sp.logger = l
	}
	return sp.logger
}

func (sp *ServiceProvider) GameCfg() config.GameConfig {
	if sp.gameCfg == nil {
		cfg, err := env.NewGameConfigFromYAML(env.GameConfigPath())
		if err != nil {
			panic("failed to get game config: " + err.Error())
		}
		sp.gameCfg = cfg
	}
	return sp.gameCfg
}

func (sp *ServiceProvider) Engine() *engine.Engine {
	if sp.engine == nil {
		e, err := engine.New(sp.GameCfg().Rules(), rng.Default())
		if err != nil {
			panic("failed to create engine: " + err.Error())
		}
		sp.engine = e
	}
	return sp.engine
}

func (sp *ServiceProvider) StoreCfg() config.StoreConfig {
	if sp.storeCfg == nil {
		cfg, err := env.NewStoreConfig()
		if err != nil {
			panic("failed to get store config: " + err.Error())
		}
		sp.storeCfg = cfg
	}
	return sp.storeCfg
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) RedisCfg() config.RedisConfig {
	if sp.redisCfg == nil {
		cfg, err := env.NewRedisConfig()
		if err != nil {
			panic("failed to get redis config: " + err.Error())
		}
		sp.redisCfg = cfg
	}
	return sp.redisCfg
}

func (sp *ServiceProvider) RedisClient(ctx context.Context) *redis.Client {
	if sp.redisClient == nil {
		cfg := sp.RedisCfg()
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Addr(),
			Password: cfg.Password(),
			DB:       cfg.DB(),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			panic("failed to ping redis: " + err.Error())
		}
		sp.redisClient = rdb
	}
	return sp.redisClient
}

// TXManager opens real transactions only for the Postgres store.
func (sp *ServiceProvider) TXManager(ctx context.Context) service.TxManager {
	if sp.txManager == nil {
		if sp.StoreCfg().Driver() != env.DriverPostgres {
			sp.txManager = slot.NoTx{}
			return sp.txManager
		}
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}
		sp.txManager = m
	}
	return sp.txManager
}

func (sp *ServiceProvider) SessionRepository(ctx context.Context) repository.SessionRepository {
	if sp.sessionRepo == nil {
		switch sp.StoreCfg().Driver() {
		case env.DriverPostgres:
			sp.sessionRepo = session_repo.NewSessionRepository(sp.DBClient(ctx), trmpgx.DefaultCtxGetter)
		case env.DriverRedis:
			sp.sessionRepo = session_redis_repo.NewSessionRepository(sp.RedisClient(ctx))
		default:
			sp.sessionRepo = session_mem_repo.NewSessionRepository()
		}
		sp.Logger().Info("session store ready", zap.String("driver", sp.StoreCfg().Driver()))
	}
	return sp.sessionRepo
}

func (sp *ServiceProvider) StatsRepository() repository.StatsRepository {
	if sp.statsRepo == nil {
		sp.statsRepo = stats_repo.NewStatsRepository(sp.StoreCfg().StatsWindow())
	}
	return sp.statsRepo
}

func (sp *ServiceProvider) SlotService(ctx context.Context) service.SlotService {
	if sp.slotServ == nil {
		sp.slotServ = slot.NewSlotService(
			sp.Engine(),
			sp.SessionRepository(ctx),
			sp.StatsRepository(),
			sp.TXManager(ctx),
			sp.Logger().Named("slot"),
		)
	}
	return sp.slotServ
}

func (sp *ServiceProvider) SlotHandler(ctx context.Context) *slotAPI.Handler {
	if sp.slotHand == nil {
		sp.slotHand = slotAPI.NewHandler(slotAPI.HandlerDeps{
			Serv: sp.SlotService(ctx),
			Log:  sp.Logger().Named("http"),
		})
	}
	return sp.slotHand
}

func (sp *ServiceProvider) StreamHandler(ctx context.Context) *streamAPI.Handler {
	if sp.streamHand == nil {
		sp.streamHand = streamAPI.NewHandler(streamAPI.HandlerDeps{
			Serv:           sp.SlotService(ctx),
			Log:            sp.Logger().Named("stream"),
			AllowedOrigins: sp.HTTPCfg().AllowedOrigins(),
		})
	}
	return sp.streamHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(chimw.RequestID)
		r.Use(chimw.Recoverer)
		r.Use(middleware.Logger(sp.Logger()))

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   sp.HTTPCfg().AllowedOrigins(),
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", middleware.SessionHeader},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		slotHandler := sp.SlotHandler(ctx)
		streamHandler := sp.StreamHandler(ctx)
		r.Route("/slot", func(rr chi.Router) {
			rr.Post("/session", slotHandler.NewSession)
			rr.Get("/stats", slotHandler.Stats)

			rr.Group(func(sr chi.Router) {
				sr.Use(middleware.Session)
				sr.Post("/spin", slotHandler.Spin)
				sr.Get("/state", slotHandler.State)
				sr.Post("/deposit", slotHandler.Deposit)
				sr.Post("/reset", slotHandler.Reset)
				sr.Post("/save", slotHandler.Save)
				sr.Get("/ws", streamHandler.Serve)
			})
		})

		sp.router = r
	}

	return sp.router
}

// Close releases storage clients and flushes the logger.
func (sp *ServiceProvider) Close() {
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
	if sp.redisClient != nil {
		_ = sp.redisClient.Close()
	}
	if sp.logger != nil {
		_ = sp.logger.Sync()
	}
}
