// Package app assembles the ledger from configuration: it picks a backend
// for every store, wires the services, and builds the HTTP router.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	contactStore "contactledger/internal/contacts/store"
	"contactledger/internal/exposure"
	exposureStore "contactledger/internal/exposure/store"
	flagStore "contactledger/internal/flags/store"
	"contactledger/internal/identity"
	identityStore "contactledger/internal/identity/store"
	jwttoken "contactledger/internal/jwt_token"
	"contactledger/internal/ledger"
	ledgerSink "contactledger/internal/ledger/sink"
	"contactledger/internal/offchain/actions"
	offchainHandler "contactledger/internal/offchain/handler"
	offchainMetrics "contactledger/internal/offchain/metrics"
	"contactledger/internal/offchain/processor"
	"contactledger/internal/offchain/scheduler"
	"contactledger/internal/offchain/store/checkpoint"
	"contactledger/internal/offchain/store/localdb"
	"contactledger/internal/offchain/store/lock"
	"contactledger/internal/offchain/store/queue"
	"contactledger/internal/platform/config"
	"contactledger/internal/platform/kafka"
	httpMetrics "contactledger/internal/platform/metrics"
	"contactledger/internal/platform/middleware"
	"contactledger/internal/platform/postgres"
	platformRedis "contactledger/internal/platform/redis"
	"contactledger/internal/pool"
	rlMetrics "contactledger/internal/ratelimit/metrics"
	rlMiddleware "contactledger/internal/ratelimit/middleware"
	rlModels "contactledger/internal/ratelimit/models"
	rlStore "contactledger/internal/ratelimit/store"
	tracingHandler "contactledger/internal/tracing/handler"
	tracingMetrics "contactledger/internal/tracing/metrics"
	"contactledger/internal/tracing/service"
	"contactledger/pkg/platform/httputil"
	"contactledger/pkg/platform/middleware/metadata"
	"contactledger/pkg/platform/middleware/requesttime"
)

// Queue is the full surface of the pending request queue.
type Queue interface {
	service.RequestQueue
	processor.Queue
	Len(ctx context.Context) (pending, inflight int, err error)
}

// Checkpoint is the full surface of the processor checkpoint.
type Checkpoint interface {
	processor.Checkpoint
}

// App holds the wired components. Close releases every backend connection.
type App struct {
	Router     http.Handler
	Service    *service.Service
	Registry   *identity.Registry
	Processor  *processor.Processor
	Scheduler  *scheduler.Scheduler
	Queue      Queue
	Checkpoint Checkpoint
	Pool       pool.Registry
	Publisher  *ledger.Publisher
	Backends   Backends

	logger  *slog.Logger
	health  map[string]func(context.Context) error
	closers []func() error
}

// Backends names the implementation chosen for each concern.
type Backends struct {
	Records    string `json:"records"`
	Queue      string `json:"queue"`
	Checkpoint string `json:"checkpoint"`
	Lock       string `json:"lock"`
	Events     string `json:"events"`
}

type buildOptions struct {
	registry *prometheus.Registry
	now      func() time.Time
}

type Option func(*buildOptions)

// WithRegistry registers metrics on reg and serves them from /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *buildOptions) {
		o.registry = reg
	}
}

// WithNow replaces the wall clock used by the scheduler and request time.
func WithNow(now func() time.Time) Option {
	return func(o *buildOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// Build connects the configured backends and wires the services. Components
// fall back to in-memory stores when their backend is not configured.
func Build(ctx context.Context, cfg config.Server, logger *slog.Logger, opts ...Option) (_ *App, err error) {
	o := buildOptions{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	var reg prometheus.Registerer = prometheus.DefaultRegisterer
	if o.registry != nil {
		reg = o.registry
	}

	a := &App{
		logger: logger,
		health: map[string]func(context.Context) error{},
	}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	rdb, err := platformRedis.New(cfg.Redis)
	if err != nil {
		return nil, err
	}
	kc, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		return nil, err
	}

	var (
		identities identity.Store = identityStore.NewInMemory()
		contacts   interface {
			service.ContactStore
			exposure.ContactLister
		} = contactStore.NewInMemory()
		flags      service.FlagStore    = flagStore.NewInMemory()
		notices    exposure.NoticeStore = exposureStore.NewInMemory()
		tx         service.TxRunner     = service.NewShardedTx()
		cp         Checkpoint           = checkpoint.NewInMemory()
		locker     processor.Locker     = lock.NewInMemory()
		q          Queue                = queue.NewInMemory()
		uuidPool   pool.Registry        = pool.NewInMemory()
		sink       ledger.Sink          = ledgerSink.NewInMemory()
		limitStore rlMiddleware.Store   = rlStore.NewMemory()
		publishOpt []ledger.Option
	)
	a.Backends = Backends{Records: "memory", Queue: "memory", Checkpoint: "memory", Lock: "memory", Events: "memory"}

	if db != nil {
		a.closers = append(a.closers, db.Close)
		a.health["postgres"] = db.PingContext
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, err
		}
		identities = identityStore.NewPostgres(db)
		contacts = contactStore.NewPostgres(db)
		flags = flagStore.NewPostgres(db)
		notices = exposureStore.NewPostgres(db)
		tx = newPostgresTx(db)
		cp = checkpoint.NewPostgres(db)
		a.Backends.Records, a.Backends.Checkpoint = "postgres", "postgres"
	}
	if rdb != nil {
		a.closers = append(a.closers, rdb.Close)
		a.health["redis"] = rdb.Health
		q = queue.NewRedis(rdb.Client, queue.WithLogger(logger))
		locker = lock.NewRedis(rdb.Client)
		uuidPool = pool.NewRedis(rdb.Client)
		limitStore = rlStore.NewRedis(rdb.Client)
		a.Backends.Queue, a.Backends.Lock = "redis", "redis"
		if db == nil {
			cp = checkpoint.NewRedis(rdb.Client)
			a.Backends.Checkpoint = "redis"
		}
	}
	if cfg.Offchain.LocalDBPath != "" {
		local, err := localdb.Open(cfg.Offchain.LocalDBPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, local.Close)
		cp = local.Checkpoint()
		locker = local.Locker()
		a.Backends.Checkpoint, a.Backends.Lock = "localdb", "localdb"
	}
	if kc != nil {
		a.closers = append(a.closers, func() error {
			kc.Close()
			return nil
		})
		a.health["kafka"] = kc.Ping
		sink = ledgerSink.NewKafka(kc, cfg.Kafka.EventsTopic)
		publishOpt = append(publishOpt, ledger.WithAsyncBuffer(1024))
		a.Backends.Events = "kafka"
	}

	a.Publisher = ledger.NewPublisher(sink, append(publishOpt,
		ledger.WithLogger(logger),
		ledger.WithMetrics(ledger.NewMetricsWithRegistry(reg)),
	)...)
	// Registered after the backends so buffered events flush before the
	// Kafka client closes.
	a.closers = append(a.closers, func() error {
		a.Publisher.Close()
		return nil
	})

	a.Registry = identity.NewRegistry(identities)
	a.Queue = q
	a.Checkpoint = cp
	a.Pool = uuidPool
	a.Service = service.New(a.Registry, contacts, flags, q, a.Publisher,
		service.WithTx(tx),
		service.WithLogger(logger),
		service.WithMetrics(tracingMetrics.NewWithRegistry(reg)),
		service.WithNoticeReader(notices),
		service.WithFlagOwnershipEnforced(cfg.Offchain.EnforceFlagOwnership),
	)

	propagator := exposure.NewPropagator(contacts, notices, exposure.WithLogger(logger))
	a.Processor = processor.New(q, cp, locker, actions.NewDispatcher(propagator, uuidPool),
		processor.WithLockTTL(cfg.Offchain.LockTimeout),
		processor.WithMaxBacktrack(uint64(max(cfg.Offchain.MaxBacktrack, 0))),
		processor.WithLogger(logger),
		processor.WithMetrics(offchainMetrics.NewWithRegistry(reg)),
	)

	var epochs offchainHandler.EpochSource
	if cfg.Offchain.SchedulerEnabled {
		a.Scheduler = scheduler.New(a.Processor,
			scheduler.Clock{Genesis: cfg.Offchain.Genesis, Interval: cfg.Offchain.EpochInterval},
			scheduler.WithNow(o.now),
			scheduler.WithLogger(logger),
		)
		epochs = a.Scheduler
	}

	limiter := rlMiddleware.New(limitStore,
		rlModels.Policy{Limit: cfg.RateLimit.CommandsPerWindow, Window: cfg.RateLimit.Window},
		rlMiddleware.WithLogger(logger),
		rlMiddleware.WithMetrics(rlMetrics.NewWithRegistry(reg)),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "contactledger", "contactledger")
	tracing := tracingHandler.New(a.Service, a.Registry, jwttoken.NewJWTServiceAdapter(jwtService), cfg.AdminToken, logger).
		WithCommandThrottle(limiter.LimitSigner())
	a.Router = a.router(
		tracing,
		offchainHandler.New(a.Processor, cp, q, epochs, cfg.AdminToken, logger),
		httpMetrics.NewWithRegistry(reg),
		o,
	)

	logger.InfoContext(ctx, "backends selected",
		"records", a.Backends.Records,
		"queue", a.Backends.Queue,
		"checkpoint", a.Backends.Checkpoint,
		"lock", a.Backends.Lock,
		"events", a.Backends.Events,
	)
	return a, nil
}

type registrar interface {
	Register(r chi.Router)
}

func (a *App) router(tracing, offchain registrar, m *httpMetrics.Metrics, o buildOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.MiddlewareWithClock(o.now))
	r.Use(middleware.Logger(a.logger))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.LatencyMiddleware(m))

	r.Get("/health", a.handleHealth)
	if o.registry != nil {
		r.Handle("/metrics", httpMetrics.HandlerFor(o.registry))
	} else {
		r.Handle("/metrics", httpMetrics.Handler())
	}
	tracing.Register(r)
	offchain.Register(r)
	return r
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(a.health))
	for name, check := range a.health {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	httputil.WriteJSON(w, status, map[string]any{
		"status":   http.StatusText(status),
		"backends": a.Backends,
		"checks":   checks,
	})
}

// Close releases backends in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
