package http

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	broadcastServices "github.com/orris-inc/rollcall/internal/application/broadcast/services"
	broadcastUsecases "github.com/orris-inc/rollcall/internal/application/broadcast/usecases"
	syncUsecases "github.com/orris-inc/rollcall/internal/application/offlinesync/usecases"
	reportUsecases "github.com/orris-inc/rollcall/internal/application/report/usecases"
	verifyUsecases "github.com/orris-inc/rollcall/internal/application/verify/usecases"
	"github.com/orris-inc/rollcall/internal/domain/device"
	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/domain/verification"
	"github.com/orris-inc/rollcall/internal/infrastructure/authority"
	"github.com/orris-inc/rollcall/internal/infrastructure/cache"
	"github.com/orris-inc/rollcall/internal/infrastructure/config"
	"github.com/orris-inc/rollcall/internal/infrastructure/database"
	"github.com/orris-inc/rollcall/internal/infrastructure/metrics"
	"github.com/orris-inc/rollcall/internal/infrastructure/pubsub"
	"github.com/orris-inc/rollcall/internal/infrastructure/ratelimit"
	"github.com/orris-inc/rollcall/internal/infrastructure/repository"
	"github.com/orris-inc/rollcall/internal/infrastructure/scheduler"
	"github.com/orris-inc/rollcall/internal/interfaces/http/handlers"
	"github.com/orris-inc/rollcall/internal/interfaces/http/handlers/broadcaster"
	"github.com/orris-inc/rollcall/internal/interfaces/http/handlers/verifier"
	"github.com/orris-inc/rollcall/internal/shared/biztime"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

// Container holds the infrastructure and use cases of one agent process and
// wires them together. Shutdown releases everything it opened.
type Container struct {
	cfg *config.Config
	log logger.Interface

	// Core infrastructure
	db        *gorm.DB
	redis     *redis.Client
	clock     biztime.Clock
	sched     *scheduler.TickerScheduler
	metrics   *metrics.Collector
	authority *authority.Client
	limiter   ratelimit.Limiter
	relay     *pubsub.RedisPayloadRelay

	// Stores
	store    proof.Store
	identity device.IdentityStore

	// Broadcaster state shared by HTTP and CLI
	current *broadcastServices.Current
	latest  *broadcastServices.LatestSink

	// Use cases
	AssessScan       *verifyUsecases.AssessScanUseCase
	RecordAttendance *verifyUsecases.RecordAttendanceUseCase
	GetDevice        *verifyUsecases.GetDeviceUseCase
	SyncPending      *syncUsecases.SyncPendingUseCase
	ListPending      *syncUsecases.ListPendingUseCase
	RemovePending    *syncUsecases.RemovePendingUseCase
	ClearPending     *syncUsecases.ClearPendingUseCase
	CloseSession     *broadcastUsecases.CloseSessionUseCase
	SessionReport    *reportUsecases.SessionReportUseCase
}

// NewContainer opens the local store, the optional redis lease and the
// authority client, then builds every use case.
func NewContainer(ctx context.Context, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		cfg:     cfg,
		log:     log,
		clock:   biztime.SystemClock{},
		metrics: metrics.New(),
		current: broadcastServices.NewCurrent(),
		latest:  broadcastServices.NewLatestSink(),
	}
	c.sched = scheduler.NewTickerScheduler(c.clock, log.Named("scheduler"))

	if err := c.initStores(); err != nil {
		return nil, err
	}

	c.authority = authority.NewClient(cfg.Authority.BaseURL,
		authority.WithToken(cfg.Authority.Token),
		authority.WithTimeout(cfg.Authority.Timeout()),
	)

	deviceProfile := verifyUsecases.DeviceProfile{
		UserAgent:        cfg.Device.UserAgent,
		ScreenResolution: cfg.Device.ScreenResolution,
	}
	c.GetDevice = verifyUsecases.NewGetDeviceUseCase(c.identity, deviceProfile, log)

	syncOpts := []syncUsecases.SyncOption{
		syncUsecases.WithStrictResults(cfg.Sync.RequirePerRecordResults),
		syncUsecases.WithSyncMetrics(c.metrics),
	}
	if cfg.Redis.Enabled {
		lease, err := c.initRedis(ctx)
		if err != nil {
			c.Shutdown()
			return nil, err
		}
		syncOpts = append(syncOpts, syncUsecases.WithLease(lease))
	}

	scorer := verification.NewScorer(
		verification.NewGeofenceEvaluator(cfg.Protocol.DefaultRadiusMeters),
		weightsFromConfig(cfg),
		cfg.Protocol.WindowTolerance,
	)
	c.AssessScan = verifyUsecases.NewAssessScanUseCase(scorer, c.clock, c.metrics, log)
	c.RecordAttendance = verifyUsecases.NewRecordAttendanceUseCase(c.AssessScan, c.store, c.GetDevice, c.clock, c.metrics, log)

	c.SyncPending = syncUsecases.NewSyncPendingUseCase(c.store, c.authority, log, syncOpts...)
	c.ListPending = syncUsecases.NewListPendingUseCase(c.store, log)
	c.RemovePending = syncUsecases.NewRemovePendingUseCase(c.store, c.metrics, log)
	c.ClearPending = syncUsecases.NewClearPendingUseCase(c.store, c.metrics, log)

	c.CloseSession = broadcastUsecases.NewCloseSessionUseCase(c.authority, c.current, log)
	c.SessionReport = reportUsecases.NewSessionReportUseCase(c.authority, log)

	c.refreshPendingGauge(ctx)
	return c, nil
}

func (c *Container) initStores() error {
	if c.cfg.Store.IsMemory() {
		c.store = repository.NewMemoryPendingStore()
		c.identity = repository.NewMemoryDeviceIdentity()
		c.log.Warnw("using in-memory store, pending records will not survive a restart")
		return nil
	}

	db, err := database.Open(&c.cfg.Store, c.log.Named("database"))
	if err != nil {
		return err
	}
	c.db = db
	c.store = repository.NewPendingAttendanceRepository(db, c.log)
	c.identity = repository.NewDeviceIdentityRepository(db, c.log)
	return nil
}

// initRedis connects redis and builds the scan limiter and the sync lease. The
// lease is scoped to this device so every agent process on it shares one lock.
func (c *Container) initRedis(ctx context.Context) (*cache.SyncLease, error) {
	client, err := cache.NewRedisClient(ctx, &c.cfg.Redis)
	if err != nil {
		return nil, err
	}
	c.redis = client

	limits := ratelimit.Limits{
		PerMinute: c.cfg.Server.ScanRateLimit.PerMinute,
		PerHour:   c.cfg.Server.ScanRateLimit.PerHour,
	}
	if limits.Enabled() {
		c.limiter = ratelimit.NewRedisLimiter(client, limits, c.clock)
	}
	c.relay = pubsub.NewRedisPayloadRelay(client, c.log.Named("relay"))

	fp, err := c.GetDevice.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve device id for sync lease: %w", err)
	}

	c.log.Infow("redis sync lease enabled", "address", c.cfg.Redis.GetAddr(), "ttl", c.cfg.Redis.LeaseTTL())
	return cache.NewSyncLease(client, fp.DeviceID, c.cfg.Redis.LeaseTTL()), nil
}

func (c *Container) refreshPendingGauge(ctx context.Context) {
	n, err := c.store.Count(ctx)
	if err != nil {
		c.log.Warnw("failed to read pending queue size", "error", err)
		return
	}
	c.metrics.SetPending(n)
}

func weightsFromConfig(cfg *config.Config) verification.Weights {
	s := cfg.Protocol.Scoring
	return verification.Weights{
		Token:         s.TokenWeight,
		Corroboration: s.CorroborationWeight,
		Geofence:      s.GeofenceWeight,
		Threshold:     s.AcceptThreshold,
	}.OrDefault()
}

// StartSessionUseCase builds a start use case publishing into sink. The HTTP
// server passes the latest-payload sink; the CLI passes stdout. With redis
// enabled every payload is also relayed to followers.
func (c *Container) StartSessionUseCase(sink broadcastServices.PayloadSink) *broadcastUsecases.StartSessionUseCase {
	if c.relay != nil {
		sink = broadcastServices.MultiSink{sink, c.relay}
	}
	return broadcastUsecases.NewStartSessionUseCase(
		c.authority, c.current, c.sched, c.clock, sink, c.log,
		broadcastServices.WithMetrics(c.metrics),
	)
}

// Relay returns the payload relay, or nil when redis is disabled.
func (c *Container) Relay() *pubsub.RedisPayloadRelay {
	return c.relay
}

// Router assembles the local agent API.
func (c *Container) Router() *Router {
	router := NewRouter(RouterDeps{
		SystemHandler: handlers.NewSystemHandler(c.GetDevice, c.log),
		BroadcasterHandler: broadcaster.NewHandler(
			c.StartSessionUseCase(c.latest), c.CloseSession, c.current, c.latest, c.log,
		),
		VerifierHandler: verifier.NewHandler(
			c.AssessScan, c.RecordAttendance,
			c.ListPending, c.RemovePending, c.ClearPending, c.SyncPending,
			c.log,
		),
		MetricsHandler: c.metrics.Handler(),
		ScanLimiter:    c.limiter,
		AllowedOrigins: c.cfg.Server.AllowedOrigins,
	}, c.log)
	router.SetupRoutes()
	return router
}

// Current returns the running broadcaster slot.
func (c *Container) Current() *broadcastServices.Current {
	return c.current
}

// Shutdown stops any running broadcaster and closes the store and redis.
func (c *Container) Shutdown() {
	if b := c.current.Swap(nil); b != nil {
		b.Stop()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
	if err := database.Close(c.db); err != nil {
		c.log.Warnw("failed to close local database", "error", err)
	}
}
