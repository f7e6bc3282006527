package factory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"quickcourt/internal/client"
	"quickcourt/internal/config"
	"quickcourt/internal/events"
	"quickcourt/internal/handler"
	"quickcourt/internal/hashing"
	"quickcourt/internal/mail"
	"quickcourt/internal/otp"
	"quickcourt/internal/repository/postgres"
	"quickcourt/internal/repository/redis"
	"quickcourt/internal/service"
	"quickcourt/internal/tls"
	"quickcourt/internal/token"
	"quickcourt/internal/util"
)

// Factory manages the lifecycle of all application dependencies
type Factory struct {
	config     *config.Config
	tlsManager *tls.TLSManager

	// Clients
	db            *gorm.DB
	redisClient   *client.RedisClient
	kafkaProducer *client.KafkaProducer

	// Core components
	hasher       *hashing.Hasher
	tokenService *token.Service
	otpManager   *otp.Manager
	publisher    events.Publisher
	rateLimiter  *redis.RateLimitCache

	// Services
	authService     *service.AuthService
	facilityService *service.FacilityService
	bookingService  *service.BookingService
	matchService    *service.MatchService
	reviewService   *service.ReviewService

	closeOnce sync.Once
	closed    chan struct{}
}

// NewFactory creates and initializes all application dependencies
func NewFactory() (*Factory, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	util.Init(cfg.Environment, cfg.Logging.Level, cfg.Logging.Format)

	factory := &Factory{
		config: cfg,
		closed: make(chan struct{}),
	}

	if cfg.Server.EnableTLS {
		factory.tlsManager = tls.NewTLSManager(&tls.TLSConfig{
			EnableTLS:   cfg.Server.EnableTLS,
			AutoCert:    cfg.Server.AutoCert,
			Domain:      cfg.Server.Domain,
			CertFile:    cfg.Server.CertFile,
			KeyFile:     cfg.Server.KeyFile,
			AutoCertDir: cfg.Server.AutoCertDir,
		})
	}

	if err := factory.initializeClients(); err != nil {
		return nil, fmt.Errorf("failed to initialize clients: %w", err)
	}

	factory.initializeServices()

	util.Info("Factory initialized successfully",
		util.String("environment", cfg.Environment),
		util.Bool("tls_enabled", cfg.Server.EnableTLS),
		util.Bool("kafka_enabled", cfg.Kafka.Enabled),
	)

	return factory, nil
}

// initializeClients brings up Postgres and Redis in parallel; both must be
// healthy before the service starts. Kafka is best-effort.
func (f *Factory) initializeClients() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		db, err := client.NewPostgresDB(f.config)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		f.db = db
		util.Info("Postgres client initialized and migrated")
		return nil
	})

	g.Go(func() error {
		rc, err := client.NewRedisClient(f.config)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		if err := rc.HealthCheck(gctx); err != nil {
			return fmt.Errorf("redis health check: %w", err)
		}
		f.redisClient = rc
		util.Info("Redis client initialized and healthy")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if f.config.Kafka.Enabled {
		f.kafkaProducer = client.NewKafkaProducer(f.config)
		util.Info("Kafka producer initialized")
	}

	return nil
}

func (f *Factory) initializeServices() {
	cfg := f.config
	logger := util.Get()

	f.hasher = hashing.NewHasher(bcrypt.DefaultCost)
	f.tokenService = token.NewService(cfg.JWT.Secret, cfg.JWT.TTL)
	f.rateLimiter = redis.NewRateLimitCache(f.redisClient, cfg.Redis.OTPRequestLimit, cfg.Redis.OTPRequestWindow)

	var sender otp.Sender = mail.NewSMTPSender(cfg.SMTP)
	f.otpManager = otp.NewManager(otp.Config{
		Length:      cfg.OTP.Length,
		Expiry:      cfg.OTP.Expiry,
		MaxAttempts: cfg.OTP.MaxAttempts,
		Shards:      cfg.OTP.StoreShards,
	}, sender, logger)

	if f.kafkaProducer != nil {
		f.publisher = events.NewKafkaPublisher(f.kafkaProducer)
	} else {
		f.publisher = events.NopPublisher{}
	}

	users := postgres.NewUserRepository(f.db)
	facilities := postgres.NewFacilityRepository(f.db)
	courts := postgres.NewCourtRepository(f.db)
	bookings := postgres.NewBookingRepository(f.db)
	matches := postgres.NewMatchRepository(f.db)
	reviews := postgres.NewReviewRepository(f.db)

	f.authService = service.NewAuthService(users, f.otpManager, f.tokenService, f.hasher, f.rateLimiter, f.publisher, logger)
	f.facilityService = service.NewFacilityService(facilities, courts, logger)
	f.bookingService = service.NewBookingService(bookings, courts, logger)
	f.matchService = service.NewMatchService(matches, courts, logger)
	f.reviewService = service.NewReviewService(reviews, facilities, logger)

	util.Info("Services initialized successfully")
}

// Router assembles every HTTP handler onto a configured chi router.
func (f *Factory) Router() *handler.Handlers {
	logger := util.Get()
	mw := handler.NewAuthMiddleware(f.authService, logger)
	secureCookies := f.config.Server.SecureCookies || f.config.Server.EnableTLS

	return &handler.Handlers{
		Auth:     handler.NewAuthHandler(f.authService, mw, secureCookies, logger),
		Facility: handler.NewFacilityHandler(f.facilityService, mw, logger),
		Booking:  handler.NewBookingHandler(f.bookingService, mw, logger),
		Match:    handler.NewMatchHandler(f.matchService, mw, logger),
		Review:   handler.NewReviewHandler(f.reviewService, mw, logger),
	}
}

func (f *Factory) Config() *config.Config {
	return f.config
}

func (f *Factory) TLSManager() *tls.TLSManager {
	return f.tlsManager
}

func (f *Factory) AuthService() *service.AuthService {
	return f.authService
}

// HealthCheck reports the state of every external dependency.
func (f *Factory) HealthCheck(ctx context.Context) map[string]error {
	healthErrors := make(map[string]error)

	if f.redisClient != nil {
		if err := f.redisClient.HealthCheck(ctx); err != nil {
			healthErrors["redis"] = err
		}
	} else {
		healthErrors["redis"] = fmt.Errorf("redis client not initialized")
	}

	if f.db != nil {
		sqlDB, err := f.db.DB()
		if err != nil {
			healthErrors["postgres"] = err
		} else if err := sqlDB.PingContext(ctx); err != nil {
			healthErrors["postgres"] = err
		}
	} else {
		healthErrors["postgres"] = fmt.Errorf("postgres client not initialized")
	}

	return healthErrors
}

func (f *Factory) IsHealthy(ctx context.Context) bool {
	return len(f.HealthCheck(ctx)) == 0
}

func (f *Factory) Close() error {
	f.closeOnce.Do(func() {
		close(f.closed)
		util.Info("Shutting down factory...")

		if f.kafkaProducer != nil {
			if err := f.kafkaProducer.Close(); err != nil {
				util.Error("Failed to close Kafka producer", util.ErrorField(err))
			} else {
				util.Info("Kafka producer closed")
			}
		}

		if f.redisClient != nil {
			if err := f.redisClient.Close(); err != nil {
				util.Error("Failed to close Redis client", util.ErrorField(err))
			} else {
				util.Info("Redis client closed")
			}
		}

		if f.db != nil {
			if sqlDB, err := f.db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					util.Error("Failed to close Postgres connection pool", util.ErrorField(err))
				} else {
					util.Info("Postgres connection pool closed")
				}
			}
		}

		util.Sync()
		util.Info("Factory shutdown completed")
	})

	return nil
}

func (f *Factory) WaitForClose() {
	<-f.closed
}
