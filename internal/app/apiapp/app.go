package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/config"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/infra/httpclient"
	s3infra "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/infra/s3"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/integrations/gcal"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/integrations/zoom"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/jobs/cleanup"
	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
	redrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/redis"
	adminsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/admin"
	authsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/auth"
	connsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/connections"
	matchsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/matching"
	mediasvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/media"
	meetingsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/meetings"
	msgsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/messages"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/notify"
	profilesvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/profiles"
	ratesvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/rate"
	reviewsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/reviews"
)

type App struct {
	cfg         config.Config
	logger      *zap.Logger
	server      *http.Server
	postgres    *pgxpool.Pool
	redis       *goredis.Client
	s3          *minio.Client
	httpRouter  http.Handler
	cleanupJob  *cleanup.Job
	stopCleanup context.CancelFunc
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := p.Ping(pingCtx)
		cancel()
		if err != nil {
			p.Close()
			log.Warn("postgres unreachable, continuing in degraded mode", zap.Error(err))
		} else {
			pool = p
			if err := pgrepo.Migrate(ctx, pool); err != nil {
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	notifyRepo := redrepo.NewNotifyRepo(redisClient)

	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	candidateRepo := pgrepo.NewCandidateRepo(pool)
	connectionRepo := pgrepo.NewConnectionRepo(pool)
	meetingRepo := pgrepo.NewMeetingRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)
	reviewRepo := pgrepo.NewReviewRepo(pool)
	reportRepo := pgrepo.NewReportRepo(pool)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	zoomClient := zoom.NewClient(
		httpclient.New(cfg.Integrations.Zoom.Timeout),
		cfg.Integrations.Zoom.BaseURL,
		cfg.Integrations.Zoom.Token,
	)
	calendarClient := gcal.NewClient(
		httpclient.New(cfg.Integrations.Calendar.Timeout),
		cfg.Integrations.Calendar.BaseURL,
		cfg.Integrations.Calendar.Token,
	)

	notifier := notify.NewService(notifyRepo, log)
	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.RequestsPerHour, cfg.Limits.MessagesPerMinute)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	authService := authsvc.NewService(authsvc.Dependencies{
		JWT:        jwtManager,
		Users:      userRepo,
		Sessions:   sessionRepo,
		SessionTTL: cfg.Auth.SessionTTL,
	})
	profileService := profilesvc.NewService(profileRepo)
	matchingService := matchsvc.NewService(matchsvc.Dependencies{
		Candidates:  candidateRepo,
		Connections: connectionRepo,
		Ratings:     reviewRepo,
	})
	connectionService := connsvc.NewService(connsvc.Dependencies{
		Pool:        pool,
		Connections: connectionRepo,
		Users:       userRepo,
		Meetings:    meetingRepo,
		Messages:    messageRepo,
		Video:       zoomClient,
		Calendar:    calendarClient,
		Notifier:    notifier,
		Logger:      log,
	})
	meetingService := meetingsvc.NewService(meetingsvc.Dependencies{
		Meetings:    meetingRepo,
		Connections: connectionRepo,
		Video:       zoomClient,
		Calendar:    calendarClient,
		Notifier:    notifier,
		Logger:      log,
	})
	messageService := msgsvc.NewService(msgsvc.Dependencies{
		Messages:    messageRepo,
		Connections: connectionRepo,
		Notifier:    notifier,
	})
	reviewService := reviewsvc.NewService(reviewsvc.Dependencies{
		Reviews:     reviewRepo,
		Connections: connectionRepo,
	})
	adminService := adminsvc.NewService(adminsvc.Dependencies{
		Users:    userRepo,
		Reports:  reportRepo,
		Sessions: sessionRepo,
		Logger:   log,
	})
	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	mediaService := mediasvc.NewService(profileRepo, mediaStorage)

	cleanupJob := cleanup.NewJob(connectionRepo, meetingRepo, cleanup.Config{
		Interval:          cfg.Cleanup.Interval,
		RejectedRetention: cfg.Cleanup.RejectedRetention,
		MeetingRetention:  cfg.Cleanup.MeetingRetention,
	}, log)

	RegisterRoutes(r, Dependencies{
		AuthService:       authService,
		ProfileService:    profileService,
		MatchingService:   matchingService,
		ConnectionService: connectionService,
		MeetingService:    meetingService,
		MessageService:    messageService,
		ReviewService:     reviewService,
		AdminService:      adminService,
		MediaService:      mediaService,
		Notifier:          notifier,
		RateLimiter:       rateLimiter,
		Logger:            log,
		Config:            cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
		cleanupJob: cleanupJob,
	}, nil
}

func (a *App) Run() error {
	jobCtx, cancel := context.WithCancel(context.Background())
	a.stopCleanup = cancel
	go a.cleanupJob.Run(jobCtx)

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
