package bootstrap

import (
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"

	authservice "github.com/vlasovdm/taskdeck/backend/internal/auth/service"
	"github.com/vlasovdm/taskdeck/backend/internal/common/clock"
	"github.com/vlasovdm/taskdeck/backend/internal/common/config"
	commoncrypto "github.com/vlasovdm/taskdeck/backend/internal/common/crypto"
	"github.com/vlasovdm/taskdeck/backend/internal/common/db"
	"github.com/vlasovdm/taskdeck/backend/internal/common/logger"
	pushrepo "github.com/vlasovdm/taskdeck/backend/internal/push/repository"
	pushservice "github.com/vlasovdm/taskdeck/backend/internal/push/service"
	userrepo "github.com/vlasovdm/taskdeck/backend/internal/user/repository"
)

type App struct {
	Config      config.Config
	Log         *logger.Logger
	Pool        *pgxpool.Pool
	UserRepo    userrepo.Repository
	PushRepo    pushrepo.Repository
	AuthService *authservice.AuthService
	PushService *pushservice.Service
	Dispatcher  *pushservice.Dispatcher
}

func NewApp() (*App, error) {
	log, err := logger.New(os.Getenv("LOG_DIR"), "taskdeck", os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
		return nil, err
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	if pool == nil {
		return nil, fmt.Errorf("failed to initialize database pool")
	}

	clk := clock.NewRealClock()
	userRepo := userrepo.NewPgRepository(pool)
	pushRepo := pushrepo.NewPgRepository(pool)

	issuer := authservice.NewTokenIssuer(cfg.JWTSecret, &commoncrypto.UUIDGenerator{}, cfg.TokenTTL, clk)
	authService := authservice.NewAuthService(
		userRepo,
		&commoncrypto.BcryptHasher{},
		&commoncrypto.UUIDGenerator{},
		issuer,
		log,
	)

	pushService := pushservice.NewService(pushRepo, cfg.VAPIDPublicKey, clk, log)
	sender := pushservice.NewWebPushSender(pushservice.VAPIDConfig{
		PublicKey:   cfg.VAPIDPublicKey,
		PrivateKey:  cfg.VAPIDPrivateKey,
		Subject:     cfg.VAPIDSubject,
		TTLSeconds:  cfg.PushTTLSeconds,
		SendTimeout: cfg.PushSendTimeout,
	})
	dispatcher := pushservice.NewDispatcher(pushRepo, sender, clk, log)

	return &App{
		Config:      cfg,
		Log:         log,
		Pool:        pool,
		UserRepo:    userRepo,
		PushRepo:    pushRepo,
		AuthService: authService,
		PushService: pushService,
		Dispatcher:  dispatcher,
	}, nil
}
