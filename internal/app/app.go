package app

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ivankudrin/finapi/internal/controller"
	"github.com/ivankudrin/finapi/internal/middlewareinternal"
	"github.com/ivankudrin/finapi/internal/repository"
	"github.com/ivankudrin/finapi/internal/repository/memory"
	"github.com/ivankudrin/finapi/internal/service"
)

type App struct {
	cfg    *Config
	Router *chi.Mux
	db     *repository.Database
	Logger *zap.Logger
	Server *http.Server
}

func New(cfg *Config) (*App, error) {
	app := &App{
		cfg:    cfg,
		Router: chi.NewRouter(),
		Logger: zap.L(),
	}

	userRepo, statementRepo, tx, err := app.initStores()
	if err != nil {
		return nil, err
	}

	app.initRouter(userRepo, statementRepo, tx)
	return app, nil
}

// initStores picks the persistence backend: Postgres when a DSN is
// configured, the in-memory stores otherwise. The services are indifferent.
func (a *App) initStores() (repository.UserRepository, repository.StatementRepository, repository.TxRunner, error) {
	if a.cfg.DatabaseURI == "" {
		a.Logger.Warn("No database URI configured, using in-memory stores")
		return memory.NewUserRepository(), memory.NewStatementRepository(), memory.NewTxRunner(), nil
	}

	db, err := repository.NewDatabase(repository.DatabaseConfig{
		DSN:            a.cfg.DatabaseURI,
		MigrationsPath: a.cfg.MigrationsPath,
	})
	if err != nil {
		a.Logger.Error("Database initialization failed",
			zap.String("dsn", a.cfg.MaskDBPassword()),
			zap.Error(err))
		return nil, nil, nil, fmt.Errorf("database initialization failed: %w", err)
	}

	a.db = db
	a.Logger.Info("Database initialized successfully",
		zap.String("migrations_path", a.cfg.MigrationsPath))

	return repository.NewUserRepository(db), repository.NewStatementRepository(db), db, nil
}

func (a *App) initRouter(
	userRepo repository.UserRepository,
	statementRepo repository.StatementRepository,
	tx repository.TxRunner,
) {
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.RealIP)
	a.Router.Use(middleware.Logger)
	a.Router.Use(middleware.Recoverer)
	a.Router.Use(middleware.Compress(5))

	// Services
	authService := service.NewAuthService(userRepo, a.cfg.JWTSecretKey)
	userService := service.NewUserService(userRepo)
	statementService := service.NewStatementService(userRepo, statementRepo, tx)
	balanceService := service.NewBalanceService(userRepo, statementRepo)

	logger := a.Logger
	// Controllers
	authController := controller.NewAuthController(authService, logger)
	userController := controller.NewUserController(userService, logger)
	statementController := controller.NewStatementController(statementService, logger)
	balanceController := controller.NewBalanceController(balanceService)

	// Public routes
	a.Router.Post("/api/users", userController.Register)
	a.Router.Post("/api/sessions", authController.Login)

	// Protected routes
	a.Router.Group(func(r chi.Router) {
		r.Use(middlewareinternal.JWTAuthMiddleware(authService))

		r.Get("/api/profile", userController.GetProfile)
		r.Get("/api/statements/balance", balanceController.GetBalance)
		r.Get("/api/statements/{statement_id}", statementController.GetStatementOperation)
		r.Post("/api/statements/deposit", statementController.CreateStatement)
		r.Post("/api/statements/withdraw", statementController.CreateStatement)
		r.Post("/api/statements/transfers/{receiver_id}", statementController.Transfer)
	})
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
