package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"sparebudget/internal/domain/account"
	"sparebudget/internal/domain/analytics"
	"sparebudget/internal/domain/banksync"
	"sparebudget/internal/domain/budget"
	"sparebudget/internal/domain/transaction"
	"sparebudget/internal/domain/user"
	"sparebudget/internal/infrastructure/amqp"
	"sparebudget/internal/infrastructure/crypto"
	"sparebudget/internal/infrastructure/postgres"
	"sparebudget/internal/infrastructure/sparebank1"
	httphandlers "sparebudget/internal/interfaces/http"
	"sparebudget/internal/interfaces/scheduler"
	"sparebudget/internal/shared/config"
)

// Dependencies holds all initialized application dependencies.
type Dependencies struct {
	DB *postgres.DB

	// Services
	UserService        *user.Service
	AccountService     *account.Service
	TransactionService *transaction.Service
	Collapsor          *transaction.Collapsor
	BudgetService      *budget.Service
	AnalyticsService   *analytics.Service
	AccountSync        *banksync.AccountSyncService
	TransactionSync    *banksync.TransactionSyncService

	// Handlers
	OAuthHandler       *httphandlers.OAuthHandler
	SyncHandler        *httphandlers.SyncHandler
	TransactionHandler *httphandlers.TransactionHandler
	BudgetHandler      *httphandlers.BudgetHandler
	AnalyticsHandler   *httphandlers.AnalyticsHandler

	// Optional background components, nil when disabled
	AMQP      *amqp.Client
	Scheduler *scheduler.Scheduler

	log zerolog.Logger
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info().Msg("Connected to database")

	d := &Dependencies{DB: db, log: log}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	budgetRepo := postgres.NewBudgetRepository(db)

	table, err := budget.DefaultKeywordTable()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load category keywords: %w", err)
	}

	// Services
	d.UserService = user.NewService(userRepo)
	d.AccountService = account.NewService(accountRepo)
	d.TransactionService = transaction.NewService(transactionRepo)
	d.Collapsor = transaction.NewCollapsorWithWorkers(transactionRepo, log, cfg.Scheduler.WorkerCount)
	d.BudgetService = budget.NewService(budgetRepo, transactionRepo, table, cfg.App.Location)
	d.AnalyticsService = analytics.NewService(d.BudgetService, table, log)

	if _, err := d.BudgetService.SeedCategories(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	// Upstream bank
	client := sparebank1.NewClient(sparebank1.ClientConfig{
		BaseURL:            cfg.SpareBank1.APIURL,
		Timeout:            cfg.SpareBank1.Timeout,
		MinRequestInterval: cfg.SpareBank1.MinRequestInterval,
	})
	oauth := sparebank1.NewOAuth(sparebank1.OAuthConfig{
		ClientID:     cfg.SpareBank1.ClientID,
		ClientSecret: cfg.SpareBank1.ClientSecret,
		RedirectURI:  cfg.SpareBank1.RedirectURI,
		FinInst:      cfg.SpareBank1.FinInst,
		AuthURL:      cfg.SpareBank1.AuthURL,
	}, client.HTTPClient())
	if !oauth.Configured() {
		log.Warn().Msg("SpareBank1 client credentials not set, OAuth endpoints will fail")
	}

	reconciler := banksync.NewReconciler(transactionRepo, d.AccountService, log)
	d.AccountSync = banksync.NewAccountSyncService(client, d.UserService, d.AccountService, cfg.App.Location, log)
	d.TransactionSync = banksync.NewTransactionSyncService(
		client,
		d.UserService,
		d.AccountService,
		reconciler,
		banksync.TransactionSyncConfig{
			LookbackDays: cfg.Sync.LookbackDays,
			RowLimit:     cfg.Sync.RowLimit,
			Location:     cfg.App.Location,
		},
		log,
	)

	// Collapse requests are queued when a broker is configured
	if cfg.AMQP.URL != "" {
		d.AMQP, err = amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, log)
		if err != nil {
			log.Warn().Err(err).Msg("AMQP unavailable, collapse requests disabled")
			d.AMQP = nil
		} else {
			d.TransactionSync.WithPublisher(d.AMQP)
		}
	}

	// Session cookies
	var sessions *httphandlers.SessionCookies
	if cfg.Session.Key != "" {
		sealer, err := crypto.NewSealer(cfg.Session.Key)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to create session sealer: %w", err)
		}
		sessions = httphandlers.NewSessionCookies(sealer, cfg.Session.CookieName)
	}

	// Handlers
	d.OAuthHandler = httphandlers.NewOAuthHandler(oauth, sessions, log)
	d.SyncHandler = httphandlers.NewSyncHandler(d.AccountSync, d.TransactionSync, d.Collapsor, d.UserService, sessions, log)
	d.TransactionHandler = httphandlers.NewTransactionHandler(d.TransactionService, d.UserService, cfg.App.Location, log)
	d.BudgetHandler = httphandlers.NewBudgetHandler(d.BudgetService, d.UserService, log)
	d.AnalyticsHandler = httphandlers.NewAnalyticsHandler(d.AnalyticsService, d.BudgetService, d.UserService, log)

	if cfg.Scheduler.Enabled {
		d.Scheduler, err = scheduler.New(scheduler.Config{
			ScheduleTimes: cfg.Scheduler.ScheduleTimes,
			RunOnStartup:  cfg.Scheduler.RunOnStartup,
			Location:      cfg.App.Location,
			Pool: scheduler.WorkerPoolConfig{
				WorkerCount: cfg.Scheduler.WorkerCount,
				QueueSize:   cfg.Scheduler.QueueSize,
			},
			JobProvider: scheduler.CollapseJobs(d.UserService, d.Collapsor, log),
		}, log)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to create scheduler: %w", err)
		}
	}

	return d, nil
}

// Start launches the background components that are enabled.
func (d *Dependencies) Start(ctx context.Context) {
	if d.Scheduler != nil {
		d.Scheduler.Start()
	}

	if d.AMQP != nil {
		go func() {
			err := d.AMQP.ConsumeCollapseRequests(ctx, d.handleCollapseRequest)
			if err != nil && ctx.Err() == nil {
				d.log.Error().Err(err).Msg("Collapse consumer stopped")
			}
		}()
	}
}

func (d *Dependencies) handleCollapseRequest(ctx context.Context, req *amqp.CollapseRequest) error {
	result, err := d.Collapsor.Collapse(ctx, req.UserID)
	if err != nil {
		return err
	}
	d.log.Info().
		Int64("user_id", req.UserID).
		Str("reason", req.Reason).
		Int("duplicates_removed", result.DuplicatesRemoved).
		Msg("Collapse request processed")
	return nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.AMQP != nil {
		if err := d.AMQP.Close(); err != nil {
			d.log.Error().Err(err).Msg("Error closing AMQP client")
		}
		d.AMQP = nil
	}
	if d.DB != nil {
		d.DB.Close()
		d.DB = nil
	}
}
