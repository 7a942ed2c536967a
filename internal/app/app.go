package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pms-parking/parkwash/internal/billing"
	"github.com/pms-parking/parkwash/internal/config"
	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/http/api/admin"
	"github.com/pms-parking/parkwash/internal/jobs"
	"github.com/pms-parking/parkwash/internal/locker"
	"github.com/pms-parking/parkwash/internal/payroll"
	"github.com/pms-parking/parkwash/internal/security"
	"github.com/pms-parking/parkwash/internal/settlement"
	internalsettings "github.com/pms-parking/parkwash/internal/settings"
	"github.com/pms-parking/parkwash/internal/store"
	"github.com/pms-parking/parkwash/internal/watcher"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// ErrMissingJWTSecret indicates the server was started without a signing secret.
var ErrMissingJWTSecret = errors.New("app: missing jwt secret (set `jwt.secret` or JWT_SECRET)")

// App holds the wired services of one instance.
type App struct {
	Config    *config.Config
	DB        *gorm.DB
	Store     *store.Store
	Snapshot  *internalsettings.Snapshot
	Services  admin.Services
	Alerts    *jobs.Alerts
	Scheduler *jobs.Scheduler
}

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// Open connects to the configured database, migrates it and wires the services.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	dsn := cfg.DSN()
	if dsn == "" {
		return nil, config.ErrMissingDatabaseDSN
	}
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		return nil, errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return nil, errMigrate
	}
	return New(ctx, conn, cfg, nil)
}

// New wires the services over an already migrated connection.
// The settings snapshot is loaded once before returning.
func New(ctx context.Context, conn *gorm.DB, cfg *config.Config, now func() time.Time) (*App, error) {
	if conn == nil {
		return nil, fmt.Errorf("app: nil db")
	}
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	if now == nil {
		now = nowUTC
	}

	st := store.New(conn)
	snap := internalsettings.NewSnapshot()
	settingsWatcher := watcher.New(st, snap, cfg.Settings.PollInterval)
	if errRefresh := settingsWatcher.Refresh(ctx); errRefresh != nil {
		return nil, errRefresh
	}

	locks := locker.NewManager(locker.SnapshotProvider(snap, locker.SettingsConfig{
		RedisEnabled:  cfg.Locks.Redis.Enabled,
		RedisAddr:     cfg.Locks.Redis.Addr,
		RedisPassword: cfg.Locks.Redis.Password,
		RedisDB:       cfg.Locks.Redis.DB,
		RedisPrefix:   cfg.Locks.Redis.Prefix,
	}), now, nil)

	var freeMinutes billing.FreeMinutes
	if len(cfg.Billing.FreeMinutes) > 0 {
		freeMinutes = billing.FreeMinutes(cfg.Billing.FreeMinutes)
	}
	helmetFee := int(cfg.Billing.HelmetFee)
	defaultCommission := cfg.Payroll.DefaultCommission

	rates := billing.NewRateResolver(st)
	engine := billing.NewEngine(st, rates, locks, billing.EngineConfig{
		FreeMinutes: freeMinutes,
		HelmetFee: func() int64 {
			return int64(snap.Int(internalsettings.HelmetFeeKey, helmetFee))
		},
		Now: now,
	})
	amortizer := payroll.NewAmortizer(st)
	commission := payroll.NewCommission(st, amortizer, locks, cfg.Payroll.Concurrency)
	alerts := jobs.NewAlerts(st, now, time.Duration(cfg.Alerts.LongParkingHours)*time.Hour, cfg.Alerts.SubscriptionDays)
	scheduler, errScheduler := jobs.NewScheduler(jobs.Config{
		BonusSchedule: cfg.Payroll.BonusSchedule,
		AlertSchedule: cfg.Alerts.Schedule,
	}, commission, alerts, now)
	if errScheduler != nil {
		return nil, errScheduler
	}

	return &App{
		Config:   cfg,
		DB:       conn,
		Store:    st,
		Snapshot: snap,
		Services: admin.Services{
			DB:            conn,
			Store:         st,
			Engine:        engine,
			Rates:         rates,
			Subscriptions: billing.NewSubscriptions(st, locks, now),
			Agreements:    billing.NewAgreements(st),
			Washes:        billing.NewWashes(st, locks, now),
			Shifts:        settlement.New(st, now),
			Washers: payroll.NewWashers(st, func() int {
				return snap.Int(internalsettings.DefaultCommissionKey, defaultCommission)
			}),
			Advances:   payroll.NewAdvances(st),
			Commission: commission,
			Settings:   settingsWatcher,
		},
		Alerts:    alerts,
		Scheduler: scheduler,
	}, nil
}

// Router builds the gin engine serving the admin API.
func (a *App) Router() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	admin.RegisterAdminRoutes(engine, a.Config.JWT, a.Services)
	return engine
}

// Close releases the database connection.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	sqlDB, errDB := a.DB.DB()
	if errDB != nil {
		return errDB
	}
	return sqlDB.Close()
}

// loadConfig resolves and loads the config file and configures logging.
func loadConfig(cfg config.AppConfig) (*config.Config, func(), error) {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	loaded, errLoad := config.Load(configPath)
	if errLoad != nil {
		return nil, nil, errLoad
	}
	logCloser, errLog := ConfigureLogging(loaded.Logging)
	if errLog != nil {
		return nil, nil, errLog
	}
	return loaded, func() { _ = logCloser.Close() }, nil
}

// RunServer serves the admin API with the settings watcher and job scheduler
// until ctx is canceled. A positive port overrides the configured one.
func RunServer(ctx context.Context, cfg config.AppConfig, port int) error {
	loaded, closeLog, errLoad := loadConfig(cfg)
	if errLoad != nil {
		return errLoad
	}
	defer closeLog()
	if strings.TrimSpace(loaded.JWT.Secret) == "" {
		return ErrMissingJWTSecret
	}
	if port > 0 {
		loaded.HTTP.Port = port
	}

	application, errOpen := Open(ctx, loaded)
	if errOpen != nil {
		return errOpen
	}
	defer func() {
		if errClose := application.Close(); errClose != nil {
			log.WithError(errClose).Warn("app: close database")
		}
	}()

	if errWatch := application.Services.Settings.Start(ctx); errWatch != nil {
		return errWatch
	}
	defer application.Services.Settings.Stop()
	application.Scheduler.Start()
	defer application.Scheduler.Stop()

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(loaded.HTTP.Port),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Infof("starting parkwash api on %s (config=%s)", server.Addr, config.ResolveConfigPath(cfg.ConfigPath))
		if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			serveErr <- errServe
		}
		close(serveErr)
	}()

	select {
	case errServe := <-serveErr:
		return errServe
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
		return fmt.Errorf("app: shutdown: %w", errShutdown)
	}
	log.Info("parkwash api stopped")
	return nil
}

// RunBonuses runs one commission batch for date and exits.
func RunBonuses(ctx context.Context, cfg config.AppConfig, date time.Time) (*payroll.Run, error) {
	loaded, closeLog, errLoad := loadConfig(cfg)
	if errLoad != nil {
		return nil, errLoad
	}
	defer closeLog()
	application, errOpen := Open(ctx, loaded)
	if errOpen != nil {
		return nil, errOpen
	}
	defer func() { _ = application.Close() }()
	return application.Services.Commission.CalculateDaily(ctx, date)
}

// nowUTC returns the current UTC time.
func nowUTC() time.Time { return time.Now().UTC() }

// IssueToken signs a bearer token for principal with the configured secret and expiry.
func IssueToken(cfg config.AppConfig, principal security.Principal) (string, error) {
	loaded, errLoad := config.Load(config.ResolveConfigPath(cfg.ConfigPath))
	if errLoad != nil {
		return "", errLoad
	}
	return security.IssueToken(loaded.JWT.Secret, principal, loaded.JWT.Expiry, nowUTC())
}
