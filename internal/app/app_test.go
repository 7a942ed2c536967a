package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pms-parking/parkwash/internal/config"
	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/payroll"
	internalsettings "github.com/pms-parking/parkwash/internal/settings"
	log "github.com/sirupsen/logrus"
)

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	conn, errOpen := db.Open("file:" + filepath.Join(t.TempDir(), "app.db"))
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	application, errNew := New(context.Background(), conn, cfg, nil)
	if errNew != nil {
		t.Fatalf("new app: %v", errNew)
	}
	t.Cleanup(func() { _ = application.Close() })
	return application
}

func TestNewLoadsSettingsSnapshot(t *testing.T) {
	cfg, errLoad := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if errLoad != nil {
		t.Fatalf("load config: %v", errLoad)
	}
	application := newTestApp(t, cfg)

	if got := application.Snapshot.Int(internalsettings.HelmetFeeKey, 0); got != internalsettings.DefaultHelmetFee {
		t.Fatalf("expected seeded helmet fee %d, got %d", internalsettings.DefaultHelmetFee, got)
	}
	washer, errRegister := application.Services.Washers.Register(context.Background(), washerRequest("Ana"))
	if errRegister != nil {
		t.Fatalf("register washer: %v", errRegister)
	}
	if washer.CommissionPercentage != internalsettings.DefaultCommissionPercentage {
		t.Fatalf("expected default commission %d, got %d", internalsettings.DefaultCommissionPercentage, washer.CommissionPercentage)
	}
}

func TestRouterServesHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg, errLoad := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if errLoad != nil {
		t.Fatalf("load config: %v", errLoad)
	}
	cfg.JWT.Secret = "secret"
	application := newTestApp(t, cfg)

	rec := httptest.NewRecorder()
	application.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	application.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rates", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestOpenRequiresDSN(t *testing.T) {
	if _, errOpen := Open(context.Background(), &config.Config{}); errOpen != config.ErrMissingDatabaseDSN {
		t.Fatalf("expected missing dsn error, got %v", errOpen)
	}
}

func TestConfigureLoggingWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parkwash.log")
	closer, errConfigure := ConfigureLogging(config.LoggingConfig{Level: "debug", JSON: true, File: path, MaxSizeMB: 1, MaxBackups: 1})
	if errConfigure != nil {
		t.Fatalf("configure logging: %v", errConfigure)
	}
	t.Cleanup(func() {
		log.SetOutput(os.Stdout)
		log.SetFormatter(&log.TextFormatter{})
		log.SetLevel(log.InfoLevel)
	})
	log.WithField("plate", "ABC123").Info("app: test line")
	if errClose := closer.Close(); errClose != nil {
		t.Fatalf("close log: %v", errClose)
	}
	data, errRead := os.ReadFile(path)
	if errRead != nil {
		t.Fatalf("read log: %v", errRead)
	}
	if len(data) == 0 {
		t.Fatalf("expected log output in %s", path)
	}

	if _, errLevel := ConfigureLogging(config.LoggingConfig{Level: "loud"}); errLevel == nil {
		t.Fatalf("expected invalid level error")
	}
}

func TestRunServerRequiresSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "database-dsn: file:" + filepath.Join(dir, "srv.db") + "\n"
	if errWrite := os.WriteFile(path, []byte(body), 0o600); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}
	t.Setenv(config.EnvJWTSecret, "")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if errRun := RunServer(ctx, config.AppConfig{ConfigPath: path}, 0); errRun != ErrMissingJWTSecret {
		t.Fatalf("expected missing secret error, got %v", errRun)
	}
}

func washerRequest(name string) payroll.WasherRequest {
	return payroll.WasherRequest{FullName: name}
}
