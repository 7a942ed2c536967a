package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pms-parking/parkwash/internal/app"
	"github.com/pms-parking/parkwash/internal/config"
	"github.com/pms-parking/parkwash/internal/models"
	"github.com/pms-parking/parkwash/internal/security"

	log "github.com/sirupsen/logrus"
)

// main runs the CLI entrypoint and exits on unrecoverable command errors.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if errRun := run(ctx, os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("command failed")
		os.Exit(1)
	}
}

// run dispatches to the server or one of the maintenance subcommands.
func run(ctx context.Context, args []string) error {
	if errEnv := config.LoadDotEnv(); errEnv != nil {
		return errEnv
	}
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		switch args[0] {
		case "serve":
			return runServe(ctx, args[1:])
		case "migrate":
			return runMigrate(ctx, args[1:])
		case "bonuses":
			return runBonuses(ctx, args[1:])
		case "token":
			return runToken(args[1:])
		default:
			return fmt.Errorf("unknown command: %s", args[0])
		}
	}
	return runServe(ctx, args)
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	port := fs.Int("port", 0, "server port (overrides http.port)")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}
	if *port != 0 {
		if errValidate := validatePort(*port); errValidate != nil {
			return errValidate
		}
	}
	appCfg, err := appConfig(*cfgPath)
	if err != nil {
		return err
	}
	return app.RunServer(ctx, appCfg, *port)
}

func runMigrate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}
	appCfg, err := appConfig(*cfgPath)
	if err != nil {
		return err
	}
	if errMigrate := app.Migrate(ctx, appCfg); errMigrate != nil {
		return errMigrate
	}
	log.Info("migrations applied")
	return nil
}

func runBonuses(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bonuses", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	dateRaw := fs.String("date", "", "day to calculate, YYYY-MM-DD (default yesterday, UTC)")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}
	day := time.Now().UTC().AddDate(0, 0, -1)
	if raw := strings.TrimSpace(*dateRaw); raw != "" {
		parsed, errDate := time.ParseInLocation(time.DateOnly, raw, time.UTC)
		if errDate != nil {
			return fmt.Errorf("invalid date %q: %w", raw, errDate)
		}
		day = parsed
	}
	appCfg, err := appConfig(*cfgPath)
	if err != nil {
		return err
	}
	result, errRun := app.RunBonuses(ctx, appCfg, day)
	if errRun != nil {
		return errRun
	}
	calculated, skipped, failed := result.Counts()
	if failed > 0 {
		return fmt.Errorf("bonus run %s: %d of %d washers failed", result.ID, failed, calculated+skipped+failed)
	}
	return nil
}

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	id := fs.Uint64("id", 0, "principal id (admin or washer)")
	roleRaw := fs.String("role", "", "global_admin, operational_admin or washer")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}
	if *id == 0 {
		return errors.New("token: -id is required")
	}
	role, errRole := models.ParseRole(*roleRaw)
	if errRole != nil {
		return errRole
	}
	appCfg, err := appConfig(*cfgPath)
	if err != nil {
		return err
	}
	token, errIssue := app.IssueToken(appCfg, security.Principal{ID: *id, Role: role})
	if errIssue != nil {
		return errIssue
	}
	fmt.Println(token)
	return nil
}

func appConfig(cfgPath string) (config.AppConfig, error) {
	appCfg, err := config.LoadFromEnv()
	if err != nil {
		return appCfg, err
	}
	if strings.TrimSpace(cfgPath) != "" {
		appCfg.ConfigPath = config.ResolveConfigPath(cfgPath)
	}
	return appCfg, nil
}

func validatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}
