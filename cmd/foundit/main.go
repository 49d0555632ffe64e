package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/zh1gn/FoundItBot/internal/app"
	"github.com/zh1gn/FoundItBot/internal/config"
	"github.com/zh1gn/FoundItBot/internal/web"
)

// main runs the CLI entrypoint and exits on unrecoverable command errors.
func main() {
	if errRun := run(context.Background(), os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("command failed")
		os.Exit(1)
	}
}

// run parses flags, loads config, and starts the server or runs migrations.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("foundit", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	port := fs.Int("port", 0, "server port override")
	migrateOnly := fs.Bool("migrate", false, "run database migrations and exit")
	issueToken := fs.Bool("issue-admin-token", false, "print a signed admin API token and exit")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}

	path := strings.TrimSpace(*cfgPath)
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}
	cfg, errLoad := config.Load(config.ResolveConfigPath(path))
	if errLoad != nil {
		return errLoad
	}
	if *port != 0 {
		if errValidate := validatePort(*port); errValidate != nil {
			return errValidate
		}
		cfg.Port = *port
	}

	if *issueToken {
		if cfg.AdminID == 0 {
			return fmt.Errorf("issue-admin-token: no admin id configured (set `admin-id` or env %s)", config.EnvAdminID)
		}
		token, errIssue := web.IssueAdminToken(cfg.JWT, cfg.AdminID)
		if errIssue != nil {
			return errIssue
		}
		fmt.Println(token)
		return nil
	}

	if *migrateOnly {
		return app.Migrate(ctx, cfg)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.RunServer(ctx, cfg)
}

func validatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}
