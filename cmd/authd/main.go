package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/maxpert/auth-go/auth"
	"github.com/maxpert/auth-go/config"
	"github.com/maxpert/auth-go/metrics"
	"github.com/maxpert/auth-go/sasl"
	"go.uber.org/zap"
)

const (
	version = "0.1.0"
	banner  = `
               __  __        __
  ____ ___  __/ /_/ /_  ____/ /
 / __ '/ / / / __/ __ \/ __  /
/ /_/ / /_/ / /_/ / / / /_/ /
\__,_/\__,_/\__/_/ /_/\__,_/

Server-Side Authentication Engine
Version: %s
`
)

func main() {
	// Define command-line flags
	var (
		configFile     = flag.String("config", "", "Configuration file path (YAML)")
		showVersion    = flag.Bool("version", false, "Show version and exit")
		generateConfig = flag.String("generate-config", "", "Generate default config file and exit (e.g., config.yaml)")
		checkUser      = flag.String("check", "", "Verify one credential (user:password) and exit")
	)

	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("authd version %s\n", version)
		return
	}

	// Generate default config and exit
	if *generateConfig != "" {
		cfg := config.DefaultConfig()
		if err := cfg.Save(*generateConfig); err != nil {
			log.Fatalf("Failed to generate config file: %v", err)
		}
		fmt.Printf("Generated default configuration: %s\n", *generateConfig)
		fmt.Println("Edit the file and start the engine with: authd --config " + *generateConfig)
		return
	}

	// Load configuration
	var cfg *config.AuthConfig
	if *configFile != "" {
		cfg = &config.AuthConfig{}
		if err := cfg.Load(*configFile); err != nil {
			log.Fatalf("Failed to load configuration file %s: %v", *configFile, err)
		}
	} else {
		// Default configuration, overridable via AUTH_* environment variables
		cfg = config.DefaultConfig()
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	domain, err := config.BuildDomain(cfg, logger, nil)
	if err != nil {
		logger.Fatal("Failed to build authentication domain", zap.Error(err))
	}

	// One-shot credential check mode
	if *checkUser != "" {
		os.Exit(runCheck(domain, logger, *checkUser))
	}

	fmt.Printf(banner, version)

	registry := sasl.DefaultRegistry()
	logger.Info("Authentication engine ready",
		zap.Strings("realms", domain.RealmNames()),
		zap.String("default_realm", domain.DefaultRealmName()),
		zap.String("mechanisms", registry.String()),
		zap.Bool("anonymous_allowed", domain.IsAnonymousAllowed()))

	// Start metrics server if enabled
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port)
		go func() {
			logger.Info("Metrics server listening",
				zap.Int("port", metricsServer.Port()))
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutting down", zap.String("signal", sig.String()))

	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Stop(ctx); err != nil {
			logger.Error("Metrics server shutdown failed", zap.Error(err))
		}
	}
}

// runCheck drives one full authentication attempt through the engine and
// reports the outcome through the exit code.
func runCheck(domain *auth.Domain, logger *zap.Logger, arg string) int {
	username, password, found := strings.Cut(arg, ":")
	if !found || username == "" {
		fmt.Fprintln(os.Stderr, "check: expected user:password")
		return 2
	}

	ctx := domain.NewContext()
	if err := ctx.Start(); err != nil {
		logger.Error("Failed to start authentication", zap.Error(err))
		return 2
	}

	dispatcher := auth.NewDispatcher(ctx)
	verify := &auth.PasswordVerifyRequest{Password: []byte(password)}
	err := dispatcher.Handle(&auth.NameRequest{Name: username}, verify)
	if err == nil && verify.Verified {
		err = dispatcher.Handle(&auth.CompleteRequest{Succeeded: true})
	} else {
		_ = dispatcher.Handle(&auth.CompleteRequest{Succeeded: false})
	}

	if err != nil {
		logger.Error("Authentication attempt failed", zap.String("user", username), zap.Error(err))
		return 2
	}
	if !verify.Verified {
		fmt.Printf("Credential rejected for user %s\n", username)
		return 1
	}

	identity, err := ctx.AuthorizedIdentity()
	if err != nil {
		logger.Error("Failed to retrieve authorized identity", zap.Error(err))
		return 2
	}
	fmt.Printf("Credential accepted for user %s (realm %s)\n",
		identity.Principal().Name(), identity.RealmName())
	return 0
}
