package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/openstall/stallgate/internal/core/service"
	"github.com/openstall/stallgate/internal/infra/buildinfo"
	"github.com/openstall/stallgate/internal/infra/confloader"
	"github.com/openstall/stallgate/internal/infra/shutdown"
	"github.com/openstall/stallgate/internal/payment"
	"github.com/openstall/stallgate/internal/server/config"
	"github.com/openstall/stallgate/internal/server/httpserver"
	"github.com/openstall/stallgate/internal/server/httpserver/handler"
	"github.com/openstall/stallgate/internal/storage/memory"
	"github.com/openstall/stallgate/internal/storage/sqlite"
	"github.com/openstall/stallgate/internal/telemetry/logger"
	"github.com/openstall/stallgate/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("stallgate-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting stallgate-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"backend", cfg.Storage.Backend,
		"config", *configFile)

	stores, closeStores, err := initStores(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	svcs := initServices(cfg, stores)

	metrics := metric.NewRegistry()
	httpHandler := handler.New(
		svcs.Directory,
		svcs.Sessions,
		svcs.Catalog,
		svcs.Carts,
		svcs.Ledger,
		log,
		metrics,
	)

	routerCfg := &httpserver.RouterConfig{
		Handler:        httpHandler,
		Sessions:       svcs.Sessions,
		Logger:         log,
		Metrics:        metrics,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
	}
	sellerServer := httpserver.New(cfg.Server.Seller.Addr, httpserver.NewSellerRouter(routerCfg))
	buyerServer := httpserver.New(cfg.Server.Buyer.Addr, httpserver.NewBuyerRouter(routerCfg))

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Hooks run in reverse registration order, so the stores close
	// after both frontends stop accepting requests.
	if closeStores != nil {
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("closing storage")
			return closeStores()
		})
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	if cfg.Session.SweepInterval > 0 {
		go svcs.Sessions.RunSweeper(sweepCtx, cfg.Session.SweepInterval)
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			stopSweeper()
			return nil
		})
	}

	if *configFile != "" {
		watcher, err := watchLogLevel(*configFile, log)
		if err != nil {
			log.Warn("config watcher unavailable", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(ctx context.Context) error {
				return watcher.Stop()
			})
		}
	}

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down seller frontend")
		return sellerServer.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down buyer frontend")
		return buyerServer.Shutdown(ctx)
	})

	go serve(log, "seller", cfg.Server.Seller.Addr, sellerServer)
	go serve(log, "buyer", cfg.Server.Buyer.Addr, buyerServer)

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

func serve(log logger.Logger, frontend, addr string, srv *httpserver.Server) {
	log.Info("frontend listening", "frontend", frontend, "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("frontend server error", "frontend", frontend, "error", err)
	}
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger initializes the structured logger and installs it as the
// process default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// stores holds one repository per aggregate, regardless of backend.
type stores struct {
	Users     service.UserRepository
	Sessions  service.SessionRepository
	Items     service.ItemRepository
	Carts     service.CartRepository
	Purchases service.PurchaseRepository
}

// initStores builds the configured storage backend. The returned close
// function is nil for backends with nothing to release.
func initStores(cfg *config.ServerConfig) (*stores, func() error, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return &stores{
			Users:     sqlite.NewUserRepository(db),
			Sessions:  sqlite.NewSessionRepository(db),
			Items:     sqlite.NewItemRepository(db),
			Carts:     sqlite.NewCartRepository(db),
			Purchases: sqlite.NewPurchaseRepository(db),
		}, db.Close, nil
	default:
		return &stores{
			Users:     memory.NewUserStore(),
			Sessions:  memory.NewSessionStore(),
			Items:     memory.NewItemStore(),
			Carts:     memory.NewCartStore(),
			Purchases: memory.NewPurchaseStore(),
		}, nil, nil
	}
}

// services holds all initialized domain services.
type services struct {
	Directory *service.DirectoryService
	Sessions  *service.SessionService
	Catalog   *service.CatalogService
	Carts     *service.CartService
	Ledger    *service.LedgerService
}

func initServices(cfg *config.ServerConfig, st *stores) *services {
	approver := payment.NewStubApprover(cfg.Payment.ApprovalRate, time.Now().UnixNano())

	return &services{
		Directory: service.NewDirectoryService(st.Users),
		Sessions:  service.NewSessionService(st.Sessions, cfg.Session.IdleTimeout),
		Catalog:   service.NewCatalogService(st.Items),
		Carts:     service.NewCartService(st.Carts, st.Items),
		Ledger:    service.NewLedgerService(st.Purchases, st.Items, approver),
	}
}

// watchLogLevel reloads the log level when the config file changes.
// Other settings still require a restart.
func watchLogLevel(configFile string, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(string) {
		cfg := config.Default()
		loader := confloader.NewLoader(confloader.WithConfigFile(configFile))
		if err := loader.Load(cfg); err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level updated", "level", cfg.Log.Level)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}
