package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/stylerec/internal/assetcache"
	"github.com/xxxsen/stylerec/internal/catalog"
	"github.com/xxxsen/stylerec/internal/config"
	"github.com/xxxsen/stylerec/internal/db"
	"github.com/xxxsen/stylerec/internal/filestore"
	"github.com/xxxsen/stylerec/internal/handler"
	"github.com/xxxsen/stylerec/internal/imgproc"
	"github.com/xxxsen/stylerec/internal/job"
	"github.com/xxxsen/stylerec/internal/middleware"
	"github.com/xxxsen/stylerec/internal/recommend"
	"github.com/xxxsen/stylerec/internal/repo"
	"github.com/xxxsen/stylerec/internal/schedule"
	"github.com/xxxsen/stylerec/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "stylerec",
		Short: "stylerec recommendation server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run stylerec server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	rootLogger := logutil.GetLogger(context.Background())
	rootLogger.Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.String("file_store", cfg.FileStore.Type),
	)

	conn, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()
	if err := db.ApplyMigrations(conn); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	var loader catalog.Loader
	switch cfg.Catalog.Source {
	case "postgres":
		loader = catalog.NewPGLoader(conn.DB)
	default:
		loader = catalog.NewFileLoader(cfg.Catalog.FilePath)
	}
	store := catalog.NewStore(loader)
	// A failed initial load leaves the store unready; ranking endpoints
	// answer 503 until a reload succeeds.
	if err := store.Reload(context.Background()); err != nil {
		rootLogger.Error("initial catalog load failed", zap.Error(err))
	} else if snap, err := store.Snapshot(); err == nil {
		rootLogger.Info("catalog loaded", zap.Int("items", snap.Len()))
	}

	fileStore, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	processor := imgproc.New(cfg.ImageProc.MattingURL, time.Duration(cfg.ImageProc.FetchTimeoutMS)*time.Millisecond)
	assets := assetcache.New(fileStore, processor,
		cfg.ImageProc.CacheSize,
		time.Duration(cfg.ImageProc.CacheTTLHours)*time.Hour,
	)

	outfitRepo := repo.NewOutfitRepo(conn)
	repRepo := repo.NewRepresentativeRepo(conn)

	presets := make(map[string]recommend.Weights, len(cfg.Recommend.Presets))
	for name, weights := range cfg.Recommend.Presets {
		presets[name] = recommend.WeightsFromConfig(weights)
	}
	selector := recommend.NewSelector(cfg.Recommend.PoolSize, cfg.Recommend.PickCount)
	recommendService := service.NewRecommendService(
		store, outfitRepo, repRepo, assets, selector, presets, cfg.Recommend.DefaultPreset)
	outfitService := service.NewOutfitService(outfitRepo, store)
	priceService := service.NewPriceService(store)

	scheduler := schedule.New()
	if cfg.Catalog.ReloadSpec != "" {
		if err := scheduler.Add(job.NewCatalogReloadJob(store), cfg.Catalog.ReloadSpec); err != nil {
			return fmt.Errorf("schedule catalog reload: %w", err)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORS(cfg.CORSAllow),
		gzip.Gzip(gzip.DefaultCompression),
	)
	handler.RegisterRoutes(engine, handler.RouterDeps{
		Recommend: handler.NewRecommendHandler(recommendService, cfg.Recommend.DefaultPersona),
		Outfits:   handler.NewOutfitHandler(outfitService),
		Prices:    handler.NewPriceHandler(priceService),
		Assets:    handler.NewAssetHandler(fileStore),
		Catalog:   handler.NewCatalogHandler(store),
		RateLimit: time.Duration(cfg.RateLimitMS) * time.Millisecond,
	})

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: engine}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		rootLogger.Info("http server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			rootLogger.Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	rootLogger.Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
