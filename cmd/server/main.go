package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	httpInterface "github.com/dreschagin/k8s-orchestration-demo/internal/interfaces/http"
	"github.com/dreschagin/k8s-orchestration-demo/internal/interfaces/http/handler"
	"github.com/dreschagin/k8s-orchestration-demo/internal/interfaces/view"
	"github.com/dreschagin/k8s-orchestration-demo/internal/metrics"
	"github.com/dreschagin/k8s-orchestration-demo/pkg/config"
	"github.com/dreschagin/k8s-orchestration-demo/pkg/logger"
	"github.com/dreschagin/k8s-orchestration-demo/web"
)

func main() {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Logger
	log := logger.NewWithWriter(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	log.Info("Starting K8s orchestration demo", "assets_source", cfg.Assets.Source)

	// 3. Assets
	assets, err := openAssets(cfg.Assets, log)
	if err != nil {
		log.Error("Failed to open assets", err)
		os.Exit(1)
	}
	defer assets.Close()

	renderer := view.NewRenderer(assets.templates, cfg.Assets.TemplatesReload)
	if err := renderer.Check(handler.IndexTemplate); err != nil {
		log.Warn("Landing page template unavailable, / will answer 500",
			"template", handler.IndexTemplate,
			"error", err.Error(),
		)
	}

	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New(prometheus.NewRegistry())
	}

	// 4. Handlers and router
	router := httpInterface.NewRouter(
		handler.NewPageHandler(renderer, log),
		handler.NewHealthHandler(),
		handler.NewStaticHandler(assets.static, httpInterface.StaticPrefix, log),
		cfg.Compression,
		cfg.RateLimit,
		appMetrics,
		log,
	)

	servers := []*http.Server{{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}}

	if appMetrics != nil {
		adminMux := http.NewServeMux()
		adminMux.Handle("GET /metrics", appMetrics.Handler())
		servers = append(servers, &http.Server{
			Addr:              ":" + cfg.Metrics.Port,
			Handler:           adminMux,
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	// 5. Serve until SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, server := range servers {
		go func(server *http.Server) {
			log.Info("HTTP server starting", "addr", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("HTTP server failed", err, "addr", server.Addr)
				os.Exit(1)
			}
		}(server)
	}

	<-ctx.Done()
	log.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	var wg sync.WaitGroup
	for _, server := range servers {
		wg.Add(1)
		go func(server *http.Server) {
			defer wg.Done()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("Server shutdown error", err, "addr", server.Addr)
			}
		}(server)
	}
	wg.Wait()

	log.Info("Server stopped gracefully")
}

type assetRoots struct {
	static    fs.FS
	templates fs.FS
	roots     []*os.Root
	pending   *lazyRoot
}

func (a *assetRoots) Close() {
	for _, root := range a.roots {
		_ = root.Close()
	}
	if a.pending != nil {
		a.pending.Close()
	}
}

// lazyRoot is an os.Root-backed fs.FS for a directory that may not exist yet.
// Every Open retries os.OpenRoot until it succeeds; after that the root is kept.
type lazyRoot struct {
	dir string

	mu   sync.Mutex
	root *os.Root
}

func (l *lazyRoot) Open(name string) (fs.File, error) {
	l.mu.Lock()
	if l.root == nil {
		root, err := os.OpenRoot(l.dir)
		if err != nil {
			l.mu.Unlock()
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		l.root = root
	}
	root := l.root
	l.mu.Unlock()

	return root.FS().Open(name)
}

func (l *lazyRoot) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.root != nil {
		_ = l.root.Close()
		l.root = nil
	}
}

// openAssets resolves the static and template file systems. On disk, the
// static root must exist; a missing templates root only disables the page
// until the directory appears.
func openAssets(cfg config.AssetsConfig, log *logger.Logger) (*assetRoots, error) {
	if cfg.Source == config.AssetsSourceEmbed {
		return &assetRoots{static: web.StaticFS(), templates: web.TemplatesFS()}, nil
	}

	staticRoot, err := os.OpenRoot(cfg.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("open static dir %q: %w", cfg.StaticDir, err)
	}
	assets := &assetRoots{static: staticRoot.FS(), roots: []*os.Root{staticRoot}}

	templatesRoot, err := os.OpenRoot(cfg.TemplatesDir)
	if err != nil {
		log.Warn("Templates dir unavailable", "dir", cfg.TemplatesDir, "error", err.Error())
		assets.pending = &lazyRoot{dir: cfg.TemplatesDir}
		assets.templates = assets.pending
		return assets, nil
	}
	assets.templates = templatesRoot.FS()
	assets.roots = append(assets.roots, templatesRoot)

	return assets, nil
}
