// Package server wires the storefront services into an HTTP application.
package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/configurator"
	"storefront/internal/data"
	"storefront/internal/escaper"
	"storefront/internal/logger"
	"storefront/internal/menu"
	"storefront/internal/middleware"
	"storefront/internal/shop"
)

const requestTimeout = 15 * time.Second

type App struct {
	addr          string
	config        *config.Config
	db            *sql.DB
	mux           *http.ServeMux
	connections   sync.WaitGroup
	totalRequests int64
}

// New builds the application on an open database.
func New(cfg *config.Config, conn *sql.DB) (*App, error) {
	esc, err := escaper.New("utf-8")
	if err != nil {
		return nil, err
	}

	shops := shop.NewService(data.NewShopRepository(conn), cfg.DefaultShopID)
	configurators := configurator.NewHandler(configurator.NewService(data.NewConfiguratorRepository(conn)))
	menus := menu.NewHandler(menu.NewService(data.NewCategoryRepository(conn)), cfg.Menu, esc)

	app := &App{
		addr:   cfg.Address(),
		config: cfg,
		db:     conn,
	}
	app.mux = app.routes(shops, configurators, menus)
	return app, nil
}

// routes sets up all storefront routes
func (a *App) routes(shops *shop.Service, configurators *configurator.Handler, menus *menu.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.healthHandler)

	// JSON endpoints answer shop errors in the API envelope, the widget in plain text
	apiShop := shops.Resolve(middleware.WriteStatusError)
	widgetShop := shops.Resolve(func(w http.ResponseWriter, r *http.Request, status int, err error) {
		http.Error(w, http.StatusText(status), status)
	})

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/products/{id}/configurator", middleware.API(apiShop(configurators.ProductConfiguratorHandler)))
	apiMux.HandleFunc("/products/configurations", middleware.API(apiShop(configurators.ProductConfigurationsHandler)))
	apiMux.HandleFunc("/widgets/advanced-menu", middleware.API(apiShop(menus.JSONHandler)))
	apiMux.HandleFunc("/", middleware.API(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteStatusError(w, r, http.StatusNotFound, nil)
	}))

	mux.Handle("/api/", middleware.CORS(a.config.AllowedOrigin, http.StripPrefix("/api", apiMux)))
	mux.HandleFunc("/widgets/advanced-menu", widgetShop(menus.WidgetHandler))
	mux.HandleFunc("/", notFound)

	return mux
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.PingContext(ctx); err != nil {
		logger.LogError("Health check failed: %v", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Handler assembles all middleware around the main mux
func (a *App) Handler() http.Handler {
	var handler http.Handler = a.mux

	handler = a.trackConnections(handler)
	handler = logRequests(handler)
	handler = withTimeout(handler, requestTimeout)

	return handler
}

// Run serves until SIGINT or SIGTERM, then drains open connections.
func (a *App) Run() error {
	server := &http.Server{
		Addr:         a.addr,
		Handler:      a.Handler(),
		ReadTimeout:  requestTimeout,
		WriteTimeout: requestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.LogInfo("Starting server on %s", a.addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
		logger.LogInfo("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.LogError("Server shutdown error: %v", err)
	}

	logger.LogInfo("Waiting for active connections to finish...")
	a.connections.Wait()
	logger.LogInfo("All connections closed. Total requests handled: %d", atomic.LoadInt64(&a.totalRequests))
	return nil
}

// TotalRequests is the number of requests served so far.
func (a *App) TotalRequests() int64 {
	return atomic.LoadInt64(&a.totalRequests)
}

// Middleware: timeout handler
func withTimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.TimeoutHandler(h, timeout, "Request timed out")
}

// Middleware: log requests
func logRequests(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		logger.LogDebug("%s %s took %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// Middleware: track active connections and total requests
func (a *App) trackConnections(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.connections.Add(1)
		atomic.AddInt64(&a.totalRequests, 1)
		defer a.connections.Done()

		h.ServeHTTP(w, r)
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	logger.LogInfo("404 not found: %s", r.URL.Path)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`<html><body>
	<h1>404 - Page Not Found</h1>
	<p>Sorry, the page you requested was not found.</p>
	<a href="/">Return to the shop</a>
</body></html>
`))
}
