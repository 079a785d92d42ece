package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appconfig "github.com/karagozeren/akademiknet/config"
	"github.com/karagozeren/akademiknet/internal/catalog"
	"github.com/karagozeren/akademiknet/internal/launcher"
	"github.com/karagozeren/akademiknet/internal/session"
)

// Server is the orchestration API: it spawns scrape workers and polls
// the session store until they publish results.
type Server struct {
	cfg  *appconfig.Config
	echo *echo.Echo
}

func New(cfg *appconfig.Config, st *session.Store, ln launcher.Launcher, cat *catalog.Catalog) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"success": false, "error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "akademiknet",
			"usage":   "POST /api/search, POST /api/collaborators/:sessionId",
		})
	})
	if cfg.Server.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	api := e.Group("/api")

	sh := &SearchHandler{
		Cfg:      cfg,
		Store:    st,
		Launcher: ln,
		Catalog:  cat,
		Log:      log.New(log.Writer(), "[SEARCH] ", log.LstdFlags),
	}
	sh.Register(api)

	ch := &CollaboratorsHandler{
		Cfg:      cfg,
		Store:    st,
		Launcher: ln,
		Log:      log.New(log.Writer(), "[COLLAB] ", log.LstdFlags),
	}
	ch.Register(api)

	return &Server{cfg: cfg, echo: e}
}

// Echo exposes the underlying router.
func (s *Server) Echo() *echo.Echo { return s.echo }

// Run serves until the listener fails.
func (s *Server) Run() error {
	return s.echo.Start(s.cfg.Server.Address)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
