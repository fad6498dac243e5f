package webserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/zincstore/zincstore/internal/app"
	"go.uber.org/zap"
)

const (
	// AppContextKey is the echo context key holding the app.AppContext
	AppContextKey = "appctx"
	apiPrefix     = "/api/v1"
)

type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
}

var (
	routesMu sync.Mutex
	routes   []route
)

func register(method, path string, h echo.HandlerFunc) {
	routesMu.Lock()
	defer routesMu.Unlock()
	routes = append(routes, route{method: method, path: path, handler: h})
}

// ApiGET registers a GET handler under /api/v1
func ApiGET(path string, h echo.HandlerFunc) {
	register(http.MethodGet, path, h)
}

// ApiPOST registers a POST handler under /api/v1
func ApiPOST(path string, h echo.HandlerFunc) {
	register(http.MethodPost, path, h)
}

// ApiDELETE registers a DELETE handler under /api/v1
func ApiDELETE(path string, h echo.HandlerFunc) {
	register(http.MethodDelete, path, h)
}

// CustomValidator adapts go-playground/validator to echo
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// AdminServer serves the admin api
type AdminServer struct {
	root   *echo.Echo
	appCtx app.AppContext
}

// NewAdminServer builds the echo instance and mounts every registered route
func NewAdminServer(appCtx app.AppContext) *AdminServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.JSONSerializer = JSONSerializer{}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("namespace", "adminapi"),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				zap.L().Warn("request", append(fields, zap.Error(v.Error))...)
			} else {
				zap.L().Debug("request", fields...)
			}
			return nil
		},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			return next(c)
		}
	})

	api := e.Group(apiPrefix)
	routesMu.Lock()
	for _, r := range routes {
		api.Add(r.method, r.path, r.handler)
	}
	routesMu.Unlock()

	return &AdminServer{root: e, appCtx: appCtx}
}

// Echo exposes the underlying echo instance
func (s *AdminServer) Echo() *echo.Echo {
	return s.root
}

// Start listens on the configured address until ctx is cancelled
func (s *AdminServer) Start(ctx context.Context) error {
	cfg := s.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.root.Shutdown(shutdownCtx); err != nil {
			zap.S().Errorf("admin server shutdown error %s", err.Error())
		}
	}()

	zap.S().Infof("Starting admin server at %s", addr)
	err := s.root.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.Wrap(err, "admin server")
}
