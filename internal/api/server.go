// Package api отдаёт операции расписания по HTTP (echo).
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/notify"
	"github.com/Freeeeeet/college_scheduler/internal/service"
)

// ScheduleService операции, которые использует HTTP-слой
type ScheduleService interface {
	AddTeacher(ctx context.Context, form service.Form) (model.Teacher, error)
	AddClass(ctx context.Context, form service.Form) (model.Class, error)
	AddCourse(ctx context.Context, form service.Form) (model.Course, error)
	AddScheduleItem(ctx context.Context, form service.Form) (model.ScheduleItem, error)

	DeleteTeacher(ctx context.Context, id string) error
	DeleteClass(ctx context.Context, id string) error
	DeleteCourse(ctx context.Context, id string) error
	DeleteScheduleItem(ctx context.Context, id string) error

	GetTeachers(ctx context.Context) []model.Teacher
	GetCourses(ctx context.Context) []model.Course
	GetClasses(ctx context.Context) []model.Class
	GetScheduleItems(ctx context.Context) []model.ScheduleItem
	GetSchedule(ctx context.Context) []model.ScheduleEntry

	Ping(ctx context.Context) error
}

var _ ScheduleService = (*service.ScheduleService)(nil)

type Options struct {
	Address        string
	DisableReqLogs bool
	Service        ScheduleService
	Hub            *notify.Hub
	Gatherer       prometheus.Gatherer
	Logger         *zap.Logger
}

// Server HTTP API расписания
type Server struct {
	opts Options
	app  *echo.Echo
}

func NewServer(opts Options) *Server {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(requestLogger(s.opts.Logger))
	}
	s.app.Use(middleware.Recover())

	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.opts.Logger)

	h := &handlers{svc: s.opts.Service, hub: s.opts.Hub, logger: s.opts.Logger}

	s.app.GET("/teachers", h.listTeachers)
	s.app.POST("/teachers", h.addTeacher)
	s.app.DELETE("/teachers/:id", h.deleteTeacher)

	s.app.GET("/courses", h.listCourses)
	s.app.POST("/courses", h.addCourse)
	s.app.DELETE("/courses/:id", h.deleteCourse)

	s.app.GET("/classes", h.listClasses)
	s.app.POST("/classes", h.addClass)
	s.app.DELETE("/classes/:id", h.deleteClass)

	s.app.GET("/schedule-items", h.listScheduleItems)
	s.app.POST("/schedule-items", h.addScheduleItem)
	s.app.DELETE("/schedule-items/:id", h.deleteScheduleItem)

	s.app.GET("/schedule", h.schedule)
	s.app.GET("/schedule/export", h.exportSchedule)

	if s.opts.Hub != nil {
		s.app.GET("/events", h.events)
	}
	s.app.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))
	s.app.GET("/healthz", h.health)
}

// Start слушает адрес до Shutdown; штатная остановка не считается ошибкой
func (s *Server) Start() error {
	s.opts.Logger.Info("Starting HTTP server", zap.String("addr", s.opts.Address))
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.opts.Logger.Info("Stopping HTTP server")
	return s.app.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				logger.Warn("HTTP request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("HTTP request", fields...)
			return nil
		},
	})
}
