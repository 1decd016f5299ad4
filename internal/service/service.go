package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/notify"
	"github.com/Freeeeeet/college_scheduler/internal/repository"
)

const defaultTimeout = 5 * time.Second

// MetricsRecorder получает результат каждой операции сервиса
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, notify.Scope) {}

// ScheduleService фасад над хранилищем: добавление и удаление сущностей с каскадами,
// выборки для отображения и сигнал об изменениях после каждой успешной мутации.
type ScheduleService struct {
	store    repository.Store
	notifier notify.Notifier
	metrics  MetricsRecorder
	validate *inputValidator
	newID    func() string
	timeout  time.Duration
	logger   *zap.Logger
}

// Option настраивает ScheduleService
type Option func(*ScheduleService)

// WithTimeout ограничивает длительность одной операции с хранилищем
func WithTimeout(d time.Duration) Option {
	return func(s *ScheduleService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMetrics подключает запись метрик операций
func WithMetrics(m MetricsRecorder) Option {
	return func(s *ScheduleService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithIDGenerator заменяет генератор идентификаторов (по умолчанию UUID v4)
func WithIDGenerator(fn func() string) Option {
	return func(s *ScheduleService) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewScheduleService(store repository.Store, notifier notify.Notifier, logger *zap.Logger, opts ...Option) *ScheduleService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	s := &ScheduleService{
		store:    store,
		notifier: notifier,
		metrics:  noopMetrics{},
		validate: newInputValidator(),
		newID:    uuid.NewString,
		timeout:  defaultTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// run выполняет операцию с таймаутом и записывает метрику.
// Истечение таймаута превращается в model.ErrStoreUnavailable.
func (s *ScheduleService) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := fn(opCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, model.ErrStoreUnavailable) {
		err = fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	s.metrics.Observe(ctx, op, err == nil, time.Since(start))

	return err
}

// lookupError превращает отсутствие связанной записи в ReferenceError
func lookupError(entity, id string, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return &model.ReferenceError{Entity: entity, ID: id}
	}
	return err
}
