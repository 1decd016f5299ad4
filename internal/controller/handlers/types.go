package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/controller/state"
	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/service"
)

// ScheduleService операции расписания, доступные из бота
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
	GetSchedule(ctx context.Context) []model.ScheduleEntry
}

// Reply ответ на команду: текст и, опционально, картинка
type Reply struct {
	Text  string
	Photo []byte
}

// CommandFunc обработчик команды; args текст после имени команды
type CommandFunc func(ctx context.Context, chatID int64, args string) Reply

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	svc           ScheduleService
	subscriptions *state.Subscriptions
	logger        *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(svc ScheduleService, subscriptions *state.Subscriptions, logger *zap.Logger) *Handlers {
	return &Handlers{
		svc:           svc,
		subscriptions: subscriptions,
		logger:        logger,
	}
}
