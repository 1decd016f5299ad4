package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/controller/state"
	"github.com/Freeeeeet/college_scheduler/internal/repository/memory"
	"github.com/Freeeeeet/college_scheduler/internal/service"
)

const chatID = int64(100)

func setup(t *testing.T) (*Handlers, *service.ScheduleService) {
	t.Helper()
	svc := service.NewScheduleService(memory.NewStore(), nil, zap.NewNop())
	return NewHandlers(svc, state.NewSubscriptions(), zap.NewNop()), svc
}

func TestCommandArgs(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", commandArgs("/addteacher Ada Lovelace"))
	assert.Equal(t, "Lab | 7", commandArgs("/addclass@college_bot   Lab | 7 "))
	assert.Equal(t, "", commandArgs("/schedule"))
}

func TestSplitArgs(t *testing.T) {
	assert.Equal(t, []string{"Lab", "7"}, splitArgs(" Lab |7 ", 2))
	assert.Equal(t, []string{"Lab", ""}, splitArgs("Lab", 2))
	assert.Equal(t, []string{"a", "b"}, splitArgs("a|b|c", 2))
}

func TestAddCommandsAndSchedule(t *testing.T) {
	ctx := context.Background()
	h, svc := setup(t)

	reply := h.HandleAddTeacher(ctx, chatID, "Ada")
	assert.True(t, strings.HasPrefix(reply.Text, "✅"), reply.Text)
	teacherID := svc.GetTeachers(ctx)[0].ID

	reply = h.HandleAddCourse(ctx, chatID, "CS101 | "+teacherID)
	assert.True(t, strings.HasPrefix(reply.Text, "✅"), reply.Text)
	courseID := svc.GetCourses(ctx)[0].ID

	reply = h.HandleAddClass(ctx, chatID, "Room A | 101")
	assert.Contains(t, reply.Text, "Room A (Room 101)")
	classID := svc.GetClasses(ctx)[0].ID

	reply = h.HandleAddSlot(ctx, chatID, "Monday | 09:00 | 10:30 | "+courseID+" | "+classID)
	assert.True(t, strings.HasPrefix(reply.Text, "✅"), reply.Text)

	reply = h.HandleSchedule(ctx, chatID, "")
	assert.Contains(t, reply.Text, "Monday")
	assert.Contains(t, reply.Text, "09:00-10:30 CS101, Ada, Room A (Room 101)")

	reply = h.HandleCourses(ctx, chatID, "")
	assert.Contains(t, reply.Text, "CS101 (Ada)")

	reply = h.HandleExport(ctx, chatID, "")
	assert.NotEmpty(t, reply.Photo)
}

func TestAddCommandsReportErrors(t *testing.T) {
	ctx := context.Background()
	h, _ := setup(t)

	assert.Equal(t, "❌ Name is required", h.HandleAddTeacher(ctx, chatID, "").Text)
	assert.Equal(t, "❌ Name and room number are required", h.HandleAddClass(ctx, chatID, "Lab").Text)
	assert.Equal(t, "❌ All fields are required", h.HandleAddSlot(ctx, chatID, "Monday | 09:00").Text)
	assert.Equal(t, `❌ teacher "ghost" does not exist`, h.HandleAddCourse(ctx, chatID, "CS101 | ghost").Text)
}

func TestDeleteCommand(t *testing.T) {
	ctx := context.Background()
	h, svc := setup(t)

	h.HandleAddTeacher(ctx, chatID, "Ada")
	teacherID := svc.GetTeachers(ctx)[0].ID

	assert.Equal(t, "🗑 Удалено", h.HandleDelete(ctx, chatID, "teacher "+teacherID).Text)
	assert.Empty(t, svc.GetTeachers(ctx))

	assert.Equal(t, `❌ teacher "`+teacherID+`" not found`, h.HandleDelete(ctx, chatID, "teacher "+teacherID).Text)
	assert.Contains(t, h.HandleDelete(ctx, chatID, "room 1").Text, "Неизвестный тип")
	assert.Contains(t, h.HandleDelete(ctx, chatID, "teacher").Text, "Использование")
}

func TestEmptyListsAndExport(t *testing.T) {
	ctx := context.Background()
	h, _ := setup(t)

	assert.Contains(t, h.HandleTeachers(ctx, chatID, "").Text, "Преподавателей пока нет")
	assert.Contains(t, h.HandleClasses(ctx, chatID, "").Text, "Аудиторий пока нет")
	assert.Equal(t, "🗓 Расписание пустое.", h.HandleSchedule(ctx, chatID, "").Text)

	reply := h.HandleExport(ctx, chatID, "")
	assert.Empty(t, reply.Photo)
}

func TestSubscribeCommands(t *testing.T) {
	ctx := context.Background()
	h, _ := setup(t)

	require.Contains(t, h.HandleSubscribe(ctx, chatID, "").Text, "Буду сообщать")
	assert.Contains(t, h.HandleSubscribe(ctx, chatID, "").Text, "уже подписаны")
	assert.Equal(t, []int64{chatID}, h.subscriptions.List())

	assert.Equal(t, "🔕 Подписка отменена.", h.HandleUnsubscribe(ctx, chatID, "").Text)
	assert.Equal(t, "🔕 Подписки не было.", h.HandleUnsubscribe(ctx, chatID, "").Text)
}
