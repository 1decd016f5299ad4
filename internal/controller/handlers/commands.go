package handlers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/export"
	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/service"
)

const helpText = "📚 Справка по командам:\n\n" +
	"Просмотр:\n" +
	"/schedule - Расписание на неделю\n" +
	"/export - Расписание картинкой по аудиториям\n" +
	"/teachers - Преподаватели\n" +
	"/courses - Курсы\n" +
	"/classes - Аудитории\n\n" +
	"Изменение:\n" +
	"/addteacher <имя>\n" +
	"/addclass <название> | <номер>\n" +
	"/addcourse <название> | <ID преподавателя>\n" +
	"/addslot <день> | <начало> | <конец> | <ID курса> | <ID аудитории>\n" +
	"/delete <teacher|course|class|slot> <ID>\n\n" +
	"Уведомления:\n" +
	"/subscribe - Сообщать об изменениях\n" +
	"/unsubscribe - Не сообщать об изменениях"

// splitArgs делит аргументы по "|"; отсутствующие части остаются пустыми
func splitArgs(args string, n int) []string {
	parts := strings.Split(args, "|")
	out := make([]string, n)
	for i := 0; i < n && i < len(parts); i++ {
		out[i] = strings.TrimSpace(parts[i])
	}
	return out
}

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(_ context.Context, _ int64, _ string) Reply {
	return Reply{Text: "👋 Привет!\n\n" +
		"Это бот недельного расписания колледжа: преподаватели, курсы, аудитории и занятия.\n\n" +
		helpText}
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(_ context.Context, _ int64, _ string) Reply {
	return Reply{Text: helpText}
}

func (h *Handlers) HandleTeachers(ctx context.Context, _ int64, _ string) Reply {
	return Reply{Text: formatTeachers(h.svc.GetTeachers(ctx))}
}

func (h *Handlers) HandleCourses(ctx context.Context, _ int64, _ string) Reply {
	return Reply{Text: formatCourses(h.svc.GetCourses(ctx), h.svc.GetTeachers(ctx))}
}

func (h *Handlers) HandleClasses(ctx context.Context, _ int64, _ string) Reply {
	return Reply{Text: formatClasses(h.svc.GetClasses(ctx))}
}

func (h *Handlers) HandleSchedule(ctx context.Context, _ int64, _ string) Reply {
	return Reply{Text: formatSchedule(h.svc.GetSchedule(ctx))}
}

// HandleAddTeacher: /addteacher <имя>
func (h *Handlers) HandleAddTeacher(ctx context.Context, chatID int64, args string) Reply {
	teacher, err := h.svc.AddTeacher(ctx, service.Form{service.FieldName: args})
	h.logResult(chatID, "addteacher", err)
	return Reply{Text: resultText(model.ResultOf(err),
		fmt.Sprintf("✅ Преподаватель %s добавлен\nID: %s", teacher.Name, teacher.ID))}
}

// HandleAddClass: /addclass <название> | <номер>
func (h *Handlers) HandleAddClass(ctx context.Context, chatID int64, args string) Reply {
	parts := splitArgs(args, 2)
	class, err := h.svc.AddClass(ctx, service.Form{
		service.FieldName:       parts[0],
		service.FieldRoomNumber: parts[1],
	})
	h.logResult(chatID, "addclass", err)
	return Reply{Text: resultText(model.ResultOf(err),
		fmt.Sprintf("✅ Аудитория %s добавлена\nID: %s", class.Label(), class.ID))}
}

// HandleAddCourse: /addcourse <название> | <ID преподавателя>
func (h *Handlers) HandleAddCourse(ctx context.Context, chatID int64, args string) Reply {
	parts := splitArgs(args, 2)
	course, err := h.svc.AddCourse(ctx, service.Form{
		service.FieldName:      parts[0],
		service.FieldTeacherID: parts[1],
	})
	h.logResult(chatID, "addcourse", err)
	return Reply{Text: resultText(model.ResultOf(err),
		fmt.Sprintf("✅ Курс %s добавлен\nID: %s", course.Name, course.ID))}
}

// HandleAddSlot: /addslot <день> | <начало> | <конец> | <ID курса> | <ID аудитории>
func (h *Handlers) HandleAddSlot(ctx context.Context, chatID int64, args string) Reply {
	parts := splitArgs(args, 5)
	item, err := h.svc.AddScheduleItem(ctx, service.Form{
		service.FieldDay:       parts[0],
		service.FieldStartTime: parts[1],
		service.FieldEndTime:   parts[2],
		service.FieldCourseID:  parts[3],
		service.FieldClassID:   parts[4],
	})
	h.logResult(chatID, "addslot", err)
	return Reply{Text: resultText(model.ResultOf(err),
		fmt.Sprintf("✅ Занятие добавлено: %s %s-%s\nID: %s", item.Day, item.StartTime, item.EndTime, item.ID))}
}

// HandleDelete: /delete <teacher|course|class|slot> <ID>
func (h *Handlers) HandleDelete(ctx context.Context, chatID int64, args string) Reply {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return Reply{Text: "❌ Использование: /delete <teacher|course|class|slot> <ID>"}
	}
	kind, id := strings.ToLower(fields[0]), fields[1]

	var del func(context.Context, string) error
	switch kind {
	case "teacher":
		del = h.svc.DeleteTeacher
	case "course":
		del = h.svc.DeleteCourse
	case "class":
		del = h.svc.DeleteClass
	case "slot":
		del = h.svc.DeleteScheduleItem
	default:
		return Reply{Text: fmt.Sprintf("❌ Неизвестный тип %q. Доступно: teacher, course, class, slot", kind)}
	}

	err := del(ctx, id)
	h.logResult(chatID, "delete_"+kind, err)
	return Reply{Text: resultText(model.ResultOf(err), "🗑 Удалено")}
}

// HandleExport отправляет расписание картинкой: по таблице на аудиторию
func (h *Handlers) HandleExport(ctx context.Context, chatID int64, _ string) Reply {
	tables := export.BuildTimetables(h.svc.GetSchedule(ctx))
	if len(tables) == 0 {
		return Reply{Text: "🗓 Расписание пустое."}
	}

	data, err := export.RenderPNG(tables)
	if err != nil {
		h.logger.Error("Failed to render timetable", zap.Int64("chat_id", chatID), zap.Error(err))
		return Reply{Text: "❌ Не удалось построить картинку расписания"}
	}
	return Reply{Text: fmt.Sprintf("🗓 Расписание: %d ауд.", len(tables)), Photo: data}
}

func (h *Handlers) HandleSubscribe(_ context.Context, chatID int64, _ string) Reply {
	if !h.subscriptions.Add(chatID) {
		return Reply{Text: "🔔 Вы уже подписаны на изменения."}
	}
	h.logger.Info("Chat subscribed to changes", zap.Int64("chat_id", chatID))
	return Reply{Text: "🔔 Буду сообщать об изменениях расписания.\n\nОтписаться: /unsubscribe"}
}

func (h *Handlers) HandleUnsubscribe(_ context.Context, chatID int64, _ string) Reply {
	if !h.subscriptions.Remove(chatID) {
		return Reply{Text: "🔕 Подписки не было."}
	}
	h.logger.Info("Chat unsubscribed from changes", zap.Int64("chat_id", chatID))
	return Reply{Text: "🔕 Подписка отменена."}
}

func (h *Handlers) logResult(chatID int64, command string, err error) {
	if err != nil {
		h.logger.Warn("Bot command failed",
			zap.Int64("chat_id", chatID),
			zap.String("command", command),
			zap.Error(err))
		return
	}
	h.logger.Info("Bot command succeeded",
		zap.Int64("chat_id", chatID),
		zap.String("command", command))
}
