package handlers

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/college_scheduler/internal/model"
)

// resultText превращает конверт результата в ответ пользователю
func resultText(res model.Result, success string) string {
	if res.Success {
		return success
	}
	return "❌ " + res.Error
}

func formatTeachers(teachers []model.Teacher) string {
	if len(teachers) == 0 {
		return "👩‍🏫 Преподавателей пока нет.\n\nДобавить: /addteacher <имя>"
	}
	var sb strings.Builder
	sb.WriteString("👩‍🏫 Преподаватели:\n")
	for _, t := range teachers {
		fmt.Fprintf(&sb, "\n• %s\n  ID: %s", t.Name, t.ID)
	}
	return sb.String()
}

func formatCourses(courses []model.Course, teachers []model.Teacher) string {
	if len(courses) == 0 {
		return "📚 Курсов пока нет.\n\nДобавить: /addcourse <название> | <ID преподавателя>"
	}
	names := make(map[string]string, len(teachers))
	for _, t := range teachers {
		names[t.ID] = t.Name
	}

	var sb strings.Builder
	sb.WriteString("📚 Курсы:\n")
	for _, c := range courses {
		teacher, ok := names[c.TeacherID]
		if !ok {
			teacher = model.UnknownTeacher
		}
		fmt.Fprintf(&sb, "\n• %s (%s)\n  ID: %s", c.Name, teacher, c.ID)
	}
	return sb.String()
}

func formatClasses(classes []model.Class) string {
	if len(classes) == 0 {
		return "🏫 Аудиторий пока нет.\n\nДобавить: /addclass <название> | <номер>"
	}
	var sb strings.Builder
	sb.WriteString("🏫 Аудитории:\n")
	for _, c := range classes {
		fmt.Fprintf(&sb, "\n• %s\n  ID: %s", c.Label(), c.ID)
	}
	return sb.String()
}

// formatSchedule группирует занятия по дням недели, внутри дня в порядке добавления
func formatSchedule(rows []model.ScheduleEntry) string {
	if len(rows) == 0 {
		return "🗓 Расписание пустое."
	}

	byDay := make(map[model.Day][]model.ScheduleEntry)
	for _, row := range rows {
		byDay[row.Day] = append(byDay[row.Day], row)
	}

	var sb strings.Builder
	sb.WriteString("🗓 Расписание")
	for _, day := range model.Days {
		entries := byDay[day]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n\n%s", day)
		for _, e := range entries {
			fmt.Fprintf(&sb, "\n%s-%s %s, %s, %s\n  ID: %s",
				e.StartTime, e.EndTime, e.Course, e.Teacher, e.Class, e.ID)
		}
	}
	return sb.String()
}
