package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Freeeeeet/college_scheduler/internal/notify"
)

func TestChangeText(t *testing.T) {
	assert.Equal(t, "🔄 Обновлено: расписание\n\nПосмотреть: /schedule", changeText(notify.ScopeSchedule))
	assert.Equal(t, "🔄 Обновлено: преподаватели, курсы, расписание\n\nПосмотреть: /schedule",
		changeText(notify.ScopeTeachers|notify.ScopeCourses|notify.ScopeSchedule))
}
