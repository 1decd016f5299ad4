package model

// Day день недели учебного расписания (воскресенье не используется)
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
)

// Days все допустимые дни в порядке отображения
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// IsValid проверяет что день входит в учебную неделю
func (d Day) IsValid() bool {
	for _, day := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// ScheduleItem занятие курса в аудитории в определённый день и время.
// StartTime/EndTime хранятся как "HH:MM"; порядок и пересечения не проверяются.
type ScheduleItem struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Day       Day    `json:"day" gorm:"not null"`
	StartTime string `json:"startTime" gorm:"not null"`
	EndTime   string `json:"endTime" gorm:"not null"`
	CourseID  string `json:"courseId" gorm:"not null;index"`
	ClassID   string `json:"classId" gorm:"not null;index"`
}

func (s ScheduleItem) EntityID() string { return s.ID }
