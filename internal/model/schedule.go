package model

// Заглушки для ссылок, которые не удалось разрешить
const (
	UnknownTeacher = "Unknown Teacher"
	UnknownCourse  = "Unknown Course"
	UnknownClass   = "Unknown Class"
)

// ScheduleEntry занятие вместе с названиями курса, преподавателя и аудитории
type ScheduleEntry struct {
	ID        string `json:"id"`
	Day       Day    `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	CourseID  string `json:"courseId"`
	ClassID   string `json:"classId"`
	Course    string `json:"course"`
	Teacher   string `json:"teacher"`
	Class     string `json:"class"`
}
