package model

// Course курс, закреплённый за преподавателем
type Course struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"not null"`
	TeacherID string `json:"teacherId" gorm:"not null;index"`
}

func (c Course) EntityID() string { return c.ID }
