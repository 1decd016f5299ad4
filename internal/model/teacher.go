package model

// Teacher преподаватель, ведущий курсы
type Teacher struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

func (t Teacher) EntityID() string { return t.ID }
