package model

import "fmt"

// Class аудитория (или учебная группа), в которой проходят занятия
type Class struct {
	ID         string `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"not null"`
	RoomNumber string `json:"roomNumber" gorm:"not null"`
}

func (c Class) EntityID() string { return c.ID }

// Label возвращает название в формате "Room A (Room 101)"
func (c Class) Label() string {
	return fmt.Sprintf("%s (Room %s)", c.Name, c.RoomNumber)
}
