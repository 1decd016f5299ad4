package model

// Entity объединяет все типы сущностей хранилища
type Entity interface {
	Teacher | Course | Class | ScheduleItem
	EntityID() string
}
