package state

import (
	"sort"
	"sync"
)

// Subscriptions чаты, которые получают сообщение при каждом изменении расписания
type Subscriptions struct {
	mu    sync.RWMutex
	chats map[int64]struct{}
}

// NewSubscriptions создаёт пустой набор подписок
func NewSubscriptions() *Subscriptions {
	return &Subscriptions{
		chats: make(map[int64]struct{}),
	}
}

// Add подписывает чат; false если подписка уже была
func (s *Subscriptions) Add(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.chats[chatID]; exists {
		return false
	}
	s.chats[chatID] = struct{}{}
	return true
}

// Remove отписывает чат; false если подписки не было
func (s *Subscriptions) Remove(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.chats[chatID]; !exists {
		return false
	}
	delete(s.chats, chatID)
	return true
}

func (s *Subscriptions) Has(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.chats[chatID]
	return exists
}

// List возвращает копию списка чатов по возрастанию ID
func (s *Subscriptions) List() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chats := make([]int64, 0, len(s.chats))
	for id := range s.chats {
		chats = append(chats, id)
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i] < chats[j] })
	return chats
}
