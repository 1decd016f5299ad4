// Package notify сигнализирует о том, что данные коллекций изменились.
// Событие не несёт самих данных: получатель сам решает, что перечитать.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event сигнал об изменении коллекций
type Event struct {
	Scope  Scope     `json:"scope"`
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

// Notifier принимает сигнал об изменении после успешной мутации
type Notifier interface {
	Notify(ctx context.Context, scope Scope)
}

// Hub рассылает события подписчикам внутри процесса.
// Отправка не блокируется: если подписчик не успел забрать прошлое событие,
// новое сливается с ним (объединение Scope).
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	origin string
	logger *zap.Logger
}

// NewHub создаёт хаб; origin идентифицирует экземпляр процесса
func NewHub(origin string, logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[int]chan Event),
		origin: origin,
		logger: logger,
	}
}

// Origin идентификатор экземпляра процесса
func (h *Hub) Origin() string {
	return h.origin
}

// Notify публикует локальное событие
func (h *Hub) Notify(_ context.Context, scope Scope) {
	if scope == ScopeNone {
		return
	}
	h.Publish(Event{Scope: scope, Origin: h.origin, At: time.Now().UTC()})
}

// Publish рассылает готовое событие (в том числе пришедшее от другого экземпляра)
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			// подписчик отстаёт: забираем прошлое событие и сливаем
			merged := ev
			select {
			case old := <-ch:
				merged.Scope |= old.Scope
			default:
			}
			// хаб единственный отправитель, место в буфере гарантировано
			ch <- merged
		}
	}

	h.logger.Debug("Change notification published",
		zap.String("scope", ev.Scope.String()),
		zap.String("origin", ev.Origin),
		zap.Int("subscribers", len(h.subs)))
}

// Subscribe регистрирует подписчика. cancel закрывает канал и должен быть вызван
func (h *Hub) Subscribe() (events <-chan Event, cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, 1)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// Subscribers количество активных подписчиков
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
