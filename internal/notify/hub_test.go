package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receive(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestHubDeliversToAllSubscribers(t *testing.T) {
	hub := NewHub("node-1", zap.NewNop())
	first, cancelFirst := hub.Subscribe()
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe()
	defer cancelSecond()

	hub.Notify(context.Background(), ScopeTeachers|ScopeCourses)

	for _, ch := range []<-chan Event{first, second} {
		ev := receive(t, ch)
		assert.Equal(t, ScopeTeachers|ScopeCourses, ev.Scope)
		assert.Equal(t, "node-1", ev.Origin)
	}
}

func TestHubCoalescesSlowSubscriber(t *testing.T) {
	hub := NewHub("node-1", zap.NewNop())
	events, cancel := hub.Subscribe()
	defer cancel()

	ctx := context.Background()
	hub.Notify(ctx, ScopeClasses)
	hub.Notify(ctx, ScopeSchedule)
	hub.Notify(ctx, ScopeTeachers)

	ev := receive(t, events)
	assert.Equal(t, ScopeClasses|ScopeSchedule|ScopeTeachers, ev.Scope)

	select {
	case extra := <-events:
		t.Fatalf("unexpected extra event %v", extra)
	default:
	}
}

func TestHubIgnoresEmptyScope(t *testing.T) {
	hub := NewHub("node-1", zap.NewNop())
	events, cancel := hub.Subscribe()
	defer cancel()

	hub.Notify(context.Background(), ScopeNone)

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := NewHub("node-1", zap.NewNop())
	events, cancel := hub.Subscribe()
	require.Equal(t, 1, hub.Subscribers())

	cancel()
	cancel()

	_, ok := <-events
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Subscribers())

	// публикация после отписки не паникует
	hub.Notify(context.Background(), ScopeAll)
}

func TestScopeNamesAndJSON(t *testing.T) {
	scope := ScopeTeachers | ScopeSchedule
	assert.Equal(t, []string{"teachers", "schedule"}, scope.Names())
	assert.Equal(t, "teachers,schedule", scope.String())
	assert.True(t, ScopeAll.Has(ScopeCourses))
	assert.False(t, scope.Has(ScopeCourses))
	assert.False(t, scope.Has(ScopeNone))

	data, err := json.Marshal(Event{Scope: scope, Origin: "a"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scope":["teachers","schedule"]`)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, scope, decoded.Scope)

	_, err = ParseScope("rooms")
	assert.Error(t, err)
}

func TestRedisBridgeRelaySkipsOwnEvents(t *testing.T) {
	hub := NewHub("node-1", zap.NewNop())
	bridge := &RedisBridge{hub: hub, logger: zap.NewNop()}
	events, cancel := hub.Subscribe()
	defer cancel()

	bridge.relay(`{"scope":["classes"],"origin":"node-1"}`)
	bridge.relay(`not json`)
	select {
	case ev := <-events:
		t.Fatalf("unexpected event %v", ev)
	default:
	}

	bridge.relay(`{"scope":["classes"],"origin":"node-2"}`)
	ev := receive(t, events)
	assert.Equal(t, ScopeClasses, ev.Scope)
	assert.Equal(t, "node-2", ev.Origin)
}
