package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/akolanti/RAGChat/internal/data/redisStore"
)

func newRedisBackedStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisSessionStore(redisStore.NewTestStore(client)), mr
}

func TestConversationState_AppendTurn(t *testing.T) {
	state := ConversationState{UserId: "u1"}

	state.AppendTurn("q1", "a1", 1)
	state.AppendTurn("q2", "a2", 1)
	state.AppendTurn("q3", "a3", 1)

	// the transcript keeps everything
	if len(state.Messages.User) != 3 || len(state.Messages.AI) != 3 {
		t.Errorf("transcript lengths = %d/%d, want 3/3", len(state.Messages.User), len(state.Messages.AI))
	}
	if state.Messages.User[0] != "q1" || state.Messages.AI[2] != "a3" {
		t.Errorf("transcript order broken: %+v", state.Messages)
	}

	// the window keeps only the most recent turn
	if len(state.History) != 1 {
		t.Fatalf("window length = %d, want 1", len(state.History))
	}
	if state.History[0].Question != "q3" {
		t.Errorf("window kept %q, want q3", state.History[0].Question)
	}

	window := state.Window()
	if len(window) != 1 || window[0] != "User: q3\nAssistant: a3" {
		t.Errorf("rendered window = %v", window)
	}
}

func TestRedisSessionStore_Lifecycle(t *testing.T) {
	store, _ := newRedisBackedStore(t)
	ctx := context.Background()

	if _, found, err := store.Load(ctx, "ana"); err != nil || found {
		t.Fatalf("fresh store: found=%v err=%v", found, err)
	}

	state := ConversationState{UserId: "ana"}
	state.AppendTurn("how many vacation days?", "you get 30", 1)
	if err := store.Save(ctx, state, time.Minute); err != nil {
		t.Fatal(err)
	}

	loaded, found, err := store.Load(ctx, "ana")
	if err != nil || !found {
		t.Fatalf("load after save: found=%v err=%v", found, err)
	}
	if len(loaded.History) != 1 || loaded.History[0].Answer != "you get 30" {
		t.Errorf("loaded state = %+v", loaded)
	}
	if loaded.Messages.User[0] != "how many vacation days?" {
		t.Errorf("transcript lost: %+v", loaded.Messages)
	}

	if err := store.Delete(ctx, "ana"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := store.Load(ctx, "ana"); found {
		t.Error("state survived delete")
	}
}

func TestRedisSessionStore_TTLExpiry(t *testing.T) {
	store, mr := newRedisBackedStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, ConversationState{UserId: "bo"}, 10*time.Minute); err != nil {
		t.Fatal(err)
	}

	mr.FastForward(11 * time.Minute)

	if _, found, err := store.Load(ctx, "bo"); err != nil || found {
		t.Errorf("state should expire with its TTL: found=%v err=%v", found, err)
	}
}

func TestInMemorySessionStore_Expiry(t *testing.T) {
	store := NewInMemorySessionStore()
	ctx := context.Background()

	if err := store.Save(ctx, ConversationState{UserId: "cy"}, -time.Second); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := store.Load(ctx, "cy"); found {
		t.Error("already-expired state must not load")
	}

	if err := store.Save(ctx, ConversationState{UserId: "cy"}, time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := store.Load(ctx, "cy"); !found {
		t.Error("live state must load")
	}
}

func TestManager_AcquireCreatesOnFirstUse(t *testing.T) {
	manager := NewManager(NewInMemorySessionStore(), time.Minute)
	ctx := context.Background()

	state, release, err := manager.Acquire(ctx, "dana")
	if err != nil {
		t.Fatal(err)
	}
	if state.UserId != "dana" {
		t.Errorf("UserId = %q", state.UserId)
	}
	state.AppendTurn("q", "a", manager.WindowSize())
	if err := manager.Commit(ctx, state); err != nil {
		t.Fatal(err)
	}
	release()

	state2, release2, err := manager.Acquire(ctx, "dana")
	if err != nil {
		t.Fatal(err)
	}
	defer release2()
	if len(state2.History) != 1 {
		t.Errorf("second acquire lost the committed turn: %+v", state2)
	}
}

func TestManager_DestroyDropsState(t *testing.T) {
	manager := NewManager(NewInMemorySessionStore(), time.Minute)
	ctx := context.Background()

	state, release, err := manager.Acquire(ctx, "eli")
	if err != nil {
		t.Fatal(err)
	}
	state.AppendTurn("q", "a", manager.WindowSize())
	if err := manager.Commit(ctx, state); err != nil {
		t.Fatal(err)
	}
	release()

	if err := manager.Destroy(ctx, "eli"); err != nil {
		t.Fatal(err)
	}

	fresh, release2, err := manager.Acquire(ctx, "eli")
	if err != nil {
		t.Fatal(err)
	}
	defer release2()
	if len(fresh.History) != 0 || len(fresh.Messages.User) != 0 {
		t.Errorf("destroy left state behind: %+v", fresh)
	}
}

func activeSessionsGauge(t *testing.T) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, family := range families {
		if family.GetName() == "active_sessions" {
			return family.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatal("active_sessions gauge not registered")
	return 0
}

func TestManager_DestroyWithoutSessionLeavesGaugeAlone(t *testing.T) {
	manager := NewManager(NewInMemorySessionStore(), time.Minute)
	ctx := context.Background()

	before := activeSessionsGauge(t)
	if err := manager.Destroy(ctx, "nobody"); err != nil {
		t.Fatal(err)
	}
	if got := activeSessionsGauge(t); got != before {
		t.Errorf("gauge moved from %v to %v on a no-op logout", before, got)
	}
}

func TestManager_DestroyBalancesGauge(t *testing.T) {
	manager := NewManager(NewInMemorySessionStore(), time.Minute)
	ctx := context.Background()

	before := activeSessionsGauge(t)

	_, release, err := manager.Acquire(ctx, "fay")
	if err != nil {
		t.Fatal(err)
	}
	release()
	if got := activeSessionsGauge(t); got != before+1 {
		t.Errorf("gauge = %v after acquire, want %v", got, before+1)
	}

	if err := manager.Destroy(ctx, "fay"); err != nil {
		t.Fatal(err)
	}
	if got := activeSessionsGauge(t); got != before {
		t.Errorf("gauge = %v after logout, want %v", got, before)
	}

	// a second logout for the same user must not push the gauge negative
	if err := manager.Destroy(ctx, "fay"); err != nil {
		t.Fatal(err)
	}
	if got := activeSessionsGauge(t); got != before {
		t.Errorf("gauge = %v after repeated logout, want %v", got, before)
	}
}

func TestManager_SerializesSameSession(t *testing.T) {
	manager := NewManager(NewInMemorySessionStore(), time.Minute)
	ctx := context.Background()

	var inCritical bool
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, release, err := manager.Acquire(ctx, "same-user")
			if err != nil {
				t.Error(err)
				return
			}
			defer release()

			if inCritical {
				t.Error("two goroutines inside the same session at once")
			}
			inCritical = true
			time.Sleep(time.Millisecond)
			inCritical = false

			state.AppendTurn("q", "a", manager.WindowSize())
			if err := manager.Commit(ctx, state); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	state, release, err := manager.Acquire(ctx, "same-user")
	if err != nil {
		t.Fatal(err)
	}
	defer release()
	if len(state.Messages.User) != 8 {
		t.Errorf("transcript has %d turns, want 8", len(state.Messages.User))
	}
}
