package session_test

import (
	"sync"
	"testing"

	"github.com/mjsalimin/postyar/internal/session"
)

func TestStoreDefaultsToIdle(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	if got := store.Get(1); got.Kind != session.Idle {
		t.Errorf("Get on empty store = %+v, want Idle", got)
	}
}

func TestConsumeResetsState(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	store.Set(1, session.State{Kind: session.AwaitingTopic, Category: "marketing"})

	got := store.Consume(1)
	if got.Kind != session.AwaitingTopic || got.Category != "marketing" {
		t.Errorf("Consume = %+v", got)
	}
	if again := store.Consume(1); again.Kind != session.Idle {
		t.Errorf("second Consume = %+v, want Idle", again)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	store.Set(2, session.State{Kind: session.AwaitingTopic})
	store.Clear(2)
	if got := store.Get(2); got.Kind != session.Idle {
		t.Errorf("state after Clear = %+v, want Idle", got)
	}
}

func TestStoreIsSafeForConcurrentUse(t *testing.T) {
	t.Parallel()

	store := session.NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Set(id, session.State{Kind: session.AwaitingTopic})
			store.Get(id)
			store.Consume(id)
		}(int64(i))
	}
	wg.Wait()
}
