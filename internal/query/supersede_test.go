package query

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuperseder_CancelsPrevious(t *testing.T) {
	s := NewSuperseder()

	ctx1, t1 := s.Begin(context.Background(), "users-search")
	ctx2, t2 := s.Begin(context.Background(), "users-search")
	defer t2.Done()

	select {
	case <-ctx1.Done():
	default:
		t.Fatal("first request should be cancelled when superseded")
	}
	assert.NoError(t, ctx2.Err())
	assert.False(t, t1.Current())
	assert.True(t, t2.Current())
	assert.Greater(t, t2.Seq(), t1.Seq())

	t1.Done()
	assert.True(t, t2.Current(), "finishing a stale ticket must not evict the current one")
}

func TestSuperseder_KeysAreIndependent(t *testing.T) {
	s := NewSuperseder()

	ctxA, a := s.Begin(context.Background(), "users")
	_, b := s.Begin(context.Background(), "transactions")
	defer a.Done()
	defer b.Done()

	assert.NoError(t, ctxA.Err())
	assert.True(t, a.Current())
	assert.True(t, b.Current())
}

func TestSuperseder_DoneCancels(t *testing.T) {
	s := NewSuperseder()
	ctx, tk := s.Begin(context.Background(), "k")
	tk.Done()
	tk.Done()
	assert.Error(t, ctx.Err())
	assert.False(t, tk.Current())
}

func TestDebouncer_OnlyLastWins(t *testing.T) {
	d := NewDebouncer(40 * time.Millisecond)

	var wg sync.WaitGroup
	results := make([]bool, 3)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = d.Wait(context.Background(), "search")
		}(i)
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, []bool{false, false, true}, results)
	assert.Zero(t, d.pending())
}

func TestDebouncer_ContextCancelled(t *testing.T) {
	d := NewDebouncer(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, d.Wait(ctx, "k"))
	assert.Zero(t, d.pending())
}

func TestDebouncer_ZeroDelay(t *testing.T) {
	d := NewDebouncer(0)
	assert.True(t, d.Wait(context.Background(), "k"))
}

func TestDebouncer_ForgetsFinishedKeys(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	for _, term := range []string{"a", "ab", "abc", "abcd"} {
		assert.True(t, d.Wait(context.Background(), "users:"+term))
	}
	assert.Zero(t, d.pending())

	// a key reused after being forgotten still debounces correctly
	d = NewDebouncer(30 * time.Millisecond)
	assert.True(t, d.Wait(context.Background(), "k"))
	first := make(chan bool, 1)
	go func() { first <- d.Wait(context.Background(), "k") }()
	time.Sleep(5 * time.Millisecond)
	assert.True(t, d.Wait(context.Background(), "k"))
	assert.False(t, <-first)
	assert.Zero(t, d.pending())
}
