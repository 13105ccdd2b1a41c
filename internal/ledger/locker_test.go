package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockerSerializesSameKey(t *testing.T) {
	l := NewLocker()
	g := newGoal(0, 1000)
	id := g.ID

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock(id)
			defer unlock()

			// read-modify-write on a shared goal
			snapshot := *g
			_, err := Append(&snapshot, Delta(1, ""), time.Now())
			assert.NoError(t, err)
			*g = snapshot
		}()
	}
	wg.Wait()

	assert.Equal(t, 200.0, g.Current)
	assert.Equal(t, 0, l.Len(), "idle keys are released")
}

func TestLockerIndependentKeys(t *testing.T) {
	l := NewLocker()

	unlockA := l.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := l.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on b blocked behind a")
	}
}

func TestLockerBlocksSameKey(t *testing.T) {
	l := NewLocker()
	unlock := l.Lock("a")

	acquired := make(chan struct{})
	go func() {
		u := l.Lock("a")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held key")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never acquired the key")
	}
	require.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, time.Millisecond)
}
