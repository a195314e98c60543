package projection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func add(n int) func(int) int { return func(v int) int { return v + n } }

func TestPredictionLayersOverStoredValue(t *testing.T) {
	c := New[string, int]()
	c.Put("a", 10)

	p1 := c.Predict("a", add(1))
	p2 := c.Predict("a", func(v int) int { return v * 2 })

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 22, got)

	base, _ := c.Authoritative("a")
	assert.Equal(t, 10, base)
	assert.Equal(t, 2, c.PendingCount("a"))

	p1.Discard()
	got, _ = c.Get("a")
	assert.Equal(t, 20, got)

	p2.Confirm(7)
	got, _ = c.Get("a")
	assert.Equal(t, 7, got)
	assert.Zero(t, c.PendingCount("a"))
}

func TestConfirmKeepsLaterPredictions(t *testing.T) {
	c := New[string, int]()
	c.Put("a", 1)

	first := c.Predict("a", add(1))
	c.Predict("a", add(100))

	first.Confirm(5)
	got, _ := c.Get("a")
	assert.Equal(t, 105, got)
	assert.Equal(t, 1, c.PendingCount("a"))
}

func TestSettleTwiceIsNoop(t *testing.T) {
	c := New[string, int]()
	c.Put("a", 1)

	p := c.Predict("a", add(1))
	p.Confirm(3)
	p.Discard()
	p.Confirm(9)

	got, _ := c.Get("a")
	assert.Equal(t, 3, got)
}

func TestGetMissingKey(t *testing.T) {
	c := New[string, int]()
	c.Predict("ghost", add(1))

	_, ok := c.Get("ghost")
	assert.False(t, ok)

	c.Put("ghost", 0)
	got, ok := c.Get("ghost")
	require.True(t, ok)
	assert.Equal(t, 1, got)

	c.Forget("ghost")
	_, ok = c.Get("ghost")
	assert.False(t, ok)
	assert.Zero(t, c.PendingCount("ghost"))
}

func TestConcurrentPredictions(t *testing.T) {
	c := New[string, int]()
	c.Put("a", 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := c.Predict("a", add(1))
			_, _ = c.Get("a")
			p.Discard()
		}()
	}
	wg.Wait()

	got, _ := c.Get("a")
	assert.Equal(t, 0, got)
	assert.Zero(t, c.PendingCount("a"))
}
