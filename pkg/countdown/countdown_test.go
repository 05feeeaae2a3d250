package countdown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, time.March, 5, 8, 55, 0, 0, time.UTC)

type frames struct {
	mu  sync.Mutex
	got []string
}

func (f *frames) add(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, s)
}

func (f *frames) list() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.got...)
}

func (f *frames) waitFor(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return len(f.list()) >= n }, time.Second, time.Millisecond)
}

// advanceSeconds moves the clock one second at a time, each time after the
// countdown has armed its next timer
func advanceSeconds(t *testing.T, clk *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < n; i++ {
		require.NoError(t, clk.BlockUntilContext(ctx, 1))
		clk.Advance(time.Second)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "05:00", Format(5*time.Minute))
	assert.Equal(t, "04:59", Format(4*time.Minute+59*time.Second+900*time.Millisecond))
	assert.Equal(t, "00:01", Format(time.Second))
	assert.Equal(t, "00:00", Format(0))
	assert.Equal(t, "00:00", Format(-3*time.Second))
	assert.Equal(t, "30:00", Format(90*time.Minute), "minutes wrap at the hour")
}

func TestStart_RendersImmediatelyThenEverySecond(t *testing.T) {
	clk := clockwork.NewFakeClockAt(start)
	f := &frames{}

	c := Start(clk, start.Add(5*time.Minute), f.add)
	assert.Equal(t, []string{"05:00"}, f.list())

	advanceSeconds(t, clk, 3)
	f.waitFor(t, 4)

	assert.Equal(t, []string{"05:00", "04:59", "04:58", "04:57"}, f.list())
	assert.Equal(t, Running, c.State())
}

func TestStart_ExpiresAtTarget(t *testing.T) {
	clk := clockwork.NewFakeClockAt(start)
	f := &frames{}

	c := Start(clk, start.Add(2*time.Second), f.add)
	advanceSeconds(t, clk, 2)
	f.waitFor(t, 3)
	require.Eventually(t, func() bool { return c.State() == Expired }, time.Second, time.Millisecond)

	clk.Advance(10 * time.Second)
	assert.Never(t, func() bool { return len(f.list()) > 3 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, []string{"00:02", "00:01", "00:00"}, f.list())
}

func TestStart_TargetInPast(t *testing.T) {
	clk := clockwork.NewFakeClockAt(start)
	f := &frames{}

	c := Start(clk, start.Add(-time.Minute), f.add)

	assert.Equal(t, []string{"00:00"}, f.list())
	assert.Equal(t, Expired, c.State())
}

func TestDismiss_StopsUpdates(t *testing.T) {
	clk := clockwork.NewFakeClockAt(start)
	f := &frames{}

	c := Start(clk, start.Add(time.Minute), f.add)
	advanceSeconds(t, clk, 1)
	f.waitFor(t, 2)

	// Wait for the next timer so Dismiss has one to stop
	advanceCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clk.BlockUntilContext(advanceCtx, 1))

	c.Dismiss()
	clk.Advance(time.Minute)

	assert.Never(t, func() bool { return len(f.list()) > 2 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, []string{"01:00", "00:59"}, f.list())
	assert.Equal(t, Dismissed, c.State())
}

func TestDismiss_FromCallback(t *testing.T) {
	clk := clockwork.NewFakeClockAt(start)
	var (
		mu    sync.Mutex
		calls int
		c     *Countdown
	)
	ready := make(chan struct{})

	c = Start(clk, start.Add(time.Minute), func(string) {
		mu.Lock()
		calls++
		second := calls == 2
		mu.Unlock()
		if second {
			<-ready
			c.Dismiss()
		}
	})
	close(ready)

	advanceSeconds(t, clk, 1)
	require.Eventually(t, func() bool { return c.State() == Dismissed }, time.Second, time.Millisecond)

	clk.Advance(5 * time.Second)
	assert.Never(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls > 2
	}, 50*time.Millisecond, 5*time.Millisecond)
}

func TestDismiss_AfterExpiryKeepsExpired(t *testing.T) {
	clk := clockwork.NewFakeClockAt(start)

	c := Start(clk, start, func(string) {})
	c.Dismiss()

	assert.Equal(t, Expired, c.State())
}
