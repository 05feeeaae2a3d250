package components

import (
	"sync/atomic"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldButtonConfirmsAfterHold(t *testing.T) {
	test.NewTempApp(t)

	var confirmed atomic.Int32
	b := NewHoldButton("Mark done", 150*time.Millisecond, func() {
		confirmed.Add(1)
	})

	b.MouseDown(nil)
	assert.Eventually(t, func() bool { return confirmed.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.InDelta(t, 1.0, b.Progress(), 0.001)

	// Releasing after confirmation does not confirm again
	b.MouseUp(nil)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), confirmed.Load())
}

func TestHoldButtonEarlyReleaseResets(t *testing.T) {
	test.NewTempApp(t)

	var confirmed atomic.Int32
	b := NewHoldButton("Mark done", time.Second, func() {
		confirmed.Add(1)
	})

	b.MouseDown(nil)
	time.Sleep(120 * time.Millisecond)
	b.MouseUp(nil)

	assert.Equal(t, 0.0, b.Progress())
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), confirmed.Load())
}

func TestHoldButtonMouseOutCancels(t *testing.T) {
	test.NewTempApp(t)

	var confirmed atomic.Int32
	b := NewHoldButton("Mark done", 200*time.Millisecond, func() {
		confirmed.Add(1)
	})

	b.MouseDown(nil)
	b.MouseOut()
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(0), confirmed.Load())
}

func TestHoldButtonMinimumSize(t *testing.T) {
	test.NewTempApp(t)

	b := NewHoldButton("OK", time.Second, nil)
	b.MinimumSize = fyne.NewSize(240, 60)

	size := b.MinSize()
	assert.GreaterOrEqual(t, size.Width, float32(240))
	assert.GreaterOrEqual(t, size.Height, float32(60))
}

func TestListManagerRemoveSelected(t *testing.T) {
	test.NewTempApp(t)

	var removed []int
	changes := 0
	lm, box := NewListManager([]string{"a", "b", "c"}, ListManagerConfig{
		OnRemove: func(i int) bool {
			removed = append(removed, i)
			return true
		},
		OnChange: func() { changes++ },
	})
	require.NotNil(t, box)

	// Nothing selected
	lm.RemoveSelected()
	assert.Empty(t, removed)

	lm.list.Select(1)
	assert.Equal(t, 1, lm.Selected())

	lm.RemoveSelected()
	assert.Equal(t, []int{1}, removed)
	assert.Equal(t, []string{"a", "c"}, lm.GetData())
	assert.Equal(t, -1, lm.Selected())
	assert.Equal(t, 1, changes)
}

func TestListManagerRemoveVetoed(t *testing.T) {
	test.NewTempApp(t)

	lm, _ := NewListManager([]string{"default", "work"}, ListManagerConfig{
		OnRemove: func(i int) bool { return i != 0 },
	})

	lm.list.Select(0)
	lm.RemoveSelected()
	assert.Equal(t, []string{"default", "work"}, lm.GetData())
}

func TestListManagerRenderAndAdd(t *testing.T) {
	test.NewTempApp(t)

	addRequested := false
	lm, _ := NewListManager(nil, ListManagerConfig{
		RenderItem: func(i int) string { return "#" },
		OnAdd:      func() { addRequested = true },
	})

	lm.config.OnAdd()
	assert.True(t, addRequested)

	lm.AddItem("x")
	lm.SetData([]string{"y", "z"})
	assert.Equal(t, []string{"y", "z"}, lm.GetData())
	assert.Equal(t, -1, lm.Selected())
}
