package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleIsValid(t *testing.T) {
	assert.False(t, Handle(0).IsValid(), "zero handle should be invalid")
	assert.True(t, Handle(7).IsValid())
}

func TestHandleAllocatorUnique(t *testing.T) {
	var a HandleAllocator
	assert.Equal(t, Handle(0), a.Last())

	seen := map[Handle]bool{}
	for i := 0; i < 100; i++ {
		h := a.Next()
		assert.True(t, h.IsValid())
		assert.False(t, seen[h], "handle %d issued twice", h)
		seen[h] = true
	}
	assert.Equal(t, Handle(100), a.Last())
}

func TestEventWithArgOrder(t *testing.T) {
	var e EventWithArg[int]
	var got []int
	e.AddListener(func(v int) { got = append(got, v) })
	e.AddListener(func(v int) { got = append(got, v*2) })

	e.Invoke(3)
	assert.Equal(t, []int{3, 6}, got)
}

func TestEventWithArgListeners(t *testing.T) {
	var e EventWithArg[string]
	calls := 0
	e.AddListener(func(string) { calls++ })
	e.AddListener(func(s string) { calls += len(s) })
	e.AddListener(nil)

	assert.Equal(t, 2, e.ListenerCount(), "nil listener should be ignored")

	e.Invoke("abc")
	assert.Equal(t, 4, calls)

	e.RemoveAllListeners()
	e.Invoke("abc")
	assert.Equal(t, 4, calls)
	assert.Equal(t, 0, e.ListenerCount())
}
