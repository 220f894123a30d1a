package syncx

import (
	"github.com/stretchr/testify/assert"
	"sync"
	"testing"
)

func TestLockFunc(t *testing.T) {
	var (
		mux sync.Mutex
		val int
	)
	LockFunc(&mux, func() {
		val = 5
	})
	assert.Equal(t, 5, val)
	assert.True(t, mux.TryLock(), "The mutex should have been released")
	mux.Unlock()
}

func TestLockFunc_ReleasedOnPanic(t *testing.T) {
	var mux sync.Mutex
	assert.Panics(t, func() {
		LockFunc(&mux, func() {
			panic("oops")
		})
	})
	assert.True(t, mux.TryLock(), "The mutex should have been released after the panic")
	mux.Unlock()
}

func TestLockFuncT(t *testing.T) {
	var mux sync.Mutex
	val := LockFuncT(&mux, func() int {
		return 42
	})
	assert.Equal(t, 42, val)
	assert.True(t, mux.TryLock(), "The mutex should have been released")
	mux.Unlock()
}
