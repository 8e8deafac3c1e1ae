package handle

import (
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thing struct{ p unsafe.Pointer }

func (t *thing) Ptr() unsafe.Pointer { return t.p }

func wrap(p unsafe.Pointer) *thing { return &thing{p: p} }

type counter struct {
	released atomic.Int32
	refs     atomic.Int32
}

func (c *counter) release(unsafe.Pointer) {
	c.released.Add(1)
	c.refs.Add(-1)
}

func (c *counter) acquire(unsafe.Pointer) { c.refs.Add(1) }

func rawPtr() unsafe.Pointer {
	v := new(int64)
	return unsafe.Pointer(v)
}

func TestFromRaw_Nil(t *testing.T) {
	var c counter
	o, ok := FromRaw[*thing](nil, wrap, c.release)
	assert.False(t, ok)
	assert.Nil(t, o)
	assert.Zero(t, c.released.Load())

	s, ok := FromRawShared[*thing](nil, wrap, c.release, c.acquire)
	assert.False(t, ok)
	assert.Nil(t, s)
	assert.Zero(t, c.released.Load())
}

func TestOwner_ReleaseOnce(t *testing.T) {
	var c counter
	ptr := rawPtr()
	o, ok := FromRaw(ptr, wrap, c.release)
	require.True(t, ok)

	assert.Equal(t, Owned, o.State())
	assert.Equal(t, Unique, o.Policy())
	assert.Equal(t, ptr, o.Get().Ptr())

	require.NoError(t, o.Release())
	assert.ErrorIs(t, o.Release(), ErrReleased)
	assert.Equal(t, Released, o.State())
	assert.Equal(t, int32(1), c.released.Load())

	assert.PanicsWithError(t, ErrReleased.Error(), func() { o.Get() })
}

func TestOwner_ConcurrentRelease(t *testing.T) {
	var c counter
	o, _ := FromRaw(rawPtr(), wrap, c.release)

	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if o.Release() == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(1), c.released.Load())
}

func TestOwner_Clone(t *testing.T) {
	t.Run("unique", func(t *testing.T) {
		var c counter
		o, _ := FromRaw(rawPtr(), wrap, c.release)
		_, err := o.Clone()
		assert.ErrorIs(t, err, ErrUnique)
	})

	t.Run("shared", func(t *testing.T) {
		var c counter
		c.refs.Store(1)
		ptr := rawPtr()
		a, _ := FromRawShared(ptr, wrap, c.release, c.acquire)

		b, err := a.Clone()
		require.NoError(t, err)
		assert.Equal(t, Shared, b.Policy())
		assert.Equal(t, ptr, b.Get().Ptr())
		assert.Equal(t, int32(2), c.refs.Load())

		require.NoError(t, a.Release())
		assert.Equal(t, int32(1), c.refs.Load())
		assert.Equal(t, ptr, b.Get().Ptr())

		require.NoError(t, b.Release())
		assert.Equal(t, int32(0), c.refs.Load())
		assert.Equal(t, int32(2), c.released.Load())

		_, err = a.Clone()
		assert.ErrorIs(t, err, ErrReleased)
	})
}

func TestOwner_CloneRacingRelease(t *testing.T) {
	for i := 0; i < 100; i++ {
		var c counter
		var revived atomic.Bool
		c.refs.Store(1)
		acquire := func(p unsafe.Pointer) {
			if c.refs.Load() <= 0 {
				revived.Store(true)
			}
			c.acquire(p)
		}
		o, _ := FromRawShared(rawPtr(), wrap, c.release, acquire)

		var wg sync.WaitGroup
		clones := make(chan *Owner[*thing], 8)
		for j := 0; j < 8; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if cl, err := o.Clone(); err == nil {
					clones <- cl
				}
			}()
		}
		require.NoError(t, o.Release())
		wg.Wait()
		close(clones)
		for cl := range clones {
			require.NoError(t, cl.Release())
		}

		require.False(t, revived.Load(), "reference acquired on a released object")
		require.Equal(t, int32(0), c.refs.Load())
	}
}

func TestOwner_Into(t *testing.T) {
	var c counter
	ptr := rawPtr()
	o, _ := FromRaw(ptr, wrap, c.release)

	obj, err := o.Into()
	require.NoError(t, err)
	assert.Equal(t, ptr, obj.Ptr())
	assert.Equal(t, Unowned, o.State())

	assert.ErrorIs(t, o.Release(), ErrNotOwned)
	_, err = o.Into()
	assert.ErrorIs(t, err, ErrNotOwned)
	assert.Zero(t, c.released.Load())
	assert.Panics(t, func() { o.Get() })
}

func TestState_String(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Unowned, "unowned"},
		{Owned, "owned"},
		{Released, "released"},
		{State(9), "State(9)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.String())
	}
}
