package packet

import (
	"bytes"
	"errors"
	"log/slog"
	"runtime"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/packet/internal/alloc"
	"github.com/hupe1980/packet/internal/layout"
	"github.com/hupe1980/packet/internal/resource"
)

func TestPacket(t *testing.T) {
	t.Run("WriteThenRead", func(t *testing.T) {
		p, err := New(3)
		require.NoError(t, err)
		defer p.Close()

		data := p.DataMut()
		data[0] = 1
		data[1] = 2
		data[2] = 3

		assert.Equal(t, uint16(3), p.Len())
		assert.False(t, p.IsEmpty())
		assert.Equal(t, []int32{1, 2, 3}, p.Data())
		assert.Equal(t, 3, p.Capacity())
	})

	t.Run("ZeroLength", func(t *testing.T) {
		p, err := New(0)
		require.NoError(t, err)
		defer p.Close()

		assert.Equal(t, uint16(0), p.Len())
		assert.True(t, p.IsEmpty())
		assert.Equal(t, []int32{}, p.Data())
		assert.Equal(t, []int32{}, p.DataMut())

		_, ok := p.Get(3)
		assert.False(t, ok)
	})

	t.Run("HeaderHoldsLength", func(t *testing.T) {
		p, err := New(7)
		require.NoError(t, err)
		defer p.Close()

		hdr := (*layout.Header)(p.Pointer())
		assert.Equal(t, uint16(7), hdr.Length)
		assert.Equal(t, Layout{Size: 4 + 7*4, Align: 4}, p.Layout())
	})
}

func TestFromSlice(t *testing.T) {
	t.Run("TenElements", func(t *testing.T) {
		src := []int32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		p, err := FromSlice(src)
		require.NoError(t, err)
		defer p.Close()

		assert.Equal(t, uint16(10), p.Len())
		assert.False(t, p.IsEmpty())
		assert.Equal(t, src, p.Data())
		assert.Equal(t, int32(1), p.At(0))
		assert.Equal(t, int32(2), p.At(1))
	})

	t.Run("CopiesSource", func(t *testing.T) {
		src := []int32{1, 2, 3, 4}
		p, err := FromSlice(src)
		require.NoError(t, err)
		defer p.Close()

		src[0] = 100
		assert.Equal(t, []int32{1, 2, 3, 4}, p.Data())

		v, ok := p.Get(2)
		assert.True(t, ok)
		assert.Equal(t, int32(3), v)
		v, ok = p.Get(3)
		assert.True(t, ok)
		assert.Equal(t, int32(4), v)
		_, ok = p.Get(4)
		assert.False(t, ok)
	})

	t.Run("MaxLength", func(t *testing.T) {
		src := make([]int32, MaxLength)
		for i := range src {
			src[i] = int32(i)
		}
		p, err := FromSlice(src)
		require.NoError(t, err)
		defer p.Close()

		assert.Equal(t, uint16(MaxLength), p.Len())
		assert.Equal(t, int32(MaxLength-1), p.At(MaxLength-1))
	})

	t.Run("CapacityOverflow", func(t *testing.T) {
		tr := NewTrackingAllocator(nil)

		p, err := FromSlice(make([]int32, MaxLength+1), WithAllocator(tr))
		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrCapacityOverflow)

		var capErr *CapacityError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, MaxLength+1, capErr.Len)
		assert.Equal(t, "packet: 65536 elements exceed maximum length 65535", err.Error())

		// No allocation takes place.
		assert.Equal(t, uint64(0), tr.Stats().Allocs)
	})
}

func TestGetAndAt(t *testing.T) {
	p, err := FromSlice([]int32{1, 2, 3})
	require.NoError(t, err)
	defer p.Close()

	for _, i := range []int{-1, 3, 10} {
		_, ok := p.Get(i)
		assert.False(t, ok, "index %d", i)
	}

	assert.PanicsWithError(t, "packet: index out of range [10] with length 3", func() {
		_ = p.At(10)
	})
	assert.PanicsWithError(t, "packet: index out of range [-1] with length 3", func() {
		_ = p.At(-1)
	})

	defer func() {
		r := recover()
		require.NotNil(t, r)
		idxErr, ok := r.(*IndexError)
		require.True(t, ok)
		assert.Equal(t, 3, idxErr.Index)
		assert.Equal(t, 3, idxErr.Len)
	}()
	_ = p.At(3)
}

func TestDataMutIsShared(t *testing.T) {
	p, err := New(4)
	require.NoError(t, err)
	defer p.Close()

	for i, v := range []int32{4, 3, 2, 1} {
		p.DataMut()[i] = v
	}
	assert.Equal(t, []int32{4, 3, 2, 1}, p.Data())

	// Views have clipped capacity, so appending cannot write into the block.
	view := p.Data()
	assert.Equal(t, len(view), cap(view))
}

func TestClose(t *testing.T) {
	tr := NewTrackingAllocator(nil)

	p, err := FromSlice([]int32{1, 2, 3}, WithAllocator(tr))
	require.NoError(t, err)
	recorded := p.Layout()

	for i := 0; i < 100; i++ {
		_ = p.Len()
		_ = p.Data()
		_, _ = p.Get(i)
		_ = p.String()
	}

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	stats := tr.Stats()
	assert.Equal(t, uint64(1), stats.Allocs)
	assert.Equal(t, uint64(1), stats.Frees)
	assert.Equal(t, uint64(0), stats.Rejected)
	assert.Equal(t, uint64(0), stats.Live)
	assert.Equal(t, uint64(0), stats.LiveBytes)
	assert.Equal(t, Layout{Size: 16, Align: 4}, recorded)

	t.Run("ClosedPacketIsAbsent", func(t *testing.T) {
		assert.Equal(t, uint16(0), p.Len())
		assert.True(t, p.IsEmpty())
		assert.Equal(t, []int32{}, p.Data())
		assert.Nil(t, p.DataMut())
		assert.Nil(t, p.Pointer())
		assert.Equal(t, 0, p.Capacity())
		assert.Equal(t, Layout{}, p.Layout())
		_, ok := p.Get(0)
		assert.False(t, ok)
		assert.Panics(t, func() { _ = p.At(0) })
	})
}

func TestNilPacket(t *testing.T) {
	var p *Packet

	assert.Equal(t, uint16(0), p.Len())
	assert.True(t, p.IsEmpty())
	assert.Equal(t, []int32{}, p.Data())
	assert.Nil(t, p.DataMut())
	assert.Nil(t, p.Pointer())
	assert.NoError(t, p.Close())
	_, ok := p.Get(0)
	assert.False(t, ok)
	assert.Equal(t, "Packet(length: 0, data: [])", p.String())
}

func TestDroppedPacketIsReportedAsLeak(t *testing.T) {
	tr := NewTrackingAllocator(nil)
	mc := &BasicMetricsCollector{}

	func() {
		_, err := New(8, WithAllocator(tr), WithMetricsCollector(mc))
		require.NoError(t, err)
	}()

	assert.Eventually(t, func() bool {
		runtime.GC()
		return mc.LeakCount.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, int64(36), mc.LeakBytes.Load())
	assert.Equal(t, int64(0), mc.FreeCount.Load())

	stats := tr.Stats()
	assert.Equal(t, uint64(0), stats.Frees)
	assert.Equal(t, uint64(1), stats.Live)
}

func TestDroppedPacketViewSurvivesReuse(t *testing.T) {
	pa := NewPoolAllocator(0)
	mc := &BasicMetricsCollector{}

	view := func() []int32 {
		return Must(FromSlice([]int32{1, 2, 3, 4}, WithAllocator(pa), WithMetricsCollector(mc))).Data()
	}()

	assert.Eventually(t, func() bool {
		runtime.GC()
		return mc.LeakCount.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, uint64(0), pa.Stats().Puts)

	q, err := Repeat(99, 4, WithAllocator(pa))
	require.NoError(t, err)
	defer q.Close()

	assert.Equal(t, []int32{99, 99, 99, 99}, q.Data())
	assert.Equal(t, []int32{1, 2, 3, 4}, view)
}

func TestClosedPacketIsNotReportedAsLeak(t *testing.T) {
	mc := &BasicMetricsCollector{}

	func() {
		p, err := New(2, WithMetricsCollector(mc))
		require.NoError(t, err)
		require.NoError(t, p.Close())
	}()

	for range 3 {
		runtime.GC()
	}
	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.FreeCount)
	assert.Equal(t, int64(0), stats.LeakCount)
}

type failingAllocator struct{ err error }

func (f failingAllocator) Alloc(layout.Layout) ([]byte, error) { return nil, f.err }
func (f failingAllocator) Free([]byte, layout.Layout) error    { return nil }

type shortAllocator struct{}

func (shortAllocator) Alloc(l layout.Layout) ([]byte, error) { return make([]byte, l.Size-1), nil }
func (shortAllocator) Free([]byte, layout.Layout) error      { return nil }

func TestAllocationFailure(t *testing.T) {
	t.Run("AllocatorError", func(t *testing.T) {
		oom := errors.New("out of memory")
		p, err := New(4, WithAllocator(failingAllocator{err: oom}))
		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrAllocationFailed)
		assert.ErrorIs(t, err, oom)
	})

	t.Run("ShortBlock", func(t *testing.T) {
		p, err := New(4, WithAllocator(shortAllocator{}))
		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrAllocationFailed)
		assert.ErrorIs(t, err, alloc.ErrLayoutMismatch)
	})

	t.Run("FromSlicePropagates", func(t *testing.T) {
		p, err := FromSlice([]int32{1}, WithAllocator(failingAllocator{err: errors.New("boom")}))
		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrAllocationFailed)
	})
}

func TestWithController(t *testing.T) {
	rc := NewController(ControllerConfig{MemoryLimitBytes: 100})

	p1, err := New(10, WithController(rc)) // 44 bytes
	require.NoError(t, err)
	p2, err := New(10, WithController(rc))
	require.NoError(t, err)
	assert.Equal(t, int64(88), rc.MemoryUsage())

	p3, err := New(10, WithController(rc))
	assert.Nil(t, p3)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)

	require.NoError(t, p1.Close())
	assert.Equal(t, int64(44), rc.MemoryUsage())

	p3, err = New(10, WithController(rc))
	require.NoError(t, err)

	require.NoError(t, p2.Close())
	require.NoError(t, p3.Close())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

type rejectingFreeAllocator struct{ alloc.Heap }

func (rejectingFreeAllocator) Free([]byte, layout.Layout) error { return alloc.ErrUnknownBlock }

func TestCloseFreeFailureKeepsReservation(t *testing.T) {
	rc := NewController(ControllerConfig{MemoryLimitBytes: 100})

	p, err := New(10, WithController(rc), WithAllocator(rejectingFreeAllocator{}))
	require.NoError(t, err)
	assert.Equal(t, int64(44), rc.MemoryUsage())

	assert.ErrorIs(t, p.Close(), alloc.ErrUnknownBlock)
	assert.Equal(t, int64(44), rc.MemoryUsage())

	// A failed release is not retried.
	assert.NoError(t, p.Close())
	assert.Equal(t, int64(44), rc.MemoryUsage())
}

func TestAnonAllocator(t *testing.T) {
	a := NewAnonAllocator()
	anon, ok := a.(*alloc.Anon)
	require.True(t, ok)

	p, err := Repeat(7, 1000, WithAllocator(a))
	require.NoError(t, err)
	assert.Equal(t, 1, anon.Live())

	for _, v := range p.Refs() {
		*v++
	}
	assert.Equal(t, int32(8), p.At(999))

	require.NoError(t, p.Close())
	assert.Equal(t, 0, anon.Live())
}

func TestPoolAllocator(t *testing.T) {
	pa := NewPoolAllocator(0)
	tr := NewTrackingAllocator(pa)

	for range 4 {
		p, err := FromSlice([]int32{1, 2, 3}, WithAllocator(tr))
		require.NoError(t, err)
		assert.Equal(t, []int32{1, 2, 3}, p.Data())
		require.NoError(t, p.Close())
	}

	s := pa.Stats()
	assert.Equal(t, uint64(4), s.Puts)
	assert.Equal(t, uint64(4), s.Hits+s.Misses)
	assert.Zero(t, tr.Stats().Live)
}

func TestLengthOracle(t *testing.T) {
	t.Run("ReceivesHeaderPointer", func(t *testing.T) {
		var seen unsafe.Pointer
		oracle := LengthOracleFunc(func(block unsafe.Pointer) uint16 {
			seen = block
			return NativeOracle.PacketLen(block)
		})

		p, err := FromSlice([]int32{1, 2}, WithLengthOracle(oracle))
		require.NoError(t, err)
		defer p.Close()

		assert.Equal(t, uint16(2), p.Len())
		assert.Equal(t, p.Pointer(), seen)
	})

	t.Run("ShorterThanCapacity", func(t *testing.T) {
		oracle := LengthOracleFunc(func(unsafe.Pointer) uint16 { return 2 })

		p, err := FromSlice([]int32{1, 2, 3, 4, 5}, WithLengthOracle(oracle))
		require.NoError(t, err)
		defer p.Close()

		assert.Equal(t, uint16(2), p.Len())
		assert.Equal(t, 5, p.Capacity())
		assert.Equal(t, []int32{1, 2}, p.Data())
		assert.Len(t, p.DataMut(), 2)
		_, ok := p.Get(3)
		assert.False(t, ok)
		assert.Panics(t, func() { _ = p.At(2) })
		assert.Panics(t, func() { _ = p.Slice(0, 3) })
		assert.Equal(t, "Packet(length: 2, data: [1, 2])", p.String())
	})

	t.Run("ClampedToCapacity", func(t *testing.T) {
		oracle := LengthOracleFunc(func(unsafe.Pointer) uint16 { return 1000 })

		p, err := FromSlice([]int32{1, 2, 3}, WithLengthOracle(oracle))
		require.NoError(t, err)
		defer p.Close()

		assert.Equal(t, uint16(3), p.Len())
		assert.Equal(t, []int32{1, 2, 3}, p.Data())
	})

	t.Run("NilFallsBackToNative", func(t *testing.T) {
		p, err := New(4, WithLengthOracle(nil))
		require.NoError(t, err)
		defer p.Close()
		assert.Equal(t, uint16(4), p.Len())
	})
}

func TestClone(t *testing.T) {
	tr := NewTrackingAllocator(nil)

	p, err := FromSlice([]int32{5, 6, 7}, WithAllocator(tr))
	require.NoError(t, err)
	defer p.Close()

	q, err := p.Clone()
	require.NoError(t, err)
	defer q.Close()

	q.DataMut()[0] = 50
	assert.Equal(t, []int32{5, 6, 7}, p.Data())
	assert.Equal(t, []int32{50, 6, 7}, q.Data())
	assert.Equal(t, uint64(2), tr.Stats().Allocs)

	var absent *Packet
	empty, err := absent.Clone()
	require.NoError(t, err)
	defer empty.Close()
	assert.True(t, empty.IsEmpty())
}

func TestMetricsCollector(t *testing.T) {
	mc := &BasicMetricsCollector{}

	p, err := New(3, WithMetricsCollector(mc))
	require.NoError(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.AllocCount)
	assert.Equal(t, int64(0), stats.AllocErrors)
	assert.Equal(t, int64(16), stats.LiveBytes)

	require.NoError(t, p.Close())
	stats = mc.GetStats()
	assert.Equal(t, int64(1), stats.FreeCount)
	assert.Equal(t, int64(0), stats.LiveBytes)

	_, err = New(3, WithMetricsCollector(mc), WithAllocator(failingAllocator{err: errors.New("boom")}))
	require.Error(t, err)
	assert.Equal(t, int64(1), mc.GetStats().AllocErrors)

	// nil resets to the no-op collector.
	p, err = New(1, WithMetricsCollector(nil))
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p, err := New(2, WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, p.Close())

	out := buf.String()
	assert.Contains(t, out, `"msg":"packet allocated"`)
	assert.Contains(t, out, `"length":2`)
	assert.Contains(t, out, `"size":12`)
	assert.Contains(t, out, `"msg":"packet released"`)

	buf.Reset()
	_, err = New(2, WithLogger(logger), WithAllocator(failingAllocator{err: errors.New("boom")}))
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"msg":"packet allocation failed"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)

	buf.Reset()
	_, err = FromSlice(make([]int32, MaxLength+1), WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"msg":"packet source exceeds maximum length"`)

	buf.Reset()
	logger.WithLength(9).WithLayout(Layout{Size: 40, Align: 4}).Info("tagged")
	assert.Contains(t, buf.String(), `"length":9`)
	assert.Contains(t, buf.String(), `"align":4`)
}

func TestPacketLayout(t *testing.T) {
	l, err := PacketLayout(10)
	require.NoError(t, err)
	assert.Equal(t, Layout{Size: 44, Align: 4}, l)
}
