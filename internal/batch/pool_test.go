package batch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidresolve/internal/extract"
	"vidresolve/internal/media"
)

// fakeExtractor echoes its input and tracks the peak number of concurrent calls.
type fakeExtractor struct {
	active atomic.Int32
	peak   atomic.Int32
	delay  time.Duration
}

func (f *fakeExtractor) Extract(ctx context.Context, text string) (*media.Result, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if strings.HasPrefix(text, "bad") {
		return nil, extract.ErrNoURLFound
	}
	return &media.Result{MediaURL: "https://cdn.example.com/play/" + text + ".mp4"}, nil
}

func TestRunPreservesOrder(t *testing.T) {
	inputs := []string{"a", "bad1", "c", "d", "bad2", "f"}
	p := NewPool(&fakeExtractor{delay: time.Millisecond}, 3, nil)

	out := p.Run(context.Background(), inputs)
	require.Len(t, out, len(inputs))

	for i, o := range out {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, inputs[i], o.Input)
		if strings.HasPrefix(inputs[i], "bad") {
			assert.True(t, errors.Is(o.Err, extract.ErrNoURLFound))
			assert.Nil(t, o.Result)
		} else {
			require.NoError(t, o.Err)
			assert.Equal(t, "https://cdn.example.com/play/"+inputs[i]+".mp4", o.Result.MediaURL)
		}
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	fx := &fakeExtractor{delay: 5 * time.Millisecond}
	inputs := make([]string, 20)
	for i := range inputs {
		inputs[i] = "x"
	}

	NewPool(fx, 4, nil).Run(context.Background(), inputs)

	assert.LessOrEqual(t, fx.peak.Load(), int32(4))
	assert.GreaterOrEqual(t, fx.peak.Load(), int32(1))
}

func TestRunCallsOnDoneForEveryInput(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[int]bool{}
	)
	p := NewPool(&fakeExtractor{}, 2, nil)
	p.OnDone = func(o Outcome) {
		mu.Lock()
		seen[o.Index] = true
		mu.Unlock()
	}

	p.Run(context.Background(), []string{"a", "b", "c"})
	assert.Len(t, seen, 3)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := NewPool(&fakeExtractor{delay: time.Second}, 2, nil).Run(ctx, []string{"a", "b", "c", "d", "e"})

	require.Len(t, out, 5)
	for _, o := range out {
		assert.Error(t, o.Err)
		assert.True(t, errors.Is(o.Err, context.Canceled))
	}
}

func TestNewPoolMinimumOneWorker(t *testing.T) {
	p := NewPool(&fakeExtractor{}, 0, nil)
	assert.Equal(t, 1, p.workers)
}
