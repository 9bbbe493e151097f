package cronjob

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(ctx context.Context) error {
	r.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("refresh without deadline")
	}
	return r.err
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler("not a schedule", &countingRefresher{}, time.Second, nil)
	require.Error(t, s.Start())
}

func TestScheduler_RefreshesOnStart(t *testing.T) {
	r := &countingRefresher{}
	s := NewScheduler("@every 1h", r, time.Second, nil)
	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_RefreshErrorIsSwallowed(t *testing.T) {
	r := &countingRefresher{err: errors.New("upstream down")}
	s := NewScheduler("@every 1h", r, 0, nil)

	s.refresh()
	assert.Equal(t, int32(1), r.calls.Load())
}
