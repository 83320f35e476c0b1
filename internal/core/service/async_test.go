package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAsyncDeliversValue(t *testing.T) {
	p := newPool(2, 4)
	defer p.close()

	res := <-runAsync(p, func() (int, error) { return 42, nil })
	require.NoError(t, res.Err)
	assert.Equal(t, 42, res.Value)
}

func TestRunAsyncDeliversError(t *testing.T) {
	p := newPool(1, 4)
	defer p.close()

	boom := errors.New("boom")
	res := <-runAsync(p, func() (string, error) { return "", boom })
	assert.ErrorIs(t, res.Err, boom)
}

func TestPoolRunsAllSubmittedJobs(t *testing.T) {
	p := newPool(4, 8)

	const jobs = 50
	var mu sync.Mutex
	seen := make(map[int]bool, jobs)

	channels := make([]<-chan Result[int], 0, jobs)
	for i := 0; i < jobs; i++ {
		i := i
		channels = append(channels, runAsync(p, func() (int, error) {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
			return i, nil
		}))
	}
	for _, ch := range channels {
		res := <-ch
		require.NoError(t, res.Err)
	}
	p.close()

	assert.Len(t, seen, jobs)
}

func TestPoolCloseWaitsForPendingJobs(t *testing.T) {
	p := newPool(1, 4)

	var done bool
	ch := runAsync(p, func() (struct{}, error) {
		done = true
		return struct{}{}, nil
	})
	p.close()

	assert.True(t, done, "close drains the queue before returning")
	<-ch
}
