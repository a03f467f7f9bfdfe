package render

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelVisitsEveryIndexOnce(t *testing.T) {
	for _, tc := range []struct{ workers, n int }{{4, 0}, {4, 1}, {4, 3}, {3, 100}, {16, 17}} {
		hits := make([]int32, tc.n)
		Parallel(tc.workers).Run(tc.n, func(i int) {
			atomic.AddInt32(&hits[i], 1)
		})
		for i, h := range hits {
			assert.Equal(t, int32(1), h, "workers=%d n=%d index %d", tc.workers, tc.n, i)
		}
	}
}

func TestParseDevice(t *testing.T) {
	d, err := ParseDevice("cpu", 0)
	require.NoError(t, err)
	assert.Equal(t, "cpu", d.Name())

	d, err = ParseDevice("Parallel", 3)
	require.NoError(t, err)
	assert.Equal(t, "parallel(3)", d.Name())

	d, err = ParseDevice("auto", 1)
	require.NoError(t, err)
	assert.Equal(t, CPU, d)

	_, err = ParseDevice("gpu", 0)
	assert.Error(t, err)
}
