package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelizeCoversEveryItemOnce(t *testing.T) {
	for _, items := range []int{0, 1, 3, 7, 100, 1001} {
		counts := make([]int32, items)
		Parallelize(items, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&counts[i], 1)
			}
		})
		for i, c := range counts {
			if c != 1 {
				t.Errorf("items=%d: index %d visited %d times, want 1", items, i, c)
			}
		}
	}
}

func TestParallelizeWithThresholdSequentialBelowThreshold(t *testing.T) {
	var calls int
	ParallelizeWithThreshold(5, 10, func(start, end int) {
		calls++
		if start != 0 || end != 5 {
			t.Errorf("sequential path got range [%d, %d), want [0, 5)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("sequential path called fn %d times, want 1", calls)
	}
}

func TestParallelizeWithThresholdParallelAboveThreshold(t *testing.T) {
	items := 64
	var visited int32
	ParallelizeWithThreshold(items, 8, func(start, end int) {
		atomic.AddInt32(&visited, int32(end-start))
	})
	if visited != int32(items) {
		t.Errorf("visited %d items, want %d", visited, items)
	}
}
