package engine

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestWithSerializes(t *testing.T) {
	var busy, overlaps atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				With(func() error {
					if !busy.CompareAndSwap(0, 1) {
						overlaps.Add(1)
					}
					busy.Store(0)
					return nil
				})
			}
		}()
	}
	wg.Wait()
	if n := overlaps.Load(); n != 0 {
		t.Errorf("%d overlapping sections", n)
	}
}

func TestWithReturnsError(t *testing.T) {
	want := errTest("boom")
	if got := With(func() error { return want }); got != want {
		t.Errorf("With = %v, want %v", got, want)
	}
	if got := With(func() error { return nil }); got != nil {
		t.Errorf("With = %v, want nil", got)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
