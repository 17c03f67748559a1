package rng

import (
	"sync"
	"testing"
)

func TestSeededReplay(t *testing.T) {
	a := NewSeeded(7)
	b := NewSeeded(7)
	for i := 0; i < 1000; i++ {
		x, y := a.Float64(), b.Float64()
		if x != y {
			t.Fatalf("draw %d diverged: %v vs %v", i, x, y)
		}
	}
}

func TestDefaultRange(t *testing.T) {
	src := Default()
	for i := 0; i < 10000; i++ {
		v := src.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("value out of [0,1): %v", v)
		}
	}
}

func TestDefaultStreamsAreIndependent(t *testing.T) {
	a, b := Default(), Default()
	same := 0
	for i := 0; i < 100; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	if same == 100 {
		t.Fatalf("two default sources produced the same stream")
	}
}

func TestConcurrentDraws(t *testing.T) {
	src := Default()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if v := src.Float64(); v < 0 || v >= 1 {
					t.Errorf("value out of [0,1): %v", v)
					return
				}
			}
		}()
	}
	wg.Wait()
}
