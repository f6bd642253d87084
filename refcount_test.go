package media

import (
	"sync"
	"testing"
)

func TestRefCounterReclaimsOnce(t *testing.T) {
	tests := []struct {
		name    string
		retains int
	}{
		{"no extra retains", 0},
		{"one retain", 1},
		{"two retains", 2},
		{"many retains", 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reclaimed := 0
			c := NewRefCounter(func() { reclaimed++ })
			for i := 0; i < tt.retains; i++ {
				c.Retain()
			}
			// One release per retain, plus one for the initial
			// reference. Only the last one reclaims.
			for i := 0; i < tt.retains; i++ {
				c.Release()
				if reclaimed != 0 {
					t.Fatalf("reclaimed after %d of %d releases", i+1, tt.retains+1)
				}
			}
			c.Release()
			if reclaimed != 1 {
				t.Fatalf("reclaim ran %d times, want 1", reclaimed)
			}
		})
	}
}

func TestRefCounterInterleaved(t *testing.T) {
	reclaimed := 0
	c := NewRefCounter(func() { reclaimed++ })

	c.Retain()
	c.Retain()
	c.Release()
	c.Release()
	if reclaimed != 0 {
		t.Fatal("reclaimed while a reference was still held")
	}
	c.Release()
	if reclaimed != 1 {
		t.Fatalf("reclaim ran %d times, want 1", reclaimed)
	}
}

func TestRefCounterNilReclaim(t *testing.T) {
	c := NewRefCounter(nil)
	c.Retain()
	c.Release()
	c.Release()
}

func TestRefCounterConcurrent(t *testing.T) {
	const (
		goroutines = 8
		rounds     = 1000
	)
	reclaimed := 0
	c := NewRefCounter(func() { reclaimed++ })

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				c.Retain()
				c.Release()
			}
		}()
	}
	wg.Wait()

	if reclaimed != 0 {
		t.Fatal("reclaimed while the initial reference was still held")
	}
	c.Release()
	if reclaimed != 1 {
		t.Fatalf("reclaim ran %d times, want 1", reclaimed)
	}
}

func TestRefCounterRetainAfterZeroPanics(t *testing.T) {
	c := NewRefCounter(nil)
	c.Release()

	defer func() {
		if recover() == nil {
			t.Fatal("Retain on a released counter did not panic")
		}
	}()
	c.Retain()
}

func TestRefCounterOverReleasePanics(t *testing.T) {
	c := NewRefCounter(nil)
	c.Release()

	defer func() {
		if recover() == nil {
			t.Fatal("Release on a released counter did not panic")
		}
	}()
	c.Release()
}
