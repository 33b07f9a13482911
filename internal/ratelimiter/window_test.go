package ratelimiter

import (
	"testing"
	"time"
)

func TestComputeWindow_Properties(t *testing.T) {
	sizes := []time.Duration{time.Second, 15 * time.Second, time.Minute, time.Hour}
	instants := []time.Time{
		time.Now(),
		time.Date(2025, 3, 1, 12, 30, 59, 999_000_000, time.UTC),
		time.UnixMilli(1),
	}

	for _, size := range sizes {
		for _, now := range instants {
			w := ComputeWindow(now, size)

			if w.StartMs > now.UnixMilli() || now.UnixMilli() >= w.EndMs {
				t.Errorf("window [%d,%d) does not contain now=%d (size=%s)",
					w.StartMs, w.EndMs, now.UnixMilli(), size)
			}
			if w.EndMs-w.StartMs != size.Milliseconds() {
				t.Errorf("window width %d, want %d", w.EndMs-w.StartMs, size.Milliseconds())
			}
			if w.StartMs%size.Milliseconds() != 0 {
				t.Errorf("window start %d not aligned to %s", w.StartMs, size)
			}
		}
	}
}

func TestComputeWindow_SameBucket(t *testing.T) {
	size := time.Minute
	a := time.Date(2025, 3, 1, 12, 30, 1, 0, time.UTC)
	b := time.Date(2025, 3, 1, 12, 30, 59, 0, time.UTC)

	wa := ComputeWindow(a, size)
	wb := ComputeWindow(b, size)
	if wa != wb {
		t.Errorf("timestamps inside one interval got different windows: %v vs %v", wa, wb)
	}

	c := time.Date(2025, 3, 1, 12, 31, 0, 0, time.UTC)
	wc := ComputeWindow(c, size)
	if wc.StartMs != wa.EndMs {
		t.Errorf("next window should start where the previous ends: got %d, want %d", wc.StartMs, wa.EndMs)
	}
}

func TestTTLFor_RoundsUpToWholeSeconds(t *testing.T) {
	cases := []struct {
		size time.Duration
		want time.Duration
	}{
		{60 * time.Second, 60 * time.Second},
		{1500 * time.Millisecond, 2 * time.Second},
		{999 * time.Millisecond, time.Second},
		{1 * time.Millisecond, time.Second},
	}
	for _, c := range cases {
		if got := ttlFor(c.size); got != c.want {
			t.Errorf("ttlFor(%s) = %s, want %s", c.size, got, c.want)
		}
	}
}

func TestRetryAfterUntil(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 30, 30, 0, time.UTC)
	w := ComputeWindow(now, time.Minute)

	// 30s left until the next minute boundary.
	if got := retryAfterUntil(now, w.EndMs); got != 30*time.Second {
		t.Errorf("retryAfterUntil = %s, want 30s", got)
	}

	// 29.5s left rounds up to 30s.
	later := now.Add(500 * time.Millisecond)
	if got := retryAfterUntil(later, w.EndMs); got != 30*time.Second {
		t.Errorf("retryAfterUntil half-second = %s, want 30s", got)
	}

	// An instant in the past never yields a negative hint.
	if got := retryAfterUntil(now.Add(2*time.Minute), w.EndMs); got != 0 {
		t.Errorf("retryAfterUntil past = %s, want 0", got)
	}
}
