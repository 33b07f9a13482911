package ratelimiter

import "time"

// Window is one fixed, floor-aligned interval of the configured size.
// Two timestamps inside the same interval always share a window; bursts
// straddling a boundary can be under- or over-admitted, which is the
// accepted tradeoff of fixed windows.
type Window struct {
	StartMs int64 // inclusive, milliseconds since the epoch
	EndMs   int64 // exclusive
}

// ComputeWindow maps now to its fixed window for the given size.
// Pure and total: StartMs <= now.UnixMilli() < EndMs and
// EndMs-StartMs == size in milliseconds.
func ComputeWindow(now time.Time, size time.Duration) Window {
	sizeMs := size.Milliseconds()
	startMs := (now.UnixMilli() / sizeMs) * sizeMs
	return Window{StartMs: startMs, EndMs: startMs + sizeMs}
}

// End returns the window's end as a time.Time.
func (w Window) End() time.Time {
	return time.UnixMilli(w.EndMs)
}

// ttlFor rounds the window size up to whole seconds for the primary
// store's key expiry.
func ttlFor(size time.Duration) time.Duration {
	secs := (size.Milliseconds() + 999) / 1000
	return time.Duration(secs) * time.Second
}

// retryAfterUntil returns the whole seconds from now until the given
// millisecond instant, rounded up, never negative.
func retryAfterUntil(now time.Time, endMs int64) time.Duration {
	ms := endMs - now.UnixMilli()
	if ms < 0 {
		ms = 0
	}
	secs := (ms + 999) / 1000
	return time.Duration(secs) * time.Second
}
