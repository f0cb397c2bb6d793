package clt

// Span is one slice of a pro-rata split.
type Span struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Split divides the interval [start, end) into n contiguous spans at
// whole-minute granularity, overnight aware. The leftover minutes of an
// uneven division land on the earliest spans, one extra minute each, so
// the spans never drift apart. Every span lasts at least one minute as
// long as the interval is non-empty, even when n exceeds the available
// minutes. n <= 0 yields nil.
func Split(start, end TimeOfDay, n int) []Span {
	if n <= 0 {
		return nil
	}
	totalMinutes := Duration(start, end) / 60
	base := totalMinutes / n
	extra := totalMinutes % n

	spans := make([]Span, 0, n)
	cur := start
	for i := 0; i < n; i++ {
		minutes := base
		if i < extra {
			minutes++
		}
		if minutes < 1 && totalMinutes > 0 {
			minutes = 1
		}
		next := TimeOfDay((int(cur) + minutes*60) % SecondsPerDay)
		spans = append(spans, Span{Start: cur, End: next})
		cur = next
	}
	return spans
}
