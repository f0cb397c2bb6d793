package clt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEven(t *testing.T) {
	spans := Split(ClockAt(8, 0), ClockAt(12, 0), 3)
	require.Len(t, spans, 3)
	assert.Equal(t, Span{ClockAt(8, 0), ClockAt(9, 20)}, spans[0])
	assert.Equal(t, Span{ClockAt(9, 20), ClockAt(10, 40)}, spans[1])
	assert.Equal(t, Span{ClockAt(10, 40), ClockAt(12, 0)}, spans[2])
}

func TestSplitRemainderGoesFirst(t *testing.T) {
	// 121 minutes over 2: the first span takes the leftover minute.
	spans := Split(ClockAt(10, 0), ClockAt(12, 1), 2)
	require.Len(t, spans, 2)
	assert.Equal(t, Span{ClockAt(10, 0), ClockAt(11, 1)}, spans[0])
	assert.Equal(t, Span{ClockAt(11, 1), ClockAt(12, 1)}, spans[1])
}

func TestSplitOvernight(t *testing.T) {
	spans := Split(ClockAt(23, 0), ClockAt(1, 0), 2)
	require.Len(t, spans, 2)
	assert.Equal(t, Span{ClockAt(23, 0), ClockAt(0, 0)}, spans[0])
	assert.Equal(t, Span{ClockAt(0, 0), ClockAt(1, 0)}, spans[1])
}

func TestSplitMoreSlicesThanMinutes(t *testing.T) {
	// Two minutes over four slices: each span still lasts a minute, so
	// the tail overshoots the original end rather than collapsing.
	spans := Split(ClockAt(9, 0), ClockAt(9, 2), 4)
	require.Len(t, spans, 4)
	for i, s := range spans {
		assert.Equal(t, 60, Duration(s.Start, s.End), "span %d", i)
	}
	assert.Equal(t, ClockAt(9, 0), spans[0].Start)
	assert.Equal(t, ClockAt(9, 4), spans[3].End)
}

func TestSplitContiguous(t *testing.T) {
	spans := Split(ClockAt(7, 30), ClockAt(17, 45), 7)
	require.Len(t, spans, 7)
	for i := 1; i < len(spans); i++ {
		assert.Equal(t, spans[i-1].End, spans[i].Start)
	}
	assert.Equal(t, ClockAt(7, 30), spans[0].Start)
	assert.Equal(t, ClockAt(17, 45), spans[len(spans)-1].End)
}

func TestSplitInvalidCount(t *testing.T) {
	assert.Nil(t, Split(ClockAt(8, 0), ClockAt(12, 0), 0))
	assert.Nil(t, Split(ClockAt(8, 0), ClockAt(12, 0), -1))
}
