package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByteOffset(t *testing.T) {
	content := "# Title\n\nHello **world**!\n"

	tests := []struct {
		name string
		line int
		col  int
		want int
	}{
		{name: "origin", line: 0, col: 0, want: 0},
		{name: "within first line", line: 0, col: 2, want: 2},
		{name: "empty line", line: 1, col: 0, want: 8},
		{name: "third line start", line: 2, col: 0, want: 9},
		{name: "third line middle", line: 2, col: 6, want: 15},
		{name: "column past line end clamps", line: 0, col: 99, want: 7},
		{name: "line past document clamps", line: 99, col: 0, want: len(content)},
		{name: "negative line", line: -1, col: 5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, byteOffset(content, tt.line, tt.col))
		})
	}
}

func TestByteOffset_MultibyteRunes(t *testing.T) {
	// Each é is two bytes; column counts runes, offset counts bytes.
	content := "héllo\nwörld"

	assert.Equal(t, 3, byteOffset(content, 0, 2))
	assert.Equal(t, 7, byteOffset(content, 1, 0))
	assert.Equal(t, 10, byteOffset(content, 1, 2))
}

func TestLineSpan(t *testing.T) {
	content := "one\n\nthree"

	tests := []struct {
		name      string
		line      int
		wantStart int
		wantEnd   int
	}{
		{name: "first line", line: 0, wantStart: 0, wantEnd: 3},
		{name: "empty line", line: 1, wantStart: 4, wantEnd: 4},
		{name: "last line without newline", line: 2, wantStart: 5, wantEnd: 10},
		{name: "past end", line: 10, wantStart: 10, wantEnd: 10},
		{name: "negative", line: -3, wantStart: 0, wantEnd: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := lineSpan(content, tt.line)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestLineSpan_EmptyContent(t *testing.T) {
	start, end := lineSpan("", 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
