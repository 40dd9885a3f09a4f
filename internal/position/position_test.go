package position_test

import (
	"testing"

	"bennypowers.dev/embedcss/internal/position"
	"github.com/stretchr/testify/assert"
)

func TestIndexAt(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		want   position.Position
	}{
		{
			name:   "start of text",
			text:   "a {}",
			offset: 0,
			want:   position.Position{Offset: 0, Line: 1, Column: 1},
		},
		{
			name:   "after style tag on second line",
			text:   "\n<style>b{}</style>",
			offset: 8,
			want:   position.Position{Offset: 8, Line: 2, Column: 8},
		},
		{
			name:   "offset of a newline belongs to its line",
			text:   "ab\ncd",
			offset: 2,
			want:   position.Position{Offset: 2, Line: 1, Column: 3},
		},
		{
			name:   "multi-byte characters count once",
			text:   "颜色: red",
			offset: 6,
			want:   position.Position{Offset: 6, Line: 1, Column: 3},
		},
		{
			name:   "emoji counts as one column",
			text:   "x\n👍 a",
			offset: 7,
			want:   position.Position{Offset: 7, Line: 2, Column: 3},
		},
		{
			name:   "end of text",
			text:   "a\n",
			offset: 2,
			want:   position.Position{Offset: 2, Line: 2, Column: 1},
		},
		{
			name:   "past end clamps",
			text:   "abc",
			offset: 99,
			want:   position.Position{Offset: 3, Line: 1, Column: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, position.NewIndex(tt.text).At(tt.offset))
		})
	}
}

func TestIndexOffsetInvertsAt(t *testing.T) {
	text := "<html>\n<style>\n  a { color: 颜色 }\n</style>\n"
	ix := position.NewIndex(text)
	offsets := []int{len(text)}
	for offset := range text {
		offsets = append(offsets, offset)
	}
	for _, offset := range offsets {
		p := ix.At(offset)
		assert.Equal(t, offset, ix.Offset(p.Line, p.Column), "offset %d", offset)
	}
}

func TestIndexOffsetClamps(t *testing.T) {
	ix := position.NewIndex("ab\ncd")
	assert.Equal(t, 0, ix.Offset(0, 5))
	assert.Equal(t, 2, ix.Offset(1, 99))
	assert.Equal(t, 5, ix.Offset(9, 1))
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "2:8", position.Position{Offset: 8, Line: 2, Column: 8}.String())
}
