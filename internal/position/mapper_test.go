package position_test

import (
	"testing"

	"bennypowers.dev/embedcss/internal/position"
	"github.com/stretchr/testify/assert"
)

func TestMapperToOuter(t *testing.T) {
	m := position.NewMapper(position.Position{Offset: 8, Line: 2, Column: 8})

	tests := []struct {
		name string
		in   position.Position
		want position.Position
	}{
		{
			name: "fragment start",
			in:   position.Position{Offset: 0, Line: 1, Column: 1},
			want: position.Position{Offset: 8, Line: 2, Column: 8},
		},
		{
			name: "first line shifts column",
			in:   position.Position{Offset: 3, Line: 1, Column: 4},
			want: position.Position{Offset: 11, Line: 2, Column: 11},
		},
		{
			name: "later lines keep column",
			in:   position.Position{Offset: 12, Line: 3, Column: 5},
			want: position.Position{Offset: 20, Line: 4, Column: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ToOuter(tt.in))
		})
	}
}

func TestMapperRoundTrip(t *testing.T) {
	outer := "<html>\n<head><style>a {\n  color: red;\n}\n</style>"
	fragmentStart := len("<html>\n<head><style>")
	fragment := outer[fragmentStart : len(outer)-len("</style>")]

	outerIndex := position.NewIndex(outer)
	fragmentIndex := position.NewIndex(fragment)
	m := position.NewMapper(outerIndex.At(fragmentStart))

	for offset := 0; offset <= len(fragment); offset++ {
		local := fragmentIndex.At(offset)
		mapped := m.ToOuter(local)

		assert.Equal(t, outerIndex.At(fragmentStart+offset), mapped, "offset %d", offset)
		assert.Equal(t, local, m.ToFragment(mapped), "offset %d", offset)
	}
}
