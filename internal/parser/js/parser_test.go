package js_test

import (
	"encoding/json"
	"flag"
	"os"
	"testing"

	"bennypowers.dev/embedcss/internal/collections"
	"bennypowers.dev/embedcss/internal/parser/common"
	"bennypowers.dev/embedcss/internal/parser/js"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

var langs = collections.NewSet("css", "scss", "less")

func TestParseTemplates(t *testing.T) {
	source, err := os.ReadFile("testdata/components.js")
	require.NoError(t, err)

	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)

	templates := parser.ParseTemplates(string(source))

	counts := map[string]int{}
	withSubstitutions := 0
	for _, tmpl := range templates {
		counts[tmpl.Tag]++
		if tmpl.HasSubstitutions() {
			withSubstitutions++
		}
	}
	assert.Equal(t, 3, counts["css"])
	assert.Equal(t, 1, counts["html"])
	assert.Equal(t, 2, withSubstitutions)
}

func TestFindRegions(t *testing.T) {
	const golden = "testdata/golden/components.json"

	source, err := os.ReadFile("testdata/components.js")
	require.NoError(t, err)
	text := string(source)

	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)

	regions := parser.FindRegions(text, langs)
	for _, r := range regions {
		assert.Equal(t, text[r.Start:r.End], r.Content)
	}

	if *update {
		data, marshalErr := json.MarshalIndent(regions, "", "  ")
		require.NoError(t, marshalErr)
		require.NoError(t, os.WriteFile(golden, append(data, '\n'), 0o644))
		return
	}

	want, err := os.ReadFile(golden)
	require.NoError(t, err)

	var expected []common.Region
	require.NoError(t, json.Unmarshal(want, &expected))
	require.Len(t, regions, 4)
	assert.Equal(t, expected, regions)
}

func TestFindRegionsEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []common.Region
	}{
		{
			name:   "empty css template",
			source: "css``",
			want: []common.Region{
				{Content: "", Start: 4, End: 4, Kind: common.TaggedTemplate, Lang: "css"},
			},
		},
		{
			name:   "substitution",
			source: "css`a { b: ${c}; }`",
			want:   nil,
		},
		{
			name:   "style split by substitution",
			source: "html`<style>a { b: ${c} }</style>`",
			want:   nil,
		},
		{
			name:   "no templates",
			source: "const a = `plain ${b}`;",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := js.AcquireParser()
			defer js.ReleaseParser(parser)
			assert.Equal(t, tt.want, parser.FindRegions(tt.source, langs))
		})
	}
}
