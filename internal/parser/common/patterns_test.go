package common_test

import (
	"testing"

	"bennypowers.dev/embedcss/internal/parser/common"
	"github.com/stretchr/testify/assert"
)

func TestIsDeclarationList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"single declaration", "color: red", true},
		{"trailing semicolon", "font-family: serif, serif;", true},
		{"several declarations", "color: red; margin: 0 auto;", true},
		{"vendor prefix", "-webkit-appearance: none", true},
		{"custom property", "--gap: 4px; gap: var(--gap)", true},
		{"semicolon in string", `content: "a;b"; color: red`, true},
		{"semicolon in url", "background: url(data:image/png;base64,AA)", true},
		{"colon inside function", "background: url(http://x/y.png)", true},
		{"empty", "", true},
		{"blank", "   ", true},
		{"jsx binding", "{divStyle}", false},
		{"jsx object", "{{ height: '10%' }}", false},
		{"mustache", "color: {{ color }}", false},
		{"template literal", "color: ${color}", false},
		{"erb", "color: <%= color %>", false},
		{"function call", "createMarkup()", false},
		{"bare word", "red", false},
		{"missing colon", "color: red; margin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, common.IsDeclarationList(tt.value))
		})
	}
}

func TestSplitDeclarations(t *testing.T) {
	assert.Equal(t, []string{"a: 1", " b: '2;3'", " c: f(4;5)", ""},
		common.SplitDeclarations("a: 1; b: '2;3'; c: f(4;5);"))
	assert.Equal(t, []string{`a: "x\";y"`}, common.SplitDeclarations(`a: "x\";y"`))
}

func TestNormalizeLang(t *testing.T) {
	tests := map[string]string{
		"text/less":   "less",
		"text/x-scss": "scss",
		"text/css":    "css",
		" SCSS ":      "scss",
		"postcss":     "postcss",
		"":            "",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, common.NormalizeLang(in))
		})
	}
}
