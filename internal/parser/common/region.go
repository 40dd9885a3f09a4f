package common

import (
	"fmt"
	"slices"
)

// RegionKind identifies where an embedded stylesheet was found.
type RegionKind int

const (
	// UnknownRegion is the zero value, indicating an uninitialized region kind
	UnknownRegion RegionKind = iota
	// StyleTag is the body of a <style> element
	StyleTag
	// StyleAttribute is the value of a style="..." attribute
	StyleAttribute
	// CodeFence is the body of a fenced Markdown code block
	CodeFence
	// TaggedTemplate is the body of a css`...` template literal
	TaggedTemplate
)

func (k RegionKind) String() string {
	switch k {
	case StyleTag:
		return "style-tag"
	case StyleAttribute:
		return "style-attribute"
	case CodeFence:
		return "code-fence"
	case TaggedTemplate:
		return "tagged-template"
	default:
		return "unknown"
	}
}

func (k RegionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *RegionKind) UnmarshalText(b []byte) error {
	for _, kind := range []RegionKind{UnknownRegion, StyleTag, StyleAttribute, CodeFence, TaggedTemplate} {
		if kind.String() == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown region kind %q", b)
}

// Region is a span of host text holding stylesheet source.
// Start and End are byte offsets into the host text, End exclusive, and
// Content is always text[Start:End].
type Region struct {
	Content string     `json:"content"`
	Start   int        `json:"start"`
	End     int        `json:"end"`
	Kind    RegionKind `json:"kind"`
	// Lang is the normalized dialect tag, e.g. "css" or "less".
	Lang string `json:"lang"`
}

// Shift moves a region found in a substring into the coordinates of the
// text that contains the substring at offset.
func (r Region) Shift(offset int) Region {
	r.Start += offset
	r.End += offset
	return r
}

// Overlaps reports whether the region touches [start, end). Empty regions
// count as occupying their start offset.
func (r Region) Overlaps(start, end int) bool {
	return r.Start < end && max(r.End, r.Start+1) > start
}

// SortRegions orders regions by start offset, keeping discovery order for ties.
func SortRegions(regions []Region) {
	slices.SortStableFunc(regions, func(a, b Region) int {
		return a.Start - b.Start
	})
}
