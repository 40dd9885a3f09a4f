// Package syntax extracts the stylesheets embedded in HTML, Markdown and
// JavaScript documents and puts them back.
//
// Parse locates every embedded stylesheet, parses it into a
// *stylesheet.Root whose node sources point into the host document, and
// returns a Document holding those roots. Editing the roots and calling
// Document.String reproduces the host document with only the edits applied.
package syntax

import (
	"errors"
	"fmt"
	"maps"

	"bennypowers.dev/embedcss/internal/collections"
	"bennypowers.dev/embedcss/internal/log"
	"bennypowers.dev/embedcss/internal/parser"
	"bennypowers.dev/embedcss/internal/parser/common"
	"bennypowers.dev/embedcss/internal/position"
	"bennypowers.dev/embedcss/stylesheet"
)

// Lang is the language of a host document.
type Lang = parser.Lang

const (
	HTML     = parser.HTML
	Markdown = parser.Markdown
	JS       = parser.JS
)

// Kind tells where in the host document a fragment was found.
type Kind = common.RegionKind

const (
	StyleTag       = common.StyleTag
	StyleAttribute = common.StyleAttribute
	CodeFence      = common.CodeFence
	TaggedTemplate = common.TaggedTemplate
)

// Options configure Parse.
type Options struct {
	// From is the file name of the document. Its extension picks the host
	// language unless Lang is set.
	From string
	// Lang overrides the host language.
	Lang Lang
	// Dialects maps the tags that mark a stylesheet (a fence info string,
	// a lang or type attribute) to the dialect it is parsed with.
	// Nil means DefaultDialects.
	Dialects map[string]stylesheet.Dialect
}

// DefaultDialects returns the recognized stylesheet tags.
func DefaultDialects() map[string]stylesheet.Dialect {
	return map[string]stylesheet.Dialect{
		"css":     stylesheet.CSS,
		"pcss":    stylesheet.CSS,
		"postcss": stylesheet.CSS,
		"scss":    stylesheet.SCSS,
		"less":    stylesheet.Less,
	}
}

// Parse reads every embedded stylesheet of text. A fragment that is not a
// valid stylesheet fails the whole parse with a *FragmentParseError.
// Markup the locators cannot make sense of is not an error; it just
// contains no fragments.
func Parse(text string, opts Options) (*Document, error) {
	lang := opts.Lang
	if lang == "" {
		lang = parser.LangFromFilename(opts.From)
	}
	dialects := opts.Dialects
	if dialects == nil {
		dialects = DefaultDialects()
	} else {
		dialects = maps.Clone(dialects)
	}

	regions := parser.FindRegions(text, lang, collections.SetOf(dialects))
	log.Debug("Found %d stylesheet regions in %q", len(regions), opts.From)

	doc := &Document{
		source: Source{Lang: lang, File: opts.From, Text: text},
		frags:  make(map[*stylesheet.Root]*Fragment, len(regions)),
	}
	index := position.NewIndex(text)
	doc.index = index

	prev := 0
	for _, region := range regions {
		if region.Start < prev {
			log.Debug("Skipping region at byte %d overlapping the previous one", region.Start)
			continue
		}

		frag := &Fragment{
			Index:      len(doc.fragments),
			Kind:       region.Kind,
			Lang:       region.Lang,
			Dialect:    dialectOf(region, dialects),
			Start:      index.At(region.Start),
			End:        region.End,
			Content:    region.Content,
			CodeBefore: text[prev:region.Start],
		}

		root, err := parseFragment(frag, opts.From)
		if err != nil {
			return nil, err
		}

		doc.fragments = append(doc.fragments, frag)
		doc.frags[root] = frag
		stylesheet.SetOwner(root, doc)
		doc.nodes = append(doc.nodes, root)
		prev = region.End
	}
	doc.codeAfter = text[prev:]

	return doc, nil
}

func dialectOf(region common.Region, dialects map[string]stylesheet.Dialect) stylesheet.Dialect {
	if region.Kind == common.StyleAttribute {
		return stylesheet.CSS
	}
	return dialects[common.NormalizeLang(region.Lang)]
}

// parseFragment parses the content of frag and moves every node source into
// host document coordinates.
func parseFragment(frag *Fragment, file string) (*stylesheet.Root, error) {
	mapper := position.NewMapper(frag.Start)

	root, err := stylesheet.Parse(frag.Content, stylesheet.Options{
		Dialect: frag.Dialect,
		File:    file,
	})
	if err != nil {
		var syntaxErr *stylesheet.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, newFragmentParseError(file, frag, mapper.ToOuter(syntaxErr.Position()), syntaxErr)
		}
		return nil, fmt.Errorf("parsing fragment %d of %s: %w", frag.Index, file, err)
	}

	mapSource(root, mapper)
	_ = root.Walk(func(n stylesheet.Node) error {
		mapSource(n, mapper)
		return nil
	})
	return root, nil
}

func mapSource(n stylesheet.Node, mapper position.Mapper) {
	src := n.Source()
	src.Start = mapper.ToOuter(src.Start)
	src.End = mapper.ToOuter(src.End)
	n.SetSource(src)
}
