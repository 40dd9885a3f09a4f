// Package transform runs plugins over the stylesheets of a document.
package transform

import (
	"fmt"

	"bennypowers.dev/embedcss/internal/log"
	"bennypowers.dev/embedcss/stylesheet"
	"bennypowers.dev/embedcss/syntax"
)

// Plugin edits one stylesheet root. frag describes where the root came
// from; roots added to the document after parsing get a zero Fragment with
// Index -1.
type Plugin interface {
	Root(root *stylesheet.Root, frag syntax.Fragment) error
}

// PluginFunc adapts a function to Plugin.
type PluginFunc func(root *stylesheet.Root, frag syntax.Fragment) error

func (f PluginFunc) Root(root *stylesheet.Root, frag syntax.Fragment) error {
	return f(root, frag)
}

// Run applies plugins in order to every stylesheet root of doc, stopping
// at the first error.
func Run(doc *syntax.Document, plugins ...Plugin) error {
	for _, plugin := range plugins {
		for _, root := range doc.Roots() {
			frag, ok := doc.FragmentOf(root)
			if !ok {
				frag = syntax.Fragment{Index: -1}
			}
			log.Debug("Running %T on fragment %d of %s", plugin, frag.Index, doc.Source().File)
			if err := plugin.Root(root, frag); err != nil {
				return fmt.Errorf("%T on fragment %d: %w", plugin, frag.Index, err)
			}
		}
	}
	return nil
}
