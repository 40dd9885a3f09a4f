package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type fragmentJSON struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Offset  int    `json:"offset"`
	Kind    string `json:"kind"`
	Dialect string `json:"dialect"`
	Bytes   int    `json:"bytes"`
}

func newFragmentsCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fragments [paths...]",
		Short: "List the stylesheets embedded in files",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(args, a.cfg)
			if err != nil {
				return err
			}

			out := []fragmentJSON{}
			for _, file := range files {
				doc, _, err := a.load(file)
				if err != nil {
					return err
				}
				for _, frag := range doc.Fragments() {
					out = append(out, fragmentJSON{
						File:    file,
						Line:    frag.Start.Line,
						Column:  frag.Start.Column,
						Offset:  frag.Start.Offset,
						Kind:    frag.Kind.String(),
						Dialect: frag.Dialect.String(),
						Bytes:   len(frag.Content),
					})
				}
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			for _, f := range out {
				fmt.Fprintf(w, "%s:%d:%d\t%s\t%s\t%d\n", f.File, f.Line, f.Column, f.Kind, f.Dialect, f.Bytes)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print fragments as JSON")
	return cmd
}
