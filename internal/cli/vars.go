package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/embedcss/internal/parser"
	"bennypowers.dev/embedcss/internal/parser/common"
	"bennypowers.dev/embedcss/internal/position"
)

func newVarsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vars [paths...]",
		Short: "List custom properties and var() references",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(args, a.cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, file := range files {
				doc, _, err := a.load(file)
				if err != nil {
					return err
				}
				for _, frag := range doc.Fragments() {
					result, err := parser.ScanVariables(common.Region{Content: frag.Content, Kind: frag.Kind})
					if err != nil {
						return fmt.Errorf("%s: %w", file, err)
					}
					result.Map(position.NewMapper(frag.Start))

					for _, v := range result.Variables {
						fmt.Fprintf(w, "%s:%s\t%s\t%s\t%s\n", file, v.Range.Start, v.Type, v.Name, v.Value)
					}
					for _, vc := range result.VarCalls {
						fallback := ""
						if vc.Fallback != nil {
							fallback = *vc.Fallback
						}
						fmt.Fprintf(w, "%s:%s\t%s\t%s\t%s\n", file, vc.Range.Start, vc.Type, vc.Name, fallback)
					}
				}
			}
			return nil
		},
	}
}
