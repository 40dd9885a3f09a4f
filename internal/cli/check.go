package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/embedcss/internal/log"
	"bennypowers.dev/embedcss/syntax"
)

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check that embedded stylesheets parse and round-trip",
		Long: `check parses every embedded stylesheet and reports syntax errors at their
position in the host file. It also verifies that printing the parsed document
reproduces the file byte for byte.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(args, a.cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			issues := 0
			for _, file := range files {
				doc, text, err := a.load(file)
				var fpe *syntax.FragmentParseError
				switch {
				case errors.As(err, &fpe):
					fmt.Fprintln(w, fpe.Error())
					issues++
					continue
				case err != nil:
					return err
				}
				if doc.String() != text {
					fmt.Fprintf(w, "%s: output differs from input\n", file)
					issues++
					continue
				}
				log.Debug("%s: %d fragments ok", file, len(doc.Fragments()))
			}

			if issues > 0 {
				fmt.Fprintf(w, "\n%d of %d files have issues\n", issues, len(files))
				return ErrIssuesFound
			}
			return nil
		},
	}
}
