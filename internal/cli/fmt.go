package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/embedcss/internal/fsutil"
	"bennypowers.dev/embedcss/internal/log"
	"bennypowers.dev/embedcss/internal/transform"
)

type fmtOptions struct {
	write           bool
	check           bool
	normalizeColors bool
}

func newFmtCommand(a *app) *cobra.Command {
	opts := &fmtOptions{}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format embedded stylesheets",
		Long: `fmt reformats every <style> element, css fence and css template in place,
leaving the host document around them untouched. Style attributes are kept
as they are. By default the result is printed; use --write to rewrite files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFmt(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "write results back to the files")
	cmd.Flags().BoolVar(&opts.check, "check", false, "report files that are not formatted")
	cmd.Flags().BoolVar(&opts.normalizeColors, "normalize-colors", false, "rewrite colors in the configured color format")
	return cmd
}

func (a *app) runFmt(cmd *cobra.Command, args []string, opts *fmtOptions) error {
	files, err := collectFiles(args, a.cfg)
	if err != nil {
		return err
	}

	plugins := []transform.Plugin{transform.Formatter{Indent: a.cfg.Format.Indent}}
	if opts.normalizeColors || a.cfg.Format.NormalizeColors {
		plugins = append(plugins, transform.ColorNormalizer{Format: a.cfg.ColorFormat()})
	}

	w := cmd.OutOrStdout()
	unformatted := 0
	for _, file := range files {
		doc, text, err := a.load(file)
		if err != nil {
			return err
		}
		if err := transform.Run(doc, plugins...); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		result := doc.String()

		switch {
		case opts.check:
			if result != text {
				fmt.Fprintln(w, file)
				unformatted++
			}
		case opts.write:
			if result == text {
				continue
			}
			if err := fsutil.WriteAtomic(file, []byte(result)); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}
			log.Info("Formatted %s", file)
		default:
			fmt.Fprint(w, result)
		}
	}

	if unformatted > 0 {
		return ErrIssuesFound
	}
	return nil
}
