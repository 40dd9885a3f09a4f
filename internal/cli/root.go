// Package cli provides the Cobra command structure for embedcss.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bennypowers.dev/embedcss/internal/config"
	"bennypowers.dev/embedcss/internal/log"
	"bennypowers.dev/embedcss/internal/parser"
	"bennypowers.dev/embedcss/syntax"
)

// ErrIssuesFound is returned when a command found problems it already
// reported. It only signals the exit code.
var ErrIssuesFound = errors.New("issues found")

// app holds the state shared by every command.
type app struct {
	debug      bool
	configPath string
	lang       string

	cfg *config.Config
}

// NewRootCommand creates the root embedcss command with all subcommands.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "embedcss",
		Short: "Work with the stylesheets embedded in HTML, Markdown and JavaScript",
		Long: `embedcss finds the stylesheets embedded in other documents: <style>
elements and style attributes in HTML, fenced css, scss and less blocks in
Markdown, and css tagged templates in JavaScript. It can list them, check that
they parse, format them and report their custom properties, writing every
other byte of the document back unchanged.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&a.lang, "lang", "", "host language for every file: html, markdown or js")

	rootCmd.AddCommand(newFragmentsCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newFmtCommand(a))
	rootCmd.AddCommand(newVarsCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func (a *app) setup() error {
	if a.debug {
		log.SetLevel(log.LevelDebug)
	}
	if a.lang != "" {
		if _, err := parser.ParseLang(a.lang); err != nil {
			return err
		}
	}

	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load(".")
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.cfg.Path != "" {
		log.Debug("Using config %s", a.cfg.Path)
	}
	return nil
}

// options returns the parse options for the file at path.
func (a *app) options(path string) (syntax.Options, error) {
	dialects, err := a.cfg.DialectMap()
	if err != nil {
		return syntax.Options{}, err
	}
	opts := syntax.Options{From: path, Dialects: dialects}
	if a.lang != "" {
		opts.Lang, err = parser.ParseLang(a.lang)
		if err != nil {
			return syntax.Options{}, err
		}
	}
	return opts, nil
}

// load reads and parses one file.
func (a *app) load(path string) (*syntax.Document, string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: paths come from the command line
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	opts, err := a.options(path)
	if err != nil {
		return nil, "", err
	}
	text := string(data)
	doc, err := syntax.Parse(text, opts)
	return doc, text, err
}
