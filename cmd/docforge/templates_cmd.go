package main

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"docforge/pkg/renderers/docs"
)

var (
	templatesMatch string
	templatesDir   string
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List resolvable templates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var docsOpts []docs.Option
		if templatesDir != "" {
			docsOpts = append(docsOpts, docs.WithTemplatesDir(templatesDir))
		}
		renderer, err := docs.New(docsOpts...)
		if err != nil {
			fatal("initialise renderer", err)
		}

		names, err := renderer.Templates()
		if err != nil {
			fatal("list templates", err)
		}

		for _, name := range names {
			if templatesMatch != "" {
				ok, err := doublestar.Match(templatesMatch, name)
				if err != nil {
					fatal("bad pattern", err)
				}
				if !ok {
					continue
				}
			}
			fmt.Printf("%s -> %s\n", name, renderer.OutputName(name))
		}
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.Flags().StringVar(&templatesMatch, "match", "", "Only list templates matching this glob")
	templatesCmd.Flags().StringVar(&templatesDir, "templates-dir", "", "Load templates from a directory instead of the embedded bundle")
}
