package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"docforge/internal/report"
	"docforge/internal/watch"
	"docforge/pkg/dataset"
	"docforge/pkg/generator"
	"docforge/pkg/render"
	"docforge/pkg/renderers/docs"
)

var (
	generateDataset      string
	generateOut          string
	generateTemplates    []string
	generateMatch        string
	generateTemplatesDir string
	generateSet          []string
	generateWatch        bool
	generateReport       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render documents from a project description",
	Long: `Generate loads one YAML project description, renders each requested
template against it, and writes the documents to the output directory.
Without --templates every available template is rendered. The exit status
is non-zero when any document failed.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		datasetPath := generateDataset
		if datasetPath == "" {
			datasetPath = currentProjectDataset()
		}

		extra, err := parseSetValues(generateSet)
		if err != nil {
			fatal("invalid --set value", err)
		}

		templates, err := resolveTemplates(generateTemplates, generateMatch, generateTemplatesDir)
		if err != nil {
			fatal("resolve templates", err)
		}

		var genOpts []generator.Option
		if generateTemplatesDir != "" {
			genOpts = append(genOpts, generator.WithTemplatesDir(generateTemplatesDir))
		}
		gen := generator.New(genOpts...)

		req := generator.Request{
			Source:        dataset.SourceFromFile(datasetPath),
			Templates:     templates,
			OutputDir:     generateOut,
			RenderOptions: render.RenderOptions{Extra: extra},
		}
		mode := report.ParseMode(generateReport)

		if !generateWatch {
			result, err := gen.Generate(cmd.Context(), req)
			if err != nil {
				fatal("generate", err)
			}
			fmt.Println(report.Batch(result, mode))
			if result.Failed() {
				os.Exit(1)
			}
			return
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runBatch := func(ctx context.Context) {
			result, err := gen.Generate(ctx, req)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Error("generation failed", slog.Any("error", err))
				return
			}
			fmt.Println(report.Batch(result, mode))
		}

		runBatch(ctx)

		paths := []string{datasetPath}
		if generateTemplatesDir != "" {
			paths = append(paths, generateTemplatesDir)
		}
		if err := watch.Run(ctx, watch.Config{
			Paths:    paths,
			OnChange: runBatch,
		}); err != nil {
			fatal("watch", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateDataset, "dataset", "d", "", "Path to the YAML project description (defaults to the current project)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "out", "Output directory for rendered documents")
	generateCmd.Flags().StringSliceVarP(&generateTemplates, "templates", "t", nil, "Templates to render (default: all)")
	generateCmd.Flags().StringVar(&generateMatch, "match", "", "Render only templates matching this glob")
	generateCmd.Flags().StringVar(&generateTemplatesDir, "templates-dir", "", "Load templates from a directory instead of the embedded bundle")
	generateCmd.Flags().StringArrayVar(&generateSet, "set", nil, "Extra context values as key=value (repeatable)")
	generateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Re-render when the dataset or templates change")
	generateCmd.Flags().StringVar(&generateReport, "report", "ascii", "Result table format: ascii or markdown")
}

// currentProjectDataset falls back to the active registry project when no
// dataset path was given.
func currentProjectDataset() string {
	store, err := openRegistry()
	if err != nil {
		fatal("open project registry", err)
	}
	current, ok := store.Current()
	if !ok {
		fatal("no dataset", fmt.Errorf("pass --dataset or select a project with %q", "docforge project use"))
	}
	if current.Path == "" {
		fatal("no dataset", fmt.Errorf("current project %q has no dataset path", current.Name))
	}
	return current.Path
}

// resolveTemplates applies the --match filter against the renderer's template
// list. Explicit --templates names pass through untouched.
func resolveTemplates(names []string, match, templatesDir string) ([]string, error) {
	if len(names) > 0 {
		return names, nil
	}
	if match == "" {
		return nil, nil
	}

	var docsOpts []docs.Option
	if templatesDir != "" {
		docsOpts = append(docsOpts, docs.WithTemplatesDir(templatesDir))
	}
	renderer, err := docs.New(docsOpts...)
	if err != nil {
		return nil, err
	}
	available, err := renderer.Templates()
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, name := range available {
		ok, err := doublestar.Match(match, name)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", match, err)
		}
		if ok {
			matched = append(matched, name)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("no templates match %q", match)
	}
	return matched, nil
}

// parseSetValues turns repeated key=value flags into the extra context map.
func parseSetValues(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	extra := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		extra[key] = value
	}
	return extra, nil
}
