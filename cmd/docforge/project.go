package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"docforge/internal/prompt"
	"docforge/internal/report"
	"docforge/pkg/registry"
)

var (
	projectName        string
	projectPath        string
	projectDescription string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage registered projects",
	Long: `Projects are named pointers at dataset files. Registering one lets
"docforge generate" run without --dataset by following the current project.`,
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new project",
	Long:  `Create registers a project. Missing fields are collected interactively.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		details := prompt.ProjectDetails{
			Name:        projectName,
			Path:        projectPath,
			Description: projectDescription,
		}

		if details.Name == "" || details.Path == "" {
			collected, err := prompt.CollectProjectDetails(cmd.Context(), prompt.NewDriver(), details)
			if errors.Is(err, prompt.ErrAborted) {
				fmt.Println("aborted")
				return
			}
			if err != nil {
				fatal("collect project details", err)
			}
			details = collected
		}

		store, err := openRegistry()
		if err != nil {
			fatal("open project registry", err)
		}

		record, err := store.Create(details.Name, details.Path, details.Description)
		if err != nil {
			fatal("create project", err)
		}

		// The first registered project becomes current so generate works
		// immediately.
		if _, hasCurrent := store.Current(); !hasCurrent {
			if _, err := store.SetCurrent(record.ID); err != nil {
				fatal("select project", err)
			}
		}

		fmt.Printf("Registered project %q (%s)\n", record.Name, record.ID)
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered projects",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openRegistry()
		if err != nil {
			fatal("open project registry", err)
		}

		records := store.Records()
		if len(records) == 0 {
			fmt.Println("no projects registered")
			return
		}

		currentID := ""
		if current, ok := store.Current(); ok {
			currentID = current.ID
		}
		fmt.Println(report.Projects(records, currentID, report.ASCII))
	},
}

var projectCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current project",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openRegistry()
		if err != nil {
			fatal("open project registry", err)
		}

		current, ok := store.Current()
		if !ok {
			fmt.Println("no current project (select one with \"docforge project use <id>\")")
			return
		}
		fmt.Printf("%s\t%s\t%s\n", current.ID, current.Name, current.Path)
	},
}

var projectUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Select the current project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openRegistry()
		if err != nil {
			fatal("open project registry", err)
		}

		id := args[0]
		ok, err := store.SetCurrent(id)
		if err != nil {
			fatal("select project", err)
		}
		if !ok {
			fatal("select project", fmt.Errorf("%w: %s", registry.ErrProjectNotFound, id))
		}

		record, _ := store.Get(id)
		fmt.Printf("Current project is now %q\n", record.Name)
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCurrentCmd)
	projectCmd.AddCommand(projectUseCmd)

	projectCreateCmd.Flags().StringVar(&projectName, "name", "", "Project name")
	projectCreateCmd.Flags().StringVar(&projectPath, "path", "", "Path to the project's YAML description")
	projectCreateCmd.Flags().StringVar(&projectDescription, "description", "", "Short project description")
}
