package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jothq/jot/pkg/presenter"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage agent skills",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed skills",
	RunE: func(cmd *cobra.Command, _ []string) error {
		v, err := openVault()
		if err != nil {
			presenter.Error(err, "Failed to open vault")
			return err
		}
		store := newSkillStore(v)

		discovered := store.DiscoverSkills(cmd.Context())
		if len(discovered) == 0 {
			presenter.Info("No skills installed.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION\tPATH")
		for _, md := range discovered {
			fmt.Fprintf(w, "%s\t%s\t%s\n", md.Name, md.Description, md.Path)
		}
		return w.Flush()
	},
}

var skillNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			presenter.Error(err, "Failed to open vault")
			return err
		}
		store := newSkillStore(v)

		description, _ := cmd.Flags().GetString("description")
		if strings.TrimSpace(description) == "" {
			err := fmt.Errorf("--description is required")
			presenter.Error(err, "Failed to create skill")
			return err
		}

		content, _ := cmd.Flags().GetString("content")
		contentFile, _ := cmd.Flags().GetString("file")
		if contentFile != "" {
			data, err := os.ReadFile(contentFile)
			if err != nil {
				presenter.Error(err, "Failed to read content file")
				return err
			}
			content = string(data)
		}
		if strings.TrimSpace(content) == "" {
			content = "# " + args[0] + "\n\nInstructions go here.\n"
		}

		manifestPath, err := store.CreateSkill(cmd.Context(), args[0], description, content)
		if err != nil {
			presenter.Error(err, "Failed to create skill")
			return err
		}

		presenter.Success(fmt.Sprintf("Created skill %q at %s", args[0], manifestPath))
		return nil
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show <name> [resource-path]",
	Short: "Show a skill's instructions or one of its resources",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			presenter.Error(err, "Failed to open vault")
			return err
		}
		store := newSkillStore(v)
		ctx := cmd.Context()

		if len(args) == 2 {
			content, found := store.ReadSkillResource(ctx, args[0], args[1])
			if !found {
				presenter.Warning(fmt.Sprintf("resource %q not found in skill %q", args[1], args[0]))
				if resources := store.ListSkillResources(ctx, args[0]); len(resources) > 0 {
					presenter.Section("Available resources")
					for _, r := range resources {
						presenter.Info("  " + r)
					}
				}
				return fmt.Errorf("resource not found")
			}
			fmt.Println(content)
			return nil
		}

		content, found := store.LoadSkill(ctx, args[0])
		if !found {
			presenter.Warning(fmt.Sprintf("skill %q not found", args[0]))
			return fmt.Errorf("skill not found")
		}
		fmt.Println(content)

		if resources := store.ListSkillResources(ctx, args[0]); len(resources) > 0 {
			presenter.Section("Resources")
			for _, r := range resources {
				presenter.Info("  " + r)
			}
		}
		return nil
	},
}

func init() {
	skillNewCmd.Flags().StringP("description", "d", "", "What the skill does and when to use it")
	skillNewCmd.Flags().StringP("content", "c", "", "Markdown body of the SKILL.md manifest")
	skillNewCmd.Flags().StringP("file", "f", "", "Read the manifest body from a file")

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillNewCmd)
	skillCmd.AddCommand(skillShowCmd)
	rootCmd.AddCommand(skillCmd)
}
