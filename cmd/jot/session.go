package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jothq/jot/pkg/presenter"
	"github.com/jothq/jot/pkg/sessions"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage agent sessions",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List session records in the history folder",
	RunE: func(cmd *cobra.Command, _ []string) error {
		v, err := openVault()
		if err != nil {
			presenter.Error(err, "Failed to open vault")
			return err
		}
		manager := newSessionManager(v)

		summaries := manager.ListSessions(cmd.Context())
		if len(summaries) == 0 {
			presenter.Info("No sessions found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TITLE\tTYPE\tLAST ACTIVE\tPATH")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Title, s.Type, s.LastActive.Format("2006-01-02 15:04"), s.Path)
		}
		return w.Flush()
	},
}

var sessionNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new agent session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			presenter.Error(err, "Failed to open vault")
			return err
		}
		manager := newSessionManager(v)

		title := ""
		if len(args) > 0 {
			title = args[0]
		}

		var opts *sessions.CreateOptions
		contextPaths, _ := cmd.Flags().GetStringSlice("context")
		if len(contextPaths) > 0 {
			opts = &sessions.CreateOptions{}
			for _, p := range contextPaths {
				entry := v.GetByPath(p)
				if entry == nil || entry.IsDir {
					presenter.Warning(fmt.Sprintf("context note %q not found, skipping", p))
					continue
				}
				opts.ContextFiles = append(opts.ContextFiles, entry)
			}
		}

		session := manager.CreateAgentSession(title, opts)
		if err := manager.SaveSession(cmd.Context(), session); err != nil {
			presenter.Error(err, "Failed to save session")
			return err
		}

		presenter.Success(fmt.Sprintf("Created session %q at %s", session.Title, session.HistoryPath))
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <record-path>",
	Short: "Show a session record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			presenter.Error(err, "Failed to open vault")
			return err
		}
		manager := newSessionManager(v)

		entry := v.GetByPath(args[0])
		if entry == nil || entry.IsDir {
			err := fmt.Errorf("no session record at %s", args[0])
			presenter.Error(err, "Failed to load session")
			return err
		}

		session, err := manager.LoadSessionFromFile(cmd.Context(), entry)
		if err != nil {
			presenter.Error(err, "Failed to load session")
			return err
		}

		presenter.Section(session.Title)
		presenter.Info(fmt.Sprintf("id: %s", session.ID))
		presenter.Info(fmt.Sprintf("type: %s", session.Type))
		if session.SourceNotePath != "" {
			presenter.Info(fmt.Sprintf("source note: %s", session.SourceNotePath))
		}
		presenter.Info(fmt.Sprintf("context depth: %d", session.Context.ContextDepth))
		for _, f := range session.Context.ContextFiles {
			presenter.Info(fmt.Sprintf("context: %s", f.Path))
		}
		for _, t := range session.Context.EnabledTools {
			presenter.Info(fmt.Sprintf("tool: %s", t))
		}
		presenter.Info(fmt.Sprintf("last active: %s", session.LastActive.Format("2006-01-02 15:04")))
		return nil
	},
}

func init() {
	sessionNewCmd.Flags().StringSlice("context", nil, "Context note paths to seed the session with")

	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionNewCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	rootCmd.AddCommand(sessionCmd)
}
