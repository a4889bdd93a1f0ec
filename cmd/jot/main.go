// Command jot is the CLI host for the note-vault agent layer: it manages
// agent sessions and skills stored inside a markdown vault.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jothq/jot/pkg/logger"
	"github.com/jothq/jot/pkg/presenter"
	"github.com/jothq/jot/pkg/sessions"
	"github.com/jothq/jot/pkg/skills"
	"github.com/jothq/jot/pkg/telemetry"
	"github.com/jothq/jot/pkg/tools"
	"github.com/jothq/jot/pkg/vault"
	"github.com/jothq/jot/pkg/version"
)

func init() {
	viper.SetEnvPrefix("JOT")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.jot")
	viper.AddConfigPath(".")

	viper.SetDefault("vault", ".")
	viper.SetDefault("state_folder", "jot")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("tracing.enabled", false)

	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "jot",
	Short: "Agent layer for a markdown note vault",
	Long: `jot lets a model carry on multi-turn sessions over a markdown note vault
through a bounded set of tools, augmented by reusable skills.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if level, err := cmd.Flags().GetString("log-level"); err == nil && level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				presenter.Warning("invalid log level, using default")
			}
		}
		if format, err := cmd.Flags().GetString("log-format"); err == nil && format != "" {
			logger.SetLogFormat(format)
		}
	},
}

func main() {
	ctx := context.Background()

	shutdown, err := telemetry.InitTracer(ctx, telemetry.Config{
		Enabled:        viper.GetBool("tracing.enabled"),
		ServiceName:    "jot",
		ServiceVersion: version.Version,
	})
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to initialize tracing")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.G(ctx).WithError(err).Debug("tracing shutdown failed")
			}
		}()
	}

	rootCmd.PersistentFlags().String("log-level", viper.GetString("log_level"), "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", viper.GetString("log_format"), "Log format (text, json)")
	rootCmd.PersistentFlags().String("vault", viper.GetString("vault"), "Path to the note vault root")
	_ = viper.BindPFlag("vault", rootCmd.PersistentFlags().Lookup("vault"))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// openVault opens the configured vault root.
func openVault() (*vault.Dir, error) {
	return vault.NewDir(viper.GetString("vault"))
}

// newSessionManager wires a session manager over the configured vault.
func newSessionManager(v vault.Vault) *sessions.Manager {
	return sessions.NewManager(v, viper.GetString("state_folder"), tools.DefaultToolNames())
}

// newSkillStore wires a skill store over the configured vault.
func newSkillStore(v vault.Vault) *skills.Store {
	return skills.NewStore(v, viper.GetString("state_folder"))
}
