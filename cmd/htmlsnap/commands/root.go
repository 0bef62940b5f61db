// Package commands implements the CLI commands for htmlsnap.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/htmlsnap/internal/logger"
	"github.com/jmylchreest/htmlsnap/pkg/vocab"
)

var rootCmd = &cobra.Command{
	Use:   "htmlsnap",
	Short: "Export editor documents as self-contained styled HTML",
	Long: `htmlsnap turns a rendered editor document into a single HTML file.

Editor-only scaffolding is stripped from the content, and only the CSS
rules that still match something in the document are kept.

Examples:
  # Export a saved editor page with the dark theme
  htmlsnap export page.html --theme dark -o note.html

  # Render the page in headless Chrome first
  htmlsnap export https://example.com/editor --browser -o note.html

  # Prune stylesheets against a page without exporting
  htmlsnap prune-css --html page.html theme.css editor.css`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.htmlsnap.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("json-logs", false, "write logs as JSON")
	rootCmd.PersistentFlags().String("vocab", "", "YAML file overriding editor class names and selector sets")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	_ = viper.BindPFlag("vocab", rootCmd.PersistentFlags().Lookup("vocab"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".htmlsnap")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("HTMLSNAP")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initLogger configures the package logger from global flags.
func initLogger(cmd *cobra.Command) {
	logger.Init(logger.Options{
		Debug:  viper.GetBool("debug"),
		Quiet:  viper.GetBool("quiet"),
		JSON:   viper.GetBool("json_logs"),
		Output: cmd.ErrOrStderr(),
	})
}

// loadVocabulary returns the vocabulary from --vocab, or the default.
func loadVocabulary() (*vocab.Vocabulary, error) {
	path := viper.GetString("vocab")
	if path == "" {
		return vocab.Default(), nil
	}
	logger.Debug("loading vocabulary", "path", path)
	return vocab.Load(path)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
