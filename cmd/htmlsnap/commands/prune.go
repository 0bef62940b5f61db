package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/htmlsnap/internal/logger"
	"github.com/jmylchreest/htmlsnap/internal/output"
	"github.com/jmylchreest/htmlsnap/pkg/livedoc"
	"github.com/jmylchreest/htmlsnap/pkg/selector"
	"github.com/jmylchreest/htmlsnap/pkg/stylesheet"
)

var pruneCmd = &cobra.Command{
	Use:   "prune-css --html <page.html> <style.css>...",
	Short: "Drop CSS rules that match nothing in a page",
	Long: `Prune stylesheets against a static HTML page.

Each stylesheet is cleaned on its own, in argument order, and the results
are concatenated. /*! ... */ comments are kept at the top of the output.

Examples:
  htmlsnap prune-css --html page.html theme.css > theme.min.css
  htmlsnap prune-css --html page.html a.css b.css -o used.css --stats`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	flags := pruneCmd.Flags()
	flags.String("html", "", "HTML page selectors are matched against (required)")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("stats", "", "write pruning stats to stderr: json, yaml, text")

	_ = pruneCmd.MarkFlagRequired("html")
}

func runPrune(cmd *cobra.Command, args []string) error {
	initLogger(cmd)

	v, err := loadVocabulary()
	if err != nil {
		return err
	}

	htmlPath, _ := cmd.Flags().GetString("html")
	page, err := os.Open(htmlPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", htmlPath, err)
	}
	defer func() { _ = page.Close() }()

	doc, err := livedoc.NewStatic(page)
	if err != nil {
		return err
	}

	raws := make([]string, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		raws = append(raws, string(data))
	}

	checker := selector.NewChecker(doc, v)
	css, stats, err := stylesheet.NewPruner().Prune(raws, checker.Check)
	if err != nil {
		logger.Error("prune failed", "error", err)
		return err
	}
	if err := checker.Err(); err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("output")
	if err := writeOutput(cmd, outPath, css); err != nil {
		return err
	}

	if name, _ := cmd.Flags().GetString("stats"); name != "" {
		format, err := output.ParseFormat(name)
		if err != nil {
			return err
		}
		w, err := output.NewWriter(os.Stderr, format)
		if err != nil {
			return err
		}
		if err := w.Write(stats); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	logInfo("Pruned %d sheet(s): %s -> %s, %d selector(s) could not be evaluated",
		stats.Sheets, humanize.Bytes(uint64(stats.InputBytes)), humanize.Bytes(uint64(stats.OutputBytes)),
		len(checker.Warnings()))
	return nil
}
