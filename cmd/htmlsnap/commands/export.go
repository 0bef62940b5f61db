package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/htmlsnap/internal/logger"
	"github.com/jmylchreest/htmlsnap/internal/output"
	"github.com/jmylchreest/htmlsnap/pkg/export"
	"github.com/jmylchreest/htmlsnap/pkg/fetcher"
)

var exportCmd = &cobra.Command{
	Use:   "export <file|url>",
	Short: "Export an editor document as standalone HTML",
	Long: `Export the editor root of a document as a self-contained HTML page.

Linked stylesheets are fetched, every rule whose selectors match nothing
in the document is dropped, and the result is inlined into one <style>
element ahead of the editor content.

Examples:
  htmlsnap export page.html -o note.html
  htmlsnap export page.html --theme dark --title "Release notes"
  htmlsnap export https://example.com/editor --browser --report text`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	flags := exportCmd.Flags()
	flags.String("theme", "light", "theme class added to the body")
	flags.String("root-id", "", "id of the editor root element (default from vocabulary)")
	flags.String("title", "", "page title (default \"Mark Text\")")
	flags.String("base-url", "", "URL relative stylesheet links resolve against (default: the document's location)")
	flags.Bool("browser", false, "render the document in headless Chrome and query selectors there")
	flags.Duration("timeout", 30*time.Second, "timeout for each stylesheet request and browser action")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("report", "", "write an export report to stderr: json, yaml, text")

	_ = viper.BindPFlag("theme", flags.Lookup("theme"))
	_ = viper.BindPFlag("root_id", flags.Lookup("root-id"))
	_ = viper.BindPFlag("title", flags.Lookup("title"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("report", flags.Lookup("report"))
}

func runExport(cmd *cobra.Command, args []string) error {
	initLogger(cmd)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	v, err := loadVocabulary()
	if err != nil {
		return err
	}
	if rootID := viper.GetString("root_id"); rootID != "" {
		v.EditorID = rootID
	}

	var reportWriter output.Writer
	if name := viper.GetString("report"); name != "" {
		format, err := output.ParseFormat(name)
		if err != nil {
			return err
		}
		if reportWriter, err = output.NewWriter(os.Stderr, format); err != nil {
			return err
		}
	}

	timeout := viper.GetDuration("timeout")
	useBrowser, _ := cmd.Flags().GetBool("browser")
	baseURL, _ := cmd.Flags().GetString("base-url")

	f := fetcher.NewLogging(fetcher.NewStatic(fetcher.StaticConfig{
		Timeout:    timeout,
		AllowFiles: allowLocalFiles(args[0], baseURL),
	}), nil)
	doc, closeDoc, err := openDocument(ctx, args[0], sourceOptions{
		browser: useBrowser,
		baseURL: baseURL,
		timeout: timeout,
		fetcher: f,
	})
	if err != nil {
		logger.Error("failed to open document", "target", args[0], "error", err)
		return err
	}
	defer closeDoc()

	exporter := export.New(
		export.WithVocabulary(v),
		export.WithFetcher(f),
		export.WithTitle(viper.GetString("title")),
	)
	defer func() { _ = exporter.Close() }()

	theme := viper.GetString("theme")
	result, err := exporter.Export(ctx, doc, theme)
	if err != nil {
		logger.Error("export failed", "target", args[0], "error", err)
		return err
	}

	outPath, _ := cmd.Flags().GetString("output")
	if err := writeOutput(cmd, outPath, result.HTML); err != nil {
		return err
	}

	if reportWriter != nil {
		if err := reportWriter.Write(result.Report); err != nil {
			return err
		}
		if err := reportWriter.Flush(); err != nil {
			return err
		}
	}

	logInfo("Exported %s (%s, %d rules kept, %d dropped)",
		coalesce(outPath, "stdout"),
		humanize.Bytes(uint64(len(result.HTML))),
		result.Report.Stylesheet.RulesKept,
		result.Report.Stylesheet.RulesDropped)
	return nil
}

// writeOutput writes data to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path, data string) error {
	if path == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), data)
		return err
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
