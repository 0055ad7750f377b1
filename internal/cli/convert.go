package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/adocast/internal/logging"
	"github.com/yaklabco/adocast/internal/ui/pretty"
	"github.com/yaklabco/adocast/pkg/analysis"
	"github.com/yaklabco/adocast/pkg/asciidoc"
	"github.com/yaklabco/adocast/pkg/config"
	"github.com/yaklabco/adocast/pkg/fsutil"
	"github.com/yaklabco/adocast/pkg/runner"
)

type convertFlags struct {
	outDir         string
	report         string
	jobs           int
	ignore         []string
	maxDepth       int
	detectLanguage bool
	noCache        bool
	compact        bool
	strict         bool
	followSymlinks bool
	quiet          bool
}

func newConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [paths...]",
		Short: "Convert many AsciiDoc files to JSON trees",
		Long:  convertLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.outDir, "out-dir", "d", "", "directory receiving one JSON file per document")
	cmd.Flags().StringVar(&flags.report, "report", "", "write a JSON report of node counts and error nodes to a file")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = number of CPUs)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip, added to the configured ones")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", asciidoc.DefaultMaxDepth,
		"maximum nesting of example blocks and asciidoc table cells")
	cmd.Flags().BoolVar(&flags.detectLanguage, "detect-language", false,
		"guess the language of listing blocks without a source attribute")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "do not share inlined image files between documents")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "write JSON without indentation")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail when any tree contains error nodes")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "do not print the summary line")

	return cmd
}

const convertLongDescription = `Convert AsciiDoc files to JSON trees in parallel.

Directories are searched recursively for .adoc, .asciidoc and .asc files.
Hidden files and directories are skipped. Each document is written under
--out-dir at its path relative to the working directory, with a .json
extension. Without --out-dir the files are only parsed and checked.

Examples:
  adocast convert docs -d build/ast          # Mirror docs/ as JSON
  adocast convert . --ignore "vendor/**"     # Check every document
  adocast convert docs --strict -j 4         # Exit 2 on any error node
  adocast convert docs --report errors.json  # List every error node`

func (f *convertFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{}

	changed := cmd.Flags().Changed
	if changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if changed("detect-language") {
		cfg.DetectLanguage = config.Bool(f.detectLanguage)
	}
	if changed("no-cache") {
		cfg.CacheFiles = config.Bool(!f.noCache)
	}

	return cfg
}

func runConvert(cmd *cobra.Command, paths []string, flags *convertFlags) error {
	if cmd.Flags().Changed("max-depth") && flags.maxDepth <= 0 {
		return fmt.Errorf("%w: --max-depth must be positive", ErrInvalidUsage)
	}
	if flags.jobs < 0 {
		return fmt.Errorf("%w: --jobs must not be negative", ErrInvalidUsage)
	}

	loadResult, err := loadConfig(commandContext(cmd), cmd, flags.cliConfig(cmd))
	if err != nil {
		return err
	}
	cfg := loadResult.Config

	ctx, err := commandLogger(cmd, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	opts := runner.Options{
		Paths:          paths,
		ExcludeGlobs:   append(slices.Clone(cfg.Ignore), flags.ignore...),
		FollowSymlinks: flags.followSymlinks,
		Jobs:           cfg.Jobs,
		Reader:         cfg.ReaderOptions(),
		CacheFiles:     cfg.CacheFilesEnabled(),
		OutDir:         flags.outDir,
		Compact:        flags.compact,
	}

	result, err := runner.New(asciidoc.NewReader()).Run(ctx, opts)
	if err != nil {
		return err
	}

	wd, _ := os.Getwd()

	if flags.report != "" {
		if err := writeReport(ctx, result, wd, flags.report); err != nil {
			return err
		}
	}

	stderr := cmd.ErrOrStderr()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), stderr))

	for _, outcome := range result.Files {
		if outcome.Error == nil {
			continue
		}
		if _, err := io.WriteString(stderr, styles.FormatFailure(displayPath(wd, outcome.Path), outcome.Error)); err != nil {
			return fmt.Errorf("write failure: %w", err)
		}
	}

	if !flags.quiet {
		out := cmd.OutOrStdout()
		summaryStyles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))
		if _, err := io.WriteString(out, summaryStyles.FormatConvertSummary(result.Stats)); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%w: %d of %d", ErrConvertFailures, result.Stats.FilesErrored, result.Stats.FilesDiscovered)
	}
	if flags.strict && result.HasErrorNodes() {
		return fmt.Errorf("%w: %d in %d files", ErrDocumentErrors, result.Stats.ErrorNodes, result.Stats.FilesWithErrorNodes)
	}

	return nil
}

func writeReport(ctx context.Context, result *runner.Result, wd, path string) error {
	opts := analysis.DefaultOptions()
	opts.WorkingDir = wd

	var buf bytes.Buffer
	if err := analysis.Analyze(result, opts).WriteJSON(&buf); err != nil {
		return err
	}

	if _, err := fsutil.WriteFile(ctx, path, buf.Bytes(), fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logging.FromContext(ctx).Debug("wrote report", logging.FieldOutput, path)
	return nil
}

// displayPath shortens path relative to wd when it lies below it.
func displayPath(wd, path string) string {
	if wd == "" {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || !filepath.IsLocal(rel) {
		return path
	}
	return rel
}
