package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/adocast/internal/logging"
	"github.com/yaklabco/adocast/internal/ui/pretty"
	"github.com/yaklabco/adocast/pkg/asciidoc"
	"github.com/yaklabco/adocast/pkg/ast"
	"github.com/yaklabco/adocast/pkg/config"
	"github.com/yaklabco/adocast/pkg/environment"
	"github.com/yaklabco/adocast/pkg/fsutil"
	"github.com/yaklabco/adocast/pkg/jsonast"
)

type parseFlags struct {
	format         string
	output         string
	maxDepth       int
	detectLanguage bool
	noCache        bool
	compact        bool
	summary        bool
	strict         bool
}

func newParseCommand() *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse an AsciiDoc document",
		Long:  parseLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runParse(cmd, path, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatJSON), "output format: json, tree")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write output to a file instead of stdout")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", asciidoc.DefaultMaxDepth,
		"maximum nesting of example blocks and asciidoc table cells")
	cmd.Flags().BoolVar(&flags.detectLanguage, "detect-language", false,
		"guess the language of listing blocks without a source attribute")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "do not memoize files read while inlining images")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "write JSON without indentation")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print node statistics to stderr")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail when the tree contains error nodes")

	return cmd
}

const parseLongDescription = `Parse an AsciiDoc document and write its semantic tree.

Reads standard input when no file is given or the file is "-". Images with
the inline option are resolved relative to the document's directory.

Examples:
  adocast parse README.adoc                 # JSON tree on stdout
  adocast parse README.adoc --format tree   # Indented tree for inspection
  adocast parse - < doc.adoc -o doc.json    # Read stdin, write a file
  adocast parse doc.adoc --strict           # Exit 2 if any node is an error`

// cliConfig collects only the flags the user set, so config files apply
// to the rest.
func (f *parseFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{Output: f.output}

	changed := cmd.Flags().Changed
	if changed("format") {
		cfg.Format = config.OutputFormat(f.format)
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

func runParse(cmd *cobra.Command, path string, flags *parseFlags) error {
	if cmd.Flags().Changed("max-depth") && flags.maxDepth <= 0 {
		return fmt.Errorf("%w: --max-depth must be positive", ErrInvalidUsage)
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
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", loadResult.LoadedFrom)
	}

	content, err := fsutil.ReadInput(ctx, path, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	opts := cfg.ReaderOptions()
	if path != fsutil.StdioPath {
		opts.Input = path
	}

	env, err := newEnvironment(path, cfg)
	if err != nil {
		return err
	}

	logger.Debug("parsing document",
		logging.FieldInput, opts.Input,
		logging.FieldMaxDepth, opts.MaxDepth,
		logging.FieldFormat, cfg.Format,
	)

	doc, err := asciidoc.NewReader().Parse(ctx, string(content), opts, env)
	if err != nil {
		return err
	}

	stats := pretty.CollectStats(doc)
	if cache, ok := env.(*environment.Cache); ok {
		logger.Debug("file cache", "entries", cache.Len(), "reads", cache.FallbackReads())
	}

	if err := writeDocument(ctx, cmd, doc, cfg, flags); err != nil {
		return err
	}

	if flags.summary {
		styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.ErrOrStderr()))
		if _, err := io.WriteString(cmd.ErrOrStderr(), styles.FormatSummaryOneLine(stats)); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if flags.strict && stats.Errors() > 0 {
		return fmt.Errorf("%w: %d", ErrDocumentErrors, stats.Errors())
	}

	return nil
}

// newEnvironment resolves images relative to the input's directory.
func newEnvironment(path string, cfg *config.Config) (environment.Env, error) {
	dir := "."
	if path != "" && path != fsutil.StdioPath {
		dir = filepath.Dir(path)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve document directory: %w", err)
	}

	var env environment.Env = environment.NewIO(absDir)
	if cfg.CacheFilesEnabled() {
		env = environment.NewCache(env)
	}

	return env, nil
}

func writeDocument(ctx context.Context, cmd *cobra.Command, doc *ast.Document, cfg *config.Config, flags *parseFlags) error {
	toFile := cfg.Output != "" && cfg.Output != fsutil.StdioPath

	var out io.Writer = cmd.OutOrStdout()
	var buf bytes.Buffer
	if toFile {
		out = &buf
	}

	switch cfg.Format {
	case config.FormatTree:
		colorEnabled := !toFile && pretty.IsColorEnabled(colorMode(cmd), out)
		width := pretty.TerminalWidth(out)
		formatter := pretty.NewTreeFormatter(pretty.NewStyles(colorEnabled), width)
		if _, err := io.WriteString(out, formatter.FormatDocument(doc)); err != nil {
			return fmt.Errorf("write tree: %w", err)
		}
	default:
		if err := jsonast.Encode(out, doc, jsonast.Options{Compact: flags.compact}); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}

	if !toFile {
		return nil
	}

	written, err := fsutil.WriteFile(ctx, cfg.Output, buf.Bytes(), 0)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logger := logging.FromContext(ctx)
	if written {
		logger.Debug("wrote output", logging.FieldOutput, cfg.Output)
	} else {
		logger.Debug("output unchanged", logging.FieldOutput, cfg.Output)
	}

	return nil
}

func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return "auto"
	}
	return mode
}
