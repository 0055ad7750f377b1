package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/adocast/internal/configloader"
	"github.com/yaklabco/adocast/internal/logging"
	"github.com/yaklabco/adocast/pkg/config"
)

// errConfig marks failures to resolve the configuration.
var errConfig = errors.New("failed to load configuration")

// loadConfig resolves the configuration for cmd, with cliCfg on top.
func loadConfig(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*configloader.LoadResult, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errConfig, err)
	}

	return result, nil
}

// commandLogger builds the logger for a command run. --debug wins over the
// configured level.
func commandLogger(cmd *cobra.Command, level string) (context.Context, error) {
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, fmt.Errorf("get debug flag: %w", err)
	}
	if debug {
		level = logging.LevelDebug
	}

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
	return logging.WithLogger(commandContext(cmd), logger), nil
}

// commandContext returns the command's context, or a background context
// when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

type configFlags struct {
	env bool
}

func newConfigCommand() *cobra.Command {
	flags := &configFlags{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Print the configuration adocast would use in the current directory, after
merging defaults, user and project config files, the --config file and
ADOCAST_* environment variables.

Examples:
  adocast config                 Print the merged configuration as YAML
  adocast config --env           List supported environment variables`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.env, "env", false, "list supported environment variables")

	return cmd
}

func runConfig(cmd *cobra.Command, flags *configFlags) error {
	out := cmd.OutOrStdout()

	if flags.env {
		for _, envVar := range configloader.ListEnvVars() {
			if _, err := fmt.Fprintf(out, "%-24s %s\n", envVar.Name, envVar.Description); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
		return nil
	}

	result, err := loadConfig(commandContext(cmd), cmd, nil)
	if err != nil {
		return err
	}

	sources := "defaults"
	if len(result.LoadedFrom) > 0 {
		sources = "defaults, " + strings.Join(result.LoadedFrom, ", ")
	}

	content, err := result.Config.ToYAMLWithHeader("# resolved from: " + sources)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}

	if _, err := out.Write(content); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	ctx, err := commandLogger(cmd, result.Config.LogLevel)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		logging.FromContext(ctx).Warn(warning)
	}

	return nil
}
