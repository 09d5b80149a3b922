package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/max-longrun/bison-mcp/internal/config"
	"github.com/max-longrun/bison-mcp/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates a missing or invalid account configuration.
	ExitCodeConfig = 2
)

var (
	configPath string
	envFiles   []string
	logLevel   string
	debug      bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bison-mcp",
	Short: "MCP server for the EmailBison cold-email API",
	Long: `bison-mcp exposes the EmailBison REST API as Model Context Protocol tools.

It manages leads, campaigns, replies, sender emails, tags and workspaces for
one or more EmailBison accounts. Run 'bison-mcp serve' from an MCP host such
as Claude Desktop, or use 'bison-mcp call' to run a single tool from a shell.

Configuration:
  Accounts are read from the file given with --config, $EMAILBISON_CONFIG,
  ./config.yaml or ~/.config/bison-mcp/config.yaml. Without a file a single
  account named "default" is built from $EMAILBISON_API_KEY.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.ParseLevel(logLevel)
		if debug {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, cmd.ErrOrStderr())
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a code derived from the error.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "bison-mcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		var ce *config.ConfigurationError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, ce.DetailedError())
		}
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	if config.IsConfigurationError(err) {
		return ExitCodeConfig
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Account configuration file (env: "+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Dotenv files loaded before reading the environment (default .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
}
