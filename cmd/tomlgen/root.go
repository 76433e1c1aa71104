package main

import (
	"io"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the process-wide collaborators shared by every command.
type app struct {
	logger      *zap.Logger
	verbose     bool
	configPath  string
	httpTimeout time.Duration
	confirm     func(message string) (bool, error)
}

func newApp() *app {
	return &app{
		logger:  zap.NewNop(),
		confirm: surveyConfirm,
	}
}

func surveyConfirm(message string) (bool, error) {
	ok := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tomlgen",
		Short: "Render commented TOML configuration scaffolds",
		Long: `tomlgen renders a TOML configuration file from a JSON Schema or an OpenAPI
component. Descriptions become comments, optional fields that have no value
become commented placeholders, and x-toml-format or --format choose how nested
tables are laid out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setupLogger(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default .tomlgen.yaml in the working directory)")
	rootCmd.PersistentFlags().DurationVar(&a.httpTimeout, "http-timeout", 30*time.Second, "Timeout for schemas fetched over HTTP")

	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newLintCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setupLogger builds a production logger, or a development one with
// --verbose. Logs go to the command's stderr.
func (a *app) setupLogger(stderr io.Writer) {
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	level := zapcore.InfoLevel
	if a.verbose {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		level = zapcore.DebugLevel
	}
	a.logger = zap.New(zapcore.NewCore(encoder, zapcore.AddSync(stderr), level))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("tomlgen version: %s\n", Version)
			cmd.Printf("Git commit: %s\n", GitCommit)
		},
	}
}
