/* cmd/root.go */

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/config"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/directory"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/idp_cli"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/idp_err"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/idp_io"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/interaction"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/output"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/telemetry"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/usercreate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cfg is resolved in PersistentPreRunE, before the command span starts.
var cfg *config.Config

// RootCmd creates one user in an identity provider user pool.
var RootCmd = &cobra.Command{
	Use:   "idpuser",
	Short: "Create a user in a Cognito user pool or Keycloak realm",
	Long: `idpuser asks for a user pool and a username, optionally sets mutable
profile attributes, creates the user and prints the resulting record.

Configuration is read from IDPUSER_* variables, .env and config.yaml.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded

		logger.Initialize(logger.Options{Level: cfg.LogLevel, FilePath: cfg.LogFile})
		return telemetry.Init(cfg.Telemetry)
	},

	RunE: idp_cli.Wrap(runCreateUser),
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.String("provider", "", "identity provider: cognito or keycloak")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-file", "", "JSON log file path")
	flags.Bool("telemetry", false, "export trace spans to the telemetry file")
}

func runCreateUser(rc *idp_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	rc.Attributes["provider"] = cfg.Provider
	rc.Log.Info("Starting create-user flow", zap.String("provider", cfg.Provider))

	dir, err := directory.New(rc.Ctx, cfg)
	if err != nil {
		return err
	}

	return usercreate.Run(rc.Ctx, usercreate.Deps{
		Directory: directory.Instrument(dir),
		Prompter:  interaction.NewTerminalPrompter(os.Stdin, os.Stdout),
		Reporter:  output.NewReporter(cmd.OutOrStdout()),
	})
}

// Execute runs the root command and exits with the error's category code.
// The first SIGINT/SIGTERM cancels the running flow; after that the default
// handlers are restored so a second one terminates the process.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	context.AfterFunc(ctx, stop)

	err := RootCmd.ExecuteContext(ctx)
	interrupted := ctx.Err() != nil
	stop()

	if serr := telemetry.Shutdown(context.Background()); serr != nil {
		logger.L().Warn("Failed to flush telemetry", zap.Error(serr))
	}

	code := exitCode(err, interrupted)
	if serr := logger.Sync(); serr != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Failed to flush logs: %v\n", serr)
	}
	if code != 0 {
		os.Exit(code)
	}
}

// exitCode logs err and maps it to a process exit code. A failure after an
// interrupt is reported as a cancelled session.
func exitCode(err error, interrupted bool) int {
	if err == nil {
		return 0
	}
	if interrupted {
		err = idp_err.NewUserCancelledError(RootCmd.Name())
	}
	if idp_err.IsExpectedUserError(err) {
		logger.L().Warn("CLI completed with user error", zap.Error(err))
		return 0
	}

	logger.L().Error("CLI execution error", zap.Error(err))
	fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	return idp_err.GetExitCode(err)
}
