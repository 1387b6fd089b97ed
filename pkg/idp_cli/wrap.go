// pkg/idp_cli/wrap.go

package idp_cli

import (
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/idp_err"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/idp_io"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/logger"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RunFunc is a command body that receives the per-command runtime context.
type RunFunc func(rc *idp_io.RuntimeContext, cmd *cobra.Command, args []string) error

// Wrap ensures panic recovery, telemetry and logging around a command body.
func Wrap(fn RunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		logger.InitFallback()

		rc := idp_io.NewContext(cmd.Context(), cmd.Name())
		defer rc.End(&err)
		defer rc.HandlePanic(&err)

		rc.Log.Debug("Command started", zap.Strings("args", args))

		err = fn(rc, cmd, args)
		if err != nil && !idp_err.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}
