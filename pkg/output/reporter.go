// Package output renders the operator-facing console report: the pending
// input before confirmation, and the created user afterwards.
package output

import (
	"fmt"
	"io"

	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/attributes"
	"github.com/charmbracelet/lipgloss"
	cerr "github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const (
	SuccessBanner = "User successfully created!"
	CancelNotice  = "Operation canceled"
)

var (
	ColorSuccess = lipgloss.Color("#00ff00")
	ColorMuted   = lipgloss.Color("#666666")
)

// Reporter writes to a single writer, normally stdout.
type Reporter struct {
	w       io.Writer
	success lipgloss.Style
	muted   lipgloss.Style
}

// NewReporter styles output for w; colours are dropped when w is not a terminal.
func NewReporter(w io.Writer) *Reporter {
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		w:       w,
		success: r.NewStyle().Foreground(ColorSuccess).Bold(true),
		muted:   r.NewStyle().Foreground(ColorMuted),
	}
}

// Preview prints each pending modification, then the pool id and username.
func (r *Reporter) Preview(poolID, username string, mods []attributes.Attribute) {
	for _, mod := range mods {
		_, _ = fmt.Fprintf(r.w, "%s ===> %s\n", mod.Name, mod.Value)
	}
	_, _ = fmt.Fprintf(r.w, "User Pool Id: %s\n", poolID)
	_, _ = fmt.Fprintf(r.w, "username: %s\n", username)
}

// Success prints the banner and the created user record.
func (r *Reporter) Success(user attributes.User) error {
	_, _ = fmt.Fprintln(r.w, r.success.Render(SuccessBanner))

	data, err := yaml.Marshal(map[string]string(user))
	if err != nil {
		return cerr.Wrap(err, "render user record")
	}
	_, err = r.w.Write(data)
	return err
}

// Cancelled prints the cancellation notice.
func (r *Reporter) Cancelled() {
	_, _ = fmt.Fprintln(r.w, r.muted.Render(CancelNotice))
}
