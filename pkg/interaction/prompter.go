// pkg/interaction/prompter.go

package interaction

import (
	"context"
	"os"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Prompter is the interactive terminal capability. Every method blocks until
// the operator answers.
type Prompter interface {
	Input(ctx context.Context, message, defaultVal string, validate func(string) error) (string, error)
	Confirm(ctx context.Context, message string, defaultYes bool) (bool, error)
	MultiSelect(ctx context.Context, message string, choices []string) ([]string, error)
}

// NewTerminalPrompter uses the checklist UI for multi-select when stdin is a
// terminal and plain numbered lines otherwise.
func NewTerminalPrompter(in, out *os.File) Prompter {
	line := NewLinePrompter(in, out)
	if term.IsTerminal(int(in.Fd())) {
		return &TerminalPrompter{LinePrompter: line, in: in, out: out}
	}
	return line
}

// Ask renders q through p and packs the reply into an Answer.
func Ask(ctx context.Context, p Prompter, q Question) (Answer, error) {
	log := otelzap.Ctx(ctx)
	log.Debug("📝 Prompting operator", zap.String("question", q.Name), zap.Int("kind", int(q.Kind)))

	switch q.Kind {
	case KindInput:
		text, err := p.Input(ctx, q.Message, q.Default, q.Validate)
		if err != nil {
			return Answer{}, cerr.Wrapf(err, "prompt %s", q.Name)
		}
		return Answer{Text: text}, nil
	case KindConfirm:
		yes, err := p.Confirm(ctx, q.Message, q.DefaultYes)
		if err != nil {
			return Answer{}, cerr.Wrapf(err, "prompt %s", q.Name)
		}
		log.Debug("✅ Confirmation answered", zap.String("question", q.Name), zap.Bool("answer", yes))
		return Answer{Yes: yes}, nil
	case KindMultiSelect:
		selected, err := p.MultiSelect(ctx, q.Message, q.Choices)
		if err != nil {
			return Answer{}, cerr.Wrapf(err, "prompt %s", q.Name)
		}
		log.Debug("✅ Selection answered", zap.String("question", q.Name), zap.Strings("selected", selected))
		return Answer{Selected: selected}, nil
	default:
		return Answer{}, cerr.AssertionFailedf("unknown question kind %d for %s", q.Kind, q.Name)
	}
}
