// pkg/usercreate/collect.go

package usercreate

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/interaction"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Collect runs steps in order against p, one question at a time. A step's
// questions are computed only after every earlier answer is recorded.
func Collect(ctx context.Context, p interaction.Prompter, s *Session, steps []Step) error {
	log := otelzap.Ctx(ctx)
	for _, step := range steps {
		if step.Prepare != nil {
			if err := step.Prepare(ctx, s); err != nil {
				return err
			}
		}

		questions := step.Questions(s)
		log.Debug("Running prompt step", zap.String("step", step.Name), zap.Int("questions", len(questions)))

		for _, q := range questions {
			answer, err := interaction.Ask(ctx, p, q)
			if err != nil {
				return err
			}
			if err := step.Record(s, q, answer); err != nil {
				return cerr.Wrapf(err, "record answer for %s", q.Name)
			}
		}
	}
	return nil
}
