// Package usercreate runs the create-user conversation: collect input,
// preview it, and on confirmation create the user, apply the chosen
// attribute values and print the resulting record.
package usercreate

import (
	"context"
	"fmt"

	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/attributes"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/directory"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/idp_err"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/interaction"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/output"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Deps are the collaborators of one run. The directory handle is shared by
// every remote call in the run.
type Deps struct {
	Directory directory.Directory
	Prompter  interaction.Prompter
	Reporter  *output.Reporter
}

// Run executes the flow. Declining the final confirmation prints the
// cancellation notice and returns nil. Remote failures are returned as-is;
// a user created before a later failure is left in place.
func Run(ctx context.Context, deps Deps) error {
	log := otelzap.Ctx(ctx)
	session := &Session{}

	if err := Collect(ctx, deps.Prompter, session, CollectSteps(deps.Directory)); err != nil {
		return abandoned(deps.Reporter, err)
	}

	deps.Reporter.Preview(session.UserPoolID, session.Username, session.Modifications)

	if err := Collect(ctx, deps.Prompter, session, []Step{ConfirmStep()}); err != nil {
		return abandoned(deps.Reporter, err)
	}
	if !session.Confirmed {
		log.Info("Operator declined user creation", zap.String("pool_id", session.UserPoolID))
		deps.Reporter.Cancelled()
		return nil
	}

	if err := checkMutable(session); err != nil {
		return err
	}

	log.Info("Creating user",
		zap.String("pool_id", session.UserPoolID),
		zap.String("username", session.Username),
		zap.Int("modifications", len(session.Modifications)))

	canonical, err := deps.Directory.CreateUser(ctx, session.UserPoolID, session.Username)
	if err != nil {
		return err
	}

	if _, err := deps.Directory.UpdateUserAttributes(ctx, session.UserPoolID, canonical, session.Modifications); err != nil {
		return err
	}

	raw, err := deps.Directory.GetUser(ctx, session.UserPoolID, canonical)
	if err != nil {
		return err
	}

	user := attributes.ToUser(raw)
	log.Info("User created", zap.String("pool_id", session.UserPoolID), zap.String("username", canonical))
	return deps.Reporter.Success(user)
}

// abandoned prints the cancellation notice when the operator walked away from
// a prompt, and passes err through either way.
func abandoned(r *output.Reporter, err error) error {
	if idp_err.IsExpectedUserError(err) {
		r.Cancelled()
	}
	return err
}

// checkMutable rejects any modification outside the fetched mutable set.
func checkMutable(s *Session) error {
	if len(s.Modifications) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(s.Mutable))
	for _, attr := range s.Mutable {
		allowed[attr.Name] = true
	}
	for _, mod := range s.Modifications {
		if !allowed[mod.Name] {
			return idp_err.NewValidationError(
				fmt.Sprintf("attribute %s is not mutable in pool %s", mod.Name, s.UserPoolID),
				"Select only attributes offered by the checklist")
		}
	}
	return nil
}
