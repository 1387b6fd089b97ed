// pkg/usercreate/steps.go

package usercreate

import (
	"context"
	"fmt"

	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/attributes"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/directory"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/interaction"
)

// Answer keys, one per question.
const (
	KeyUserPoolID       = "userPoolId"
	KeyUsername         = "username"
	KeyUpdateAttributes = "shouldUpdateAttributes"
	KeyAttributes       = "attributesToUpdate"
	KeyConfirmed        = "executionConfirmed"
)

// Session is everything collected from the operator for one run.
type Session struct {
	UserPoolID       string
	Username         string
	UpdateAttributes bool
	// Mutable is the schema fetched for the selection step; nil when the
	// operator declined attribute updates.
	Mutable       []attributes.SchemaAttribute
	Selected      []string
	Modifications []attributes.Attribute
	Confirmed     bool
}

// Step is one stage of the conversation. Questions is pure: it only reads
// answers already recorded on the session.
type Step struct {
	Name string
	// Prepare performs the remote lookups the step's questions depend on.
	Prepare   func(ctx context.Context, s *Session) error
	Questions func(s *Session) []interaction.Question
	Record    func(s *Session, q interaction.Question, a interaction.Answer) error
}

// CollectSteps are the steps run before the preview, in order.
func CollectSteps(dir directory.Directory) []Step {
	return []Step{
		poolAndUsernameStep(),
		updateAttributesStep(),
		selectAttributesStep(dir),
		attributeValuesStep(),
	}
}

// ConfirmStep is the final gate shown after the preview.
func ConfirmStep() Step {
	return Step{
		Name: "confirm",
		Questions: func(*Session) []interaction.Question {
			return []interaction.Question{{
				Kind:       interaction.KindConfirm,
				Name:       KeyConfirmed,
				Message:    "Create user with the input above?",
				DefaultYes: true,
			}}
		},
		Record: func(s *Session, _ interaction.Question, a interaction.Answer) error {
			s.Confirmed = a.Yes
			return nil
		},
	}
}

func poolAndUsernameStep() Step {
	return Step{
		Name: "pool-and-username",
		Questions: func(*Session) []interaction.Question {
			return []interaction.Question{
				{
					Kind:     interaction.KindInput,
					Name:     KeyUserPoolID,
					Message:  "User Pool ID:",
					Validate: interaction.ValidateRequired("User Pool ID is required!"),
				},
				{
					Kind:     interaction.KindInput,
					Name:     KeyUsername,
					Message:  "Insert the new user's username (email address):",
					Validate: interaction.ValidateRequired("Username is required!"),
				},
			}
		},
		Record: func(s *Session, q interaction.Question, a interaction.Answer) error {
			switch q.Name {
			case KeyUserPoolID:
				s.UserPoolID = a.Text
			case KeyUsername:
				s.Username = a.Text
			}
			return nil
		},
	}
}

func updateAttributesStep() Step {
	return Step{
		Name: "update-attributes",
		Questions: func(*Session) []interaction.Question {
			return []interaction.Question{{
				Kind:       interaction.KindConfirm,
				Name:       KeyUpdateAttributes,
				Message:    "Do you want to update user attributes?",
				DefaultYes: false,
			}}
		},
		Record: func(s *Session, _ interaction.Question, a interaction.Answer) error {
			s.UpdateAttributes = a.Yes
			return nil
		},
	}
}

func selectAttributesStep(dir directory.Directory) Step {
	return Step{
		Name: "select-attributes",
		Prepare: func(ctx context.Context, s *Session) error {
			if !s.UpdateAttributes {
				return nil
			}
			mutable, err := directory.MutableAttributes(ctx, dir, s.UserPoolID)
			if err != nil {
				return err
			}
			s.Mutable = mutable
			return nil
		},
		Questions: func(s *Session) []interaction.Question {
			if !s.UpdateAttributes {
				return nil
			}
			return []interaction.Question{{
				Kind:    interaction.KindMultiSelect,
				Name:    KeyAttributes,
				Message: "Check the attributes you want to update",
				Choices: attributes.Names(s.Mutable),
			}}
		},
		Record: func(s *Session, _ interaction.Question, a interaction.Answer) error {
			s.Selected = a.Selected
			return nil
		},
	}
}

func attributeValuesStep() Step {
	return Step{
		Name: "attribute-values",
		Questions: func(s *Session) []interaction.Question {
			questions := make([]interaction.Question, 0, len(s.Selected))
			for _, name := range s.Selected {
				questions = append(questions, interaction.Question{
					Kind:    interaction.KindInput,
					Name:    name,
					Message: fmt.Sprintf("Insert the new value for %s", name),
				})
			}
			return questions
		},
		Record: func(s *Session, q interaction.Question, a interaction.Answer) error {
			mod, err := attributes.FromAnswer(map[string]string{q.Name: a.Text})
			if err != nil {
				return err
			}
			s.Modifications = append(s.Modifications, mod)
			return nil
		},
	}
}
