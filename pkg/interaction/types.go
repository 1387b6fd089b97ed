/* pkg/interaction/types.go */

package interaction

// QuestionKind selects which prompt renders a Question.
type QuestionKind int

const (
	KindInput QuestionKind = iota
	KindConfirm
	KindMultiSelect
)

// Question describes one interactive prompt. Name is the answer key.
type Question struct {
	Kind       QuestionKind
	Name       string
	Message    string
	Default    string
	DefaultYes bool
	Choices    []string
	Validate   func(string) error
}

// Answer holds the operator's reply; which field is set depends on the kind.
type Answer struct {
	Text     string
	Yes      bool
	Selected []string
}

const (
	DefaultYesPrompt = "Y/n"
	DefaultNoPrompt  = "y/N"
)

const (
	YesShort = "y"
	YesLong  = "yes"
	NoShort  = "n"
	NoLong   = "no"
)
