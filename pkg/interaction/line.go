// pkg/interaction/line.go

package interaction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// LinePrompter reads answers one line at a time. It works with pipes and is
// what tests drive. It is not safe for concurrent use.
type LinePrompter struct {
	reader *bufio.Reader
	out    io.Writer
	// pending is the read still in flight after a cancelled prompt; the next
	// prompt consumes its line.
	pending chan lineResult
}

type lineResult struct {
	text string
	err  error
}

// NewLinePrompter reads from in and writes prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{reader: bufio.NewReader(in), out: out}
}

// ReadLine prompts with label and returns one line of input without its line
// terminator. It returns as soon as ctx is cancelled, even while the read
// is blocked. End of input before any text is an error so validation loops
// cannot spin.
func (p *LinePrompter) ReadLine(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, _ = fmt.Fprint(p.out, label+" ")

	var res lineResult
	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(p.out)
		return "", ctx.Err()
	case res = <-p.nextLine():
		p.pending = nil
	}

	if res.err != nil {
		if res.err == io.EOF && res.text != "" {
			_, _ = fmt.Fprintln(p.out)
			return trimLineEnding(res.text), nil
		}
		otelzap.Ctx(ctx).Error("❌ Failed to read operator input", zap.Error(res.err))
		return "", cerr.Wrap(res.err, "read operator input")
	}
	return trimLineEnding(res.text), nil
}

func (p *LinePrompter) nextLine() <-chan lineResult {
	if p.pending == nil {
		ch := make(chan lineResult, 1)
		p.pending = ch
		go func() {
			text, err := p.reader.ReadString('\n')
			ch <- lineResult{text: text, err: err}
		}()
	}
	return p.pending
}

func trimLineEnding(s string) string {
	return strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r")
}

// Input asks until validate accepts the answer. Empty input takes defaultVal.
func (p *LinePrompter) Input(ctx context.Context, message, defaultVal string, validate func(string) error) (string, error) {
	label := message
	if defaultVal != "" {
		label = fmt.Sprintf("%s (%s)", message, defaultVal)
	}
	for {
		input, err := p.ReadLine(ctx, label)
		if err != nil {
			return "", err
		}
		if input == "" {
			input = defaultVal
		}
		if validate != nil {
			if verr := validate(input); verr != nil {
				otelzap.Ctx(ctx).Debug("Input rejected", zap.String("prompt", message), zap.Error(verr))
				_, _ = fmt.Fprintf(p.out, ">> %s\n", verr)
				continue
			}
		}
		return input, nil
	}
}

// Confirm asks a yes/no question; empty input takes the default.
func (p *LinePrompter) Confirm(ctx context.Context, message string, defaultYes bool) (bool, error) {
	defPrompt := DefaultYesPrompt
	if !defaultYes {
		defPrompt = DefaultNoPrompt
	}
	label := fmt.Sprintf("%s (%s)", message, defPrompt)

	for {
		input, err := p.ReadLine(ctx, label)
		if err != nil {
			return false, err
		}
		if strings.TrimSpace(input) == "" {
			return defaultYes, nil
		}
		if answer, ok := NormalizeYesNoInput(input); ok {
			return answer, nil
		}
		_, _ = fmt.Fprintln(p.out, ">> Please answer yes or no.")
	}
}

// MultiSelect lists numbered choices and reads a comma separated list of
// numbers. The result follows presentation order and holds no duplicates.
func (p *LinePrompter) MultiSelect(ctx context.Context, message string, choices []string) ([]string, error) {
	_, _ = fmt.Fprintln(p.out, message)
	for i, choice := range choices {
		_, _ = fmt.Fprintf(p.out, "  %d) %s\n", i+1, choice)
	}

	for {
		input, err := p.ReadLine(ctx, "Enter numbers separated by commas (blank for none):")
		if err != nil {
			return nil, err
		}
		selected, perr := ParseSelection(input, choices)
		if perr != nil {
			_, _ = fmt.Fprintf(p.out, ">> %s\n", perr)
			continue
		}
		return selected, nil
	}
}

// ParseSelection maps "1, 3" onto choices, returning them in list order.
func ParseSelection(input string, choices []string) ([]string, error) {
	picked := make([]bool, len(choices))
	for _, field := range strings.Split(input, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		idx, err := strconv.Atoi(field)
		if err != nil || idx < 1 || idx > len(choices) {
			return nil, fmt.Errorf("invalid selection %q, pick numbers between 1 and %d", field, len(choices))
		}
		picked[idx-1] = true
	}

	selected := make([]string, 0, len(choices))
	for i, ok := range picked {
		if ok {
			selected = append(selected, choices[i])
		}
	}
	return selected, nil
}
