package interaction

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsk_Dispatch(t *testing.T) {
	p, _ := newTestPrompter("pool1\ny\n1\n")
	ctx := context.Background()

	a, err := Ask(ctx, p, Question{Kind: KindInput, Name: "userPoolId", Message: "User Pool ID:"})
	require.NoError(t, err)
	assert.Equal(t, "pool1", a.Text)

	a, err = Ask(ctx, p, Question{Kind: KindConfirm, Name: "shouldUpdateAttributes", Message: "Update?"})
	require.NoError(t, err)
	assert.True(t, a.Yes)

	a, err = Ask(ctx, p, Question{Kind: KindMultiSelect, Name: "attributesToUpdate", Message: "Pick", Choices: []string{"nickname"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"nickname"}, a.Selected)
}

func TestAsk_UnknownKind(t *testing.T) {
	p, _ := newTestPrompter("")
	_, err := Ask(context.Background(), p, Question{Kind: QuestionKind(42), Name: "x"})
	assert.Error(t, err)
}

func TestChecklistModel(t *testing.T) {
	var m tea.Model = newChecklistModel("Check the attributes you want to update", []string{"nickname", "custom:tenant", "given_name"})

	press := func(msg tea.KeyMsg) {
		m, _ = m.Update(msg)
	}

	press(tea.KeyMsg{Type: tea.KeyDown})
	press(tea.KeyMsg{Type: tea.KeyDown})
	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	press(tea.KeyMsg{Type: tea.KeyUp})
	press(tea.KeyMsg{Type: tea.KeyUp})
	press(tea.KeyMsg{Type: tea.KeyUp})
	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	view := m.View()
	assert.Contains(t, view, "nickname")
	assert.Contains(t, view, "given_name")

	var cmd tea.Cmd
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	final := m.(checklistModel)
	assert.True(t, final.done)
	assert.False(t, final.aborted)
	assert.Equal(t, []string{"nickname", "given_name"}, final.selected())
}

func TestChecklistModel_Abort(t *testing.T) {
	var m tea.Model = newChecklistModel("Pick", []string{"a"})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.(checklistModel).aborted)
}

func TestChecklistModel_EmptyChoices(t *testing.T) {
	var m tea.Model = newChecklistModel("Pick", nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.(checklistModel).selected())
}
