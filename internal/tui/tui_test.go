package tui

import (
	"context"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/server"
	"github.com/Makepad-fr/tada/internal/todostore"
)

func newTestModel(t *testing.T, seed ...model.Draft) (Model, *server.Repository) {
	t.Helper()
	repo, err := server.NewRepository(nil)
	require.NoError(t, err)
	for _, d := range seed {
		_, err := repo.Create(d)
		require.NoError(t, err)
	}
	ts := httptest.NewServer(server.NewRouter(repo, zerolog.Nop()))
	t.Cleanup(ts.Close)

	store := todostore.New(api.New(ts.URL), zerolog.Nop())
	m := New(context.Background(), store)
	m = step(t, m, m.Init())
	return m, repo
}

// step runs cmd synchronously and feeds its message back into the model.
func step(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestModel_EmptyState(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Contains(t, m.View(), "No tasks available")
}

func TestModel_LoadsOnInit(t *testing.T) {
	m, _ := newTestModel(t, model.Draft{Name: "Buy milk"}, model.Draft{Name: "Walk dog"})

	require.Len(t, m.list.Items(), 2)
	view := m.View()
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "Walk dog")
	assert.NotContains(t, view, "No tasks available")
}

func TestModel_ToggleAndDelete(t *testing.T) {
	m, repo := newTestModel(t, model.Draft{Name: "Buy milk"}, model.Draft{Name: "Walk dog"})

	m, cmd := press(m, keySpace)
	m = step(t, m, cmd)

	assert.True(t, m.state.Items[0].Status)
	assert.True(t, repo.List()[0].Status)

	m, cmd = press(m, keySpace)
	m = step(t, m, cmd)
	assert.False(t, m.state.Items[0].Status)

	m, cmd = press(m, runes("d"))
	m = step(t, m, cmd)

	require.Len(t, m.state.Items, 1)
	assert.Equal(t, "Walk dog", m.state.Items[0].Name)
	assert.Len(t, repo.List(), 1)
}

func TestModel_AddDraft(t *testing.T) {
	m, repo := newTestModel(t)

	m, _ = press(m, runes("a"))
	require.True(t, m.adding)

	m, _ = press(m, runes("Buy milk"))
	m, _ = press(m, keyTab)
	m, _ = press(m, runes("2%"))
	m, _ = press(m, keyTab)
	m, _ = press(m, runes("2024-01-01"))

	m, cmd := press(m, keyEnter)
	assert.True(t, m.submitting)
	m = step(t, m, cmd)

	assert.False(t, m.adding)
	require.Len(t, m.state.Items, 1)
	got := m.state.Items[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Buy milk", got.Name)
	assert.Equal(t, "2%", got.Description)
	assert.Equal(t, "2024-01-01", got.DueDate)
	assert.False(t, got.Status)
	assert.Equal(t, model.Draft{}, m.store.Draft())
	assert.Len(t, repo.List(), 1)
}

func TestModel_AddRejectedKeepsDraft(t *testing.T) {
	m, repo := newTestModel(t)

	// The development server rejects drafts without a name.
	m, _ = press(m, runes("a"))
	m, _ = press(m, keyTab)
	m, _ = press(m, runes("no name"))
	m, _ = press(m, keyTab)

	m, cmd := press(m, keyEnter)
	m = step(t, m, cmd)

	assert.True(t, m.adding, "form stays open on failure")
	assert.Empty(t, m.state.Items)
	assert.Equal(t, "no name", m.store.Draft().Description)
	assert.Empty(t, repo.List())
}

func TestModel_EscKeepsDraft(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, runes("a"))
	m, _ = press(m, runes("half typed"))
	m, _ = press(m, keyEsc)

	assert.False(t, m.adding)
	assert.Equal(t, "half typed", m.store.Draft().Name)
	assert.Contains(t, m.View(), "draft saved")

	m, _ = press(m, runes("a"))
	assert.Equal(t, "half typed", m.inputs[fieldName].Value())
}

func TestModel_DraftMarkerClearsAfterCreate(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, runes("a"))
	m, _ = press(m, runes("Buy milk"))
	m, _ = press(m, keyEsc)
	require.Contains(t, m.View(), "draft saved")

	m, _ = press(m, runes("a"))
	m, _ = press(m, keyTab)
	m, _ = press(m, keyTab)
	m, cmd := press(m, keyEnter)
	m = step(t, m, cmd)

	require.Len(t, m.state.Items, 1)
	assert.NotContains(t, m.View(), "draft saved")
}

func TestModel_EscWithBlankFormLeavesNoMarker(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, runes("a"))
	m, _ = press(m, keyEsc)

	assert.True(t, m.store.Draft().IsEmpty())
	assert.NotContains(t, m.View(), "draft saved")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_NoSelectionIsNoop(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := press(m, keySpace)
	assert.Nil(t, cmd)
}
