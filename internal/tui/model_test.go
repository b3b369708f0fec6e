package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/convsurvey/internal/config"
	"github.com/fyrsmithlabs/convsurvey/internal/scoring"
	"github.com/fyrsmithlabs/convsurvey/internal/session"
)

func writeFolder(t *testing.T, ids ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, id := range ids {
		doc := fmt.Sprintf(`{
			"conversation_id": %q,
			"seed_phrase": "test scenario",
			"turns": [{"turn_number": 0, "user_utterance": "hi", "assistant_response": "hello"}],
			"targets": {"find parking": {"introduced_turn": 0}}
		}`, id)
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(doc), 0o600))
	}
	return dir
}

func newTestModel(t *testing.T, ids ...string) Model {
	t.Helper()
	s, err := session.New(config.NewDefaultConfig(), nil)
	require.NoError(t, err)
	return New(s, writeFolder(t, ids...), nil)
}

// loadedModel drives the setup screen the way a rater would: type the
// annotator name, press enter.
func loadedModel(t *testing.T, ids ...string) Model {
	t.Helper()
	m := newTestModel(t, ids...)
	for _, r := range "rater-1" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.Equal(t, screenList, m.screen)
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNew_StartsOnSetup(t *testing.T) {
	m := newTestModel(t, "conv_001")
	assert.Equal(t, screenSetup, m.screen)
	assert.NotNil(t, m.Init())
}

func TestSetup_EmptyAnnotatorStays(t *testing.T) {
	m := newTestModel(t, "conv_001")
	next, _ := m.Update(key("enter"))
	m = next.(Model)
	assert.Equal(t, screenSetup, m.screen)
	assert.NotEmpty(t, m.status)
}

func TestSetup_EnterLoadsAndShowsList(t *testing.T) {
	m := loadedModel(t, "conv_001", "conv_002")
	assert.Equal(t, "rater-1", m.session.AnnotatorID())
	assert.Len(t, m.session.Conversations(), 2)

	view := m.View()
	assert.Contains(t, view, "conv_001")
	assert.Contains(t, view, "0/2 rated")
}

func TestList_CursorMovement(t *testing.T) {
	m := loadedModel(t, "conv_001", "conv_002")

	next, _ := m.Update(key("j"))
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)

	// Does not run off the end.
	next, _ = m.Update(key("j"))
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)

	next, _ = m.Update(key("k"))
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestList_EnterOpensRatingScreen(t *testing.T) {
	m := loadedModel(t, "conv_001")
	next, _ := m.Update(key("enter"))
	m = next.(Model)

	assert.Equal(t, screenRate, m.screen)
	assert.Equal(t, "conv_001", m.form.conv.ID)
	assert.Contains(t, m.View(), "hello")
	assert.Contains(t, m.View(), "find parking")
}

func TestRate_SubmitRequiresAllDimensions(t *testing.T) {
	m := loadedModel(t, "conv_001")
	next, _ := m.Update(key("enter"))
	m = next.(Model)

	next, _ = m.Update(key("enter"))
	m = next.(Model)
	assert.Equal(t, screenRate, m.screen, "incomplete form must not submit")
	assert.Contains(t, m.status, "all four dimensions")
}

func TestRate_ScoreSubmitFlow(t *testing.T) {
	m := loadedModel(t, "conv_001")
	next, _ := m.Update(key("enter"))
	m = next.(Model)

	// Scoring a dimension advances focus, so four presses fill the form.
	for _, k := range []string{"2", "2", "2", "2"} {
		next, _ = m.Update(key(k))
		m = next.(Model)
	}
	// Focus is now the target row; mark it completed.
	next, _ = m.Update(key(" "))
	m = next.(Model)
	assert.Equal(t, 1, m.form.statuses["find parking"])

	next, _ = m.Update(key("enter"))
	m = next.(Model)
	assert.Equal(t, screenList, m.screen)
	assert.True(t, m.session.Store().IsDone("conv_001"))

	r, ok := m.session.Store().Get("conv_001")
	require.True(t, ok)
	assert.Equal(t, scoring.Pass, r.PassFail)
	assert.InDelta(t, 1.0, r.OverallScore, 1e-12)
}

func TestRate_EscGoesBackWithoutSaving(t *testing.T) {
	m := loadedModel(t, "conv_001")
	next, _ := m.Update(key("enter"))
	m = next.(Model)

	next, _ = m.Update(key("2"))
	m = next.(Model)
	next, _ = m.Update(key("esc"))
	m = next.(Model)

	assert.Equal(t, screenList, m.screen)
	assert.False(t, m.session.Store().IsDone("conv_001"))
}

func TestRate_ReopenPrefillsForm(t *testing.T) {
	m := loadedModel(t, "conv_001")
	next, _ := m.Update(key("enter"))
	m = next.(Model)
	for _, k := range []string{"2", "1", "2", "1"} {
		next, _ = m.Update(key(k))
		m = next.(Model)
	}
	next, _ = m.Update(key("enter"))
	m = next.(Model)

	next, _ = m.Update(key("enter"))
	m = next.(Model)
	assert.Equal(t, screenRate, m.screen)
	assert.Equal(t, 1, m.form.scores[scoring.DimContextAmbiguityHandling])
	assert.Contains(t, m.View(), "already rated")
}

func TestRate_RubricToggle(t *testing.T) {
	m := loadedModel(t, "conv_001")
	next, _ := m.Update(key("enter"))
	m = next.(Model)

	assert.NotContains(t, m.View(), "Key question")
	next, _ = m.Update(key("?"))
	m = next.(Model)
	assert.Contains(t, m.View(), "Key question")
}

func TestBreakBanner_AfterIntervalRatings(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Survey.BreakReminderInterval = 1
	s, err := session.New(cfg, nil)
	require.NoError(t, err)
	m := New(s, writeFolder(t, "conv_001"), nil)
	for _, r := range "rater-1" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	next, _ := m.Update(key("enter"))
	m = next.(Model)

	next, _ = m.Update(key("enter"))
	m = next.(Model)
	for _, k := range []string{"2", "2", "2", "2"} {
		next, _ = m.Update(key(k))
		m = next.(Model)
	}
	next, _ = m.Update(key("enter"))
	m = next.(Model)

	assert.NotEmpty(t, m.banner)
	assert.Contains(t, m.View(), "break")
}

func TestList_SaveAndImport(t *testing.T) {
	m := loadedModel(t, "conv_001")
	next, _ := m.Update(key("enter"))
	m = next.(Model)
	for _, k := range []string{"2", "2", "2", "2"} {
		next, _ = m.Update(key(k))
		m = next.(Model)
	}
	next, _ = m.Update(key("enter"))
	m = next.(Model)

	next, _ = m.Update(key("s"))
	m = next.(Model)
	assert.Contains(t, m.status, "Saved to")

	// Fresh session against the same folder restores via import.
	s2, err := session.New(config.NewDefaultConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, s2.SetAnnotator("rater-1"))
	_, err = s2.Load(context.Background(), m.session.SourceFolder())
	require.NoError(t, err)

	// New skips setup because the annotator is already identified.
	m2 := New(s2, m.session.SourceFolder(), nil)
	require.Equal(t, screenList, m2.screen)
	next2, _ := m2.Update(key("i"))
	m2 = next2.(Model)
	assert.Contains(t, m2.status, "Restored 1 rating(s)")
	assert.True(t, s2.Store().IsDone("conv_001"))
}

func TestQuit(t *testing.T) {
	m := loadedModel(t, "conv_001")
	next, cmd := m.Update(key("q"))
	m = next.(Model)
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}
