package conversation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConversation = `{
	"conversation_id": "conv_001",
	"seed_phrase": "navigate to work avoiding highways",
	"max_turns": 8,
	"turns": [
		{"turn_number": 0, "user_utterance": "Take me to work, no highways", "assistant_response": "Routing via surface streets."},
		{"turn_number": 1, "user_utterance": "Also play some jazz", "assistant_response": "Playing jazz."}
	],
	"targets": {
		"navigate to work": {"introduced_turn": 0, "status": "completed", "completed_turn": 0},
		"play jazz": {"introduced_turn": 1, "status": "failed"}
	},
	"metadata": {"persona_name": "Commuter", "llm_score": 0.92}
}`

const legacyConversation = `{
	"conversation_id": "conv_legacy",
	"seed_phrase": "old format",
	"turns": [
		{"turn_number": 0, "user": "Hello", "system": "Hi there"}
	],
	"targets": {}
}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadFolder_SanitizesAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", sampleConversation)
	writeFile(t, dir, "a.json", legacyConversation)
	writeFile(t, dir, "notes.txt", "ignored")

	result, err := NewLoader().LoadFolder(dir)
	require.NoError(t, err)
	require.Len(t, result.Conversations, 2)
	assert.Empty(t, result.Errors)

	// Sorted by file name.
	assert.Equal(t, "conv_legacy", result.Conversations[0].ID)
	assert.Equal(t, "conv_001", result.Conversations[1].ID)

	conv := result.Conversations[1]
	assert.Equal(t, 2, conv.NumTurns)
	require.Len(t, conv.Turns, 2)
	assert.Equal(t, "Take me to work, no highways", conv.Turns[0].UserUtterance)
	assert.Equal(t, "Routing via surface streets.", conv.Turns[0].AssistantResponse)

	// Target status from the generator must not survive sanitization;
	// only the introduction turn does.
	require.Contains(t, conv.Targets, "navigate to work")
	assert.Equal(t, 0, conv.Targets["navigate to work"].IntroducedTurn)
	assert.Equal(t, 1, conv.Targets["play jazz"].IntroducedTurn)
}

func TestLoadFolder_LegacyTurnKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "legacy.json", legacyConversation)

	result, err := NewLoader().LoadFolder(dir)
	require.NoError(t, err)
	require.Len(t, result.Conversations, 1)
	assert.Equal(t, "Hello", result.Conversations[0].Turns[0].UserUtterance)
	assert.Equal(t, "Hi there", result.Conversations[0].Turns[0].AssistantResponse)
}

func TestLoadFolder_DescendsIntoConversationsDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "conversations")
	require.NoError(t, os.Mkdir(nested, 0o700))
	writeFile(t, nested, "c.json", sampleConversation)

	result, err := NewLoader().LoadFolder(dir)
	require.NoError(t, err)
	assert.Equal(t, nested, result.Folder)
	require.Len(t, result.Conversations, 1)
}

func TestLoadFolder_BadFileIsReportedNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", "{not json")
	writeFile(t, dir, "good.json", sampleConversation)

	result, err := NewLoader().LoadFolder(dir)
	require.NoError(t, err)
	assert.Len(t, result.Conversations, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "bad.json", result.Errors[0].File)
}

func TestLoadFolder_MissingFolder(t *testing.T) {
	_, err := NewLoader().LoadFolder(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestIDSet(t *testing.T) {
	convs := []Conversation{{ID: "a"}, {ID: "b"}}
	set := IDSet(convs)
	assert.Len(t, set, 2)
	_, ok := set["a"]
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, IDs(convs))
}
