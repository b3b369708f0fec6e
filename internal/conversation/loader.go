package conversation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader reads conversation JSON files from a folder and sanitizes them for
// rating.
type Loader struct{}

// NewLoader creates a conversation loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadError records a file that failed to load. Individual failures do not
// abort the load.
type LoadError struct {
	File  string
	Cause error
}

func (e LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Cause)
}

// LoadResult is the outcome of loading a folder.
type LoadResult struct {
	// Folder is the directory the files were actually read from (the
	// nested conversations/ directory when present).
	Folder        string
	Conversations []Conversation
	Errors        []LoadError
}

// rawConversation mirrors the on-disk generator output. Only the fields the
// survey needs are declared; evaluation scores, failure labels, and strategy
// data present in the raw files are dropped so they cannot bias raters.
type rawConversation struct {
	ConversationID string                     `json:"conversation_id"`
	SeedPhrase     string                     `json:"seed_phrase"`
	Turns          []rawTurn                  `json:"turns"`
	Targets        map[string]json.RawMessage `json:"targets"`
}

// Older generator versions wrote user/system, newer ones write
// user_utterance/assistant_response. Accept both.
type rawTurn struct {
	TurnNumber        int    `json:"turn_number"`
	User              string `json:"user"`
	System            string `json:"system"`
	UserUtterance     string `json:"user_utterance"`
	AssistantResponse string `json:"assistant_response"`
}

type rawTarget struct {
	IntroducedTurn int `json:"introduced_turn"`
}

// LoadFolder loads every *.json file in the folder, sorted by name. When
// the folder contains a "conversations" subdirectory the files are read
// from there instead. Files that fail to parse are reported in the result
// rather than failing the load.
func (l *Loader) LoadFolder(folder string) (*LoadResult, error) {
	nested := filepath.Join(folder, "conversations")
	if info, err := os.Stat(nested); err == nil && info.IsDir() {
		folder = nested
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation folder: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	result := &LoadResult{Folder: folder}
	for _, name := range files {
		path := filepath.Join(folder, name)
		conv, err := loadFile(path)
		if err != nil {
			result.Errors = append(result.Errors, LoadError{File: name, Cause: err})
			continue
		}
		conv.SourceFile = name
		result.Conversations = append(result.Conversations, conv)
	}
	return result, nil
}

func loadFile(path string) (Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Conversation{}, err
	}

	var raw rawConversation
	if err := json.Unmarshal(data, &raw); err != nil {
		return Conversation{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return sanitize(raw), nil
}

// sanitize converts a raw record to the rater-facing shape, keeping only
// turn text, target introductions, and identifying metadata.
func sanitize(raw rawConversation) Conversation {
	conv := Conversation{
		ID:         raw.ConversationID,
		SeedPhrase: raw.SeedPhrase,
		NumTurns:   len(raw.Turns),
		Turns:      make([]Turn, 0, len(raw.Turns)),
		Targets:    make(map[string]Target, len(raw.Targets)),
	}

	for _, rt := range raw.Turns {
		user := rt.UserUtterance
		if user == "" {
			user = rt.User
		}
		assistant := rt.AssistantResponse
		if assistant == "" {
			assistant = rt.System
		}
		conv.Turns = append(conv.Turns, Turn{
			TurnNumber:        rt.TurnNumber,
			UserUtterance:     user,
			AssistantResponse: assistant,
		})
	}

	for desc, payload := range raw.Targets {
		var rt rawTarget
		// Completion status and completed_turn are deliberately not
		// decoded; annotators determine completion themselves.
		if err := json.Unmarshal(payload, &rt); err != nil {
			conv.Targets[desc] = Target{}
			continue
		}
		conv.Targets[desc] = Target{IntroducedTurn: rt.IntroducedTurn}
	}
	return conv
}

// IDs returns the conversation identifiers of a loaded set, preserving
// load order.
func IDs(convs []Conversation) []string {
	ids := make([]string, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
	}
	return ids
}

// IDSet returns the conversation identifiers as a membership set.
func IDSet(convs []Conversation) map[string]struct{} {
	set := make(map[string]struct{}, len(convs))
	for _, c := range convs {
		set[c.ID] = struct{}{}
	}
	return set
}
