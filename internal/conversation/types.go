package conversation

// Turn is one user/assistant exchange. Turns have no lifecycle of their
// own; they are owned by their Conversation.
type Turn struct {
	TurnNumber        int    `json:"turn_number"`
	UserUtterance     string `json:"user_utterance"`
	AssistantResponse string `json:"assistant_response"`
}

// Target is a goal the assistant was expected to fulfill. The description
// acts as its own identifier within a conversation; the core never sees a
// pre-computed completion status — that is the rater's judgment.
type Target struct {
	IntroducedTurn int `json:"introduced_turn"`
}

// Conversation is one recorded multi-turn dialogue to be rated. Created
// once per load, immutable for the rest of the session, replaced wholesale
// when a different folder is loaded.
type Conversation struct {
	// ID is unique within a loaded set.
	ID string `json:"conversation_id"`

	// SeedPhrase is the free-text scenario label.
	SeedPhrase string `json:"seed_phrase"`

	// NumTurns is the turn count, kept alongside Turns for display.
	NumTurns int `json:"num_turns"`

	// Turns is the ordered exchange sequence.
	Turns []Turn `json:"turns"`

	// Targets maps each goal description to where it was introduced.
	Targets map[string]Target `json:"targets"`

	// SourceFile is the file this conversation was loaded from.
	SourceFile string `json:"-"`
}
