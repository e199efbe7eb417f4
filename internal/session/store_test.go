package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/downvot/downvot/internal/flow"
)

func TestPromptLifecycle(t *testing.T) {
	s := NewStore()
	p := flow.NewPrompt(100, 1, "alice", "en", false, "u", "YouTube")
	s.PutPrompt(p)

	got, ok := s.Prompt(100, 1)
	require.True(t, ok)
	assert.Same(t, p, got)

	s.DeletePrompt(100, 1)
	_, ok = s.Prompt(100, 1)
	assert.False(t, ok)

	// Deleting again is a harmless no-op.
	s.DeletePrompt(100, 1)
	assert.Equal(t, 0, s.PromptCount())
}

func TestSiblingPromptsIndependent(t *testing.T) {
	s := NewStore()
	s.PutPrompt(flow.NewPrompt(100, 1, "alice", "en", false, "u1", "YouTube"))
	s.PutPrompt(flow.NewPrompt(100, 2, "alice", "en", false, "u2", "YouTube"))
	s.PutPrompt(flow.NewPrompt(200, 1, "bob", "en", false, "u3", "YouTube"))

	s.DeletePrompt(100, 1)

	_, ok := s.Prompt(100, 2)
	assert.True(t, ok, "sibling prompt in the same chat must survive")
	_, ok = s.Prompt(200, 1)
	assert.True(t, ok, "same message id in another chat must survive")
	assert.Equal(t, 2, s.PromptCount())
}

func TestChatStateSurvivesPromptTeardown(t *testing.T) {
	s := NewStore()
	chat := s.Chat(100)
	chat.Premium = true
	chat.APIKey = "k"

	s.PutPrompt(flow.NewPrompt(100, 1, "alice", "en", true, "u", "YouTube"))
	s.DeletePrompt(100, 1)

	again := s.Chat(100)
	assert.Same(t, chat, again)
	assert.True(t, again.Premium)
	assert.Equal(t, "k", again.APIKey)
}

func TestTeardownClearsPendingInputForThatPromptOnly(t *testing.T) {
	s := NewStore()
	chat := s.Chat(100)
	s.PutPrompt(flow.NewPrompt(100, 1, "alice", "en", false, "u", "YouTube"))
	s.PutPrompt(flow.NewPrompt(100, 2, "alice", "en", false, "u", "YouTube"))

	chat.AwaitingText = &PendingInput{Prompt: Key{ChatID: 100, MessageID: 2}}
	s.DeletePrompt(100, 1)
	assert.NotNil(t, chat.AwaitingText, "input owed to a sibling prompt is untouched")

	s.DeletePrompt(100, 2)
	assert.Nil(t, chat.AwaitingText)
}

func TestChatDefaults(t *testing.T) {
	s := NewStore()
	chat := s.Chat(1)
	assert.Equal(t, "en", chat.Language)
	assert.False(t, chat.Premium)
	assert.True(t, s.HasChat(1))
	assert.False(t, s.HasChat(2))
}
