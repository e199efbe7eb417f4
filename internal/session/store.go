package session

import (
	"sync"

	"github.com/downvot/downvot/internal/flow"
)

// Key addresses one in-flight prompt: the chat plus the id of the message
// rendering its menu. Sibling prompts in the same chat never collide.
type Key struct {
	ChatID    int64
	MessageID int
}

// PendingInput marks which typed value the chat owes next, and to which
// prompt it belongs.
type PendingInput struct {
	Prompt Key
}

// ChatState is the cross-prompt state for one chat. It survives individual
// prompts and is initialized once, on first authorization.
type ChatState struct {
	Username string
	Language string
	Premium  bool
	APIKey   string

	// Admin panel: the next text message is the argument for this action.
	PendingAdmin string

	// Range entry: the next text message belongs to this prompt.
	AwaitingText *PendingInput
}

// Store holds all mutable conversation state, partitioned by (chat, prompt)
// so distinct prompts never need synchronization between each other.
type Store struct {
	mu      sync.RWMutex
	prompts map[Key]*flow.Prompt
	chats   map[int64]*ChatState
}

func NewStore() *Store {
	return &Store{
		prompts: map[Key]*flow.Prompt{},
		chats:   map[int64]*ChatState{},
	}
}

// Chat returns the chat-scoped state, creating it on first touch.
func (s *Store) Chat(chatID int64) *ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.chats[chatID]
	if !ok {
		st = &ChatState{Language: "en"}
		s.chats[chatID] = st
	}
	return st
}

func (s *Store) HasChat(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.chats[chatID]
	return ok
}

func (s *Store) PutPrompt(p *flow.Prompt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts[Key{ChatID: p.ChatID, MessageID: p.MessageID}] = p
}

func (s *Store) Prompt(chatID int64, messageID int) (*flow.Prompt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prompts[Key{ChatID: chatID, MessageID: messageID}]
	return p, ok
}

// DeletePrompt tears down one prompt entry. Deleting a missing key is a
// no-op, so the single-teardown guarantee holds even when an error path and
// a finally path both try.
func (s *Store) DeletePrompt(chatID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prompts, Key{ChatID: chatID, MessageID: messageID})
	if st, ok := s.chats[chatID]; ok && st.AwaitingText != nil {
		if st.AwaitingText.Prompt == (Key{ChatID: chatID, MessageID: messageID}) {
			st.AwaitingText = nil
		}
	}
}

func (s *Store) PromptCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prompts)
}

func (s *Store) ChatCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chats)
}
