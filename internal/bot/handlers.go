package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/downvot/downvot/internal/flow"
	"github.com/downvot/downvot/internal/lang"
	"github.com/downvot/downvot/internal/session"
	"github.com/downvot/downvot/internal/source"
)

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	username := msg.From.UserName
	if username == "" {
		username = msg.From.FirstName
	}

	chat := b.store.Chat(msg.Chat.ID)
	if chat.Username == "" && msg.From.LanguageCode != "" {
		chat.Language = msg.From.LanguageCode
	}

	if denial := b.gate.Authorize(username, msg.From.ID, chat); denial != nil {
		b.send(msg.Chat.ID, lang.T(chat.Language, denial.Key, denial.Args...))
		return
	}

	switch msg.Command() {
	case "start":
		log.WithField("user", username).Info("chat started")
		b.send(msg.Chat.ID, lang.T(chat.Language, "greeting"))
		return
	case "admin":
		b.handleAdmin(msg, chat)
		return
	}

	if chat.PendingAdmin != "" {
		b.handleAdminInput(msg, chat)
		return
	}

	if chat.AwaitingText != nil {
		b.handleTextInput(msg, chat)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		b.handleSubmission(msg, chat, text)
		return
	}
	b.send(msg.Chat.ID, lang.T(chat.Language, "send_link"))
}

// handleSubmission opens a new prompt: one menu message whose id keys the
// prompt for its whole life.
func (b *Bot) handleSubmission(msg *tgbotapi.Message, chat *session.ChatState, rawURL string) {
	provider, canonical := source.Detect(rawURL)
	if provider == "" {
		b.send(msg.Chat.ID, lang.T(chat.Language, "unknown_source"))
		return
	}

	log.WithFields(log.Fields{"user": chat.Username, "url": canonical}).Info("link received")

	reply := tgbotapi.NewMessage(msg.Chat.ID, lang.T(chat.Language, "choose_type", provider))
	reply.ReplyMarkup = typeKeyboard()
	sent, err := b.api.Send(reply)
	if err != nil {
		log.WithError(err).Error("failed to send type menu")
		return
	}

	p := flow.NewPrompt(msg.Chat.ID, sent.MessageID, chat.Username, chat.Language, chat.Premium, canonical, provider)
	b.store.PutPrompt(p)
}

// handleTextInput routes a typed value (trim boundary) to the prompt that
// asked for it.
func (b *Bot) handleTextInput(msg *tgbotapi.Message, chat *session.ChatState) {
	key := chat.AwaitingText.Prompt
	chat.AwaitingText = nil

	p, ok := b.store.Prompt(key.ChatID, key.MessageID)
	if !ok {
		b.send(msg.Chat.ID, lang.T(chat.Language, "send_link"))
		return
	}
	effects := flow.Transition(p, flow.TimeEntered{Text: strings.TrimSpace(msg.Text)})
	b.runEffects(p, effects)
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	// Always answer so the client stops its spinner, even for stale buttons.
	defer b.api.Request(tgbotapi.NewCallback(cq.ID, ""))

	if cq.Message == nil || cq.From == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	messageID := cq.Message.MessageID

	payload, ok := decodeCallback(cq.Data)
	if !ok || payload.Op == opNoop {
		return
	}

	username := cq.From.UserName
	if username == "" {
		username = cq.From.FirstName
	}
	chat := b.store.Chat(chatID)
	if denial := b.gate.Authorize(username, cq.From.ID, chat); denial != nil {
		b.send(chatID, lang.T(chat.Language, denial.Key, denial.Args...))
		return
	}

	switch payload.Op {
	case opAdminCreate, opAdminDelete:
		b.handleAdminCallback(chatID, chat, payload.Op)
		return
	}

	p, ok := b.store.Prompt(chatID, messageID)
	if !ok {
		// Stale callback from a prompt already torn down.
		return
	}
	p.Premium = chat.Premium

	ev := eventFor(payload)
	if ev == nil {
		return
	}
	b.runEffects(p, flow.Transition(p, ev))
}
