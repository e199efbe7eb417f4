package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/downvot/downvot/internal/auth"
	"github.com/downvot/downvot/internal/config"
	"github.com/downvot/downvot/internal/dlservice"
	"github.com/downvot/downvot/internal/session"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	store    *session.Store
	gate     *auth.Gate
	dl       *dlservice.Client
	registry *config.Registry
	courier  *courier
	work     *serializer

	stop chan struct{}
}

func New(token string, store *session.Store, dl *dlservice.Client, registry *config.Registry) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		api:      api,
		store:    store,
		dl:       dl,
		registry: registry,
		courier:  &courier{tg: api, dl: dl},
		work:     newSerializer(),
		stop:     make(chan struct{}),
	}
	b.gate = auth.NewGate(registry, dl, b)

	log.Infof("authorized as @%s", api.Self.UserName)
	return b, nil
}

func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	log.Info("listening for updates")
	for {
		select {
		case update := <-updates:
			chatID, ok := updateChatID(update)
			if !ok {
				continue
			}
			// All state for one chat is touched from its lane only; the long
			// download phase runs detached on a frozen snapshot instead.
			b.work.Do(chatID, func() { b.handleUpdate(update) })
		case <-b.stop:
			return
		}
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	close(b.stop)
}

func updateChatID(update tgbotapi.Update) (int64, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID, true
	}
	return 0, false
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

// IsMember implements auth.MembershipChecker through a delegated chat-member
// lookup against the gated channel.
func (b *Bot) IsMember(channel string, userID int64) (bool, error) {
	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: channel,
			UserID:             userID,
		},
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return false, nil
		}
		return false, err
	}
	switch member.Status {
	case "member", "administrator", "creator":
		return true, nil
	}
	return false, nil
}
