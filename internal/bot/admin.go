package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/downvot/downvot/internal/auth"
	"github.com/downvot/downvot/internal/config"
	"github.com/downvot/downvot/internal/lang"
	"github.com/downvot/downvot/internal/session"
)

// handleAdmin opens the key-management panel for users whose own key holds
// the admin permission on the download service.
func (b *Bot) handleAdmin(msg *tgbotapi.Message, chat *session.ChatState) {
	ok, err := b.dl.PermissionsCheck(chat.APIKey, []string{"admin"})
	if err != nil || !ok {
		b.send(msg.Chat.ID, lang.T(chat.Language, "admin_denied"))
		return
	}

	log.WithField("user", chat.Username).Info("admin panel opened")
	reply := tgbotapi.NewMessage(msg.Chat.ID, lang.T(chat.Language, "admin_panel"))
	reply.ReplyMarkup = adminKeyboard()
	if _, err := b.api.Send(reply); err != nil {
		log.WithError(err).Warn("failed to send admin panel")
	}
}

func (b *Bot) handleAdminCallback(chatID int64, chat *session.ChatState, op string) {
	switch op {
	case opAdminCreate:
		chat.PendingAdmin = "create"
		b.send(chatID, lang.T(chat.Language, "admin_create_usage"))
	case opAdminDelete:
		chat.PendingAdmin = "delete"
		b.send(chatID, lang.T(chat.Language, "admin_delete_usage"))
	}
}

// handleAdminInput consumes the text message following a panel action as its
// argument: "username [permission ...]".
func (b *Bot) handleAdminInput(msg *tgbotapi.Message, chat *session.ChatState) {
	action := chat.PendingAdmin
	chat.PendingAdmin = ""

	parts := strings.Fields(msg.Text)
	if len(parts) == 0 {
		b.send(msg.Chat.ID, lang.T(chat.Language, "send_link"))
		return
	}
	target := parts[0]

	switch action {
	case "create":
		permissions := config.ProvisionedPermissions
		if len(parts) > 1 {
			permissions = parts[1:]
		}
		key, err := b.dl.CreateKey(chat.APIKey, auth.KeyName(target), permissions)
		if err != nil {
			b.send(msg.Chat.ID, lang.T(chat.Language, "admin_op_failed", err.Error()))
			return
		}
		if err := b.registry.Put(target, config.UserRecord{Key: key}); err != nil {
			log.WithError(err).Warn("failed to persist new user")
		}
		log.WithFields(log.Fields{"admin": chat.Username, "target": target}).Info("key created")
		b.send(msg.Chat.ID, lang.T(chat.Language, "admin_key_created", target))

	case "delete":
		if err := b.dl.DeleteKey(chat.APIKey, auth.KeyName(target)); err != nil {
			b.send(msg.Chat.ID, lang.T(chat.Language, "admin_op_failed", err.Error()))
			return
		}
		if err := b.registry.Delete(target); err != nil {
			log.WithError(err).Warn("failed to remove user record")
		}
		log.WithFields(log.Fields{"admin": chat.Username, "target": target}).Info("key deleted")
		b.send(msg.Chat.ID, lang.T(chat.Language, "admin_key_deleted", target))
	}
}
