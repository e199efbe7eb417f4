package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/downvot/downvot/internal/flow"
	"github.com/downvot/downvot/internal/lang"
	"github.com/downvot/downvot/internal/session"
)

// runEffects interprets the state machine's instructions against Telegram
// and the download service.
func (b *Bot) runEffects(p *flow.Prompt, effects []flow.Effect) {
	for _, eff := range effects {
		switch e := eff.(type) {

		case flow.ShowMenu:
			text, kb := b.renderMenu(p, e.Menu)
			b.editMessage(p.ChatID, p.MessageID, text, &kb)

		case flow.FetchInfo:
			b.editMessage(p.ChatID, p.MessageID, lang.T(p.Language, "fetching_info"), nil)
			chat := b.store.Chat(p.ChatID)
			info, err := b.dl.GetInfo(chat.APIKey, p.URL)
			if err != nil {
				log.WithError(err).WithField("url", p.URL).Warn("info fetch failed")
				b.runEffects(p, flow.Transition(p, flow.InfoFailed{Err: err}))
				return
			}
			b.runEffects(p, flow.Transition(p, flow.InfoFetched{Info: info}))
			return

		case flow.AskText:
			chat := b.store.Chat(p.ChatID)
			chat.AwaitingText = &session.PendingInput{
				Prompt: session.Key{ChatID: p.ChatID, MessageID: p.MessageID},
			}
			b.send(p.ChatID, lang.T(p.Language, e.Key))

		case flow.Notify:
			b.send(p.ChatID, lang.T(p.Language, e.Key, e.Args...))

		case flow.Dispatch:
			chat := b.store.Chat(p.ChatID)
			go b.processTask(newDeliveryJob(p, chat.APIKey, e.Request))

		case flow.Abort:
			b.editMessage(p.ChatID, p.MessageID, lang.T(p.Language, e.Key), nil)
			b.store.DeletePrompt(p.ChatID, p.MessageID)
		}
	}
}

func (b *Bot) renderMenu(p *flow.Prompt, menu flow.Menu) (string, tgbotapi.InlineKeyboardMarkup) {
	switch menu {
	case flow.MenuQuality:
		return menuText(p), qualityKeyboard(p)
	case flow.MenuDuration:
		return lang.T(p.Language, "choose_duration"), durationKeyboard(p)
	case flow.MenuVideoQuality:
		return lang.T(p.Language, "choose_video_quality"), videoQualityKeyboard(p)
	case flow.MenuAudioQuality:
		return lang.T(p.Language, "choose_audio_quality"), audioQualityKeyboard(p)
	case flow.MenuOutputFormat:
		return lang.T(p.Language, "choose_output"), outputFormatKeyboard(p)
	case flow.MenuCrop:
		return lang.T(p.Language, "choose_crop"), cropKeyboard()
	}
	return lang.T(p.Language, "choose_type", p.Source), typeKeyboard()
}

// editMessage redraws a prompt's single menu message in place.
func (b *Bot) editMessage(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	var msg tgbotapi.Chattable
	if kb != nil {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *kb)
		msg = edit
	} else {
		msg = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithFields(log.Fields{"chat": chatID, "prompt": messageID}).Debug("menu edit failed")
	}
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.WithError(err).WithField("chat", chatID).Warn("send failed")
	}
}
