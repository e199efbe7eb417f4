package bot

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/downvot/downvot/internal/config"
	"github.com/downvot/downvot/internal/dlservice"
	"github.com/downvot/downvot/internal/flow"
	"github.com/downvot/downvot/internal/lang"
)

// deliveryJob freezes everything resolution and delivery need at dispatch
// time, so the background task never touches the live prompt or chat state.
type deliveryJob struct {
	chatID    int64
	messageID int
	language  string
	premium   bool
	apiKey    string

	request   dlservice.TaskRequest
	projected int64
	caption   string
	filename  string
	thumbnail string
	gif       bool
	audio     bool
}

func newDeliveryJob(p *flow.Prompt, apiKey string, req dlservice.TaskRequest) deliveryJob {
	job := deliveryJob{
		chatID:    p.ChatID,
		messageID: p.MessageID,
		language:  p.Language,
		premium:   p.Premium,
		apiKey:    apiKey,
		request:   req,
		projected: p.TotalSize,
		caption:   resultCaption(p),
		filename:  outputFilename(p),
		gif:       p.IsGIF(),
		audio:     p.FileType == flow.FileTypeAudio,
	}
	if p.Info != nil {
		job.thumbnail = p.Info.Thumbnail
	}
	return job
}

// processTask owns the job from dispatch to teardown: submit, poll, deliver.
// The session entry is removed exactly once, whatever path the resolution
// takes, and that removal re-enters the chat's lane.
func (b *Bot) processTask(job deliveryJob) {
	logger := log.WithFields(log.Fields{"chat": job.chatID, "prompt": job.messageID})
	final := flow.StateFailed

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic during task processing: %v", r)
		}
		b.finishPrompt(job, final)
		b.deleteMessage(job.chatID, job.messageID)
		b.send(job.chatID, lang.T(job.language, "send_another"))
	}()

	b.editMessage(job.chatID, job.messageID, lang.T(job.language, "task_created"), nil)

	taskID, err := b.dl.SubmitTask(job.apiKey, job.request)
	if err != nil {
		logger.WithError(err).Error("task submission failed")
		b.send(job.chatID, lang.T(job.language, "task_failed"))
		return
	}
	logger = logger.WithField("task", taskID)
	logger.Info("task dispatched")

	result, err := b.dl.Resolve(job.apiKey, taskID, config.MaxResolveAttempts)
	if err != nil {
		logger.WithError(err).Error("task resolution failed")
		b.send(job.chatID, lang.T(job.language, "task_failed"))
		return
	}

	if b.courier.deliver(job, result) {
		final = flow.StateDelivered
		logger.Info("delivered")
	}
}

// finishPrompt routes the terminal state write and the teardown through the
// chat's lane, same as every other prompt mutation.
func (b *Bot) finishPrompt(job deliveryJob, state flow.State) {
	b.work.Do(job.chatID, func() {
		if p, ok := b.store.Prompt(job.chatID, job.messageID); ok {
			p.State = state
		}
		b.store.DeletePrompt(job.chatID, job.messageID)
	})
}

// messageSender is the slice of the Telegram API the courier needs.
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type fileFetcher interface {
	FetchFile(apiKey, fileURL string, maxSize int64) ([]byte, string, error)
}

// courier hands a resolved file to the user: inline bytes under the ceiling,
// a durable link for the premium tier, a denial otherwise.
type courier struct {
	tg messageSender
	dl fileFetcher
}

// deliver returns false only on a transport-level delivery failure.
func (c *courier) deliver(job deliveryJob, result *dlservice.TaskResult) bool {
	// The byte fetch is skipped when the projection already rules out an
	// inline send; the fetched size is still authoritative afterwards.
	if job.projected <= config.MaxInlineFileSize {
		data, name, err := c.dl.FetchFile(job.apiKey, result.FileURL, config.MaxInlineFileSize)
		switch {
		case err == nil:
			if name == "" {
				name = job.filename
			}
			return c.sendInline(job, name, data)
		case errors.Is(err, dlservice.ErrFileTooLarge):
			// Projection was wrong, fall through to the oversized path.
		default:
			log.WithError(err).Error("file fetch failed")
			c.sendText(job.chatID, lang.T(job.language, "task_failed"))
			return false
		}
	}

	if !job.premium {
		c.sendText(job.chatID, lang.T(job.language, "too_large_denied"))
		return true
	}
	return c.sendLink(job, result.FileURL)
}

func (c *courier) sendInline(job deliveryJob, filename string, data []byte) bool {
	file := tgbotapi.FileBytes{Name: filename, Bytes: data}

	var msg tgbotapi.Chattable
	switch {
	case job.gif:
		anim := tgbotapi.NewAnimation(job.chatID, file)
		anim.Caption = job.caption
		msg = anim
	case job.audio:
		audio := tgbotapi.NewAudio(job.chatID, file)
		audio.Caption = job.caption
		msg = audio
	default:
		video := tgbotapi.NewVideo(job.chatID, file)
		video.Caption = job.caption
		video.SupportsStreaming = true
		msg = video
	}

	if _, err := c.tg.Send(msg); err != nil {
		log.WithError(err).WithField("chat", job.chatID).Error("inline delivery failed")
		c.sendText(job.chatID, lang.T(job.language, "task_failed"))
		return false
	}
	return true
}

func (c *courier) sendLink(job deliveryJob, fileURL string) bool {
	text := lang.T(job.language, "too_large_link", fileURL)

	if job.thumbnail != "" {
		photo := tgbotapi.NewPhoto(job.chatID, tgbotapi.FileURL(job.thumbnail))
		photo.Caption = text
		if _, err := c.tg.Send(photo); err == nil {
			return true
		}
		// Thumbnail fetch can fail on the Telegram side; the plain message
		// still carries the link.
	}
	c.sendText(job.chatID, text)
	return true
}

func (c *courier) sendText(chatID int64, text string) {
	if _, err := c.tg.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.WithError(err).WithField("chat", chatID).Warn("send failed")
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		log.WithError(err).Debug("failed to delete menu message")
	}
}
