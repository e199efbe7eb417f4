package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/downvot/downvot/internal/flow"
)

func typeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Video", encodeCallback(opChooseType, flow.FileTypeVideo)),
			tgbotapi.NewInlineKeyboardButtonData("Audio", encodeCallback(opChooseType, flow.FileTypeAudio)),
		),
	)
}

// qualityKeyboard is the hub menu: sub-picker buttons plus the confirm
// control. The confirm button stays visible when dispatch is blocked, just
// relabeled and wired to an inert callback.
func qualityKeyboard(p *flow.Prompt) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}

	if p.FileType == flow.FileTypeVideo {
		label := "Video quality"
		if f, ok := p.SelectedVideo(); ok {
			label = "Video: " + f.VideoLabel()
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, encodeCallback(opVideoMenu, "")),
		))
	}

	audioLabel := "Audio quality"
	if f, ok := p.SelectedAudio(); ok {
		audioLabel = "Audio: " + f.AudioLabel()
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(audioLabel, encodeCallback(opAudioMenu, "")),
	))

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Format: "+p.EffectiveOutputFormat(), encodeCallback(opOutputMenu, "")),
	))

	if p.IsLive() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("Length: %s", formatSeconds(p.Duration)), encodeCallback(opDurMenu, "")),
		))
	} else {
		rangeLabel := "Trim: full"
		if p.StartTime != nil || p.EndTime != nil {
			rangeLabel = "Trim: " + rangeText(p)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(rangeLabel, encodeCallback(opRangeMenu, "")),
		))
	}

	if reason := p.ConfirmBlocked(); reason != "" {
		label := "Too large: " + formatSize(p.TotalSize)
		if reason == "premium_required" {
			label = "Premium required for " + formatSize(p.TotalSize)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, encodeCallback(opNoop, "")),
		))
	} else {
		label := "Download"
		if p.SizeKnown {
			label = "Download (~" + formatSize(p.TotalSize) + ")"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, encodeCallback(opConfirm, "")),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func videoQualityKeyboard(p *flow.Prompt) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for _, f := range p.Info.Qualities.Video {
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
		label := f.VideoLabel()
		if f.Size() > 0 {
			label += " · " + formatSize(f.Size())
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, encodeCallback(opVideoPick, f.ID)))
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func audioQualityKeyboard(p *flow.Prompt) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for _, f := range p.Info.Qualities.Audio {
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
		label := f.AudioLabel()
		if f.Size() > 0 {
			label += " · " + formatSize(f.Size())
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, encodeCallback(opAudioPick, f.ID)))
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func outputFormatKeyboard(p *flow.Prompt) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for _, format := range p.OutputOptions() {
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(format, encodeCallback(opOutputPick, format)))
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func durationKeyboard(p *flow.Prompt) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for _, secs := range p.DurationOptions() {
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			formatSeconds(secs), encodeCallback(opDuration, fmt.Sprintf("%d", secs))))
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func cropKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Fast (keyframes)", encodeCallback(opCropPick, "fast")),
			tgbotapi.NewInlineKeyboardButtonData("Precise (re-encode)", encodeCallback(opCropPick, "precise")),
		),
	)
}

func adminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Create key", encodeCallback(opAdminCreate, "")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Delete key", encodeCallback(opAdminDelete, "")),
		),
	)
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« Back", encodeCallback(opBack, "")),
	)
}
