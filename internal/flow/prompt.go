package flow

import (
	"github.com/downvot/downvot/internal/config"
	"github.com/downvot/downvot/internal/dlservice"
)

// State is the position of a prompt in the selection dialogue.
type State int

const (
	StateSubmitted State = iota
	StateTypeChosen
	StateQualityMenu
	StateDurationMenu
	StateVideoQualityMenu
	StateAudioQualityMenu
	StateOutputFormatMenu
	StateRangeStart
	StateRangeEnd
	StateCropMenu
	StateDispatched
	StateDelivered
	StateFailed
)

const (
	FileTypeVideo = "video"
	FileTypeAudio = "audio"
)

// Prompt is the mutable selection context for one in-flight menu message.
// One chat may host several prompts, each keyed by the id of the message
// rendering its menu.
type Prompt struct {
	ChatID    int64
	MessageID int

	Username string
	Language string
	Premium  bool

	// Set once at submission, immutable afterwards.
	URL    string
	Source string

	State    State
	FileType string

	// Snapshot fetched once per prompt; menus and size math always derive
	// from the same snapshot.
	Info *dlservice.MediaInfo

	// Explicit selections; empty means "use the default".
	VideoFormat  string
	AudioFormat  string
	OutputFormat string

	StartTime      *int
	EndTime        *int
	ForceKeyframes bool

	// Live capture length in seconds, live sources only.
	Duration int

	// Projected output size for the current selection; derived, recomputed
	// on every quality-menu redraw. Zero with SizeKnown=false means unknown.
	TotalSize int64
	SizeKnown bool
}

func NewPrompt(chatID int64, messageID int, username, language string, premium bool, url, src string) *Prompt {
	return &Prompt{
		ChatID:    chatID,
		MessageID: messageID,
		Username:  username,
		Language:  language,
		Premium:   premium,
		URL:       url,
		Source:    src,
		State:     StateSubmitted,
	}
}

// SelectedVideo resolves the explicit video selection, or the last (highest
// quality) entry when nothing was picked yet.
func (p *Prompt) SelectedVideo() (dlservice.Format, bool) {
	if p.Info == nil {
		return dlservice.Format{}, false
	}
	if p.VideoFormat != "" {
		if f, ok := p.Info.Qualities.Video.ByID(p.VideoFormat); ok {
			return f, true
		}
	}
	return p.Info.Qualities.Video.Last()
}

// SelectedAudio resolves the explicit audio selection, defaulting like
// SelectedVideo.
func (p *Prompt) SelectedAudio() (dlservice.Format, bool) {
	if p.Info == nil {
		return dlservice.Format{}, false
	}
	if p.AudioFormat != "" {
		if f, ok := p.Info.Qualities.Audio.ByID(p.AudioFormat); ok {
			return f, true
		}
	}
	return p.Info.Qualities.Audio.Last()
}

// EffectiveOutputFormat is the chosen container, or the file-type default.
func (p *Prompt) EffectiveOutputFormat() string {
	if p.OutputFormat != "" {
		return p.OutputFormat
	}
	if p.FileType == FileTypeAudio {
		return "mp3"
	}
	return "mp4"
}

// OutputOptions restricts container candidates by file type.
func (p *Prompt) OutputOptions() []string {
	if p.FileType == FileTypeAudio {
		return config.AudioOutputFormats
	}
	return config.VideoOutputFormats
}

// DurationOptions is the live capture menu for this chat's tier.
func (p *Prompt) DurationOptions() []int {
	if p.Premium {
		return config.LiveDurationsPremium
	}
	return config.LiveDurations
}

func (p *Prompt) IsLive() bool {
	return p.Info != nil && p.Info.IsLive
}

func (p *Prompt) IsGIF() bool {
	return p.EffectiveOutputFormat() == "gif"
}

func (p *Prompt) Terminal() bool {
	return p.State == StateDelivered || p.State == StateFailed
}

// Descriptor freezes the current selection into a task request. Valid only
// once the quality menu has been reached (the snapshot exists).
func (p *Prompt) Descriptor() dlservice.TaskRequest {
	req := dlservice.TaskRequest{
		URL:            p.URL,
		OutputFormat:   p.EffectiveOutputFormat(),
		StartTime:      p.StartTime,
		EndTime:        p.EndTime,
		ForceKeyframes: p.ForceKeyframes,
	}

	if f, ok := p.SelectedAudio(); ok {
		req.AudioFormat = f.ID
	}
	if p.FileType == FileTypeVideo {
		req.Kind = dlservice.TaskVideo
		if f, ok := p.SelectedVideo(); ok {
			req.VideoFormat = f.ID
		}
	} else {
		req.Kind = dlservice.TaskAudio
	}

	if p.IsLive() {
		req.Duration = p.Duration
		req.StartTime = nil
		req.EndTime = nil
		if p.FileType == FileTypeVideo {
			req.Kind = dlservice.TaskLiveVideo
		} else {
			req.Kind = dlservice.TaskLiveAudio
		}
	}
	return req
}
