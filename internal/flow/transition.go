package flow

import (
	"github.com/downvot/downvot/internal/config"
)

// Transition advances the prompt by one event and returns the effects the
// transport must perform. Events that don't apply in the current state are
// ignored (stale callbacks from superseded menus arrive routinely).
func Transition(p *Prompt, ev Event) []Effect {
	switch e := ev.(type) {

	case TypeChosen:
		if p.State != StateSubmitted {
			return nil
		}
		if e.FileType != FileTypeVideo && e.FileType != FileTypeAudio {
			return nil
		}
		p.FileType = e.FileType
		// A file-type change invalidates everything derived from it.
		p.VideoFormat = ""
		p.AudioFormat = ""
		p.OutputFormat = ""
		p.State = StateTypeChosen
		return []Effect{FetchInfo{}}

	case InfoFetched:
		if p.State != StateTypeChosen {
			return nil
		}
		p.Info = e.Info
		if p.Language == "" && e.Info.Language != "" {
			p.Language = e.Info.Language
		}
		if p.IsLive() {
			p.Duration = p.DurationOptions()[0]
			p.State = StateDurationMenu
			return []Effect{ShowMenu{Menu: MenuDuration}}
		}
		return p.enterQualityMenu()

	case InfoFailed:
		if p.State != StateTypeChosen {
			return nil
		}
		p.State = StateFailed
		return []Effect{Abort{Key: "info_failed"}}

	case DurationChosen:
		if p.State != StateDurationMenu {
			return nil
		}
		if !containsInt(p.DurationOptions(), e.Seconds) {
			return nil
		}
		p.Duration = e.Seconds
		return p.enterQualityMenu()

	case DurationMenuOpened:
		if p.State != StateQualityMenu || !p.IsLive() {
			return nil
		}
		p.State = StateDurationMenu
		return []Effect{ShowMenu{Menu: MenuDuration}}

	case VideoMenuOpened:
		if p.State != StateQualityMenu || p.FileType != FileTypeVideo {
			return nil
		}
		p.State = StateVideoQualityMenu
		return []Effect{ShowMenu{Menu: MenuVideoQuality}}

	case AudioMenuOpened:
		if p.State != StateQualityMenu {
			return nil
		}
		p.State = StateAudioQualityMenu
		return []Effect{ShowMenu{Menu: MenuAudioQuality}}

	case OutputMenuOpened:
		if p.State != StateQualityMenu {
			return nil
		}
		p.State = StateOutputFormatMenu
		return []Effect{ShowMenu{Menu: MenuOutputFormat}}

	case RangeMenuOpened:
		// Live capture has no seekable range to trim.
		if p.State != StateQualityMenu || p.IsLive() {
			return nil
		}
		p.State = StateRangeStart
		return []Effect{AskText{Key: "enter_start"}}

	case VideoPicked:
		if p.State != StateVideoQualityMenu {
			return nil
		}
		if _, ok := p.Info.Qualities.Video.ByID(e.ID); !ok {
			return nil
		}
		p.VideoFormat = e.ID
		return p.enterQualityMenu()

	case AudioPicked:
		if p.State != StateAudioQualityMenu {
			return nil
		}
		if _, ok := p.Info.Qualities.Audio.ByID(e.ID); !ok {
			return nil
		}
		p.AudioFormat = e.ID
		return p.enterQualityMenu()

	case OutputPicked:
		if p.State != StateOutputFormatMenu {
			return nil
		}
		if !config.Contains(p.OutputOptions(), e.Format) {
			return nil
		}
		// Quality selections persist across an output-format change; only a
		// file-type change clears them.
		p.OutputFormat = e.Format
		return p.enterQualityMenu()

	case TimeEntered:
		return p.applyTime(e.Text)

	case CropChosen:
		if p.State != StateCropMenu {
			return nil
		}
		p.ForceKeyframes = e.Precise
		return p.enterQualityMenu()

	case BackPressed:
		switch p.State {
		case StateVideoQualityMenu, StateAudioQualityMenu, StateOutputFormatMenu,
			StateRangeStart, StateRangeEnd, StateCropMenu:
			return p.enterQualityMenu()
		}
		return nil

	case Confirmed:
		if p.State != StateQualityMenu {
			return nil
		}
		p.RecomputeSize()
		if p.ConfirmBlocked() != "" {
			return nil
		}
		p.State = StateDispatched
		return []Effect{Dispatch{Request: p.Descriptor()}}
	}

	return nil
}

// enterQualityMenu is the common re-entry point after every sub-picker:
// defaults and the projected size are recomputed before the redraw.
func (p *Prompt) enterQualityMenu() []Effect {
	p.State = StateQualityMenu
	p.RecomputeSize()
	return []Effect{ShowMenu{Menu: MenuQuality}}
}

func (p *Prompt) applyTime(text string) []Effect {
	switch p.State {
	case StateRangeStart:
		if text == NoBound {
			p.StartTime = nil
			p.State = StateRangeEnd
			return []Effect{AskText{Key: "enter_end"}}
		}
		secs, ok := ParseTimestamp(text)
		if !ok {
			return []Effect{Notify{Key: "bad_timestamp"}, AskText{Key: "enter_start"}}
		}
		p.StartTime = &secs
		p.State = StateRangeEnd
		return []Effect{AskText{Key: "enter_end"}}

	case StateRangeEnd:
		if text == NoBound {
			p.EndTime = nil
			p.State = StateCropMenu
			return []Effect{ShowMenu{Menu: MenuCrop}}
		}
		secs, ok := ParseTimestamp(text)
		if !ok {
			return []Effect{Notify{Key: "bad_timestamp"}, AskText{Key: "enter_end"}}
		}
		// An end past the media duration is clamped, not rejected.
		if p.Info != nil && p.Info.Duration > 0 && float64(secs) > p.Info.Duration {
			secs = int(p.Info.Duration)
		}
		if p.StartTime != nil && secs <= *p.StartTime {
			return []Effect{Notify{Key: "end_before_start"}, AskText{Key: "enter_end"}}
		}
		p.EndTime = &secs
		p.State = StateCropMenu
		return []Effect{ShowMenu{Menu: MenuCrop}}
	}
	return nil
}

func containsInt(slice []int, val int) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}
