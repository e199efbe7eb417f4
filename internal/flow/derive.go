package flow

import (
	"github.com/downvot/downvot/internal/config"
)

// RecomputeSize refreshes the projected output size from the current
// selection. Called on every quality-menu entry so the size shown next to
// the download button always matches the selected combination.
func (p *Prompt) RecomputeSize() {
	p.TotalSize = 0
	p.SizeKnown = false
	if p.Info == nil {
		return
	}

	if p.IsGIF() {
		p.TotalSize = p.gifSize()
		p.SizeKnown = p.TotalSize > 0
		return
	}

	var total int64
	if p.FileType == FileTypeVideo {
		if f, ok := p.SelectedVideo(); ok {
			total += f.Size()
		}
	}
	if f, ok := p.SelectedAudio(); ok {
		total += f.Size()
	}

	if total > 0 {
		if frac, ok := p.rangeFraction(); ok {
			total = int64(float64(total) * frac)
		}
		p.SizeKnown = true
	}
	p.TotalSize = total
}

// gifSize projects an animated output from resolution, frame rate and
// duration alone; the service reports no size for that transform, so the
// source filesize fields are deliberately ignored.
func (p *Prompt) gifSize() int64 {
	f, ok := p.SelectedVideo()
	if !ok || f.Width <= 0 || f.Height <= 0 {
		return 0
	}
	fps := f.FPS
	if fps <= 0 {
		fps = 30
	}
	dur := p.selectedSeconds()
	if dur <= 0 {
		return 0
	}
	return int64(float64(f.Width) * float64(f.Height) * fps * dur * config.GIFCompressionRatio)
}

// rangeFraction is the trimmed share of the media, when a trim is active and
// the media duration is known.
func (p *Prompt) rangeFraction() (float64, bool) {
	if p.Info == nil || p.Info.Duration <= 0 {
		return 0, false
	}
	if p.StartTime == nil && p.EndTime == nil {
		return 0, false
	}
	frac := p.selectedSeconds() / p.Info.Duration
	if frac <= 0 || frac >= 1 {
		return 0, false
	}
	return frac, true
}

// selectedSeconds is the output duration in seconds for the current
// selection: live capture length, trimmed range, or the full media length.
func (p *Prompt) selectedSeconds() float64 {
	if p.IsLive() {
		return float64(p.Duration)
	}
	total := 0.0
	if p.Info != nil {
		total = p.Info.Duration
	}
	start := 0.0
	if p.StartTime != nil {
		start = float64(*p.StartTime)
	}
	end := total
	if p.EndTime != nil {
		end = float64(*p.EndTime)
	}
	if end > total && total > 0 {
		end = total
	}
	if end <= start {
		return 0
	}
	return end - start
}

// Ceiling is the maximum output size for the current selection.
func (p *Prompt) Ceiling() int64 {
	if p.IsGIF() {
		return config.MaxGIFSize
	}
	return config.MaxFileSize
}

// ConfirmBlocked reports why the confirm control must render disabled, or ""
// when dispatch is allowed. The control stays visible either way so the user
// sees why they cannot proceed.
func (p *Prompt) ConfirmBlocked() string {
	if !p.SizeKnown {
		return ""
	}
	if p.TotalSize > p.Ceiling() {
		return "over_limit"
	}
	if p.TotalSize > config.MaxInlineFileSize && !p.Premium {
		return "premium_required"
	}
	return ""
}
