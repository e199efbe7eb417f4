package bot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/downvot/downvot/internal/flow"
	"github.com/downvot/downvot/internal/lang"
)

func formatSize(bytes int64) string {
	if bytes <= 0 {
		return "?"
	}
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	}
	if bytes < 1024*1024*1024 {
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
	return fmt.Sprintf("%.2f GB", float64(bytes)/(1024*1024*1024))
}

func formatSeconds(secs int) string {
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	if secs%60 == 0 {
		return fmt.Sprintf("%dm", secs/60)
	}
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}

func formatTimestamp(secs int) string {
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

func rangeText(p *flow.Prompt) string {
	start := "0:00:00"
	if p.StartTime != nil {
		start = formatTimestamp(*p.StartTime)
	}
	end := "end"
	if p.EndTime != nil {
		end = formatTimestamp(*p.EndTime)
	}
	return start + " – " + end
}

// menuText is the body of the prompt's menu message on the quality hub.
func menuText(p *flow.Prompt) string {
	lines := []string{}
	if p.Info != nil && p.Info.Title != "" {
		lines = append(lines, p.Info.Title)
	}
	lines = append(lines, p.Source)
	if p.IsLive() {
		lines = append(lines, "Live stream")
	}
	if p.SizeKnown {
		lines = append(lines, "Estimated size: "+formatSize(p.TotalSize))
	} else {
		lines = append(lines, "Estimated size: ?")
	}
	return strings.Join(lines, "\n")
}

// resultCaption describes a delivered file: title, resolved quality labels
// and, when trimmed, the applied range.
func resultCaption(p *flow.Prompt) string {
	parts := []string{}
	if p.FileType == flow.FileTypeAudio {
		parts = append(parts, lang.T(p.Language, "audio_caption"))
	} else if p.IsGIF() {
		parts = append(parts, lang.T(p.Language, "gif_caption"))
	} else {
		parts = append(parts, lang.T(p.Language, "video_caption"))
	}

	if p.Info != nil && p.Info.Title != "" {
		parts = append(parts, p.Info.Title)
	}

	quality := []string{}
	if p.FileType == flow.FileTypeVideo {
		if f, ok := p.SelectedVideo(); ok {
			quality = append(quality, f.VideoLabel())
		}
	}
	if f, ok := p.SelectedAudio(); ok {
		quality = append(quality, f.AudioLabel())
	}
	if len(quality) > 0 {
		parts = append(parts, strings.Join(quality, " + "))
	}

	if p.StartTime != nil || p.EndTime != nil {
		parts = append(parts, "Trimmed: "+rangeText(p))
	}
	return strings.Join(parts, "\n")
}

var (
	unsafeNameRe = regexp.MustCompile(`[^a-zA-ZÀ-žа-яА-ЯёЁ0-9;_. ]`)
	spacesRe     = regexp.MustCompile(`\s+`)
)

// outputFilename synthesizes a delivery filename from the media title.
func outputFilename(p *flow.Prompt) string {
	title := "media"
	if p.Info != nil && p.Info.Title != "" {
		title = p.Info.Title
	}
	name := unsafeNameRe.ReplaceAllString(title, "")
	name = spacesRe.ReplaceAllString(strings.TrimSpace(name), "_")
	if name == "" {
		name = "media"
	}
	name += "_DownVot"
	if p.FileType == flow.FileTypeVideo && !p.IsGIF() {
		if f, ok := p.SelectedVideo(); ok {
			name += "_" + f.VideoLabel()
		}
	}
	return name + "." + p.EffectiveOutputFormat()
}
