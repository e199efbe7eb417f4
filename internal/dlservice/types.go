package dlservice

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Format is one selectable quality variant as reported by the download
// service. Read-only to the bot.
type Format struct {
	ID             string  `json:"-"`
	Height         int     `json:"height,omitempty"`
	FPS            float64 `json:"fps,omitempty"`
	DynamicRange   string  `json:"dynamic_range,omitempty"`
	VCodec         string  `json:"vcodec,omitempty"`
	ABR            float64 `json:"abr,omitempty"`
	ACodec         string  `json:"acodec,omitempty"`
	Filesize       int64   `json:"filesize,omitempty"`
	FilesizeApprox int64   `json:"filesize_approx,omitempty"`
	Width          int     `json:"width,omitempty"`
}

// Size returns the best-known byte size for this format. A zero filesize
// means "unknown", not an empty file, so the approximate field is the
// fallback; 0 means no size is known at all.
func (f Format) Size() int64 {
	if f.Filesize > 0 {
		return f.Filesize
	}
	if f.FilesizeApprox > 0 {
		return f.FilesizeApprox
	}
	return 0
}

// VideoLabel renders a human-readable quality tag, e.g. "1080p60 HDR".
func (f Format) VideoLabel() string {
	label := fmt.Sprintf("%dp", f.Height)
	if f.FPS > 30 {
		label += fmt.Sprintf("%d", int(f.FPS))
	}
	if f.DynamicRange != "" && f.DynamicRange != "SDR" {
		label += " " + f.DynamicRange
	}
	return label
}

// AudioLabel renders a bitrate tag, e.g. "128kbps".
func (f Format) AudioLabel() string {
	if f.ABR <= 0 {
		return f.ID
	}
	return fmt.Sprintf("%dkbps", int(f.ABR))
}

// FormatList preserves the service's insertion order, which is ascending by
// quality; the last entry is the best one. A plain map would lose that.
type FormatList []Format

func (l FormatList) ByID(id string) (Format, bool) {
	for _, f := range l {
		if f.ID == id {
			return f, true
		}
	}
	return Format{}, false
}

// Last returns the final (highest-quality) entry.
func (l FormatList) Last() (Format, bool) {
	if len(l) == 0 {
		return Format{}, false
	}
	return l[len(l)-1], true
}

// UnmarshalJSON decodes a {"format_id": {...}} object while keeping the
// key order the service emitted.
func (l *FormatList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("qualities: expected object, got %v", tok)
	}

	out := FormatList{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		id, _ := keyTok.(string)

		var f Format
		if err := dec.Decode(&f); err != nil {
			return err
		}
		f.ID = id
		out = append(out, f)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

// Qualities is the per-track format snapshot from get_info.
type Qualities struct {
	Video FormatList `json:"video"`
	Audio FormatList `json:"audio"`
}

// MediaInfo is the get_info result for one URL.
type MediaInfo struct {
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	IsLive    bool      `json:"is_live"`
	Duration  float64   `json:"duration"`
	Language  string    `json:"language"`
	Qualities Qualities `json:"qualities"`
}

// TaskKind selects the service-side pipeline.
type TaskKind string

const (
	TaskVideo     TaskKind = "video"
	TaskAudio     TaskKind = "audio"
	TaskLiveVideo TaskKind = "live_video"
	TaskLiveAudio TaskKind = "live_audio"
)

// TaskRequest carries every selection frozen at confirm time.
type TaskRequest struct {
	Kind           TaskKind `json:"kind"`
	URL            string   `json:"url"`
	VideoFormat    string   `json:"video_format,omitempty"`
	AudioFormat    string   `json:"audio_format,omitempty"`
	OutputFormat   string   `json:"output_format"`
	StartTime      *int     `json:"start_time,omitempty"`
	EndTime        *int     `json:"end_time,omitempty"`
	ForceKeyframes bool     `json:"force_keyframes,omitempty"`
	Duration       int      `json:"duration,omitempty"`
}

// TaskResult is a resolved task: a durable URL always, bytes only when the
// caller asked for an inline fetch.
type TaskResult struct {
	FileURL  string
	FileName string
}
