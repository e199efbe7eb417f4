package bot

import (
	"encoding/json"
	"strconv"

	"github.com/downvot/downvot/internal/flow"
)

// Callback operations. Encoded as a small versioned JSON payload instead of
// delimiter-joined strings, so format ids containing any separator survive
// round-tripping.
const (
	opChooseType  = "ty"
	opDuration    = "du"
	opDurMenu     = "dm"
	opVideoMenu   = "vm"
	opAudioMenu   = "am"
	opOutputMenu  = "om"
	opRangeMenu   = "rm"
	opVideoPick   = "vp"
	opAudioPick   = "ap"
	opOutputPick  = "op"
	opCropPick    = "cp"
	opBack        = "bk"
	opConfirm     = "go"
	opNoop        = "xx"
	opAdminCreate = "ac"
	opAdminDelete = "ad"
)

type callbackPayload struct {
	V  int    `json:"v"`
	Op string `json:"o"`
	A  string `json:"a,omitempty"`
}

const callbackVersion = 1

func encodeCallback(op, arg string) string {
	data, _ := json.Marshal(callbackPayload{V: callbackVersion, Op: op, A: arg})
	return string(data)
}

func decodeCallback(data string) (callbackPayload, bool) {
	var p callbackPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return p, false
	}
	if p.V != callbackVersion || p.Op == "" {
		return p, false
	}
	return p, true
}

// eventFor maps a decoded payload onto a state-machine event. Unknown or
// inert operations map to nil and are ignored.
func eventFor(p callbackPayload) flow.Event {
	switch p.Op {
	case opChooseType:
		return flow.TypeChosen{FileType: p.A}
	case opDuration:
		secs, err := strconv.Atoi(p.A)
		if err != nil {
			return nil
		}
		return flow.DurationChosen{Seconds: secs}
	case opDurMenu:
		return flow.DurationMenuOpened{}
	case opVideoMenu:
		return flow.VideoMenuOpened{}
	case opAudioMenu:
		return flow.AudioMenuOpened{}
	case opOutputMenu:
		return flow.OutputMenuOpened{}
	case opRangeMenu:
		return flow.RangeMenuOpened{}
	case opVideoPick:
		return flow.VideoPicked{ID: p.A}
	case opAudioPick:
		return flow.AudioPicked{ID: p.A}
	case opOutputPick:
		return flow.OutputPicked{Format: p.A}
	case opCropPick:
		return flow.CropChosen{Precise: p.A == "precise"}
	case opBack:
		return flow.BackPressed{}
	case opConfirm:
		return flow.Confirmed{}
	}
	return nil
}
