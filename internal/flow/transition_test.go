package flow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/downvot/downvot/internal/dlservice"
)

func submitAndFetch(t *testing.T, p *Prompt, fileType string, info *dlservice.MediaInfo) []Effect {
	t.Helper()
	effects := Transition(p, TypeChosen{FileType: fileType})
	require.Equal(t, []Effect{FetchInfo{}}, effects)
	return Transition(p, InfoFetched{Info: info})
}

func newSubmitted() *Prompt {
	return NewPrompt(100, 1, "alice", "en", false, "https://www.youtube.com/watch?v=x", "YouTube")
}

func TestHappyPathToDispatch(t *testing.T) {
	p := newSubmitted()

	effects := submitAndFetch(t, p, FileTypeVideo, testInfo())
	require.Equal(t, []Effect{ShowMenu{Menu: MenuQuality}}, effects)
	assert.Equal(t, StateQualityMenu, p.State)
	assert.True(t, p.SizeKnown)

	p.Premium = true // 125MB projection needs the link tier
	effects = Transition(p, Confirmed{})
	require.Len(t, effects, 1)
	dispatch, ok := effects[0].(Dispatch)
	require.True(t, ok)
	assert.Equal(t, StateDispatched, p.State)
	assert.Equal(t, dlservice.TaskVideo, dispatch.Request.Kind)
	assert.Equal(t, "137", dispatch.Request.VideoFormat)
	assert.Equal(t, "140", dispatch.Request.AudioFormat)
	assert.Equal(t, "mp4", dispatch.Request.OutputFormat)
}

func TestInfoFailureIsTerminal(t *testing.T) {
	p := newSubmitted()
	Transition(p, TypeChosen{FileType: FileTypeAudio})

	effects := Transition(p, InfoFailed{Err: errors.New("unreachable")})
	require.Equal(t, []Effect{Abort{Key: "info_failed"}}, effects)
	assert.Equal(t, StateFailed, p.State)
}

func TestLiveForcesDurationMenu(t *testing.T) {
	info := testInfo()
	info.IsLive = true
	p := newSubmitted()

	effects := submitAndFetch(t, p, FileTypeVideo, info)
	require.Equal(t, []Effect{ShowMenu{Menu: MenuDuration}}, effects)
	assert.Equal(t, StateDurationMenu, p.State)

	effects = Transition(p, DurationChosen{Seconds: 120})
	require.Equal(t, []Effect{ShowMenu{Menu: MenuQuality}}, effects)
	assert.Equal(t, 120, p.Duration)

	// A premium-only option is rejected for a free-tier chat.
	Transition(p, DurationMenuOpened{})
	assert.Nil(t, Transition(p, DurationChosen{Seconds: 1800}))
	assert.Equal(t, 120, p.Duration)
}

func TestLiveDispatchKind(t *testing.T) {
	info := testInfo()
	info.IsLive = true
	info.Qualities.Video = dlservice.FormatList{{ID: "95", Height: 720, Width: 1280}}
	info.Qualities.Audio = dlservice.FormatList{{ID: "a", ABR: 128}}
	p := newSubmitted()

	submitAndFetch(t, p, FileTypeVideo, info)
	Transition(p, DurationChosen{Seconds: 120})

	effects := Transition(p, Confirmed{})
	require.Len(t, effects, 1)
	dispatch := effects[0].(Dispatch)
	assert.Equal(t, dlservice.TaskLiveVideo, dispatch.Request.Kind)
	assert.Equal(t, 120, dispatch.Request.Duration)
}

func TestQualityPickerRoundTrip(t *testing.T) {
	p := newSubmitted()
	submitAndFetch(t, p, FileTypeVideo, testInfo())

	effects := Transition(p, VideoMenuOpened{})
	require.Equal(t, []Effect{ShowMenu{Menu: MenuVideoQuality}}, effects)

	effects = Transition(p, VideoPicked{ID: "18"})
	require.Equal(t, []Effect{ShowMenu{Menu: MenuQuality}}, effects)
	assert.Equal(t, "18", p.VideoFormat)
	assert.Equal(t, int64((10+5)*1024*1024), p.TotalSize, "size follows the new selection")
}

func TestUnknownFormatIDIgnored(t *testing.T) {
	p := newSubmitted()
	submitAndFetch(t, p, FileTypeVideo, testInfo())
	Transition(p, VideoMenuOpened{})

	assert.Nil(t, Transition(p, VideoPicked{ID: "nope"}))
	assert.Equal(t, StateVideoQualityMenu, p.State)
}

func TestOutputChangeKeepsQualityChoice(t *testing.T) {
	p := newSubmitted()
	submitAndFetch(t, p, FileTypeVideo, testInfo())

	Transition(p, VideoMenuOpened{})
	Transition(p, VideoPicked{ID: "22"})

	Transition(p, OutputMenuOpened{})
	Transition(p, OutputPicked{Format: "webm"})

	assert.Equal(t, "22", p.VideoFormat)
	assert.Equal(t, "webm", p.EffectiveOutputFormat())
}

func TestOutputOptionsRestrictedByFileType(t *testing.T) {
	p := newSubmitted()
	submitAndFetch(t, p, FileTypeAudio, testInfo())

	Transition(p, OutputMenuOpened{})
	assert.Nil(t, Transition(p, OutputPicked{Format: "mp4"}), "video container rejected for audio")

	effects := Transition(p, OutputPicked{Format: "opus"})
	require.Equal(t, []Effect{ShowMenu{Menu: MenuQuality}}, effects)
	assert.Equal(t, "opus", p.OutputFormat)
}

func TestRangeEntryFlow(t *testing.T) {
	p := newSubmitted()
	submitAndFetch(t, p, FileTypeVideo, testInfo())

	effects := Transition(p, RangeMenuOpened{})
	require.Equal(t, []Effect{AskText{Key: "enter_start"}}, effects)

	// Bad input re-prompts without losing progress.
	effects = Transition(p, TimeEntered{Text: "25:61:00"})
	require.Equal(t, []Effect{Notify{Key: "bad_timestamp"}, AskText{Key: "enter_start"}}, effects)
	assert.Equal(t, StateRangeStart, p.State)
	assert.Equal(t, FileTypeVideo, p.FileType, "file-type choice survives the re-prompt")

	effects = Transition(p, TimeEntered{Text: "0:01:00"})
	require.Equal(t, []Effect{AskText{Key: "enter_end"}}, effects)

	// End before start is rejected with a re-prompt.
	effects = Transition(p, TimeEntered{Text: "0:00:30"})
	require.Equal(t, []Effect{Notify{Key: "end_before_start"}, AskText{Key: "enter_end"}}, effects)

	// End beyond the media duration is clamped, not rejected.
	effects = Transition(p, TimeEntered{Text: "2:00:00"})
	require.Equal(t, []Effect{ShowMenu{Menu: MenuCrop}}, effects)
	require.NotNil(t, p.EndTime)
	assert.Equal(t, 600, *p.EndTime)

	effects = Transition(p, CropChosen{Precise: true})
	require.Equal(t, []Effect{ShowMenu{Menu: MenuQuality}}, effects)
	assert.True(t, p.ForceKeyframes)
}

func TestRangeNoBound(t *testing.T) {
	p := newSubmitted()
	submitAndFetch(t, p, FileTypeVideo, testInfo())

	Transition(p, RangeMenuOpened{})
	Transition(p, TimeEntered{Text: "-"})
	assert.Nil(t, p.StartTime)

	Transition(p, TimeEntered{Text: "-"})
	assert.Nil(t, p.EndTime)
	assert.Equal(t, StateCropMenu, p.State)
}

func TestRangeUnavailableForLive(t *testing.T) {
	info := testInfo()
	info.IsLive = true
	p := newSubmitted()
	submitAndFetch(t, p, FileTypeVideo, info)
	Transition(p, DurationChosen{Seconds: 60})

	assert.Nil(t, Transition(p, RangeMenuOpened{}))
	assert.Equal(t, StateQualityMenu, p.State)
}

func TestConfirmBlockedProducesNoDispatch(t *testing.T) {
	p := newSubmitted()
	submitAndFetch(t, p, FileTypeVideo, testInfo())

	// 125MB projection, free tier: the confirm callback is inert.
	assert.Nil(t, Transition(p, Confirmed{}))
	assert.Equal(t, StateQualityMenu, p.State)
}

func TestStaleEventsIgnored(t *testing.T) {
	p := newSubmitted()
	submitAndFetch(t, p, FileTypeVideo, testInfo())
	p.Premium = true
	Transition(p, Confirmed{})
	require.Equal(t, StateDispatched, p.State)

	// Once dispatched, menu callbacks cannot re-enter an earlier state.
	assert.Nil(t, Transition(p, VideoMenuOpened{}))
	assert.Nil(t, Transition(p, Confirmed{}))
	assert.Nil(t, Transition(p, TypeChosen{FileType: FileTypeAudio}))
	assert.Equal(t, StateDispatched, p.State)
}

func TestFileTypeChangeClearsSelections(t *testing.T) {
	p := newSubmitted()
	effects := Transition(p, TypeChosen{FileType: FileTypeVideo})
	require.Equal(t, []Effect{FetchInfo{}}, effects)
	p.VideoFormat = "22"
	p.OutputFormat = "webm"

	// Only a fresh prompt accepts a type choice, so simulate the reset path.
	p.State = StateSubmitted
	Transition(p, TypeChosen{FileType: FileTypeAudio})
	assert.Empty(t, p.VideoFormat)
	assert.Empty(t, p.OutputFormat)
}

func TestQualityMenuRedrawIdempotent(t *testing.T) {
	p := newSubmitted()
	submitAndFetch(t, p, FileTypeVideo, testInfo())

	Transition(p, VideoMenuOpened{})
	Transition(p, BackPressed{})
	v1, _ := p.SelectedVideo()
	size1 := p.TotalSize

	Transition(p, AudioMenuOpened{})
	Transition(p, BackPressed{})
	v2, _ := p.SelectedVideo()

	assert.Equal(t, v1.ID, v2.ID)
	assert.Equal(t, size1, p.TotalSize)
}
