package flow

import "github.com/downvot/downvot/internal/dlservice"

// Event is one user interaction or external outcome fed to the state
// machine. Structured payloads instead of delimiter-split callback strings.
type Event interface{ isEvent() }

type TypeChosen struct{ FileType string }
type InfoFetched struct{ Info *dlservice.MediaInfo }
type InfoFailed struct{ Err error }
type DurationChosen struct{ Seconds int }
type DurationMenuOpened struct{}
type VideoMenuOpened struct{}
type AudioMenuOpened struct{}
type OutputMenuOpened struct{}
type RangeMenuOpened struct{}
type VideoPicked struct{ ID string }
type AudioPicked struct{ ID string }
type OutputPicked struct{ Format string }
type TimeEntered struct{ Text string }
type CropChosen struct{ Precise bool }
type BackPressed struct{}
type Confirmed struct{}

func (TypeChosen) isEvent()         {}
func (InfoFetched) isEvent()        {}
func (InfoFailed) isEvent()         {}
func (DurationChosen) isEvent()     {}
func (DurationMenuOpened) isEvent() {}
func (VideoMenuOpened) isEvent()    {}
func (AudioMenuOpened) isEvent()    {}
func (OutputMenuOpened) isEvent()   {}
func (RangeMenuOpened) isEvent()    {}
func (VideoPicked) isEvent()        {}
func (AudioPicked) isEvent()        {}
func (OutputPicked) isEvent()       {}
func (TimeEntered) isEvent()        {}
func (CropChosen) isEvent()         {}
func (BackPressed) isEvent()        {}
func (Confirmed) isEvent()          {}

// Effect is an instruction to the transport layer, produced by Transition.
// The machine never talks to Telegram or the download service itself.
type Effect interface{ isEffect() }

// ShowMenu re-renders the prompt's menu message.
type ShowMenu struct{ Menu Menu }

// FetchInfo asks the caller to resolve media info and feed back InfoFetched
// or InfoFailed.
type FetchInfo struct{}

// AskText prompts the user for a typed value (trim boundaries).
type AskText struct{ Key string }

// Notify sends a transient localized message without changing the menu.
type Notify struct {
	Key  string
	Args []interface{}
}

// Dispatch submits the frozen task request. Issued at most once per prompt.
type Dispatch struct{ Request dlservice.TaskRequest }

// Abort ends the prompt with a localized failure message and teardown.
type Abort struct{ Key string }

func (ShowMenu) isEffect()  {}
func (FetchInfo) isEffect() {}
func (AskText) isEffect()   {}
func (Notify) isEffect()    {}
func (Dispatch) isEffect()  {}
func (Abort) isEffect()     {}

// Menu identifies which keyboard the transport should render.
type Menu int

const (
	MenuType Menu = iota
	MenuQuality
	MenuDuration
	MenuVideoQuality
	MenuAudioQuality
	MenuOutputFormat
	MenuCrop
)
