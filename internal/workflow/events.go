package workflow

import (
	"time"

	"alfredoptarigan/ats-scanner/internal/client"
	"alfredoptarigan/ats-scanner/internal/models"
)

// Event is an input to State.Apply: a user action or a finished effect.
type Event interface {
	isEvent()
}

// Mounted starts the page: the JD list is fetched once.
type Mounted struct{}

type JDListLoaded struct {
	JDs []models.JDDescriptor
	Err error
}

type OpenPicker struct{}

// ClosePicker also covers escape and backdrop dismissal.
type ClosePicker struct{}

type Select struct {
	ID models.JDDescriptor
}

type RequestPreview struct {
	ID models.JDDescriptor
}

type PreviewLoaded struct {
	Token   uint64
	ID      models.JDDescriptor
	Content string
	Err     error
	At      time.Time
}

type Confirm struct{}

type SettleElapsed struct {
	Token uint64
}

type ScanCompleted struct {
	Token  uint64
	Result *client.ScanResult
	Err    error
}

type DismissError struct{}

type DismissInfo struct{}

func (Mounted) isEvent()        {}
func (JDListLoaded) isEvent()   {}
func (OpenPicker) isEvent()     {}
func (ClosePicker) isEvent()    {}
func (Select) isEvent()         {}
func (RequestPreview) isEvent() {}
func (PreviewLoaded) isEvent()  {}
func (Confirm) isEvent()        {}
func (SettleElapsed) isEvent()  {}
func (ScanCompleted) isEvent()  {}
func (DismissError) isEvent()   {}
func (DismissInfo) isEvent()    {}

// Effect is work Apply asks for. Effects never touch State; their outcome
// comes back as an Event.
type Effect interface {
	isEffect()
}

type FetchJDList struct{}

type FetchPreview struct {
	Token uint64
	ID    models.JDDescriptor
}

// CancelPreview abandons whatever preview request is in flight.
type CancelPreview struct{}

type StartSettle struct {
	Token uint64
	Delay time.Duration
}

type RunScan struct {
	Token uint64
	JDID  models.JDDescriptor
}

func (FetchJDList) isEffect()   {}
func (FetchPreview) isEffect()  {}
func (CancelPreview) isEffect() {}
func (StartSettle) isEffect()   {}
func (RunScan) isEffect()       {}
