package workflow

import (
	"time"

	"alfredoptarigan/ats-scanner/internal/models"
)

// Phase is the scan lifecycle. Exactly one phase holds at a time, so a
// confirm spinner and a scan spinner can never both be on.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConfirmPending
	PhaseScanning
	PhaseSettledSuccess
	PhaseSettledPartial
	PhaseSettledFailure
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConfirmPending:
		return "confirm_pending"
	case PhaseScanning:
		return "scanning"
	case PhaseSettledSuccess:
		return "settled_success"
	case PhaseSettledPartial:
		return "settled_partial"
	case PhaseSettledFailure:
		return "settled_failure"
	default:
		return "unknown"
	}
}

// Settled reports whether the phase is one of the terminal scan outcomes.
func (p Phase) Settled() bool {
	return p == PhaseSettledSuccess || p == PhaseSettledPartial || p == PhaseSettledFailure
}

// InFlight reports whether a scan has been confirmed and not yet settled.
func (p Phase) InFlight() bool {
	return p == PhaseConfirmPending || p == PhaseScanning
}

type ErrorKind int

const (
	ErrKindNone ErrorKind = iota
	ErrKindTransport
	ErrKindServer
	ErrKindPartial
	ErrKindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindTransport:
		return "network_unreachable"
	case ErrKindServer:
		return "server_error"
	case ErrKindPartial:
		return "partial_scan_errors"
	case ErrKindValidation:
		return "validation"
	default:
		return "none"
	}
}

// JDPreview is the loaded text of one job description.
type JDPreview struct {
	JDID     models.JDDescriptor
	Content  string
	LoadedAt time.Time
}

type JDListState struct {
	Loading bool
	Loaded  bool
	Data    []models.JDDescriptor
	Error   string
}

type SelectionState struct {
	SelectedID     models.JDDescriptor
	Preview        *JDPreview
	PreviewLoading bool
	PreviewError   string

	// previewToken identifies the only preview response still allowed to land.
	previewToken uint64
	previewFor   models.JDDescriptor
}

type ScanState struct {
	Phase      Phase
	Result     *models.ScanResponse
	StatusCode int
	Error      string
	ErrorKind  ErrorKind
	Info       string
	// Anomaly is set when the summary disagrees with the result list.
	Anomaly string

	token     uint64
	pendingJD models.JDDescriptor
}

// ConfirmLoading is true between confirming a scan and sending it.
func (s ScanState) ConfirmLoading() bool { return s.Phase == PhaseConfirmPending }

// ScanLoading is true while the batch scan request is in flight.
func (s ScanState) ScanLoading() bool { return s.Phase == PhaseScanning }

// State is everything the scan page shows. It is only mutated through Apply.
type State struct {
	JDList      JDListState
	Selection   SelectionState
	Scan        ScanState
	PickerOpen  bool
	SettleDelay time.Duration

	now func() time.Time
}

func NewState(settleDelay time.Duration) State {
	return State{
		SettleDelay: settleDelay,
		now:         time.Now,
	}
}

// CanStartScan reports whether the JD list is usable for scanning.
func (s *State) CanStartScan() bool {
	return s.JDList.Loaded && !s.JDList.Loading && s.JDList.Error == "" && len(s.JDList.Data) > 0
}

// CanConfirm reports whether a Confirm event would start a scan.
func (s *State) CanConfirm() bool {
	return s.CanStartScan() && s.Selection.SelectedID != "" && !s.Scan.Phase.InFlight()
}

type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerError
	BannerInfo
)

type Banner struct {
	Kind BannerKind
	Text string
}

// Banner returns the single message to show. Errors win over info.
func (s *State) Banner() Banner {
	switch {
	case s.Scan.Error != "":
		return Banner{Kind: BannerError, Text: s.Scan.Error}
	case s.JDList.Error != "":
		return Banner{Kind: BannerError, Text: s.JDList.Error}
	case s.Scan.Info != "":
		return Banner{Kind: BannerInfo, Text: s.Scan.Info}
	default:
		return Banner{}
	}
}

// Clone returns a copy that shares no mutable memory with s.
func (s State) Clone() State {
	out := s
	out.JDList.Data = append([]models.JDDescriptor(nil), s.JDList.Data...)
	if s.Selection.Preview != nil {
		p := *s.Selection.Preview
		out.Selection.Preview = &p
	}
	if s.Scan.Result != nil {
		out.Scan.Result = cloneScanResponse(s.Scan.Result)
	}
	return out
}

func cloneScanResponse(r *models.ScanResponse) *models.ScanResponse {
	out := *r
	if r.Results != nil {
		out.Results = make([]models.CandidateResult, len(r.Results))
		for i, c := range r.Results {
			c.MatchingKeywords = append([]string(nil), c.MatchingKeywords...)
			c.MissingKeywords = append([]string(nil), c.MissingKeywords...)
			out.Results[i] = c
		}
	}
	if r.ScanErrors != nil {
		out.ScanErrors = append([]models.FileError{}, r.ScanErrors...)
	}
	if r.Summary != nil {
		sum := *r.Summary
		out.Summary = &sum
	}
	return &out
}
