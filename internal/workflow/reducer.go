package workflow

import (
	"errors"
	"fmt"
	"log"

	"alfredoptarigan/ats-scanner/internal/client"
	"alfredoptarigan/ats-scanner/internal/models"
)

const (
	emptyPreviewText   = "Content preview is empty or unavailable."
	previewFailedText  = "Could not load description."
	listFailedText     = "Could not load job descriptions."
	networkErrorText   = "Network error: Cannot reach the server."
	emptyScanInfo      = "Scan complete. No relevant resumes found or processed."
	onlyErrorsText     = "Scan failed or only produced errors."
	noSelectionText    = "Please select a job description to scan against."
	listUnavailableTxt = "Job descriptions are unavailable. Reload to try again."
)

// Apply folds one event into the state and returns the effects to run.
// It must only be called from a single goroutine.
func (s *State) Apply(ev Event) []Effect {
	switch e := ev.(type) {
	case Mounted:
		return s.mount()
	case JDListLoaded:
		s.jdListLoaded(e)
	case OpenPicker:
		return s.openPicker()
	case ClosePicker:
		s.closePicker()
	case Select:
		return s.selectJD(e.ID)
	case RequestPreview:
		return s.requestPreview(e.ID)
	case PreviewLoaded:
		s.previewLoaded(e)
	case Confirm:
		return s.confirm()
	case SettleElapsed:
		return s.settleElapsed(e)
	case ScanCompleted:
		s.scanCompleted(e)
	case DismissError:
		s.Scan.Error = ""
		s.Scan.ErrorKind = ErrKindNone
	case DismissInfo:
		s.Scan.Info = ""
	}
	return nil
}

func (s *State) mount() []Effect {
	if s.JDList.Loading || s.JDList.Loaded {
		return nil
	}
	s.JDList = JDListState{Loading: true}
	s.Scan.Error, s.Scan.Info = "", ""
	return []Effect{FetchJDList{}}
}

func (s *State) jdListLoaded(e JDListLoaded) {
	s.JDList.Loading = false
	s.JDList.Loaded = true
	if e.Err != nil {
		s.JDList.Data = nil
		s.JDList.Error = errorText(e.Err, listFailedText)
		log.Printf("❌ Failed to load job descriptions: %v", e.Err)
		return
	}
	s.JDList.Data = append([]models.JDDescriptor{}, e.JDs...)
	s.JDList.Error = ""
}

func (s *State) openPicker() []Effect {
	if s.PickerOpen {
		return nil
	}
	s.PickerOpen = true
	s.Scan.Result = nil
	s.Scan.StatusCode = 0
	s.Scan.Error = ""
	s.Scan.ErrorKind = ErrKindNone
	s.Scan.Info = ""
	s.Scan.Anomaly = ""
	if s.Scan.Phase.Settled() {
		s.Scan.Phase = PhaseIdle
	}
	return s.resetPreview()
}

func (s *State) closePicker() {
	if s.Scan.ConfirmLoading() {
		return
	}
	s.PickerOpen = false
}

func (s *State) selectJD(id models.JDDescriptor) []Effect {
	s.Selection.SelectedID = id
	return s.resetPreview()
}

// resetPreview drops the current preview and invalidates any request for it.
func (s *State) resetPreview() []Effect {
	sel := &s.Selection
	wasLoading := sel.PreviewLoading
	sel.Preview = nil
	sel.PreviewError = ""
	sel.PreviewLoading = false
	sel.previewFor = ""
	sel.previewToken++
	if wasLoading {
		return []Effect{CancelPreview{}}
	}
	return nil
}

func (s *State) requestPreview(id models.JDDescriptor) []Effect {
	if id == "" {
		return nil
	}

	var effects []Effect
	if id != s.Selection.SelectedID {
		effects = s.selectJD(id)
	}

	sel := &s.Selection
	if sel.PreviewLoading && sel.previewFor == id {
		return effects
	}
	if sel.Preview != nil && sel.Preview.JDID == id && sel.PreviewError == "" {
		return effects
	}

	sel.previewToken++
	sel.previewFor = id
	sel.PreviewLoading = true
	sel.PreviewError = ""
	sel.Preview = nil
	return append(effects, FetchPreview{Token: sel.previewToken, ID: id})
}

func (s *State) previewLoaded(e PreviewLoaded) {
	sel := &s.Selection
	if e.Token != sel.previewToken || e.ID != sel.SelectedID {
		log.Printf("🔄 Discarding stale preview for %s", e.ID)
		return
	}

	sel.PreviewLoading = false
	sel.previewFor = ""
	if e.Err != nil {
		sel.Preview = nil
		sel.PreviewError = errorText(e.Err, previewFailedText)
		return
	}

	content := e.Content
	if content == "" {
		content = emptyPreviewText
	}
	at := e.At
	if at.IsZero() && s.now != nil {
		at = s.now()
	}
	sel.Preview = &JDPreview{JDID: e.ID, Content: content, LoadedAt: at}
	sel.PreviewError = ""
}

func (s *State) confirm() []Effect {
	if s.Scan.Phase.InFlight() {
		return nil
	}
	if s.Selection.SelectedID == "" {
		s.Scan.Error = noSelectionText
		s.Scan.ErrorKind = ErrKindValidation
		return nil
	}
	if !s.CanStartScan() {
		s.Scan.Error = listUnavailableTxt
		s.Scan.ErrorKind = ErrKindValidation
		return nil
	}

	s.Scan.token++
	s.Scan = ScanState{
		Phase:     PhaseConfirmPending,
		token:     s.Scan.token,
		pendingJD: s.Selection.SelectedID,
	}
	return []Effect{StartSettle{Token: s.Scan.token, Delay: s.SettleDelay}}
}

func (s *State) settleElapsed(e SettleElapsed) []Effect {
	if e.Token != s.Scan.token || s.Scan.Phase != PhaseConfirmPending {
		return nil
	}
	s.PickerOpen = false
	s.Scan.Phase = PhaseScanning
	return []Effect{RunScan{Token: s.Scan.token, JDID: s.Scan.pendingJD}}
}

func (s *State) scanCompleted(e ScanCompleted) {
	if e.Token != s.Scan.token || s.Scan.Phase != PhaseScanning {
		return
	}

	if e.Err != nil {
		s.reconcileFailure(e.Err)
		return
	}
	if e.Result == nil {
		s.reconcileFailure(errors.New("empty scan response"))
		return
	}

	resp := e.Result.Response
	s.Scan.Result = &resp
	s.Scan.StatusCode = e.Result.StatusCode
	s.checkAnomaly(&resp)

	hasResults := len(resp.Results) > 0
	hasErrors := len(resp.ScanErrors) > 0
	switch {
	case !hasResults && !hasErrors:
		s.Scan.Phase = PhaseSettledSuccess
		s.Scan.Info = firstNonEmpty(resp.Message, emptyScanInfo)
	case hasResults && !hasErrors:
		s.Scan.Phase = PhaseSettledSuccess
	case hasResults && hasErrors:
		s.Scan.Phase = PhaseSettledPartial
		s.Scan.ErrorKind = ErrKindPartial
		s.Scan.Error = fmt.Sprintf("Scan partially completed with %d error(s).", len(resp.ScanErrors))
	default:
		s.Scan.Phase = PhaseSettledFailure
		s.Scan.ErrorKind = ErrKindServer
		s.Scan.Error = firstNonEmpty(resp.Error, resp.Message, onlyErrorsText)
	}
}

func (s *State) reconcileFailure(err error) {
	s.Scan.Phase = PhaseSettledFailure
	s.Scan.Result = nil
	s.Scan.StatusCode = 0

	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		s.Scan.ErrorKind = ErrKindServer
		s.Scan.Error = apiErr.Message
		s.Scan.StatusCode = apiErr.StatusCode
		if apiErr.Scan != nil {
			scan := *apiErr.Scan
			s.Scan.Result = &scan
		}
	case errors.Is(err, client.ErrNetwork):
		s.Scan.ErrorKind = ErrKindTransport
		s.Scan.Error = networkErrorText
	default:
		s.Scan.ErrorKind = ErrKindServer
		s.Scan.Error = err.Error()
	}
	log.Printf("❌ Batch scan failed: %v", err)
}

func (s *State) checkAnomaly(resp *models.ScanResponse) {
	if resp.Summary == nil || resp.Summary.SuccessfullyScanned == len(resp.Results) {
		return
	}
	s.Scan.Anomaly = fmt.Sprintf("summary reports %d successfully scanned but %d results were returned",
		resp.Summary.SuccessfullyScanned, len(resp.Results))
	log.Printf("⚠️ Scan anomaly for %s: %s", resp.JDUsed, s.Scan.Anomaly)
}

func errorText(err error, fallback string) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return firstNonEmpty(apiErr.Message, fallback)
	case errors.Is(err, client.ErrNetwork):
		return networkErrorText
	default:
		return fallback
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
