package workflow

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-scanner/internal/client"
	"alfredoptarigan/ats-scanner/internal/models"
	"alfredoptarigan/ats-scanner/internal/presentation"
)

type fakeAPI struct {
	mu sync.Mutex

	jds     []models.JDDescriptor
	listErr error

	contents     map[models.JDDescriptor]string
	contentGates map[models.JDDescriptor]chan struct{}
	contentCalls []models.JDDescriptor

	scanGate   chan struct{}
	scanResult *client.ScanResult
	scanErr    error
	scanCalls  int
}

func (f *fakeAPI) ListJDs(ctx context.Context) ([]models.JDDescriptor, error) {
	return f.jds, f.listErr
}

func (f *fakeAPI) GetJDContent(ctx context.Context, id models.JDDescriptor) (string, error) {
	f.mu.Lock()
	f.contentCalls = append(f.contentCalls, id)
	gate := f.contentGates[id]
	content := f.contents[id]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return content, nil
}

func (f *fakeAPI) BatchScan(ctx context.Context, id models.JDDescriptor) (*client.ScanResult, error) {
	f.mu.Lock()
	f.scanCalls++
	gate := f.scanGate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &client.TransportError{Op: "batch scan", Err: ctx.Err()}
		}
	}
	return f.scanResult, f.scanErr
}

func (f *fakeAPI) Upload(ctx context.Context, files []client.UploadFile) (*client.UploadResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeAPI) DownloadURL(filename string) string {
	return client.DownloadURL("http://api", filename)
}

func (f *fakeAPI) calls() (int, []models.JDDescriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scanCalls, append([]models.JDDescriptor(nil), f.contentCalls...)
}

func startController(t *testing.T, api *fakeAPI) (*Controller, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	exec := NewExecutor(ctx, api)
	ctrl := NewController(NewState(10*time.Millisecond), exec)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = ctrl.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	ctrl.Dispatch(Mounted{})
	_, err := ctrl.WaitFor(ctx, func(s State) bool { return s.JDList.Loaded })
	require.NoError(t, err)
	ctrl.Dispatch(OpenPicker{})
	return ctrl, ctx
}

func TestScenarioPreviewShowsContent(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		jds:      []models.JDDescriptor{"JD_backend_20240101_1200.txt"},
		contents: map[models.JDDescriptor]string{"JD_backend_20240101_1200.txt": "We need a backend engineer..."},
	}
	ctrl, ctx := startController(t, api)

	snap := ctrl.Snapshot()
	require.Equal(t, []models.JDDescriptor{"JD_backend_20240101_1200.txt"}, snap.JDList.Data)

	ctrl.Dispatch(Select{ID: snap.JDList.Data[0]})
	ctrl.Dispatch(RequestPreview{ID: snap.JDList.Data[0]})
	snap, err := ctrl.WaitFor(ctx, func(s State) bool { return s.Selection.Preview != nil })
	require.NoError(t, err)

	assert.Equal(t, "We need a backend engineer...", snap.Selection.Preview.Content)
	assert.False(t, snap.Selection.PreviewLoading)
}

func TestScenarioSuccessfulScan(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		jds: []models.JDDescriptor{jdA},
		scanResult: &client.ScanResult{StatusCode: http.StatusOK, Response: models.ScanResponse{
			JDUsed: string(jdA),
			Results: []models.CandidateResult{{
				Name: strPtr("Jane Doe"), Score: 91, OriginalFilename: "jane.pdf",
				MatchingKeywords: []string{"python"}, MissingKeywords: []string{"aws"},
			}},
			ScanErrors: []models.FileError{},
			Summary:    &models.ScanSummary{SuccessfullyScanned: 1, TotalResumesFound: 1, DurationSeconds: 2.1},
		}},
	}
	ctrl, ctx := startController(t, api)

	ctrl.Dispatch(Select{ID: jdA})
	ctrl.Dispatch(Confirm{})
	snap, err := ctrl.WaitFor(ctx, func(s State) bool { return s.Scan.Phase.Settled() })
	require.NoError(t, err)

	assert.Equal(t, PhaseSettledSuccess, snap.Scan.Phase)
	assert.Equal(t, BannerNone, snap.Banner().Kind)
	assert.False(t, snap.PickerOpen)

	view := presentation.Build(snap.Scan.Result, "http://api")
	require.Len(t, view.Cards, 1)
	assert.Equal(t, presentation.TierHigh, view.Cards[0].Tier.Level)
	assert.Equal(t, "http://api/resumes/download/jane.pdf", view.Cards[0].DownloadURL)
}

func TestScenarioPartialScan(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		jds: []models.JDDescriptor{jdA},
		scanResult: &client.ScanResult{StatusCode: http.StatusMultiStatus, Response: models.ScanResponse{
			Results:    []models.CandidateResult{{Name: strPtr("Jane Doe"), Score: 60, OriginalFilename: "jane.pdf"}},
			ScanErrors: []models.FileError{{Filename: "corrupt.docx", Error: "Unreadable file"}},
			Summary:    &models.ScanSummary{TotalResumesFound: 2, SuccessfullyScanned: 1, Errors: 1},
		}},
	}
	ctrl, ctx := startController(t, api)

	ctrl.Dispatch(Select{ID: jdA})
	ctrl.Dispatch(Confirm{})
	snap, err := ctrl.WaitFor(ctx, func(s State) bool { return s.Scan.Phase.Settled() })
	require.NoError(t, err)

	assert.Equal(t, PhaseSettledPartial, snap.Scan.Phase)
	assert.Equal(t, BannerError, snap.Banner().Kind)
	view := presentation.Build(snap.Scan.Result, "http://api")
	assert.Len(t, view.Cards, 1)
	assert.Equal(t, []string{"corrupt.docx: Unreadable file"}, view.Errors)
	assert.True(t, snap.CanConfirm(), "confirm must be usable again")
}

func TestScenarioNetworkFailure(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		jds:     []models.JDDescriptor{jdA},
		scanErr: &client.TransportError{Op: "batch scan", Err: errors.New("connection refused")},
	}
	ctrl, ctx := startController(t, api)

	ctrl.Dispatch(Select{ID: jdA})
	ctrl.Dispatch(Confirm{})
	snap, err := ctrl.WaitFor(ctx, func(s State) bool { return s.Scan.Phase.Settled() })
	require.NoError(t, err)

	assert.Equal(t, "Network error: Cannot reach the server.", snap.Banner().Text)
	assert.Nil(t, snap.Scan.Result)
}

func TestRapidConfirmsSendOneRequest(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		jds:      []models.JDDescriptor{jdA},
		scanGate: make(chan struct{}),
		scanResult: &client.ScanResult{StatusCode: http.StatusOK, Response: models.ScanResponse{
			Results: []models.CandidateResult{}, ScanErrors: []models.FileError{},
		}},
	}
	ctrl, ctx := startController(t, api)

	ctrl.Dispatch(Select{ID: jdA})
	for i := 0; i < 10; i++ {
		ctrl.Dispatch(Confirm{})
	}
	_, err := ctrl.WaitFor(ctx, func(s State) bool { return s.Scan.ScanLoading() })
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		ctrl.Dispatch(Confirm{})
	}
	close(api.scanGate)

	snap, err := ctrl.WaitFor(ctx, func(s State) bool { return s.Scan.Phase.Settled() })
	require.NoError(t, err)

	scans, _ := api.calls()
	assert.Equal(t, 1, scans)
	assert.Equal(t, BannerInfo, snap.Banner().Kind)
}

func TestLatePreviewForOldSelectionIsDropped(t *testing.T) {
	t.Parallel()
	gateA := make(chan struct{})
	api := &fakeAPI{
		jds:          []models.JDDescriptor{jdA, jdB},
		contents:     map[models.JDDescriptor]string{jdA: "A text", jdB: "B text"},
		contentGates: map[models.JDDescriptor]chan struct{}{jdA: gateA},
	}
	ctrl, ctx := startController(t, api)

	ctrl.Dispatch(Select{ID: jdA})
	ctrl.Dispatch(RequestPreview{ID: jdA})
	_, err := ctrl.WaitFor(ctx, func(s State) bool { return s.Selection.PreviewLoading })
	require.NoError(t, err)

	ctrl.Dispatch(Select{ID: jdB})
	_, err = ctrl.WaitFor(ctx, func(s State) bool { return s.Selection.SelectedID == jdB })
	require.NoError(t, err)
	close(gateA)

	ctrl.Dispatch(RequestPreview{ID: jdB})
	snap, err := ctrl.WaitFor(ctx, func(s State) bool { return s.Selection.Preview != nil })
	require.NoError(t, err)

	assert.Equal(t, jdB, snap.Selection.Preview.JDID)
	assert.Equal(t, "B text", snap.Selection.Preview.Content)
}

func TestRepeatedPreviewRequestsFetchOnce(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		jds:      []models.JDDescriptor{jdA},
		contents: map[models.JDDescriptor]string{jdA: "A text"},
	}
	ctrl, ctx := startController(t, api)

	ctrl.Dispatch(Select{ID: jdA})
	ctrl.Dispatch(RequestPreview{ID: jdA})
	ctrl.Dispatch(RequestPreview{ID: jdA})
	_, err := ctrl.WaitFor(ctx, func(s State) bool { return s.Selection.Preview != nil })
	require.NoError(t, err)
	ctrl.Dispatch(RequestPreview{ID: jdA})
	ctrl.Dispatch(DismissInfo{})
	_, err = ctrl.WaitFor(ctx, func(s State) bool { return s.Selection.Preview != nil })
	require.NoError(t, err)

	_, contentCalls := api.calls()
	assert.Equal(t, []models.JDDescriptor{jdA}, contentCalls)
}

func TestRunStopsCleanlyWithScanInFlight(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{jds: []models.JDDescriptor{jdA}, scanGate: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := NewController(NewState(0), NewExecutor(ctx, api))

	stopped := make(chan error, 1)
	go func() { stopped <- ctrl.Run(ctx) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	ctrl.Dispatch(Mounted{})
	_, err := ctrl.WaitFor(waitCtx, func(s State) bool { return s.JDList.Loaded })
	require.NoError(t, err)
	ctrl.Dispatch(Select{ID: jdA})
	ctrl.Dispatch(Confirm{})
	_, err = ctrl.WaitFor(waitCtx, func(s State) bool { return s.Scan.ScanLoading() })
	require.NoError(t, err)

	cancel()
	select {
	case err := <-stopped:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not stop")
	}
	assert.False(t, ctrl.Dispatch(DismissError{}))
}
