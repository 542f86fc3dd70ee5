package tui

import (
	"log"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"alfredoptarigan/ats-scanner/internal/export"
	"alfredoptarigan/ats-scanner/internal/models"
	"alfredoptarigan/ats-scanner/internal/presentation"
	"alfredoptarigan/ats-scanner/internal/workflow"
)

// eventMsg carries a workflow event into Update.
type eventMsg struct {
	ev workflow.Event
}

type exportedMsg struct {
	path string
	err  error
}

type model struct {
	exec      *workflow.Executor
	state     workflow.State
	baseURL   string
	exportDir string
	initialJD models.JDDescriptor
	now       func() time.Time

	// cursor is the highlighted row in the JD picker.
	cursor int
	// card is the highlighted candidate in the result list.
	card int

	view       presentation.View
	viewSource *models.ScanResponse
	exportNote string

	spinner  spinner.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

func newModel(exec *workflow.Executor, state workflow.State, opts Options) model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(cursorStyle))
	return model{
		exec:      exec,
		state:     state,
		baseURL:   opts.BaseURL,
		exportDir: opts.ExportDir,
		initialJD: opts.InitialJD,
		now:       time.Now,
		spinner:   sp,
		viewport:  viewport.New(0, 0),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return eventMsg{ev: workflow.Mounted{}} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.dispatch(msg.ev)
		if loaded, ok := msg.ev.(workflow.JDListLoaded); ok {
			cmd = tea.Batch(cmd, m.preselect(loaded))
		}
		return m, cmd

	case exportedMsg:
		if msg.err != nil {
			m.exportNote = "Export failed: " + msg.err.Error()
		} else {
			m.exportNote = "Exported to " + msg.path
		}
		m.refreshViewport()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-6, 3)
		m.ready = true
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.state.PickerOpen {
			return m.updatePicker(msg)
		}
		return m.updateResults(msg)
	}
	return m, nil
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	jds := m.state.JDList.Data
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		return m, m.dispatch(workflow.ClosePicker{})
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			return m, m.dispatch(workflow.Select{ID: jds[m.cursor]})
		}
	case "down", "j":
		if m.cursor < len(jds)-1 {
			m.cursor++
			return m, m.dispatch(workflow.Select{ID: jds[m.cursor]})
		}
	case "p", " ":
		if m.cursor < len(jds) {
			return m, m.dispatch(workflow.RequestPreview{ID: jds[m.cursor]})
		}
	case "enter":
		return m, m.dispatch(workflow.Confirm{})
	}
	return m, nil
}

func (m model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "s", "enter":
		m.cursor = m.indexOf(m.state.Selection.SelectedID)
		cmd := m.dispatch(workflow.OpenPicker{})
		if m.state.PickerOpen && m.state.Selection.SelectedID == "" && len(m.state.JDList.Data) > 0 {
			cmd = tea.Batch(cmd, m.dispatch(workflow.Select{ID: m.state.JDList.Data[m.cursor]}))
		}
		return m, cmd
	case "x":
		return m, m.dispatch(workflow.DismissError{})
	case "i":
		return m, m.dispatch(workflow.DismissInfo{})
	case "up", "k":
		if m.card > 0 {
			m.card--
			m.refreshViewport()
		}
		return m, nil
	case "down", "j":
		if m.card < len(m.view.Cards)-1 {
			m.card++
			m.refreshViewport()
		}
		return m, nil
	case "m":
		m.view = presentation.ToggleGroup(m.view, m.card+1, presentation.GroupMatching)
		m.refreshViewport()
		return m, nil
	case "n":
		m.view = presentation.ToggleGroup(m.view, m.card+1, presentation.GroupMissing)
		m.refreshViewport()
		return m, nil
	case "e":
		return m, m.exportCmd()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// dispatch applies ev and turns the resulting effects into commands.
func (m *model) dispatch(ev workflow.Event) tea.Cmd {
	effects := m.state.Apply(ev)
	m.syncView()

	var cmds []tea.Cmd
	for _, eff := range effects {
		run := m.exec.Prepare(eff)
		if run == nil {
			continue
		}
		cmds = append(cmds, func() tea.Msg {
			if next := run(); next != nil {
				return eventMsg{ev: next}
			}
			return nil
		})
	}
	return tea.Batch(cmds...)
}

// preselect highlights the JD named on the command line once the list arrives.
func (m *model) preselect(loaded workflow.JDListLoaded) tea.Cmd {
	if m.initialJD == "" || loaded.Err != nil {
		return nil
	}
	for i, jd := range m.state.JDList.Data {
		if jd == m.initialJD {
			m.cursor = i
			return tea.Batch(m.dispatch(workflow.OpenPicker{}), m.dispatch(workflow.Select{ID: jd}))
		}
	}
	log.Printf("⚠️  Job description %s not in list\n", m.initialJD)
	return nil
}

// syncView rebuilds the presentation view when a different result is stored.
func (m *model) syncView() {
	if m.state.Scan.Result != m.viewSource {
		m.viewSource = m.state.Scan.Result
		m.view = presentation.Build(m.viewSource, m.baseURL)
		m.card = 0
		m.exportNote = ""
	}
	m.refreshViewport()
}

func (m *model) indexOf(id models.JDDescriptor) int {
	for i, jd := range m.state.JDList.Data {
		if jd == id {
			return i
		}
	}
	return 0
}

func (m model) exportCmd() tea.Cmd {
	if !m.view.HasResult {
		return nil
	}
	view := m.view
	target := filepath.Join(m.exportDir, "scan_"+m.now().Format("20060102_150405"))
	now := m.now()
	return func() tea.Msg {
		path, err := export.WriteXLSX(view, target, now)
		return exportedMsg{path: path, err: err}
	}
}

func (m *model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderResults())
}
