package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/sq756/macq"
)

// focus represents which panel has keyboard input.
type focus int

const (
	focusEditor focus = iota
	focusResults
)

// Model represents the TUI application state.
type Model struct {
	editor     textarea.Model
	circuit    *macq.Circuit
	result     *macq.Result
	frequHist  map[string]float64
	lastSource string

	numQubits  int
	seed       int64
	shots      int
	noiseLevel float64

	width     int
	height    int
	focus     focus
	statusMsg string
	parseErr  string

	logger *log.Logger
}

func initialModel(cfg config, logger *log.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = "Write a qlang program here..."
	ta.SetWidth(44)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)
	ta.SetValue(cfg.program)
	ta.Focus()

	return Model{
		editor:     ta,
		circuit:    macq.NewCircuit(cfg.numQubits),
		numQubits:  cfg.numQubits,
		seed:       cfg.seed,
		shots:      cfg.shots,
		noiseLevel: cfg.noiseLevel,
		focus:      focusEditor,
		logger:     logger,
	}
}

// parseEditor reparses the program when the editor content changed.
func (m *Model) parseEditor() {
	src := m.editor.Value()
	if src == m.lastSource {
		return
	}
	m.lastSource = src

	circuit := macq.NewCircuit(m.numQubits)
	if err := circuit.ParseQLang(src); err != nil {
		m.parseErr = err.Error()
		return
	}
	m.parseErr = ""
	m.circuit = circuit
}

// runCircuit executes the current program once and keeps the final state.
func (m *Model) runCircuit() {
	m.parseEditor()
	if m.parseErr != "" {
		return
	}
	res, err := m.circuit.Execute(macq.ExecOptions{NoiseLevel: m.noiseLevel, Seed: m.seed})
	if err != nil {
		m.statusMsg = "run failed: " + err.Error()
		m.logger.Error("run failed", "err", err)
		return
	}
	m.result = res
	m.frequHist = nil
	m.statusMsg = fmt.Sprintf("run %s done, %d steps", shortID(res.RunID), m.circuit.MaxSteps)
	m.logger.Info("run complete",
		"run_id", res.RunID,
		"qubits", res.State.NumQubits(),
		"steps", m.circuit.MaxSteps,
		"outcomes", res.Outcomes)
}

// sampleCircuit histograms repeated shots of the current program.
func (m *Model) sampleCircuit() {
	m.parseEditor()
	if m.parseErr != "" {
		return
	}
	counts, err := m.circuit.Sample(m.shots, macq.ExecOptions{NoiseLevel: m.noiseLevel, Seed: m.seed})
	if err != nil {
		m.statusMsg = "sample failed: " + err.Error()
		m.logger.Error("sample failed", "err", err)
		return
	}
	m.frequHist = macq.Frequencies(counts)
	m.statusMsg = fmt.Sprintf("sampled %d shots", m.shots)
	m.logger.Info("sample complete", "shots", m.shots, "distinct", len(counts))
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

// availableMemMiB reports free memory for the status line, or -1 when the
// platform exposes no stats.
func availableMemMiB() int64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return -1
	}
	return int64(vm.Available / (1 << 20))
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetHeight(max(msg.Height-8, 4))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+r":
			m.runCircuit()
			return m, nil
		case "ctrl+s":
			m.sampleCircuit()
			return m, nil
		case "tab":
			if m.focus == focusEditor {
				m.focus = focusResults
				m.editor.Blur()
			} else {
				m.focus = focusEditor
				m.editor.Focus()
			}
			return m, nil
		case "esc":
			if m.focus == focusResults {
				m.focus = focusEditor
				m.editor.Focus()
				return m, nil
			}
		case "q":
			if m.focus == focusResults {
				return m, tea.Quit
			}
		}
	}

	if m.focus == focusEditor {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		m.parseEditor()
		return m, cmd
	}
	return m, nil
}
