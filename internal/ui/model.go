package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/jaehoon-lim/xlsx2csv/internal/converter"
	"github.com/jaehoon-lim/xlsx2csv/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateForm state = iota
	stateChoice
	statePicker
	stateRunning
	stateDone
)

const (
	fieldInput = iota
	fieldOutput
	fieldSheet
	fieldEncoding
	fieldCount
)

// pickTarget says which form field the filepicker is currently serving.
type pickTarget int

const (
	pickInputFile pickTarget = iota
	pickInputDir
	pickOutputDir
)

type Model struct {
	state      state
	inputs     [fieldCount]textinput.Model
	focus      int
	formErr    string
	filepicker filepicker.Model
	picking    pickTarget
	log        viewport.Model
	logLines   []string
	logChan    chan string
	doneChan   chan *types.RunSummary
	summary    *types.RunSummary
	width      int
	height     int
}

type logLineMsg string

type runDoneMsg struct {
	summary *types.RunSummary
}

func InitialModel() Model {
	var inputs [fieldCount]textinput.Model

	labels := [fieldCount]string{
		fieldInput:    "folder or single " + converter.SourceExt + " file",
		fieldOutput:   "output folder",
		fieldSheet:    "name or index",
		fieldEncoding: "utf-8",
	}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.Width = 56
		inputs[i] = ti
	}
	inputs[fieldSheet].SetValue("0")
	inputs[fieldSheet].Width = 16
	inputs[fieldEncoding].SetValue(converter.DefaultEncoding)
	inputs[fieldEncoding].Width = 16
	inputs[fieldInput].Focus()

	vp := viewport.New(80, 14)

	return Model{
		state:  stateForm,
		inputs: inputs,
		log:    vp,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		logHeight := msg.Height - 10
		if logHeight < 5 {
			logHeight = 5
		}
		m.log.Width = msg.Width - 6
		m.log.Height = logHeight
		if m.state == statePicker {
			m.filepicker.SetHeight(logHeight)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateForm:
			return m.updateForm(msg)

		case stateChoice:
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "f":
				return m.openPicker(pickInputFile)
			case "d":
				return m.openPicker(pickInputDir)
			case "esc", "q":
				m.state = stateForm
				return m, nil
			}
			return m, nil

		case statePicker:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			if msg.String() == "esc" {
				m.state = stateForm
				return m, nil
			}

		case stateRunning:
			// No cancellation mid-run; only a hard quit.
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case stateDone:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "enter", "esc":
				m.state = stateForm
				return m, textinput.Blink
			}
		}

	case logLineMsg:
		m.logLines = append(m.logLines, string(msg))
		m.log.SetContent(strings.Join(m.logLines, "\n"))
		m.log.GotoBottom()
		return m, waitForLog(m.logChan, m.doneChan)

	case runDoneMsg:
		m.summary = msg.summary
		m.state = stateDone
		return m, nil
	}

	if m.state == statePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			if m.picking == pickOutputDir {
				m.inputs[fieldOutput].SetValue(path)
			} else {
				m.inputs[fieldInput].SetValue(path)
			}
			m.state = stateForm
			return m, textinput.Blink
		}
		return m, cmd
	}

	if m.state == stateForm {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	// Viewport scrolling while the log is on screen.
	if m.state == stateRunning || m.state == stateDone {
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "down":
		return m.setFocus((m.focus + 1) % fieldCount)

	case "shift+tab", "up":
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case "ctrl+o":
		// Browse for the focused path field. The input path first asks
		// whether the user wants a file or a folder, like the original
		// desktop form did.
		switch m.focus {
		case fieldInput:
			m.state = stateChoice
			return m, nil
		case fieldOutput:
			return m.openPicker(pickOutputDir)
		}
		return m, nil

	case "enter":
		return m.startConversion()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) setFocus(i int) (Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m, m.inputs[m.focus].Focus()
}

func (m Model) openPicker(target pickTarget) (Model, tea.Cmd) {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	switch target {
	case pickInputFile:
		fp.AllowedTypes = []string{converter.SourceExt}
		fp.FileAllowed = true
		fp.DirAllowed = false
	case pickInputDir, pickOutputDir:
		fp.FileAllowed = false
		fp.DirAllowed = true
	}

	height := m.height - 10
	if height < 5 {
		height = 5
	}
	fp.SetHeight(height)

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#A7F3D0"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399")).Bold(true)

	m.filepicker = fp
	m.picking = target
	m.state = statePicker
	return m, m.filepicker.Init()
}

func (m Model) startConversion() (Model, tea.Cmd) {
	input := strings.TrimSpace(m.inputs[fieldInput].Value())
	outDir := strings.TrimSpace(m.inputs[fieldOutput].Value())
	if input == "" {
		m.formErr = "Select a file or folder to convert."
		return m, nil
	}
	if outDir == "" {
		m.formErr = "Select an output folder."
		return m, nil
	}
	m.formErr = ""

	sheet := types.ParseSheetSelector(m.inputs[fieldSheet].Value())
	enc := strings.TrimSpace(m.inputs[fieldEncoding].Value())
	if enc == "" {
		enc = converter.DefaultEncoding
	}

	m.state = stateRunning
	m.summary = nil
	m.logLines = nil
	m.log.SetContent("")
	m.logChan = make(chan string, 64)
	m.doneChan = make(chan *types.RunSummary, 1)

	logChan := m.logChan
	doneChan := m.doneChan

	go func() {
		// Last line of defense: the pipeline is not supposed to panic, but
		// an unanticipated fault must still surface in the log.
		defer func() {
			if rec := recover(); rec != nil {
				logChan <- fmt.Sprintf("Unexpected error: %v", rec)
			}
			close(logChan)
			close(doneChan)
		}()

		summary := converter.Convert(input, outDir, sheet, enc,
			converter.ReporterFunc(func(msg string) { logChan <- msg }))
		logChan <- "All work finished."
		doneChan <- summary
	}()

	return m, waitForLog(m.logChan, m.doneChan)
}

// waitForLog turns the conversion goroutine's channel traffic into tea
// messages, one at a time. When the log channel closes, the summary (if
// any) follows on the done channel.
func waitForLog(logChan chan string, doneChan chan *types.RunSummary) tea.Cmd {
	return func() tea.Msg {
		if logChan == nil {
			return nil
		}
		msg, ok := <-logChan
		if !ok {
			summary, ok := <-doneChan
			if !ok {
				return runDoneMsg{}
			}
			return runDoneMsg{summary: summary}
		}
		return logLineMsg(msg)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateForm:
		return m.viewForm()
	case stateChoice:
		return m.viewChoice()
	case statePicker:
		return m.viewPicker()
	case stateRunning, stateDone:
		return m.viewLog()
	}
	return ""
}

func (m Model) viewForm() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("XLSX → CSV Converter"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Convert every workbook under a path to delimited text"))
	s.WriteString("\n\n")

	labels := [fieldCount]string{
		fieldInput:    "Input path",
		fieldOutput:   "Output folder",
		fieldSheet:    "Sheet (name or index)",
		fieldEncoding: "Encoding",
	}
	for i := range m.inputs {
		style := LabelStyle
		if m.focus == i {
			style = FocusedLabelStyle
		}
		s.WriteString(style.Render(labels[i]))
		s.WriteString("\n")
		s.WriteString(m.inputs[i].View())
		s.WriteString("\n\n")
	}

	if m.formErr != "" {
		s.WriteString(ErrorStyle.Render(m.formErr))
		s.WriteString("\n")
	}

	s.WriteString(HelpStyle.Render("tab: next field • ctrl+o: browse • enter: start • esc: quit"))
	return BoxStyle.Render(s.String())
}

func (m Model) viewChoice() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Browse input"))
	s.WriteString("\n\n")
	s.WriteString("Pick a single workbook file, or a folder to search recursively?")
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("f: pick a file • d: pick a folder • esc: cancel"))
	return BoxStyle.Render(s.String())
}

func (m Model) viewPicker() string {
	var s strings.Builder

	title := "Select a workbook file"
	if m.picking == pickInputDir {
		title = "Select an input folder"
	} else if m.picking == pickOutputDir {
		title = "Select an output folder"
	}

	s.WriteString(TitleStyle.Render(title))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("enter: select • esc: back"))
	return s.String()
}

func (m Model) viewLog() string {
	var s strings.Builder

	if m.state == stateRunning {
		s.WriteString(TitleStyle.Render("Converting..."))
	} else {
		s.WriteString(TitleStyle.Render("Done"))
	}
	s.WriteString("\n\n")
	s.WriteString(LogBoxStyle.Render(m.log.View()))
	s.WriteString("\n")

	if m.state == stateDone {
		if m.summary != nil {
			s.WriteString(SuccessStyle.Render(m.summary.String()))
			s.WriteString("\n")
		}
		s.WriteString(HelpStyle.Render("enter: new run • q: quit"))
	} else {
		s.WriteString(HelpStyle.Render("↑/↓: scroll log"))
	}
	return s.String()
}
