package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-synth/synth/engine"
	"github.com/cwbudde/algo-synth/synth/seq"
	"github.com/cwbudde/algo-synth/synth/trig"
	"github.com/cwbudde/algo-synth/synth/voice"
)

var (
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fff")).Bold(true)
	gateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5f5"))
	meterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fa0"))
)

// keyRow maps terminal keys onto the eight synth keys.
var keyRow = []string{"a", "s", "d", "f", "g", "h", "j", "k"}

const keyHoldMs = 200

type refreshMsg time.Time
type keyUpMsg int
type buttonUpMsg struct{}

// model is the terminal front panel. It emits control events and renders
// the engine snapshot; it never touches audio state directly.
type model struct {
	eng    *engine.Engine
	events chan<- engine.Event

	// Naming-only instrument copies; the audio task owns the real ones.
	names [engine.InstrumentCount]voice.Instrument

	snap     engine.Snapshot
	knob     int
	scale    int
	tier     int
	shape    int
	pattern  int
	preset   int
	echoStep int
	timbre   int
	octave   int
	quitting bool
}

func newModel(eng *engine.Engine, events chan<- engine.Event) model {
	return model{
		eng:    eng,
		events: events,
		names: [engine.InstrumentCount]voice.Instrument{
			voice.NewSiren(), voice.NewRayGun(), voice.NewLead(), voice.NewDisco(),
		},
	}
}

func (m model) send(ev engine.Event) {
	select {
	case m.events <- ev:
	default: // drop rather than stall the UI
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return refreshTick()
}

func keyUpAfter(key int) tea.Cmd {
	return tea.Tick(keyHoldMs*time.Millisecond, func(time.Time) tea.Msg {
		return keyUpMsg(key)
	})
}

func buttonUpAfter() tea.Cmd {
	return tea.Tick(keyHoldMs*time.Millisecond, func(time.Time) tea.Msg {
		return buttonUpMsg{}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.snap = m.eng.Snapshot()
		return m, refreshTick()

	case keyUpMsg:
		m.send(engine.Event{Kind: engine.EventKeyUp, Index: int(msg)})
		return m, nil

	case buttonUpMsg:
		m.send(engine.Event{Kind: engine.EventButtonUp})
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := msg.String()

	// Lowercase letters in the home row play the eight keys; uppercase
	// chords them with the function shift.
	for i, k := range keyRow {
		if s == k {
			m.send(engine.Event{Kind: engine.EventKeyDown, Index: i})
			return m, keyUpAfter(i)
		}
		if s == strings.ToUpper(k) {
			m.send(engine.Event{Kind: engine.EventShiftDown})
			m.send(engine.Event{Kind: engine.EventKeyDown, Index: i})
			m.send(engine.Event{Kind: engine.EventShiftUp})
			return m, nil
		}
	}

	switch s {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case " ":
		m.send(engine.Event{Kind: engine.EventButtonDown})
		return m, buttonUpAfter()

	case "1", "2", "3", "4", "5", "6", "7", "8":
		idx := int(s[0] - '1')
		if m.snap.Function == trig.FuncSequencer {
			m.send(engine.Event{Kind: engine.EventSeqToggleStep, Index: idx})
		} else if idx < engine.InstrumentCount {
			m.send(engine.Event{Kind: engine.EventInstrument, Index: idx})
		}

	case "tab":
		m.send(engine.Event{Kind: engine.EventMode, Index: m.snap.Mode + 1})
	case "shift+tab":
		m.send(engine.Event{Kind: engine.EventMode, Index: m.snap.Mode - 1})

	case "left":
		m.knob = (m.knob + voice.KnobCount - 1) % voice.KnobCount
	case "right":
		m.knob = (m.knob + 1) % voice.KnobCount
	case "up":
		m.send(engine.Event{Kind: engine.EventKnob, Index: m.knob,
			Value: m.snap.Knobs[m.knob] + 0.05})
	case "down":
		m.send(engine.Event{Kind: engine.EventKnob, Index: m.knob,
			Value: m.snap.Knobs[m.knob] - 0.05})

	case ",":
		m.scale++
		m.send(engine.Event{Kind: engine.EventScale, Index: m.scale})
	case "t":
		m.tier = (m.tier + 1) % 4
		m.send(engine.Event{Kind: engine.EventTier, Index: m.tier})
	case "o":
		m.shape = (m.shape + 1) % 4
		m.send(engine.Event{Kind: engine.EventLFOShape, Index: m.shape})

	case "enter":
		m.send(engine.Event{Kind: engine.EventSeqToggleRun})
	case "r":
		m.send(engine.Event{Kind: engine.EventRecorderKey})
	case "l":
		m.send(engine.Event{Kind: engine.EventRecorderLoop, Index: 1})
	case "p":
		m.pattern = (m.pattern + 1) % int(seq.PatternCount)
		m.send(engine.Event{Kind: engine.EventLoopPattern, Index: m.pattern})
	case "y":
		m.preset = (m.preset + 1) % len(trig.SyncGatePresets)
		m.send(engine.Event{Kind: engine.EventSyncPreset, Index: m.preset})
	case "n":
		m.send(engine.Event{Kind: engine.EventSyncPulse})

	case "[":
		if m.echoStep > 0 {
			m.echoStep--
		}
		m.send(engine.Event{Kind: engine.EventEchoDelay, Index: m.echoStep * 1102})
	case "]":
		m.echoStep++
		m.send(engine.Event{Kind: engine.EventEchoDelay, Index: m.echoStep * 1102})

	case "m":
		m.timbre = (m.timbre + 1) % (seq.TimbreChord + 1)
		m.send(engine.Event{Kind: engine.EventSeqTimbre, Index: m.timbre})
	case "=":
		if m.octave < 2 {
			m.octave++
		}
		m.send(engine.Event{Kind: engine.EventSeqOctave, Index: m.octave})
	case "-":
		if m.octave > -2 {
			m.octave--
		}
		m.send(engine.Event{Kind: engine.EventSeqOctave, Index: m.octave})

	case "x":
		m.send(engine.Event{Kind: engine.EventExitFunction})
	}
	return m, nil
}

func (m model) instrumentLine() string {
	inst := m.names[wrap(m.snap.Instrument, engine.InstrumentCount)]
	inst.SetMode(m.snap.Mode)
	line := fmt.Sprintf("%s / %s", inst.Name(), inst.ModeName())
	if m.snap.Function != trig.FuncNone {
		line += dimStyle.Render(fmt.Sprintf("  [%s]", m.snap.Function))
	}
	return titleStyle.Render(line)
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func (m model) knobLine() string {
	var b strings.Builder
	for i := 0; i < voice.KnobCount; i++ {
		name := m.snap.KnobLabels[i]
		if name == "" { // zero snapshot before the first refresh
			name = "knob"
		}
		label := fmt.Sprintf("%s %s", name, knobBar(m.snap.Knobs[i]))
		if i == m.knob {
			b.WriteString(activeStyle.Render(label))
		} else {
			b.WriteString(dimStyle.Render(label))
		}
		b.WriteString("  ")
	}
	return b.String()
}

func knobBar(v float64) string {
	const width = 8
	filled := int(v*width + 0.5)
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m model) stepLine() string {
	var b strings.Builder
	for i := 0; i < seq.StepCount; i++ {
		cell := "·"
		if m.snap.SeqSteps[i] {
			cell = "■"
		}
		if m.snap.SeqRunning && i == m.snap.SeqStep {
			b.WriteString(gateStyle.Render(cell))
		} else {
			b.WriteString(dimStyle.Render(cell))
		}
		b.WriteString(" ")
	}
	if m.snap.SeqStarved {
		b.WriteString(dimStyle.Render(" (silent)"))
	}
	return b.String()
}

func (m model) statusLine() string {
	gate := dimStyle.Render("gate ·")
	if m.snap.GateOpen {
		gate = gateStyle.Render("gate ●")
	}
	meter := meterStyle.Render(knobBar(float64(m.snap.Meter) / 16384))
	rec := dimStyle.Render("rec " + m.snap.RecorderState.String())
	return gate + "   " + meter + "   " + rec
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	body := strings.Join([]string{
		m.instrumentLine(),
		"",
		m.knobLine(),
		m.stepLine(),
		m.statusLine(),
		"",
		dimStyle.Render("a-k keys · A-K functions · space trig · 1-8 inst/steps · arrows knobs"),
		dimStyle.Render("tab mode · t mutate · enter seq · r rec · p pattern · x exit · q quit"),
	}, "\n")
	return panelStyle.Render(body)
}
