package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/dpdsim/internal/sim"
)

const traceCapacity = 200

type tickMsg time.Time

type blockMsg struct {
	temp float64
	err  error
}

// Live is a bubbletea model that advances the simulation block by block
// and plots the running temperature trace.
type Live struct {
	sim    *sim.Simulator
	blocks int

	trace []float64
	done  int
	err   error
}

func NewLive(s *sim.Simulator, blocks int) Live {
	return Live{sim: s, blocks: blocks}
}

func (m Live) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(30*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tickMsg:
		if m.done >= m.blocks || m.err != nil {
			return m, tea.Quit
		}
		s := m.sim
		return m, func() tea.Msg {
			temp, err := s.Block(context.Background())
			return blockMsg{temp: temp, err: err}
		}

	case blockMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.trace = append(m.trace, msg.temp)
		if len(m.trace) > traceCapacity {
			m.trace = m.trace[1:]
		}
		m.done++
		return m, tick()
	}
	return m, nil
}

func (m Live) Err() error { return m.err }

func (m Live) View() string {
	var b strings.Builder

	cfg := m.sim.Config()
	b.WriteString(Header(fmt.Sprintf("dpdsim live  thermostat=%s", cfg.Thermostat.Type)))
	b.WriteString("\n")
	b.WriteString(Trace("temperature", m.trace))
	b.WriteString("\n")
	b.WriteString(Stat("block", "%d / %d", m.done, m.blocks))
	b.WriteString("\n")
	b.WriteString(Stat("time", "%.3f", m.sim.Integrator().Time()))
	b.WriteString("\n")
	if len(m.trace) > 0 {
		b.WriteString(Stat("temperature", "%.4f  (target %.4f)",
			m.trace[len(m.trace)-1], cfg.Thermostat.Temperature))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(fmt.Sprintf("error: %v\n", m.err))
	}
	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteString("\n")
	return b.String()
}
