// Package tui shows a running build in the terminal.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/pxbind/internal/build"
	"github.com/san-kum/pxbind/internal/viz"
)

const recentLines = 8

type eventMsg build.Event

type doneMsg struct {
	res *build.Result
	err error
}

type tickMsg time.Time

type model struct {
	events <-chan tea.Msg
	cancel context.CancelFunc

	target string
	total  int
	done   int
	unit   string
	recent []string
	frame  int
	start  time.Time

	res *build.Result
	err error

	width int
}

func newModel(p *build.Plan, events <-chan tea.Msg, cancel context.CancelFunc) model {
	return model{
		events: events,
		cancel: cancel,
		target: p.Settings.Target,
		total:  len(p.Engine.Sources) + len(p.Adapter.Sources),
		start:  time.Now(),
		width:  80,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(wait(m.events), tick())
}

func wait(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		m.frame++
		return m, tick()
	case eventMsg:
		m = m.apply(build.Event(msg))
		return m, wait(m.events)
	case doneMsg:
		m.res, m.err = msg.res, msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m model) apply(ev build.Event) model {
	var line string
	switch ev.Step {
	case "compile":
		if ev.Err == nil {
			m.done++
		}
		m.unit = ev.Unit
		line = fmt.Sprintf("%s %s %s", ev.Unit, filepath.Base(ev.Path), viz.Subtle.Render(ev.Took.Round(time.Millisecond).String()))
	case "archive":
		line = "archive " + filepath.Base(ev.Path)
	case "structgen":
		m.unit = "structgen"
		line = "structgen " + filepath.Base(ev.Path)
	default:
		line = ev.Step
	}
	if ev.Err != nil {
		line = viz.StatusFailed.Render("failed ") + line
	}
	m.recent = append(m.recent, line)
	if len(m.recent) > recentLines {
		m.recent = m.recent[len(m.recent)-recentLines:]
	}
	return m
}

func (m model) fraction() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(viz.Title.Render("pxbuild") + " " + viz.Subtle.Render(m.target) + "\n\n")

	status := viz.Spinner(m.frame) + " " + m.unit
	switch {
	case m.err != nil:
		status = viz.StatusFailed.Render("failed")
	case m.res != nil:
		status = viz.StatusOK.Render("done")
	}
	barWidth := max(10, min(m.width-30, 50))
	fmt.Fprintf(&b, "%s %s %d/%d  %s\n\n",
		viz.ProgressBar(m.fraction(), barWidth), status, m.done, m.total,
		viz.Subtle.Render(time.Since(m.start).Round(time.Second).String()))

	for _, l := range m.recent {
		b.WriteString("  " + l + "\n")
	}
	b.WriteString("\n" + viz.KeyHint.Render("q to cancel") + "\n")
	return b.String()
}

// Run executes the plan while rendering its progress. Quitting the view
// cancels the build.
func Run(ctx context.Context, e *build.Executor, p *build.Plan) (*build.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tea.Msg, 64)
	stop := make(chan struct{})
	defer close(stop)
	run := *e
	prev := e.Progress
	run.Progress = func(ev build.Event) {
		if prev != nil {
			prev(ev)
		}
		select {
		case events <- eventMsg(ev):
		case <-stop:
		}
	}

	go func() {
		res, err := run.Run(ctx, p)
		select {
		case events <- doneMsg{res: res, err: err}:
		case <-stop:
		}
	}()

	final, err := tea.NewProgram(newModel(p, events, cancel)).Run()
	if err != nil {
		cancel()
		return nil, err
	}
	m := final.(model)
	return m.res, m.err
}
