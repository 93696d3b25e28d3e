// Package ui holds the terminal front-ends: a live scan progress view
// and the per-item confirmation prompt. The core never imports this
// package; it only sees the progress notifier and decision function
// interfaces.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/xjiaxiang/build-cleaner/internal/progress"
	"github.com/xjiaxiang/build-cleaner/internal/scanner"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	matchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type scanUpdateMsg progress.ScanUpdate

type scanDoneMsg struct {
	result *scanner.SearchResult
	err    error
}

// RunScan displays a spinner with live counters while fn performs the
// search on a background goroutine. It returns fn's outcome once the
// walk ends.
func RunScan(title string, fn func(notifier progress.Notifier) (*scanner.SearchResult, error)) (*scanner.SearchResult, error) {
	reporter := progress.NewReporter()
	events := make(chan tea.Msg, 32)

	updates := reporter.Subscribe()
	go func() {
		for u := range updates {
			events <- scanUpdateMsg(u)
		}
	}()
	go func() {
		result, err := fn(reporter)
		reporter.Close()
		events <- scanDoneMsg{result: result, err: err}
	}()

	model := newScanModel(title, events)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("progress display failed: %w", err)
	}

	m := final.(scanModel)
	return m.result, m.err
}

type scanModel struct {
	title   string
	spinner spinner.Model
	events  <-chan tea.Msg
	last    progress.ScanUpdate
	done    bool
	result  *scanner.SearchResult
	err     error
}

func newScanModel(title string, events <-chan tea.Msg) scanModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return scanModel{title: title, spinner: sp, events: events}
}

func (m scanModel) nextEvent() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

func (m scanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.nextEvent())
}

func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanUpdateMsg:
		m.last = progress.ScanUpdate(msg)
		return m, m.nextEvent()
	case scanDoneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		// The walk has no cancellation; keys are ignored until done.
		return m, nil
	}
	return m, nil
}

func (m scanModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n  %s scanned, %s matched, %s\n",
		m.spinner.View(),
		titleStyle.Render(m.title),
		counterStyle.Render(fmt.Sprintf("%d dirs / %d files",
			m.last.DirsScanned, m.last.FilesScanned)),
		matchStyle.Render(fmt.Sprintf("%d folders / %d files",
			m.last.DirsMatched, m.last.FilesMatched)),
		dimStyle.Render(humanize.IBytes(uint64(m.last.TotalSize))),
	)
}
