// Package tui renders a live progress view of a scan.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/scan-dir/internal/scan"
	"github.com/joe/scan-dir/internal/tui/shared"
	pkgerrors "github.com/joe/scan-dir/pkg/errors"
	"github.com/joe/scan-dir/pkg/filesystem"
)

// Model is the progress view. It is driven entirely by engine events.
type Model struct {
	root     string
	bridge   *shared.EventBridge
	spinner  spinner.Model
	width    int
	visited  int
	dirs     int
	files    int
	lastPath string
	failures []string
	failed   int
	done     bool
	quitting bool
	result   *scan.Result
	err      error
}

// NewModel creates the view for a scan of root fed by bridge.
func NewModel(root string, bridge *shared.EventBridge) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = shared.LabelStyle()

	return Model{
		root:    root,
		bridge:  bridge,
		spinner: spin,
		width:   shared.DefaultWidth,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.bridge.ListenCmd())
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == shared.KeyCtrlC || msg.String() == shared.KeyQuit {
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case shared.EngineEventMsg:
		m = m.handleEvent(msg.Event)
		if m.done {
			return m, tea.Quit
		}

		return m, m.bridge.ListenCmd()
	}

	return m, nil
}

func (m Model) handleEvent(event scan.Event) Model {
	switch e := event.(type) {
	case scan.ScanStarted:
		m.root = e.Root
	case scan.EntryVisited:
		m.visited = e.Seq
		m.lastPath = e.Path

		if e.Kind == filesystem.KindDirectory {
			m.dirs++
		} else {
			m.files++
		}
	case scan.DirectoryFailed:
		m.failed++
		m.failures = append(m.failures, e.Path)

		if len(m.failures) > shared.MaxRecentFailures {
			m.failures = m.failures[1:]
		}
	case scan.ScanComplete:
		m.done = true
		m.result = e.Result
		m.err = e.Err

		// Events may have been dropped; the result is authoritative.
		if e.Result != nil {
			m.visited = e.Result.Visited
			m.dirs = e.Result.Directories
			m.files = e.Result.Files
			m.failed = len(e.Result.FailedDirs)
		}
	}

	return m
}

// View implements tea.Model
func (m Model) View() string {
	var builder strings.Builder

	builder.WriteString(shared.RenderTitle("scan-dir " + m.root))
	builder.WriteString("\n")

	switch {
	case m.done && m.err != nil:
		builder.WriteString(m.errorView())
	case m.done:
		summary := shared.RenderSuccess("✓ Scan complete") + "\n" + strings.TrimSuffix(m.countsView(), "\n")
		builder.WriteString(shared.RenderBox(summary))
		builder.WriteString("\n")
	default:
		builder.WriteString(m.spinner.View())
		builder.WriteString(" Scanning\n")
		builder.WriteString(m.countsView())
		builder.WriteString(shared.RenderLabel("Last: "))
		builder.WriteString(shared.TruncatePath(m.lastPath, m.width-len("Last: ")-shared.DefaultPadding))
		builder.WriteString("\n")
	}

	if len(m.failures) > 0 && !m.done {
		builder.WriteString(shared.RenderWarning(fmt.Sprintf("%d directories could not be listed:", m.failed)))
		builder.WriteString("\n")

		for _, path := range m.failures {
			builder.WriteString(shared.RenderDim("  " + shared.TruncatePath(path, m.width-shared.DefaultPadding)))
			builder.WriteString("\n")
		}
	}

	if !m.done {
		builder.WriteString(shared.RenderDim("Press q to close the view"))
		builder.WriteString("\n")
	}

	return builder.String()
}

func (m Model) countsView() string {
	line := fmt.Sprintf("%s %d  %s %d  %s %d",
		shared.RenderLabel("Visited:"), m.visited,
		shared.RenderLabel("Directories:"), m.dirs,
		shared.RenderLabel("Files:"), m.files)

	if m.failed > 0 {
		line += "  " + shared.RenderWarning(fmt.Sprintf("Failed: %d", m.failed))
	}

	return line + "\n"
}

func (m Model) errorView() string {
	enriched := pkgerrors.NewEnricher().Enrich(m.err, "")

	var builder strings.Builder

	builder.WriteString(shared.RenderError("✗ " + enriched.Error()))
	builder.WriteString("\n")

	if m.result != nil {
		builder.WriteString(shared.RenderDim(fmt.Sprintf("status %d", m.result.Status)))
		builder.WriteString("\n")
	}

	if suggestions := pkgerrors.FormatSuggestions(enriched); suggestions != "" {
		builder.WriteString(suggestions)
		builder.WriteString("\n")
	}

	return builder.String()
}

// Done reports whether the scan finished.
func (m Model) Done() bool {
	return m.done
}

// Quitting reports whether the user closed the view before the scan finished.
func (m Model) Quitting() bool {
	return m.quitting
}
