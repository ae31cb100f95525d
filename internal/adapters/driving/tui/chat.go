// Package tui provides the interactive chat interface for Folio,
// built on Bubbletea following the Elm architecture.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/ports/driving"
)

// streamOpened carries the event channel of a newly started answer stream.
type streamOpened struct {
	events <-chan domain.AnswerEvent
}

// streamEvent carries one event read from the answer stream.
// ok is false when the channel has closed.
type streamEvent struct {
	event domain.AnswerEvent
	ok    bool
}

// askFailed signals that the stream could not be started.
type askFailed struct {
	err error
}

// Chat is the interactive question-answering view.
// It implements tea.Model for use with Bubbletea.
type Chat struct {
	query      driving.QueryService
	collection string
	topK       int

	styles   *Styles
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	// transcript holds the rendered conversation so far.
	transcript []string

	// answer accumulates tokens of the in-flight answer.
	answer strings.Builder

	// sources holds the retrieved passages for the in-flight answer.
	sources []domain.SourcePreview

	events    <-chan domain.AnswerEvent
	cancel    context.CancelFunc
	streaming bool

	width  int
	height int
	ready  bool
}

// Ensure Chat implements tea.Model.
var _ tea.Model = (*Chat)(nil)

// NewChat creates a chat view that answers questions against the given
// collection, retrieving topK passages per question.
func NewChat(query driving.QueryService, collection string, topK int) *Chat {
	s := DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Focus()
	ti.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Muted

	return &Chat{
		query:      query,
		collection: collection,
		topK:       topK,
		styles:     s,
		input:      ti,
		spinner:    sp,
		width:      80,
		height:     24,
	}
}

// Init initialises the chat view.
func (c *Chat) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, c.spinner.Tick)
}

// Update handles messages for the chat view.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		// Reserve rows for the title, input box, and help line.
		vpHeight := msg.Height - 6
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !c.ready {
			c.viewport = viewport.New(msg.Width, vpHeight)
			c.ready = true
		} else {
			c.viewport.Width = msg.Width
			c.viewport.Height = vpHeight
		}
		c.input.Width = msg.Width - 6
		c.refreshViewport()
		return c, nil

	case tea.KeyMsg:
		return c.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !c.streaming {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd

	case streamOpened:
		c.events = msg.events
		return c, waitForEvent(msg.events)

	case streamEvent:
		return c.handleStreamEvent(msg)

	case askFailed:
		c.appendLine(c.styles.Error.Render("Error: " + msg.err.Error()))
		c.finishStream()
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// handleKeyMsg processes keyboard input.
func (c *Chat) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if c.cancel != nil {
			c.cancel()
		}
		return c, tea.Quit

	case tea.KeyEsc:
		if c.streaming {
			// Abort the in-flight answer but keep the session open.
			if c.cancel != nil {
				c.cancel()
			}
			c.appendLine(c.styles.Muted.Render("(cancelled)"))
			c.finishStream()
			return c, nil
		}
		return c, tea.Quit

	case tea.KeyEnter:
		if c.streaming {
			return c, nil
		}
		question := strings.TrimSpace(c.input.Value())
		if question == "" {
			return c, nil
		}
		c.input.Reset()
		c.appendLine(c.styles.Question.Render("You: ") + question)
		c.streaming = true
		c.answer.Reset()
		c.sources = nil
		return c, tea.Batch(c.startStream(question), c.spinner.Tick)
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// handleStreamEvent folds one answer event into the view state.
func (c *Chat) handleStreamEvent(msg streamEvent) (tea.Model, tea.Cmd) {
	if !msg.ok {
		// Channel closed without a done event: the stream was cut short.
		if c.streaming {
			c.flushAnswer()
			c.appendLine(c.styles.Muted.Render("(stream interrupted)"))
			c.finishStream()
		}
		return c, nil
	}

	switch msg.event.Type {
	case domain.EventSources:
		c.sources = msg.event.Sources

	case domain.EventToken:
		c.answer.WriteString(msg.event.Token)
		c.refreshViewport()

	case domain.EventDone:
		c.flushAnswer()
		for i, src := range c.sources {
			filename, _ := src.Attributes["filename"].(string)
			c.appendLine(c.styles.Source.Render(
				fmt.Sprintf("  [%d] %s (%.4f)", i+1, filename, src.Score),
			))
		}
		c.finishStream()
		return c, nil

	case domain.EventError:
		c.flushAnswer()
		c.appendLine(c.styles.Error.Render("Error: " + msg.event.Err))
		c.finishStream()
		return c, nil
	}

	return c, waitForEvent(c.events)
}

// startStream begins answering the question in the background.
func (c *Chat) startStream(question string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	return func() tea.Msg {
		events, err := c.query.AskStream(ctx, question, c.collection, c.topK)
		if err != nil {
			return askFailed{err: err}
		}
		return streamOpened{events: events}
	}
}

// waitForEvent reads the next event from the stream.
func waitForEvent(events <-chan domain.AnswerEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return streamEvent{event: ev, ok: ok}
	}
}

// flushAnswer moves the accumulated answer into the transcript.
func (c *Chat) flushAnswer() {
	if c.answer.Len() == 0 {
		return
	}
	c.appendLine(c.styles.Answer.Render("Folio: " + c.answer.String()))
	c.answer.Reset()
}

// finishStream resets the in-flight stream state.
func (c *Chat) finishStream() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.events = nil
	c.streaming = false
	c.refreshViewport()
}

// appendLine adds a line to the transcript and scrolls to it.
func (c *Chat) appendLine(line string) {
	c.transcript = append(c.transcript, line)
	c.refreshViewport()
}

// refreshViewport rebuilds the viewport content from the transcript
// and any partially received answer.
func (c *Chat) refreshViewport() {
	if !c.ready {
		return
	}
	content := strings.Join(c.transcript, "\n")
	if c.streaming && c.answer.Len() > 0 {
		if content != "" {
			content += "\n"
		}
		content += c.styles.Answer.Render("Folio: " + c.answer.String())
	}
	c.viewport.SetContent(content)
	c.viewport.GotoBottom()
}

// View renders the chat interface.
func (c *Chat) View() string {
	if !c.ready {
		return "Loading..."
	}

	title := c.styles.Title.Render(fmt.Sprintf("Folio chat (%s)", c.collection))

	status := ""
	if c.streaming {
		status = c.spinner.View() + c.styles.Muted.Render(" thinking...")
	}

	help := c.styles.Help.Render("enter: ask · esc: cancel/quit · ctrl+c: quit")

	return strings.Join([]string{
		title,
		c.viewport.View(),
		status,
		c.styles.InputField.Render(c.input.View()),
		help,
	}, "\n")
}
