package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

// mockQueryService replays canned stream events for AskStream.
type mockQueryService struct {
	events       []domain.AnswerEvent
	err          error
	lastQuestion string
}

func (m *mockQueryService) Ask(
	_ context.Context,
	_, _ string,
	_ int,
) (*domain.Answer, error) {
	return nil, m.err
}

func (m *mockQueryService) AskStream(
	_ context.Context,
	question, _ string,
	_ int,
) (<-chan domain.AnswerEvent, error) {
	m.lastQuestion = question
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan domain.AnswerEvent, len(m.events))
	for _, ev := range m.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func newReadyChat(query *mockQueryService) *Chat {
	chat := NewChat(query, "default", 5)
	chat.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return chat
}

// typeQuestion sets the input value and presses enter.
func typeQuestion(chat *Chat, question string) tea.Cmd {
	chat.input.SetValue(question)
	_, cmd := chat.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

// drain runs a command and feeds the resulting messages back into the
// model until no command remains, mirroring the Bubbletea runtime.
func drain(t *testing.T, chat *Chat, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, sub := range batch {
				if sub != nil {
					drain(t, chat, sub)
				}
			}
			return
		}
		if _, ok := msg.(spinner.TickMsg); ok {
			return
		}
		_, cmd = chat.Update(msg)
	}
}

func TestNewChat(t *testing.T) {
	chat := NewChat(&mockQueryService{}, "handbook", 3)

	require.NotNil(t, chat)
	assert.Equal(t, "handbook", chat.collection)
	assert.Equal(t, 3, chat.topK)
	assert.False(t, chat.ready)
}

func TestChat_Init(t *testing.T) {
	chat := NewChat(&mockQueryService{}, "default", 5)
	assert.NotNil(t, chat.Init())
}

func TestChat_WindowSize(t *testing.T) {
	chat := NewChat(&mockQueryService{}, "default", 5)

	_, cmd := chat.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Nil(t, cmd)
	assert.True(t, chat.ready)
	assert.Equal(t, 100, chat.viewport.Width)
}

func TestChat_AskStreamsAnswer(t *testing.T) {
	query := &mockQueryService{
		events: []domain.AnswerEvent{
			{Type: domain.EventSources, Sources: []domain.SourcePreview{
				{
					Text:       "Refunds within 30 days.",
					Score:      0.9321,
					Attributes: map[string]any{"filename": "policy.txt"},
				},
			}},
			{Type: domain.EventToken, Token: "Refunds are allowed "},
			{Type: domain.EventToken, Token: "within 30 days."},
			{Type: domain.EventDone},
		},
	}
	chat := newReadyChat(query)

	cmd := typeQuestion(chat, "What is the refund policy?")
	require.NotNil(t, cmd)
	assert.True(t, chat.streaming)
	drain(t, chat, cmd)

	assert.Equal(t, "What is the refund policy?", query.lastQuestion)
	assert.False(t, chat.streaming)

	view := chat.View()
	assert.Contains(t, view, "Refunds are allowed within 30 days.")
	assert.Contains(t, view, "policy.txt")
	assert.Contains(t, view, "0.9321")
}

func TestChat_EmptyInputIgnored(t *testing.T) {
	chat := newReadyChat(&mockQueryService{})

	cmd := typeQuestion(chat, "   ")

	assert.Nil(t, cmd)
	assert.False(t, chat.streaming)
	assert.Empty(t, chat.transcript)
}

func TestChat_EnterIgnoredWhileStreaming(t *testing.T) {
	chat := newReadyChat(&mockQueryService{})
	chat.streaming = true

	chat.input.SetValue("another question")
	_, cmd := chat.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestChat_StreamError(t *testing.T) {
	query := &mockQueryService{
		events: []domain.AnswerEvent{
			{Type: domain.EventSources},
			{Type: domain.EventToken, Token: "partial"},
			{Type: domain.EventError, Err: "generation failed"},
		},
	}
	chat := newReadyChat(query)

	drain(t, chat, typeQuestion(chat, "q"))

	assert.False(t, chat.streaming)
	assert.Contains(t, chat.View(), "generation failed")
}

func TestChat_AskFailed(t *testing.T) {
	query := &mockQueryService{err: errors.New("store unreachable")}
	chat := newReadyChat(query)

	drain(t, chat, typeQuestion(chat, "q"))

	assert.False(t, chat.streaming)
	assert.Contains(t, chat.View(), "store unreachable")
}

func TestChat_InterruptedStream(t *testing.T) {
	// Channel closes without a done event.
	query := &mockQueryService{
		events: []domain.AnswerEvent{
			{Type: domain.EventSources},
			{Type: domain.EventToken, Token: "partial answer"},
		},
	}
	chat := newReadyChat(query)

	drain(t, chat, typeQuestion(chat, "q"))

	assert.False(t, chat.streaming)
	view := chat.View()
	assert.Contains(t, view, "partial answer")
	assert.Contains(t, view, "interrupted")
}

func TestChat_EscCancelsStream(t *testing.T) {
	chat := newReadyChat(&mockQueryService{})
	chat.streaming = true
	cancelled := false
	chat.cancel = func() { cancelled = true }

	_, cmd := chat.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.True(t, cancelled)
	assert.False(t, chat.streaming)
	assert.Contains(t, chat.View(), "cancelled")
}

func TestChat_EscQuitsWhenIdle(t *testing.T) {
	chat := newReadyChat(&mockQueryService{})

	_, cmd := chat.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestChat_CtrlCQuits(t *testing.T) {
	chat := newReadyChat(&mockQueryService{})

	_, cmd := chat.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestChat_ViewBeforeReady(t *testing.T) {
	chat := NewChat(&mockQueryService{}, "default", 5)
	assert.Equal(t, "Loading...", chat.View())
}
