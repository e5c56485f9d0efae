package shared

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/scan-dir/internal/scan"
)

// Exported constants.
const (
	// EventBufferSize is the bridge channel capacity.
	EventBufferSize = 256
)

// EngineEventMsg wraps a scan.Event for use as a tea.Msg.
type EngineEventMsg struct {
	Event scan.Event
}

// EventBridge adapts scan engine events to bubble tea messages.
// It implements scan.EventEmitter and provides a channel for TUI consumption.
//
// EntryVisited events are dropped when the channel is full; every other
// event is delivered unless the bridge is closed. Safe for use from the
// engine goroutine and the TUI goroutine at once.
type EventBridge struct {
	eventChan chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
}

// NewEventBridge creates a new event bridge.
func NewEventBridge() *EventBridge {
	return &EventBridge{
		eventChan: make(chan tea.Msg, EventBufferSize),
		done:      make(chan struct{}),
	}
}

// Emit implements scan.EventEmitter.
func (b *EventBridge) Emit(event scan.Event) {
	msg := EngineEventMsg{Event: event}

	if _, lossy := event.(scan.EntryVisited); lossy {
		select {
		case b.eventChan <- msg:
		case <-b.done:
		default:
			// Channel full; the view catches up from later events.
		}

		return
	}

	select {
	case b.eventChan <- msg:
	case <-b.done:
	}
}

// Subscribe returns the event channel for receiving events.
func (b *EventBridge) Subscribe() <-chan tea.Msg {
	return b.eventChan
}

// ListenCmd returns a tea.Cmd that blocks until an event is received.
// Use this in Init() or after processing an event to continue listening.
func (b *EventBridge) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.eventChan:
			return msg
		case <-b.done:
			return nil
		}
	}
}

// Close stops delivery. Pending and later Emit calls return immediately.
func (b *EventBridge) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}
