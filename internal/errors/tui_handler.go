package errors

import (
	"sync"
	"time"
)

// maxMessages bounds the TUI message history.
const maxMessages = 50

// TUIHandler keeps messages for the browse and wizard status lines.
type TUIHandler struct {
	mu       sync.RWMutex
	messages []Message
	onError  func(msg Message)
	now      func() time.Time
}

// Message is one status line entry.
type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

// Expired reports whether the message is older than ttl at now.
func (m Message) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(m.Timestamp) > ttl
}

type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeError:
		return "error"
	case MessageTypeWarning:
		return "warning"
	case MessageTypeSuccess:
		return "success"
	default:
		return "info"
	}
}

// NewTUIHandler creates a handler. onError, if set, is called for every
// message regardless of type.
func NewTUIHandler(onError func(msg Message)) *TUIHandler {
	return &TUIHandler{
		messages: make([]Message, 0),
		onError:  onError,
		now:      time.Now,
	}
}

func (h *TUIHandler) Error(msg string) {
	h.addMessage(msg, MessageTypeError)
}

func (h *TUIHandler) Warning(msg string) {
	h.addMessage(msg, MessageTypeWarning)
}

func (h *TUIHandler) Info(msg string) {
	h.addMessage(msg, MessageTypeInfo)
}

func (h *TUIHandler) Success(msg string) {
	h.addMessage(msg, MessageTypeSuccess)
}

func (h *TUIHandler) addMessage(msg string, msgType MessageType) {
	h.mu.Lock()
	message := Message{
		Text:      msg,
		Type:      msgType,
		Timestamp: h.now(),
	}
	h.messages = append(h.messages, message)
	if len(h.messages) > maxMessages {
		h.messages = append([]Message(nil), h.messages[len(h.messages)-maxMessages:]...)
	}
	onError := h.onError
	h.mu.Unlock()

	if onError != nil {
		onError(message)
	}
}

// GetLatest returns the most recent message.
func (h *TUIHandler) GetLatest() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

func (h *TUIHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = make([]Message, 0)
}

// GetAll returns a copy of the history, oldest first.
func (h *TUIHandler) GetAll() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	copied := make([]Message, len(h.messages))
	copy(copied, h.messages)
	return copied
}
