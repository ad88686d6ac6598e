// Package conversation keeps the append-only transcript of a session.
package conversation

import (
	"time"

	"github.com/csheth/claimscout/internal/chart"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// MetaType links an assistant message to the kind of proposal it announced.
type MetaType string

const (
	MetaSuggestion MetaType = "suggestion"
	MetaNewElement MetaType = "new_element"
	MetaUndo       MetaType = "undo"
)

// Meta is presentation-only context attached to a message. It is never the
// source of truth for chart or proposal state.
type Meta struct {
	Type      MetaType       `json:"type"`
	ElementID int            `json:"elementId,omitempty"`
	Quality   *chart.Quality `json:"quality,omitempty"`
}

// Message is one transcript entry.
type Message struct {
	ID      int       `json:"id"`
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Meta    *Meta     `json:"meta,omitempty"`
	At      time.Time `json:"at"`
}

// Log is an ordered, append-only message sequence.
type Log struct {
	messages []Message
	now      func() time.Time
}

// NewLog returns an empty log stamping messages with now. A nil clock uses
// time.Now.
func NewLog(now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{now: now}
}

// Append records a message and returns it with its assigned id.
func (l *Log) Append(role Role, content string, meta *Meta) Message {
	if meta != nil {
		cp := *meta
		if meta.Quality != nil {
			q := *meta.Quality
			cp.Quality = &q
		}
		meta = &cp
	}
	msg := Message{
		ID:      len(l.messages) + 1,
		Role:    role,
		Content: content,
		Meta:    meta,
		At:      l.now(),
	}
	l.messages = append(l.messages, msg)
	return msg
}

// Messages returns a copy of the transcript in append order.
func (l *Log) Messages() []Message {
	return append([]Message(nil), l.messages...)
}

// Len returns the number of messages.
func (l *Log) Len() int {
	return len(l.messages)
}

// Last returns the most recent message.
func (l *Log) Last() (Message, bool) {
	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}
