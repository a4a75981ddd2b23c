// Package session keeps the conversation history the approval registry
// reports to, optionally journaling it as JSON lines.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/viant/consent/internal/clock"
	approval "github.com/viant/consent/service/approval"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Well-known message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ErrClosed is returned when adding to a closed session.
var ErrClosed = errors.New("session: closed")

// Message is one history entry.
type Message struct {
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// JournalConfig configures the rotating journal file.
type JournalConfig struct {
	File       string `yaml:"journal" json:"journal"`
	MaxSizeMB  int    `yaml:"maxSizeMB" json:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups" json:"maxBackups"`
}

// Manager holds the in-memory history.
type Manager struct {
	mu       sync.RWMutex
	messages []*Message
	journal  io.WriteCloser
	encoder  *json.Encoder
	clock    clock.Clock
	closed   bool
}

type Option func(*Manager)

// WithJournal appends every message to a lumberjack-rotated file.
func WithJournal(cfg JournalConfig) Option {
	return func(m *Manager) {
		if cfg.File == "" {
			return
		}
		m.setJournal(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
	}
}

// WithWriter journals to w; Close closes it.
func WithWriter(w io.WriteCloser) Option {
	return func(m *Manager) { m.setJournal(w) }
}

func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

func New(options ...Option) *Manager {
	ret := &Manager{clock: clock.System()}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (m *Manager) setJournal(w io.WriteCloser) {
	m.journal = w
	m.encoder = json.NewEncoder(w)
}

// AddMessage appends a message to the history and the journal.
func (m *Manager) AddMessage(role, content string, metadata map[string]interface{}) error {
	msg := &Message{Role: role, Content: content, Metadata: metadata, CreatedAt: m.clock.Now()}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.messages = append(m.messages, msg)
	if m.encoder == nil {
		return nil
	}
	return m.encoder.Encode(msg)
}

// Record implements approval.Recorder; kind becomes the message role.
func (m *Manager) Record(_ context.Context, kind, description string, metadata map[string]interface{}) error {
	return m.AddMessage(kind, description, metadata)
}

// Messages returns a copy of the history.
func (m *Manager) Messages() []*Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Message(nil), m.messages...)
}

// Len returns the number of messages.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

// Close flushes and closes the journal. It is safe to call more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if m.journal == nil {
		return nil
	}
	return m.journal.Close()
}

var _ approval.Recorder = (*Manager)(nil)
