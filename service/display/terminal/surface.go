// Package terminal provides a line-oriented confirmation surface. The shown
// action is printed as a prompt and every answer line resolves whichever
// action is displayed at that moment: "y" or "yes" approves, anything else
// cancels.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	approval "github.com/viant/consent/service/approval"
)

// Resolver receives the user's answers, typically approval.Service.
type Resolver interface {
	Approve(ctx context.Context, id string) (*approval.Decision, error)
	Cancel(ctx context.Context, id string) error
}

// Surface renders actions to out and reads answers from in.
type Surface struct {
	in     io.Reader
	out    io.Writer
	logger *slog.Logger

	mu       sync.Mutex
	current  string
	resolver Resolver
	started  bool
	done     chan struct{}
}

// New returns a Surface that reads from stdin and writes to stdout.
func New() *Surface {
	return NewWithIO(os.Stdin, os.Stdout)
}

// NewWithIO lets callers override the input/output streams (handy for tests).
func NewWithIO(in io.Reader, out io.Writer) *Surface {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Surface{in: in, out: out, logger: slog.Default(), done: make(chan struct{})}
}

// WithLogger replaces the logger used for resolver errors.
func (s *Surface) WithLogger(logger *slog.Logger) *Surface {
	s.logger = logger
	return s
}

// Bind sets the component answers are reported to.
func (s *Surface) Bind(resolver Resolver) {
	s.mu.Lock()
	s.resolver = resolver
	s.mu.Unlock()
}

func (s *Surface) Show(_ context.Context, id string, view *approval.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = id
	var prompt strings.Builder
	prompt.WriteString("\n⚠️  Confirmation required\n")
	fmt.Fprintf(&prompt, "%s %s\n", view.Icon, view.Title)
	if view.Description != "" {
		fmt.Fprintf(&prompt, "%s\n", view.Description)
	}
	if view.Explanation != "" {
		fmt.Fprintf(&prompt, "Reason: %s\n", view.Explanation)
	}
	prompt.WriteString("Allow? (y/n): ")
	_, err := io.WriteString(s.out, prompt.String())
	return err
}

func (s *Surface) Hide(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
	return nil
}

func (s *Surface) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Start launches the answer reader. It stops on EOF, a read error or when
// ctx is done after the next line; Done is closed once it exits.
func (s *Surface) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()
	go s.read(ctx)
}

// Done is closed when the reader exits.
func (s *Surface) Done() <-chan struct{} { return s.done }

func (s *Surface) read(ctx context.Context) {
	defer close(s.done)
	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		s.answer(ctx, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		s.logger.Warn("terminal: failed to read answer", "error", err)
	}
}

func (s *Surface) answer(ctx context.Context, line string) {
	s.mu.Lock()
	id, resolver := s.current, s.resolver
	s.mu.Unlock()
	if id == "" || resolver == nil {
		return
	}
	response := strings.ToLower(strings.TrimSpace(line))
	var err error
	if response == "y" || response == "yes" {
		_, err = resolver.Approve(ctx, id)
	} else {
		err = resolver.Cancel(ctx, id)
	}
	if err != nil {
		s.logger.Warn("terminal: failed to apply answer", "id", id, "error", err)
	}
}

var _ approval.Display = (*Surface)(nil)
