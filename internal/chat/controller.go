// Package chat implements the conversation controller: the transcript, the
// compose buffer and the single-flight request guard.
package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/diogo/chatmate/internal/models"
)

// FallbackMessage replaces the assistant reply whenever a chat request fails.
const FallbackMessage = "Something went wrong. Please try again later."

// citationPattern matches bracketed numeric citation markers such as [1] or [12].
var citationPattern = regexp.MustCompile(`\[\d+\]`)

// ErrNotAwaiting is returned by Resolve when no request is in flight.
var ErrNotAwaiting = errors.New("no request in flight")

// State is the single-flight request state
type State int

const (
	// Idle accepts a new submission.
	Idle State = iota
	// Awaiting has one request in flight; submissions are ignored.
	Awaiting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Awaiting:
		return "awaiting"
	default:
		return "unknown"
	}
}

// Sender is the backend call the controller issues for each accepted submission.
type Sender interface {
	Chat(ctx context.Context, message string) (string, error)
}

// Controller owns one conversation. The zero value is not usable; use New.
type Controller struct {
	sender Sender
	logger *slog.Logger

	mu           sync.Mutex
	transcript   []models.Turn
	pendingInput string
	state        State
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the diagnostic logger that receives request failures
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an idle controller with an empty transcript
func New(sender Sender, opts ...Option) *Controller {
	c := &Controller{
		sender: sender,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StripCitations removes every citation marker and trims surrounding whitespace.
func StripCitations(s string) string {
	return strings.TrimSpace(citationPattern.ReplaceAllString(s, ""))
}

// Transcript returns a copy of the turns in display order
func (c *Controller) Transcript() []models.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Turn(nil), c.transcript...)
}

// Len returns the number of turns
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.transcript)
}

// State returns the current request state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsAwaitingResponse reports whether a request is in flight
func (c *Controller) IsAwaitingResponse() bool {
	return c.State() == Awaiting
}

// PendingInput returns the compose buffer
func (c *Controller) PendingInput() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingInput
}

// SetPendingInput replaces the compose buffer
func (c *Controller) SetPendingInput(s string) {
	c.mu.Lock()
	c.pendingInput = s
	c.mu.Unlock()
}

// InsertNewline appends a line break to the compose buffer without submitting.
func (c *Controller) InsertNewline() {
	c.mu.Lock()
	c.pendingInput += "\n"
	c.mu.Unlock()
}

// Begin accepts raw for submission. When raw is blank or a request is
// already in flight nothing changes and ok is false. Otherwise the user turn
// is appended verbatim, the compose buffer cleared, the state moved to
// Awaiting, and the trimmed message to send is returned.
func (c *Controller) Begin(raw string) (message string, ok bool) {
	message = strings.TrimSpace(raw)
	if message == "" {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Awaiting {
		c.logger.Debug("submission ignored, request in flight")
		return "", false
	}

	c.transcript = append(c.transcript, models.NewTurn(models.SenderUser, raw))
	c.pendingInput = ""
	c.state = Awaiting
	return message, true
}

// Resolve completes the in-flight request with the backend outcome, appends
// the assistant turn and returns to Idle.
func (c *Controller) Resolve(response string, err error) (models.Turn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Awaiting {
		return models.Turn{}, ErrNotAwaiting
	}

	text := FallbackMessage
	if err != nil {
		c.logger.Error("chat request failed", "error", err)
	} else {
		text = StripCitations(response)
	}

	turn := models.NewTurn(models.SenderAssistant, text)
	c.transcript = append(c.transcript, turn)
	c.state = Idle
	return turn, nil
}

// Submit runs Begin, the backend call and Resolve in sequence. It returns
// false when the submission was ignored.
func (c *Controller) Submit(ctx context.Context, raw string) (models.Turn, bool) {
	message, ok := c.Begin(raw)
	if !ok {
		return models.Turn{}, false
	}

	response, err := c.sender.Chat(ctx, message)
	turn, _ := c.Resolve(response, err)
	return turn, true
}

// Reset clears the transcript and compose buffer. A request still in flight
// keeps the guard until it resolves.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.transcript = nil
	c.pendingInput = ""
	c.mu.Unlock()
}
