// Package engine runs game sessions: it serializes every operation on a
// session, calls the language model for agent turns, votes and guesses,
// and absorbs collaborator failures with fallbacks.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mvg01/liargame/internal/game"
	"github.com/mvg01/liargame/internal/llm"
	"github.com/mvg01/liargame/internal/models"
	"github.com/mvg01/liargame/internal/observability"
	"github.com/mvg01/liargame/internal/store"
	"github.com/mvg01/liargame/internal/topics"
)

// ErrMissingSessionID is returned when a session is created without an identifier
var ErrMissingSessionID = errors.New("session id is required")

// Publisher receives session events after each completed operation
type Publisher interface {
	Publish(sessionID, event string, payload any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, string, any) {}

// Options tunes an Engine. Zero values select the defaults.
type Options struct {
	HistoryWindow int           // trailing messages an agent sees when speaking
	CallTimeout   time.Duration // bound on each collaborator call
	Narrator      bool          // produce host commentary after turns

	Source    game.Source // shared by all sessions; wrapped so it may be non-thread-safe
	Now       func() time.Time
	Logger    *slog.Logger
	Publisher Publisher
}

// Engine is the game service
type Engine struct {
	store  store.Store
	locker store.Locker
	llm    llm.Completer
	topics *topics.Catalog

	window   int
	timeout  time.Duration
	narrator bool

	src    game.Source
	now    func() time.Time
	logger *slog.Logger
	events Publisher
}

// New creates an Engine
func New(st store.Store, locker store.Locker, completer llm.Completer, catalog *topics.Catalog, opts Options) *Engine {
	e := &Engine{
		store:    st,
		locker:   locker,
		llm:      completer,
		topics:   catalog,
		window:   opts.HistoryWindow,
		timeout:  opts.CallTimeout,
		narrator: opts.Narrator,
		src:      opts.Source,
		now:      opts.Now,
		logger:   opts.Logger,
		events:   opts.Publisher,
	}
	if e.window <= 0 {
		e.window = game.DefaultHistoryWindow
	}
	if e.timeout <= 0 {
		e.timeout = game.DefaultCallTimeout
	}
	if e.src == nil {
		e.src = game.DefaultSource
	} else {
		e.src = game.Synchronized(e.src)
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.events == nil {
		e.events = nopPublisher{}
	}
	if e.topics == nil {
		e.topics = topics.Builtin()
	}
	return e
}

// NarratorEnabled reports whether host commentary is produced
func (e *Engine) NarratorEnabled() bool {
	return e.narrator
}

// CreateSession starts a new game. With no keyword a random topic is drawn;
// a keyword without a category has its category looked up.
func (e *Engine) CreateSession(ctx context.Context, id, keyword, category string) (*models.Session, error) {
	ctx, span := e.startSpan(ctx, "engine.CreateSession", id)
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingSessionID
	}

	unlock, err := e.locker.Lock(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	defer unlock()

	topic := e.topics.Resolve(e.src, keyword, category)
	s, err := game.NewSession(id, topic, e.src, e.now())
	if err != nil {
		return nil, fail(span, err)
	}
	if err := e.store.Create(ctx, s); err != nil {
		return nil, fail(span, err)
	}

	observability.RecordSessionCreated()
	e.logger.Info("session created",
		"session_id", id,
		"category", s.Category,
		"turn_order", s.TurnOrder,
	)
	e.logger.Debug("roles assigned", "session_id", id, "impostor", s.ImpostorID)
	return s, nil
}

// GetSession returns a copy of the session
func (e *Engine) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return e.store.Get(ctx, id)
}

// Status returns a full read-only snapshot of the session
func (e *Engine) Status(ctx context.Context, id string) (*models.Status, error) {
	s, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return snapshot(s), nil
}

func snapshot(s *models.Session) *models.Status {
	return &models.Status{
		SessionID:        s.ID,
		Keyword:          s.Keyword,
		Category:         s.Category,
		ImpostorID:       s.ImpostorID,
		Roles:            s.Roles,
		History:          s.History,
		MessageCount:     len(s.History),
		TurnOrder:        s.TurnOrder,
		CurrentTurnIndex: s.CurrentTurnIndex,
		CurrentSpeaker:   game.CurrentSpeaker(s),
		Round:            game.Round(s),
		Phase:            s.Phase,
		Vote:             s.Vote,
		Guess:            s.Guess,
	}
}

// complete makes one bounded collaborator call. A blank reply is a failure
// whatever the completer reports.
func (e *Engine) complete(ctx context.Context, req llm.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	text, err := e.llm.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", &llm.Error{Provider: e.llm.Name(), Purpose: req.Purpose, Err: llm.ErrEmptyResponse}
	}
	return text, nil
}

// save persists a mutation even if the caller has gone away, so an
// operation whose outcome is known is never left half applied
func (e *Engine) save(ctx context.Context, s *models.Session) error {
	s.UpdatedAt = e.now()
	return e.store.Save(context.WithoutCancel(ctx), s)
}

func (e *Engine) startSpan(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	return observability.StartSpan(ctx, name, attribute.String("session.id", sessionID))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
