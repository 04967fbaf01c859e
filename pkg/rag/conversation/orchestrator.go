// Package conversation runs one consultation turn end to end: session lookup,
// one-time retrieval, stage selection, prompt assembly, generation and commit.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"legifai-be/internal/pkg/logger"
	ragcontext "legifai-be/pkg/rag/context"
	"legifai-be/pkg/rag/prompt"
	"legifai-be/pkg/rag/session"
	"legifai-be/pkg/rag/stage"
	"legifai-be/pkg/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const module = "conversation"

// Retriever returns excerpts ranked by relevance, most relevant first.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]store.DocumentExcerpt, error)
}

// Generator produces the assistant reply for an assembled request.
type Generator interface {
	Generate(ctx context.Context, req *prompt.Request) (string, error)
}

// Reply is the outcome of a successful turn.
type Reply struct {
	SessionID      string
	Text           string
	TurnIndex      int
	Stage          stage.Stage
	ContextFetched bool
	Excerpts       []store.DocumentExcerpt
}

type Options struct {
	// LockWait bounds how long a turn waits for another turn on the same session.
	LockWait time.Duration
	// TurnTimeout bounds retrieval, generation and commit of a single turn.
	TurnTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		LockWait:    30 * time.Second,
		TurnTimeout: 90 * time.Second,
	}
}

type Orchestrator struct {
	store     store.SessionStore
	retriever Retriever
	generator Generator
	cache     *ragcontext.Cache
	builder   *prompt.Builder
	locker    *session.Locker
	opts      Options
	logger    logger.ILogger
	now       func() time.Time
}

func NewOrchestrator(
	sessionStore store.SessionStore,
	retriever Retriever,
	generator Generator,
	opts Options,
	logger logger.ILogger,
) *Orchestrator {
	defaults := DefaultOptions()
	if opts.LockWait <= 0 {
		opts.LockWait = defaults.LockWait
	}
	if opts.TurnTimeout <= 0 {
		opts.TurnTimeout = defaults.TurnTimeout
	}

	return &Orchestrator{
		store:     sessionStore,
		retriever: retriever,
		generator: generator,
		cache:     ragcontext.NewCache(),
		builder:   prompt.NewBuilder(),
		locker:    session.NewLocker(),
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleTurn processes one user message. A successful call appends exactly
// one turn; a failed call leaves the session as it was.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, message string) (*Reply, error) {
	if err := store.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(module).Start(ctx, "conversation.HandleTurn")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	unlock, err := o.lock(ctx, sessionID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer unlock()

	turnCtx, cancel := context.WithTimeout(ctx, o.opts.TurnTimeout)
	defer cancel()

	sess, err := o.store.GetOrCreate(turnCtx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	turnIndex := sess.NextTurnIndex()
	span.SetAttributes(attribute.Int("turn.index", turnIndex))

	excerpts, fetched, err := o.cache.GetOrFetch(turnCtx, sess, message, o.retrieve)
	if err != nil {
		span.SetStatus(codes.Error, "retrieval failed")
		o.logger.Error(module, "Retrieval failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, &RetrievalError{SessionID: sessionID, Err: err}
	}

	st, err := stage.Resolve(turnIndex)
	if err != nil {
		return nil, err
	}

	req := o.builder.Build(st, excerpts, sess.Turns, message)

	text, err := o.generate(turnCtx, req)
	if err != nil {
		span.SetStatus(codes.Error, "generation failed")
		o.logger.Error(module, "Generation failed", map[string]interface{}{
			"session_id": sessionID,
			"turn_index": turnIndex,
			"error":      err.Error(),
		})
		return nil, &GenerationError{SessionID: sessionID, TurnIndex: turnIndex, Err: err}
	}

	var retrieved *store.RetrievedContext
	if fetched {
		c := sess.Context
		retrieved = &c
	}

	turn := store.Turn{UserText: message, AssistantText: text, CreatedAt: o.now()}
	if err := o.store.AppendTurn(turnCtx, sessionID, turn, retrieved); err != nil {
		return nil, fmt.Errorf("failed to append turn: %w", err)
	}

	o.logger.Info(module, "Turn completed", map[string]interface{}{
		"session_id":      sessionID,
		"turn_index":      turnIndex,
		"stage":           st.String(),
		"context_fetched": fetched,
		"excerpts":        len(excerpts),
	})

	return &Reply{
		SessionID:      sessionID,
		Text:           text,
		TurnIndex:      turnIndex,
		Stage:          st,
		ContextFetched: fetched,
		Excerpts:       excerpts,
	}, nil
}

// Clear resets a session to its initial empty state. It waits for any
// in-flight turn on the same session.
func (o *Orchestrator) Clear(ctx context.Context, sessionID string) error {
	if err := store.ValidateSessionID(sessionID); err != nil {
		return err
	}

	unlock, err := o.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := o.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	o.logger.Info(module, "Session cleared", map[string]interface{}{"session_id": sessionID})
	return nil
}

// History returns a snapshot of the session, creating it if needed.
func (o *Orchestrator) History(ctx context.Context, sessionID string) (*store.Session, error) {
	if err := store.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	unlock, err := o.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return o.store.GetOrCreate(ctx, sessionID)
}

func (o *Orchestrator) lock(ctx context.Context, sessionID string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, o.opts.LockWait)
	defer cancel()

	unlock, err := o.locker.Lock(lockCtx, sessionID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrSessionBusy, sessionID)
		}
		return nil, err
	}
	return unlock, nil
}

func (o *Orchestrator) retrieve(ctx context.Context, query string) ([]store.DocumentExcerpt, error) {
	ctx, span := otel.Tracer(module).Start(ctx, "conversation.Retrieve")
	defer span.End()

	excerpts, err := await(ctx, func(ctx context.Context) ([]store.DocumentExcerpt, error) {
		return o.retriever.Retrieve(ctx, query)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("excerpts.count", len(excerpts)))
	return excerpts, nil
}

func (o *Orchestrator) generate(ctx context.Context, req *prompt.Request) (string, error) {
	ctx, span := otel.Tracer(module).Start(ctx, "conversation.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("stage", req.Stage.String()))

	text, err := await(ctx, func(ctx context.Context) (string, error) {
		return o.generator.Generate(ctx, req)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return text, nil
}

// await runs call and returns when it finishes or ctx is done, whichever
// comes first. A call that ignores ctx keeps running in the background and
// its late result is dropped.
func await[T any](ctx context.Context, call func(context.Context) (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := call(ctx)
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
