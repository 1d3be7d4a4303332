package ordering

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	events "github.com/mrdaebak/dinner-core/core/events"
	"github.com/mrdaebak/dinner-core/core/interpreter"
	"github.com/mrdaebak/dinner-core/core/order"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	// ErrEmptyUtterance reports a submit attempt with no utterance. The
	// interpretation service is not contacted.
	ErrEmptyUtterance = errors.New("utterance must not be empty")
	// ErrTurnInFlight reports an overlapping submit attempt while a prior
	// turn is still awaiting the interpretation service.
	ErrTurnInFlight = errors.New("a turn is already awaiting the interpretation service")
	// ErrSessionFailed reports a submit attempt after the session closed
	// with an error. The session must be reset first.
	ErrSessionFailed = errors.New("session closed after a failed turn, reset to start over")
	// ErrInterpreterUnavailable reports that no interpretation service is
	// configured.
	ErrInterpreterUnavailable = errors.New("no interpretation service configured")
)

// SessionStatus tracks whether the conversation is still being clarified.
type SessionStatus string

const (
	SessionOpen          SessionStatus = "OPEN"
	SessionClosedSuccess SessionStatus = "CLOSED_SUCCESS"
	SessionClosedError   SessionStatus = "CLOSED_ERROR"
)

// Turn is one utterance-and-reply exchange within a session.
type Turn struct {
	ID        string
	Utterance string
	Reply     string
}

// conversationSession owns the turn-by-turn exchange with the interpretation
// service and applies resolved deltas to the order draft.
//
// Turns are strictly serialized: a second SendTurn while one is pending is
// rejected locally instead of racing. A resolved turn closes the session
// successfully but keeps accepting turns, starting a new clarification
// round; a failed turn is terminal until Reset.
type conversationSession struct {
	mu sync.Mutex

	interp interpreter.Interpreter
	draft  *order.Draft

	turns    []Turn
	status   SessionStatus
	inFlight bool

	emitEvent eventEmitter
}

func newConversationSession(interp interpreter.Interpreter, draft *order.Draft) *conversationSession {
	return &conversationSession{
		interp:    interp,
		draft:     draft,
		status:    SessionOpen,
		emitEvent: noopEventEmitter,
	}
}

func (s *conversationSession) set(interp interpreter.Interpreter) {
	if s != nil {
		s.interp = interp
	}
}

func (s *conversationSession) SetEventEmitter(emitEvent eventEmitter) {
	if s != nil {
		if emitEvent != nil {
			s.emitEvent = emitEvent
		} else {
			s.emitEvent = noopEventEmitter
		}
	}
}

// SendTurn sends one utterance to the interpretation service and merges the
// classified outcome into the session. Service failures are reported as a
// Failure outcome rather than an error; the error return is reserved for
// local rejections that never reach the service.
func (s *conversationSession) SendTurn(ctx context.Context, utterance string) (interpreter.Outcome, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return nil, ErrEmptyUtterance
	}

	s.mu.Lock()
	if s.interp == nil {
		s.mu.Unlock()
		return nil, ErrInterpreterUnavailable
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	if s.status == SessionClosedError {
		s.mu.Unlock()
		return nil, ErrSessionFailed
	}
	s.inFlight = true
	interp := s.interp
	emitEvent := s.emitEvent
	s.mu.Unlock()

	emitEvent(events.NewTurnStarted(utterance))

	ctx, span := tracer.Start(ctx, "conversation turn")
	defer span.End()

	response, err := interp.Interpret(ctx, utterance)

	var outcome interpreter.Outcome
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		outcome = interpreter.Failure{Message: err.Error()}
	} else {
		outcome = interpreter.Classify(response)
	}

	s.mu.Lock()
	s.inFlight = false

	var event events.Event
	switch typedOutcome := outcome.(type) {
	case interpreter.Continue:
		span.SetAttributes(attribute.String("turn.outcome", "continue"))
		s.turns = append(s.turns, Turn{ID: uuid.NewString(), Utterance: utterance, Reply: typedOutcome.Message})
		s.status = SessionOpen
		event = events.NewAssistantReplied(typedOutcome.Message)

	case interpreter.Done:
		span.SetAttributes(attribute.String("turn.outcome", "done"))
		// The delta is applied in full before the lock is released, so no
		// other mutation can interleave with reconciliation.
		order.ApplyDelta(s.draft, typedOutcome.Delta)
		s.turns = append(s.turns, Turn{ID: uuid.NewString(), Utterance: utterance, Reply: typedOutcome.Message})
		s.status = SessionClosedSuccess
		event = events.NewOrderResolved(typedOutcome.Message, s.draft.Snapshot())

	case interpreter.Failure:
		span.SetAttributes(attribute.String("turn.outcome", "failure"))
		s.status = SessionClosedError
		event = events.NewTurnFailed(typedOutcome.Message)
	}
	emitEvent = s.emitEvent
	s.mu.Unlock()

	emitEvent(event)
	return outcome, nil
}

// Reset discards the turn history and reopens the session. The configured
// interpreter's conversation context is dropped too when it supports that.
func (s *conversationSession) Reset() error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrTurnInFlight
	}
	s.turns = nil
	s.status = SessionOpen
	interp := s.interp
	emitEvent := s.emitEvent
	s.mu.Unlock()

	if resettable, ok := interp.(interface{ Reset() }); ok {
		resettable.Reset()
	}

	emitEvent(events.NewSessionReset())
	return nil
}

func (s *conversationSession) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// History returns a copy of the completed turns, earliest first.
func (s *conversationSession) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := make([]Turn, len(s.turns))
	copy(turns, s.turns)
	return turns
}
