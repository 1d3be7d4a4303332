package events

// KindTurnStarted identifies the start of a conversation turn.
const KindTurnStarted Kind = "session_state.turn_started"

// TurnStarted marks an utterance being sent to the interpretation service.
type TurnStarted struct {
	Base
	Utterance string
}

// NewTurnStarted creates a turn started event.
func NewTurnStarted(utterance string) TurnStarted {
	return TurnStarted{Base: NewBase(KindTurnStarted), Utterance: utterance}
}

// KindAssistantReplied identifies a clarification reply on an unresolved
// turn.
const KindAssistantReplied Kind = "assistant_reply.received"

// AssistantReplied carries the service's natural-language reply while the
// conversation is still open.
type AssistantReplied struct {
	Base
	Message string
}

// NewAssistantReplied creates an assistant replied event.
func NewAssistantReplied(message string) AssistantReplied {
	return AssistantReplied{Base: NewBase(KindAssistantReplied), Message: message}
}

// KindTurnFailed identifies a turn that ended with a service error.
const KindTurnFailed Kind = "session_state.turn_failed"

// TurnFailed carries the diagnostic message for a failed exchange. The order
// draft is never modified by a failed turn.
type TurnFailed struct {
	Base
	Message string
}

// NewTurnFailed creates a turn failed event.
func NewTurnFailed(message string) TurnFailed {
	return TurnFailed{Base: NewBase(KindTurnFailed), Message: message}
}

// KindSessionReset identifies an explicit session reset.
const KindSessionReset Kind = "session_state.reset"

// SessionReset marks the conversation history being discarded and the
// session reopening.
type SessionReset struct{ Base }

// NewSessionReset creates a session reset event.
func NewSessionReset() SessionReset {
	return SessionReset{Base: NewBase(KindSessionReset)}
}
