// Package ordering assembles a structured dinner order from a voice or text
// conversation.
//
// The Assistant composes three machines around a single order draft: an
// utterance capture wrapping the external speech source, a conversation
// session exchanging turns with the interpretation service, and the
// reconciler that merges resolved deltas into the draft. Manual menu-card
// selection bypasses the conversation and mutates the draft through the same
// invariant-enforcing path.
package ordering

import (
	"context"

	events "github.com/mrdaebak/dinner-core/core/events"
	"github.com/mrdaebak/dinner-core/core/interpreter"
	"github.com/mrdaebak/dinner-core/core/order"
)

type Assistant struct {
	capture *utteranceCapture
	session *conversationSession
	draft   *order.Draft

	assistOptions AssistOptions
	emitEvent     eventEmitter
	baseContext   context.Context
}

func New(opts ...Option) *Assistant {
	draft := order.NewDraft()

	a := &Assistant{
		draft:       draft,
		capture:     newUtteranceCapture(nil),
		session:     newConversationSession(nil, draft),
		emitEvent:   noopEventEmitter,
		baseContext: context.Background(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Assist wires the runtime callbacks and the base context used by the
// external triggers below. Calling it again replaces the previous wiring.
func (a *Assistant) Assist(ctx context.Context, opts ...AssistOption) {
	a.assistOptions = AssistOptions{}
	for _, opt := range opts {
		opt(&a.assistOptions)
	}

	a.baseContext = ctx
	a.emitEvent = newCallbackEventEmitter(a.assistOptions)
	a.capture.SetEventEmitter(a.emitEvent)
	a.session.SetEventEmitter(a.emitEvent)
}

// ToggleListening starts utterance capture when idle and stops it when
// listening. It reports ErrSpeechUnsupported when no speech-to-text client
// is configured.
func (a *Assistant) ToggleListening() error {
	return a.capture.Toggle(a.baseContext)
}

func (a *Assistant) IsListening() bool { return a.capture.IsListening() }

// Utterance returns the finalized utterance of the most recent listening
// round, possibly empty.
func (a *Assistant) Utterance() string { return a.capture.Utterance() }

// SendAudio forwards an audio chunk to the utterance source while listening.
func (a *Assistant) SendAudio(audio []byte) error { return a.capture.SendAudio(audio) }

// Submit sends one utterance to the interpretation service. A Done outcome
// has already been applied to the draft by the time Submit returns.
func (a *Assistant) Submit(utterance string) (interpreter.Outcome, error) {
	return a.session.SendTurn(a.baseContext, utterance)
}

// SelectMenuCard handles a manual menu-card click: the menu's starter item
// set replaces all current quantities. Unknown menu keys are ignored.
func (a *Assistant) SelectMenuCard(menuKey string) {
	a.selectMenu(menuKey, true)
}

// RestoreMenu re-selects a previously chosen menu on page load without
// touching item quantities.
func (a *Assistant) RestoreMenu(menuKey string) {
	a.selectMenu(menuKey, false)
}

func (a *Assistant) selectMenu(menuKey string, applyDefaults bool) {
	menu, ok := order.ParseMenu(menuKey)
	if !ok {
		return
	}

	a.draft.SelectMenu(menu, applyDefaults)
	a.emitEvent(events.NewMenuSelected(menu, applyDefaults))
}

// Draft returns a point-in-time copy of the order draft for rendering.
func (a *Assistant) Draft() order.Snapshot { return a.draft.Snapshot() }

// Conversation returns a copy of the completed turns, earliest first.
func (a *Assistant) Conversation() []Turn { return a.session.History() }

func (a *Assistant) SessionStatus() SessionStatus { return a.session.Status() }

// ResetSession discards the conversation and reopens the session, keeping
// the draft as it is.
func (a *Assistant) ResetSession() error { return a.session.Reset() }
