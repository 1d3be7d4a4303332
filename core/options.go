package ordering

import (
	"context"

	"github.com/mrdaebak/dinner-core/core/interpreter"
	"github.com/mrdaebak/dinner-core/core/order"
	"github.com/mrdaebak/dinner-core/core/speechtotext"
)

type Option func(*Assistant)

// SpeechToText is the utterance-source capability consumed by the capture
// layer. Implementations may additionally expose StopStream or Close,
// which the capture layer uses to cancel listening.
type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
}

func WithSpeechToTextClient(client SpeechToText) Option {
	return func(a *Assistant) {
		a.capture.set(client)
	}
}

func WithInterpreter(client interpreter.Interpreter) Option {
	return func(a *Assistant) {
		a.session.set(client)
	}
}

type AssistOptions struct {
	onListeningStateChanged func(isListening bool)
	onInterimTranscription  func(transcript string)
	onUtterance             func(utterance string)
	onReply                 func(message string)
	onOrderResolved         func(message string, snapshot order.Snapshot)
	onTurnFailed            func(message string)
	onMenuSelected          func(menu order.Menu, defaultsApplied bool)
}

type AssistOption func(*AssistOptions)

// WithListeningStateChangedCallback registers a callback for capture state
// transitions between IDLE and LISTENING.
func WithListeningStateChangedCallback(callback func(isListening bool)) AssistOption {
	return func(o *AssistOptions) {
		o.onListeningStateChanged = callback
	}
}

// WithInterimTranscriptionCallback registers a callback for interim
// transcripts produced by the configured speech-to-text client while the
// user is still speaking.
func WithInterimTranscriptionCallback(callback func(transcript string)) AssistOption {
	return func(o *AssistOptions) {
		o.onInterimTranscription = callback
	}
}

// WithUtteranceCallback registers a callback for the finalized utterance
// produced when listening stops. The utterance may be empty when nothing was
// recognized.
func WithUtteranceCallback(callback func(utterance string)) AssistOption {
	return func(o *AssistOptions) {
		o.onUtterance = callback
	}
}

// WithReplyCallback registers a callback for clarification replies on
// unresolved turns.
func WithReplyCallback(callback func(message string)) AssistOption {
	return func(o *AssistOptions) {
		o.onReply = callback
	}
}

// WithOrderResolvedCallback registers a callback invoked after a resolved
// turn's delta has been fully applied to the draft.
func WithOrderResolvedCallback(callback func(message string, snapshot order.Snapshot)) AssistOption {
	return func(o *AssistOptions) {
		o.onOrderResolved = callback
	}
}

func WithTurnFailedCallback(callback func(message string)) AssistOption {
	return func(o *AssistOptions) {
		o.onTurnFailed = callback
	}
}

func WithMenuSelectedCallback(callback func(menu order.Menu, defaultsApplied bool)) AssistOption {
	return func(o *AssistOptions) {
		o.onMenuSelected = callback
	}
}
