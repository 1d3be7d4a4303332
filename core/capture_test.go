package ordering

import (
	"context"
	"errors"
	"testing"

	events "github.com/mrdaebak/dinner-core/core/events"
	"github.com/mrdaebak/dinner-core/core/speechtotext"
)

type speechToTextClientStub struct {
	transcribe    func(opts speechtotext.TranscriptionOptions)
	transcribeErr error

	stopCalls int
	sentAudio [][]byte
}

func (stub *speechToTextClientStub) Transcribe(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := speechtotext.TranscriptionOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if stub.transcribeErr != nil {
		return stub.transcribeErr
	}
	if stub.transcribe != nil {
		stub.transcribe(options)
	}
	return nil
}

func (stub *speechToTextClientStub) SendAudio(audio []byte) error {
	stub.sentAudio = append(stub.sentAudio, audio)
	return nil
}

func (stub *speechToTextClientStub) StopStream() error {
	stub.stopCalls++
	return nil
}

func TestToggleWithoutClientReportsUnsupported(t *testing.T) {
	capture := newUtteranceCapture(nil)

	if err := capture.Toggle(context.Background()); !errors.Is(err, ErrSpeechUnsupported) {
		t.Fatalf("expected ErrSpeechUnsupported, got %v", err)
	}
	if capture.IsListening() {
		t.Fatalf("expected no state change when capture is unsupported")
	}
}

func TestToggleCapturesFinalTranscript(t *testing.T) {
	var callbacks speechtotext.TranscriptionOptions
	stub := &speechToTextClientStub{
		transcribe: func(opts speechtotext.TranscriptionOptions) { callbacks = opts },
	}
	capture := newUtteranceCapture(stub)

	if err := capture.Toggle(context.Background()); err != nil {
		t.Fatalf("expected toggle to start listening, got %v", err)
	}
	if !capture.IsListening() {
		t.Fatalf("expected LISTENING after first toggle")
	}

	callbacks.InterimTranscriptionCallback("one val")
	callbacks.TranscriptionCallback("one valentine dinner")

	if err := capture.Toggle(context.Background()); err != nil {
		t.Fatalf("expected toggle to stop listening, got %v", err)
	}
	if capture.IsListening() {
		t.Fatalf("expected IDLE after second toggle")
	}
	if got := capture.Utterance(); got != "one valentine dinner" {
		t.Fatalf("expected final transcript as the utterance, got %q", got)
	}
	if stub.stopCalls != 1 {
		t.Fatalf("expected the source to be asked to stop once, got %d", stub.stopCalls)
	}
}

func TestToggleFallsBackToInterimTranscript(t *testing.T) {
	var callbacks speechtotext.TranscriptionOptions
	stub := &speechToTextClientStub{
		transcribe: func(opts speechtotext.TranscriptionOptions) { callbacks = opts },
	}
	capture := newUtteranceCapture(stub)

	if err := capture.Toggle(context.Background()); err != nil {
		t.Fatalf("expected toggle to start listening, got %v", err)
	}
	callbacks.InterimTranscriptionCallback("a champagne din")

	if err := capture.Toggle(context.Background()); err != nil {
		t.Fatalf("expected toggle to stop listening, got %v", err)
	}
	if got := capture.Utterance(); got != "a champagne din" {
		t.Fatalf("expected interim fallback as the utterance, got %q", got)
	}
}

func TestSourceEndedFinalizesWithoutStopRequest(t *testing.T) {
	var callbacks speechtotext.TranscriptionOptions
	stub := &speechToTextClientStub{
		transcribe: func(opts speechtotext.TranscriptionOptions) { callbacks = opts },
	}
	capture := newUtteranceCapture(stub)

	if err := capture.Toggle(context.Background()); err != nil {
		t.Fatalf("expected toggle to start listening, got %v", err)
	}
	callbacks.TranscriptionCallback("an english dinner")
	callbacks.ListeningEndedCallback()

	if capture.IsListening() {
		t.Fatalf("expected IDLE after the source completed on its own")
	}
	if got := capture.Utterance(); got != "an english dinner" {
		t.Fatalf("expected the utterance finalized on source completion, got %q", got)
	}
	if stub.stopCalls != 0 {
		t.Fatalf("expected no stop request when the source completed, got %d", stub.stopCalls)
	}
}

func TestToggleEmitsLifecycleEvents(t *testing.T) {
	var callbacks speechtotext.TranscriptionOptions
	stub := &speechToTextClientStub{
		transcribe: func(opts speechtotext.TranscriptionOptions) { callbacks = opts },
	}
	capture := newUtteranceCapture(stub)

	observed := []events.Kind{}
	var captured string
	capture.SetEventEmitter(func(event events.Event) {
		observed = append(observed, event.Kind())
		if typedEvent, ok := event.(events.UtteranceCaptured); ok {
			captured = typedEvent.Utterance
		}
	})

	capture.Toggle(context.Background())
	callbacks.InterimTranscriptionCallback("hel")
	capture.Toggle(context.Background())

	expected := []events.Kind{
		events.KindListeningStarted,
		events.KindUserTranscriptInterimUpdated,
		events.KindUserTranscriptInterimUpdated, // cleared on finalization
		events.KindUtteranceCaptured,
		events.KindListeningStopped,
	}
	if len(observed) != len(expected) {
		t.Fatalf("expected events %v, got %v", expected, observed)
	}
	for i := range expected {
		if observed[i] != expected[i] {
			t.Fatalf("expected event %d to be %q, got %q", i, expected[i], observed[i])
		}
	}
	if captured != "hel" {
		t.Fatalf("expected captured utterance %q, got %q", "hel", captured)
	}
}

func TestToggleRevertsToIdleWhenTranscribeFails(t *testing.T) {
	stub := &speechToTextClientStub{transcribeErr: errors.New("socket refused")}
	capture := newUtteranceCapture(stub)

	if err := capture.Toggle(context.Background()); err == nil {
		t.Fatalf("expected an error when the source fails to start")
	}
	if capture.IsListening() {
		t.Fatalf("expected IDLE after a failed start")
	}
}

func TestSendAudioOnlyForwardsWhileListening(t *testing.T) {
	stub := &speechToTextClientStub{}
	capture := newUtteranceCapture(stub)

	if err := capture.SendAudio([]byte{1}); err != nil {
		t.Fatalf("expected idle send to be a no-op, got %v", err)
	}
	if len(stub.sentAudio) != 0 {
		t.Fatalf("expected no audio forwarded while idle, got %d chunks", len(stub.sentAudio))
	}

	capture.Toggle(context.Background())
	if err := capture.SendAudio([]byte{2}); err != nil {
		t.Fatalf("expected listening send to succeed, got %v", err)
	}
	if len(stub.sentAudio) != 1 {
		t.Fatalf("expected one audio chunk forwarded, got %d", len(stub.sentAudio))
	}
}
