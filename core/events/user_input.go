package events

// KindListeningStarted identifies the start of utterance capture.
const KindListeningStarted Kind = "user_input.listening_started"

// ListeningStarted marks the capture state machine entering LISTENING.
type ListeningStarted struct{ Base }

// NewListeningStarted creates a listening started event.
func NewListeningStarted() ListeningStarted {
	return ListeningStarted{Base: NewBase(KindListeningStarted)}
}

// KindListeningStopped identifies the end of utterance capture.
const KindListeningStopped Kind = "user_input.listening_stopped"

// ListeningStopped marks the capture state machine returning to IDLE.
type ListeningStopped struct{ Base }

// NewListeningStopped creates a listening stopped event.
func NewListeningStopped() ListeningStopped {
	return ListeningStopped{Base: NewBase(KindListeningStopped)}
}

// KindUserTranscriptInterimUpdated identifies a mutable interim transcript
// snapshot.
const KindUserTranscriptInterimUpdated Kind = "user_input.transcript_interim_updated"

// UserTranscriptInterimUpdated carries the latest interim transcript while
// the user is still speaking. An empty transcript clears the interim state.
type UserTranscriptInterimUpdated struct {
	Base
	Transcript string
}

// NewUserTranscriptInterimUpdated creates an interim transcript event.
func NewUserTranscriptInterimUpdated(transcript string) UserTranscriptInterimUpdated {
	return UserTranscriptInterimUpdated{Base: NewBase(KindUserTranscriptInterimUpdated), Transcript: transcript}
}

// KindUserTranscriptFinal identifies the terminal transcript for an
// utterance.
const KindUserTranscriptFinal Kind = "user_input.transcript_final"

// UserTranscriptFinal carries the final transcript reported by the utterance
// source.
type UserTranscriptFinal struct {
	Base
	Transcript string
}

// NewUserTranscriptFinal creates a final transcript event.
func NewUserTranscriptFinal(transcript string) UserTranscriptFinal {
	return UserTranscriptFinal{Base: NewBase(KindUserTranscriptFinal), Transcript: transcript}
}

// KindUtteranceCaptured identifies the finalized utterance for one user turn.
const KindUtteranceCaptured Kind = "user_input.utterance_captured"

// UtteranceCaptured carries the single finalized utterance produced when
// listening stops, falling back to the last interim transcript when no final
// transcript arrived. The utterance may be empty.
type UtteranceCaptured struct {
	Base
	Utterance string
}

// NewUtteranceCaptured creates an utterance captured event.
func NewUtteranceCaptured(utterance string) UtteranceCaptured {
	return UtteranceCaptured{Base: NewBase(KindUtteranceCaptured), Utterance: utterance}
}
