// Package speechtotext defines the provider-neutral transcription contract
// consumed by the utterance capture layer.
package speechtotext

// TranscriptionOptions configure one transcription stream. Every transcript
// update is tagged either interim (mutable snapshot) or final (terminal for
// the utterance) through the corresponding callback.
type TranscriptionOptions struct {
	// InterimTranscriptionCallback receives the latest interim transcript
	// while the user is still speaking.
	InterimTranscriptionCallback func(transcript string)
	// TranscriptionCallback receives a final transcript once the recognizer
	// settles on it.
	TranscriptionCallback func(transcript string)

	SpeechStartedCallback func()
	SpeechEndedCallback   func()

	// ListeningEndedCallback fires when the recognizer stops delivering
	// transcript events on its own, without a stop request from the caller.
	ListeningEndedCallback func()

	// Language is the spoken-language locale the recognizer should expect.
	Language string

	// Encoding and SampleRate describe the audio pushed through SendAudio.
	Encoding   string
	SampleRate int
}

type TranscriptionOption func(*TranscriptionOptions)

func WithInterimTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.InterimTranscriptionCallback = callback
	}
}

func WithTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.TranscriptionCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithSpeechEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechEndedCallback = callback
	}
}

func WithListeningEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ListeningEndedCallback = callback
	}
}

func WithLanguage(language string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Language = language
	}
}

func WithEncoding(encoding string, sampleRate int) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Encoding = encoding
		o.SampleRate = sampleRate
	}
}
