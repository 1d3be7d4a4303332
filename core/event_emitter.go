package ordering

import events "github.com/mrdaebak/dinner-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts AssistOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.ListeningStarted:
			if opts.onListeningStateChanged != nil {
				opts.onListeningStateChanged(true)
			}
		case events.ListeningStopped:
			if opts.onListeningStateChanged != nil {
				opts.onListeningStateChanged(false)
			}
		case events.UserTranscriptInterimUpdated:
			if opts.onInterimTranscription != nil {
				opts.onInterimTranscription(typedEvent.Transcript)
			}
		case events.UtteranceCaptured:
			if opts.onUtterance != nil {
				opts.onUtterance(typedEvent.Utterance)
			}
		case events.AssistantReplied:
			if opts.onReply != nil {
				opts.onReply(typedEvent.Message)
			}
		case events.OrderResolved:
			if opts.onOrderResolved != nil {
				opts.onOrderResolved(typedEvent.Message, typedEvent.Order)
			}
		case events.TurnFailed:
			if opts.onTurnFailed != nil {
				opts.onTurnFailed(typedEvent.Message)
			}
		case events.MenuSelected:
			if opts.onMenuSelected != nil {
				opts.onMenuSelected(typedEvent.Menu, typedEvent.DefaultsApplied)
			}
		}
	}
}
