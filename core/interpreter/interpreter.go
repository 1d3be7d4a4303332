// Package interpreter defines the contract with the remote interpretation
// service that turns free-form utterances into structured order deltas.
//
// The service's loosely typed response is validated into a tagged Outcome
// exactly once, at this boundary. Downstream reconciliation logic only ever
// sees the typed variants.
package interpreter

import (
	"context"
	"strings"

	"github.com/mrdaebak/dinner-core/core/order"
)

// Statuses the service may report on a turn.
const (
	StatusContinue = "CONTINUE"
	StatusDone     = "DONE"
)

// Response is the raw wire payload returned by the interpretation service
// for one turn.
//
// Only Message is meaningful on a CONTINUE status; the remaining fields form
// the order delta on a DONE status. Any other status is terminal and carries
// diagnostic text in Message.
type Response struct {
	Status          string         `json:"status"`
	Message         string         `json:"message,omitempty"`
	Menu            string         `json:"menu,omitempty"`
	Style           string         `json:"style,omitempty"`
	Items           map[string]any `json:"items,omitempty"`
	DeliveryAddress string         `json:"deliveryAddress,omitempty"`
	CardNumber      string         `json:"cardNumber,omitempty"`
}

// Interpreter is the client-side contract of the interpretation service.
//
// Implementations own whatever conversation context the service needs across
// turns; callers only supply the user's utterance.
type Interpreter interface {
	Interpret(ctx context.Context, userInput string) (*Response, error)
}

// Outcome is the validated classification of one service exchange.
type Outcome interface{ isOutcome() }

// Continue reports an unresolved conversation: the service needs another
// clarification turn and Message carries its reply.
type Continue struct {
	Message string
}

// Done reports a resolved conversation round. Delta holds the structured
// order changes and is consumed exactly once by the reconciler.
type Done struct {
	Message string
	Delta   order.Delta
}

// Failure reports a terminal service error, either signalled by the service
// itself or raised at the transport or parsing layer. The order draft must
// not be modified on a Failure.
type Failure struct {
	Message string
}

func (Continue) isOutcome() {}
func (Done) isOutcome()     {}
func (Failure) isOutcome()  {}

// Classify validates a raw service response into exactly one Outcome.
// Status matching is case-insensitive; anything that is not CONTINUE or DONE
// is a Failure.
func Classify(response *Response) Outcome {
	if response == nil {
		return Failure{Message: "empty response from interpretation service"}
	}

	switch {
	case strings.EqualFold(response.Status, StatusContinue):
		return Continue{Message: response.Message}

	case strings.EqualFold(response.Status, StatusDone):
		return Done{
			Message: response.Message,
			Delta: order.Delta{
				Menu:            response.Menu,
				Style:           response.Style,
				Items:           response.Items,
				DeliveryAddress: response.DeliveryAddress,
				CardNumber:      response.CardNumber,
			},
		}

	default:
		message := response.Message
		if message == "" {
			message = "interpretation service returned unknown status " + strings.TrimSpace(response.Status)
		}
		return Failure{Message: message}
	}
}
