package ordering

import (
	"context"
	"errors"
	"testing"

	"github.com/mrdaebak/dinner-core/core/interpreter"
	"github.com/mrdaebak/dinner-core/core/order"
)

type interpreterStub struct {
	interpret func(userInput string) (*interpreter.Response, error)

	calls  int
	resets int
}

func (stub *interpreterStub) Interpret(_ context.Context, userInput string) (*interpreter.Response, error) {
	stub.calls++
	if stub.interpret != nil {
		return stub.interpret(userInput)
	}
	return &interpreter.Response{Status: interpreter.StatusContinue, Message: "noted"}, nil
}

func (stub *interpreterStub) Reset() { stub.resets++ }

func TestSendTurnRejectsEmptyUtteranceLocally(t *testing.T) {
	stub := &interpreterStub{}
	session := newConversationSession(stub, order.NewDraft())

	for _, utterance := range []string{"", "   ", "\n\t"} {
		if _, err := session.SendTurn(context.Background(), utterance); !errors.Is(err, ErrEmptyUtterance) {
			t.Fatalf("expected ErrEmptyUtterance for %q, got %v", utterance, err)
		}
	}
	if stub.calls != 0 {
		t.Fatalf("expected the interpretation service to never be contacted, got %d calls", stub.calls)
	}
}

func TestSendTurnRejectsOverlappingTurns(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	stub := &interpreterStub{
		interpret: func(string) (*interpreter.Response, error) {
			close(entered)
			<-release
			return &interpreter.Response{Status: interpreter.StatusContinue, Message: "ok"}, nil
		},
	}
	session := newConversationSession(stub, order.NewDraft())

	firstDone := make(chan error, 1)
	go func() {
		_, err := session.SendTurn(context.Background(), "one valentine dinner")
		firstDone <- err
	}()
	<-entered

	if _, err := session.SendTurn(context.Background(), "make it two"); !errors.Is(err, ErrTurnInFlight) {
		t.Fatalf("expected ErrTurnInFlight, got %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("expected the overlapping turn to be rejected locally, got %d calls", stub.calls)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("expected the first turn to complete, got %v", err)
	}
}

func TestSendTurnContinueAppendsHistory(t *testing.T) {
	stub := &interpreterStub{
		interpret: func(string) (*interpreter.Response, error) {
			return &interpreter.Response{Status: interpreter.StatusContinue, Message: "which dinner would you like?"}, nil
		},
	}
	session := newConversationSession(stub, order.NewDraft())

	outcome, err := session.SendTurn(context.Background(), "good evening")
	if err != nil {
		t.Fatalf("expected a classified outcome, got error %v", err)
	}
	reply, ok := outcome.(interpreter.Continue)
	if !ok {
		t.Fatalf("expected a Continue outcome, got %T", outcome)
	}
	if reply.Message != "which dinner would you like?" {
		t.Fatalf("unexpected reply message %q", reply.Message)
	}

	if status := session.Status(); status != SessionOpen {
		t.Fatalf("expected the session to stay OPEN, got %s", status)
	}
	history := session.History()
	if len(history) != 1 {
		t.Fatalf("expected one completed turn, got %d", len(history))
	}
	if history[0].Utterance != "good evening" || history[0].Reply != "which dinner would you like?" {
		t.Fatalf("unexpected turn recorded: %+v", history[0])
	}
	if history[0].ID == "" {
		t.Fatalf("expected the turn to carry an identifier")
	}
}

func TestSendTurnDoneReconcilesDraft(t *testing.T) {
	stub := &interpreterStub{
		interpret: func(string) (*interpreter.Response, error) {
			return &interpreter.Response{
				Status:          interpreter.StatusDone,
				Message:         "your french dinner is on its way",
				Menu:            "FRENCH",
				Style:           "GRAND",
				Items:           map[string]any{"wine": "2"},
				DeliveryAddress: "12 Gangnam-daero",
				CardNumber:      "4111",
			}, nil
		},
	}
	draft := order.NewDraft()
	draft.SetItemQuantity("steak", 3)
	session := newConversationSession(stub, draft)

	outcome, err := session.SendTurn(context.Background(), "deliver it please")
	if err != nil {
		t.Fatalf("expected a classified outcome, got error %v", err)
	}
	if _, ok := outcome.(interpreter.Done); !ok {
		t.Fatalf("expected a Done outcome, got %T", outcome)
	}

	snapshot := draft.Snapshot()
	if snapshot.Menu != order.MenuFrench {
		t.Fatalf("expected menu FRENCH, got %s", snapshot.Menu)
	}
	// Selecting a menu through a resolution never applies starter defaults,
	// so quantities set before the turn survive.
	if snapshot.Items["steak"] != 3 {
		t.Fatalf("expected pre-existing steak quantity kept, got %d", snapshot.Items["steak"])
	}
	if snapshot.Items["wine"] != 2 {
		t.Fatalf("expected wine coerced from %q to 2, got %d", "2", snapshot.Items["wine"])
	}
	if snapshot.DeliveryAddress != "12 Gangnam-daero" || snapshot.CardNumber != "4111" {
		t.Fatalf("expected delivery fields applied, got %+v", snapshot)
	}

	if status := session.Status(); status != SessionClosedSuccess {
		t.Fatalf("expected CLOSED_SUCCESS, got %s", status)
	}

	// A successful close starts a new clarification round, it does not block.
	if _, err := session.SendTurn(context.Background(), "actually add bread"); err != nil {
		t.Fatalf("expected turns to keep flowing after success, got %v", err)
	}
	if stub.calls != 2 {
		t.Fatalf("expected the follow-up turn to reach the service, got %d calls", stub.calls)
	}
}

func TestSendTurnFailureClosesSessionUntilReset(t *testing.T) {
	stub := &interpreterStub{
		interpret: func(string) (*interpreter.Response, error) {
			return nil, errors.New("service unreachable")
		},
	}
	draft := order.NewDraft()
	before := draft.Snapshot()
	session := newConversationSession(stub, draft)

	outcome, err := session.SendTurn(context.Background(), "one english dinner")
	if err != nil {
		t.Fatalf("expected the failure reported as an outcome, got error %v", err)
	}
	if _, ok := outcome.(interpreter.Failure); !ok {
		t.Fatalf("expected a Failure outcome, got %T", outcome)
	}

	after := draft.Snapshot()
	if after.Menu != before.Menu || after.Items["steak"] != before.Items["steak"] {
		t.Fatalf("expected the draft untouched by a failed turn")
	}
	if status := session.Status(); status != SessionClosedError {
		t.Fatalf("expected CLOSED_ERROR, got %s", status)
	}
	if len(session.History()) != 0 {
		t.Fatalf("expected no turn recorded for a failure, got %d", len(session.History()))
	}

	if _, err := session.SendTurn(context.Background(), "hello?"); !errors.Is(err, ErrSessionFailed) {
		t.Fatalf("expected ErrSessionFailed before reset, got %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("expected the blocked turn to be rejected locally, got %d calls", stub.calls)
	}

	if err := session.Reset(); err != nil {
		t.Fatalf("expected reset to succeed, got %v", err)
	}
	if stub.resets != 1 {
		t.Fatalf("expected the interpreter context dropped on reset, got %d", stub.resets)
	}
	if status := session.Status(); status != SessionOpen {
		t.Fatalf("expected OPEN after reset, got %s", status)
	}

	stub.interpret = nil
	if _, err := session.SendTurn(context.Background(), "one english dinner"); err != nil {
		t.Fatalf("expected turns accepted again after reset, got %v", err)
	}
}

func TestSendTurnUnknownStatusIsAFailure(t *testing.T) {
	stub := &interpreterStub{
		interpret: func(string) (*interpreter.Response, error) {
			return &interpreter.Response{Status: "MAYBE", Message: "hm"}, nil
		},
	}
	session := newConversationSession(stub, order.NewDraft())

	outcome, err := session.SendTurn(context.Background(), "one dinner")
	if err != nil {
		t.Fatalf("expected a classified outcome, got error %v", err)
	}
	if _, ok := outcome.(interpreter.Failure); !ok {
		t.Fatalf("expected an unrecognized status classified as Failure, got %T", outcome)
	}
	if status := session.Status(); status != SessionClosedError {
		t.Fatalf("expected CLOSED_ERROR, got %s", status)
	}
}

func TestSendTurnWithoutInterpreter(t *testing.T) {
	session := newConversationSession(nil, order.NewDraft())

	if _, err := session.SendTurn(context.Background(), "hello"); !errors.Is(err, ErrInterpreterUnavailable) {
		t.Fatalf("expected ErrInterpreterUnavailable, got %v", err)
	}
}
