package ussd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// welcomeStep opens every conversation: it authenticates the phone number
// against the member directory and shows the main menu.
type welcomeStep struct {
	members MemberDirectory
}

func (s *welcomeStep) Handle(ctx context.Context, session *Session, input string) (StepResult, error) {
	member, err := s.members.FindByPhone(ctx, session.PhoneNumber)
	if err != nil {
		return StepResult{}, fmt.Errorf("member lookup: %w", err)
	}
	if member == nil || member.Status != "active" {
		// Deliberately generic: the channel must not reveal whether the
		// number is unknown, pending or suspended
		return StepResult{Message: msgRejection, State: StateEnd}, nil
	}

	session.MemberID = member.ID
	session.CooperativeID = member.CooperativeID
	session.CurrentStep = StepMainMenu

	return StepResult{Message: mainMenuText(member.Name), State: StateContinue}, nil
}

// mainMenuStep routes the three top-level choices
type mainMenuStep struct{}

func (s *mainMenuStep) Handle(ctx context.Context, session *Session, input string) (StepResult, error) {
	switch input {
	case "1":
		session.CurrentStep = StepAuthPIN
		return StepResult{Message: msgPINPrompt, State: StateContinue}, nil
	case "2":
		session.CurrentStep = StepViewPayments
		return StepResult{Continue: true}, nil
	case "3":
		session.CurrentStep = StepHelpMenu
		return StepResult{Continue: true}, nil
	default:
		return StepResult{
			Message: "Invalid choice.\n" + mainMenuText(""),
			State:   StateContinue,
		}, nil
	}
}

// authPINStep verifies the member's 4-digit PIN before any payment flow
type authPINStep struct {
	members MemberDirectory
	pins    PINVerifier
}

func (s *authPINStep) Handle(ctx context.Context, session *Session, input string) (StepResult, error) {
	if !isPIN(input) {
		return StepResult{
			Message: "PIN must be exactly 4 digits.\n" + msgPINPrompt,
			State:   StateContinue,
		}, nil
	}

	member, err := s.members.FindByPhone(ctx, session.PhoneNumber)
	if err != nil {
		return StepResult{}, fmt.Errorf("member lookup: %w", err)
	}
	if member == nil {
		// Account vanished mid-conversation
		return StepResult{Message: msgRejection, State: StateEnd}, nil
	}

	if !s.pins.Verify(member.HashedPIN, input) {
		return StepResult{
			Message: "Incorrect PIN.\n" + msgPINPrompt,
			State:   StateContinue,
		}, nil
	}

	if session.CooperativeID == "" {
		session.CurrentStep = StepSelectCooperative
	} else {
		session.CurrentStep = StepSelectPaymentType
	}
	return StepResult{Continue: true}, nil
}

// selectCooperativeStep lists cooperatives on first entry and resolves the
// member's numbered choice against that exact snapshot on the next request.
type selectCooperativeStep struct {
	cooperatives CooperativeDirectory
}

func (s *selectCooperativeStep) Handle(ctx context.Context, session *Session, input string) (StepResult, error) {
	if session.Scratch.CooperativeMenu == nil {
		coops, err := s.cooperatives.ListActive(ctx, maxChoiceItems)
		if err != nil {
			return StepResult{}, fmt.Errorf("list cooperatives: %w", err)
		}
		if len(coops) == 0 {
			return StepResult{Message: msgNoCoops, State: StateEnd}, nil
		}

		snapshot := &ChoiceSnapshot{}
		for _, coop := range coops {
			snapshot.Items = append(snapshot.Items, ChoiceItem{
				ID:    coop.ID,
				Label: fmt.Sprintf("%s (%s)", coop.Name, coop.Code),
			})
		}
		session.Scratch.CooperativeMenu = snapshot

		return StepResult{Message: cooperativeMenuText(snapshot), State: StateContinue}, nil
	}

	// Resolve against the stored snapshot, never a fresh query: the
	// directory may have changed since the menu was rendered
	item, ok := session.Scratch.CooperativeMenu.Resolve(input)
	if !ok {
		return StepResult{
			Message: "Invalid selection.\n" + cooperativeMenuText(session.Scratch.CooperativeMenu),
			State:   StateContinue,
		}, nil
	}

	session.CooperativeID = item.ID
	session.Scratch.CooperativeMenu = nil
	session.CurrentStep = StepSelectPaymentType
	return StepResult{Continue: true}, nil
}

// selectPaymentTypeStep works the same two-phase snapshot pattern over the
// bound cooperative's contribution types.
type selectPaymentTypeStep struct {
	paymentTypes PaymentTypeDirectory
}

func (s *selectPaymentTypeStep) Handle(ctx context.Context, session *Session, input string) (StepResult, error) {
	if session.Scratch.PaymentTypeMenu == nil {
		types, err := s.paymentTypes.ListActive(ctx, session.CooperativeID, maxChoiceItems)
		if err != nil {
			return StepResult{}, fmt.Errorf("list payment types: %w", err)
		}
		if len(types) == 0 {
			return StepResult{Message: msgNoTypes, State: StateEnd}, nil
		}

		snapshot := &ChoiceSnapshot{}
		for _, pt := range types {
			snapshot.Items = append(snapshot.Items, ChoiceItem{
				ID:     pt.ID,
				Label:  pt.Name,
				Amount: pt.Amount,
			})
		}
		session.Scratch.PaymentTypeMenu = snapshot

		return StepResult{Message: paymentTypeMenuText(snapshot), State: StateContinue}, nil
	}

	item, ok := session.Scratch.PaymentTypeMenu.Resolve(input)
	if !ok {
		return StepResult{
			Message: "Invalid selection.\n" + paymentTypeMenuText(session.Scratch.PaymentTypeMenu),
			State:   StateContinue,
		}, nil
	}

	session.Scratch.PendingPayment = &PaymentChoice{
		PaymentTypeID: item.ID,
		Name:          item.Label,
		Amount:        item.Amount,
	}
	session.Scratch.PaymentTypeMenu = nil
	session.CurrentStep = StepConfirmPayment
	return StepResult{Continue: true}, nil
}

// confirmPaymentStep shows the confirmation screen and reads Y/N
type confirmPaymentStep struct{}

func (s *confirmPaymentStep) Handle(ctx context.Context, session *Session, input string) (StepResult, error) {
	choice := session.Scratch.PendingPayment
	if choice == nil {
		return StepResult{Message: msgSessionLost, State: StateEnd}, nil
	}

	switch {
	case isYes(input):
		session.CurrentStep = StepProcessPayment
		return StepResult{Continue: true}, nil
	case isNo(input):
		return StepResult{Message: msgCancelled, State: StateEnd}, nil
	case input == "":
		// First entry after selection
		return StepResult{Message: confirmText(choice), State: StateContinue}, nil
	default:
		return StepResult{
			Message: "Invalid choice.\n" + confirmText(choice),
			State:   StateContinue,
		}, nil
	}
}

// processPaymentStep triggers the payment side effect, bounded by a timeout,
// and maps the returned status to one of three terminal messages. The
// idempotency key, not session state, is what prevents a double charge when
// the aggregator retries.
type processPaymentStep struct {
	payments PaymentInitiator
	timeout  time.Duration
}

func (s *processPaymentStep) Handle(ctx context.Context, session *Session, input string) (StepResult, error) {
	choice := session.Scratch.PendingPayment
	if choice == nil {
		return StepResult{Message: msgSessionLost, State: StateEnd}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.payments.Initiate(ctx, InitiateRequest{
		IdempotencyKey: PaymentIdempotencyKey(session.SessionID, time.Now()),
		MemberID:       session.MemberID,
		CooperativeID:  session.CooperativeID,
		PaymentTypeID:  choice.PaymentTypeID,
		Channel:        "USSD",
	})
	if err != nil {
		return StepResult{}, fmt.Errorf("initiate payment: %w", err)
	}

	switch result.Status {
	case "completed":
		return StepResult{Message: paymentCompletedText(result), State: StateEnd}, nil
	case "pending":
		return StepResult{Message: paymentPendingText(result), State: StateEnd}, nil
	default:
		return StepResult{Message: msgPaymentFailed, State: StateEnd}, nil
	}
}

// viewPaymentsStep is a single read-only history query, always terminal
type viewPaymentsStep struct {
	history PaymentHistory
}

func (s *viewPaymentsStep) Handle(ctx context.Context, session *Session, input string) (StepResult, error) {
	records, err := s.history.Recent(ctx, session.MemberID, session.CooperativeID, 5)
	if err != nil {
		return StepResult{}, fmt.Errorf("payment history: %w", err)
	}
	if len(records) == 0 {
		return StepResult{Message: msgNoPayments, State: StateEnd}, nil
	}
	return StepResult{Message: paymentHistoryText(records), State: StateEnd}, nil
}

// helpMenuStep shows static help text, always terminal
type helpMenuStep struct{}

func (s *helpMenuStep) Handle(ctx context.Context, session *Session, input string) (StepResult, error) {
	return StepResult{Message: msgHelp, State: StateEnd}, nil
}

// PaymentIdempotencyKey derives a deterministic key from the session ID and
// the UTC day, so retries within the same conversation dedupe downstream.
// Aggregator session IDs are unique per conversation, which keeps the key
// unique across conversations.
func PaymentIdempotencyKey(sessionID string, at time.Time) string {
	sum := sha256.Sum256([]byte(sessionID + "|" + at.UTC().Format("2006-01-02")))
	return "ussd-" + hex.EncodeToString(sum[:16])
}
