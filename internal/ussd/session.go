package ussd

import (
	"strconv"
	"time"
)

// Step identifies the conversation state a session is in
type Step string

const (
	StepWelcome           Step = "WELCOME"
	StepMainMenu          Step = "MAIN_MENU"
	StepAuthPIN           Step = "AUTH_PIN"
	StepSelectCooperative Step = "SELECT_COOPERATIVE"
	StepSelectPaymentType Step = "SELECT_PAYMENT_TYPE"
	StepConfirmPayment    Step = "CONFIRM_PAYMENT"
	StepProcessPayment    Step = "PROCESS_PAYMENT"
	StepViewPayments      Step = "VIEW_PAYMENTS"
	StepHelpMenu          Step = "HELP_MENU"
)

// SessionState is the protocol marker sent back to the aggregator
type SessionState string

const (
	StateContinue SessionState = "CON" // keep the session open, prompt for more input
	StateEnd      SessionState = "END" // conversation over, message is final
)

// DefaultSessionTTL is the idle timeout after which a stored session is discarded
const DefaultSessionTTL = 5 * time.Minute

// Session is the only stateful entity of a USSD conversation.
// It is serialized whole into the session store on every save.
type Session struct {
	SessionID     string    `json:"session_id"`   // aggregator-assigned, unique per conversation
	PhoneNumber   string    `json:"phone_number"` // E.164, immutable once set
	CurrentStep   Step      `json:"current_step"`
	InputHistory  []string  `json:"input_history"` // every raw input, append-only
	Scratch       StepData  `json:"scratch"`
	MemberID      string    `json:"member_id,omitempty"`
	CooperativeID string    `json:"cooperative_id,omitempty"`
	StartTime     time.Time `json:"start_time"`
	LastActivity  time.Time `json:"last_activity"`
}

// NewSession creates a fresh WELCOME session for an unknown session ID
func NewSession(sessionID, phoneNumber string) *Session {
	now := time.Now()
	return &Session{
		SessionID:    sessionID,
		PhoneNumber:  phoneNumber,
		CurrentStep:  StepWelcome,
		StartTime:    now,
		LastActivity: now,
	}
}

// StepData carries cross-step working data. One variant per step that needs
// carried data; a variant is cleared as soon as its step resolves.
type StepData struct {
	CooperativeMenu *ChoiceSnapshot `json:"cooperative_menu,omitempty"`  // SELECT_COOPERATIVE
	PaymentTypeMenu *ChoiceSnapshot `json:"payment_type_menu,omitempty"` // SELECT_PAYMENT_TYPE
	PendingPayment  *PaymentChoice  `json:"pending_payment,omitempty"`   // CONFIRM/PROCESS_PAYMENT
}

// ChoiceItem is one entry of a rendered numbered menu
type ChoiceItem struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount,omitempty"`
}

// ChoiceSnapshot is the ordered list of candidates captured when a menu was
// rendered. A later numeric choice resolves against this exact list, never
// against a fresh directory query, so the user always gets what they saw.
type ChoiceSnapshot struct {
	Items []ChoiceItem `json:"items"`
}

// Resolve maps a 1-based menu input onto the snapshot.
// Returns false for non-integer or out-of-range input.
func (s *ChoiceSnapshot) Resolve(input string) (*ChoiceItem, bool) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(s.Items) {
		return nil, false
	}
	return &s.Items[n-1], true
}

// PaymentChoice is the payment type the member picked, carried from selection
// through confirmation to processing.
type PaymentChoice struct {
	PaymentTypeID string  `json:"payment_type_id"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
}
