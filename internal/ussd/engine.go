package ussd

import (
	"context"
	"fmt"
	"log"
	"time"
)

// maxChoiceItems caps menu length; USSD screens cannot page past single digits
const maxChoiceItems = 9

// defaultPaymentTimeout bounds the synchronous payment-initiation call so a
// hung downstream cannot hold the aggregator request open indefinitely
const defaultPaymentTimeout = 15 * time.Second

// maxChainedSteps bounds handler-to-handler continuation within one request
const maxChainedSteps = 4

// Dependencies are the collaborators the step handlers call out to
type Dependencies struct {
	Sessions     SessionStore
	Members      MemberDirectory
	PINs         PINVerifier
	Cooperatives CooperativeDirectory
	PaymentTypes PaymentTypeDirectory
	Payments     PaymentInitiator
	History      PaymentHistory
}

// StepHandler processes one conversation state. Handlers mutate the session
// they are given and return a structured outcome; expected validation
// failures are reprompts, never errors. An error return means a collaborator
// failed and is handled only at the gateway boundary.
type StepHandler interface {
	Handle(ctx context.Context, session *Session, input string) (StepResult, error)
}

// StepResult is a handler's structured outcome
type StepResult struct {
	Message string
	State   SessionState

	// Continue requests an immediate dispatch to the (updated) current step
	// with empty input, so e.g. a successful PIN entry renders the next menu
	// in the same response. Message and State are ignored when set.
	Continue bool
}

// Response is what goes back to the aggregator
type Response struct {
	Message string       `json:"message"`
	State   SessionState `json:"sessionState"`
}

// Engine owns the transition table: it dispatches each request to the handler
// for the session's current step and persists the outcome.
type Engine struct {
	sessions       SessionStore
	sessionTTL     time.Duration
	paymentTimeout time.Duration
	handlers       map[Step]StepHandler
}

// NewEngine creates the conversation engine with the default TTL and timeout
func NewEngine(deps Dependencies) *Engine {
	e := &Engine{
		sessions:       deps.Sessions,
		sessionTTL:     DefaultSessionTTL,
		paymentTimeout: defaultPaymentTimeout,
	}
	e.handlers = map[Step]StepHandler{
		StepWelcome:           &welcomeStep{members: deps.Members},
		StepMainMenu:          &mainMenuStep{},
		StepAuthPIN:           &authPINStep{members: deps.Members, pins: deps.PINs},
		StepSelectCooperative: &selectCooperativeStep{cooperatives: deps.Cooperatives},
		StepSelectPaymentType: &selectPaymentTypeStep{paymentTypes: deps.PaymentTypes},
		StepConfirmPayment:    &confirmPaymentStep{},
		StepProcessPayment:    &processPaymentStep{payments: deps.Payments, timeout: e.paymentTimeout},
		StepViewPayments:      &viewPaymentsStep{history: deps.History},
		StepHelpMenu:          &helpMenuStep{},
	}
	return e
}

// SessionTTL returns the idle TTL applied on every save
func (e *Engine) SessionTTL() time.Duration {
	return e.sessionTTL
}

// SetSessionTTL overrides the idle TTL (call before serving traffic)
func (e *Engine) SetSessionTTL(ttl time.Duration) {
	if ttl > 0 {
		e.sessionTTL = ttl
	}
}

// Handle runs exactly one load -> dispatch -> save|delete cycle.
// An unknown session ID is, by definition, a brand-new conversation.
func (e *Engine) Handle(ctx context.Context, sessionID, phoneNumber, text string) (*Response, error) {
	session, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if session == nil {
		session = NewSession(sessionID, phoneNumber)
	}

	// A stored step outside the transition table means a corrupt record;
	// reset to a fresh conversation rather than erroring
	if _, known := e.handlers[session.CurrentStep]; !known {
		log.Printf("ussd: session %s has unknown step %q, restarting conversation", sessionID, session.CurrentStep)
		session = NewSession(sessionID, phoneNumber)
	}

	session.InputHistory = append(session.InputHistory, text)

	input := text
	var result StepResult
	for i := 0; ; i++ {
		handler := e.handlers[session.CurrentStep]
		result, err = handler.Handle(ctx, session, input)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", session.CurrentStep, err)
		}
		if !result.Continue {
			break
		}
		if i >= maxChainedSteps {
			return nil, fmt.Errorf("step %s: continuation loop exceeded %d steps", session.CurrentStep, maxChainedSteps)
		}
		input = ""
	}

	if result.State == StateEnd {
		// Terminal response destroys the session; a retry with the same
		// session ID starts over at WELCOME instead of replaying
		if err := e.sessions.Delete(ctx, sessionID); err != nil {
			log.Printf("ussd: failed to delete session %s after terminal response: %v", sessionID, err)
		}
	} else {
		session.LastActivity = time.Now()
		if err := e.sessions.Save(ctx, session, e.sessionTTL); err != nil {
			return nil, fmt.Errorf("save session %s: %w", sessionID, err)
		}
	}

	return &Response{Message: result.Message, State: result.State}, nil
}

// Reset force-deletes a session; the gateway calls this after any failure so
// no conversation is ever left stuck mid-flow.
func (e *Engine) Reset(ctx context.Context, sessionID string) {
	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		log.Printf("ussd: failed to force-delete session %s: %v", sessionID, err)
	}
}
