package ussd

import (
	"fmt"
	"strings"
)

// Screen text builders. USSD displays are tiny (~160 chars), keep lines short.

const (
	msgPINPrompt     = "Enter your 4-digit PIN:"
	msgRejection     = "Sorry, we could not find an active account for this number. Please contact your cooperative to register."
	msgCancelled     = "Payment cancelled. Thank you for using Copay."
	msgSessionLost   = "Your session has expired. Please dial again."
	msgNoCoops       = "No cooperatives are available right now. Please try again later."
	msgNoTypes       = "Your cooperative has no payments due right now."
	msgNoPayments    = "You have no payments yet."
	msgPaymentFailed = "Your payment could not be processed. No money has been taken. Please try again later."
	msgHelp          = "Copay Help\nPay your cooperative contributions from this menu.\nSupport: call 8555 or visit your cooperative office."
)

func mainMenuText(name string) string {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "Welcome to Copay, %s!\n", name)
	} else {
		b.WriteString("Welcome to Copay!\n")
	}
	b.WriteString("1. Make Payment\n")
	b.WriteString("2. View Payments\n")
	b.WriteString("3. Help")
	return b.String()
}

func cooperativeMenuText(snapshot *ChoiceSnapshot) string {
	var b strings.Builder
	b.WriteString("Select your cooperative:\n")
	for i, item := range snapshot.Items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Label)
	}
	b.WriteString("Reply with a number.")
	return b.String()
}

func paymentTypeMenuText(snapshot *ChoiceSnapshot) string {
	var b strings.Builder
	b.WriteString("Select payment:\n")
	for i, item := range snapshot.Items {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, item.Label, formatAmount(item.Amount))
	}
	b.WriteString("Reply with a number.")
	return b.String()
}

func confirmText(choice *PaymentChoice) string {
	return fmt.Sprintf("Confirm payment\n%s\nAmount: %s\nReply Y to confirm or N to cancel.",
		choice.Name, formatAmount(choice.Amount))
}

func paymentCompletedText(res *PaymentResult) string {
	return fmt.Sprintf("Payment of %s received.\nRef: %s\nThank you!",
		formatAmount(res.Amount), res.ID)
}

func paymentPendingText(res *PaymentResult) string {
	return fmt.Sprintf("Your payment of %s is being processed.\nRef: %s\nYou will get a confirmation SMS shortly.",
		formatAmount(res.Amount), res.ID)
}

func paymentHistoryText(records []PaymentRecord) string {
	var b strings.Builder
	b.WriteString("Your recent payments:\n")
	for i, rec := range records {
		fmt.Fprintf(&b, "%d. %s %s (%s) %s\n",
			i+1, rec.TypeName, formatAmount(rec.Amount), rec.Status, rec.Date.Format("02 Jan"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("RWF %.0f", amount)
}
