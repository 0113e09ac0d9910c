package usecase

import (
	"fmt"
	"strings"
	"time"

	"fraud-alert-agent/internal/domain"
)

const (
	bankName = "SecureBank"

	promptAskName          = "Could you please tell me your full name so I can look up your case?"
	promptLoadCaseFirst    = "I need to load your case information first. Could you please tell me your name?"
	promptAskQuestionFirst = "I need to ask your security question first."
	promptAlreadyVerified  = "You've already been verified. Let me proceed with the transaction details."
	promptVerifyFirst      = "I need to complete identity verification before sharing transaction details."
	promptClearYesNo       = "I need a clear yes or no answer. Did you make this transaction for %s?"
	promptAlreadyRecorded  = "This case has already been updated. Is there anything else I can help you with?"
	promptCallBackLater    = "I'm having trouble accessing our fraud database right now. Please call back in a few minutes."
	promptVerificationLock = "I'm sorry, but I cannot proceed with this call. For your security, please visit your nearest branch with proper identification."

	outcomeNoteSafe  = "customer confirmed transaction as legitimate"
	outcomeNoteFraud = "customer denied transaction — fraudulent activity confirmed"

	spokenTimeLayout = "Monday, January 02 at 03:04 PM"
)

func caseLoadedReply(name string) string {
	return fmt.Sprintf("Thank you %s. I have your account information here. For security purposes, I need to verify your identity before we proceed.", name)
}

func caseNotFoundPrompt(name string) string {
	return fmt.Sprintf("I don't see any pending fraud alerts for %s. Could you please double-check the name you provided?", name)
}

func securityQuestionReply(question string) string {
	return "For verification, please answer this security question: " + question
}

func questionPendingPrompt(question string) string {
	return "Verification is already in progress. Your security question is: " + question
}

func verificationPassedReply() string {
	return "Thank you for verifying your identity. Now, let me tell you about the suspicious transaction we detected on your account."
}

func verificationFailedReply() string {
	return "I'm sorry, but that doesn't match our records. For your security, I cannot proceed with this call. Please visit your nearest branch with proper identification."
}

// spokenTime renders an ISO-8601 timestamp for reading aloud. Unparseable
// values are returned as stored.
func spokenTime(raw string) string {
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return ts.Format(spokenTimeLayout)
}

func transactionReadout(fc domain.Case) string {
	tx := fc.Transaction
	return strings.Join([]string{
		"Here are the details of the suspicious transaction:",
		fmt.Sprintf("Transaction: %s charged to your card ending in %s", tx.Amount, fc.CardSuffix),
		"Merchant: " + tx.Merchant,
		"Category: " + tx.Category,
		"Location: " + tx.Location,
		"Time: " + spokenTime(tx.Time),
		"Source: " + tx.Source,
		"",
		"Did you make this purchase? Please answer yes if you made this transaction, or no if you did not.",
	}, "\n")
}

func confirmedSafeReply(fc domain.Case) string {
	return strings.Join([]string{
		"Perfect! I've marked this transaction as legitimate in our system.",
		fmt.Sprintf("Your card ending in %s remains active and secure. Thank you for helping us keep your account safe.", fc.CardSuffix),
		"If you have any questions or see any other suspicious activity, please don't hesitate to call us immediately.",
	}, "\n")
}

func confirmedFraudReply(fc domain.Case) string {
	return strings.Join([]string{
		"I understand. I've immediately flagged this as fraudulent activity and taken the following actions:",
		fmt.Sprintf("1. Your card ending in %s has been temporarily blocked to prevent further unauthorized charges", fc.CardSuffix),
		"2. This transaction will be reversed within 3-5 business days",
		"3. We'll mail you a replacement card within 2-3 business days",
		"4. A fraud dispute case has been opened",
		"You should monitor your account closely and report any other suspicious activity immediately.",
	}, "\n")
}

func closingReply(sess *domain.Session) string {
	if !sess.Bound() || !sess.Case.Status.Confirmed() {
		return fmt.Sprintf("Thank you for calling %s's Fraud Prevention Department. Stay safe!", bankName)
	}
	return strings.Join([]string{
		fmt.Sprintf("Thank you for your time today, %s. Your case has been updated and all necessary actions have been taken.", displayName(*sess.Case)),
		"Remember to keep your account information secure, never share your PIN or passwords, contact us immediately if you notice any suspicious activity, and monitor your statements regularly.",
		fmt.Sprintf("Have a great day and thank you for banking with %s!", bankName),
	}, "\n")
}

func displayName(fc domain.Case) string {
	if name := strings.TrimSpace(fc.CustomerName); name != "" {
		return name
	}
	return fc.CustomerKey
}
