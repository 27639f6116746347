package email

import "fmt"

// Minimal inline templates. A real template directory is overkill for the
// three transactional emails this service sends.

func PaymentReceipt(orderTitle string, amount float64, currency string) (subject, body string) {
	subject = "Payment received: funds held in escrow"
	body = fmt.Sprintf(
		`<p>Your payment of <b>%.2f %s</b> for <b>%s</b> was received.</p>
<p>The funds are held in escrow and will be released to the editor once you accept the delivery.</p>`,
		amount, currency, orderTitle)
	return subject, body
}

func EscrowReleased(orderTitle string, amount float64, currency string) (subject, body string) {
	subject = "Escrow released"
	body = fmt.Sprintf(
		`<p>The escrow of <b>%.2f %s</b> for <b>%s</b> has been released to your account.</p>`,
		amount, currency, orderTitle)
	return subject, body
}

func KYCDecision(verified bool, reason string) (subject, body string) {
	if verified {
		return "KYC verified", "<p>Your KYC verification is complete. Payouts are now enabled.</p>"
	}
	return "KYC rejected", fmt.Sprintf("<p>Your KYC submission was rejected: %s</p>", reason)
}
