package ports

import "context"

// EmailParams represents parameters for sending emails
type EmailParams struct {
	To      string
	Subject string
	Body    string
}

// Mailer defines the contract for email delivery.
// Delivery is fire-and-forget: implementations log transport failures and never report them.
type Mailer interface {
	SendEmail(ctx context.Context, params EmailParams)
}
