package domain

import "context"

// RouteStore persists the route list for the domain.
type RouteStore interface {
	Routes(ctx context.Context) ([]Route, error)
	PutRoutes(ctx context.Context, routes []Route) error
}

// RecipientStore persists the recipient relations for the domain.
type RecipientStore interface {
	Recipients(ctx context.Context) (RecipientRelations, error)
	PutRecipients(ctx context.Context, recipients RecipientRelations) error
}

// MessageStore retrieves raw inbound messages by message ID.
type MessageStore interface {
	Message(ctx context.Context, messageID string) ([]byte, error)
}

// Mailer is how we talk to the mail backend (SES).
type Mailer interface {
	// VerifyEmailIdentity asks the backend to send a verification mail to
	// the given address.
	VerifyEmailIdentity(ctx context.Context, address string) error

	// VerifiedAddresses returns the email addresses that may be used as
	// forward targets or reply senders.
	VerifiedAddresses(ctx context.Context) ([]string, error)

	// SendRawEmail submits a raw RFC 5322 message.
	SendRawEmail(ctx context.Context, source string, destinations []string, raw []byte) error
}
