package relay

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lampions/internal/address"
	"lampions/internal/domain"
	"lampions/internal/services/recipients"
)

// Headers that must not survive forwarding.
var unwantedHeaders = []string{
	// Return-Path addresses must be verified in SES, which we only have
	// control over when sending reply mails.
	"Return-Path",
	// Preexisting DKIM signatures trigger 'InvalidParameterValue' errors
	// in the 'SendRawEmail' endpoint.
	"DKIM-Signature",
	// We don't distinguish between 'From' and 'Sender' headers.
	"Sender",
	// The 'From' header always doubles as 'Reply-To', so drop the latter.
	"Reply-To",
	// On the reply path these two leak the original sender address.
	"Received-SPF",
	"Authentication-Results",
}

// Result describes how a message was handled.
type Result struct {
	DeliveryID  string
	Path        string // "forward" or "reply"
	Alias       string
	Destination string
}

// Forwarder runs the rewrite-and-send pipeline for inbound messages.
type Forwarder struct {
	messages   domain.MessageStore
	routes     domain.RouteStore
	recipients *recipients.Service
	mailer     domain.Mailer
	domain     string
	log        zerolog.Logger
}

// NewForwarder wires a forwarder for mailDomain.
func NewForwarder(
	messages domain.MessageStore,
	routes domain.RouteStore,
	recipientSvc *recipients.Service,
	mailer domain.Mailer,
	mailDomain string,
	logger zerolog.Logger,
) *Forwarder {
	return &Forwarder{
		messages:   messages,
		routes:     routes,
		recipients: recipientSvc,
		mailer:     mailer,
		domain:     mailDomain,
		log:        logger,
	}
}

// HandleMessage fetches the stored message and forwards or replies.
func (f *Forwarder) HandleMessage(ctx context.Context, messageID string) (Result, error) {
	result := Result{DeliveryID: uuid.NewString()}
	logger := f.log.With().
		Str("delivery_id", result.DeliveryID).
		Str("message_id", messageID).
		Logger()

	raw, err := f.messages.Message(ctx, messageID)
	if err != nil {
		return result, err
	}

	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return result, fmt.Errorf("parse message %q: %w", messageID, err)
	}

	originalFrom := entity.Header.Get("From")
	replyTo := entity.Header.Get("Reply-To")
	if replyTo == "" {
		replyTo = originalFrom
	}
	toRecipients, err := parseAddressList(entity.Header.Get("To"))
	if err != nil || len(toRecipients) == 0 {
		return result, fmt.Errorf("message %q has no parsable recipients", messageID)
	}

	for _, header := range unwantedHeaders {
		entity.Header.Del(header)
	}

	originName, originAddr := splitAddress(replyTo)

	verified, err := f.mailer.VerifiedAddresses(ctx)
	if err != nil {
		return result, err
	}

	var sender string
	var destinations []string

	replyRecipient := f.replyRecipient(toRecipients)
	if replyRecipient != "" && containsFold(verified, originAddr) {
		// Reply from one of our verified addresses to a correspondent.
		alias, hash, err := address.ParseReply(replyRecipient, f.domain)
		if err != nil {
			return result, err
		}
		correspondent, err := f.recipients.Lookup(ctx, alias, hash)
		if err != nil {
			return result, err
		}
		sender = formatAddress(originName, alias+"@"+f.domain)
		entity.Header.Set("From", sender)
		entity.Header.Set("To", correspondent)
		destinations = []string{correspondent}
		result.Path = "reply"
		result.Alias = alias
		result.Destination = correspondent
	} else {
		target, err := f.forwardTarget(ctx, toRecipients, logger)
		if err != nil {
			return result, err
		}
		senderAddress, err := f.recipients.Record(ctx, target.Alias, originAddr, replyTo)
		if err != nil {
			return result, err
		}
		displayName := originAddr
		if originName != "" {
			displayName = fmt.Sprintf("%s (via) %s", originName, originAddr)
		}
		sender = formatAddress(displayName, senderAddress)
		entity.Header.Set("From", sender)
		destinations = []string{target.Address}
		result.Path = "forward"
		result.Alias = target.Alias
		result.Destination = target.Address
	}

	var buf bytes.Buffer
	if err := entity.WriteTo(&buf); err != nil {
		return result, fmt.Errorf("serialize message %q: %w", messageID, err)
	}
	if err := f.mailer.SendRawEmail(ctx, sender, destinations, buf.Bytes()); err != nil {
		logger.Error().Err(err).Msg("failed to send email")
		return result, err
	}

	logger.Info().
		Str("path", result.Path).
		Str("alias", result.Alias).
		Msg("message delivered")
	return result, nil
}

// replyRecipient returns the sole recipient when it looks like one of our
// hashed reply addresses, otherwise "".
func (f *Forwarder) replyRecipient(recipients []*mail.Address) string {
	if len(recipients) != 1 {
		return ""
	}
	addr := recipients[0].Address
	local, addrDomain, ok := strings.Cut(addr, "@")
	if !ok || !strings.Contains(local, "+") {
		return ""
	}
	if !strings.EqualFold(addrDomain, f.domain) {
		return ""
	}
	return addr
}

// forwardTarget matches recipients against the active routes. With several
// matches only the first is used.
func (f *Forwarder) forwardTarget(ctx context.Context, toRecipients []*mail.Address, logger zerolog.Logger) (domain.ForwardTarget, error) {
	routes, err := f.routes.Routes(ctx)
	if err != nil {
		return domain.ForwardTarget{}, err
	}

	var targets []domain.ForwardTarget
	for _, recipient := range toRecipients {
		addr := strings.ToLower(recipient.Address)
		for _, route := range routes {
			aliasAddr := strings.ToLower(route.Alias + "@" + f.domain)
			if addr != aliasAddr {
				continue
			}
			if !route.Active {
				logger.Info().
					Str("alias", route.Alias).
					Msgf("not forwarding email to '%s' (route inactive)", aliasAddr)
				continue
			}
			forward := route.Forward
			if recipient.Name != "" && recipient.Name != recipient.Address {
				forward = formatAddress(recipient.Name, route.Forward)
			}
			targets = append(targets, domain.ForwardTarget{Alias: route.Alias, Address: forward})
			break
		}
	}

	if len(targets) == 0 {
		return domain.ForwardTarget{}, fmt.Errorf("%w: %s", domain.ErrNoMatchingRoute, joinAddresses(toRecipients))
	}
	if len(targets) > 1 {
		logger.Warn().
			Int("matches", len(targets)).
			Msg("multiple forward addresses found, only forwarding to the first")
	}
	return targets[0], nil
}

// parseAddressList parses a To header value into addresses.
func parseAddressList(value string) ([]*mail.Address, error) {
	if value == "" {
		return nil, fmt.Errorf("empty address list")
	}
	return mail.ParseAddressList(value)
}

// splitAddress splits "Name <addr>" into its parts, tolerating bare
// addresses and unparsable values.
func splitAddress(value string) (name, addr string) {
	parsed, err := mail.ParseAddress(value)
	if err != nil {
		return "", strings.TrimSpace(value)
	}
	return parsed.Name, strings.ToLower(parsed.Address)
}

// formatAddress renders a display name and address as an RFC 5322 value.
func formatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return (&mail.Address{Name: name, Address: addr}).String()
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

func joinAddresses(addrs []*mail.Address) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = a.Address
	}
	return strings.Join(parts, ", ")
}
