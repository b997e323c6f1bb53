package relay_test

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lampions/internal/address"
	"lampions/internal/domain"
	"lampions/internal/relay"
	"lampions/internal/services/recipients"
	"lampions/internal/store"
)

type sentMail struct {
	source       string
	destinations []string
	raw          []byte
}

type fakeMailer struct {
	verified []string
	sent     []sentMail
	sendErr  error
}

func (f *fakeMailer) VerifyEmailIdentity(context.Context, string) error { return nil }

func (f *fakeMailer) VerifiedAddresses(context.Context) ([]string, error) {
	return f.verified, nil
}

func (f *fakeMailer) SendRawEmail(_ context.Context, source string, destinations []string, raw []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{source: source, destinations: destinations, raw: raw})
	return nil
}

type fixture struct {
	forwarder *relay.Forwarder
	mem       *store.Memory
	mailer    *fakeMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	m := &fakeMailer{verified: []string{"me@mail.com"}}
	recipientSvc := recipients.New(mem, "example.org")
	f := relay.NewForwarder(mem, mem, recipientSvc, m, "example.org", zerolog.Nop())
	return &fixture{forwarder: f, mem: mem, mailer: m}
}

func (fx *fixture) addRoute(t *testing.T, alias string, active bool) {
	t.Helper()
	ctx := context.Background()
	routes, err := fx.mem.Routes(ctx)
	require.NoError(t, err)
	routes = append(routes, domain.Route{
		ID:      "id-" + alias,
		Active:  active,
		Alias:   alias,
		Forward: "me@mail.com",
	})
	require.NoError(t, fx.mem.PutRoutes(ctx, routes))
}

func rawMessage(headers map[string]string, body string) []byte {
	var b strings.Builder
	for key, value := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", key, value)
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func parseSent(t *testing.T, raw []byte) (*mail.Message, string) {
	t.Helper()
	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)
	body, err := io.ReadAll(msg.Body)
	require.NoError(t, err)
	return msg, string(body)
}

func TestHandleMessage_ForwardPath(t *testing.T) {
	fx := newFixture(t)
	fx.addRoute(t, "shop", true)
	fx.mem.AddMessage("msg-1", rawMessage(map[string]string{
		"From":           "Jane Doe <jane@corp.com>",
		"To":             "Web Shop <shop@example.org>",
		"Subject":        "Your order",
		"DKIM-Signature": "v=1; a=rsa-sha256; d=corp.com",
		"Received-SPF":   "pass",
	}, "Hello there\r\n"))

	result, err := fx.forwarder.HandleMessage(context.Background(), "msg-1")
	require.NoError(t, err)
	assert.Equal(t, "forward", result.Path)
	assert.Equal(t, "shop", result.Alias)
	assert.NotEmpty(t, result.DeliveryID)

	require.Len(t, fx.mailer.sent, 1)
	sent := fx.mailer.sent[0]

	wantReply := address.FormatReply("shop", address.Hash("jane@corp.com"), "example.org")
	from, err := mail.ParseAddress(sent.source)
	require.NoError(t, err)
	assert.Equal(t, wantReply, from.Address)
	assert.Equal(t, "Jane Doe (via) jane@corp.com", from.Name)

	// The display name of the alias recipient carries over to the forward.
	require.Len(t, sent.destinations, 1)
	dest, err := mail.ParseAddress(sent.destinations[0])
	require.NoError(t, err)
	assert.Equal(t, "me@mail.com", dest.Address)
	assert.Equal(t, "Web Shop", dest.Name)

	msg, body := parseSent(t, sent.raw)
	assert.Empty(t, msg.Header.Get("DKIM-Signature"))
	assert.Empty(t, msg.Header.Get("Received-SPF"))
	assert.Empty(t, msg.Header.Get("Reply-To"))
	assert.Equal(t, "Your order", msg.Header.Get("Subject"))
	assert.Contains(t, body, "Hello there")

	// The correspondent relation is recorded for the reply path.
	rel, err := fx.mem.Recipients(context.Background())
	require.NoError(t, err)
	replyTo, ok := rel.Lookup("shop", address.Hash("jane@corp.com"))
	require.True(t, ok)
	assert.Equal(t, "Jane Doe <jane@corp.com>", replyTo)
}

func TestHandleMessage_ForwardUsesReplyToWhenPresent(t *testing.T) {
	fx := newFixture(t)
	fx.addRoute(t, "shop", true)
	fx.mem.AddMessage("msg-1", rawMessage(map[string]string{
		"From":     "noreply@corp.com",
		"Reply-To": "replies@corp.com",
		"To":       "shop@example.org",
	}, "body\r\n"))

	_, err := fx.forwarder.HandleMessage(context.Background(), "msg-1")
	require.NoError(t, err)

	require.Len(t, fx.mailer.sent, 1)
	from, err := mail.ParseAddress(fx.mailer.sent[0].source)
	require.NoError(t, err)
	assert.Equal(t,
		address.FormatReply("shop", address.Hash("replies@corp.com"), "example.org"),
		from.Address)

	rel, err := fx.mem.Recipients(context.Background())
	require.NoError(t, err)
	_, ok := rel.Lookup("shop", address.Hash("replies@corp.com"))
	assert.True(t, ok)
}

func TestHandleMessage_InactiveRoute(t *testing.T) {
	fx := newFixture(t)
	fx.addRoute(t, "shop", false)
	fx.mem.AddMessage("msg-1", rawMessage(map[string]string{
		"From": "jane@corp.com",
		"To":   "shop@example.org",
	}, "body\r\n"))

	_, err := fx.forwarder.HandleMessage(context.Background(), "msg-1")
	assert.ErrorIs(t, err, domain.ErrNoMatchingRoute)
	assert.Empty(t, fx.mailer.sent)
}

func TestHandleMessage_NoMatchingRoute(t *testing.T) {
	fx := newFixture(t)
	fx.mem.AddMessage("msg-1", rawMessage(map[string]string{
		"From": "jane@corp.com",
		"To":   "unknown@example.org",
	}, "body\r\n"))

	_, err := fx.forwarder.HandleMessage(context.Background(), "msg-1")
	assert.ErrorIs(t, err, domain.ErrNoMatchingRoute)
}

func TestHandleMessage_MultipleMatchesUsesFirst(t *testing.T) {
	fx := newFixture(t)
	fx.addRoute(t, "shop", true)
	fx.addRoute(t, "news", true)
	fx.mem.AddMessage("msg-1", rawMessage(map[string]string{
		"From": "jane@corp.com",
		"To":   "shop@example.org, news@example.org",
	}, "body\r\n"))

	result, err := fx.forwarder.HandleMessage(context.Background(), "msg-1")
	require.NoError(t, err)
	assert.Equal(t, "shop", result.Alias)
	require.Len(t, fx.mailer.sent, 1)
}

func TestHandleMessage_ReplyPath(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	recipientSvc := recipients.New(fx.mem, "example.org")
	replyAddr, err := recipientSvc.Record(ctx, "shop", "corr@shop.com", "Corr <corr@shop.com>")
	require.NoError(t, err)

	fx.mem.AddMessage("msg-1", rawMessage(map[string]string{
		"From":    "Me <me@mail.com>",
		"To":      replyAddr,
		"Subject": "Re: Your order",
	}, "reply body\r\n"))

	result, err := fx.forwarder.HandleMessage(ctx, "msg-1")
	require.NoError(t, err)
	assert.Equal(t, "reply", result.Path)
	assert.Equal(t, "shop", result.Alias)

	require.Len(t, fx.mailer.sent, 1)
	sent := fx.mailer.sent[0]
	assert.Equal(t, []string{"Corr <corr@shop.com>"}, sent.destinations)

	from, err := mail.ParseAddress(sent.source)
	require.NoError(t, err)
	assert.Equal(t, "shop@example.org", from.Address, "alias address masks the personal one")
	assert.Equal(t, "Me", from.Name)

	msg, _ := parseSent(t, sent.raw)
	toAddr, err := mail.ParseAddress(msg.Header.Get("To"))
	require.NoError(t, err)
	assert.Equal(t, "corr@shop.com", toAddr.Address)
}

func TestHandleMessage_ReplyUnknownHash(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	recipientSvc := recipients.New(fx.mem, "example.org")
	_, err := recipientSvc.Record(ctx, "shop", "corr@shop.com", "corr@shop.com")
	require.NoError(t, err)

	fx.mem.AddMessage("msg-1", rawMessage(map[string]string{
		"From": "me@mail.com",
		"To":   "shop+deadbeef@example.org",
	}, "body\r\n"))

	_, err = fx.forwarder.HandleMessage(ctx, "msg-1")
	assert.ErrorIs(t, err, domain.ErrUnknownRecipient)
}

func TestHandleMessage_ReplyAddressFromStrangerIsForwarded(t *testing.T) {
	// Mail to a hashed reply address from an unverified sender must not
	// hit the reply path; with no matching route it is rejected.
	fx := newFixture(t)
	fx.mem.AddMessage("msg-1", rawMessage(map[string]string{
		"From": "stranger@evil.com",
		"To":   "shop+deadbeef@example.org",
	}, "body\r\n"))

	_, err := fx.forwarder.HandleMessage(context.Background(), "msg-1")
	assert.ErrorIs(t, err, domain.ErrNoMatchingRoute)
}

func TestHandleMessage_MissingMessage(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.forwarder.HandleMessage(context.Background(), "missing")
	require.Error(t, err)
}
