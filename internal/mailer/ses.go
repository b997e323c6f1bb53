package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"

	"lampions/internal/address"
	"lampions/internal/domain"
)

// SESAPI is the subset of the SES client used by the mailer.
type SESAPI interface {
	VerifyEmailIdentity(ctx context.Context, in *ses.VerifyEmailIdentityInput, opts ...func(*ses.Options)) (*ses.VerifyEmailIdentityOutput, error)
	ListIdentities(ctx context.Context, in *ses.ListIdentitiesInput, opts ...func(*ses.Options)) (*ses.ListIdentitiesOutput, error)
	SendRawEmail(ctx context.Context, in *ses.SendRawEmailInput, opts ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// SES wraps the AWS SES client behind domain.Mailer.
type SES struct {
	client SESAPI
}

// New returns a mailer using the given SES client.
func New(client SESAPI) *SES { return &SES{client: client} }

func (m *SES) VerifyEmailIdentity(ctx context.Context, addr string) error {
	_, err := m.client.VerifyEmailIdentity(ctx, &ses.VerifyEmailIdentityInput{
		EmailAddress: aws.String(addr),
	})
	if err != nil {
		return fmt.Errorf("verify email identity: %w", err)
	}
	return nil
}

// VerifiedAddresses lists SES identities, filtered down to plain email
// addresses (domain identities are skipped).
func (m *SES) VerifiedAddresses(ctx context.Context) ([]string, error) {
	var addresses []string
	var nextToken *string
	for {
		out, err := m.client.ListIdentities(ctx, &ses.ListIdentitiesInput{
			IdentityType: sestypes.IdentityTypeEmailAddress,
			NextToken:    nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("list identities: %w", err)
		}
		for _, identity := range out.Identities {
			if address.Valid(identity) {
				addresses = append(addresses, identity)
			}
		}
		if out.NextToken == nil || aws.ToString(out.NextToken) == "" {
			return addresses, nil
		}
		nextToken = out.NextToken
	}
}

func (m *SES) SendRawEmail(ctx context.Context, source string, destinations []string, raw []byte) error {
	_, err := m.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(source),
		Destinations: destinations,
		RawMessage:   &sestypes.RawMessage{Data: raw},
	})
	if err != nil {
		return fmt.Errorf("send to %s: %w", strings.Join(destinations, ", "), err)
	}
	return nil
}

var _ domain.Mailer = (*SES)(nil)
