package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"lampions/internal/domain"
)

const (
	routesKey     = "routes.json"
	recipientsKey = "recipients.json"
	inboxPrefix   = "inbox/"
)

// S3API is the subset of the S3 client used by the store.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store reads and writes the route and recipient documents in the
// lampions.<domain> bucket.
type S3Store struct {
	client S3API
	bucket string
}

// NewS3Store returns an S3Store for the given mail domain.
func NewS3Store(client S3API, mailDomain string) *S3Store {
	return &S3Store{client: client, bucket: "lampions." + mailDomain}
}

// routesDocument wraps the route list under its top-level JSON key.
type routesDocument struct {
	Routes []domain.Route `json:"routes"`
}

// recipientsDocument wraps the relations under their top-level JSON key.
type recipientsDocument struct {
	Recipients domain.RecipientRelations `json:"recipients"`
}

// Routes returns all routes. A missing or malformed document is an empty
// list.
func (s *S3Store) Routes(ctx context.Context) ([]domain.Route, error) {
	b, err := s.get(ctx, routesKey)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	var doc routesDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, nil
	}
	return doc.Routes, nil
}

// PutRoutes replaces the route document.
func (s *S3Store) PutRoutes(ctx context.Context, routes []domain.Route) error {
	return s.putJSON(ctx, routesKey, routesDocument{Routes: routes})
}

// Recipients returns the recipient relations. A missing or malformed
// document is an empty map.
func (s *S3Store) Recipients(ctx context.Context) (domain.RecipientRelations, error) {
	b, err := s.get(ctx, recipientsKey)
	if err != nil {
		return nil, err
	}
	rel := make(domain.RecipientRelations)
	if b == nil {
		return rel, nil
	}
	var doc recipientsDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return rel, nil
	}
	if doc.Recipients != nil {
		rel = doc.Recipients
	}
	return rel, nil
}

// PutRecipients replaces the recipients document.
func (s *S3Store) PutRecipients(ctx context.Context, recipients domain.RecipientRelations) error {
	return s.putJSON(ctx, recipientsKey, recipientsDocument{Recipients: recipients})
}

// Message fetches the raw message stored under inbox/<messageID>.
func (s *S3Store) Message(ctx context.Context, messageID string) ([]byte, error) {
	b, err := s.get(ctx, inboxPrefix+messageID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("message %q not found in %s", messageID, s.bucket)
	}
	return b, nil
}

// get returns the object bytes, or nil when the key does not exist.
func (s *S3Store) get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *S3Store) putJSON(ctx context.Context, key string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// Compile-time assertions that S3Store implements the storage interfaces.
var (
	_ domain.RouteStore     = (*S3Store)(nil)
	_ domain.RecipientStore = (*S3Store)(nil)
	_ domain.MessageStore   = (*S3Store)(nil)
)
