package app

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	backend "github.com/redis/go-redis/v9"

	"lampions/internal/config"
	"lampions/internal/domain"
	"lampions/internal/mailer"
	recipientsvc "lampions/internal/services/recipients"
	routesvc "lampions/internal/services/routes"
	"lampions/internal/store"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	ConfigPath string // config file, e.g. ~/.config/lampions/config.json
	Passphrase string // unseals stored credentials when set
	RedisAddr  string // optional route/recipient cache
}

// Wire bundles config, stores, clients and services.
type Wire struct {
	Config     *config.Config
	Store      *config.Store
	Routes     domain.RouteStore
	Recipients domain.RecipientStore
	Messages   domain.MessageStore
	Mailer     domain.Mailer

	RouteSvc     *routesvc.Service
	RecipientSvc *recipientsvc.Service
}

// NewWire constructs the dependency graph from cfg. It fails when the
// config has not been initialized.
func NewWire(ctx context.Context, cfg Config) (*Wire, error) {
	configStore := config.NewStore(cfg.ConfigPath)
	c, err := configStore.Load()
	if err != nil {
		return nil, err
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}

	awsOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.Region),
	}
	accessKeyID, secretAccessKey, err := c.Credentials(cfg.Passphrase)
	if err != nil {
		return nil, err
	}
	if accessKeyID != "" && secretAccessKey != "" {
		awsOpts = append(awsOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	s3Store := store.NewS3Store(s3.NewFromConfig(awsCfg), c.Domain)
	sesMailer := mailer.New(ses.NewFromConfig(awsCfg))

	var routes domain.RouteStore = s3Store
	var recipients domain.RecipientStore = s3Store
	if cfg.RedisAddr != "" {
		client := backend.NewClient(&backend.Options{Addr: cfg.RedisAddr})
		cache := store.NewCache(routes, recipients, client, store.DefaultCacheTTL)
		routes = cache
		recipients = cache
	}

	return &Wire{
		Config:       c,
		Store:        configStore,
		Routes:       routes,
		Recipients:   recipients,
		Messages:     s3Store,
		Mailer:       sesMailer,
		RouteSvc:     routesvc.New(routes, sesMailer, c.Domain),
		RecipientSvc: recipientsvc.New(recipients, c.Domain),
	}, nil
}
