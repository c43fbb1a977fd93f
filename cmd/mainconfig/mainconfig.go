package mainconfig

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	appconfig "github.com/webplotcentersj-hash/clinicasj/internal/config"
)

// LoadAWSConfig centralizes AWS SDK initialization so every binary shares the
// same LocalStack/production wiring. Static credentials are used only when
// both halves are set; otherwise the default chain applies.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, err
	}
	if endpoint := strings.TrimSpace(cfg.AWSEndpointOverride); endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(endpoint)
	}
	return awsCfg, nil
}

// AWSClients holds the service clients the API uses. Fields are nil when the
// corresponding feature is not configured.
type AWSClients struct {
	Config *aws.Config
	SES    *sesv2.Client
	SQS    *sqs.Client
}

// BuildAWSClients loads AWS config only when some component needs it.
func BuildAWSClients(ctx context.Context, cfg *appconfig.Config) (AWSClients, error) {
	if !cfg.NeedsAWS() {
		return AWSClients{}, nil
	}
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return AWSClients{}, err
	}
	clients := AWSClients{Config: &awsCfg}
	if cfg.EmailProvider == "ses" {
		clients.SES = sesv2.NewFromConfig(awsCfg)
	}
	if strings.TrimSpace(cfg.IntakeQueueURL) != "" {
		clients.SQS = sqs.NewFromConfig(awsCfg)
	}
	return clients, nil
}
