package vault

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// KeySource tells Load where the base64 key lives. AWSSecretID wins over KeyEnv.
type KeySource struct {
	KeyEnv      string
	AWSSecretID string
	AWSRegion   string
	AWSEndpoint string
}

// SecretsManagerAPI is the subset of the Secrets Manager client Load uses.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Load builds the process-wide vault. Any failure is a configuration error.
func Load(ctx context.Context, src KeySource) (*Vault, error) {
	if src.AWSSecretID == "" {
		return NewFromBase64(strings.TrimSpace(os.Getenv(src.KeyEnv)))
	}

	client, err := newSecretsManager(ctx, src)
	if err != nil {
		return nil, err
	}
	return LoadFromSecretsManager(ctx, client, src.AWSSecretID)
}

func LoadFromSecretsManager(ctx context.Context, client SecretsManagerAPI, secretID string) (*Vault, error) {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return nil, fmt.Errorf("get vault key %q: %w", secretID, err)
	}

	switch {
	case out.SecretString != nil:
		return NewFromBase64(strings.TrimSpace(*out.SecretString))
	case out.SecretBinary != nil:
		return New(out.SecretBinary)
	default:
		return nil, fmt.Errorf("%w: secret %q has no value", ErrInvalidKey, secretID)
	}
}

func newSecretsManager(ctx context.Context, src KeySource) (*secretsmanager.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if src.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(src.AWSRegion))
	}
	if src.AWSEndpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if src.AWSEndpoint != "" {
			o.BaseEndpoint = aws.String(src.AWSEndpoint)
		}
	}), nil
}
