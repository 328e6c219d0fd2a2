package lapp

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-secretsmanager-caching-go/v2/secretcache"
	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// SecretReader abstracts secret retrieval for testability.
type SecretReader interface {
	GetSecretString(ctx context.Context, secretID string) (string, error)
}

// SecretsManagerReader implements SecretReader on the AWS Secrets
// Manager caching client: secrets are fetched per-request so rotation
// works without a redeploy, but repeat reads hit the cache.
type SecretsManagerReader struct {
	cache *secretcache.Cache
}

// NewSecretsManagerReader creates a reader using the provided AWS config.
func NewSecretsManagerReader(cfg aws.Config) (*SecretsManagerReader, error) {
	client := secretsmanager.NewFromConfig(cfg)

	cache, err := secretcache.New(func(c *secretcache.Cache) {
		c.Client = client
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create secret cache")
	}

	return &SecretsManagerReader{cache: cache}, nil
}

// GetSecretString retrieves a secret value with caching.
func (r *SecretsManagerReader) GetSecretString(ctx context.Context, secretID string) (string, error) {
	secret, err := r.cache.GetSecretStringWithContext(ctx, secretID)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get secret %q", secretID)
	}

	return secret, nil
}

// secretFromReader retrieves a secret, optionally extracting a JSON
// path in gjson syntax (e.g. "database.password"). Without a path the
// raw secret string is returned.
func secretFromReader(ctx context.Context, reader SecretReader, secretID string, jsonPath ...string) (string, error) {
	if len(jsonPath) > 1 {
		return "", errors.New("lapp: Secret accepts at most one jsonPath argument")
	}

	secret, err := reader.GetSecretString(ctx, secretID)
	if err != nil {
		return "", err
	}

	if len(jsonPath) == 0 || jsonPath[0] == "" {
		return secret, nil
	}

	result := gjson.Get(secret, jsonPath[0])
	if !result.Exists() {
		return "", errors.Errorf("secret path %q not found in secret %q", jsonPath[0], secretID)
	}

	return result.String(), nil
}
