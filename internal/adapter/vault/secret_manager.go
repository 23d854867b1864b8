// Package vault reads provider credentials from a HashiCorp Vault KV v2 mount.
package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/vault/api"
)

const (
	DefaultSecretPath = "secret/data/vox-site"

	deepgramKeyField = "deepgram_api_key"
	groqKeyField     = "groq_api_key"
)

// ProviderKeys holds the credentials of the speech and language providers.
// A field left empty was absent from the secret.
type ProviderKeys struct {
	DeepgramAPIKey string
	GroqAPIKey     string
}

type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	if address != "" {
		config.Address = address
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("vault: create client: %w", err)
	}

	if token != "" {
		client.SetToken(token)
	}

	return &SecretManager{client: client}, nil
}

// ProviderKeys reads the KV v2 secret at path.
func (sm *SecretManager) ProviderKeys(ctx context.Context, path string) (*ProviderKeys, error) {
	if path == "" {
		path = DefaultSecretPath
	}

	data, err := sm.readKV(ctx, path)
	if err != nil {
		return nil, err
	}

	return &ProviderKeys{
		DeepgramAPIKey: stringField(data, deepgramKeyField),
		GroqAPIKey:     stringField(data, groqKeyField),
	}, nil
}

func (sm *SecretManager) readKV(ctx context.Context, path string) (map[string]interface{}, error) {
	secret, err := sm.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("vault: read %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("vault: secret %s not found", path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, errors.New("vault: secret is not a KV v2 document")
	}
	return data, nil
}

func stringField(data map[string]interface{}, key string) string {
	v, _ := data[key].(string)
	return v
}
