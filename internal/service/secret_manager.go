package service

import (
	"context"
	"fmt"

	"app/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/rs/zerolog"
)

type SecretManagerService interface {
	GetSecret(ctx context.Context, name string) (string, error)
	Close() error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretManagerService(ctx context.Context, projectID string) (SecretManagerService, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GCP project ID is not set")
	}
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return &secretManagerService{client: client, projectID: projectID}, nil
}

func (s *secretManagerService) GetSecret(ctx context.Context, name string) (string, error) {
	resourceName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, name)
	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}
	return string(result.Payload.Data), nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}

// ResolveSummarizerAPIKey returns the summarization API key from the
// environment, falling back to Secret Manager when GCP_PROJECT_ID is set.
func ResolveSummarizerAPIKey(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (string, error) {
	if cfg.OpenAIAPIKey != "" {
		return cfg.OpenAIAPIKey, nil
	}
	if cfg.GCPProjectID == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is not set and no GCP project is configured")
	}
	sm, err := NewSecretManagerService(ctx, cfg.GCPProjectID)
	if err != nil {
		return "", err
	}
	defer sm.Close()

	key, err := sm.GetSecret(ctx, cfg.OpenAIAPIKeySecret)
	if err != nil {
		return "", fmt.Errorf("fetching summarizer API key: %w", err)
	}
	logger.Info().Str("secret", cfg.OpenAIAPIKeySecret).Msg("Loaded summarizer API key from Secret Manager")
	return key, nil
}
