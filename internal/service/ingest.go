package service

import (
	"context"

	"smshub/internal/errors"
	"smshub/internal/metrics"
	"smshub/internal/models"
	"smshub/internal/privacy"
	"smshub/internal/validation"

	"github.com/sirupsen/logrus"
)

// MessageStore is the persistence surface the services depend on.
type MessageStore interface {
	InsertMessage(ctx context.Context, msg *models.Message) (models.InsertOutcome, error)
	QueryMessages(ctx context.Context, filter models.QueryFilter) (int64, []models.Message, error)
	ComputeStats(ctx context.Context) (*models.Stats, error)
}

// IngestResult reports a completed ingestion.
type IngestResult struct {
	Outcome   models.InsertOutcome
	MessageID string
}

// IngestionService runs the webhook path: verify the signature, validate the
// payload, persist idempotently, record the outcome. It carries no HTTP
// concerns; callers hand it the raw body and the claimed signature.
type IngestionService struct {
	store    MessageStore
	registry *metrics.Registry
	logger   *logrus.Logger
	secret   string
}

func NewIngestionService(store MessageStore, registry *metrics.Registry, logger *logrus.Logger, secret string) *IngestionService {
	return &IngestionService{
		store:    store,
		registry: registry,
		logger:   logger,
		secret:   secret,
	}
}

// Ingest processes one webhook delivery. Signature failures and validation
// failures return typed errors without touching storage; a duplicate
// message_id is a normal outcome, not an error.
func (s *IngestionService) Ingest(ctx context.Context, rawBody []byte, signature string) (*IngestResult, error) {
	if !VerifySignature(s.secret, rawBody, signature) {
		s.registry.IncWebhookResult(metrics.ResultInvalidSignature)
		return nil, errors.New(errors.ErrCodeAuthentication, "invalid webhook signature").
			WithUserMessage("invalid signature")
	}

	payload, err := validation.ParseWebhookPayload(rawBody)
	if err != nil {
		return nil, err
	}

	msg := payload.Message()
	outcome, err := s.store.InsertMessage(ctx, msg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to persist message")
	}

	s.registry.IncWebhookResult(string(outcome))

	s.logger.WithFields(logrus.Fields{
		"message_id": msg.MessageID,
		"from":       privacy.MaskMSISDN(msg.FromMSISDN),
		"to":         privacy.MaskMSISDN(msg.ToMSISDN),
		"result":     string(outcome),
		"dup":        outcome == models.InsertDuplicate,
	}).Info("Webhook message processed")

	return &IngestResult{
		Outcome:   outcome,
		MessageID: msg.MessageID,
	}, nil
}
