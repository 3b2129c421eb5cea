package confconsumer

import (
	"context"
	"fmt"

	"github.com/omrozmn/x-ear-sub010/internal/kafka"
	"github.com/omrozmn/x-ear-sub010/internal/logger"
	"github.com/omrozmn/x-ear-sub010/internal/model"
)

type ConfirmationConverter interface {
	ConfirmationToModel(data []byte) (model.CreateConfirmation, error)
}

// CreateConfirmer performs the temporary→permanent swap.
type CreateConfirmer interface {
	ConfirmCreate(ctx context.Context, temporaryID string, finalRaw map[string]any) error
}

// confConsumer delivers out-of-band create confirmations to the mutation
// pipeline, correlated by temporary identifier. A typical source is a deferred
// offline-queue flush completing long after the initiating call returned.
type confConsumer struct {
	consumer kafka.Consumer
	conv     ConfirmationConverter
	svc      CreateConfirmer
}

func NewConfirmationConsumer(
	consumer kafka.Consumer,
	conv ConfirmationConverter,
	svc CreateConfirmer,
) *confConsumer {
	return &confConsumer{
		consumer: consumer,
		conv:     conv,
		svc:      svc,
	}
}

func (c *confConsumer) RunConfirmationConsume(ctx context.Context) error {
	logger.Info(ctx, "Starting create-confirmation consumer")

	if err := c.consumer.Consume(ctx, c.confirmationHandler); err != nil {
		logger.Error(ctx, "Consume from confirmation topic error", logger.ErrorF(err))
		return err
	}

	return nil
}

func (c *confConsumer) confirmationHandler(ctx context.Context, msg kafka.Message) error {
	conf, err := c.conv.ConfirmationToModel(msg.Value)
	if err != nil {
		logger.Error(ctx, "Failed to decode create confirmation", logger.ErrorF(err))
		return fmt.Errorf("converter confirmation_to_model error: %w", err)
	}

	if err := c.svc.ConfirmCreate(ctx, conf.TemporaryID, conf.FinalRecord); err != nil {
		logger.Error(ctx, "Failed to apply create confirmation",
			logger.String("temporary_id", conf.TemporaryID),
			logger.ErrorF(err),
		)
		return err
	}

	return nil
}
