package commands

import (
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
	"github.com/google/uuid"
)

// RequestLogger tags every interaction with a request ID and logs how long it took
// and whether the handler failed.
func RequestLogger(next handler.Handler) handler.Handler {
	return func(event *handler.InteractionEvent) error {
		requestID := uuid.NewString()
		start := time.Now()
		logger := slog.With(
			slog.String("request_id", requestID),
			slog.String("user_id", event.Interaction.User().ID.String()),
		)

		err := next(event)
		if err != nil {
			logger.Error("interaction failed", slog.Any("err", err), slog.Duration("in", time.Since(start)))
			return err
		}
		logger.Debug("interaction handled", slog.Duration("in", time.Since(start)))
		return nil
	}
}
