package service

import (
	"context"

	"wevysya-assistant-be/pkg/events"
	pkgNats "wevysya-assistant-be/pkg/nats"

	"go.uber.org/zap"
)

type IActivityService interface {
	Start() error
}

// activityService tails assistant interaction events off the NATS bus and
// records them to the activity log. Consumption is durable, so interactions
// published while the worker was down are replayed on startup.
type activityService struct {
	subscriber *pkgNats.Subscriber
	logger     *zap.Logger
}

func NewActivityService(subscriber *pkgNats.Subscriber, logger *zap.Logger) IActivityService {
	return &activityService{
		subscriber: subscriber,
		logger:     logger,
	}
}

func (s *activityService) Start() error {
	return s.subscriber.Subscribe(events.AssistantInteraction, "assistant-activity", s.handle)
}

func (s *activityService) handle(ctx context.Context, event events.Event) error {
	data := event.Payload()

	s.logger.Info("assistant interaction",
		zap.Any("query", data["query"]),
		zap.Any("type", data["type"]),
		zap.Any("category", data["category"]),
		zap.Any("confidence", data["confidence"]),
	)
	return nil
}
