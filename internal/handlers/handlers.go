package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/shop-api/internal/logging"
	"github.com/avolkov/shop-api/internal/models"
)

// EventPublisher is implemented by mykafka.Producer. Mutation events are
// best effort: a publish failure is logged, never surfaced to the caller.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

// ProductIndex is implemented by search.Indexer.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

func publish(c echo.Context, events EventPublisher, topic, key string, event map[string]interface{}) {
	if events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := events.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "topic", topic, "error", err)
	}
}
