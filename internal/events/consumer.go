// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/athenahq/opportunityfeed/internal/feed"
	"github.com/athenahq/opportunityfeed/internal/logging"
	"github.com/athenahq/opportunityfeed/internal/metrics"
)

// MetricsConsumer subscribes to both feed topics and turns events into
// Prometheus counters. It runs as a service under the supervision tree.
type MetricsConsumer struct {
	bus *Bus
}

// NewMetricsConsumer creates a consumer over the given bus.
func NewMetricsConsumer(bus *Bus) *MetricsConsumer {
	return &MetricsConsumer{bus: bus}
}

// String identifies the consumer in supervisor logs.
func (c *MetricsConsumer) String() string {
	return "events-metrics-consumer"
}

// Serve consumes events until the context is canceled. Malformed
// payloads are acked and counted as errors so the stream keeps moving.
func (c *MetricsConsumer) Serve(ctx context.Context) error {
	pages, err := c.bus.Subscribe(ctx, TopicPageServed)
	if err != nil {
		return err
	}
	engagements, err := c.bus.Subscribe(ctx, TopicEngagement)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-pages:
			if !ok {
				return nil
			}
			c.handlePageServed(msg)
		case msg, ok := <-engagements:
			if !ok {
				return nil
			}
			c.handleEngagement(msg)
		}
	}
}

func (c *MetricsConsumer) handlePageServed(msg *message.Message) {
	defer msg.Ack()

	var ev feed.PageServedEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		logging.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed page-served event")
		metrics.EventsConsumed.WithLabelValues(TopicPageServed, "error").Inc()
		return
	}
	metrics.EventsConsumed.WithLabelValues(TopicPageServed, "ok").Inc()
}

func (c *MetricsConsumer) handleEngagement(msg *message.Message) {
	defer msg.Ack()

	var ev EngagementEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		logging.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed engagement event")
		metrics.EventsConsumed.WithLabelValues(TopicEngagement, "error").Inc()
		return
	}
	metrics.EventsConsumed.WithLabelValues(TopicEngagement, "ok").Inc()
}
