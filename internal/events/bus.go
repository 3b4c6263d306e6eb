// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

// Package events provides the in-process event bus carrying feed
// lifecycle and engagement signals between the mixer service and its
// observers.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/athenahq/opportunityfeed/internal/feed"
	"github.com/athenahq/opportunityfeed/internal/metrics"
)

// Topics carried by the bus.
const (
	TopicPageServed = "feed.page.served"
	TopicEngagement = "feed.engagement"
)

// EngagementEvent records one user interaction with a served item. It
// feeds the interaction counters that eventually flip a user out of
// cold start.
type EngagementEvent struct {
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	ItemID    string    `json:"item_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Bus is an in-process pub/sub channel for feed events.
type Bus struct {
	pubsub *gochannel.GoChannel
}

var _ feed.PagePublisher = (*Bus)(nil)

// NewBus creates a gochannel-backed event bus. bufferSize bounds the
// per-subscriber channel; zero means unbuffered.
func NewBus(bufferSize int, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = NewLoggerAdapter()
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: int64(bufferSize),
		}, logger),
	}
}

// PublishPageServed emits a page-served event.
func (b *Bus) PublishPageServed(_ context.Context, ev feed.PageServedEvent) error {
	return b.publish(TopicPageServed, ev)
}

// PublishEngagement emits an engagement event.
func (b *Bus) PublishEngagement(_ context.Context, ev EngagementEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	return b.publish(TopicEngagement, ev)
}

func (b *Bus) publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// Subscribe returns a channel of messages for the topic. The channel
// closes when ctx is canceled or the bus closes.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
