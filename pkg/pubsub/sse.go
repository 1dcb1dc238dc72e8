package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/svgfx/fegraph/pkg/logging"
)

// subscriberBuffer is each subscription's channel depth. Publishes never
// block; a subscriber that falls this far behind starts dropping events.
const subscriberBuffer = 64

// SSEPublisher fans events out to per-topic subscribers. Topics marked with
// RetainLast keep their most recent event and replay it on subscribe, so a
// freshly opened preview page sees the current state immediately instead of
// waiting for the next edit.
type SSEPublisher struct {
	mu       sync.Mutex
	subs     map[string]map[*sseSubscription]struct{}
	retain   map[string]bool
	retained map[string]Event
	version  map[string]int
	closed   bool
}

// NewSSEPublisher creates an empty publisher.
func NewSSEPublisher() *SSEPublisher {
	return &SSEPublisher{
		subs:     make(map[string]map[*sseSubscription]struct{}),
		retain:   make(map[string]bool),
		retained: make(map[string]Event),
		version:  make(map[string]int),
	}
}

// RetainLast marks topics whose latest event is replayed to new subscribers.
func (p *SSEPublisher) RetainLast(topics ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range topics {
		p.retain[t] = true
	}
}

// Subscribe registers a subscription to a topic. Cancelling ctx closes it,
// which also closes the event channel.
func (p *SSEPublisher) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("publisher is closed")
	}

	sub := &sseSubscription{
		topic:     topic,
		events:    make(chan Event, subscriberBuffer),
		publisher: p,
	}
	if p.subs[topic] == nil {
		p.subs[topic] = make(map[*sseSubscription]struct{})
	}
	p.subs[topic][sub] = struct{}{}
	if last, ok := p.retained[topic]; ok {
		sub.events <- last // fresh buffered channel, cannot block
	}
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		sub.Close()
	}()
	return sub, nil
}

// Publish delivers an event to every subscriber of the topic without
// blocking. A slow subscriber drops events; the retained event brings it
// back to the current state on reconnect.
func (p *SSEPublisher) Publish(topic, eventType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("publisher is closed")
	}

	p.version[topic]++
	event := Event{
		Topic:   topic,
		Type:    eventType,
		Data:    payload,
		Version: p.version[topic],
	}
	if p.retain[topic] {
		p.retained[topic] = event
	}

	for sub := range p.subs[topic] {
		select {
		case sub.events <- event:
		default:
			logging.Warn("subscriber behind, dropping event",
				"topic", topic, "version", event.Version)
		}
	}
	return nil
}

// Close shuts down the publisher and every open subscription.
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	for _, subs := range p.subs {
		for sub := range subs {
			close(sub.events)
		}
	}
	p.subs = make(map[string]map[*sseSubscription]struct{})
	return nil
}

// unsubscribe removes a subscription and closes its channel. Sends happen
// under p.mu, so closing under the same lock cannot race a Publish.
func (p *SSEPublisher) unsubscribe(sub *sseSubscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	subs := p.subs[sub.topic]
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(p.subs, sub.topic)
	}
	close(sub.events)
}

type sseSubscription struct {
	topic     string
	events    chan Event
	publisher *SSEPublisher
	once      sync.Once
}

func (s *sseSubscription) Topic() string { return s.topic }

func (s *sseSubscription) Events() <-chan Event { return s.events }

func (s *sseSubscription) Close() error {
	s.once.Do(func() { s.publisher.unsubscribe(s) })
	return nil
}

// WriteSSE frames one event for a text/event-stream response.
func WriteSSE(w io.Writer, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}
