package messaging

import (
	"context"
	"encoding/json"
	"sync"
)

type PublishedMessage struct {
	Topic   string
	Key     string
	Payload []byte
}

// StubPublisher records messages in memory.
type StubPublisher struct {
	mu       sync.Mutex
	Messages []PublishedMessage
	Err      error
}

func (s *StubPublisher) PublishJSON(ctx context.Context, topic string, key string, payload any) error {
	if s.Err != nil {
		return s.Err
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, PublishedMessage{Topic: topic, Key: key, Payload: value})
	return nil
}
