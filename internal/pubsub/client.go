package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a Google Pub/Sub publisher. An empty projectID yields a client
// that only logs what it would have published.
func New(ctx context.Context, projectID string) (PubSubClient, error) {
	if projectID == "" {
		log.Warn("No GCP project configured, pubsub messages will only be logged")
		return &client{}, nil
	}
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	teardown := func() {
		if err := pubSubC.Close(); err != nil {
			log.Error("Failed to close pubsub client", "error", err)
		}
	}

	return &client{
		client:   pubSubC,
		teardown: teardown,
	}, nil
}

func (c *client) SendMessage(topic EventType, data any) error {
	msgpackData, err := Encode(data)
	if err != nil {
		return err
	}
	if c.client == nil {
		log.Info("[Local] Would have published message", "topic", topic, "bytes", len(msgpackData))
		return nil
	}

	ctx := context.Background()
	result := c.client.Topic(string(topic)).Publish(ctx, &pubsub.Message{
		Data: msgpackData,
	})
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Info("Published message", "topic", topic, "serverID", serverID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}

func (c *client) Close() {
	if c.teardown != nil {
		c.teardown()
	}
}

// Encode marshals a payload the way SendMessage puts it on the wire.
func Encode(data any) ([]byte, error) {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return nil, err
	}
	return msgpackData, nil
}

// DecodePushRequest reads a push delivery body and returns the raw payload.
func DecodePushRequest(body io.Reader) ([]byte, error) {
	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read push body: %w", err)
	}
	var req PushRequest
	if err := json.Unmarshal(bodyBytes, &req); err != nil {
		return nil, fmt.Errorf("invalid push envelope: %w", err)
	}
	rawData, err := base64.StdEncoding.DecodeString(req.Message.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	log.Debug("Decoded push message", "subscription", req.Subscription, "messageID", req.Message.ID)
	return rawData, nil
}
