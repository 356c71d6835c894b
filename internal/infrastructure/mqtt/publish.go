package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// Maximum payload size for MQTT messages (1MB).
const maxPayloadSize = 1 << 20

// Publish sends a message to the specified MQTT topic.
//
// Retained messages are kept by the broker and delivered to new
// subscribers; use them for status, not events.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishJSON marshals v and publishes it with the configured QoS.
func (c *Client) PublishJSON(topic string, v any, retained bool) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encoding payload: %w", ErrPublishFailed, err)
	}
	return c.Publish(topic, payload, byte(c.cfg.QoS), retained)
}

// ImportEvent is the payload published when an import finishes or fails.
type ImportEvent struct {
	ImportID   string         `json:"import_id"`
	Model      string         `json:"model"`
	SourceFile string         `json:"source_file"`
	RecordID   int64          `json:"record_id,omitempty"`
	Counts     map[string]int `json:"counts,omitempty"`
	Warnings   int            `json:"warnings"`
	Error      string         `json:"error,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// PublishImport publishes ev on the completed or failed topic for its model,
// depending on whether ev.Error is set.
func (c *Client) PublishImport(ev ImportEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	topic := Topics{}.ImportCompleted(ev.Model)
	if ev.Error != "" {
		topic = Topics{}.ImportFailed(ev.Model)
	}
	return c.PublishJSON(topic, ev, false)
}
