package kafka

import (
	"encoding/json"
	"time"
)

// Record types carried on the catalog-records topic.
const (
	RecordTypeRecipe             = "recipe"
	RecordTypeIngredient         = "ingredient"
	RecordTypeCompoundIngredient = "compound_ingredient"
	RecordTypeRelation           = "relation"
)

// RecordMessage is one catalog record pushed through Kafka instead of a
// file load. Data holds the record's source fields keyed by the same
// source keys the file loaders map from.
type RecordMessage struct {
	RecordType string         `json:"record_type"`
	Data       map[string]any `json:"data"`
	Source     string         `json:"source,omitempty"`
	Timestamp  time.Time      `json:"timestamp,omitempty"`
}

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Trace context (extracted from Kafka headers)
	TraceParent string
	TraceState  string

	// Parsed content
	Record *RecordMessage
}

// ParseRecord parses the message value as a catalog record message
func (m *IncomingMessage) ParseRecord() error {
	var msg RecordMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return err
	}
	m.Record = &msg
	return nil
}

// GetRecordType returns the record type, falling back to the header
// when the body does not carry one.
func (m *IncomingMessage) GetRecordType() string {
	if m.Record != nil && m.Record.RecordType != "" {
		return m.Record.RecordType
	}
	return m.Headers["record_type"]
}

// GetData returns the record data as JSON
func (m *IncomingMessage) GetData() json.RawMessage {
	if m.Record != nil {
		b, _ := json.Marshal(m.Record.Data)
		return b
	}
	return m.Value
}
