package kafka

import (
	"encoding/json"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	Batch *SourceBatchMessage
}

// SourceBatchMessage is the envelope upstream loaders publish: one dataset's
// worth of source records per message.
type SourceBatchMessage struct {
	BatchID     string                `json:"batch_id"`
	Dataset     string                `json:"dataset"`
	CountryCode string                `json:"country_code,omitempty"`
	Records     []models.SourceRecord `json:"records"`
	SentAt      time.Time             `json:"sent_at"`
}

// ParseSourceBatch parses the message value as a source batch envelope
func (m *IncomingMessage) ParseSourceBatch() error {
	var batch SourceBatchMessage
	if err := json.Unmarshal(m.Value, &batch); err != nil {
		return err
	}
	m.Batch = &batch
	return nil
}

// GetDataset returns the dataset label, falling back to the message header
func (m *IncomingMessage) GetDataset() string {
	if m.Batch != nil && m.Batch.Dataset != "" {
		return m.Batch.Dataset
	}
	return m.Headers["dataset"]
}

// GetBatchID returns the batch identifier, falling back to the message key
func (m *IncomingMessage) GetBatchID() string {
	if m.Batch != nil && m.Batch.BatchID != "" {
		return m.Batch.BatchID
	}
	return m.Key
}

// Records returns the batch's source records, stamping the dataset label on
// rows that arrived without one so downstream ranking can look up priority.
func (m *IncomingMessage) Records() []models.SourceRecord {
	if m.Batch == nil {
		return nil
	}
	records := m.Batch.Records
	for i := range records {
		if records[i].Dataset == "" {
			records[i].Dataset = m.Batch.Dataset
		}
		if records[i].CountryCode == "" {
			records[i].CountryCode = m.Batch.CountryCode
		}
	}
	return records
}
