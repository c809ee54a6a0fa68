package amqp

import (
	"encoding/json"
	"time"
)

// Sync operations carried by a message.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// TransactionSyncMessage is the lightweight change notification published
// on every create/delete. It carries only the id and the operation; the
// worker fetches the full record from local storage.
type TransactionSyncMessage struct {
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id, op string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
