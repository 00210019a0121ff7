package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrInvalidMessage = errors.New("amqp: invalid collapse request")

// CollapseRequest asks a worker to collapse duplicate transactions for one user.
// It carries only the user id; the worker reads current state from the store.
type CollapseRequest struct {
	UserID    int64     `json:"userId"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewCollapseRequest(userID int64, reason string) *CollapseRequest {
	return &CollapseRequest{
		UserID:    userID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *CollapseRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CollapseRequestFromJSON decodes and validates a message body
func CollapseRequestFromJSON(data []byte) (*CollapseRequest, error) {
	var msg CollapseRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID <= 0 {
		return nil, ErrInvalidMessage
	}
	return &msg, nil
}
