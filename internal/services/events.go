package services

import (
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Notification topics. The CLI subscribes to these and renders each event as
// a toast-style line; nothing in the core ever blocks on a subscriber.
const (
	TopicStudentSaved   = "student.saved"
	TopicStudentDeleted = "student.deleted"
	TopicExamSaved      = "exam.saved"
	TopicExamDeleted    = "exam.deleted"
)

// RecordEvent is the payload published after every successful mutation.
type RecordEvent struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// publishEvent emits a RecordEvent on the bus. A nil publisher disables
// notifications; publish failures are logged and never fail the mutation
// that triggered them.
func publishEvent(pub message.Publisher, logger *slog.Logger, topic string, ev RecordEvent) {
	if pub == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Warn("encode notification", "topic", topic, "error", err)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := pub.Publish(topic, msg); err != nil {
		logger.Warn("publish notification", "topic", topic, "error", err)
	}
}
