package amqp

import (
	"encoding/json"
	"time"

	"budget/internal/core"
)

// ReportExportMessage asks the worker to rebuild and export one user's
// report. It carries only the user ID; the worker reads everything else
// from the database at processing time.
type ReportExportMessage struct {
	UserID    core.UserID `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewReportExportMessage(user core.UserID) *ReportExportMessage {
	return &ReportExportMessage{
		UserID:    user,
		Timestamp: time.Now(),
	}
}

func (m *ReportExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportExportMessageFromJSON(data []byte) (*ReportExportMessage, error) {
	var msg ReportExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
