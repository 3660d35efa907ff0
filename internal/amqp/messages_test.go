package amqp

import (
	"strings"
	"testing"
	"time"
)

func TestReportExportMessageRoundTrip(t *testing.T) {
	msg := NewReportExportMessage(42)
	if msg.UserID != 42 {
		t.Fatalf("expected user 42, got %d", msg.UserID)
	}
	if msg.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(body), `"user_id":42`) {
		t.Fatalf("unexpected payload: %s", body)
	}

	back, err := ReportExportMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.UserID != msg.UserID {
		t.Fatalf("user mismatch: %d != %d", back.UserID, msg.UserID)
	}
	if !back.Timestamp.Truncate(time.Millisecond).Equal(msg.Timestamp.Truncate(time.Millisecond)) {
		t.Fatalf("timestamp mismatch: %v != %v", back.Timestamp, msg.Timestamp)
	}
}

func TestReportExportMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := ReportExportMessageFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
