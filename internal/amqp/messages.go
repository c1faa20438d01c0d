package amqp

import (
	"encoding/json"
	"time"
)

// Operations that can dirty a day row.
const (
	OpScheduleUpdate = "schedule_update"
	OpClockOut       = "clock_out"
	OpPopulate       = "populate"
)

// DayChangedMessage tells the mirror worker that a day row changed in
// the local store. Only the date key travels; the worker re-reads the
// full row from the store so it always mirrors the latest state.
type DayChangedMessage struct {
	Date      string    `json:"date"` // YYYY-MM-DD
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDayChangedMessage(date, op string) *DayChangedMessage {
	return &DayChangedMessage{
		Date:      date,
		Op:        op,
		Timestamp: time.Now(),
	}
}

func (m *DayChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DayChangedMessageFromJSON(data []byte) (*DayChangedMessage, error) {
	var msg DayChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
