package amqp

import (
	"encoding/json"
	"time"

	"playstats/internal/core"
)

// MonthlyInstallsMessage carries the monthly summary of one package.
type MonthlyInstallsMessage struct {
	Bucket      string                `json:"bucket"`
	Package     string                `json:"package"`
	Months      []core.MonthlySummary `json:"months"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

// NewMonthlyInstallsMessage creates a message stamped with the current time
func NewMonthlyInstallsMessage(bucket, pkg string, months []core.MonthlySummary) *MonthlyInstallsMessage {
	if months == nil {
		months = []core.MonthlySummary{}
	}
	return &MonthlyInstallsMessage{
		Bucket:      bucket,
		Package:     pkg,
		Months:      months,
		GeneratedAt: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *MonthlyInstallsMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MonthlyInstallsMessageFromJSON creates a message from JSON bytes
func MonthlyInstallsMessageFromJSON(data []byte) (*MonthlyInstallsMessage, error) {
	var msg MonthlyInstallsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
