package amqp

import (
	"encoding/json"
	"time"

	"github.com/aakb/pretix-itk-export/internal/core"
)

// ExportRequestMessage asks the worker to run one report over a window.
// Nil bounds leave that side of the window open.
type ExportRequestMessage struct {
	Report    string     `json:"report"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

func NewExportRequestMessage(report string, start, end *time.Time) *ExportRequestMessage {
	return &ExportRequestMessage{
		Report:    report,
		Start:     start,
		End:       end,
		Timestamp: time.Now(),
	}
}

// Window returns the extraction window the request describes.
func (m *ExportRequestMessage) Window() core.Window {
	return core.Window{Start: m.Start, End: m.End}
}

func (m *ExportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExportRequestMessageFromJSON(data []byte) (*ExportRequestMessage, error) {
	var msg ExportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
