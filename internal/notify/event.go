package notify

import "encoding/json"

// Event names on the wire.
const (
	EventJoinRoom        = "join-room"
	EventConfigUpdated   = "config-updated"
	EventConfigRefresh   = "config-refresh"
	EventFeedbackRefresh = "feedback-refresh"
)

// Frame is one JSON text message: {"event": ..., "data": ...}.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewFrame encodes data into a frame. A nil data leaves Data empty.
func NewFrame(event string, data interface{}) (Frame, error) {
	f := Frame{Event: event}
	if data == nil {
		return f, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return Frame{}, err
	}
	f.Data = b
	return f, nil
}

func mustFrame(event string, data interface{}) Frame {
	f, err := NewFrame(event, data)
	if err != nil {
		panic(err)
	}
	return f
}

// BranchHint is the payload of config-updated and refresh frames.
type BranchHint struct {
	Branch string `json:"branch"`
}

// Message is what travels through a Broker. Empty Rooms means every
// connection.
type Message struct {
	Rooms []string `json:"rooms,omitempty"`
	Frame Frame    `json:"frame"`
}

// ConfigRefresh is the hint sent after a configuration of branch changed.
func ConfigRefresh(branch string) Message {
	return Message{
		Rooms: TargetRooms(branch),
		Frame: mustFrame(EventConfigRefresh, BranchHint{Branch: branch}),
	}
}

// FeedbackRefresh is the hint sent after feedback for branch arrived.
func FeedbackRefresh(branch string) Message {
	return Message{
		Rooms: TargetRooms(branch),
		Frame: mustFrame(EventFeedbackRefresh, BranchHint{Branch: branch}),
	}
}

// Broadcast reaches every connection with a payload-free event.
func Broadcast(event string) Message {
	return Message{Frame: Frame{Event: event}}
}
