package relay

import (
	"encoding/json"
	"fmt"
)

// Event is the parsed form of a receipt notification delivered to the
// relay, either a raw SES event or its SNS envelope.
type Event struct {
	// MessageIDs of the stored messages to process.
	MessageIDs []string
	// SubscribeURL is set instead when SNS asks to confirm a subscription.
	SubscribeURL string
}

type snsEnvelope struct {
	Type         string `json:"Type"`
	Message      string `json:"Message"`
	SubscribeURL string `json:"SubscribeURL"`
}

type sesEvent struct {
	Records []struct {
		SES struct {
			Mail struct {
				MessageID string `json:"messageId"`
			} `json:"mail"`
		} `json:"ses"`
	} `json:"Records"`
}

// ParseEvent decodes body into an Event.
func ParseEvent(body []byte) (Event, error) {
	var envelope snsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Event{}, fmt.Errorf("parse event: %w", err)
	}

	switch envelope.Type {
	case "SubscriptionConfirmation":
		if envelope.SubscribeURL == "" {
			return Event{}, fmt.Errorf("subscription confirmation without SubscribeURL")
		}
		return Event{SubscribeURL: envelope.SubscribeURL}, nil
	case "Notification":
		return parseSESEvent([]byte(envelope.Message))
	default:
		return parseSESEvent(body)
	}
}

func parseSESEvent(body []byte) (Event, error) {
	var event sesEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, fmt.Errorf("parse ses event: %w", err)
	}

	var ids []string
	for _, record := range event.Records {
		if id := record.SES.Mail.MessageID; id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return Event{}, fmt.Errorf("event contains no message IDs")
	}
	return Event{MessageIDs: ids}, nil
}
