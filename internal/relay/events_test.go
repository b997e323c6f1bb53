package relay_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lampions/internal/relay"
)

const sesEventJSON = `{
  "Records": [
    {
      "eventSource": "aws:ses",
      "ses": {
        "mail": {
          "messageId": "msg-1"
        }
      }
    }
  ]
}`

func TestParseEvent_DirectSESEvent(t *testing.T) {
	event, err := relay.ParseEvent([]byte(sesEventJSON))
	require.NoError(t, err)
	assert.Equal(t, []string{"msg-1"}, event.MessageIDs)
	assert.Empty(t, event.SubscribeURL)
}

func TestParseEvent_SNSNotification(t *testing.T) {
	wrapped, err := json.Marshal(map[string]string{
		"Type":    "Notification",
		"Message": sesEventJSON,
	})
	require.NoError(t, err)

	event, err := relay.ParseEvent(wrapped)
	require.NoError(t, err)
	assert.Equal(t, []string{"msg-1"}, event.MessageIDs)
}

func TestParseEvent_SubscriptionConfirmation(t *testing.T) {
	body := []byte(`{"Type":"SubscriptionConfirmation","SubscribeURL":"https://sns.example/confirm"}`)
	event, err := relay.ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "https://sns.example/confirm", event.SubscribeURL)
	assert.Empty(t, event.MessageIDs)
}

func TestParseEvent_Malformed(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `{oops`},
		{"no records", `{"Records":[]}`},
		{"no message id", `{"Records":[{"ses":{"mail":{}}}]}`},
		{"confirmation without url", `{"Type":"SubscriptionConfirmation"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := relay.ParseEvent([]byte(tc.body))
			assert.Error(t, err)
		})
	}
}
