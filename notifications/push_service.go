package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "github.com/anjiri1684/estate_market/configs"
)

const defaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

// ChannelResult captures one delivery channel's outcome. Outcomes are logged
// and inspected by the dispatcher, never raised to the chat pipeline.
type ChannelResult struct {
	Attempted bool
	Delivered bool
	Detail    string
}

type expoPayload struct {
	To       string                 `json:"to"`
	Title    string                 `json:"title"`
	Body     string                 `json:"body"`
	Data     map[string]interface{} `json:"data"`
	Priority string                 `json:"priority"`
}

// SendExpoPush delivers a mobile push through Expo. Tokens that are not
// well-formed ExponentPushToken values are skipped without an attempt.
func SendExpoPush(expoToken, title, body string, data map[string]interface{}) ChannelResult {
	if expoToken == "" || !strings.HasPrefix(expoToken, "ExponentPushToken") {
		return ChannelResult{Detail: "invalid_token"}
	}

	payload := expoPayload{
		To:       expoToken,
		Title:    title,
		Body:     body,
		Data:     data,
		Priority: "high",
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return ChannelResult{Attempted: true, Detail: fmt.Sprintf("marshal: %v", err)}
	}

	pushURL := config.Config("EXPO_PUSH_URL")
	if pushURL == "" {
		pushURL = defaultExpoPushURL
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(pushURL, "application/json", bytes.NewBuffer(raw))
	if err != nil {
		log.Printf("Expo push request failed: %v", err)
		return ChannelResult{Attempted: true, Detail: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("Expo push error: Status %d, Body: %s", resp.StatusCode, string(respBody))
		return ChannelResult{Attempted: true, Detail: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	return ChannelResult{Attempted: true, Delivered: true, Detail: string(respBody)}
}
