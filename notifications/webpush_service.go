package notifications

import (
	"encoding/json"
	"fmt"
	"log"

	webpush "github.com/SherClockHolmes/webpush-go"
	config "github.com/anjiri1684/estate_market/configs"
)

// SendWebPush delivers a browser push for a stored subscription JSON string.
// Some clients register the subscription wrapped as {"subscription": {...}};
// both shapes are accepted.
func SendWebPush(subscriptionJSON, title, body string, data map[string]interface{}) ChannelResult {
	sub, err := parseSubscription(subscriptionJSON)
	if err != nil {
		return ChannelResult{Detail: fmt.Sprintf("bad subscription: %v", err)}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"title": title,
		"body":  body,
		"data":  data,
	})
	if err != nil {
		return ChannelResult{Attempted: true, Detail: fmt.Sprintf("marshal: %v", err)}
	}

	resp, err := webpush.SendNotification(payload, sub, &webpush.Options{
		Subscriber:      config.Config("VAPID_SUBSCRIBER"),
		VAPIDPublicKey:  config.Config("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: config.Config("VAPID_PRIVATE_KEY"),
		TTL:             30,
	})
	if err != nil {
		log.Printf("Web push failed: %v", err)
		return ChannelResult{Attempted: true, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return ChannelResult{Attempted: true, Detail: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	return ChannelResult{Attempted: true, Delivered: true}
}

func parseSubscription(subscriptionJSON string) (*webpush.Subscription, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal([]byte(subscriptionJSON), &outer); err != nil {
		return nil, err
	}

	raw := []byte(subscriptionJSON)
	// unwrap the double-nested registration shape
	if nested, ok := outer["subscription"]; ok {
		if _, hasEndpoint := outer["endpoint"]; !hasEndpoint {
			raw = nested
		}
	}

	var sub webpush.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, err
	}
	if sub.Endpoint == "" {
		return nil, fmt.Errorf("subscription has no endpoint")
	}
	return &sub, nil
}
