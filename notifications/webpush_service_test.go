package notifications

import (
	"testing"
)

func TestParseSubscriptionPlain(t *testing.T) {
	sub, err := parseSubscription(`{"endpoint":"https://push.example/abc","keys":{"p256dh":"x","auth":"y"}}`)
	if err != nil {
		t.Fatalf("parseSubscription err: %v", err)
	}
	if sub.Endpoint != "https://push.example/abc" {
		t.Fatalf("unexpected endpoint: %s", sub.Endpoint)
	}
	if sub.Keys.P256dh != "x" || sub.Keys.Auth != "y" {
		t.Fatalf("unexpected keys: %+v", sub.Keys)
	}
}

func TestParseSubscriptionUnwrapsNestedShape(t *testing.T) {
	sub, err := parseSubscription(`{"subscription":{"endpoint":"https://push.example/abc","keys":{"p256dh":"x","auth":"y"}}}`)
	if err != nil {
		t.Fatalf("parseSubscription err: %v", err)
	}
	if sub.Endpoint != "https://push.example/abc" {
		t.Fatalf("nested subscription not unwrapped, endpoint: %q", sub.Endpoint)
	}
}

func TestParseSubscriptionRejectsMissingEndpoint(t *testing.T) {
	if _, err := parseSubscription(`{"keys":{"p256dh":"x","auth":"y"}}`); err == nil {
		t.Fatal("expected error for subscription without endpoint")
	}
	if _, err := parseSubscription(`not json`); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestSendExpoPushRejectsMalformedToken(t *testing.T) {
	result := SendExpoPush("not-an-expo-token", "t", "b", nil)
	if result.Attempted {
		t.Fatal("malformed token must not be attempted")
	}
	if result.Detail != "invalid_token" {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}
