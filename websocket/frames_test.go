package websocket

import (
	"testing"
)

func TestParseSubscribeFrame(t *testing.T) {
	frame, err := ParseFrame([]byte(`{"type":"subscribe","conversation_id":7}`))
	if err != nil {
		t.Fatalf("ParseFrame err: %v", err)
	}
	sub, ok := frame.(SubscribeFrame)
	if !ok {
		t.Fatalf("expected SubscribeFrame, got %T", frame)
	}
	if sub.ConversationID != 7 {
		t.Fatalf("unexpected conversation id: %d", sub.ConversationID)
	}
}

func TestParseMessageFrame(t *testing.T) {
	frame, err := ParseFrame([]byte(`{"type":"message","conversation_id":3,"content":"hi there"}`))
	if err != nil {
		t.Fatalf("ParseFrame err: %v", err)
	}
	msg, ok := frame.(MessageFrame)
	if !ok {
		t.Fatalf("expected MessageFrame, got %T", frame)
	}
	if msg.ConversationID != 3 || msg.Content != "hi there" {
		t.Fatalf("unexpected frame: %+v", msg)
	}
}

func TestParseReadFrame(t *testing.T) {
	frame, err := ParseFrame([]byte(`{"type":"read","conversation_id":3,"message_ids":[1,2,3]}`))
	if err != nil {
		t.Fatalf("ParseFrame err: %v", err)
	}
	read, ok := frame.(ReadFrame)
	if !ok {
		t.Fatalf("expected ReadFrame, got %T", frame)
	}
	if len(read.MessageIDs) != 3 || read.MessageIDs[0] != 1 || read.MessageIDs[2] != 3 {
		t.Fatalf("unexpected message ids: %v", read.MessageIDs)
	}
}

func TestParseUnknownTypeIsIgnored(t *testing.T) {
	frame, err := ParseFrame([]byte(`{"type":"typing","conversation_id":3}`))
	if err != nil {
		t.Fatalf("ParseFrame err: %v", err)
	}
	ignored, ok := frame.(IgnoredFrame)
	if !ok {
		t.Fatalf("expected IgnoredFrame, got %T", frame)
	}
	if ignored.Type != "typing" {
		t.Fatalf("unexpected type tag: %s", ignored.Type)
	}
}

func TestParseMissingConversationID(t *testing.T) {
	frame, err := ParseFrame([]byte(`{"type":"subscribe"}`))
	if err != nil {
		t.Fatalf("ParseFrame err: %v", err)
	}
	invalid, ok := frame.(InvalidFrame)
	if !ok {
		t.Fatalf("expected InvalidFrame, got %T", frame)
	}
	if invalid.Reason != "missing_conversation_id" {
		t.Fatalf("unexpected reason: %s", invalid.Reason)
	}
}

func TestParseNonPositiveConversationID(t *testing.T) {
	for _, payload := range []string{
		`{"type":"message","conversation_id":0,"content":"x"}`,
		`{"type":"message","conversation_id":-4,"content":"x"}`,
	} {
		frame, err := ParseFrame([]byte(payload))
		if err != nil {
			t.Fatalf("ParseFrame err: %v", err)
		}
		invalid, ok := frame.(InvalidFrame)
		if !ok {
			t.Fatalf("expected InvalidFrame for %s, got %T", payload, frame)
		}
		if invalid.Reason != "invalid_conversation_id" {
			t.Fatalf("unexpected reason: %s", invalid.Reason)
		}
	}
}

func TestParseMalformedPayloadReturnsError(t *testing.T) {
	if _, err := ParseFrame([]byte(`not json at all`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
	if _, err := ParseFrame([]byte(`"just a string"`)); err == nil {
		t.Fatal("expected error for non-object payload")
	}
}
