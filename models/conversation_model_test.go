package models

import (
	"testing"
)

func ptr(v uint) *uint { return &v }

func TestHasParticipant(t *testing.T) {
	c := &Conversation{ID: 1, OwnerID: 10, CounterpartID: ptr(20), MediatorID: ptr(30)}

	for _, id := range []uint{10, 20, 30} {
		if !c.HasParticipant(id) {
			t.Fatalf("user %d should be a participant", id)
		}
	}
	if c.HasParticipant(40) {
		t.Fatal("user 40 is not a participant")
	}

	bare := &Conversation{ID: 2, OwnerID: 10}
	if bare.HasParticipant(20) {
		t.Fatal("empty slots must not match")
	}
}

func TestRecipientForOwnerPrefersCounterpart(t *testing.T) {
	c := &Conversation{OwnerID: 10, CounterpartID: ptr(20), MediatorID: ptr(30)}
	recipient, ok := c.RecipientFor(10)
	if !ok || recipient != 20 {
		t.Fatalf("owner's message should go to the counterpart, got %d ok=%t", recipient, ok)
	}
}

func TestRecipientForOwnerFallsBackToMediator(t *testing.T) {
	c := &Conversation{OwnerID: 10, MediatorID: ptr(30)}
	recipient, ok := c.RecipientFor(10)
	if !ok || recipient != 30 {
		t.Fatalf("without a counterpart the mediator receives, got %d ok=%t", recipient, ok)
	}
}

func TestRecipientForOwnerAloneHasNoRecipient(t *testing.T) {
	c := &Conversation{OwnerID: 10}
	if _, ok := c.RecipientFor(10); ok {
		t.Fatal("a conversation with only an owner has no recipient")
	}
}

func TestRecipientForOthersIsOwner(t *testing.T) {
	c := &Conversation{OwnerID: 10, CounterpartID: ptr(20), MediatorID: ptr(30)}
	for _, sender := range []uint{20, 30} {
		recipient, ok := c.RecipientFor(sender)
		if !ok || recipient != 10 {
			t.Fatalf("sender %d should address the owner, got %d ok=%t", sender, recipient, ok)
		}
	}
}
