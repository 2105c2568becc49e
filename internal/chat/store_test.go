package chat

import (
	"fmt"
	"testing"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/model"
)

func TestStore_AppendAndMessages(t *testing.T) {
	s := NewStore(0)

	first := s.Append("session-1", model.RoleUser, "what about bitcoin?")
	second := s.Append("session-1", model.RoleAssistant, "holding steady")

	if first.ID == second.ID {
		t.Fatal("message IDs must be unique")
	}
	if first.Role != model.RoleUser || second.Role != model.RoleAssistant {
		t.Fatalf("roles not preserved: %s, %s", first.Role, second.Role)
	}

	msgs := s.Messages("session-1")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "what about bitcoin?" || msgs[1].Content != "holding steady" {
		t.Fatalf("order not preserved: %+v", msgs)
	}
}

func TestStore_SessionsIsolated(t *testing.T) {
	s := NewStore(0)
	s.Append("a", model.RoleUser, "hello")
	s.Append("b", model.RoleUser, "world")

	if got := len(s.Messages("a")); got != 1 {
		t.Fatalf("expected 1 message in session a, got %d", got)
	}
	if got := len(s.Messages("unknown")); got != 0 {
		t.Fatalf("expected empty transcript for unknown session, got %d", got)
	}
}

func TestStore_CapDropsOldest(t *testing.T) {
	s := NewStore(3)
	for i := 0; i < 5; i++ {
		s.Append("s", model.RoleUser, fmt.Sprintf("msg-%d", i))
	}

	msgs := s.Messages("s")
	if len(msgs) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(msgs))
	}
	if msgs[0].Content != "msg-2" || msgs[2].Content != "msg-4" {
		t.Fatalf("expected oldest dropped, got %+v", msgs)
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStore(0)
	s.Append("s", model.RoleUser, "hello")
	s.Clear("s")

	if got := len(s.Messages("s")); got != 0 {
		t.Fatalf("expected cleared session, got %d messages", got)
	}
}

func TestStore_MessagesReturnsCopy(t *testing.T) {
	s := NewStore(0)
	s.Append("s", model.RoleUser, "original")

	msgs := s.Messages("s")
	msgs[0].Content = "mutated"

	if got := s.Messages("s")[0].Content; got != "original" {
		t.Fatalf("store transcript mutated through returned slice: %q", got)
	}
}
