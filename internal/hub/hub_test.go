package hub

import (
	"context"
	"testing"

	"github.com/DoyleJ11/lol-custom-teams/internal/lobby"
)

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, nil, nil)
	reply := make(chan *lobby.Lobby, 1)

	h.Inbox() <- CreateLobby{Code: "ZED123", Reply: reply}
	lb1 := <-reply

	h.Inbox() <- GetLobby{Code: "ZED123", Reply: reply}
	lb2 := <-reply

	if lb1 == nil || lb2 == nil || lb1 != lb2 {
		t.Fatalf("expected same lobby pointer")
	}
	if lb1.Code() != "ZED123" {
		t.Fatalf("unexpected code %q", lb1.Code())
	}
}

func TestHub_RemoveLobby(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, nil, nil)
	reply := make(chan *lobby.Lobby, 1)
	removed := make(chan bool, 1)

	h.Inbox() <- EnsureLobby{Code: "AHRI01", Reply: reply}
	if <-reply == nil {
		t.Fatalf("expected lobby")
	}

	h.Inbox() <- RemoveLobby{Code: "AHRI01", Reply: removed}
	if !<-removed {
		t.Fatalf("expected lobby to be removed")
	}

	h.Inbox() <- GetLobby{Code: "AHRI01", Reply: reply}
	if lb := <-reply; lb != nil {
		t.Fatalf("expected no lobby after removal")
	}

	h.Inbox() <- RemoveLobby{Code: "AHRI01", Reply: removed}
	if <-removed {
		t.Fatalf("second removal should report false")
	}
}
