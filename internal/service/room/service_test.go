package room_test

import (
	"strings"
	"testing"
	"time"

	roomservice "github.com/pairpad/backend/internal/service/room"
)

func TestCreateAndGet(t *testing.T) {
	svc := roomservice.NewService(time.Minute)

	created := svc.Create("")
	if created.ID == "" {
		t.Fatal("expected a generated room id")
	}
	if !strings.HasPrefix(created.Content, "// Welcome to the coding interview!") {
		t.Fatalf("unexpected template content: %q", created.Content)
	}
	if len(created.Participants) != 0 {
		t.Fatalf("expected empty membership, got %d", len(created.Participants))
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("unexpected room id: got %s want %s", got.ID, created.ID)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected a creation timestamp")
	}
}

func TestCreatePythonTemplate(t *testing.T) {
	svc := roomservice.NewService(time.Minute)

	created := svc.Create("python")
	if !strings.HasPrefix(created.Content, "# Welcome to the coding interview!") {
		t.Fatalf("unexpected python template: %q", created.Content)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := roomservice.NewService(time.Minute)

	if _, err := svc.Get("missing"); err != roomservice.ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	svc := roomservice.NewService(time.Minute)

	created := svc.Create("")
	svc.Delete(created.ID)
	svc.Delete(created.ID)

	if _, err := svc.Get(created.ID); err != roomservice.ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound after delete, got %v", err)
	}
}

func TestJoinLeaveCounts(t *testing.T) {
	svc := roomservice.NewService(time.Minute)
	created := svc.Create("")

	_, count, err := svc.Join(created.ID, "conn-a")
	if err != nil {
		t.Fatalf("Join err: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	_, count, err = svc.Join(created.ID, "conn-b")
	if err != nil {
		t.Fatalf("Join err: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}

	count, ok := svc.Leave(created.ID, "conn-a")
	if !ok {
		t.Fatal("expected Leave to find the room")
	}
	if count != 1 {
		t.Fatalf("expected count 1 after leave, got %d", count)
	}
}

func TestJoinIsIdempotentPerConnection(t *testing.T) {
	svc := roomservice.NewService(time.Minute)
	created := svc.Create("")

	if _, _, err := svc.Join(created.ID, "conn-a"); err != nil {
		t.Fatalf("Join err: %v", err)
	}
	_, count, err := svc.Join(created.ID, "conn-a")
	if err != nil {
		t.Fatalf("Join err: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected duplicate join to keep count 1, got %d", count)
	}
}

func TestJoinNotFound(t *testing.T) {
	svc := roomservice.NewService(time.Minute)

	if _, _, err := svc.Join("missing", "conn-a"); err != roomservice.ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestSetContentLastWriteWins(t *testing.T) {
	svc := roomservice.NewService(time.Minute)
	created := svc.Create("")

	if !svc.SetContent(created.ID, "x = 1") {
		t.Fatal("expected SetContent to find the room")
	}
	if !svc.SetContent(created.ID, "x = 2") {
		t.Fatal("expected SetContent to find the room")
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got.Content != "x = 2" {
		t.Fatalf("expected last write to win, got %q", got.Content)
	}
}

func TestSetContentMissingRoom(t *testing.T) {
	svc := roomservice.NewService(time.Minute)

	if svc.SetContent("missing", "x = 1") {
		t.Fatal("expected SetContent to report a missing room")
	}
}

func TestReclamationDeletesEmptyRoom(t *testing.T) {
	svc := roomservice.NewService(50 * time.Millisecond)
	created := svc.Create("")

	if _, _, err := svc.Join(created.ID, "conn-a"); err != nil {
		t.Fatalf("Join err: %v", err)
	}
	if _, ok := svc.Leave(created.ID, "conn-a"); !ok {
		t.Fatal("expected Leave to find the room")
	}

	// Still retrievable inside the grace period.
	if _, err := svc.Get(created.ID); err != nil {
		t.Fatalf("expected room to survive the grace period, got %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := svc.Get(created.ID); err == roomservice.ErrRoomNotFound {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected room to be reclaimed after the cleanup delay")
}

func TestReclamationSkipsRejoinedRoom(t *testing.T) {
	svc := roomservice.NewService(50 * time.Millisecond)
	created := svc.Create("")

	if _, _, err := svc.Join(created.ID, "conn-a"); err != nil {
		t.Fatalf("Join err: %v", err)
	}
	svc.SetContent(created.ID, "x = 1")
	svc.Leave(created.ID, "conn-a")

	// Rejoin before the timer fires.
	if _, _, err := svc.Join(created.ID, "conn-b"); err != nil {
		t.Fatalf("rejoin err: %v", err)
	}

	time.Sleep(150 * time.Millisecond)

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("expected rejoined room to survive, got %v", err)
	}
	if got.Content != "x = 1" {
		t.Fatalf("expected content to survive reclamation check, got %q", got.Content)
	}
}

func TestLeaveMissingRoom(t *testing.T) {
	svc := roomservice.NewService(time.Minute)

	if _, ok := svc.Leave("missing", "conn-a"); ok {
		t.Fatal("expected Leave to report a missing room")
	}
}
