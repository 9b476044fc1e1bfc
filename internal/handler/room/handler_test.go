package room

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	roomservice "github.com/pairpad/backend/internal/service/room"
)

func setupRouter() (*chi.Mux, *roomservice.Service) {
	svc := roomservice.NewService(time.Minute)
	handler := New(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, svc
}

func TestCreateRoom(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var body struct {
		RoomID string `json:"roomId"`
		URL    string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.RoomID == "" {
		t.Fatal("expected a room id")
	}
	if body.URL != "/room/"+body.RoomID {
		t.Fatalf("unexpected url: %q", body.URL)
	}
}

func TestCreateRoomPythonLanguage(t *testing.T) {
	r, svc := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader(`{"language":"python"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var body struct {
		RoomID string `json:"roomId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	created, err := svc.Get(body.RoomID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if !strings.HasPrefix(created.Content, "# Welcome") {
		t.Fatalf("expected python template, got %q", created.Content)
	}
}

func TestGetRoomSummary(t *testing.T) {
	r, svc := setupRouter()
	created := svc.Create("")
	if _, _, err := svc.Join(created.ID, "conn-a"); err != nil {
		t.Fatalf("Join err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/rooms/"+created.ID, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		RoomID           string `json:"roomId"`
		ParticipantCount int    `json:"participantCount"`
		CreatedAt        string `json:"createdAt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.RoomID != created.ID {
		t.Fatalf("unexpected room id: %s", body.RoomID)
	}
	if body.ParticipantCount != 1 {
		t.Fatalf("expected participant count 1, got %d", body.ParticipantCount)
	}
	if _, err := time.Parse(time.RFC3339, body.CreatedAt); err != nil {
		t.Fatalf("createdAt not RFC3339: %q", body.CreatedAt)
	}
}

func TestGetRoomNotFound(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/rooms/does-not-exist", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body["error"] != "Room not found" {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}
