package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"
)

var hexToken32 = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestCreateEventGeneratesToken(t *testing.T) {
	st := newMemStore()
	host := st.addUser("Host", "host@example.com", "x")
	r := buildTestRouter(st)

	body := fmt.Sprintf(`{
		"title": "Go Meetup",
		"description": "monthly",
		"longitude": 13.4,
		"latitude": 52.5,
		"startTime": %q,
		"endTime": %q
	}`, time.Now().Format(time.RFC3339), time.Now().Add(2*time.Hour).Format(time.RFC3339))

	resp := postJSON(t, r, "/events", body, bearerToken(t, host.ID))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var event struct {
		ID         int64  `json:"id"`
		EventToken string `json:"event_token"`
		HostID     string `json:"host_id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &event); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !hexToken32.MatchString(event.EventToken) {
		t.Errorf("event token %q is not 128-bit hex", event.EventToken)
	}
	if event.HostID != host.ID.String() {
		t.Errorf("host_id %q, want creator %q", event.HostID, host.ID)
	}
	if _, ok := st.events[event.ID]; !ok {
		t.Error("event not persisted")
	}
}

func TestCreateEventRequiresTitleAndCoordinates(t *testing.T) {
	st := newMemStore()
	host := st.addUser("Host", "host@example.com", "x")
	r := buildTestRouter(st)

	cases := []struct {
		name string
		body string
	}{
		{"missing title", `{"longitude":1,"latitude":2,"startTime":"2026-01-01T10:00:00Z","endTime":"2026-01-01T12:00:00Z"}`},
		{"non-float longitude", `{"title":"x","longitude":"east","latitude":2,"startTime":"2026-01-01T10:00:00Z","endTime":"2026-01-01T12:00:00Z"}`},
		{"bad timestamp", `{"title":"x","longitude":1,"latitude":2,"startTime":"tomorrow","endTime":"2026-01-01T12:00:00Z"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, r, "/events", tc.body, bearerToken(t, host.ID))
			if resp.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.Code)
			}
		})
	}
}

func TestUpdateEventByNonHostReportsNotFound(t *testing.T) {
	st := newMemStore()
	host := st.addUser("Host", "host@example.com", "x")
	other := st.addUser("Other", "other@example.com", "x")
	event := st.addEvent(host.ID, "Original", "tok", time.Now(), time.Now().Add(time.Hour))
	r := buildTestRouter(st)

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/events/%d", event.ID),
		jsonBody(`{"title":"Hijacked"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, other.ID))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-host update, got %d", resp.Code)
	}
	if st.events[event.ID].Title != "Original" {
		t.Error("non-host update modified the event")
	}
}

func TestUpdateEventPartialFields(t *testing.T) {
	st := newMemStore()
	host := st.addUser("Host", "host@example.com", "x")
	event := st.addEvent(host.ID, "Original", "tok", time.Now(), time.Now().Add(time.Hour))
	r := buildTestRouter(st)

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/events/%d", event.ID),
		jsonBody(`{"title":"Renamed"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, host.ID))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if st.events[event.ID].Title != "Renamed" {
		t.Error("title not updated")
	}
	if st.events[event.ID].Longitude != 13.4 {
		t.Error("unrelated field changed by partial update")
	}
}

func TestDeleteEvent(t *testing.T) {
	st := newMemStore()
	host := st.addUser("Host", "host@example.com", "x")
	other := st.addUser("Other", "other@example.com", "x")
	event := st.addEvent(host.ID, "Doomed", "tok", time.Now(), time.Now().Add(time.Hour))
	r := buildTestRouter(st)

	del := func(id int64, auth string) int {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/events/%d", id), nil)
		req.Header.Set("Authorization", auth)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp.Code
	}

	if code := del(event.ID, bearerToken(t, other.ID)); code != http.StatusNotFound {
		t.Errorf("non-host delete: expected 404, got %d", code)
	}
	if _, ok := st.events[event.ID]; !ok {
		t.Fatal("non-host delete removed the event")
	}
	if code := del(event.ID, bearerToken(t, host.ID)); code != http.StatusOK {
		t.Errorf("host delete: expected 200, got %d", code)
	}
	if _, ok := st.events[event.ID]; ok {
		t.Error("event still present after host delete")
	}
	// Deleting a nonexistent event must report failure, not succeed silently.
	if code := del(event.ID, bearerToken(t, host.ID)); code != http.StatusNotFound {
		t.Errorf("repeat delete: expected 404, got %d", code)
	}
}

func TestGetEventJoinsHostProfile(t *testing.T) {
	st := newMemStore()
	host := st.addUser("Host", "host@example.com", "x")
	event := st.addEvent(host.ID, "Meetup", "tok", time.Now(), time.Now().Add(time.Hour))
	r := buildTestRouter(st)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/events/%d", event.ID), nil)
	req.Header.Set("Authorization", bearerToken(t, host.ID))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		HostName  string `json:"host_name"`
		HostEmail string `json:"host_email"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.HostName != "Host" || body.HostEmail != "host@example.com" {
		t.Errorf("host profile not joined: %+v", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/events/9999", nil)
	req.Header.Set("Authorization", bearerToken(t, host.ID))
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Errorf("unknown event: expected 404, got %d", resp.Code)
	}
}

func TestNearbyEventsRadius(t *testing.T) {
	st := newMemStore()
	user := st.addUser("U", "u@example.com", "x")
	r := buildTestRouter(st)

	get := func(query string) int {
		req := httptest.NewRequest(http.MethodGet, "/events/nearby"+query, nil)
		req.Header.Set("Authorization", bearerToken(t, user.ID))
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp.Code
	}

	if code := get("?longitude=13.4&latitude=52.5"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if st.lastNearby.radius != 10000 {
		t.Errorf("default radius: got %v, want 10000", st.lastNearby.radius)
	}
	if st.lastNearby.longitude != 13.4 || st.lastNearby.latitude != 52.5 {
		t.Errorf("coordinates not passed through: %+v", st.lastNearby)
	}

	if code := get("?longitude=13.4&latitude=52.5&radius=500"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if st.lastNearby.radius != 500 {
		t.Errorf("explicit radius: got %v, want 500", st.lastNearby.radius)
	}

	if code := get("?latitude=52.5"); code != http.StatusBadRequest {
		t.Errorf("missing longitude: expected 400, got %d", code)
	}
}

func TestPublicEventListing(t *testing.T) {
	st := newMemStore()
	host := st.addUser("Host", "host@example.com", "x")
	st.addEvent(host.ID, "One", "tok1", time.Now(), time.Now().Add(time.Hour))
	st.addEvent(host.ID, "Two", "tok2", time.Now(), time.Now().Add(time.Hour))
	r := buildTestRouter(st)

	// No Authorization header: the root listing is public.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var events []json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &events); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events, got %d", len(events))
	}
}
