package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jiaban/internal/core"
	"jiaban/internal/schedule"
)

type fakeService struct {
	err        error
	lastDate   string
	lastFlag   bool
	lastYear   int
	lastMonth  int
	clockCalls int
}

func (f *fakeService) UpdateSchedule(ctx context.Context, date string, workday bool) (schedule.UpdateResult, error) {
	if f.err != nil {
		return schedule.UpdateResult{}, f.err
	}
	f.lastDate = date
	f.lastFlag = workday
	parsed, _ := core.ParseDate(date)
	return schedule.UpdateResult{Date: parsed, Workday: workday}, nil
}

func (f *fakeService) ClockOut(ctx context.Context) (schedule.ClockOutResult, error) {
	if f.err != nil {
		return schedule.ClockOutResult{}, f.err
	}
	f.clockCalls++
	return schedule.ClockOutResult{
		Date:       time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local),
		OffTime:    core.Clock{Hour: 19, Minute: 30},
		Daily:      1.5,
		MonthTotal: 1.5,
	}, nil
}

func (f *fakeService) DailySuggestion(ctx context.Context) (schedule.SuggestionResult, error) {
	if f.err != nil {
		return schedule.SuggestionResult{}, f.err
	}
	return schedule.SuggestionResult{Kind: schedule.SuggestWeekend}, nil
}

func (f *fakeService) PopulateMonth(ctx context.Context, year, month int) (schedule.PopulateResult, error) {
	if f.err != nil {
		return schedule.PopulateResult{}, f.err
	}
	f.lastYear = year
	f.lastMonth = month
	return schedule.PopulateResult{Year: year, Month: time.Month(month), Created: 30}, nil
}

func doRequest(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	rr := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	srv.Handler.ServeHTTP(rr, req)

	var resp apiResponse
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", rr.Body.String(), err)
		}
	}
	return rr, resp
}

func TestHealthEndpoints(t *testing.T) {
	srv := NewServer(":0", &fakeService{})
	defer srv.Shutdown(context.Background())

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestUpdateScheduleEndpoint(t *testing.T) {
	fake := &fakeService{}
	srv := NewServer(":0", fake)
	defer srv.Shutdown(context.Background())

	// Wrong method
	rr, _ := doRequest(t, srv, http.MethodGet, "/api/update-schedule", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Missing date
	rr, resp := doRequest(t, srv, http.MethodPost, "/api/update-schedule", `{"is_workday":true}`)
	if rr.Code != http.StatusBadRequest || resp.Status != "error" {
		t.Fatalf("expected 400 error, got %d %v", rr.Code, resp)
	}

	// Missing is_workday
	rr, _ = doRequest(t, srv, http.MethodPost, "/api/update-schedule", `{"date":"2024-06-05"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	// Success
	rr, resp = doRequest(t, srv, http.MethodPost, "/api/update-schedule", `{"date":"2024-06-05","is_workday":false}`)
	if rr.Code != 200 || resp.Status != "success" {
		t.Fatalf("expected 200 success, got %d %v", rr.Code, resp)
	}
	if fake.lastDate != "2024-06-05" || fake.lastFlag {
		t.Fatalf("service called with %q %v", fake.lastDate, fake.lastFlag)
	}
	if !strings.Contains(resp.Message, "休息日") {
		t.Fatalf("message: %s", resp.Message)
	}
}

func TestUpdateScheduleBadDateMapsTo400(t *testing.T) {
	srv := NewServer(":0", &fakeService{err: core.ErrInvalidDate})
	defer srv.Shutdown(context.Background())

	rr, resp := doRequest(t, srv, http.MethodPost, "/api/update-schedule", `{"date":"someday","is_workday":true}`)
	if rr.Code != http.StatusBadRequest || resp.Status != "error" {
		t.Fatalf("expected 400 error, got %d %v", rr.Code, resp)
	}
}

func TestClockOutEndpoint(t *testing.T) {
	fake := &fakeService{}
	srv := NewServer(":0", fake)
	defer srv.Shutdown(context.Background())

	rr, resp := doRequest(t, srv, http.MethodPost, "/api/clock-out", "")
	if rr.Code != 200 || resp.Status != "success" {
		t.Fatalf("expected 200 success, got %d %v", rr.Code, resp)
	}
	if fake.clockCalls != 1 {
		t.Fatalf("clock out called %d times", fake.clockCalls)
	}
	if !strings.Contains(resp.Message, "19:30:00") {
		t.Fatalf("message: %s", resp.Message)
	}
}

func TestGetSuggestionEndpoint(t *testing.T) {
	srv := NewServer(":0", &fakeService{})
	defer srv.Shutdown(context.Background())

	rr, _ := doRequest(t, srv, http.MethodPost, "/api/get-suggestion", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	rr, resp := doRequest(t, srv, http.MethodGet, "/api/get-suggestion", "")
	if rr.Code != 200 || resp.Status != "success" {
		t.Fatalf("expected 200 success, got %d %v", rr.Code, resp)
	}
	if !strings.Contains(resp.Message, "周末") {
		t.Fatalf("message: %s", resp.Message)
	}
}

func TestPopulateMonthEndpoint(t *testing.T) {
	fake := &fakeService{}
	srv := NewServer(":0", fake)
	defer srv.Shutdown(context.Background())

	rr, _ := doRequest(t, srv, http.MethodPost, "/api/populate-month", `{"month":6}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing year should be 400, got %d", rr.Code)
	}

	rr, resp := doRequest(t, srv, http.MethodPost, "/api/populate-month", `{"year":2024,"month":6}`)
	if rr.Code != 200 || resp.Status != "success" {
		t.Fatalf("expected 200 success, got %d %v", rr.Code, resp)
	}
	if fake.lastYear != 2024 || fake.lastMonth != 6 {
		t.Fatalf("service called with %d-%d", fake.lastYear, fake.lastMonth)
	}
}

func TestPopulateMonthInvalidMonthMapsTo400(t *testing.T) {
	srv := NewServer(":0", &fakeService{err: core.ErrInvalidMonth})
	defer srv.Shutdown(context.Background())

	rr, resp := doRequest(t, srv, http.MethodPost, "/api/populate-month", `{"year":2024,"month":13}`)
	if rr.Code != http.StatusBadRequest || resp.Status != "error" {
		t.Fatalf("expected 400 error, got %d %v", rr.Code, resp)
	}
}

func TestCommandDispatch(t *testing.T) {
	fake := &fakeService{}
	srv := NewServer(":0", fake)
	defer srv.Shutdown(context.Background())

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "update_schedule",
			body:     `{"command":"update_schedule","parameters":{"target_date":"2024-06-05","is_workday":true}}`,
			wantCode: 200,
		},
		{
			name:     "update_schedule missing params",
			body:     `{"command":"update_schedule","parameters":{}}`,
			wantCode: 400,
		},
		{
			name:     "populate_month",
			body:     `{"command":"populate_month","parameters":{"year":2024,"month":7}}`,
			wantCode: 200,
		},
		{
			name:     "clock_out",
			body:     `{"command":"clock_out","parameters":{}}`,
			wantCode: 200,
		},
		{
			name:     "get_suggestion",
			body:     `{"command":"get_suggestion","parameters":{}}`,
			wantCode: 200,
		},
		{
			name:     "unknown command",
			body:     `{"command":"fire_me","parameters":{}}`,
			wantCode: 400,
		},
		{
			name:     "malformed body",
			body:     `{"command":`,
			wantCode: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, _ := doRequest(t, srv, http.MethodPost, "/api/command", tt.body)
			if rr.Code != tt.wantCode {
				t.Fatalf("status=%d, want %d (body %s)", rr.Code, tt.wantCode, rr.Body.String())
			}
		})
	}

	if fake.lastYear != 2024 || fake.lastMonth != 7 {
		t.Fatalf("populate_month dispatched with %d-%d", fake.lastYear, fake.lastMonth)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := NewServer(":0", &fakeService{})
	defer srv.Shutdown(context.Background())

	rr, _ := doRequest(t, srv, http.MethodGet, "/api/get-suggestion", "")
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
}
