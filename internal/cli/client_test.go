package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_SubmitJob(t *testing.T) {
	var got SubmitJobRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/jobs" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Error(err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.SubmitJob(SubmitJobRequest{
		SourceAddress:      "gs://bucket/in.mp3",
		DestinationAddress: "gs://bucket/out/",
	})
	if err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}
	if got.SourceAddress != "gs://bucket/in.mp3" {
		t.Errorf("request body not sent: %+v", got)
	}
}

func TestClient_GetState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"logs":["job.accepted job_id=j1"],"started_jobs":3,"finished_jobs":2}}`))
	}))
	defer srv.Close()

	state, err := NewClient(srv.URL).GetState()
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state.StartedJobs != 3 || state.FinishedJobs != 2 {
		t.Errorf("unexpected state: %+v", state)
	}
	if len(state.Logs) != 1 {
		t.Errorf("unexpected logs: %v", state.Logs)
	}
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST","message":"source_address is required"}}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).SubmitJob(SubmitJobRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "BAD_REQUEST: source_address is required" {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.2.3","uptime_s":42.5,"started_jobs":1,"finished_jobs":1}`))
	}))
	defer srv.Close()

	health, err := NewClient(srv.URL).Health()
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Status != "ok" || health.Version != "1.2.3" {
		t.Errorf("unexpected health: %+v", health)
	}
}
