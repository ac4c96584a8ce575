package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/decoynet/decoy/internal/domain"
)

func testReport() domain.Report {
	return domain.Report{
		SessionID:     "s1",
		ScamDetected:  true,
		RiskTier:      domain.TierConfirmedScam,
		ScamType:      domain.ScamOTPTheft,
		TotalMessages: 12,
		Intelligence:  map[string][]string{"phone": {"9876543210"}},
		AgentNotes:    "Scam Type: otp_theft. Extracted 1 intelligence items. Resolution: checklist complete.",
		ResolvedAt:    time.Now().UTC(),
	}
}

func TestHTTPNotifier_Delivers(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Decode failed: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(srv.URL)
	if err := n.NotifyResolution(context.Background(), testReport()); err != nil {
		t.Fatalf("NotifyResolution failed: %v", err)
	}

	if received["sessionId"] != "s1" {
		t.Errorf("sessionId = %v", received["sessionId"])
	}
	if received["scamDetected"] != true {
		t.Errorf("scamDetected = %v", received["scamDetected"])
	}
	if received["totalMessagesExchanged"] != float64(12) {
		t.Errorf("totalMessagesExchanged = %v", received["totalMessagesExchanged"])
	}
	if _, ok := received["extractedIntelligence"]; !ok {
		t.Error("extractedIntelligence missing from payload")
	}
}

func TestHTTPNotifier_RejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(srv.URL)
	if err := n.NotifyResolution(context.Background(), testReport()); err == nil {
		t.Error("Expected error for 500 response")
	}
}

func TestHTTPNotifier_Unreachable(t *testing.T) {
	n := NewHTTPNotifier("http://127.0.0.1:1")
	if err := n.NotifyResolution(context.Background(), testReport()); err == nil {
		t.Error("Expected error for unreachable callback")
	}
}

func TestNopNotifier(t *testing.T) {
	if err := (NopNotifier{}).NotifyResolution(context.Background(), testReport()); err != nil {
		t.Errorf("NopNotifier returned %v", err)
	}
}
