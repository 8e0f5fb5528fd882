package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/utility/fixed"
)

func TestMiddlewarePushover_WithContractClosed(t *testing.T) {
	var (
		mu   sync.Mutex
		form url.Values
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm failed: %v", err)
		}
		mu.Lock()
		form = r.PostForm
		mu.Unlock()
		_, _ = w.Write([]byte(`{"status":1}`))
	}))
	defer srv.Close()

	p := NewPushover(zap.NewNop(), srv.URL, "user-key", "app-token", "")

	profit := fixed.MustParse("1.5")
	var handlerCalled bool
	wrapped := p.WithContractClosed(func(ctx context.Context, info common.ContractInfo) {
		handlerCalled = true
	})

	wrapped(context.Background(), common.ContractInfo{
		ContractID:     77,
		DisplayMessage: "Contract parameter: Over 3",
		Profit:         &profit,
		Currency:       "USD",
	})
	p.Wait()

	if !handlerCalled {
		t.Error("Handler not called")
	}

	mu.Lock()
	defer mu.Unlock()
	if form.Get("token") != "app-token" || form.Get("user") != "user-key" {
		t.Errorf("Unexpected credentials: %v", form)
	}
	if form.Has("device") {
		t.Error("Empty device should not be sent")
	}
	if form.Get("title") != "Contract Won" {
		t.Errorf("Expected 'Contract Won', got %q", form.Get("title"))
	}
	msg := form.Get("message")
	for _, want := range []string{"id = 77", "Contract parameter: Over 3", "profit = 1.50 USD"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Message %q does not contain %q", msg, want)
		}
	}
}

func TestMiddlewarePushover_Titles(t *testing.T) {
	loss := fixed.MustParse("-1")
	zero := fixed.MustParse("0")

	tests := []struct {
		name string
		info common.ContractInfo
		want string
	}{
		{"lost", common.ContractInfo{Profit: &loss}, "Contract Lost"},
		{"break even", common.ContractInfo{Profit: &zero}, "Contract Closed"},
		{"no profit", common.ContractInfo{}, "Contract Closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if title, _ := notification(tt.info); title != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, title)
			}
		})
	}
}

func TestMiddlewarePushover_ErrorIsLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":0,"errors":["user key is invalid"]}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	core, logs := observer.New(zap.ErrorLevel)
	p := NewPushover(zap.New(core), srv.URL, "bad", "token", "phone")

	p.WithContractClosed(NoopContractClsHdl)(context.Background(), common.ContractInfo{ContractID: 1})
	p.Wait()

	entries := logs.FilterMessage("unable to send pushover notification").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 error entry, got %d", len(entries))
	}
	if !strings.Contains(entries[0].ContextMap()["error"].(string), "user key is invalid") {
		t.Errorf("Unexpected error field: %v", entries[0].ContextMap())
	}
}
