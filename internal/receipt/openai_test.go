package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeCompletions serves a minimal OpenAI-compatible /chat/completions endpoint.
func fakeCompletions(t *testing.T, status int, content string, inspect func(body map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want Bearer test-key", got)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if inspect != nil {
			inspect(body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "quota exceeded", "type": "rate_limit"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1720000000,
			"model":   "gemini-2.5-flash",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
}

func newTestScanner(url string) *OpenAIScanner {
	return NewOpenAIScanner(OpenAIConfig{APIKey: "test-key", BaseURL: url + "/", Model: "gemini-2.5-flash"})
}

func TestOpenAIScanner_Scan(t *testing.T) {
	var captured map[string]any
	server := fakeCompletions(t, http.StatusOK,
		`{"merchantName":"Fresh Mart","totalAmount":150.75,"transactionDate":"2024-07-10T18:22:00"}`,
		func(body map[string]any) { captured = body })
	defer server.Close()

	img, _ := NewImage(pngBytes, "image/png", 0)
	got, err := newTestScanner(server.URL).Scan(context.Background(), img)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := Receipt{MerchantName: "Fresh Mart", TotalAmount: 150.75, TransactionDate: "2024-07-10"}
	if got != want {
		t.Errorf("Scan() = %+v, want %+v", got, want)
	}

	if captured["model"] != "gemini-2.5-flash" {
		t.Errorf("model = %v, want gemini-2.5-flash", captured["model"])
	}
	format, _ := captured["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format.type = %v, want json_schema", format["type"])
	}
	raw, _ := json.Marshal(captured["messages"])
	if !strings.Contains(string(raw), "data:image/png;base64,") {
		t.Errorf("expected the image to be sent as a data URL, got %s", raw)
	}
	if !strings.Contains(string(raw), "YYYY-MM-DD") {
		t.Errorf("expected the extraction prompt, got %s", raw)
	}
}

func TestOpenAIScanner_Failures(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		content       string
		wantMalformed bool
	}{
		{name: "API error", status: http.StatusTooManyRequests},
		{name: "not JSON", status: http.StatusOK, content: "I could not read this receipt.", wantMalformed: true},
		{name: "missing field", status: http.StatusOK, content: `{"merchantName":"X","totalAmount":3}`, wantMalformed: true},
		{name: "string amount", status: http.StatusOK, content: `{"merchantName":"X","totalAmount":"3","transactionDate":"2024-07-10"}`, wantMalformed: true},
		{name: "empty content", status: http.StatusOK, content: "", wantMalformed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := fakeCompletions(t, tt.status, tt.content, nil)
			defer server.Close()

			img, _ := NewImage(pngBytes, "image/png", 0)
			_, err := newTestScanner(server.URL).Scan(context.Background(), img)
			if !errors.Is(err, ErrScanFailed) {
				t.Fatalf("error = %v, want ErrScanFailed", err)
			}
			if tt.wantMalformed && !errors.Is(err, ErrMalformedReceipt) {
				t.Errorf("error = %v, want ErrMalformedReceipt", err)
			}
		})
	}
}

func TestParseReceiptJSON_CodeFence(t *testing.T) {
	got, err := parseReceiptJSON("```json\n{\"merchantName\":\"Cinema\",\"totalAmount\":45,\"transactionDate\":\"2024-07-15\"}\n```")
	if err != nil {
		t.Fatalf("parseReceiptJSON() error = %v", err)
	}
	if got.MerchantName != "Cinema" || got.TotalAmount != 45 || got.TransactionDate != "2024-07-15" {
		t.Errorf("parseReceiptJSON() = %+v", got)
	}
}
