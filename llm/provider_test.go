// Security tests for LLM providers to ensure error messages don't leak API keys.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// echoServer fails every request with status, echoing every credential-bearing
// header back in the error body the way a misbehaving upstream might.
func echoServer(t *testing.T, status int, format string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		leaked := r.Header.Get("Authorization") + " " + r.Header.Get("x-goog-api-key") + " " + r.Header.Get("x-api-key")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprintf(w, format, status, strings.TrimSpace(leaked))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestErrorsNoAPIKeyLeak(t *testing.T) {
	tests := []struct {
		name   string
		desc   func(baseURL string) Descriptor
		format string
	}{
		{
			name: "chat-completions",
			desc: func(baseURL string) Descriptor {
				d := OpenAIDescriptor()
				d.BaseURL = baseURL
				return d
			},
			format: `{"error":{"message":"status %d: rejected %s","type":"invalid_request_error"}}`,
		},
		{
			name: "generate-content",
			desc: func(baseURL string) Descriptor {
				d := GeminiDescriptor()
				d.BaseURL = baseURL + "/"
				return d
			},
			format: `{"error":{"code":%d,"message":"rejected %s","status":"PERMISSION_DENIED"}}`,
		},
		{
			name: "messages",
			desc: func(baseURL string) Descriptor {
				d := AnthropicDescriptor()
				d.BaseURL = baseURL + "/"
				return d
			},
			format: `{"type":"error","error":{"type":"authentication_error","message":"status %d: rejected %s"}}`,
		},
	}

	testKey := "sk-test-invalid-key-12345xyz"

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := echoServer(t, http.StatusForbidden, tt.format)
			desc := tt.desc(srv.URL)
			cfg := ActiveConfig{Provider: desc.Name, Descriptor: desc, APIKey: testKey, Model: desc.DefaultModel}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_, err := NewAdapter(5*time.Second).Invoke(ctx, []ChatMessage{UserMessage("test")}, cfg)
			if err == nil {
				t.Fatal("expected error from rejecting server")
			}

			var upstream *UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("expected UpstreamError, got %T: %v", err, err)
			}
			if upstream.StatusCode != http.StatusForbidden {
				t.Errorf("expected 403, got %d", upstream.StatusCode)
			}

			errStr := err.Error()
			if strings.Contains(errStr, testKey) {
				t.Errorf("%s error message leaked API key: %v", tt.name, errStr)
			}
			if strings.Contains(upstream.Body, testKey) {
				t.Errorf("%s error body leaked API key: %v", tt.name, upstream.Body)
			}
		})
	}
}

// TestTransportErrorNoAPIKeyLeak verifies failures without a response are scrubbed too.
func TestTransportErrorNoAPIKeyLeak(t *testing.T) {
	testKey := "sk-test-invalid-key-12345xyz"
	desc := OpenAIDescriptor()
	// Unroutable URL carrying the key, so the transport error text contains it.
	desc.BaseURL = "http://127.0.0.1:1/" + testKey
	cfg := ActiveConfig{Provider: desc.Name, Descriptor: desc, APIKey: testKey, Model: desc.DefaultModel}

	_, err := NewAdapter(2*time.Second).Invoke(context.Background(), []ChatMessage{UserMessage("test")}, cfg)
	if err == nil {
		t.Fatal("expected connection error")
	}

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %T: %v", err, err)
	}
	if upstream.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", upstream.StatusCode)
	}
	if strings.Contains(err.Error(), testKey) {
		t.Errorf("transport error leaked API key: %v", err)
	}
}

func TestConvertToGeminiMessagesLiftsSystem(t *testing.T) {
	contents, system := convertToGeminiMessages([]ChatMessage{
		SystemMessage("be brief"),
		UserMessage("q"),
		AssistantMessage("a"),
	})
	if system != "be brief" {
		t.Errorf("expected system instruction, got %q", system)
	}
	if len(contents) != 2 || contents[0].Role != "user" || contents[1].Role != "model" {
		t.Errorf("unexpected contents %+v", contents)
	}
}

func TestConvertToAnthropicMessagesLiftsSystem(t *testing.T) {
	messages, system := convertToAnthropicMessages([]ChatMessage{SystemMessage("S"), UserMessage("q")})
	if system != "S" || len(messages) != 1 {
		t.Errorf("expected system lifted out, got %q and %d messages", system, len(messages))
	}
}

func TestConvertToOpenAIMessagesKeepsRoles(t *testing.T) {
	messages := convertToOpenAIMessages([]ChatMessage{SystemMessage("S"), UserMessage("q")})
	if messages[0].Role != "system" || messages[1].Role != "user" {
		t.Errorf("expected roles preserved, got %+v", messages)
	}
}
