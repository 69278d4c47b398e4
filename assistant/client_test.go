package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egov-portal/models"
	"egov-portal/state"
)

func TestReply_Success(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "  The land tax fee is Rs 250.  "})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "test-key", Timeout: 5 * time.Second}, nil)
	reply := client.Reply(context.Background(), state.Seed().Services, models.LanguageEnglish, "How much is land tax?")

	assert.Equal(t, "The land tax fee is Rs 250.", reply)
	assert.Equal(t, "How much is land tax?", got.Prompt)
	assert.Contains(t, got.System, "Land Tax Payment")
	assert.Contains(t, got.System, "Reply in English")
	assert.Equal(t, 512, got.MaxTokens)
}

func TestReply_FallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}},
		{"empty text", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"text": " "})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second}, nil)
			assert.Equal(t, FallbackReply, client.Reply(context.Background(), nil, models.LanguageEnglish, "hi"))
		})
	}
}

func TestReply_NotConfigured(t *testing.T) {
	client := NewClient(Config{}, nil)

	_, err := client.Generate(context.Background(), "system", "prompt")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, FallbackReply, client.Reply(context.Background(), nil, models.LanguageEnglish, "hi"))
}

func TestGenerate_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second, MaxRetries: 2}, nil)
	text, err := client.Generate(context.Background(), "system", "prompt")

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "late"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err := client.Generate(context.Background(), "system", "prompt")

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSystemPrompt_Hindi(t *testing.T) {
	prompt := SystemPrompt(state.Seed().Services, models.LanguageHindi)

	assert.Contains(t, prompt, "Reply in Hindi")
	assert.Contains(t, prompt, "TL-01")
	assert.Contains(t, prompt, "address_proof")
}

func TestSpeechErrorMessage(t *testing.T) {
	assert.Equal(t, "No speech was detected. Please try again.", SpeechErrorMessage(SpeechNoSpeech))
	assert.Contains(t, SpeechErrorMessage(SpeechNotAllowed), "Microphone access was denied")
	assert.Equal(t, "Voice input failed. Please type your question instead.", SpeechErrorMessage("service-not-allowed"))
}
