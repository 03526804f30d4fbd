package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhub/server/internal/config"
	"github.com/printhub/server/internal/core"
)

func TestSenderDeliversSignedPayload(t *testing.T) {
	received := make(chan *http.Request, 1)
	bodies := make(chan []byte, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- r
		bodies <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSender([]config.WebhookConfig{
		{URL: srv.URL, Secret: "hush", Events: []string{core.EventOrderReady}},
	}, Options{RetryDelay: 10 * time.Millisecond})
	s.Start()
	defer s.Stop()

	order := &core.Order{ID: "o1", Status: core.StatusReady}
	s.OrderEvent(core.EventOrderReady, order)

	select {
	case r := <-received:
		assert.Equal(t, core.EventOrderReady, r.Header.Get("X-Webhook-Event"))

		body := <-bodies
		var payload Payload
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "o1", payload.Data.ID)

		// The signature covers the data object alone.
		dataBytes, err := json.Marshal(payload.Data)
		require.NoError(t, err)
		mac := hmac.New(sha256.New, []byte("hush"))
		mac.Write(dataBytes)
		assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), payload.Signature)
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not delivered")
	}
}

func TestSenderFiltersByEvent(t *testing.T) {
	hits := make(chan struct{}, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
	}))
	defer srv.Close()

	s := NewSender([]config.WebhookConfig{
		{URL: srv.URL, Events: []string{core.EventOrderError}},
	}, Options{})
	s.Start()
	defer s.Stop()

	s.OrderEvent(core.EventOrderCreated, &core.Order{ID: "o1"})

	select {
	case <-hits:
		t.Fatal("unsubscribed event was delivered")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSenderRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewSender([]config.WebhookConfig{{URL: srv.URL}}, Options{
		RetryCount: 2, RetryDelay: 10 * time.Millisecond,
	})
	s.Start()

	s.OrderEvent(core.EventOrderCreated, &core.Order{ID: "o1"})

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 2
	}, 2*time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestSenderDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	done := make(chan struct{}, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		done <- struct{}{}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewSender([]config.WebhookConfig{{URL: srv.URL}}, Options{
		RetryCount: 3, RetryDelay: 10 * time.Millisecond,
	})
	s.Start()

	s.OrderEvent(core.EventOrderCreated, &core.Order{ID: "o1"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not attempted")
	}
	s.Stop()

	assert.Equal(t, 1, calls)
}
