package server

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"nspire/app/config"
	"nspire/app/service/queue"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Service, *queue.Service) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	di := do.New()
	do.ProvideValue(di, ctx)
	do.ProvideValue(di, &config.Config{
		WhatsApp: config.WhatsApp{VerifyToken: "sesame"},
	})
	do.Provide(di, queue.New)

	svc, err := New(di)
	require.NoError(t, err)

	return svc, do.MustInvoke[*queue.Service](di)
}

func TestHealthEndpoint(t *testing.T) {
	svc, _ := newTestServer(t)

	resp, err := svc.app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(body), "running")
}

func TestVerifyHandshake(t *testing.T) {
	svc, _ := newTestServer(t)

	resp, err := svc.app.Test(httptest.NewRequest("GET",
		"/webhook?hub.mode=subscribe&hub.verify_token=sesame&hub.challenge=12345", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "12345", string(body))
}

func TestVerifyHandshakeRejectsBadToken(t *testing.T) {
	svc, _ := newTestServer(t)

	resp, err := svc.app.Test(httptest.NewRequest("GET",
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 403, resp.StatusCode)
}

func TestWebhookEnqueuesMessages(t *testing.T) {
	svc, queueSvc := newTestServer(t)

	var mu sync.Mutex
	var got []queue.Message
	queueSvc.SetHandler(func(_ context.Context, msg queue.Message) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg)
	})

	payload := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"messages": [
						{"from": "919900112233", "id": "wamid.1", "type": "text", "text": {"body": "hello"}},
						{"from": "919900112233", "id": "wamid.2", "type": "audio"}
					]
				}
			}]
		}]
	}`

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := svc.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 2 queued messages, got %d", n)
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, queue.Message{UserID: "919900112233", Type: "text", Text: "hello"}, got[0])
	assert.Equal(t, queue.Message{UserID: "919900112233", Type: "audio"}, got[1])
}

func TestUndecodablePayloadStillAcks(t *testing.T) {
	svc, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := svc.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
}
