package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"recetario-pae/internal/infrastructure/config"
)

func TestValidateRecipient(t *testing.T) {
	tests := []struct {
		addr  string
		valid bool
	}{
		{"cocina@escuela.edu.ar", true},
		{"a@b.c", true},
		{"sin-arroba.com", false},
		{"dos@@escuela.com", false},
		{"con espacio@escuela.com", false},
		{"falta@dominio", false},
		{"", false},
	}
	for _, tt := range tests {
		err := ValidateRecipient(tt.addr)
		if tt.valid && err != nil {
			t.Errorf("Expected %q to be valid, got %v", tt.addr, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidRecipient) {
			t.Errorf("Expected %q to be rejected, got %v", tt.addr, err)
		}
	}
}

func testEmailConfig(baseURL string) config.EmailConfig {
	return config.EmailConfig{
		Enabled:    true,
		BaseURL:    baseURL,
		ServiceID:  "service_x",
		TemplateID: "template_y",
		PublicKey:  "public_z",
		PrivateKey: "private_w",
		FromName:   "Recetario PAE",
		Subject:    "Planificacion Semanal - Recetario PAE",
		Timeout:    5 * time.Second,
	}
}

func TestSender(t *testing.T) {
	t.Run("PostsTemplateParams", func(t *testing.T) {
		var got sendRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != sendPath {
				t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("Failed to decode body: %v", err)
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		}))
		defer server.Close()

		s := NewSender(testEmailConfig(server.URL))
		err := s.Send(context.Background(), Message{To: "cocina@escuela.edu.ar", HTML: "  <p>hola</p>\n"})
		if err != nil {
			t.Fatalf("Send failed: %v", err)
		}

		if got.ServiceID != "service_x" || got.TemplateID != "template_y" || got.UserID != "public_z" || got.AccessToken != "private_w" {
			t.Errorf("Unexpected credentials %+v", got)
		}
		want := templateParams{
			ToEmail:     "cocina@escuela.edu.ar",
			FromName:    "Recetario PAE",
			Subject:     "Planificacion Semanal - Recetario PAE",
			MessageHTML: "<p>hola</p>",
		}
		if got.TemplateParams != want {
			t.Errorf("Expected %+v, got %+v", want, got.TemplateParams)
		}
	})

	t.Run("ProviderError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("The template ID is invalid"))
		}))
		defer server.Close()

		s := NewSender(testEmailConfig(server.URL))
		err := s.Send(context.Background(), Message{To: "cocina@escuela.edu.ar", HTML: "x"})
		if !errors.Is(err, ErrSendFailed) {
			t.Errorf("Expected ErrSendFailed, got %v", err)
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		cfg := testEmailConfig("http://127.0.0.1:1")
		cfg.Enabled = false
		err := NewSender(cfg).Send(context.Background(), Message{To: "cocina@escuela.edu.ar"})
		if !errors.Is(err, ErrEmailDisabled) {
			t.Errorf("Expected ErrEmailDisabled, got %v", err)
		}
	})

	t.Run("InvalidRecipient", func(t *testing.T) {
		err := NewSender(testEmailConfig("http://127.0.0.1:1")).Send(context.Background(), Message{To: "nadie"})
		if !errors.Is(err, ErrInvalidRecipient) {
			t.Errorf("Expected ErrInvalidRecipient, got %v", err)
		}
	})
}

type fakeDeliverer struct {
	mu    sync.Mutex
	sent  []Message
	err   error
	block chan struct{}
}

func (f *fakeDeliverer) Send(ctx context.Context, msg Message) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func TestDispatcher(t *testing.T) {
	t.Run("DeliversAndReports", func(t *testing.T) {
		fake := &fakeDeliverer{}
		d := NewDispatcher(fake, config.QueueConfig{Workers: 2, MaxSize: 5})
		defer d.Close()

		for i := 0; i < 3; i++ {
			if err := d.Send(context.Background(), Message{To: "a@b.c", Kind: "plan"}); err != nil {
				t.Fatalf("Send failed: %v", err)
			}
		}
		if s := d.Status(); s.ProcessedCount != 3 || s.FailedCount != 0 || s.Workers != 2 {
			t.Errorf("Unexpected status %+v", s)
		}
	})

	t.Run("PropagatesErrors", func(t *testing.T) {
		fake := &fakeDeliverer{err: ErrSendFailed}
		d := NewDispatcher(fake, config.QueueConfig{Workers: 1, MaxSize: 1})
		defer d.Close()

		if err := d.Send(context.Background(), Message{To: "a@b.c"}); !errors.Is(err, ErrSendFailed) {
			t.Errorf("Expected ErrSendFailed, got %v", err)
		}
		if d.Status().FailedCount != 1 {
			t.Errorf("Expected 1 failure, got %d", d.Status().FailedCount)
		}
	})

	t.Run("QueueFull", func(t *testing.T) {
		fake := &fakeDeliverer{block: make(chan struct{})}
		d := NewDispatcher(fake, config.QueueConfig{Workers: 1, MaxSize: 1})

		ctx := context.Background()
		first, err := d.Enqueue(ctx, Message{To: "a@b.c"})
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}

		// wait for the worker to pick up the first message
		deadline := time.Now().Add(2 * time.Second)
		for d.Status().QueueLength != 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}

		second, err := d.Enqueue(ctx, Message{To: "a@b.c"})
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		if _, err := d.Enqueue(ctx, Message{To: "a@b.c"}); !errors.Is(err, ErrQueueFull) {
			t.Errorf("Expected ErrQueueFull, got %v", err)
		}

		close(fake.block)
		if err := <-first; err != nil {
			t.Errorf("Unexpected error %v", err)
		}
		if err := <-second; err != nil {
			t.Errorf("Unexpected error %v", err)
		}
		d.Close()
	})

	t.Run("Closed", func(t *testing.T) {
		d := NewDispatcher(&fakeDeliverer{}, config.QueueConfig{Workers: 1, MaxSize: 1})
		d.Close()
		d.Close()
		if _, err := d.Enqueue(context.Background(), Message{To: "a@b.c"}); !errors.Is(err, ErrDispatcherClosed) {
			t.Errorf("Expected ErrDispatcherClosed, got %v", err)
		}
	})
}
