package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/datareplica/internal/domain"
	"github.com/andresuchdata/datareplica/internal/handler"
)

type fakeInvoker struct {
	event    events.S3Event
	err      error
	panicked bool
}

func (f *fakeInvoker) Replicator(ctx context.Context, event events.S3Event) (handler.Response, error) {
	f.event = event
	if f.err != nil {
		return handler.Response{}, f.err
	}
	return handler.Response{StatusCode: 200, Body: `{"copied":1}`}, nil
}

func (f *fakeInvoker) Backup(ctx context.Context) (handler.Response, error) {
	if f.err != nil {
		return handler.Response{}, f.err
	}
	return handler.Response{StatusCode: 200, Body: `{"copiedRows":"complete"}`}, nil
}

func (f *fakeInvoker) Seed(ctx context.Context) (handler.Response, error) {
	if f.panicked {
		panic("boom")
	}
	return handler.Response{StatusCode: 200, Body: `{"seeded":true,"rows":3}`}, nil
}

func (f *fakeInvoker) List(ctx context.Context) (handler.Response, error) {
	return handler.Response{StatusCode: 200, Body: `[]`}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := serve(NewRouter(nil, nil), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response: %d %s", w.Code, w.Body.String())
	}
}

func TestInvokeReplicator(t *testing.T) {
	inv := &fakeInvoker{}
	router := NewRouter(inv, []string{"*"})

	w := serve(router, http.MethodPost, "/api/v1/invoke/replicator", `{"Records":[{"s3":{"object":{"key":"a.txt"}}}]}`)
	if w.Code != http.StatusOK || w.Body.String() != `{"copied":1}` {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}
	if len(inv.event.Records) != 1 || inv.event.Records[0].S3.Object.Key != "a.txt" {
		t.Fatalf("event not forwarded: %+v", inv.event)
	}
}

func TestInvokeReplicatorEmptyBody(t *testing.T) {
	inv := &fakeInvoker{}
	w := serve(NewRouter(inv, nil), http.MethodPost, "/api/v1/invoke/replicator", "")
	if w.Code != http.StatusOK {
		t.Fatalf("empty body should be an empty batch, got %d %s", w.Code, w.Body.String())
	}
}

func TestInvokeReplicatorBadPayload(t *testing.T) {
	w := serve(NewRouter(&fakeInvoker{}, nil), http.MethodPost, "/api/v1/invoke/replicator", `{"Records":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestInvokeErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"configuration", domain.NewConfigurationError("", "DEST_BUCKET"), http.StatusBadRequest},
		{"identifier", &domain.InvalidIdentifierError{Identifier: "a b"}, http.StatusBadRequest},
		{"credentials", &domain.MissingCredentialsError{}, http.StatusBadRequest},
		{"database", domain.NewDatabaseError("connect", context.DeadlineExceeded), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(NewRouter(&fakeInvoker{err: tt.err}, nil), http.MethodPost, "/api/v1/invoke/backup", "")
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Fatalf("expected error body, got %s", w.Body.String())
			}
		})
	}
}

func TestInvokeSeedAndList(t *testing.T) {
	router := NewRouter(&fakeInvoker{}, nil)

	w := serve(router, http.MethodPost, "/api/v1/invoke/seed", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"seeded":true,"rows":3}` {
		t.Fatalf("unexpected seed response: %d %s", w.Code, w.Body.String())
	}

	w = serve(router, http.MethodGet, "/api/v1/invoke/list", "")
	if w.Code != http.StatusOK || w.Body.String() != `[]` {
		t.Fatalf("unexpected list response: %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	w := serve(NewRouter(&fakeInvoker{panicked: true}, nil), http.MethodPost, "/api/v1/invoke/seed", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", w.Code)
	}
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " ", "*"})
	if !all {
		t.Fatalf("expected wildcard to be detected")
	}
	if len(origins) != 2 || origins[0] != "http://a.test" || origins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", origins)
	}
}
