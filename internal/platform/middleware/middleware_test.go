// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cabinet/internal/platform/ctxutil"
	"github.com/taibuivan/cabinet/internal/platform/middleware"
	"github.com/taibuivan/cabinet/internal/platform/sec"
)

// # Mocks

type mockTokenAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, token string) (sec.Result, error)
}

func (m *mockTokenAuthenticator) Authenticate(ctx context.Context, token string) (sec.Result, error) {
	return m.AuthenticateFunc(ctx, token)
}

var testPrincipal = sec.Principal{ID: "0190a6f2-7c1e-7000-8000-000000000001", Username: "exampleUser", Strains: []string{}}

func acceptOnly(valid string) *mockTokenAuthenticator {
	return &mockTokenAuthenticator{
		AuthenticateFunc: func(_ context.Context, token string) (sec.Result, error) {
			switch token {
			case "":
				return sec.Rejected(sec.ReasonMissingCredentials), nil
			case valid:
				return sec.Authenticated(testPrincipal, testPrincipal.Username, time.Now().Add(time.Hour)), nil
			default:
				return sec.Rejected(sec.ReasonInvalidSignature), nil
			}
		},
	}
}

// principalEcho writes the authenticated username, or "anonymous".
var principalEcho = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	principal := ctxutil.GetPrincipal(request.Context())
	if principal == nil {
		_, _ = writer.Write([]byte("anonymous"))
		return
	}
	_, _ = writer.Write([]byte(principal.Username))
})

/*
TestAuthenticate injects the principal for a valid bearer and rejects everything else alike.
*/
func TestAuthenticate(t *testing.T) {
	handler := middleware.Authenticate(acceptOnly("good"))(principalEcho)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "exampleUser", recorder.Body.String())

	bodies := map[string]bool{}
	for _, header := range []string{"", "Bearer bad", "Basic good", "good"} {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			request.Header.Set("Authorization", header)
		}
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code, header)
		bodies[recorder.Body.String()] = true
	}

	require.Len(t, bodies, 1)
	for body := range bodies {
		assert.JSONEq(t, `{"error":"Invalid or expired token","code":"UNAUTHORIZED"}`, body)
	}
}

/*
TestAuthenticate_InfrastructureError answers 500 when the strategy itself fails.
*/
func TestAuthenticate_InfrastructureError(t *testing.T) {
	failing := &mockTokenAuthenticator{
		AuthenticateFunc: func(context.Context, string) (sec.Result, error) {
			return sec.Result{}, errors.New("boom")
		},
	}
	handler := middleware.Authenticate(failing)(principalEcho)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer anything")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

/*
TestRequestID keeps a client supplied id and generates one otherwise.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "client-id")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "client-id", seen)
	assert.Equal(t, "client-id", recorder.Header().Get("X-Request-ID"))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
}

/*
TestStructuredLogger emits one JSON line per request with the final status.
*/
func TestStructuredLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	handler := middleware.StructuredLogger(logger)(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/strains", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.Equal(t, "http_request_finished", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/strains", entry["path"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
}

/*
TestCORS admits the configured origin and everything in development.
*/
func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) })

	tests := []struct {
		name        string
		development bool
		origin      string
		allowed     bool
	}{
		{"configured origin", false, "https://cabinet.example", true},
		{"other origin", false, "https://evil.example", false},
		{"development", true, "http://localhost:5173", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.CORS("https://cabinet.example/", tt.development)(next)

			request := httptest.NewRequest(http.MethodOptions, "/strains", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestRateLimit rejects requests beyond the burst for a single client only.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.001, 2)(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) int {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Real-IP", ip)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

/*
TestPanicRecovery converts a panic into a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	handler := middleware.PanicRecovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	recorder := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "kaboom")
}

/*
TestRealIP prefers proxy headers over the socket address.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", middleware.RealIP(request))
}
