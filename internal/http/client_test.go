package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	ighttp "github.com/fivetwenty-io/instagram-client/internal/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v21.0/me", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.NotEmpty(t, request.Header.Get("User-Agent"))

			writer.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(writer).Encode(map[string]string{"id": "1789", "username": "jane"})
		}))
		defer server.Close()

		client := ighttp.NewClient()

		resp, err := client.Do(context.Background(), &ighttp.Request{
			Method: "GET",
			URL:    server.URL + "/v21.0/me",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Headers.Get("Content-Type"))

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "1789", result["id"])
		assert.Equal(t, "jane", result["username"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/me/media", request.URL.Path)
			assert.Equal(t, "fields=id&limit=5", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := ighttp.NewClient()

		resp, err := client.Do(context.Background(), &ighttp.Request{
			Method: "GET",
			URL:    server.URL + "/me/media?limit=10",
			Query:  url.Values{"fields": []string{"id"}, "limit": []string{"5"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with JSON body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "https://example.com/photo.jpg", body["image_url"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := ighttp.NewClient()

		resp, err := client.Do(context.Background(), &ighttp.Request{
			Method:  "POST",
			URL:     server.URL + "/me/media",
			JSON:    map[string]string{"image_url": "https://example.com/photo.jpg"},
			Headers: map[string]string{"Content-Type": "application/json"},
		})
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("request with form body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/x-www-form-urlencoded", request.Header.Get("Content-Type"))

			err := request.ParseForm()
			assert.NoError(t, err)
			assert.Equal(t, "authorization_code", request.PostForm.Get("grant_type"))

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := ighttp.NewClient()

		resp, err := client.PostForm(context.Background(), server.URL+"/oauth/access_token",
			url.Values{"grant_type": []string{"authorization_code"}})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(http.StatusBadRequest)
			_, _ = writer.Write([]byte(`{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`))
		}))
		defer server.Close()

		client := ighttp.NewClient()

		resp, err := client.Get(context.Background(), server.URL+"/me", url.Values{"access_token": []string{"secret"}})
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, 400, resp.StatusCode)

		statusErr := &ighttp.StatusError{}
		ok := errors.As(err, &statusErr)
		require.True(t, ok)
		assert.Equal(t, 400, statusErr.StatusCode())
		assert.Equal(t, "application/json", statusErr.Header().Get("Content-Type"))
		assert.Contains(t, string(statusErr.Body()), "OAuthException")
		assert.NotContains(t, statusErr.Error(), "secret")
		assert.Contains(t, statusErr.Error(), "400 Bad Request")
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			assert.Equal(t, "my-app/2.0", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := ighttp.NewClient(ighttp.WithUserAgent("my-app/2.0"))

		resp, err := client.Do(context.Background(), &ighttp.Request{
			Method: "GET",
			URL:    server.URL + "/me",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := ighttp.NewClient(ighttp.WithLogger(logger), ighttp.WithDebug(true))

		_, err := client.Get(context.Background(), server.URL+"/me", url.Values{"access_token": []string{"secret-token"}})
		require.NoError(t, err)

		require.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])

		fields, ok := logger.logs[0]["fields"].(map[string]interface{})
		require.True(t, ok)
		assert.NotContains(t, fields["url"], "secret-token")
		assert.Contains(t, fields["url"], "access_token=***")
	})

	t.Run("without debug nothing is logged", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := ighttp.NewClient(ighttp.WithLogger(logger))

		_, err := client.Get(context.Background(), server.URL+"/me", nil)
		require.NoError(t, err)
		assert.Empty(t, logger.logs)
	})

	t.Run("missing method", func(t *testing.T) {
		t.Parallel()

		client := ighttp.NewClient()

		_, err := client.Do(context.Background(), &ighttp.Request{URL: "https://example.com"})
		require.ErrorIs(t, err, ighttp.ErrMethodRequired)
	})
}

func TestClient_NoRetries(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusInternalServerError, http.StatusTooManyRequests, http.StatusBadGateway} {
		status := status
		t.Run(http.StatusText(status), func(t *testing.T) {
			t.Parallel()

			var attempts atomic.Int32

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				attempts.Add(1)
				writer.WriteHeader(status)
			}))
			defer server.Close()

			client := ighttp.NewClient()

			resp, err := client.Get(context.Background(), server.URL+"/me", nil)
			require.Error(t, err)
			assert.Equal(t, status, resp.StatusCode)
			assert.Equal(t, int32(1), attempts.Load())
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := ighttp.NewClient()

	resp, err := client.Get(context.Background(), serverURL+"/me", nil)
	require.Error(t, err)
	assert.Nil(t, resp)

	statusErr := &ighttp.StatusError{}
	assert.False(t, errors.As(err, &statusErr))
}

func TestClient_CancelledContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := ighttp.NewClient()

	_, err := client.Get(ctx, server.URL+"/me", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no query",
			input:    "https://graph.instagram.com/me",
			expected: "https://graph.instagram.com/me",
		},
		{
			name:     "nothing to redact",
			input:    "https://graph.instagram.com/me?fields=id",
			expected: "https://graph.instagram.com/me?fields=id",
		},
		{
			name:     "access token and secret",
			input:    "https://graph.instagram.com/access_token?access_token=abc&client_secret=def&grant_type=ig_exchange_token",
			expected: "https://graph.instagram.com/access_token?access_token=***&client_secret=***&grant_type=ig_exchange_token",
		},
		{
			name:     "empty token is left alone",
			input:    "https://graph.instagram.com/me?access_token=",
			expected: "https://graph.instagram.com/me?access_token=",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ighttp.RedactURL(tt.input))
		})
	}
}
