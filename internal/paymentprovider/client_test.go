package paymentprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTransaction(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/transaction/initialize", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var got InitializeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, "alice@users.quiz-platform.local", got.Email)
			assert.Equal(t, 400000, got.Amount)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"status": true,
				"message": "Authorization URL created",
				"data": {
					"authorization_url": "https://checkout.example.com/abc123",
					"access_code": "abc123",
					"reference": "ref-42"
				}
			}`))
		}))
		defer srv.Close()

		client := NewClient("sk_test_secret", srv.URL)
		data, err := client.InitializeTransaction(context.Background(), InitializeRequest{
			Email:  "alice@users.quiz-platform.local",
			Amount: 400000,
			Metadata: map[string]any{
				"username": "alice",
				"months":   3,
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.example.com/abc123", data.AuthorizationURL)
		assert.Equal(t, "ref-42", data.Reference)
	})

	t.Run("Non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := NewClient("sk_test_wrong", srv.URL)
		data, err := client.InitializeTransaction(context.Background(), InitializeRequest{})
		require.Error(t, err)
		assert.Nil(t, data)
		assert.Contains(t, err.Error(), "unexpected status")
	})

	t.Run("Envelope status false", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status": false, "message": "Invalid amount"}`))
		}))
		defer srv.Close()

		client := NewClient("sk_test_secret", srv.URL)
		data, err := client.InitializeTransaction(context.Background(), InitializeRequest{})
		require.Error(t, err)
		assert.Nil(t, data)
		assert.Contains(t, err.Error(), "Invalid amount")
	})
}

func TestVerifyTransaction(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/transaction/verify/ref-42", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"status": true,
				"message": "Verification successful",
				"data": {
					"status": "success",
					"amount": 400000,
					"metadata": {"username": "alice", "months": 3}
				}
			}`))
		}))
		defer srv.Close()

		client := NewClient("sk_test_secret", srv.URL)
		data, err := client.VerifyTransaction(context.Background(), "ref-42")
		require.NoError(t, err)
		assert.Equal(t, TransactionSuccess, data.Status)
		assert.Equal(t, 400000, data.Amount)
		assert.Equal(t, "alice", data.Metadata["username"])
	})

	t.Run("Reference is path escaped", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transaction/verify/ref%2Fwith%2Fslashes", r.URL.EscapedPath())

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status": true, "data": {"status": "abandoned"}}`))
		}))
		defer srv.Close()

		client := NewClient("sk_test_secret", srv.URL)
		data, err := client.VerifyTransaction(context.Background(), "ref/with/slashes")
		require.NoError(t, err)
		assert.Equal(t, "abandoned", data.Status)
	})

	t.Run("Envelope status false", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status": false, "message": "Transaction reference not found"}`))
		}))
		defer srv.Close()

		client := NewClient("sk_test_secret", srv.URL)
		data, err := client.VerifyTransaction(context.Background(), "missing")
		require.Error(t, err)
		assert.Nil(t, data)
		assert.Contains(t, err.Error(), "Transaction reference not found")
	})
}
