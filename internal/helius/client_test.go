package helius

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{APIKey: "test-key", BaseURL: serverURL})
}

func TestGetTransactionsPage_RetriesOn429(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode([]Transaction{{Signature: "sig-1", Timestamp: 100}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.GetTransactionsPage(context.Background(), "wallet", "", 100)

	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "sig-1", page[0].Signature)
	assert.EqualValues(t, 4, atomic.LoadInt32(&calls), "3 次限流后第 4 次成功")
}

func TestGetTransactionsPage_PermanentErrorNoRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"address not found"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetTransactionsPage(context.Background(), "wallet", "", 100)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "address not found")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "4xx 不应该重试")
}

func TestGetTransactionsPage_RetryBudgetExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetTransactionsPage(context.Background(), "wallet", "", 100)

	require.Error(t, err)
	assert.Contains(t, err.Error(), server.URL)
	assert.EqualValues(t, maxAttempts, atomic.LoadInt32(&calls))
}

func TestGetTransactionsPage_ContextCancelDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL)
	_, err := client.GetTransactionsPage(ctx, "wallet", "", 100)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetTransactionsPage_BeforeCursorInURL(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]Transaction{})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetTransactionsPage(context.Background(), "wallet", "cursor-sig", 100)

	require.NoError(t, err)
	assert.Contains(t, gotQuery, "before=cursor-sig")
	assert.Contains(t, gotQuery, "api-key=test-key")
	assert.Contains(t, gotQuery, "limit=100")
}

func TestHydrateTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, []string{"sig-a", "sig-b"}, body["transactions"])

		json.NewEncoder(w).Encode([]Transaction{
			{Signature: "sig-a", Timestamp: 1},
			{Signature: "sig-b", Timestamp: 2},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	txs, err := client.HydrateTransactions(context.Background(), []string{"sig-a", "sig-b"})

	require.NoError(t, err)
	require.Len(t, txs, 2)
}

func TestHydrateTransactions_EmptyInput(t *testing.T) {
	client := newTestClient("http://unreachable.invalid")
	txs, err := client.HydrateTransactions(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestGetTokenMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, []string{"mint-x"}, body["mintAccounts"])

		w.Write([]byte(`[{"account":"mint-x","onChainMetadata":{"metadata":{"data":{"name":"Token X","symbol":"TKX"}}}}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	metas, err := client.GetTokenMetadata(context.Background(), []string{"mint-x"})

	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, "Token X", metas[0].Name())
	assert.Equal(t, "TKX", metas[0].Symbol())
}

func TestTokenMetadata_MissingOnChainData(t *testing.T) {
	meta := TokenMetadata{Account: "mint-y"}
	assert.Equal(t, "", meta.Name())
	assert.Equal(t, "", meta.Symbol())
}
