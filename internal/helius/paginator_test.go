package helius

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
)

// pagedServer 按 before 游标返回预置页，游标未命中返回空页
func pagedServer(t *testing.T, pages map[string][]Transaction, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		before := r.URL.Query().Get("before")
		json.NewEncoder(w).Encode(pages[before])
	}))
}

func TestListHistory_PagesUntilEmptyAndSortsAscending(t *testing.T) {
	now := time.Now().Unix()
	pages := map[string][]Transaction{
		"": {
			{Signature: "sig-3", Timestamp: now - 30},
			{Signature: "sig-2", Timestamp: now - 60},
		},
		"sig-2": {
			{Signature: "sig-1", Timestamp: now - 90},
		},
	}

	var calls int32
	server := pagedServer(t, pages, &calls)
	defer server.Close()

	client := newTestClient(server.URL)
	txs, err := client.ListHistory(context.Background(), "wallet", HistoryOptions{})

	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "sig-1", txs[0].Signature)
	assert.Equal(t, "sig-2", txs[1].Signature)
	assert.Equal(t, "sig-3", txs[2].Signature)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls), "两页数据加一个空页")
}

func TestListHistory_MaxCountStopsPaging(t *testing.T) {
	now := time.Now().Unix()
	pages := map[string][]Transaction{
		"": {
			{Signature: "sig-3", Timestamp: now - 30},
			{Signature: "sig-2", Timestamp: now - 60},
			{Signature: "sig-1", Timestamp: now - 90},
		},
	}

	var calls int32
	server := pagedServer(t, pages, &calls)
	defer server.Close()

	client := newTestClient(server.URL)
	txs, err := client.ListHistory(context.Background(), "wallet", HistoryOptions{MaxCount: 2})

	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "拿够就不该再翻页")
}

func TestListHistory_DeduplicatesOverlappingPages(t *testing.T) {
	now := time.Now().Unix()
	pages := map[string][]Transaction{
		"": {
			{Signature: "sig-3", Timestamp: now - 30},
			{Signature: "sig-2", Timestamp: now - 60},
		},
		"sig-2": {
			// 页边界重叠：sig-2 再次出现
			{Signature: "sig-2", Timestamp: now - 60},
			{Signature: "sig-1", Timestamp: now - 90},
		},
	}

	var calls int32
	server := pagedServer(t, pages, &calls)
	defer server.Close()

	client := newTestClient(server.URL)
	txs, err := client.ListHistory(context.Background(), "wallet", HistoryOptions{})

	require.NoError(t, err)
	require.Len(t, txs, 3)
}

func TestListHistory_TimeWindowCutsOffOlderPages(t *testing.T) {
	now := time.Now().Unix()
	pages := map[string][]Transaction{
		"": {
			{Signature: "sig-new", Timestamp: now - 600},
			{Signature: "sig-old", Timestamp: now - 48*3600},
		},
		// 更早的页不应该被请求
		"sig-old": {
			{Signature: "sig-ancient", Timestamp: now - 72*3600},
		},
	}

	var calls int32
	server := pagedServer(t, pages, &calls)
	defer server.Close()

	client := newTestClient(server.URL)
	txs, err := client.ListHistory(context.Background(), "wallet", HistoryOptions{MaxAgeHours: 24})

	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "sig-new", txs[0].Signature)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "窗口起点之前不该继续翻页")
}

func TestListHistory_StalledCursorTerminates(t *testing.T) {
	now := time.Now().Unix()
	stuck := []Transaction{
		{Signature: "sig-stuck", Timestamp: now - 30},
	}

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		// 无论游标是什么都返回同一页，模拟接口异常
		json.NewEncoder(w).Encode(stuck)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	txs, err := client.ListHistory(context.Background(), "wallet", HistoryOptions{})

	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2), "游标不前进必须尽快终止")
}

func TestListHistory_EmptyHistory(t *testing.T) {
	var calls int32
	server := pagedServer(t, map[string][]Transaction{}, &calls)
	defer server.Close()

	client := newTestClient(server.URL)
	txs, err := client.ListHistory(context.Background(), "wallet", HistoryOptions{})

	require.NoError(t, err)
	assert.Empty(t, txs)
}
