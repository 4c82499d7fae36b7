package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jsech3/GameIQ/internal/bankfile"
	"github.com/jsech3/GameIQ/internal/content"
	"github.com/jsech3/GameIQ/internal/e2etest"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/synth"
	"github.com/jsech3/GameIQ/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

const (
	testBankSize   = 40
	testAdminToken = "admin-secret"
)

// writeTestBanks synthesizes small banks for every game into a temporary directory.
func writeTestBanks(t *testing.T) (string, map[models.GameType]models.Bank) {
	t.Helper()
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)
	catalog, err := content.Load(ctx, logger)
	require.NoError(t, err)
	config := synth.DefaultConfig()
	config.BankSize = testBankSize
	results, err := synth.New(catalog, config, logger).SynthesizeAll(ctx, models.GameTypes(), synth.DefaultSeedBase)
	require.NoError(t, err)

	dir := t.TempDir()
	store := bankfile.NewStore(dir, logger)
	banks := map[models.GameType]models.Bank{}
	for _, result := range results {
		require.NoError(t, store.Write(ctx, result.Bank))
		banks[result.Bank.Game] = result.Bank
	}
	return dir, banks
}

// fakeCompletionAPI answers every chat completion with content.
func fakeCompletionAPI(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return newCompletionAPI(t, content, nil, nil)
}

// blockingCompletionAPI holds every chat completion until release is called and counts the requests.
func blockingCompletionAPI(t *testing.T, content string) (*httptest.Server, func(), *atomic.Int32) {
	t.Helper()
	gate := make(chan struct{})
	var once sync.Once
	release := func() { once.Do(func() { close(gate) }) }
	var calls atomic.Int32
	server := newCompletionAPI(t, content, gate, &calls)
	// Cleanups run in reverse, so held requests return before the server closes.
	t.Cleanup(release)
	return server, release, &calls
}

func newCompletionAPI(t *testing.T, content string, gate <-chan struct{}, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" || r.Header.Get("Authorization") != "Bearer test-key" {
			http.NotFound(w, r)
			return
		}
		if calls != nil {
			calls.Add(1)
		}
		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

type testEnv map[string]string

func (e testEnv) lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// newTestEnv serves dir on a random port with the ledger in memory and profiling off.
func newTestEnv(dir string) testEnv {
	return testEnv{
		"GAMEIQ_ADDR":       "localhost:0",
		"GAMEIQ_BANK_DIR":   dir,
		"GAMEIQ_PPROF_ADDR": "",
		"GAMEIQ_SQLITE_URL": ":memory:",
	}
}

// withRefresh enables the admin routes against a fake completion API.
func (e testEnv) withRefresh(apiURL string) testEnv {
	e["GAMEIQ_ADMIN_TOKEN"] = testAdminToken
	e["OPENAI_API_KEY"] = "test-key"
	e["OPENAI_BASE_URL"] = apiURL
	return e
}

// startTestServer runs the server until the test ends and returns a client for it.
func startTestServer(t *testing.T, env testEnv) *e2etest.Client {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	server, err := e2etest.StartServer(ctx, testAdminToken, io.Discard, env.lookup, run)
	require.NoError(t, err)
	return server.Client()
}

// getStatus fetches urlPath and returns the status code.
func getStatus(t *testing.T, client *e2etest.Client, urlPath string) int {
	t.Helper()
	resp, err := client.Get(context.Background(), urlPath)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp.StatusCode
}

func fencedBatch(t *testing.T, puzzles ...models.Puzzle) string {
	t.Helper()
	data, err := json.Marshal(puzzles)
	require.NoError(t, err)
	return fmt.Sprintf("```json\n%s\n```", data)
}
