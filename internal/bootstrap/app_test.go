package bootstrap_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movieforge/search-provisioner/internal/bootstrap"
	"github.com/movieforge/search-provisioner/internal/config"
	"github.com/movieforge/search-provisioner/internal/logger"
	"github.com/movieforge/search-provisioner/internal/provisioner"
)

// fakeSearchEngine stands in for Elasticsearch: it answers pings and maps
// each index creation PUT to a configured status code.
type fakeSearchEngine struct {
	srv *httptest.Server

	mu       sync.Mutex
	statuses map[string]int
	puts     []string
}

func newFakeSearchEngine(t *testing.T, statuses map[string]int) *fakeSearchEngine {
	t.Helper()

	f := &fakeSearchEngine{statuses: statuses}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")

		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusOK)
			return
		}

		index := r.URL.Path[1:]
		f.mu.Lock()
		f.puts = append(f.puts, index)
		status, ok := f.statuses[index]
		f.mu.Unlock()

		if !ok {
			status = http.StatusNotFound
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeSearchEngine) putsFor(index string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, name := range f.puts {
		if name == index {
			n++
		}
	}
	return n
}

func (f *fakeSearchEngine) totalPuts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.puts)
}

func hostPort(t *testing.T, addr string) (string, int) {
	t.Helper()

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

// testConfig wires a config against the fake search engine and a plain TCP
// listener playing the database's port.
func testConfig(t *testing.T, engine *fakeSearchEngine, indexes []string) *config.Config {
	t.Helper()

	dbListener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbListener.Close() })
	dbHost, dbPort := hostPort(t, dbListener.Addr().String())

	esHost, esPort := hostPort(t, engine.srv.Listener.Addr().String())

	dataDir := t.TempDir()
	for _, name := range indexes {
		defPath := filepath.Join(dataDir, name+"_index.json")
		require.NoError(t, os.WriteFile(defPath, []byte(`{"settings":{}}`), 0o644))
	}

	return &config.Config{
		Service: config.ServiceConfig{Name: "search-provisioner"},
		Database: config.DatabaseConfig{
			Host: dbHost,
			Port: dbPort,
			// The listener is not a real Postgres; skip the SQL probe.
			SkipVerify: true,
		},
		Search: config.SearchConfig{Host: esHost, Port: esPort},
		Provision: config.ProvisionConfig{
			DataDir:      dataDir,
			Indexes:      indexes,
			MaxAttempts:  5,
			RetryDelay:   time.Millisecond,
			PollInterval: 5 * time.Millisecond,
		},
	}
}

func TestRun_AllIndexesCreated(t *testing.T) {
	engine := newFakeSearchEngine(t, map[string]int{
		"movies":  http.StatusOK,
		"genres":  http.StatusOK,
		"persons": http.StatusOK,
	})
	cfg := testConfig(t, engine, []string{"movies", "genres", "persons"})

	err := bootstrap.Run(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 3, engine.totalPuts(), "exactly one creation call per index")
	assert.Equal(t, []string{"movies", "genres", "persons"}, engine.puts,
		"indexes provisioned in declaration order")
}

func TestRun_AlreadyExistingIndexIsSuccess(t *testing.T) {
	engine := newFakeSearchEngine(t, map[string]int{
		"movies":  http.StatusOK,
		"genres":  http.StatusBadRequest,
		"persons": http.StatusOK,
	})
	cfg := testConfig(t, engine, []string{"movies", "genres", "persons"})

	err := bootstrap.Run(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, engine.totalPuts())
}

func TestRun_ShortCircuitsOnFirstFailure(t *testing.T) {
	engine := newFakeSearchEngine(t, map[string]int{
		"movies":  http.StatusOK,
		"genres":  http.StatusBadRequest,
		"persons": http.StatusInternalServerError,
	})
	cfg := testConfig(t, engine, []string{"movies", "genres", "persons", "extra"})

	err := bootstrap.Run(context.Background(), cfg, logger.NewNop())
	require.Error(t, err)

	var exhausted *provisioner.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "persons", exhausted.Index)
	assert.Equal(t, http.StatusInternalServerError, exhausted.LastStatus)

	assert.Equal(t, 1, engine.putsFor("movies"))
	assert.Equal(t, 1, engine.putsFor("genres"))
	assert.Equal(t, 5, engine.putsFor("persons"), "retry budget spent on the failing index")
	assert.Equal(t, 0, engine.putsFor("extra"), "indexes after the failure are never attempted")
}

func TestRun_MissingDefinitionAbortsImmediately(t *testing.T) {
	engine := newFakeSearchEngine(t, map[string]int{"movies": http.StatusOK})
	cfg := testConfig(t, engine, []string{"movies"})
	cfg.Provision.DataDir = t.TempDir() // no definition files here

	err := bootstrap.Run(context.Background(), cfg, logger.NewNop())
	require.ErrorIs(t, err, provisioner.ErrDefinitionMissing)
	assert.Equal(t, 0, engine.totalPuts())
}

func TestRun_WaitsForSearchBeforeProvisioning(t *testing.T) {
	// The search engine starts returning 503 on pings; no PUT may be issued
	// until a ping has succeeded.
	var mu sync.Mutex
	ready := false
	var putBeforeReady bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")

		mu.Lock()
		isReady := ready
		if r.Method == http.MethodPut && !isReady {
			putBeforeReady = true
		}
		mu.Unlock()

		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusOK)
			return
		}
		if !isReady {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	go func() {
		time.Sleep(50 * time.Millisecond)
		mu.Lock()
		ready = true
		mu.Unlock()
	}()

	engine := &fakeSearchEngine{srv: srv}
	cfg := testConfig(t, engine, []string{"movies"})

	err := bootstrap.Run(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, putBeforeReady, "provisioning started before the search engine was ready")
}

func TestHandoff_EmptyArgvIsNoOp(t *testing.T) {
	require.NoError(t, bootstrap.Handoff(nil))
}

func TestHandoff_UnknownCommand(t *testing.T) {
	err := bootstrap.Handoff([]string{"definitely-not-a-real-command-404"})
	require.Error(t, err)
}
