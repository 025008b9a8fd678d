package archon

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"talentsync/internal/telemetry"
	"talentsync/internal/wow"

	"github.com/stretchr/testify/require"
)

func talentPage(code string) string {
	return fmt.Sprintf(
		`<html><body><a href="https://www.wowhead.com/talent-calc/blizzard/%s">calculator</a></body></html>`,
		code,
	)
}

func newTestClient(baseURL string) *Client {
	return NewClient(Options{
		BaseURL: baseURL,
		Timeout: time.Second * 5,
	}, telemetry.SlogAPI{})
}

func TestFetchBuildSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, talentPage("mage/frost/XYZ"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	code, err := client.FetchBuild(context.Background(), server.URL+"/whatever")
	require.NoError(t, err)
	require.Equal(t, "mage/frost/XYZ", code)
}

func TestFetchBuildNoLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>nothing here</body></html>")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	code, err := client.FetchBuild(context.Background(), server.URL+"/whatever")
	require.NoError(t, err)
	require.Equal(t, "", code)
}

// a 500 is the server signaling insufficient statistics, not a failure
func TestFetchBuildServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	code, err := client.FetchBuild(context.Background(), server.URL+"/whatever")
	require.NoError(t, err)
	require.Equal(t, "", code)
}

func TestFetchBuildTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchBuild(context.Background(), server.URL+"/whatever")
	require.Error(t, err)
}

func TestFetchBuildConcurrencyCeiling(t *testing.T) {
	var inflight, peak int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&inflight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond * 30)
		atomic.AddInt64(&inflight, -1)
		fmt.Fprint(w, talentPage("x/y/Z"))
	}))
	defer server.Close()

	client := NewClient(Options{
		BaseURL:       server.URL,
		MaxConcurrent: 3,
		Timeout:       time.Second * 5,
	}, telemetry.SlogAPI{})

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.FetchBuild(context.Background(), server.URL+"/b")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, atomic.LoadInt64(&peak), int64(3))
}

// on the reset day the prior period is primary; when it has no data the
// current period result is used without raising an error
func TestFetchDungeonBuildFallback(t *testing.T) {
	var hits []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.URL.Path)
		mu.Unlock()

		if r.URL.Path == "/frost/mage/mythic-plus/overview/10//ara-kara/last-week" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, talentPage("mage/frost/CURRENT"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	resetDay := time.Date(2024, 7, 3, 9, 0, 0, 0, time.UTC) // a Wednesday
	code, err := client.FetchDungeonBuild(context.Background(), wow.Mage, "frost", "ara-kara", resetDay)
	require.NoError(t, err)
	require.Equal(t, "mage/frost/CURRENT", code)

	require.Equal(t, []string{
		"/frost/mage/mythic-plus/overview/10//ara-kara/last-week",
		"/frost/mage/mythic-plus/overview/10//ara-kara/this-week",
	}, hits)
}

func TestFetchDungeonBuildPrimaryHit(t *testing.T) {
	var count int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&count, 1)
		fmt.Fprint(w, talentPage("mage/frost/PRIMARY"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	thursday := time.Date(2024, 7, 4, 9, 0, 0, 0, time.UTC)
	code, err := client.FetchDungeonBuild(context.Background(), wow.Mage, "frost", "ara-kara", thursday)
	require.NoError(t, err)
	require.Equal(t, "mage/frost/PRIMARY", code)
	require.Equal(t, int64(1), atomic.LoadInt64(&count))
}
