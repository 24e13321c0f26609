package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"airport-gateway/airport/application"
	"airport-gateway/airport/domain"
	"airport-gateway/airport/infra"

	"github.com/stretchr/testify/require"
)

const testAt = "2024-05-01T10:00:00.123456789Z"

func newTestHandler(t *testing.T, slots int) http.Handler {
	t.Helper()
	a := infra.NewQueueAllocator(slots)
	t.Cleanup(func() { _ = a.Close() })
	return NewHandler(application.ClaimService{Allocator: a, Strategy: a.Strategy()}, a.Slots(), nil)
}

func postClaim(h http.Handler, body string) *httptest.ResponseRecorder {
	return postClaimAs(h, "", body)
}

func postClaimAs(h http.Handler, pilot, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "http://airport/claims", strings.NewReader(body))
	if pilot != "" {
		r.Header.Set(DefaultPilotHeader, pilot)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHandler_PostClaimGrantsThenConflicts(t *testing.T) {
	h := newTestHandler(t, 2)
	body := `{"at":"` + testAt + `"}`

	for want := 0; want < 2; want++ {
		w := postClaim(h, body)
		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var resp claimResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Equal(t, want, resp.SlotIndex)
		require.NotEmpty(t, resp.SlotID)
		require.Equal(t, testAt, resp.At.Format(time.RFC3339Nano))
	}

	w := postClaim(h, body)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "no slot available")
}

func TestHandler_PostClaimRejectsMissingOrInvalidAt(t *testing.T) {
	h := newTestHandler(t, 1)

	require.Equal(t, http.StatusBadRequest, postClaim(h, `{}`).Code)
	require.Equal(t, http.StatusBadRequest, postClaim(h, `{"at":"yesterday"}`).Code)
	require.Equal(t, http.StatusBadRequest, postClaim(h, `{"at":"`+testAt+`","runway":"09L"}`).Code)
	require.Equal(t, http.StatusBadRequest, postClaim(h, `not json`).Code)
}

func TestHandler_ConcurrentPostsNeverShareASlot(t *testing.T) {
	h := newTestHandler(t, 5)
	body := `{"at":"` + testAt + `"}`

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = make(map[string]int)
		refused int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := postClaim(h, body)
			mu.Lock()
			defer mu.Unlock()
			if w.Code == http.StatusConflict {
				refused++
				return
			}
			var resp claimResponse
			_ = json.NewDecoder(w.Body).Decode(&resp)
			ids[resp.SlotID]++
		}()
	}
	wg.Wait()

	require.Len(t, ids, 5)
	for id, n := range ids {
		require.Equal(t, 1, n, "slot %s granted %d times", id, n)
	}
	require.Equal(t, 15, refused)
}

func TestHandler_GetClaimsReportsOccupancy(t *testing.T) {
	h := newTestHandler(t, 3)
	postClaim(h, `{"at":"`+testAt+`"}`)

	r := httptest.NewRequest(http.MethodGet, "http://airport/claims?at="+url.QueryEscape(testAt), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var resp occupancyResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Booked, 1)
	require.Equal(t, 0, resp.Booked[0].SlotIndex)
	require.Equal(t, 2, resp.Free)

	r = httptest.NewRequest(http.MethodGet, "http://airport/claims", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

type claimOnlyAllocator struct{}

func (claimOnlyAllocator) Claim(time.Time) (*domain.Slot, bool) { return nil, false }

func TestHandler_GetClaimsWithoutOccupancyReader(t *testing.T) {
	h := NewHandler(application.ClaimService{Allocator: claimOnlyAllocator{}}, 5, nil)

	r := httptest.NewRequest(http.MethodGet, "http://airport/claims?at="+url.QueryEscape(testAt), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestHandler_PostClaimThrottlesPilotOverRate(t *testing.T) {
	a := infra.NewMutexAllocator(5)
	svc := application.ClaimService{
		Allocator:  a,
		Limits:     infra.NewPilotLimiterStore(0.001, 1),
		RetryAfter: 1500 * time.Millisecond,
	}
	h := NewHandler(svc, a.Slots(), nil)
	body := `{"at":"` + testAt + `"}`

	w := postClaimAs(h, "PT-100", body)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp claimResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "PT-100", resp.Pilot)

	w = postClaimAs(h, "PT-100", body)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "2", w.Header().Get("Retry-After"))

	// cada piloto tem o seu próprio bucket
	require.Equal(t, http.StatusCreated, postClaimAs(h, "PT-200", body).Code)

	// o pedido barrado não consumiu pista
	require.Len(t, a.Booked(resp.At), 2)
}

func TestHandler_PostClaimBusyWhenAdmissionFull(t *testing.T) {
	pool := infra.NewChanPool(1)
	release, ok := pool.Acquire(context.Background())
	require.True(t, ok)

	a := infra.NewSemaphoreAllocator(1)
	h := NewHandler(application.ClaimService{
		Allocator:        a,
		Admission:        pool,
		AdmissionTimeout: 10 * time.Millisecond,
	}, a.Slots(), nil)
	body := `{"at":"` + testAt + `"}`

	w := postClaim(h, body)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), "server busy")

	release()
	require.Equal(t, http.StatusCreated, postClaim(h, body).Code)
}

func TestHandler_PilotIdentity(t *testing.T) {
	cases := []struct {
		name   string
		opts   []Option
		header http.Header
		remote string
		want   string
	}{
		{name: "default header", header: http.Header{"X-Pilot-Id": {" PT-100 "}}, remote: "10.0.0.1:5000", want: "PT-100"},
		{name: "custom header", opts: []Option{WithPilotHeader("X-Callsign")}, header: http.Header{"X-Callsign": {"TAP123"}}, remote: "10.0.0.1:5000", want: "TAP123"},
		{name: "remote host", remote: "10.0.0.1:5000", want: "10.0.0.1"},
		{name: "xff ignored unless trusted", header: http.Header{"X-Forwarded-For": {"203.0.113.7"}}, remote: "10.0.0.1:5000", want: "10.0.0.1"},
		{name: "xff first hop", opts: []Option{WithTrustedForwardedFor(true)}, header: http.Header{"X-Forwarded-For": {"203.0.113.7, 10.0.0.2"}}, remote: "10.0.0.1:5000", want: "203.0.113.7"},
		{name: "remote without port", remote: "pipe", want: "pipe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := infra.NewMutexAllocator(1)
			h := NewHandler(application.ClaimService{Allocator: a}, a.Slots(), nil, tc.opts...)

			r := httptest.NewRequest(http.MethodPost, "http://airport/claims", strings.NewReader(`{"at":"`+testAt+`"}`))
			for k, v := range tc.header {
				r.Header[k] = v
			}
			r.RemoteAddr = tc.remote
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			require.Equal(t, http.StatusCreated, w.Code)

			var resp claimResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			require.Equal(t, tc.want, resp.Pilot)
		})
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	require.Equal(t, "1", retryAfterSeconds(0))
	require.Equal(t, "1", retryAfterSeconds(200*time.Millisecond))
	require.Equal(t, "1", retryAfterSeconds(time.Second))
	require.Equal(t, "3", retryAfterSeconds(2001*time.Millisecond))
}
