package finscreener

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testCompanyDetails = []byte(`
{
	"data": {
		"cin": "L12345MH2000PLC123456",
		"companyName": "Acme Industries Limited",
		"status": "Active"
	}
}
`)

// loginAwareDoer answers the login endpoint with a fixed token and routes
// everything else to data.
func loginAwareDoer(t *testing.T, data func(req *http.Request) (*http.Response, error)) *mockHTTPDoer {
	m := &mockHTTPDoer{t: t}
	m.do = func(req *http.Request) (*http.Response, error) {
		if strings.HasSuffix(req.URL.Path, loginPath) {
			return httpResponse(http.StatusOK, testLoginResponse), nil
		}

		return data(req)
	}

	return m
}

func (m *mockHTTPDoer) dataRequests() []*http.Request {
	out := []*http.Request{}

	for _, req := range m.requests() {
		if !strings.HasSuffix(req.URL.Path, loginPath) {
			out = append(out, req)
		}
	}

	return out
}

func callErrorKind(t *testing.T, err error) ErrorKind {
	t.Helper()

	callErr := &CallError{}
	if !assert.ErrorAs(t, err, &callErr) {
		t.FailNow()
	}

	return callErr.Kind
}

func TestInvoke_UnknownTool(t *testing.T) {
	doer := &mockHTTPDoer{t: t}
	c := newTestClient(t, doer, newFakeClock())

	_, err := c.Invoke(context.TODO(), "summon_gopher", Params{})

	assert.Equal(t, KindUnknownTool, callErrorKind(t, err))
	assert.Empty(t, doer.requests(), "unknown tools must be rejected without network traffic")
}

func TestInvoke_Success(t *testing.T) {
	doer := loginAwareDoer(t, func(_ *http.Request) (*http.Response, error) {
		return httpResponse(http.StatusOK, testCompanyDetails), nil
	})

	c := newTestClient(t, doer, newFakeClock())

	body, err := c.Invoke(context.TODO(), "get_company_details", Params{})
	assert.NoError(t, err)
	assert.Equal(t, testCompanyDetails, body, "response body must be returned unmodified")

	reqs := doer.dataRequests()
	if assert.Len(t, reqs, 1) {
		assert.Equal(t, "/api/company/details", reqs[0].URL.Path)
		assert.Equal(t, "Bearer bearer-token-1", reqs[0].Header.Get("Authorization"))
	}
}

func TestInvoke_LocalQuotaDenial(t *testing.T) {
	clock := newFakeClock()
	doer := &mockHTTPDoer{t: t}
	c := newTestClient(t, doer, clock)

	windowStart := clock.Now()
	c.quota.windows[ClassDetail] = &quotaWindow{start: windowStart, count: detailDailyLimit}

	_, err := c.Invoke(context.TODO(), "get_gst_details", Params{})

	assert.Equal(t, KindQuotaExceeded, callErrorKind(t, err))
	assert.Empty(t, doer.requests(), "quota denials must not reach the network")

	callErr := &CallError{}
	assert.ErrorAs(t, err, &callErr)
	assert.Equal(t, windowStart.Add(quotaWindowLength), callErr.RetryAfter)
}

func TestInvoke_InvalidKey(t *testing.T) {
	doer := &mockHTTPDoer{t: t, statusCode: http.StatusUnauthorized}
	c := newTestClient(t, doer, newFakeClock())

	_, err := c.Invoke(context.TODO(), "search_company", Params{})

	assert.Equal(t, KindInvalidKey, callErrorKind(t, err))
}

func TestInvoke_AuthExpiredRetry(t *testing.T) {
	var dataCalls int

	doer := loginAwareDoer(t, func(_ *http.Request) (*http.Response, error) {
		dataCalls++
		if dataCalls == 1 {
			return httpResponse(http.StatusUnauthorized, nil), nil
		}

		return httpResponse(http.StatusOK, testCompanyDetails), nil
	})

	c := newTestClient(t, doer, newFakeClock())

	body, err := c.Invoke(context.TODO(), "get_company_details", Params{})
	assert.NoError(t, err)
	assert.Equal(t, testCompanyDetails, body)

	// one exchange up front, one forced by the 401
	logins := len(doer.requests()) - len(doer.dataRequests())
	assert.Equal(t, 2, logins)
	assert.Equal(t, 2, dataCalls)
}

func TestInvoke_AuthExpiredTwiceIsFatal(t *testing.T) {
	doer := loginAwareDoer(t, func(_ *http.Request) (*http.Response, error) {
		return httpResponse(http.StatusUnauthorized, nil), nil
	})

	c := newTestClient(t, doer, newFakeClock())

	_, err := c.Invoke(context.TODO(), "search_gst", Params{})

	assert.Equal(t, KindFatal, callErrorKind(t, err))

	callErr := &CallError{}
	assert.ErrorAs(t, err, &callErr)
	assert.Equal(t, http.StatusUnauthorized, callErr.Status)

	// the retry happens exactly once
	assert.Len(t, doer.dataRequests(), 2)
}

func TestInvoke_TimeoutNotRetried(t *testing.T) {
	var dataCalls int

	doer := loginAwareDoer(t, func(_ *http.Request) (*http.Response, error) {
		dataCalls++
		return nil, context.DeadlineExceeded
	})

	c := newTestClient(t, doer, newFakeClock())

	_, err := c.Invoke(context.TODO(), "run_screener", Params{Body: map[string]any{"query": "Revenue > 100"}})

	assert.Equal(t, KindTimeout, callErrorKind(t, err))
	assert.Equal(t, 1, dataCalls, "timeouts are surfaced, never retried")
}

func TestInvoke_TransientNetworkError(t *testing.T) {
	doer := loginAwareDoer(t, func(_ *http.Request) (*http.Response, error) {
		return nil, &timeoutlessNetError{}
	})

	c := newTestClient(t, doer, newFakeClock())

	_, err := c.Invoke(context.TODO(), "list_orders", Params{})

	assert.Equal(t, KindNetworkError, callErrorKind(t, err))
	assert.Len(t, doer.dataRequests(), 1)
}

func TestInvoke_RemoteQuotaDenial(t *testing.T) {
	resetAt := time.Date(2026, 1, 16, 9, 0, 0, 0, time.UTC)

	doer := loginAwareDoer(t, func(_ *http.Request) (*http.Response, error) {
		return httpResponse(http.StatusTooManyRequests, []byte(`{"detail": {"resets_at": "2026-01-16T09:00:00Z"}}`)), nil
	})

	c := newTestClient(t, doer, newFakeClock())

	_, err := c.Invoke(context.TODO(), "get_director_details", Params{})

	assert.Equal(t, KindQuotaExceeded, callErrorKind(t, err))

	callErr := &CallError{}
	assert.ErrorAs(t, err, &callErr)
	assert.True(t, resetAt.Equal(callErr.RetryAfter))
}

func TestInvoke_RemoteQuotaDenialWithoutHint(t *testing.T) {
	clock := newFakeClock()

	doer := loginAwareDoer(t, func(_ *http.Request) (*http.Response, error) {
		return httpResponse(http.StatusTooManyRequests, []byte(`{"detail": "limit reached"}`)), nil
	})

	c := newTestClient(t, doer, clock)

	_, err := c.Invoke(context.TODO(), "get_company_details", Params{})

	callErr := &CallError{}
	assert.ErrorAs(t, err, &callErr)
	assert.Equal(t, KindQuotaExceeded, callErr.Kind)

	// without a remote hint the local window provides the retry time
	assert.Equal(t, clock.Now().Add(quotaWindowLength), callErr.RetryAfter)
}

func TestInvoke_FatalStatus(t *testing.T) {
	doer := loginAwareDoer(t, func(_ *http.Request) (*http.Response, error) {
		return httpResponse(http.StatusNotFound, []byte(`{"detail": "no such screener"}`)), nil
	})

	c := newTestClient(t, doer, newFakeClock())

	_, err := c.Invoke(context.TODO(), "get_screener", Params{Path: map[string]string{"screener_id": "scr-1"}})

	callErr := &CallError{}
	assert.ErrorAs(t, err, &callErr)
	assert.Equal(t, KindFatal, callErr.Kind)
	assert.Equal(t, http.StatusNotFound, callErr.Status)
	assert.Equal(t, []byte(`{"detail": "no such screener"}`), callErr.Body)
}

func TestInvoke_MissingPathParam(t *testing.T) {
	doer := loginAwareDoer(t, func(_ *http.Request) (*http.Response, error) {
		t.Error("request must not be dispatched without its path parameters")
		return nil, nil
	})

	c := newTestClient(t, doer, newFakeClock())

	_, err := c.Invoke(context.TODO(), "delete_watchlist", Params{})

	assert.Equal(t, KindFatal, callErrorKind(t, err))
	assert.Empty(t, doer.dataRequests())
}

// timeoutlessNetError satisfies net.Error without reporting a timeout.
type timeoutlessNetError struct{}

func (e *timeoutlessNetError) Error() string   { return "connection reset" }
func (e *timeoutlessNetError) Timeout() bool   { return false }
func (e *timeoutlessNetError) Temporary() bool { return true }
