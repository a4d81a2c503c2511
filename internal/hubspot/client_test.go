package hubspot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"
)

func (s *UnitTestSuite) TestFetchSendsCredentials() {
	var gotAuth, gotAccept, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotMethod = r.Method
		_, _ = w.Write([]byte(`{"portalId":555}`))
	}))
	defer srv.Close()

	c := NewClient("pat-default", time.Second)
	resp, ok := c.Fetch(context.Background(), srv.URL+"/integrations/v1/me", "")
	s.True(ok)
	s.True(resp.OK())
	s.Equal(`{"portalId":555}`, string(resp.Body))
	s.Equal("Bearer pat-default", gotAuth)
	s.Equal("application/json", gotAccept)
	s.Equal(http.MethodGet, gotMethod)

	_, ok = c.Fetch(context.Background(), srv.URL, "pat-override")
	s.True(ok)
	s.Equal("Bearer pat-override", gotAuth)
}

func (s *UnitTestSuite) TestFetchReturnsNon200() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error"}`))
	}))
	defer srv.Close()

	resp, ok := NewClient("", time.Second).Fetch(context.Background(), srv.URL, "")
	s.True(ok)
	s.False(resp.OK())
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *UnitTestSuite) TestFetchAbsentOnTransportFailure() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	resp, ok := NewClient("pat", time.Second).Fetch(context.Background(), url, "")
	s.False(ok)
	s.Zero(resp)
}

func (s *UnitTestSuite) TestFetchAbsentOnTimeout() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, ok := NewClient("pat", 50*time.Millisecond).Fetch(context.Background(), srv.URL, "")
	s.False(ok)
}

func (s *UnitTestSuite) TestFetchAbsentOnCanceledContext() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := NewClient("pat", time.Second).Fetch(ctx, srv.URL, "")
	s.False(ok)
}

func (s *UnitTestSuite) TestFetchAbsentOnBadURL() {
	_, ok := NewClient("pat", time.Second).Fetch(context.Background(), "://not a url", "")
	s.False(ok)
}

func (s *UnitTestSuite) TestFetchAbsentOnPanic() {
	hc := &http.Client{Transport: panicTransport{}}
	_, ok := NewClientWithHTTP(hc, "pat").Fetch(context.Background(), "https://api.test/x", "")
	s.False(ok)
}

type panicTransport struct{}

func (panicTransport) RoundTrip(*http.Request) (*http.Response, error) {
	panic("transport exploded")
}

func (s *UnitTestSuite) TestFetchAbsentOnOversizedBody() {
	prev := maxBodyBytes
	maxBodyBytes = 16
	defer func() { maxBodyBytes = prev }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/exact" {
			_, _ = w.Write([]byte(`{"portalId":555}`))
			return
		}
		_, _ = w.Write([]byte(`{"portalId":5555}`))
	}))
	defer srv.Close()

	c := NewClient("pat", time.Second)
	resp, ok := c.Fetch(context.Background(), srv.URL+"/exact", "")
	s.True(ok)
	s.Len(resp.Body, 16)

	resp, ok = c.Fetch(context.Background(), srv.URL+"/over", "")
	s.False(ok)
	s.Zero(resp)
}
