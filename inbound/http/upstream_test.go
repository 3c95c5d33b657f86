package http

import (
	"encoding/json"
	"eventdesk/model"
	"eventdesk/outbound/backend"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

type upstreamCall struct {
	Route string
	Body  string
}

// fakeUpstream answers exact "METHOD /path" routes and records every call.
type fakeUpstream struct {
	server *httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []upstreamCall
}

func newFakeUpstream() *fakeUpstream {
	u := &fakeUpstream{routes: map[string]http.HandlerFunc{}}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		route := r.Method + " " + r.URL.Path

		u.mu.Lock()
		u.calls = append(u.calls, upstreamCall{Route: route, Body: string(body)})
		handler, ok := u.routes[route]
		u.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"route not stubbed"}`)
			return
		}
		handler(w, r)
	}))
	return u
}

func (u *fakeUpstream) respond(route string, status int, body string) {
	u.handle(route, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (u *fakeUpstream) handle(route string, handler http.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[route] = handler
}

func (u *fakeUpstream) reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes = map[string]http.HandlerFunc{}
	u.calls = nil
}

func (u *fakeUpstream) routesCalled() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	routes := make([]string, 0, len(u.calls))
	for _, c := range u.calls {
		routes = append(routes, c.Route)
	}
	return routes
}

func (u *fakeUpstream) lastBody(route string) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i := len(u.calls) - 1; i >= 0; i-- {
		if u.calls[i].Route == route {
			return u.calls[i].Body
		}
	}
	return ""
}

func (u *fakeUpstream) client() *backend.Client {
	return &backend.Client{
		BaseURL:           u.server.URL,
		Token:             "service-token",
		HTTP:              u.server.Client(),
		NewIdempotencyKey: func() string { return "idem-key" },
	}
}

func (u *fakeUpstream) close() {
	u.server.Close()
}

// emailTo matches a queued email payload by recipient and body fragments.
type emailTo struct {
	to       string
	subject  string
	contains []string
}

func (m emailTo) Matches(x any) bool {
	payload, ok := x.([]byte)
	if !ok {
		return false
	}

	var msg model.SendEmailEventMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return false
	}
	if msg.To != m.to || (m.subject != "" && msg.Subject != m.subject) {
		return false
	}
	for _, part := range m.contains {
		if !strings.Contains(msg.Body, part) {
			return false
		}
	}
	return true
}

func (m emailTo) String() string {
	return fmt.Sprintf("email to %s", m.to)
}
