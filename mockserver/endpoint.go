package mockserver

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/launchdarkly/async-test-harness/framework"
)

// Endpoint is a mock endpoint that can receive requests.
type Endpoint struct {
	owner    *Server
	id       string
	basePath string
	handler  http.Handler
	hooks    []func(IncomingRequestInfo)
	cancels  []*context.CancelFunc
	closed   bool
	logger   framework.Logger
	lock     sync.Mutex
	closing  sync.Once
}

// IncomingRequestInfo contains information about an HTTP request received by a mock endpoint.
type IncomingRequestInfo struct {
	Headers http.Header
	Method  string
	Path    string
	Body    []byte
	Context context.Context
}

// NewEndpoint adds a new endpoint that can receive requests.
//
// The handler is called for all requests to the endpoint's base URL or any subpath of it. The
// request URL is rewritten first so that the handler sees only the subpath, and the request
// Context is cancelled if the endpoint is closed.
func (s *Server) NewEndpoint(handler http.Handler, logger framework.Logger) *Endpoint {
	if logger == nil {
		logger = s.logger
	}
	e := &Endpoint{
		owner:   s,
		handler: handler,
		logger:  logger,
	}
	s.lock.Lock()
	s.lastEndpointID++
	e.id = strconv.Itoa(s.lastEndpointID)
	e.basePath = endpointPathPrefix + e.id
	s.endpoints[e.id] = e
	s.lock.Unlock()

	return e
}

// BaseURL returns the base URL of the endpoint.
func (e *Endpoint) BaseURL() string {
	return e.owner.URL() + e.basePath
}

// OnRequest adds a function to be called, before the handler, for every request the endpoint
// receives. It is called on the HTTP server's goroutine for that request.
func (e *Endpoint) OnRequest(hook func(IncomingRequestInfo)) {
	e.lock.Lock()
	e.hooks = append(e.hooks, hook)
	e.lock.Unlock()
}

func (e *Endpoint) notify(info IncomingRequestInfo) {
	e.lock.Lock()
	hooks := append(([]func(IncomingRequestInfo))(nil), e.hooks...)
	e.lock.Unlock()
	for _, h := range hooks {
		h(info)
	}
}

func (e *Endpoint) track(cancel *context.CancelFunc) bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.closed {
		return false
	}
	e.cancels = append(e.cancels, cancel)
	return true
}

func (e *Endpoint) untrack(cancel *context.CancelFunc) {
	e.lock.Lock()
	defer e.lock.Unlock()
	for i, c := range e.cancels {
		if c == cancel { // can't compare functions with ==, but can compare pointers
			e.cancels = append(e.cancels[:i], e.cancels[i+1:]...)
			break
		}
	}
}

// Close unregisters the endpoint. Any subsequent requests to it will receive 404 errors.
// It also cancels the Context for every active request to that endpoint.
func (e *Endpoint) Close() {
	e.closing.Do(func() {
		e.owner.lock.Lock()
		delete(e.owner.endpoints, e.id)
		e.owner.lock.Unlock()

		e.lock.Lock()
		cancellers := e.cancels
		e.cancels = nil
		e.closed = true
		e.lock.Unlock()

		for _, cancel := range cancellers {
			(*cancel)()
		}
	})
}
