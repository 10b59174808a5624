package mockserver

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/launchdarkly/async-test-harness/framework"
)

const endpointPathPrefix = "/endpoints/"

// Server routes requests to mock endpoints.
type Server struct {
	httpServer     *httptest.Server
	endpoints      map[string]*Endpoint
	lastEndpointID int
	logger         framework.Logger
	lock           sync.Mutex
}

// NewServer starts a Server on a local port.
func NewServer(logger framework.Logger) *Server {
	if logger == nil {
		logger = framework.NullLogger()
	}
	s := &Server{
		endpoints: make(map[string]*Endpoint),
		logger:    logger,
	}
	s.httpServer = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	return s
}

// URL returns the base URL of the server.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Close closes every endpoint and shuts down the server.
func (s *Server) Close() {
	s.lock.Lock()
	endpoints := make([]*Endpoint, 0, len(s.endpoints))
	for _, e := range s.endpoints {
		endpoints = append(endpoints, e)
	}
	s.lock.Unlock()
	for _, e := range endpoints {
		e.Close()
	}
	s.httpServer.Close()
}

func (s *Server) serveHTTP(w http.ResponseWriter, req *http.Request) {
	if !strings.HasPrefix(req.URL.Path, endpointPathPrefix) {
		s.logger.Printf("Received request for unrecognized URL path %s", req.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	path := strings.TrimPrefix(req.URL.Path, endpointPathPrefix)
	var endpointID string
	slashPos := strings.Index(path, "/")
	if slashPos >= 0 {
		endpointID = path[0:slashPos]
		path = path[slashPos:]
	} else {
		endpointID = path
		path = ""
	}

	s.lock.Lock()
	e := s.endpoints[endpointID]
	s.lock.Unlock()
	if e == nil {
		s.logger.Printf("Received request for unrecognized endpoint %s", req.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			s.logger.Printf("Unexpected error trying to read request body: %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = data
	}

	ctx, cancel := context.WithCancel(req.Context())
	if !e.track(&cancel) {
		cancel()
		w.WriteHeader(http.StatusNotFound)
		return
	}
	defer e.untrack(&cancel)

	e.logger.Printf("Endpoint %s received %s %s", e.id, req.Method, path)
	e.notify(IncomingRequestInfo{
		Headers: req.Header,
		Method:  req.Method,
		Path:    path,
		Body:    body,
		Context: ctx,
	})

	transformedReq := req.WithContext(ctx)
	url := *req.URL
	url.Path = path
	transformedReq.URL = &url
	if body != nil {
		transformedReq.Body = io.NopCloser(bytes.NewBuffer(body))
	}
	e.handler.ServeHTTP(w, transformedReq)
}
