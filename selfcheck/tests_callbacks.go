package selfcheck

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/launchdarkly/async-test-harness/framework"
	"github.com/launchdarkly/async-test-harness/mockserver"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
)

func doCallbackTests(s *framework.Suite, server *mockserver.Server) {
	s.Test("HTTP response is delivered to an expected callback", func(t *framework.T) {
		endpoint := server.NewEndpoint(httphelpers.HandlerWithStatus(204), t.DebugLogger())
		onResponse := framework.ExpectAsync2(t, func(status int, err error) {
			defer endpoint.Close()
			if assert.NoError(t, err) {
				assert.Equal(t, 204, status)
			}
		}, framework.ID("response"))
		go func() {
			status, err := get(endpoint.BaseURL())
			onResponse(status, err)
		}()
	})

	s.Test("endpoint hook is called for every request", func(t *framework.T) {
		headers := make(http.Header)
		headers.Set("Content-Type", "text/plain")
		handler, requestsCh := httphelpers.RecordingHandler(
			httphelpers.HandlerWithResponse(200, headers, []byte("ok")))
		endpoint := server.NewEndpoint(handler, t.DebugLogger())

		const requests = 2
		onRequest := framework.ExpectAsync1(t, func(info mockserver.IncomingRequestInfo) {
			assert.Equal(t, "GET", info.Method)
		}, framework.Count(requests), framework.ID("request"))
		endpoint.OnRequest(onRequest)

		onDone := framework.ExpectAsync0(t, func() {
			endpoint.Close()
			assert.Len(t, requestsCh, requests)
		}, framework.ID("all requests"))
		go func() {
			var wg sync.WaitGroup
			for i := 0; i < requests; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = get(endpoint.BaseURL())
				}()
			}
			wg.Wait()
			onDone()
		}()
	})

	s.Test("callback runs until its condition holds", func(t *framework.T) {
		calls := 0
		tick := framework.ExpectAsyncUntil0(t, func() { calls++ }, func() bool { return calls == 3 })
		go func() {
			for i := 0; i < 3; i++ {
				time.Sleep(time.Millisecond)
				tick()
			}
		}()
	})

	s.Test("out-of-order messages are released in sequence", func(t *framework.T) {
		const count = 5
		next := 1
		onMessage := framework.ExpectAsync2(t, func(seq int, message string) {
			assert.Equal(t, next, seq)
			assert.Equal(t, fmt.Sprintf("message %d", seq), message)
			next++
		}, framework.Count(count))
		q := mockserver.NewSequencer(onMessage)
		for _, seq := range []int{3, 1, 5, 2, 4} {
			time.AfterFunc(time.Duration(seq)*time.Millisecond, func() {
				q.Accept(seq, fmt.Sprintf("message %d", seq))
			})
		}
	})

	s.Test("optional callback does not hold up the test", func(t *framework.T) {
		called := false
		maybe := framework.ProtectAsync1(t, func(s string) { called = s == "now" })
		maybe("now")
		assert.True(t, called)
		assert.Equal(t, 1, t.Case().Outstanding(), "only the body itself should be outstanding")
	})
}

func get(url string) (int, error) {
	resp, err := http.Get(url)
	if err != nil {
		return 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}
