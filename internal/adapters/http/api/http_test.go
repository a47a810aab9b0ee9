package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/okian/rigscore/internal/adapters/http/api"
	. "github.com/smartystreets/goconvey/convey"
)

type mockStatsProvider struct {
	ready bool
	stats map[string]any
}

func (m *mockStatsProvider) Ready() bool { return m.ready }
func (m *mockStatsProvider) Stats() any  { return m.stats }

func serve(mux *http.ServeMux, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		provider := &mockStatsProvider{stats: map[string]any{"entities": 3, "generation": 1}}
		mux := http.NewServeMux()
		api.NewServer(provider).Register(mux)

		Convey("When no snapshot is loaded yet", func() {
			w := serve(mux, http.MethodGet, "/healthz")

			Convey("Then health reports loading", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(w.Body.String(), ShouldContainSubstring, `"loading"`)
			})
		})

		Convey("When a snapshot is loaded", func() {
			provider.ready = true
			w := serve(mux, http.MethodGet, "/healthz")

			Convey("Then health reports ok as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				var body map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
			})
		})

		Convey("When stats are requested", func() {
			w := serve(mux, http.MethodGet, "/stats")

			Convey("Then the provider view is encoded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["entities"], ShouldEqual, 3.0)
			})
		})

		Convey("When a handler receives the wrong method", func() {
			w := serve(mux, http.MethodPost, "/stats")

			Convey("Then it is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Body.String(), ShouldContainSubstring, "method_not_allowed")
			})
		})

		Convey("When metrics are scraped after a request", func() {
			serve(mux, http.MethodGet, "/healthz")
			w := serve(mux, http.MethodGet, "/metrics")

			Convey("Then the request counter is exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.Contains(w.Body.String(), "rigscore_engine_http_requests_total"), ShouldBeTrue)
			})
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler wrapped by the metrics middleware", t, func() {
		h := api.MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		}, "teapot")

		Convey("When it is served", func() {
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, "/", nil))

			Convey("Then status and body pass through", func() {
				So(w.Code, ShouldEqual, http.StatusTeapot)
				So(w.Body.String(), ShouldEqual, "short and stout")
			})
		})
	})
}
