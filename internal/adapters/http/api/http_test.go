package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/crewcast/internal/adapters/http/api"
	"github.com/okian/crewcast/internal/app"
	"github.com/okian/crewcast/internal/adapters/repository"
	"github.com/okian/crewcast/internal/domain/model"
)

// stubSnapshots fakes the session read side.
type stubSnapshots struct {
	record model.SessionRecord
	err    error
}

func (s *stubSnapshots) Snapshot(_ context.Context) (model.SessionRecord, error) {
	if s.err != nil {
		return model.SessionRecord{}, s.err
	}
	return s.record, nil
}

// stubStats fakes the monitoring read side.
type stubStats struct{}

func (stubStats) GetStats() app.Stats {
	return app.Stats{Started: true, TeamSize: 4, EditsApplied: 7}
}

func TestSessionHandler_HandleGetSession(t *testing.T) {
	Convey("Given a session handler", t, func() {
		Convey("When the session is initialized", func() {
			handler := api.NewSessionHandler(&stubSnapshots{
				record: model.SessionRecord{
					Team: []string{"p1", "p2"},
					Meta: map[string]string{"last_edit_kind": "SWAP"},
				},
			})
			w := httptest.NewRecorder()
			handler.HandleGetSession(w, httptest.NewRequest(http.MethodGet, "/session", nil))

			Convey("Then the record is returned as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var record model.SessionRecord
				So(json.Unmarshal(w.Body.Bytes(), &record), ShouldBeNil)
				So(record.Team, ShouldResemble, []string{"p1", "p2"})
			})
		})

		Convey("When the session was never bootstrapped", func() {
			handler := api.NewSessionHandler(&stubSnapshots{err: repository.ErrNotInitialized})
			w := httptest.NewRecorder()
			handler.HandleGetSession(w, httptest.NewRequest(http.MethodGet, "/session", nil))

			Convey("Then a not-initialized error body is returned", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				var body struct {
					Code string `json:"code"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Code, ShouldEqual, "not_initialized")
			})
		})

		Convey("When the store fails unexpectedly", func() {
			handler := api.NewSessionHandler(&stubSnapshots{err: errors.New("disk broke")})
			w := httptest.NewRecorder()
			handler.HandleGetSession(w, httptest.NewRequest(http.MethodGet, "/session", nil))

			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("When the method is not GET", func() {
			handler := api.NewSessionHandler(&stubSnapshots{})
			w := httptest.NewRecorder()
			handler.HandleGetSession(w, httptest.NewRequest(http.MethodPost, "/session", nil))

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		handler := api.NewStatsHandler(stubStats{})

		Convey("When stats are requested", func() {
			w := httptest.NewRecorder()
			handler.HandleStats(w, httptest.NewRequest(http.MethodGet, "/stats", nil))

			Convey("Then the typed counters are encoded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var stats app.Stats
				So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
				So(stats.Started, ShouldBeTrue)
				So(stats.TeamSize, ShouldEqual, 4)
				So(stats.EditsApplied, ShouldEqual, 7)
			})
		})

		Convey("When the method is not GET", func() {
			w := httptest.NewRecorder()
			handler.HandleStats(w, httptest.NewRequest(http.MethodDelete, "/stats", nil))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When the endpoint is scraped", func() {
			w := httptest.NewRecorder()
			handler.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			Convey("Then the metrics exposition is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.Len(), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler wrapped in the metrics middleware", t, func() {
		wrapped := api.MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}, "test")

		Convey("When a request passes through", func() {
			w := httptest.NewRecorder()
			wrapped(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			Convey("Then the inner status code is preserved", func() {
				So(w.Code, ShouldEqual, http.StatusTeapot)
			})
		})
	})
}
