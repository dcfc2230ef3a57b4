package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/vigil/internal/adapters/http/api"
	app "github.com/okian/vigil/internal/app"
	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/internal/domain/scoring"
	"github.com/okian/vigil/internal/domain/types"
)

// stubService fakes the service surface behind the handlers.
type stubService struct {
	monitoring map[string]bool
	logged     []model.Event
	reports    map[string]types.Report
	startErr   error
	logErr     error
}

func newStubService() *stubService {
	return &stubService{
		monitoring: make(map[string]bool),
		reports:    make(map[string]types.Report),
	}
}

func (s *stubService) StartMonitoring(_ context.Context, sessionID string) error {
	if s.startErr != nil {
		return s.startErr
	}
	s.monitoring[sessionID] = true
	return nil
}

func (s *stubService) StopMonitoring(sessionID string) {
	delete(s.monitoring, sessionID)
}

func (s *stubService) LogEvent(_ context.Context, ev model.Event) error {
	if s.logErr != nil {
		return s.logErr
	}
	s.logged = append(s.logged, ev)
	return nil
}

func (s *stubService) ComputeReport(_ context.Context, sessionID string) (types.Report, error) {
	r, ok := s.reports[sessionID]
	if !ok {
		return types.Report{}, scoring.ErrNoEvents
	}
	return r, nil
}

func (s *stubService) SessionStats(_ context.Context, sessionID string) (types.SessionActivity, error) {
	return types.SessionActivity{TotalEvents: len(s.logged)}, nil
}

func (s *stubService) GetStats() map[string]interface{} {
	return map[string]interface{}{"active_sessions": len(s.monitoring)}
}

func newTestServer(svc *stubService) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestHTTPAPI(t *testing.T) {
	Convey("Given the API server", t, func() {
		svc := newStubService()
		ts := newTestServer(svc)
		Reset(ts.Close)

		Convey("When posting a valid event", func() {
			body, _ := json.Marshal(map[string]any{
				"session_id": "s1",
				"event_type": "LOOKING_AWAY",
				"timestamp":  time.Now().UTC().Format(time.RFC3339),
				"details":    map[string]any{"confidence": 0.8},
			})
			resp, err := http.Post(ts.URL+"/events", "application/json", bytes.NewReader(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it is accepted and forwarded", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				So(len(svc.logged), ShouldEqual, 1)
				So(svc.logged[0].SessionID, ShouldEqual, "s1")
				So(svc.logged[0].Type, ShouldEqual, model.AlertLookingAway)
			})
		})

		Convey("When posting an event without a session id", func() {
			body := []byte(`{"event_type":"LOOKING_AWAY"}`)
			resp, err := http.Post(ts.URL+"/events", "application/json", bytes.NewReader(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting an event with a malformed timestamp", func() {
			body := []byte(`{"session_id":"s1","event_type":"LOOKING_AWAY","timestamp":"yesterday"}`)
			resp, err := http.Post(ts.URL+"/events", "application/json", bytes.NewReader(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting malformed JSON", func() {
			resp, err := http.Post(ts.URL+"/events", "application/json", bytes.NewReader([]byte("{nope")))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When requesting a report with no events", func() {
			resp, err := http.Get(ts.URL + "/report/ghost")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it is a 404, not an empty report", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When requesting an existing report", func() {
			svc.reports["s1"] = types.Report{
				SessionID:      "s1",
				CandidateName:  "Candidate_s1",
				Duration:       "05:00",
				IntegrityScore: 67,
			}
			resp, err := http.Get(ts.URL + "/report/s1")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the JSON report comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var got types.Report
				So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
				So(got.IntegrityScore, ShouldEqual, 67)
				So(got.SessionID, ShouldEqual, "s1")
			})
		})

		Convey("When exporting a report", func() {
			svc.reports["s1"] = types.Report{
				SessionID:      "s1",
				CandidateName:  "Candidate_s1",
				Duration:       "05:00",
				IntegrityScore: 67,
				Events: []types.ReportEvent{
					{Timestamp: time.Now(), Event: "MULTIPLE_FACES"},
				},
			}

			Convey("And the format is pdf", func() {
				resp, err := http.Get(ts.URL + "/report/s1/export?format=pdf")
				So(err, ShouldBeNil)
				defer resp.Body.Close()

				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldEqual, "application/pdf")
			})

			Convey("And the format is xlsx", func() {
				resp, err := http.Get(ts.URL + "/report/s1/export?format=xlsx")
				So(err, ShouldBeNil)
				defer resp.Body.Close()

				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "spreadsheet")
			})

			Convey("And the format is unsupported", func() {
				resp, err := http.Get(ts.URL + "/report/s1/export?format=docx")
				So(err, ShouldBeNil)
				defer resp.Body.Close()

				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When controlling a session", func() {
			resp, err := http.Post(ts.URL+"/sessions/s1/start", "application/json", nil)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(svc.monitoring["s1"], ShouldBeTrue)

			resp, err = http.Post(ts.URL+"/sessions/s1/stop", "application/json", nil)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(svc.monitoring["s1"], ShouldBeFalse)
		})

		Convey("When starting a session without providers", func() {
			svc.startErr = app.ErrNoProviders
			resp, err := http.Post(ts.URL+"/sessions/s1/start", "application/json", nil)
			So(err, ShouldBeNil)
			resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching session stats", func() {
			resp, err := http.Get(ts.URL + "/sessions/s1/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			var got types.SessionActivity
			So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
		})

		Convey("When hitting an unknown session action", func() {
			resp, err := http.Post(ts.URL+"/sessions/s1/pause", "application/json", nil)
			So(err, ShouldBeNil)
			resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When fetching service stats", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			var got map[string]interface{}
			So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
			So(got, ShouldContainKey, "active_sessions")
		})

		Convey("When scraping the health endpoint", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When the LogEvent call fails downstream", func() {
			svc.logErr = errors.New("sink offline")
			body := []byte(`{"session_id":"s1","event_type":"LOOKING_AWAY"}`)
			resp, err := http.Post(ts.URL+"/events", "application/json", bytes.NewReader(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
		})
	})
}
