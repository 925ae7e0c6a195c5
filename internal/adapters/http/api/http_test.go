package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/contestboard/internal/adapters/http/api"
	service "github.com/okian/contestboard/internal/app"
	"github.com/okian/contestboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// mockSession records calls and returns canned results.
type mockSession struct {
	lastReq    service.Request
	views      service.Views
	computeErr error
	contests   map[string]model.ContestData
	cleared    int
}

func (m *mockSession) Compute(ctx context.Context, req service.Request) (service.Views, error) {
	m.lastReq = req
	return m.views, m.computeErr
}

func (m *mockSession) Contest(ctx context.Context, contestID string) (model.ContestData, error) {
	data, ok := m.contests[contestID]
	if !ok {
		return model.ContestData{}, fmt.Errorf("contest %s: %w", contestID, service.ErrNotCached)
	}
	return data, nil
}

func (m *mockSession) Invalidate(ctx context.Context, contestID string) bool {
	_, ok := m.contests[contestID]
	delete(m.contests, contestID)
	return ok
}

func (m *mockSession) Clear(ctx context.Context) int {
	n := len(m.contests)
	m.contests = map[string]model.ContestData{}
	m.cleared++
	return n
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestMux(session *mockSession) *http.ServeMux {
	stats := &mockStatsProvider{stats: map[string]interface{}{"cachedContests": len(session.contests)}}
	mux := http.NewServeMux()
	api.NewServer(session, stats).Register(context.Background(), mux)
	return mux
}

func serve(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestStandingsEndpoint(t *testing.T) {
	Convey("Given a standings API over a session", t, func() {
		session := &mockSession{
			views: service.Views{
				Selected: []string{"100"},
				Contests: []service.ContestView{{ContestID: "100", URL: "https://vjudge.net/contest/100"}},
			},
			contests: map[string]model.ContestData{},
		}
		mux := newTestMux(session)

		Convey("When posting a valid request", func() {
			w := serve(mux, http.MethodPost, "/standings", `{"contest_ids":"100","teams":"Alpha","elo_mode":"gain-only"}`)

			Convey("Then the views are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				var views service.Views
				So(json.Unmarshal(w.Body.Bytes(), &views), ShouldBeNil)
				So(views.Selected, ShouldResemble, []string{"100"})
				So(views.Contests[0].URL, ShouldEqual, "https://vjudge.net/contest/100")
			})

			Convey("And the request reaches the session labelled as http", func() {
				So(session.lastReq.Teams, ShouldEqual, "Alpha")
				So(session.lastReq.EloMode, ShouldEqual, "gain-only")
				So(session.lastReq.Trigger, ShouldEqual, "http")
			})
		})

		Convey("When the body is not JSON", func() {
			w := serve(mux, http.MethodPost, "/standings", `{not json`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When contest ids are missing", func() {
			w := serve(mux, http.MethodPost, "/standings", `{"teams":"Alpha"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "bad_request")
		})

		Convey("When the Elo mode is unknown", func() {
			w := serve(mux, http.MethodPost, "/standings", `{"contest_ids":"100","elo_mode":"chaos"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the session rejects the input", func() {
			session.computeErr = service.ErrNoContests
			w := serve(mux, http.MethodPost, "/standings", `{"contest_ids":"abc"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, service.ErrNoContests.Error())
		})

		Convey("When the session fails unexpectedly", func() {
			session.computeErr = fmt.Errorf("boom")
			w := serve(mux, http.MethodPost, "/standings", `{"contest_ids":"100"}`)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("When using the wrong method", func() {
			w := serve(mux, http.MethodGet, "/standings", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStandingsRequestDefaults(t *testing.T) {
	Convey("Given a standings API seeded with configured defaults", t, func() {
		session := &mockSession{contests: map[string]model.ContestData{}}
		mux := http.NewServeMux()
		defaults := service.Request{IncludeLate: true, AutoDiscover: true, EloMode: "gain-only"}
		api.NewServer(session, &mockStatsProvider{}, api.WithRequestDefaults(defaults)).Register(context.Background(), mux)

		Convey("When the body omits the settings", func() {
			w := serve(mux, http.MethodPost, "/standings", `{"contest_ids":"100"}`)

			Convey("Then the configured values reach the session", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(session.lastReq.ContestIDs, ShouldEqual, "100")
				So(session.lastReq.IncludeLate, ShouldBeTrue)
				So(session.lastReq.AutoDiscover, ShouldBeTrue)
				So(session.lastReq.EloMode, ShouldEqual, "gain-only")
			})
		})

		Convey("When the body sets them explicitly", func() {
			w := serve(mux, http.MethodPost, "/standings", `{"contest_ids":"100","include_late":false,"elo_mode":"normal"}`)

			Convey("Then the body wins", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(session.lastReq.IncludeLate, ShouldBeFalse)
				So(session.lastReq.EloMode, ShouldEqual, "normal")
			})
		})
	})
}

func TestContestsEndpoints(t *testing.T) {
	Convey("Given a session with one cached contest", t, func() {
		session := &mockSession{contests: map[string]model.ContestData{
			"100": {
				ContestID: "100",
				Title:     "Round One",
				Ranklist:  []model.RankEntry{{TeamID: 1, DisplayName: "Alpha", Rank: 1, Solved: 3}},
			},
		}}
		mux := newTestMux(session)

		Convey("Then the contest can be read", func() {
			w := serve(mux, http.MethodGet, "/contests/100", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"title":"Round One"`)
			So(w.Body.String(), ShouldContainSubstring, `"team_name":"Alpha"`)
		})

		Convey("And an unknown contest is 404", func() {
			w := serve(mux, http.MethodGet, "/contests/200", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And a malformed id is 400", func() {
			w := serve(mux, http.MethodGet, "/contests/abc", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			w = serve(mux, http.MethodGet, "/contests/100/extra", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("And the contest can be invalidated once", func() {
			w := serve(mux, http.MethodDelete, "/contests/100", "")
			So(w.Code, ShouldEqual, http.StatusNoContent)
			w = serve(mux, http.MethodDelete, "/contests/100", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And the whole cache can be cleared", func() {
			w := serve(mux, http.MethodDelete, "/contests", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"dropped":1`)
			So(session.cleared, ShouldEqual, 1)
		})

		Convey("And clearing needs DELETE", func() {
			w := serve(mux, http.MethodGet, "/contests", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given a registered server", t, func() {
		mux := newTestMux(&mockSession{contests: map[string]model.ContestData{"1": {}}})

		Convey("Health reports ok", func() {
			w := serve(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Stats are served as JSON", func() {
			w := serve(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"cachedContests":1`)
		})

		Convey("Stats reject other methods", func() {
			w := serve(mux, http.MethodPost, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Metrics expose the custom registry", func() {
			serve(mux, http.MethodGet, "/healthz", "")
			w := serve(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "contestboard_http_requests_total")
		})
	})
}
