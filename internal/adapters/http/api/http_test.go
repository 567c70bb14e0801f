package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/nametrends/nametrends/internal/adapters/http/api"
	repository "github.com/nametrends/nametrends/internal/adapters/repository"
	service "github.com/nametrends/nametrends/internal/app"
	"github.com/nametrends/nametrends/internal/domain/model"
	"github.com/nametrends/nametrends/internal/domain/types"
	"github.com/nametrends/nametrends/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// stubDeps implements api.Dependencies over fixed data.
type stubDeps struct {
	entries     []types.TrendingEntry
	history     map[string]types.NameHistory
	trendingErr error
	triggerErr  error
	building    bool
	triggered   int
}

func (s *stubDeps) Trending(ctx context.Context, limit int) ([]types.TrendingEntry, error) {
	if s.trendingErr != nil {
		return nil, s.trendingErr
	}
	if limit > len(s.entries) {
		limit = len(s.entries)
	}
	return s.entries[:limit], nil
}

func (s *stubDeps) History(ctx context.Context, name string, sex model.Sex) (types.NameHistory, error) {
	h, ok := s.history[name+"-"+string(sex)]
	if !ok {
		return types.NameHistory{}, repository.ErrNotFound
	}
	return h, nil
}

func (s *stubDeps) TriggerBuild(ctx context.Context) error {
	if s.triggerErr != nil {
		return s.triggerErr
	}
	s.triggered++
	return nil
}

func (s *stubDeps) Building() bool { return s.building }

func (s *stubDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *stubDeps) *http.ServeMux {
	mux := http.NewServeMux()
	srv := api.NewServer(deps, deps, 100)
	srv.Register(context.Background(), mux)
	return mux
}

func TestTrendingEndpoint(t *testing.T) {
	Convey("Given an API server with trending data", t, func() {
		deps := &stubDeps{
			entries: []types.TrendingEntry{
				{Rank: 1, Name: "Ivy", Sex: "F", CurrentRank: 2, PreviousRank: 6, Improvement: 4},
				{Rank: 2, Name: "Atlas", Sex: "M", CurrentRank: 9, PreviousRank: 11, Improvement: 2},
			},
		}
		mux := newTestServer(deps)

		Convey("When GET /api/trending is called", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trending", nil))

			Convey("Then the full list is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var got []types.TrendingEntry
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].Name, ShouldEqual, "Ivy")
			})
		})

		Convey("When a limit is given", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trending?limit=1", nil))

			var got []types.TrendingEntry
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got, ShouldHaveLength, 1)
		})

		Convey("When the limit is invalid", func() {
			for _, q := range []string{"limit=0", "limit=-3", "limit=abc", "limit=101"} {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trending?"+q, nil))
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When no build has completed yet", func() {
			deps.trendingErr = service.ErrNotReady
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trending", nil))
			So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When the method is wrong", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/trending", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHistoryEndpoint(t *testing.T) {
	Convey("Given an API server with name history", t, func() {
		deps := &stubDeps{
			history: map[string]types.NameHistory{
				"Ivy-F": {
					Name: "Ivy", Sex: "F",
					Ranks: []types.YearRank{{Year: 2022, Rank: 6}, {Year: 2023, Rank: 2}},
				},
			},
		}
		mux := newTestServer(deps)

		Convey("When GET /api/names/Ivy-F is called", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/names/Ivy-F", nil))

			Convey("Then the rank series is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var got types.NameHistory
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.Name, ShouldEqual, "Ivy")
				So(got.Ranks, ShouldHaveLength, 2)
			})
		})

		Convey("When the name is unknown", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/names/Zephyrine-F", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the slug is malformed", func() {
			for _, slug := range []string{"", "Ivy", "Ivy-X", "-F", "Ivy-"} {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/names/"+slug, nil))
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the name itself contains a hyphen", func() {
			deps.history["Mary-Jane-F"] = types.NameHistory{
				Name: "Mary-Jane", Sex: "F",
				Ranks: []types.YearRank{{Year: 2023, Rank: 40}},
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/names/Mary-Jane-F", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestRebuildEndpoint(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := &stubDeps{}
		mux := newTestServer(deps)

		Convey("When POST /api/rebuild is called", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rebuild", nil))

			Convey("Then a build is started", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(deps.triggered, ShouldEqual, 1)
				So(rec.Body.String(), ShouldContainSubstring, "started")
			})
		})

		Convey("When a build is already running", func() {
			deps.triggerErr = service.ErrBuildInFlight
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rebuild", nil))
			So(rec.Code, ShouldEqual, http.StatusConflict)
		})

		Convey("When the service has not started", func() {
			deps.triggerErr = service.ErrNotStarted
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rebuild", nil))
			So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When GET is used instead of POST", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rebuild", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given an API server", t, func() {
		mux := newTestServer(&stubDeps{})

		Convey("When GET /stats is called", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

			Convey("Then service stats come back as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var got map[string]interface{}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got["started"], ShouldEqual, true)
			})
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given an API server", t, func() {
		mux := newTestServer(&stubDeps{})

		Convey("When GET /healthz is called", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			Convey("Then Prometheus metrics are served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "nametrends")
			})
		})
	})
}
