package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/okian/promosim/internal/adapters/http/api"
	service "github.com/okian/promosim/internal/app"
	"github.com/okian/promosim/internal/domain/promotion"
	"github.com/okian/promosim/internal/domain/schema"
	"github.com/okian/promosim/pkg/logger"
	"github.com/okian/promosim/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockDependencies records the last run request and returns a canned result.
type mockDependencies struct {
	sim      *service.Simulation
	err      error
	gotMode  promotion.Mode
	gotOpts  int
	runCalls int
}

func (m *mockDependencies) RunSimulation(_ context.Context, mode promotion.Mode, opts ...service.RunOption) (*service.Simulation, error) {
	m.runCalls++
	m.gotMode = mode
	m.gotOpts = len(opts)
	if m.err != nil {
		return nil, m.err
	}
	return m.sim, nil
}

func (m *mockDependencies) Schema(context.Context) service.Schema {
	return service.Schema{Skills: schema.Skills(), Layers: schema.DefaultLayers(), Modes: promotion.Modes()}
}

func (m *mockDependencies) GetStats() service.Stats {
	return service.Stats{Runs: map[promotion.Mode]int64{promotion.ModeFlat: int64(m.runCalls)}}
}

func newMux(deps api.Dependencies) *http.ServeMux {
	server, err := api.NewServer(deps)
	So(err, ShouldBeNil)
	mux := http.NewServeMux()
	server.Register(mux)
	return mux
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{sim: &service.Simulation{RunID: "run-1", Mode: promotion.ModeFlat}}
		mux := newMux(deps)

		Convey("Then health endpoint should serve metrics", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then stats endpoint should report counters", func() {
			get(mux, "/simulate")
			get(mux, "/simulate")
			w := get(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			So(w.Header().Get("Cache-Control"), ShouldEqual, "no-store")

			var body map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body["total_runs"], ShouldEqual, 2.0)
			So(body, ShouldNotContainKey, "last_run_at")
		})

		Convey("Then schema endpoint should list skills and layers", func() {
			w := get(mux, "/schema")
			So(w.Code, ShouldEqual, http.StatusOK)

			var body struct {
				Skills []string `json:"skills"`
				Layers []struct {
					Name           string   `json:"name"`
					Capacity       int      `json:"capacity"`
					RequiredSkills []string `json:"required_skills"`
				} `json:"layers"`
				Modes []string `json:"modes"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(len(body.Skills), ShouldEqual, schema.SkillCount)
			So(body.Layers[0].Name, ShouldEqual, "SE")
			So(body.Layers[0].Capacity, ShouldEqual, 60)
			So(body.Modes, ShouldResemble, []string{"flat", "hierarchical"})
		})

		Convey("Then simulate endpoint should be accessible", func() {
			w := get(mux, "/simulate?mode=flat")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then non-GET requests should be rejected", func() {
			for _, path := range []string{"/simulate", "/schema", "/stats", "/healthz"} {
				req := httptest.NewRequest(http.MethodPost, path, http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, "GET, HEAD")
				So(decodeError(w)["code"], ShouldEqual, "method_not_allowed")
			}
			So(deps.runCalls, ShouldEqual, 0)
		})
	})
}

func TestSimulateHandler(t *testing.T) {
	Convey("Given a simulate handler over mock dependencies", t, func() {
		deps := &mockDependencies{sim: &service.Simulation{RunID: "run-1", Mode: promotion.ModeHierarchical, Seed: 5}}
		mux := newMux(deps)

		Convey("When the mode is mixed case and a seed is given", func() {
			w := get(mux, "/simulate?mode=Hierarchical&seed=5")

			Convey("Then the run should be requested with both", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotMode, ShouldEqual, promotion.ModeHierarchical)
				So(deps.gotOpts, ShouldEqual, 1)
			})
		})

		Convey("When no mode is given", func() {
			w := get(mux, "/simulate")

			Convey("Then the service default should apply", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotMode, ShouldEqual, promotion.Mode(""))
				So(deps.gotOpts, ShouldEqual, 0)
			})
		})

		Convey("When the mode is unknown", func() {
			w := get(mux, "/simulate?mode=seniority")

			Convey("Then it should answer 400 with a readable message", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "bad_request")
				So(body["message"], ShouldContainSubstring, "mode must be one of [flat hierarchical]")
				So(deps.runCalls, ShouldEqual, 0)
			})
		})

		Convey("When the seed is not a number", func() {
			w := get(mux, "/simulate?mode=flat&seed=abc")

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "seed must be an integer")
			})
		})

		Convey("When the service reports a configuration error", func() {
			deps.err = fmt.Errorf("validate: %w", &schema.ConfigurationError{Layer: "SE", Reason: "capacity must be positive"})
			w := get(mux, "/simulate?mode=flat")

			Convey("Then it should answer 422", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decodeError(w)["code"], ShouldEqual, "configuration_error")
			})
		})

		Convey("When the service fails otherwise", func() {
			deps.err = errors.New("boom")
			w := get(mux, "/simulate?mode=flat")

			Convey("Then it should answer 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "internal_error")
				So(body["message"], ShouldEqual, "api.simulate: boom")
			})
		})
	})
}

func TestSimulateWithService(t *testing.T) {
	Convey("Given the API over a real service", t, func() {
		svc := service.New(service.WithMetrics(metrics.NewManager(
			metrics.WithPrometheusRegistry(prometheus.NewRegistry()),
		)))
		mux := newMux(svc)

		Convey("When simulating with a seed", func() {
			w := get(mux, "/simulate?mode=flat&seed=11")
			So(w.Code, ShouldEqual, http.StatusOK)

			var sim struct {
				RunID      string `json:"run_id"`
				Mode       string `json:"mode"`
				Seed       int64  `json:"seed"`
				Population []struct {
					ID          int            `json:"id"`
					Name        string         `json:"name"`
					SkillScores map[string]int `json:"skill_scores"`
					TotalScore  int            `json:"total_score"`
				} `json:"population"`
				Comparison struct {
					Rows        []json.RawMessage  `json:"rows"`
					GrandTotals map[string]float64 `json:"grand_totals"`
				} `json:"comparison"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &sim), ShouldBeNil)

			Convey("Then the body should carry the whole run", func() {
				So(sim.RunID, ShouldNotBeEmpty)
				So(sim.Mode, ShouldEqual, "flat")
				So(sim.Seed, ShouldEqual, 11)
				So(len(sim.Population), ShouldEqual, 100)
				So(sim.Population[0].Name, ShouldEqual, "社員1")
				So(len(sim.Population[0].SkillScores), ShouldEqual, schema.SkillCount)
				So(len(sim.Comparison.Rows), ShouldEqual, 5)
				So(sim.Comparison.GrandTotals, ShouldContainKey, "baseline")
				So(sim.Comparison.GrandTotals, ShouldContainKey, "candidate")
			})

			Convey("Then stats should count the run", func() {
				So(svc.GetStats().Runs[promotion.ModeFlat], ShouldEqual, 1)
			})
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given API error helpers", t, func() {
		cause := errors.New("cause")

		Convey("Then WrapKind should match kind and cause", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: cause")

			var apiErr *api.Error
			So(errors.As(err, &apiErr), ShouldBeTrue)
			So(apiErr.Op, ShouldEqual, "api.op")
		})

		Convey("Then NewKind should carry only the kind", func() {
			err := api.NewKind("api.op", api.ErrBadRequest)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request")
		})

		Convey("Then Wrap should pass nil through", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(errors.Is(api.Wrap("api.op", cause), cause), ShouldBeTrue)
			So(errors.Is(api.WrapKind("api.op", api.ErrBadRequest, nil), api.ErrBadRequest), ShouldBeTrue)
		})
	})
}
