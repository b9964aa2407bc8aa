package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	service "github.com/okian/promosim/internal/app"
	"github.com/okian/promosim/internal/domain/promotion"
)

// simulateRequest mirrors the query parameters of GET /simulate.
type simulateRequest struct {
	Mode string `query:"mode" validate:"omitempty,oneof=flat hierarchical"`
	Seed *int64 `query:"seed"`
}

// SimulateHandler handles simulation requests.
type SimulateHandler struct {
	deps       SimulationRunner
	validate   *validator.Validate
	translator ut.Translator
}

// NewSimulateHandler creates a simulate handler with English validation messages.
func NewSimulateHandler(deps SimulationRunner) (*SimulateHandler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("query")
	})
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("register validation translations: %w", err)
	}
	return &SimulateHandler{deps: deps, validate: validate, translator: trans}, nil
}

// HandleSimulate handles GET /simulate?mode=flat|hierarchical&seed=N requests.
func (h *SimulateHandler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "api.simulate"
	req, err := h.parse(r)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	var opts []service.RunOption
	if req.Seed != nil {
		opts = append(opts, service.WithSeed(*req.Seed))
	}
	sim, err := h.deps.RunSimulation(r.Context(), promotion.Mode(req.Mode), opts...)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sim)
}

func (h *SimulateHandler) parse(r *http.Request) (simulateRequest, error) {
	q := r.URL.Query()
	req := simulateRequest{Mode: strings.ToLower(strings.TrimSpace(q.Get("mode")))}
	if raw := strings.TrimSpace(q.Get("seed")); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, fmt.Errorf("seed must be an integer, got %q", raw)
		}
		req.Seed = &seed
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return req, errors.New(verrs[0].Translate(h.translator))
		}
		return req, err
	}
	return req, nil
}
