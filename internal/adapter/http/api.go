package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/unit-converter-service/internal/domain"
	"github.com/julienschmidt/httprouter"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 64 << 10
)

type categoryResponse struct {
	Name  string              `json:"name"`
	Kind  domain.CategoryKind `json:"kind"`
	Units []string            `json:"units"`
}

type unitResponse struct {
	Label  string   `json:"label"`
	Factor *float64 `json:"factor,omitempty"`
	Scale  string   `json:"scale,omitempty"`
}

type unitsResponse struct {
	Category string              `json:"category"`
	Kind     domain.CategoryKind `json:"kind"`
	Units    []unitResponse      `json:"units"`
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	table := s.converter.Table()
	names := table.Categories()

	out := make([]categoryResponse, 0, len(names))
	for _, name := range names {
		c, err := table.Category(name)
		if err != nil {
			continue
		}
		out = append(out, categoryResponse{Name: c.Name(), Kind: c.Kind(), Units: c.Units()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	name := httprouter.ParamsFromContext(r.Context()).ByName("category")

	c, err := s.converter.Table().Category(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error(), nil)
		return
	}

	resp := unitsResponse{Category: c.Name(), Kind: c.Kind()}
	switch c := c.(type) {
	case *domain.LinearCategory:
		for _, u := range c.Entries() {
			factor := u.Factor
			resp.Units = append(resp.Units, unitResponse{Label: u.Label, Factor: &factor})
		}
	case *domain.TemperatureCategory:
		for _, u := range c.Entries() {
			resp.Units = append(resp.Units, unitResponse{Label: u.Label, Scale: u.Scale.String()})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConvertQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.convert(w, r, domain.ConversionRequest{
		ID:       q.Get("id"),
		Category: q.Get("category"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Value:    domain.InputValue(q.Get("value")),
	})
}

func (s *Server) handleConvertBody(w http.ResponseWriter, r *http.Request) {
	var req domain.ConversionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return
		}
		writeError(w, http.StatusBadRequest, "malformed JSON body", nil)
		return
	}
	s.convert(w, r, req)
}

func (s *Server) convert(w http.ResponseWriter, r *http.Request, req domain.ConversionRequest) {
	if req.ID == "" {
		req.ID = r.Header.Get(requestIDHeader)
	}

	if fieldErrors := requiredFields(req); len(fieldErrors) > 0 {
		writeError(w, http.StatusBadRequest, "missing required parameters", fieldErrors)
		return
	}

	res := s.converter.Resolve(req)
	s.metrics.ObserveConversion(s.categoryLabel(req.Category), res.Outcome())
	w.Header().Set(requestIDHeader, res.ID)

	if res.Error == nil {
		writeJSON(w, http.StatusOK, res)
		return
	}

	s.logger.Debug("conversion failed",
		"id", res.ID,
		"category", res.Category,
		"kind", res.Error.Kind,
		"error", res.Error.Message,
	)

	msg := res.Error.UserMessage()
	switch res.Error.ErrorKind() {
	case domain.KindInvalidInput:
		writeError(w, http.StatusBadRequest, msg, map[string][]string{"value": {msg}})
	case domain.KindConfig:
		writeError(w, http.StatusUnprocessableEntity, msg, map[string][]string{
			configField(s.converter.Table(), req): {res.Error.Message},
		})
	default:
		s.logger.Error("conversion failed", "id", res.ID, "error", res.Error.Message)
		writeError(w, http.StatusInternalServerError, msg, nil)
	}
}

func requiredFields(req domain.ConversionRequest) map[string][]string {
	fieldErrors := map[string][]string{}
	for field, v := range map[string]string{
		"category": req.Category,
		"from":     req.From,
		"to":       req.To,
	} {
		if v == "" {
			fieldErrors[field] = []string{field + " is required"}
		}
	}
	return fieldErrors
}

// configField names the request field a ConfigError points at.
func configField(table *domain.UnitTable, req domain.ConversionRequest) string {
	c, err := table.Category(req.Category)
	if err != nil {
		return "category"
	}
	if !c.Has(req.From) {
		return "from"
	}
	return "to"
}

// categoryLabel bounds metric label cardinality to the configured categories.
func (s *Server) categoryLabel(name string) string {
	if _, err := s.converter.Table().Category(name); err != nil {
		return "unknown"
	}
	return name
}
