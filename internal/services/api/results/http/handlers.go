// Package http provides http transport for persisted results
package http

import (
	stdhttp "net/http"

	phttp "combatscore/internal/platform/net/http"
	"combatscore/internal/services/api/results/domain"
)

// Register mounts results endpoints on the given router
func Register(r phttp.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	// registered heuristics and their table state
	phttp.GetJSON(r, "/heuristics", h.heuristics)

	// one persisted table, ?limit=N&order=asc|desc
	phttp.GetQuery[domain.ResultsInput](r, "/results/{heuristic}", h.results)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route GET /heuristics Results listHeuristics
// @Summary List heuristics
// @Description Registered heuristics with the state of their persisted tables
// @Tags Results
// @Produce json
// @Success 200 {array} domain.HeuristicInfo "ok"
// @Router /heuristics [get]
func (h *handlers) heuristics(r *stdhttp.Request) (any, error) {
	return h.svc.Heuristics(r.Context())
}

// swagger:route GET /results/{heuristic} Results getResults
// @Summary Persisted result table
// @Tags Results
// @Produce json
// @Param heuristic path string true "Heuristic name"
// @Param limit query int false "Rows to return, 0 returns all" minimum(0)
// @Param order query string false "Score order" Enums(asc, desc)
// @Success 200 {object} domain.ResultsView "ok"
// @Failure 400 {object} phttp.Envelope "bad query"
// @Failure 404 {object} phttp.Envelope "unknown heuristic or no table"
// @Failure 422 {object} phttp.Envelope "table cannot be parsed"
// @Router /results/{heuristic} [get]
func (h *handlers) results(r *stdhttp.Request, in domain.ResultsInput) (any, error) {
	return h.svc.Results(r.Context(), phttp.URLParam(r, "heuristic"), in)
}
