package handler

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-picker/internal/model"
	"github.com/iliyamo/cinema-seat-picker/internal/repository"
	"github.com/iliyamo/cinema-seat-picker/internal/simulation"
)

// maxSimulationWork caps comparisons x parties x seats for one request.
const maxSimulationWork = 20_000_000

// SimulationStore persists simulation runs.  It is optional.
type SimulationStore interface {
	Create(ctx context.Context, run *model.SimulationRun) error
	GetByID(ctx context.Context, id uint64) (*model.SimulationRun, error)
	ListRecent(ctx context.Context, limit int) ([]model.SimulationRun, error)
}

// SimulationHandler runs naive-versus-algorithm comparisons on demand.
type SimulationHandler struct {
	Store       SimulationStore // nil disables history
	Rows        int
	SeatsPerRow int
	Seed        int64
}

func NewSimulationHandler(store SimulationStore, rows, seatsPerRow int, seed int64) *SimulationHandler {
	return &SimulationHandler{Store: store, Rows: rows, SeatsPerRow: seatsPerRow, Seed: seed}
}

// ----- DTOs -----

type simulationReq struct {
	Rows        int    `json:"rows" validate:"omitempty,min=1,max=100"`
	SeatsPerRow int    `json:"seats_per_row" validate:"omitempty,min=1,max=100"`
	Seed        *int64 `json:"seed"`
	Sequence    []int  `json:"sequence" validate:"omitempty,max=1000,dive,min=1"`
	Random      int    `json:"random" validate:"omitempty,min=1,max=1000"`
	Trials      int    `json:"trials" validate:"omitempty,min=1,max=500"`
}

type summaryPart struct {
	simulation.Summary
	MeanNaiveIsolated     float64 `json:"mean_naive_isolated"`
	MeanAlgorithmIsolated float64 `json:"mean_algorithm_isolated"`
}

type simulationResp struct {
	Comparison simulation.Comparison `json:"comparison"`
	Summary    *summaryPart          `json:"summary,omitempty"`
	Run        *model.SimulationRun  `json:"run,omitempty"`
}

// Run executes one comparison (and optional repeated trials) and stores the
// comparison when a store is configured.
func (h *SimulationHandler) Run(c echo.Context) error {
	var req simulationReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	rows, width, seed := h.Rows, h.SeatsPerRow, h.Seed
	if req.Rows > 0 {
		rows = req.Rows
	}
	if req.SeatsPerRow > 0 {
		width = req.SeatsPerRow
	}
	if req.Seed != nil {
		seed = *req.Seed
	}

	rng := rand.New(rand.NewSource(seed))
	seq := simulation.DefaultSequence
	switch {
	case len(req.Sequence) > 0:
		seq = req.Sequence
	case req.Random > 0:
		var err error
		if seq, err = simulation.RandomSequence(rng, req.Random, 2, 5); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	comparisons := 1
	if req.Trials > 1 {
		comparisons += req.Trials
	}
	if work := int64(comparisons) * int64(len(seq)) * int64(rows) * int64(width); work > maxSimulationWork {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "simulation too large: reduce trials, sequence length or house size",
		})
	}

	hs, err := simulation.New(rows, width, rng)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	resp := simulationResp{Comparison: hs.Compare(seq)}
	if req.Trials > 1 {
		sum, err := hs.Trials(c.Request().Context(), seq, req.Trials)
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "simulation cancelled"})
		}
		resp.Summary = &summaryPart{
			Summary:               sum,
			MeanNaiveIsolated:     sum.MeanNaiveIsolated(),
			MeanAlgorithmIsolated: sum.MeanAlgorithmIsolated(),
		}
	}

	if h.Store != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		run := model.NewSimulationRun(rows, width, seed, resp.Comparison)
		if err := h.Store.Create(ctx, &run); err != nil {
			c.Logger().Errorf("store simulation run: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store simulation failed"})
		}
		resp.Run = &run
		return c.JSON(http.StatusCreated, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

// List returns recent stored runs, newest first.  ?limit= caps the count.
func (h *SimulationHandler) List(c echo.Context) error {
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "simulation history disabled"})
	}
	limit := 20
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 100 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be between 1 and 100"})
		}
		limit = n
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	runs, err := h.Store.ListRecent(ctx, limit)
	if err != nil {
		c.Logger().Errorf("list simulation runs: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list simulations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": runs})
}

// Get returns one stored run.
func (h *SimulationHandler) Get(c echo.Context) error {
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "simulation history disabled"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	run, err := h.Store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "simulation not found"})
	}
	if err != nil {
		c.Logger().Errorf("get simulation run %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get simulation failed"})
	}
	return c.JSON(http.StatusOK, run)
}
