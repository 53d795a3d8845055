package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-picker/internal/model"
	"github.com/iliyamo/cinema-seat-picker/internal/seating"
)

// SeatService is the part of the seat picker the seat endpoints use.
type SeatService interface {
	Seats() []seating.Seat
	Dimensions() (rows, width int)
	Check(sel seating.Selection) (seating.Verdict, error)
	Order(ctx context.Context, sel seating.Selection) (seating.Verdict, error)
	Allocate(ctx context.Context, partySize int, commit bool) (*seating.Placement, error)
}

// SeatsHandler serves the public seat map, validation and ordering.
type SeatsHandler struct {
	Seats SeatService
}

func NewSeatsHandler(s SeatService) *SeatsHandler {
	return &SeatsHandler{Seats: s}
}

// ----- DTOs -----

type selectionReq struct {
	Seats []model.Seat `validate:"dive"`
}

type verdictResp struct {
	Valid   bool   `json:"valid"`
	Verdict string `json:"verdict"`
}

type allocateReq struct {
	PartySize int  `json:"party_size" validate:"min=1"`
	Commit    bool `json:"commit"`
}

type allocateResp struct {
	Allocated bool   `json:"allocated"`
	Committed bool   `json:"committed"`
	Loose     bool   `json:"loose,omitempty"`
	Row       int    `json:"row,omitempty"`
	Seats     []int  `json:"seats,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// GetSeats returns the seat map in row-major order.
func (h *SeatsHandler) GetSeats(c echo.Context) error {
	rows, width := h.Seats.Dimensions()
	return c.JSON(http.StatusOK, echo.Map{
		"rows":          rows,
		"seats_per_row": width,
		"items":         model.FromSeating(h.Seats.Seats()),
	})
}

// Check validates a selection without booking it.
func (h *SeatsHandler) Check(c echo.Context) error {
	sel, ok, err := h.bindSelection(c)
	if !ok {
		return err
	}
	v, err := h.Seats.Check(sel)
	return respondVerdict(c, v, err)
}

// Order validates a selection and books it when accepted.
func (h *SeatsHandler) Order(c echo.Context) error {
	sel, ok, err := h.bindSelection(c)
	if !ok {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	v, err := h.Seats.Order(ctx, sel)
	return respondVerdict(c, v, err)
}

// Allocate picks seats for a party.  With commit set the seats are booked.
func (h *SeatsHandler) Allocate(c echo.Context) error {
	var req allocateReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Seats.Allocate(ctx, req.PartySize, req.Commit)
	if err != nil {
		if errors.Is(err, seating.ErrInvalidPartySize) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be positive"})
		}
		c.Logger().Errorf("allocate party of %d: %v", req.PartySize, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "allocation failed"})
	}
	if p == nil {
		return c.JSON(http.StatusOK, allocateResp{Reason: "no_capacity"})
	}
	return c.JSON(http.StatusOK, allocateResp{
		Allocated: true,
		Committed: req.Commit,
		Loose:     p.Loose,
		Row:       p.Row,
		Seats:     p.Selection().Numbers(),
	})
}

// bindSelection decodes a JSON array of seats.  When ok is false the 400
// response has already been written and err is its result.
func (h *SeatsHandler) bindSelection(c echo.Context) (sel seating.Selection, ok bool, err error) {
	var req selectionReq
	if err := c.Bind(&req.Seats); err != nil {
		return nil, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return nil, false, c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}
	return model.ToSelection(req.Seats), true, nil
}

// respondVerdict maps caller errors to 400 and policy outcomes to 200.
func respondVerdict(c echo.Context, v seating.Verdict, err error) error {
	switch {
	case errors.Is(err, seating.ErrEmptySelection):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_selection", "verdict": v.String()})
	case errors.Is(err, seating.ErrSeatOutOfRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "verdict": v.String()})
	case err != nil:
		c.Logger().Errorf("validate selection: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validation failed"})
	}
	return c.JSON(http.StatusOK, verdictResp{Valid: v.IsAccepted(), Verdict: v.String()})
}
