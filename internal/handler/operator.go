package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-picker/internal/config"
	"github.com/iliyamo/cinema-seat-picker/internal/middleware"
	"github.com/iliyamo/cinema-seat-picker/internal/service"
	"github.com/iliyamo/cinema-seat-picker/internal/utils"
)

// RoleOperator is the JWT role allowed to reset and seed the house.
const RoleOperator = "OPERATOR"

// HouseAdmin is the part of the seat picker operators control.
type HouseAdmin interface {
	Reset()
	SetupScenario(name string) error
}

// OperatorHandler bundles operator login and house administration.
type OperatorHandler struct {
	Cfg   config.Config
	House HouseAdmin
}

func NewOperatorHandler(cfg config.Config, h HouseAdmin) *OperatorHandler {
	return &OperatorHandler{Cfg: cfg, House: h}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type loginResp struct {
	Subject string    `json:"subject"`
	Role    string    `json:"role"`
	Access  tokenPart `json:"access"`
}

type scenarioReq struct {
	Name string `json:"name" validate:"required"`
}

// Login verifies the operator credentials from configuration and issues an
// access token.
func (h *OperatorHandler) Login(c echo.Context) error {
	if h.Cfg.OperatorPasswordHash == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "operator login disabled"})
	}
	var req loginReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != strings.ToLower(h.Cfg.OperatorEmail) || !utils.VerifyPassword(h.Cfg.OperatorPasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, email, RoleOperator, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, loginResp{
		Subject: email,
		Role:    RoleOperator,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Reset frees every seat.
func (h *OperatorHandler) Reset(c echo.Context) error {
	h.House.Reset()
	c.Logger().Infof("operator %v reset the house", c.Get(middleware.ContextSubject))
	return c.JSON(http.StatusOK, echo.Map{"status": "reset"})
}

// Scenario resets the house and seeds a named occupancy pattern.
func (h *OperatorHandler) Scenario(c echo.Context) error {
	var req scenarioReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if err := h.House.SetupScenario(req.Name); err != nil {
		if errors.Is(err, service.ErrUnknownScenario) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":     "unknown scenario",
				"scenarios": service.Scenarios(),
			})
		}
		c.Logger().Errorf("setup scenario %q: %v", req.Name, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "setup scenario failed"})
	}
	c.Logger().Infof("operator %v loaded scenario %s", c.Get(middleware.ContextSubject), req.Name)
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "scenario": req.Name})
}
