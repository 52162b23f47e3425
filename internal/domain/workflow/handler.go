package workflow

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/priorauth/priorauth/internal/domain/authorization"
	"github.com/priorauth/priorauth/internal/domain/forms"
	"github.com/priorauth/priorauth/internal/platform/auth"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("admin", "coordinator", "reviewer")

	read := api.Group("", role)
	read.GET("/workflow/steps", h.ListDefinitions)
	read.GET("/authorizations/:id/workflow/current-step", h.GetCurrentStep)
	read.GET("/authorizations/:id/workflow/steps", h.GetWorkflowSteps)

	write := api.Group("", role)
	write.POST("/authorizations/:id/workflow/initialize", h.Initialize)
	write.POST("/authorizations/:id/workflow/steps/:number/complete", h.CompleteStep)
	write.POST("/authorizations/:id/form-package", h.GenerateFormPackage)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/authorizations/:id/workflow/steps/:number/skip", h.SkipStep)
}

// mapError translates engine errors to HTTP status codes.
func mapError(err error) error {
	switch {
	case errors.Is(err, ErrAlreadyInitialized), errors.Is(err, ErrOutOfSequence), errors.Is(err, ErrAlreadyCompleted):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrStepNotFound), errors.Is(err, ErrNotInitialized),
		errors.Is(err, forms.ErrTemplateNotFound), errors.Is(err, authorization.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStepNumber):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func parseIDAndStep(c echo.Context) (uuid.UUID, int, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var number int
	if err := echo.PathParamsBinder(c).Int("number", &number).BindError(); err != nil {
		return uuid.Nil, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid step number")
	}
	return id, number, nil
}

func (h *Handler) ListDefinitions(c echo.Context) error {
	return c.JSON(http.StatusOK, Definitions())
}

func (h *Handler) Initialize(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actorID := auth.UserIDFromContext(c.Request().Context())
	if err := h.engine.InitializeWorkflow(c.Request().Context(), id, actorID); err != nil {
		return mapError(err)
	}
	steps, err := h.engine.GetWorkflowSteps(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, steps)
}

func (h *Handler) CompleteStep(c echo.Context) error {
	id, number, err := parseIDAndStep(c)
	if err != nil {
		return err
	}
	var body struct {
		FormData map[string]interface{} `json:"form_data"`
		Notes    *string                `json:"notes,omitempty"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actorID := auth.UserIDFromContext(c.Request().Context())
	if err := h.engine.CompleteStep(c.Request().Context(), id, number, body.FormData, actorID, body.Notes); err != nil {
		return mapError(err)
	}
	step, err := h.engine.GetCurrentStep(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrStepNotFound) {
			// Step 10 completion leaves no active step.
			return c.JSON(http.StatusOK, map[string]interface{}{"completed": true, "current_step": nil})
		}
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"completed": true, "current_step": step})
}

func (h *Handler) SkipStep(c echo.Context) error {
	id, number, err := parseIDAndStep(c)
	if err != nil {
		return err
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.Reason == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reason is required")
	}
	actorID := auth.UserIDFromContext(c.Request().Context())
	if err := h.engine.SkipStep(c.Request().Context(), id, number, actorID, body.Reason); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetCurrentStep(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	step, err := h.engine.GetCurrentStep(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, step)
}

func (h *Handler) GetWorkflowSteps(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	steps, err := h.engine.GetWorkflowSteps(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, steps)
}

func (h *Handler) GenerateFormPackage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		State string `json:"state"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actorID := auth.UserIDFromContext(c.Request().Context())
	pkg, err := h.engine.GenerateFormPackage(c.Request().Context(), id, body.State, actorID)
	if err != nil {
		if errors.Is(err, forms.ErrTemplateNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		if errors.Is(err, ErrNotInitialized) || errors.Is(err, authorization.ErrNotFound) {
			return mapError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, pkg)
}
