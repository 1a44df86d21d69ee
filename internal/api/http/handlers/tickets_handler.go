package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/miayudatic/helpdesk/internal/api/dto"
	"github.com/miayudatic/helpdesk/internal/domain"
	"github.com/miayudatic/helpdesk/internal/service"
	apperrors "github.com/miayudatic/helpdesk/pkg/util"
)

// TicketsHandler exposes the ticket lifecycle and query endpoints.
type TicketsHandler struct {
	lifecycle  *service.LifecycleService
	queries    *service.QueryService
	masterData *service.MasterDataService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(lifecycle *service.LifecycleService, queries *service.QueryService, masterData *service.MasterDataService) *TicketsHandler {
	return &TicketsHandler{lifecycle: lifecycle, queries: queries, masterData: masterData}
}

// Create handles POST /tickets. This endpoint is public: requesters file
// tickets without an account.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.CreateTicketInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		Description:   req.Description,
		DepartmentID:  req.DepartmentID,
		ServiceTypeID: req.ServiceTypeID,
	}

	if req.ReportedAt != "" {
		reportedAt, err := parseDate(req.ReportedAt)
		if err != nil {
			return apperrors.NewValidationError("reported_at must be an RFC3339 timestamp or YYYY-MM-DD date", map[string]any{"reported_at": req.ReportedAt})
		}
		input.ReportedAt = reportedAt
	}

	// The intake form sends department and service type by display name.
	if input.DepartmentID == "" && req.DepartmentName != "" {
		dept, err := h.masterData.ResolveDepartmentByName(c.UserContext(), req.DepartmentName)
		if err != nil {
			return err
		}
		input.DepartmentID = dept.ID
	}
	if input.ServiceTypeID == nil && req.ServiceTypeName != nil && *req.ServiceTypeName != "" {
		serviceType, err := h.masterData.ResolveServiceTypeByName(c.UserContext(), *req.ServiceTypeName)
		if err != nil {
			return err
		}
		input.ServiceTypeID = &serviceType.ID
	}

	ticket, effects, err := h.lifecycle.CreateTicket(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketMutationResponse(ticket, effects)})
}

// List handles GET /tickets. The status query selects open or closed
// tickets; without it every ticket is returned, newest first.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	var (
		details []dto.TicketDetailResponse
		err     error
	)
	switch strings.ToUpper(c.Query("status")) {
	case "OPEN":
		details, err = h.listDetails(c, h.queries.ListOpenTickets)
	case "CLOSED":
		details, err = h.listDetails(c, h.queries.ListClosedTickets)
	case "":
		details, err = h.listDetails(c, h.queries.ListAllTickets)
	default:
		return apperrors.NewValidationError("status must be OPEN or CLOSED", map[string]any{"status": c.Query("status")})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": details})
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	detail, err := h.queries.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetailResponse(detail)})
}

// Assign handles POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.StaffID) == "" {
		return apperrors.NewValidationError("staff_id required", nil)
	}

	ticket, effects, err := h.lifecycle.AssignTicket(c.UserContext(), c.Params("id"), req.StaffID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketMutationResponse(ticket, effects)})
}

// Close handles POST /tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	var req dto.CloseTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, effects, err := h.lifecycle.CloseTicket(c.UserContext(), c.Params("id"), req.SolutionDescription)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketMutationResponse(ticket, effects)})
}

// Update handles PATCH /tickets/:id with a partial field set.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	patch := service.TicketPatch{
		ServiceTypeID:       req.ServiceTypeID,
		AssigneeID:          req.AssigneeID,
		SolutionDescription: req.SolutionDescription,
	}
	ticket, effects, err := h.lifecycle.ApplyPatch(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketMutationResponse(ticket, effects)})
}

// History handles GET /tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	entries, err := h.queries.ListAuditTrail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAuditEntryList(entries)})
}

func (h *TicketsHandler) listDetails(c *fiber.Ctx, list func(context.Context) ([]domain.TicketDetail, error)) ([]dto.TicketDetailResponse, error) {
	details, err := list(c.UserContext())
	if err != nil {
		return nil, err
	}
	return dto.NewTicketDetailList(details), nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
