package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/miayudatic/helpdesk/internal/api/dto"
	"github.com/miayudatic/helpdesk/internal/service"
)

// MasterDataHandler serves the catalog lists used by the intake and
// assignment forms.
type MasterDataHandler struct {
	masterData *service.MasterDataService
}

// NewMasterDataHandler constructs handler.
func NewMasterDataHandler(masterData *service.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{masterData: masterData}
}

// ListDepartments handles GET /departments.
func (h *MasterDataHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.masterData.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentList(departments)})
}

// ListServiceTypes handles GET /service-types.
func (h *MasterDataHandler) ListServiceTypes(c *fiber.Ctx) error {
	types, err := h.masterData.ListServiceTypes(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceTypeList(types)})
}

// ListStaffOptions handles GET /staff/options.
func (h *MasterDataHandler) ListStaffOptions(c *fiber.Ctx) error {
	options, err := h.masterData.ListStaffOptions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffOptionList(options)})
}
