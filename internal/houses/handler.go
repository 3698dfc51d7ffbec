package houses

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/atultingre/society-management-backend/internal/auth"
)

type Handler struct {
	Service *Service
	Log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{Service: service, Log: log}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	wing, houseNumber, userID := pathParams(c)

	var payload Payload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	house, err := h.Service.Create(reqContext(c), callerID(c), userID, wing, houseNumber, payload)
	if err != nil {
		return mapServiceError(err, "modify")
	}

	h.Log.Info("house created",
		zap.String("user_id", userID),
		zap.String("wing", wing),
		zap.Int("house_number", houseNumber))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "House details created successfully",
		"house":   house,
	})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	wing, houseNumber, userID := pathParams(c)

	var payload Payload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	house, err := h.Service.Update(reqContext(c), callerID(c), userID, wing, houseNumber, payload)
	if err != nil {
		return mapServiceError(err, "update")
	}

	return c.JSON(fiber.Map{
		"message": "House details updated successfully",
		"house":   house,
	})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	wing, houseNumber, userID := pathParams(c)

	house, err := h.Service.Get(reqContext(c), callerID(c), userID, wing, houseNumber)
	if err != nil {
		return mapServiceError(err, "retrieve")
	}

	return c.JSON(fiber.Map{"house": house})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	wing, houseNumber, userID := pathParams(c)

	if err := h.Service.Delete(reqContext(c), callerID(c), userID, wing, houseNumber); err != nil {
		return mapServiceError(err, "delete")
	}

	h.Log.Info("house deleted",
		zap.String("user_id", userID),
		zap.String("wing", wing),
		zap.Int("house_number", houseNumber))

	return c.JSON(fiber.Map{"message": "House details deleted successfully"})
}

func (h *Handler) ListAll(c *fiber.Ctx) error {
	houses, err := h.Service.ListAll(reqContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"houses": houses})
}

func (h *Handler) Report(c *fiber.Ctx) error {
	houses, err := h.Service.ListAll(reqContext(c))
	if err != nil {
		return err
	}

	pdf, err := BuildRegisterPDF(houses)
	if err != nil {
		return err
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="house-register.pdf"`)
	return c.Send(pdf)
}

func mapServiceError(err error, verb string) error {
	var vErr *ValidationError
	switch {
	case errors.Is(err, ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "You don't have permission to "+verb+" this house")
	case errors.Is(err, ErrExists):
		return fiber.NewError(fiber.StatusBadRequest, "House already exists for the specified user")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "House not found")
	case errors.As(err, &vErr):
		return err
	default:
		return err
	}
}

func pathParams(c *fiber.Ctx) (wing string, houseNumber int, userID string) {
	wing = c.Params("wing")
	// A non-numeric house number can never match an assigned slot, so it
	// falls out of the ownership check as a permission failure.
	houseNumber, _ = c.ParamsInt("houseNumber")
	userID = c.Params("userId")
	return wing, houseNumber, userID
}

func callerID(c *fiber.Ctx) string {
	uid, err := auth.CallerID(c)
	if err != nil {
		return ""
	}
	return uid
}

func reqContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
