package users

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/atultingre/society-management-backend/internal/auth"
)

type Handler struct {
	Store  Store
	Issuer *auth.TokenIssuer
	Log    *zap.Logger
}

func NewHandler(store Store, issuer *auth.TokenIssuer, log *zap.Logger) *Handler {
	return &Handler{Store: store, Issuer: issuer, Log: log}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	House    Slot   `json:"house"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	House  Slot   `json:"house"`
	Admin  bool   `json:"admin"`
}

func (h *Handler) Signup(c *fiber.Ctx) error {
	var body signupRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if _, err := h.Store.FindBySlot(reqContext(c), body.House.Wing, body.House.HouseNumber); err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "House is already taken")
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	if _, err := h.Store.FindByEmail(reqContext(c), body.Email); err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Email is already taken")
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	var fieldErrs []string
	if body.Email == "" {
		fieldErrs = append(fieldErrs, "Path `email` is required.")
	}
	if body.Password == "" {
		fieldErrs = append(fieldErrs, "Path `password` is required.")
	}
	fieldErrs = append(fieldErrs, body.House.Validate()...)
	if len(fieldErrs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fieldErrs})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	newUser, err := h.Store.Create(reqContext(c), &User{
		Email:        body.Email,
		PasswordHash: string(hashed),
		House:        body.House,
		Admin:        false,
	})
	if err != nil {
		// The unique constraints are the backstop for two near-simultaneous
		// signups racing past the pre-checks above.
		if errors.Is(err, ErrSlotTaken) {
			return fiber.NewError(fiber.StatusBadRequest, "House is already taken")
		}
		if errors.Is(err, ErrEmailTaken) {
			return fiber.NewError(fiber.StatusBadRequest, "Email is already taken")
		}
		return err
	}

	h.Log.Info("user signed up",
		zap.String("user_id", newUser.ID),
		zap.String("wing", newUser.House.Wing),
		zap.Int("house_number", newUser.House.HouseNumber))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Signup successful",
		"newUser": newUser,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	user, err := h.Store.FindByEmail(reqContext(c), body.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.Issuer.Issue(user.ID, user.Email)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user": loginUser{
			UserID: user.ID,
			Email:  user.Email,
			House:  user.House,
			Admin:  user.Admin,
		},
	})
}

func reqContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
