package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "salesapi/internal/log"
	"salesapi/internal/services"
	"salesapi/internal/validate"
)

type UserHandler struct {
	Users *services.UserService
}

func userStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidRole):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrUserExists), errors.Is(err, services.ErrUserHasSales):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func (h *UserHandler) fail(c *fiber.Ctx, action string, err error) error {
	status := userStatus(err)
	if status == fiber.StatusInternalServerError {
		applog.Error(c, action, err, nil)
		return c.Status(status).JSON(fiber.Map{"error": friendlyMessage})
	}
	return c.Status(status).JSON(fiber.Map{"message": err.Error()})
}

// profileValid checks the fields shared by registration and update.
func profileValid(c *fiber.Ctx, username, first, last, email string) bool {
	_, okU := validate.Username(username)
	_, okF := validate.Name(first)
	_, okL := validate.Name(last)
	_, okE := validate.Email(email)
	if okU && okF && okL && okE {
		return true
	}
	applog.Security(c, "validation.fail", map[string]any{
		"username": okU, "firstName": okF, "lastName": okL, "userEmail": okE,
	})
	return false
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request payload"})
	}
	in.Username, _ = validate.Username(in.Username)
	in.Email, _ = validate.Email(in.Email)
	if !profileValid(c, in.Username, in.FirstName, in.LastName, in.Email) || !validate.Password(in.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid user data"})
	}
	u, err := h.Users.Register(c.UserContext(), in)
	if err != nil {
		return h.fail(c, "user.register.fail", err)
	}
	applog.Audit(c, "user.register", map[string]any{"user_id": u.ID, "role": u.Role.String()})
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("userId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid user id"})
	}
	var in services.ProfileInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request payload"})
	}
	in.Username, _ = validate.Username(in.Username)
	in.Email, _ = validate.Email(in.Email)
	if !profileValid(c, in.Username, in.FirstName, in.LastName, in.Email) ||
		(in.Password != "" && !validate.Password(in.Password)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid user data"})
	}
	u, err := h.Users.Update(c.UserContext(), currentUser(c), id, in)
	if err != nil {
		return h.fail(c, "user.update.fail", err)
	}
	applog.Audit(c, "user.update", map[string]any{"user_id": id})
	return c.JSON(u)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("userId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid user id"})
	}
	if err := h.Users.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, "user.delete.fail", err)
	}
	applog.Audit(c, "user.delete", map[string]any{"user_id": id})
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// All lists every user that is not an admin.
func (h *UserHandler) All(c *fiber.Ctx) error {
	users, err := h.Users.ListNonAdmin(c.UserContext())
	if err != nil {
		return h.fail(c, "user.list.fail", err)
	}
	return c.JSON(users)
}
