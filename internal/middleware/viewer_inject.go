package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ualiu/neighbours-only/internal/models"
	"github.com/ualiu/neighbours-only/internal/repository"
)

type UserFinder interface {
	FindUser(ctx context.Context, id bson.ObjectID) (*models.User, error)
}

// InjectViewer loads the authenticated user into Locals("viewer").
func InjectViewer(users UserFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := UIDObjectID(c)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		u, err := users.FindUser(ctx, uid)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return fiber.ErrUnauthorized
			}
			return err
		}
		c.Locals("viewer", u)
		return c.Next()
	}
}
