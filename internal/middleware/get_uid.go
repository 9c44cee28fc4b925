package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ualiu/neighbours-only/internal/models"
)

// UIDObjectID reads user_id from Locals as an ObjectID.
func UIDObjectID(c *fiber.Ctx) (bson.ObjectID, error) {
	uid, ok := c.Locals("user_id").(string)
	if !ok || uid == "" {
		return bson.NilObjectID, fiber.ErrUnauthorized
	}

	oid, err := bson.ObjectIDFromHex(uid)
	if err != nil {
		return bson.NilObjectID, fiber.ErrUnauthorized
	}
	return oid, nil
}

// Viewer returns the user injected by InjectViewer.
func Viewer(c *fiber.Ctx) (*models.User, error) {
	v, ok := c.Locals("viewer").(*models.User)
	if !ok || v == nil {
		return nil, fiber.ErrUnauthorized
	}
	return v, nil
}
