package auth

import (
	"github.com/google/uuid"

	"leadflow/internal/model"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID uuid.UUID
	Role   model.Role
}
