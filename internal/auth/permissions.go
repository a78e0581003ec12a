package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldops-service/internal/policy"
	apperrors "github.com/spec-kit/fieldops-service/pkg/util"
)

// RequirePermission gates a route on a permission key. Services re-check
// permissions on their own; this middleware only keeps obviously
// unauthorized traffic off the handlers. Decisions are per-request and never
// cached across requests.
func RequirePermission(eval *policy.Evaluator, key policy.PermissionKey) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !eval.Allows(*actor, key) {
			return apperrors.NewForbidden("insufficient permissions")
		}
		return c.Next()
	}
}
