package auth

import "bitemebuddy/models"

// Authorize returns ErrForbidden unless role is one of allowed
func Authorize(role models.UserRole, allowed ...models.UserRole) error {
	for _, r := range allowed {
		if role == r {
			return nil
		}
	}
	return ErrForbidden
}
