// Package access carries the caller's authorization scope. Admin and partner route
// families share one service layer; the scope decides what a call may touch.
package access

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/domain"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not_found")
)

type Scope struct {
	UserID int64
	Role   domain.UserRole
}

func Admin(userID int64) Scope { return Scope{UserID: userID, Role: domain.RoleAdmin} }

func Partner(userID int64) Scope { return Scope{UserID: userID, Role: domain.RolePartner} }

func (s Scope) IsAdmin() bool { return s.Role == domain.RoleAdmin }

// CanManage reports whether the scope may read and edit the experience.
func (s Scope) CanManage(e *domain.Experience) bool {
	if e == nil || s.UserID == 0 {
		return false
	}
	if s.IsAdmin() {
		return true
	}
	return s.Role == domain.RolePartner && e.PartnerID == s.UserID
}

// FromContext reads the scope stored by the JWT middleware.
func FromContext(c *gin.Context) Scope {
	return Scope{
		UserID: c.GetInt64("user_id"),
		Role:   domain.UserRole(c.GetString("role")),
	}
}

type ExperienceGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Experience, error)
}

// Guard resolves experiences and checks them against a scope.
type Guard struct {
	experiences ExperienceGetter
}

func NewGuard(experiences ExperienceGetter) *Guard {
	return &Guard{experiences: experiences}
}

func (g *Guard) Experience(ctx context.Context, scope Scope, experienceID int64) (*domain.Experience, error) {
	exp, err := g.experiences.GetByID(ctx, experienceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("experience %d: %w", experienceID, ErrNotFound)
		}
		return nil, err
	}
	if !scope.CanManage(exp) {
		return nil, fmt.Errorf("experience %d: %w", experienceID, ErrForbidden)
	}
	return exp, nil
}
