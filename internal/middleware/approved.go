package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"parishlink/internal/models"
	"parishlink/pkg/apperrors"
	"parishlink/pkg/contextkeys"
)

// RequireApprovedAccount keeps pending and rejected accounts out of
// member surfaces. Admins and pastors pass regardless of their own
// account status so a freshly seeded admin is never locked out.
func RequireApprovedAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetUserRole(c)
		if role == models.UserRoleAdmin || role == models.UserRolePastor {
			c.Next()
			return
		}

		dbValue, ok := c.Get(string(contextkeys.DBContextKey))
		if !ok {
			apperrors.HandleError(c, apperrors.New(apperrors.CodeInternalError, "auth", "database not available", 500))
			c.Abort()
			return
		}
		db := dbValue.(*gorm.DB)

		var user models.User
		if err := db.Select("account_status").First(&user, "id = ?", GetUserID(c)).Error; err != nil {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("account not found"))
			c.Abort()
			return
		}
		if user.AccountStatus != models.ApprovalStatusApproved {
			apperrors.HandleError(c, apperrors.ErrAccountNotApproved)
			c.Abort()
			return
		}
		c.Next()
	}
}
