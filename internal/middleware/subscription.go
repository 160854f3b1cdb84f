package middleware

import (
	"context"
	"net/http"

	"github.com/thiamyoussouph/sasstock-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubscriptionChecker reports whether a company currently holds an active,
// unexpired subscription. Implemented by the subscription service.
type SubscriptionChecker interface {
	IsActive(ctx context.Context, companyID uuid.UUID) (bool, error)
}

// RequireActiveSubscription blocks tenant traffic for companies whose
// subscription lapsed. Superadmin tokens (no company) pass through.
func RequireActiveSubscription(checker SubscriptionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, ok := CompanyID(c)
		if !ok {
			c.Next()
			return
		}
		active, err := checker.IsActive(c.Request.Context(), companyID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Erreur interne du serveur"))
			return
		}
		if !active {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, apierror.New("Abonnement expiré. Veuillez renouveler votre plan."))
			return
		}
		c.Next()
	}
}
