package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	financedomain "github.com/smallbiznis/stokra/internal/finance/domain"
)

func (s *Server) ListFinancialTitles(c *gin.Context) {
	var kind *financedomain.TitleKind
	if raw := strings.TrimSpace(c.Query("kind")); raw != "" {
		k := financedomain.TitleKind(strings.ToUpper(raw))
		switch k {
		case financedomain.KindReceivable, financedomain.KindPayable:
			kind = &k
		default:
			AbortWithError(c, newValidationError("kind", "invalid_kind", "invalid kind"))
			return
		}
	}

	resp, err := s.financeSvc.ListTitles(c.Request.Context(), kind)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
