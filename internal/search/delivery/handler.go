package delivery

import (
	"net/http"

	"lifedash-backend/internal/search/usecase"
	syncdto "lifedash-backend/internal/sync/dto"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchUsecase usecase.SearchUsecase
}

func NewSearchHandler(searchUsecase usecase.SearchUsecase) *SearchHandler {
	return &SearchHandler{
		searchUsecase: searchUsecase,
	}
}

// SemanticSearch answers free-text queries over the user's mirrored records
func (h *SearchHandler) SemanticSearch(c *gin.Context) {
	userID := c.GetString("userID")

	var req syncdto.SemanticSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hits, err := h.searchUsecase.SemanticSearch(c.Request.Context(), userID, req.Query, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": hits})
}
