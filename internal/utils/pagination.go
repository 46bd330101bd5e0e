package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/kawasin/task-tracker/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

type paginationQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

// GetPaginationParams extracts and validates pagination parameters from the
// request. Out-of-range values are rejected rather than clamped.
func GetPaginationParams(c *gin.Context) (PaginationParams, error) {
	query := paginationQuery{
		Page:  constants.MinPage,
		Limit: constants.DefaultPageSize,
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		return PaginationParams{}, err
	}

	return PaginationParams{
		Page:   query.Page,
		Limit:  query.Limit,
		Offset: (query.Page - 1) * query.Limit,
	}, nil
}
