package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination represents pagination parameters
type Pagination struct {
	Page   int
	Limit  int
	Offset int
	Total  int64
}

// NewPagination reads page and limit leniently: bad or missing values fall
// back to page 1 and defaultLimit, and limit is capped at maxLimit.
func NewPagination(c *gin.Context, defaultLimit, maxLimit int) *Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if offsetOverflows(page, limit) {
		page = 1
	}

	return &Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// ParsePagination reads page and limit strictly, returning one message per
// invalid parameter instead of substituting defaults.
func ParsePagination(c *gin.Context, defaultLimit, maxLimit int) (*Pagination, []string) {
	var problems []string

	page := 1
	if raw, ok := c.GetQuery("page"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			problems = append(problems, "Page must be a positive integer")
		} else {
			page = v
		}
	}

	limit := defaultLimit
	if raw, ok := c.GetQuery("limit"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxLimit {
			problems = append(problems, "Limit must be between 1 and "+strconv.Itoa(maxLimit))
		} else {
			limit = v
		}
	}
	if offsetOverflows(page, limit) {
		problems = append(problems, "Page is too large")
		page = 1
	}

	return &Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}, problems
}

// offsetOverflows reports whether (page-1)*limit does not fit in an int
func offsetOverflows(page, limit int) bool {
	return limit > 0 && page-1 > math.MaxInt/limit
}

// SetTotal records the total number of matching rows
func (p *Pagination) SetTotal(total int64) {
	p.Total = total
}

// TotalPages rounds Total/Limit up
func (p *Pagination) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}

// Meta is the pagination block returned alongside list payloads
func (p *Pagination) Meta() gin.H {
	return gin.H{
		"page":       p.Page,
		"limit":      p.Limit,
		"total":      p.Total,
		"totalPages": p.TotalPages(),
	}
}
