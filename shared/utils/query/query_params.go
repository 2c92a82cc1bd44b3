package query

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"staffdesk/shared/config"
)

// ListParams represents the flat filter and pagination parameters the list
// endpoint accepts. Empty string means the filter is not active.
type ListParams struct {
	Page        int    `json:"page"`
	Limit       int    `json:"limit"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Department  string `json:"department"`
	Status      string `json:"status"`
	JoiningDate string `json:"joiningDate"`
}

// ParseListParams extracts standardized query parameters from Gin context
func ParseListParams(c *gin.Context) ListParams {
	cfg := config.GetConfig()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(cfg.DefaultPageSize)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > cfg.MaxPageSize {
		limit = cfg.MaxPageSize
	}

	return ListParams{
		Page:        page,
		Limit:       limit,
		Name:        c.Query("name"),
		Phone:       c.Query("phone"),
		Email:       c.Query("email"),
		Role:        c.Query("role"),
		Department:  c.Query("department"),
		Status:      c.Query("status"),
		JoiningDate: c.Query("joiningDate"),
	}
}

// ApplyUserFilters applies the active filters to a GORM query. All filters
// are ANDed; name matches the concatenated first and last name.
func ApplyUserFilters(query *gorm.DB, params ListParams) *gorm.DB {
	if params.Name != "" {
		query = query.Where("(first_name || ' ' || last_name) ILIKE ?", "%"+params.Name+"%")
	}
	if params.Phone != "" {
		query = query.Where("phone LIKE ?", "%"+params.Phone+"%")
	}
	if params.Email != "" {
		query = query.Where("email ILIKE ?", "%"+params.Email+"%")
	}
	if params.Role != "" {
		query = query.Where("role ILIKE ?", "%"+params.Role+"%")
	}
	if params.Department != "" {
		query = query.Where("dept_id = ?", params.Department)
	}
	if params.Status != "" {
		if active, err := strconv.ParseBool(params.Status); err == nil {
			query = query.Where("is_active = ?", active)
		}
	}
	if params.JoiningDate != "" {
		query = query.Where("to_char(joining_date, 'YYYY-MM-DD') LIKE ?", "%"+params.JoiningDate+"%")
	}
	return query
}

// ApplyPagination applies pagination to a GORM query
func ApplyPagination(query *gorm.DB, page, limit int) *gorm.DB {
	offset := (page - 1) * limit
	return query.Offset(offset).Limit(limit)
}
