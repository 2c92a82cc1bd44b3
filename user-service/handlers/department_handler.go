package handlers

import (
	"net/http"

	"staffdesk/shared/database"
	"staffdesk/shared/database/models"
	"staffdesk/shared/utils/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DepartmentResponse is one entry of the reference list
type DepartmentResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// GetDepartments retrieves the department reference list
// @Summary List departments
// @Description Get the read-only department reference list, served through the Redis cache
// @Tags departments
// @Accept json
// @Produce json
// @Success 200 {array} handlers.DepartmentResponse
// @Failure 500 {object} map[string]string
// @Router /departments [get]
func GetDepartments(ctx *gin.Context) {
	cacheManager := cache.GetCacheManager()

	if cacheManager != nil {
		if departments, hit := cacheManager.GetDepartments(); hit {
			ctx.JSON(http.StatusOK, buildDepartmentResponses(departments))
			return
		}
	}

	var departments []models.Department
	if err := database.DB.Order("name ASC").Find(&departments).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve departments",
			"message": err.Error(),
		})
		return
	}

	if cacheManager != nil {
		// Cache failures never block the response
		_ = cacheManager.SetDepartments(departments)
	}

	ctx.JSON(http.StatusOK, buildDepartmentResponses(departments))
}

func buildDepartmentResponses(departments []models.Department) []DepartmentResponse {
	responses := make([]DepartmentResponse, 0, len(departments))
	for _, department := range departments {
		responses = append(responses, DepartmentResponse{
			ID:   department.ID,
			Name: department.Name,
		})
	}
	return responses
}
