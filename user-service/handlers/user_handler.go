package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"staffdesk/shared/database"
	"staffdesk/shared/database/models"
	"staffdesk/shared/utils/query"
	"staffdesk/user-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DepartmentRef is the denormalized join object present on read.
type DepartmentRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// UserResponse represents user data for API responses
type UserResponse struct {
	ID                uuid.UUID      `json:"id"`
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	Email             string         `json:"email"`
	Gender            string         `json:"gender"`
	Phone             string         `json:"phone"`
	Age               int            `json:"age"`
	DeptID            string         `json:"dept_id,omitempty"`
	Role              string         `json:"role"`
	JoiningDate       string         `json:"joining_date,omitempty"`
	IsActive          bool           `json:"is_active"`
	Rating            int            `json:"rating"`
	ProfileColor      string         `json:"profile_color,omitempty"`
	AvailabilityStart string         `json:"availability_start,omitempty"`
	AvailabilityEnd   string         `json:"availability_end,omitempty"`
	Tags              string         `json:"tags"`
	Agreement         bool           `json:"agreement"`
	Resume            string         `json:"resume,omitempty"`
	ProfilePicture    string         `json:"profile_picture,omitempty"`
	CreatedAt         string         `json:"created_at"`
	Department        *DepartmentRef `json:"department,omitempty"`
}

// UpsertUserRequest represents the request body for creating or updating a
// user. It binds from JSON and from multipart form fields.
type UpsertUserRequest struct {
	FirstName         string `json:"first_name" form:"first_name" binding:"required"`
	LastName          string `json:"last_name" form:"last_name" binding:"required"`
	Email             string `json:"email" form:"email" binding:"required,email"`
	Gender            string `json:"gender" form:"gender"`
	Phone             string `json:"phone" form:"phone"`
	Age               int    `json:"age" form:"age"`
	DeptID            string `json:"dept_id" form:"dept_id"`
	Role              string `json:"role" form:"role"`
	JoiningDate       string `json:"joining_date" form:"joining_date"`
	IsActive          bool   `json:"is_active" form:"is_active"`
	Rating            int    `json:"rating" form:"rating"`
	ProfileColor      string `json:"profile_color" form:"profile_color"`
	AvailabilityStart string `json:"availability_start" form:"availability_start"`
	AvailabilityEnd   string `json:"availability_end" form:"availability_end"`
	Tags              string `json:"tags" form:"tags"`
	Agreement         bool   `json:"agreement" form:"agreement"`
}

// UserListResponse represents the list endpoint's envelope
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	TotalUsers int64          `json:"totalUsers"`
}

// buildUserResponse converts a stored user to the wire shape
func buildUserResponse(user models.User) UserResponse {
	response := UserResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Gender:       user.Gender,
		Phone:        user.Phone,
		Age:          user.Age,
		Role:         user.Role,
		IsActive:     user.IsActive,
		Rating:       user.Rating,
		ProfileColor: user.ProfileColor,
		Tags:         user.Tags,
		Agreement:    user.Agreement,
		CreatedAt:    user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if user.JoiningDate != nil {
		response.JoiningDate = user.JoiningDate.Format("2006-01-02")
	}
	if user.AvailabilityStart != nil {
		response.AvailabilityStart = *user.AvailabilityStart
	}
	if user.AvailabilityEnd != nil {
		response.AvailabilityEnd = *user.AvailabilityEnd
	}
	if user.Resume != nil {
		response.Resume = *user.Resume
	}
	if user.ProfilePicture != nil {
		response.ProfilePicture = *user.ProfilePicture
	}
	if user.DeptID != nil {
		response.DeptID = user.DeptID.String()
		response.Department = &DepartmentRef{
			ID:   user.Department.ID,
			Name: user.Department.Name,
		}
	}

	return response
}

// GetUsers retrieves users with pagination and filtering
// @Summary List users
// @Description Get users with pagination and the flat list filters
// @Tags users
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param name query string false "Substring match on first + last name"
// @Param phone query string false "Substring match on phone"
// @Param email query string false "Substring match on email"
// @Param role query string false "Substring match on role"
// @Param department query string false "Exact department ID"
// @Param status query string false "Active filter (true or false)"
// @Param joiningDate query string false "Substring match on the ISO joining date"
// @Success 200 {object} handlers.UserListResponse
// @Failure 500 {object} map[string]string
// @Router /users [get]
func GetUsers(ctx *gin.Context) {
	db := database.DB

	params := query.ParseListParams(ctx)

	baseQuery := db.Model(&models.User{}).Preload("Department")
	filteredQuery := query.ApplyUserFilters(baseQuery, params)

	var total int64
	filteredQuery.Count(&total)

	finalQuery := query.ApplyPagination(filteredQuery, params.Page, params.Limit).
		Order("created_at DESC")

	var users []models.User
	if err := finalQuery.Find(&users).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve users",
			"message": err.Error(),
		})
		return
	}

	userResponses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		userResponses = append(userResponses, buildUserResponse(user))
	}

	ctx.JSON(http.StatusOK, UserListResponse{
		Users:      userResponses,
		TotalUsers: total,
	})
}

// GetUser retrieves a single user by ID
// @Summary Get user by ID
// @Description Get a single user record with the denormalized department
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} handlers.UserResponse
// @Failure 400 {object} map[string]string "Invalid user ID format"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /users/{id} [get]
func GetUser(ctx *gin.Context) {
	userID := ctx.Param("id")
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid user ID format",
			"message": err.Error(),
		})
		return
	}

	db := database.DB
	var user models.User

	if err := db.Preload("Department").First(&user, userUUID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error":   "User not found",
				"message": "User with the given ID does not exist",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve user",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, buildUserResponse(user))
}

// CreateUser creates a new user
// @Summary Create a new user
// @Description Create a user from a JSON or multipart body. Multipart file parts "resume" and "profilePicture" are stored and recorded as server-relative paths.
// @Tags users
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param user body UpsertUserRequest true "User information"
// @Success 201 {object} handlers.UserResponse "Created user"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 409 {object} map[string]string "Email already exists"
// @Failure 500 {object} map[string]string "Server error"
// @Router /users [post]
func CreateUser(ctx *gin.Context) {
	var request UpsertUserRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	db := database.DB

	// Check if email already exists
	var existingUser models.User
	if err := db.Where("email = ?", request.Email).First(&existingUser).Error; err == nil {
		ctx.JSON(http.StatusConflict, gin.H{
			"error":   "Email already exists",
			"message": "A user with this email already exists",
		})
		return
	}

	user := models.User{}
	if !applyUpsert(ctx, &user, request) {
		return
	}
	if !storeUploadedFiles(ctx, &user) {
		return
	}

	if err := db.Create(&user).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create user",
			"message": err.Error(),
		})
		return
	}

	// Load relation for response
	db.Preload("Department").First(&user, user.ID)

	ctx.JSON(http.StatusCreated, buildUserResponse(user))
}

// UpdateUser updates an existing user
// @Summary Update a user
// @Description Update a user from a JSON or multipart body. A stored file is kept unless a new file part replaces it.
// @Tags users
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Param user body UpsertUserRequest true "Updated user information"
// @Success 200 {object} handlers.UserResponse "Updated user"
// @Failure 400 {object} map[string]string "Invalid request data or ID format"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 409 {object} map[string]string "Email already exists"
// @Failure 500 {object} map[string]string "Server error"
// @Router /users/{id} [put]
func UpdateUser(ctx *gin.Context) {
	userID := ctx.Param("id")
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid user ID format",
			"message": err.Error(),
		})
		return
	}

	var request UpsertUserRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	db := database.DB
	var user models.User

	if err := db.First(&user, userUUID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error":   "User not found",
				"message": "User with the given ID does not exist",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve user",
			"message": err.Error(),
		})
		return
	}

	// Check if email already exists for another user
	if request.Email != "" && request.Email != user.Email {
		var existingUser models.User
		if err := db.Where("email = ? AND id != ?", request.Email, userUUID).First(&existingUser).Error; err == nil {
			ctx.JSON(http.StatusConflict, gin.H{
				"error":   "Email already exists",
				"message": "Another user with this email already exists",
			})
			return
		}
	}

	if !applyUpsert(ctx, &user, request) {
		return
	}
	if !storeUploadedFiles(ctx, &user) {
		return
	}

	if err := db.Save(&user).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update user",
			"message": err.Error(),
		})
		return
	}

	db.Preload("Department").First(&user, userUUID)

	ctx.JSON(http.StatusOK, buildUserResponse(user))
}

// applyUpsert maps the bound request onto the stored model. It answers the
// request itself and returns false when a field cannot be applied.
func applyUpsert(ctx *gin.Context, user *models.User, request UpsertUserRequest) bool {
	db := database.DB

	user.FirstName = request.FirstName
	user.LastName = request.LastName
	user.Email = request.Email
	user.Gender = strings.ToLower(request.Gender)
	user.Phone = request.Phone
	user.Age = request.Age
	user.Role = request.Role
	user.IsActive = request.IsActive
	user.Rating = request.Rating
	user.ProfileColor = request.ProfileColor
	user.Tags = request.Tags
	user.Agreement = request.Agreement

	if request.DeptID != "" {
		deptUUID, err := uuid.Parse(request.DeptID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid department ID",
				"message": err.Error(),
			})
			return false
		}

		var department models.Department
		if err := db.First(&department, deptUUID).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid department ID",
				"message": "Department not found",
			})
			return false
		}
		user.DeptID = &deptUUID
	} else {
		user.DeptID = nil
	}

	if request.JoiningDate != "" {
		joiningDate, err := time.Parse("2006-01-02", request.JoiningDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid joining date",
				"message": err.Error(),
			})
			return false
		}
		user.JoiningDate = &joiningDate
	} else {
		user.JoiningDate = nil
	}

	// Availability window is both-or-neither
	if request.AvailabilityStart != "" && request.AvailabilityEnd != "" {
		start := request.AvailabilityStart
		end := request.AvailabilityEnd
		user.AvailabilityStart = &start
		user.AvailabilityEnd = &end
	} else {
		user.AvailabilityStart = nil
		user.AvailabilityEnd = nil
	}

	return true
}

// storeUploadedFiles stores any multipart file parts and records their
// server-relative paths. Without a new part the stored path is kept.
func storeUploadedFiles(ctx *gin.Context, user *models.User) bool {
	if !strings.HasPrefix(ctx.GetHeader("Content-Type"), "multipart/form-data") {
		return true
	}

	resumePath, ok := saveFilePart(ctx, "resume", "resumes")
	if !ok {
		return false
	}
	if resumePath != nil {
		user.Resume = resumePath
	}

	picturePath, ok := saveFilePart(ctx, "profilePicture", "pictures")
	if !ok {
		return false
	}
	if picturePath != nil {
		user.ProfilePicture = picturePath
	}

	return true
}

// saveFilePart uploads one named file part to MinIO. A missing part is not
// an error; the second return value is false only when the upload failed
// and the request has been answered.
func saveFilePart(ctx *gin.Context, field, folder string) (*string, bool) {
	file, header, err := ctx.Request.FormFile(field)
	if err != nil {
		return nil, true
	}
	defer file.Close()

	storage, err := services.NewStorageService()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Storage service unavailable",
			"message": err.Error(),
		})
		return nil, false
	}

	objectKey := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")

	if err := storage.UploadObject(ctx, objectKey, file, header.Size, contentType); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to upload file",
			"message": err.Error(),
		})
		return nil, false
	}

	storedPath := "uploads/" + objectKey
	return &storedPath, true
}
