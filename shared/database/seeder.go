package database

import (
	"log"
	"time"

	"staffdesk/shared/database/models"
	"staffdesk/shared/utils/cache"
)

// SeedDatabase seeds the database with initial data
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	departmentsCreated, err := seedDepartments()
	if err != nil {
		return err
	}

	usersCreated, err := seedDemoUsers()
	if err != nil {
		return err
	}

	if departmentsCreated > 0 || usersCreated > 0 {
		log.Printf("✅ Database seeding completed (%d departments, %d users created)", departmentsCreated, usersCreated)

		// Reference data changed, drop the cached department list
		if cm := cache.GetCacheManager(); cm != nil {
			if err := cm.InvalidateDepartments(); err != nil {
				log.Printf("Warning: failed to invalidate department cache: %v", err)
			}
		}
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	return nil
}

// seedDepartments creates the default departments
func seedDepartments() (int, error) {
	departments := []models.Department{
		{Name: "Engineering"},
		{Name: "Human Resources"},
		{Name: "Sales"},
		{Name: "Marketing"},
		{Name: "Finance"},
		{Name: "Operations"},
	}

	created := 0
	for _, department := range departments {
		var existing models.Department
		result := DB.Where("name = ?", department.Name).First(&existing)
		if result.Error != nil {
			if err := DB.Create(&department).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}

// seedDemoUsers creates a couple of demo users so the list screen is not empty
func seedDemoUsers() (int, error) {
	var engineering models.Department
	if err := DB.Where("name = ?", "Engineering").First(&engineering).Error; err != nil {
		return 0, err
	}
	var sales models.Department
	if err := DB.Where("name = ?", "Sales").First(&sales).Error; err != nil {
		return 0, err
	}

	joinedRavi := time.Date(2023, 4, 17, 0, 0, 0, 0, time.UTC)
	joinedPriya := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	availStart := "09:00:00"
	availEnd := "17:30:00"

	users := []models.User{
		{
			FirstName:         "Ravi",
			LastName:          "Sharma",
			Email:             "ravi.sharma@example.com",
			Gender:            "male",
			Phone:             "9876543210",
			Age:               31,
			DeptID:            &engineering.ID,
			Role:              "Backend Developer",
			JoiningDate:       &joinedRavi,
			IsActive:          true,
			Rating:            4,
			ProfileColor:      "#1677ff",
			AvailabilityStart: &availStart,
			AvailabilityEnd:   &availEnd,
			Tags:              "golang,backend",
			Agreement:         true,
		},
		{
			FirstName:   "Priya",
			LastName:    "Patel",
			Email:       "priya.patel@example.com",
			Gender:      "female",
			Phone:       "8765432109",
			Age:         27,
			DeptID:      &sales.ID,
			Role:        "Account Executive",
			JoiningDate: &joinedPriya,
			IsActive:    true,
			Rating:      5,
			Tags:        "sales",
			Agreement:   true,
		},
	}

	created := 0
	for _, user := range users {
		var existing models.User
		result := DB.Where("email = ?", user.Email).First(&existing)
		if result.Error != nil {
			if err := DB.Create(&user).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}
