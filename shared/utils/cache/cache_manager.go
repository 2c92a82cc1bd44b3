package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"staffdesk/shared/config"
	"staffdesk/shared/database/models"
)

type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

var (
	globalCacheManager *CacheManager
	DepartmentTTL      = 1 * time.Hour
)

const departmentsKey = "ref:departments"

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalCacheManager = &CacheManager{
		client: client,
		ctx:    ctx,
	}

	log.Printf("✅ Redis Cache Manager initialized successfully - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetCacheManager returns the global cache manager instance
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		if err := InitCacheManager(); err != nil {
			log.Printf("❌ Failed to initialize cache manager: %v", err)
			return nil
		}
	}
	return globalCacheManager
}

// SetDepartments caches the department reference list
func (cm *CacheManager) SetDepartments(departments []models.Department) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	jsonData, err := json.Marshal(departments)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %v", err)
	}

	if err := cm.client.Set(cm.ctx, departmentsKey, jsonData, DepartmentTTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %v", err)
	}

	log.Printf("🔄 Departments cached: %s (TTL: %v, count: %d)", departmentsKey, DepartmentTTL, len(departments))
	return nil
}

// GetDepartments retrieves the cached department list
func (cm *CacheManager) GetDepartments() ([]models.Department, bool) {
	if cm == nil || cm.client == nil {
		return nil, false
	}

	result, err := cm.client.Get(cm.ctx, departmentsKey).Result()
	if err != nil {
		if err == redis.Nil {
			log.Printf("🔍 Cache miss: %s", departmentsKey)
			return nil, false
		}
		log.Printf("❌ Cache error: %v", err)
		return nil, false
	}

	var departments []models.Department
	if err := json.Unmarshal([]byte(result), &departments); err != nil {
		log.Printf("❌ Failed to unmarshal cache data: %v", err)
		return nil, false
	}

	log.Printf("✅ Cache hit: %s", departmentsKey)
	return departments, true
}

// InvalidateDepartments drops the cached department list
func (cm *CacheManager) InvalidateDepartments() error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}
	return cm.client.Del(cm.ctx, departmentsKey).Err()
}
