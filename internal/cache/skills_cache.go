package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/pkg/logger"
	"github.com/mentormesh/mentormesh-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const skillsCacheKey = "skills"

// SkillsSource fetches the skill catalog from storage
type SkillsSource interface {
	ListSkills(ctx context.Context) ([]models.Skill, error)
}

// SkillsCacheInterface is implemented by SkillsCache; services depend
// on it so tests can substitute a mock.
type SkillsCacheInterface interface {
	Initialize() error
	IsReady() bool
	Get(ctx context.Context) ([]models.Skill, error)
	Invalidate()
}

// SkillsCache manages the in-memory cache for the skill catalog. The
// catalog changes rarely but is read on every profile edit and match
// request.
type SkillsCache struct {
	cache  *gocache.Cache
	source SkillsSource
	ttl    time.Duration
	mu     sync.RWMutex
	ready  bool
}

// NewSkillsCache creates a new skills cache with the given TTL
func NewSkillsCache(source SkillsSource, ttl time.Duration) *SkillsCache {
	return &SkillsCache{
		cache:  gocache.New(ttl, ttl/2),
		source: source,
		ttl:    ttl,
		ready:  false,
	}
}

// Initialize performs initial cache population (synchronous, blocks until ready)
// Should be called during application startup before accepting requests
func (sc *SkillsCache) Initialize() error {
	logger.Info("Initializing skills cache...")
	if _, err := sc.refresh(context.Background()); err != nil {
		logger.Error("Failed to initialize skills cache", zap.Error(err))
		return err
	}

	sc.mu.Lock()
	sc.ready = true
	sc.mu.Unlock()

	logger.Info("Skills cache initialized successfully")
	return nil
}

// IsReady returns true if the cache has been successfully initialized
func (sc *SkillsCache) IsReady() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ready
}

// Get retrieves the skill catalog from cache or storage on a miss
func (sc *SkillsCache) Get(ctx context.Context) ([]models.Skill, error) {
	if !sc.IsReady() {
		return nil, fmt.Errorf("skills cache not initialized")
	}

	if data, found := sc.cache.Get(skillsCacheKey); found {
		logger.Debug("Skills cache hit")
		metrics.CacheHits.WithLabelValues("skills").Inc()
		skills, ok := data.([]models.Skill)
		if !ok {
			logger.Error("Invalid skills cache data type")
			sc.cache.Delete(skillsCacheKey)
			return nil, fmt.Errorf("invalid cache data type")
		}
		return skills, nil
	}

	logger.Info("Skills cache miss, fetching from database")
	metrics.CacheMisses.WithLabelValues("skills").Inc()

	return sc.refresh(ctx)
}

// Invalidate drops the cached catalog after a catalog mutation
func (sc *SkillsCache) Invalidate() {
	sc.cache.Delete(skillsCacheKey)
	logger.Debug("Skills cache invalidated")
}

// refresh fetches skills from storage and updates the cache
func (sc *SkillsCache) refresh(ctx context.Context) ([]models.Skill, error) {
	skills, err := sc.source.ListSkills(ctx)
	if err != nil {
		logger.Error("Failed to refresh skills cache", zap.Error(err))
		return nil, err
	}

	sc.cache.Set(skillsCacheKey, skills, sc.ttl)

	logger.Info("Skills cache refreshed", zap.Int("count", len(skills)))

	return skills, nil
}

var _ SkillsCacheInterface = (*SkillsCache)(nil)
