package orclient

import (
	"context"
	"sync"
	"time"

	"github.com/elee1766/convo/src/aisdk"
)

// modelLister fetches the full model listing from a provider.
type modelLister interface {
	listModelsUncached(ctx context.Context) ([]*aisdk.ModelInfo, error)
}

// ModelCache provides caching for model information
type ModelCache struct {
	cache     map[string]*cachedModel
	listCache *cachedModelList
	mu        sync.RWMutex
	ttl       time.Duration
	lister    modelLister
	now       func() time.Time
}

type cachedModel struct {
	model     *aisdk.ModelInfo
	fetchedAt time.Time
}

type cachedModelList struct {
	models    []*aisdk.ModelInfo
	fetchedAt time.Time
}

// NewModelCache creates a new model cache
func NewModelCache(lister modelLister, ttl time.Duration) *ModelCache {
	return &ModelCache{
		cache:  make(map[string]*cachedModel),
		ttl:    ttl,
		lister: lister,
		now:    time.Now,
	}
}

// GetModel gets a model from cache or looks it up in the model list.
// It returns ErrInvalidModel when the provider does not list the model.
func (mc *ModelCache) GetModel(ctx context.Context, modelID string) (*aisdk.ModelInfo, error) {
	mc.mu.RLock()
	cached, exists := mc.cache[modelID]
	mc.mu.RUnlock()

	if exists && mc.now().Sub(cached.fetchedAt) < mc.ttl {
		return cached.model, nil
	}

	models, err := mc.GetModelList(ctx)
	if err != nil {
		return nil, err
	}

	for _, model := range models {
		if model.ID != modelID {
			continue
		}
		mc.mu.Lock()
		mc.cache[modelID] = &cachedModel{model: model, fetchedAt: mc.now()}
		mc.mu.Unlock()
		return model, nil
	}

	return nil, ErrInvalidModel
}

// GetModelList gets the model list from cache or fetches it
func (mc *ModelCache) GetModelList(ctx context.Context) ([]*aisdk.ModelInfo, error) {
	mc.mu.RLock()
	cached := mc.listCache
	mc.mu.RUnlock()

	if cached != nil && mc.now().Sub(cached.fetchedAt) < mc.ttl {
		return cached.models, nil
	}

	models, err := mc.lister.listModelsUncached(ctx)
	if err != nil {
		return nil, err
	}

	mc.mu.Lock()
	mc.listCache = &cachedModelList{
		models:    models,
		fetchedAt: mc.now(),
	}
	mc.mu.Unlock()

	return models, nil
}

// ClearCache clears the entire cache
func (mc *ModelCache) ClearCache() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.cache = make(map[string]*cachedModel)
	mc.listCache = nil
}
