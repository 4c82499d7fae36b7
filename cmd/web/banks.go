package main

import (
	"context"
	"sync"

	"github.com/jsech3/GameIQ/internal/bankfile"
	"github.com/jsech3/GameIQ/internal/models"
)

// bankCache keeps decoded banks in memory until a refresh replaces the file.
type bankCache struct {
	store *bankfile.Store
	mu    sync.RWMutex
	banks map[models.GameType]models.Bank
}

func newBankCache(store *bankfile.Store) *bankCache {
	return &bankCache{
		store: store,
		mu:    sync.RWMutex{},
		banks: map[models.GameType]models.Bank{},
	}
}

func (c *bankCache) get(ctx context.Context, game models.GameType) (models.Bank, error) {
	c.mu.RLock()
	bank, ok := c.banks[game]
	c.mu.RUnlock()
	if ok {
		return bank, nil
	}

	bank, err := c.store.Read(ctx, game)
	if err != nil {
		return models.Bank{}, err
	}
	c.mu.Lock()
	c.banks[game] = bank
	c.mu.Unlock()
	return bank, nil
}

// invalidate drops game so that the next request reads the file again.
func (c *bankCache) invalidate(game models.GameType) {
	c.mu.Lock()
	delete(c.banks, game)
	c.mu.Unlock()
}
