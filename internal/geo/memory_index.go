package geo

import (
	"context"
	"sort"
	"sync"
)

type memoryMember struct {
	lat float64
	lng float64
}

// MemoryIndex is an in-process LocationIndex for tests and single-node dev
// runs. Unlike the Redis GEO set it is exact, which is fine: the contract
// only promises a superset-ish candidate list, and exact satisfies that.
type MemoryIndex struct {
	mu      sync.RWMutex
	members map[string]memoryMember
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{members: make(map[string]memoryMember)}
}

func (i *MemoryIndex) Index(_ context.Context, userID string, lat, lng float64) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.members[userID] = memoryMember{lat: lat, lng: lng}
	return nil
}

func (i *MemoryIndex) Remove(_ context.Context, userID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.members, userID)
	return nil
}

func (i *MemoryIndex) RadiusQuery(_ context.Context, lat, lng, radiusKm float64) ([]string, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	var userIDs []string
	for id, m := range i.members {
		if HaversineKm(lat, lng, m.lat, m.lng) <= radiusKm {
			userIDs = append(userIDs, id)
		}
	}
	sort.Strings(userIDs)
	return userIDs, nil
}
