package storage

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/eugenenazirov/change-maker/internal/change"
)

var (
	// ErrInvalidDenominations indicates the provided denominations violate validation rules.
	ErrInvalidDenominations = errors.New("denominations must contain at least one positive integer")
)

var defaultDenominations = []int{1, 10, 25}

// Storage provides access to the denominations used when a request does not supply its own.
type Storage interface {
	GetDenominations() ([]int, error)
	SetDenominations(coins []int) error
}

// MemoryStorage keeps denominations in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu    sync.RWMutex
	coins []int
}

// NewMemoryStorage initialises storage with a copy of the default denominations.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		coins: cloneAndSort(defaultDenominations),
	}
}

// DefaultDenominations returns a copy of the default denominations slice.
func DefaultDenominations() []int {
	return cloneAndSort(defaultDenominations)
}

// GetDenominations returns a copy of the currently configured denominations.
func (s *MemoryStorage) GetDenominations() ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAndSort(s.coins), nil
}

// SetDenominations validates, normalises, and stores the provided denominations.
func (s *MemoryStorage) SetDenominations(coins []int) error {
	normalized, err := change.NormalizeDenominations(coins)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDenominations, err)
	}

	s.mu.Lock()
	s.coins = normalized
	s.mu.Unlock()

	return nil
}

func cloneAndSort(src []int) []int {
	if len(src) == 0 {
		return []int{}
	}

	out := make([]int, len(src))
	copy(out, src)
	sort.Ints(out)
	return out
}
