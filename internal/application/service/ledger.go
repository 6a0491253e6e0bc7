package service

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/repository"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
)

// DenominationLedger is the drawer count sheet. Every change is written
// through to the store so a restart resumes the count.
type DenominationLedger struct {
	mu     sync.Mutex
	store  repository.KeyValueStore
	key    string
	counts entity.DenominationCount
}

// LoadLedger restores the count saved under key. A missing or unreadable
// entry starts from zero.
func LoadLedger(ctx context.Context, store repository.KeyValueStore, key string, log *logrus.Logger) (*DenominationLedger, error) {
	l := &DenominationLedger{
		store:  store,
		key:    key,
		counts: entity.NewDenominationCount(),
	}

	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return l, nil
	}

	var saved map[string]int
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		log.WithError(err).WithField("key", key).Warn("discarding unreadable denomination count")
		return l, nil
	}
	for k, n := range saved {
		value, err := strconv.ParseInt(k, 10, 64)
		if err != nil || !entity.IsDenomination(value) {
			continue
		}
		if n < 0 {
			n = 0
		}
		l.counts[value] = n
	}
	return l, nil
}

// Set records count pieces of value. Negative counts are stored as zero.
// The in-memory count is left untouched when the write fails.
func (l *DenominationLedger) Set(ctx context.Context, value int64, count int) error {
	if !entity.IsDenomination(value) {
		return apperror.NewFieldError("denomination", "Unknown denomination "+strconv.FormatInt(value, 10))
	}
	if count < 0 {
		count = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.counts.Clone()
	next[value] = count
	if err := l.persist(ctx, next); err != nil {
		return err
	}
	l.counts = next
	return nil
}

// Reset zeroes every count and drops the saved entry.
func (l *DenominationLedger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Delete(ctx, l.key); err != nil {
		return err
	}
	l.counts = entity.NewDenominationCount()
	return nil
}

func (l *DenominationLedger) Count(value int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[value]
}

// Counts returns a copy of the current count.
func (l *DenominationLedger) Counts() entity.DenominationCount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts.Clone()
}

// PhysicalTotal is the cash value of the drawer.
func (l *DenominationLedger) PhysicalTotal() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts.Total()
}

func (l *DenominationLedger) persist(ctx context.Context, counts entity.DenominationCount) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return l.store.Set(ctx, l.key, string(data))
}
