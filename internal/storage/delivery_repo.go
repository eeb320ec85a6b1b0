package storage

import (
	"encoding/json"
	"sort"

	"github.com/manav03panchal/glowtrack/internal/logging"
	"github.com/manav03panchal/glowtrack/internal/model"
)

// DeliveryRepo persists the ledger of pending scheduled deliveries.
type DeliveryRepo struct {
	db *DB
}

// NewDeliveryRepo creates a new delivery repository.
func NewDeliveryRepo(db *DB) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

// Put stores d, replacing any entry with the same ID.
func (r *DeliveryRepo) Put(d model.ScheduledDelivery) error {
	return r.db.PutJSON(d.Key(), d)
}

// Delete removes the delivery with the given ID.
func (r *DeliveryRepo) Delete(id string) error {
	return r.db.DeleteRecord(model.PrefixDelivery + id)
}

// List returns every pending delivery ordered by fire time.
// Entries that cannot be decoded are skipped and logged.
func (r *DeliveryRepo) List() ([]model.ScheduledDelivery, error) {
	raw, err := r.db.ListByPrefix(model.PrefixDelivery)
	if err != nil {
		return nil, err
	}

	deliveries := make([]model.ScheduledDelivery, 0, len(raw))
	for key, val := range raw {
		var d model.ScheduledDelivery
		if err := json.Unmarshal(val, &d); err != nil {
			logging.Warn("skipping undecodable delivery", logging.KeyKey, key, logging.KeyError, err)
			continue
		}
		deliveries = append(deliveries, d)
	}

	sort.Slice(deliveries, func(i, j int) bool {
		if deliveries[i].FireAt.Equal(deliveries[j].FireAt) {
			return deliveries[i].Category < deliveries[j].Category
		}
		return deliveries[i].FireAt.Before(deliveries[j].FireAt)
	})
	return deliveries, nil
}
