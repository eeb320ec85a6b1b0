package storage

import (
	"github.com/manav03panchal/glowtrack/internal/model"
)

// permissionRecord is the persisted answer to the consent prompt.
type permissionRecord struct {
	State model.AuthorizationState `json:"state"`
}

// PermissionRepo stores the local permission authority's decision.
type PermissionRepo struct {
	db *DB
}

// NewPermissionRepo creates a new permission repository.
func NewPermissionRepo(db *DB) *PermissionRepo {
	return &PermissionRepo{db: db}
}

// Get returns the stored state, or NotDetermined if the user was never asked.
func (r *PermissionRepo) Get() (model.AuthorizationState, error) {
	var rec permissionRecord
	found, err := r.db.GetJSON(model.KeyPermission, &rec)
	if err != nil {
		return model.NotDetermined, err
	}
	if !found || !rec.State.IsValid() {
		return model.NotDetermined, nil
	}
	return rec.State, nil
}

// Set stores state.
func (r *PermissionRepo) Set(state model.AuthorizationState) error {
	return r.db.PutJSON(model.KeyPermission, permissionRecord{State: state})
}

// Reset forgets the stored decision, as if the app were freshly installed.
func (r *PermissionRepo) Reset() error {
	return r.db.DeleteRecord(model.KeyPermission)
}
