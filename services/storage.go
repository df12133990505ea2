package services

import (
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hanmeotapp/models"
)

// KeyValueStore is the persistence port of the userdata features. Reading an
// absent key returns ("", false, nil); absence is a normal state, not an
// error.
type KeyValueStore interface {
	Get(deviceID, key string) (string, bool, error)
	Set(deviceID, key, value string) error
	Remove(deviceID, key string) error
}

// MemoryStore keeps values in process memory. Used by tests and as a
// fallback when no database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) Get(deviceID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[deviceID+"/"+key]
	return value, ok, nil
}

func (m *MemoryStore) Set(deviceID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[deviceID+"/"+key] = value
	return nil
}

func (m *MemoryStore) Remove(deviceID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, deviceID+"/"+key)
	return nil
}

// DBStore persists userdata rows with gorm, one row per device and key.
type DBStore struct {
	DB *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{DB: db}
}

func (s *DBStore) Get(deviceID, key string) (string, bool, error) {
	var entry models.UserDataEntry
	err := s.DB.Where("device_id = ? AND key = ?", deviceID, key).First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *DBStore) Set(deviceID, key, value string) error {
	entry := models.UserDataEntry{DeviceID: deviceID, Key: key, Value: value}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *DBStore) Remove(deviceID, key string) error {
	return s.DB.Where("device_id = ? AND key = ?", deviceID, key).Delete(&models.UserDataEntry{}).Error
}
