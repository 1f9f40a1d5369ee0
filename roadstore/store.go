package roadstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"trafficchain_go/utils"
)

// Database key prefix for road configuration documents
const roadKeyPrefix = "road_"

// ErrRoadNotFound is returned when no configuration exists for a road id.
var ErrRoadNotFound = errors.New("road not found")

// RoadConfig describes one approach road of the intersection. This is plain
// configuration for the decision layer; it is not part of the ledger.
type RoadConfig struct {
	RoadID     string  `json:"roadId"`
	Name       string  `json:"name"`
	SpeedLimit int     `json:"speedLimit"` // km/h
	LengthM    int     `json:"lengthM"`    // metres of approach covered by detection
	LaneID     int     `json:"laneId"`     // controlled lane this road feeds
	Weight     float64 `json:"weight"`     // relative priority weight
	UpdatedAt  string  `json:"updatedAt"`
}

// Store persists road configuration documents in LevelDB.
type Store struct {
	db   *leveldb.DB
	path string
}

// Open creates or opens the road configuration store under dataDir.
func Open(dataDir string) (*Store, error) {
	dbPath := filepath.Join(dataDir, "roads")

	options := &opt.Options{
		BlockCacheCapacity: 8 * 1024 * 1024, // 8MB block cache
		WriteBuffer:        4 * 1024 * 1024, // 4MB write buffer
	}

	db, err := leveldb.OpenFile(dbPath, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open road configuration store: %v", err)
	}

	utils.LogInfo("Road configuration store initialized at: %s", dbPath)

	return &Store{
		db:   db,
		path: dbPath,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores a road configuration, stamping UpdatedAt.
func (s *Store) Put(road *RoadConfig) error {
	if road.RoadID == "" {
		return errors.New("road id cannot be empty")
	}
	road.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(road)
	if err != nil {
		return fmt.Errorf("failed to marshal road config: %v", err)
	}

	key := roadKeyPrefix + road.RoadID
	if err := s.db.Put([]byte(key), data, nil); err != nil {
		return fmt.Errorf("failed to save road config: %v", err)
	}
	return nil
}

// Get retrieves the configuration for a road id.
func (s *Store) Get(roadID string) (*RoadConfig, error) {
	key := roadKeyPrefix + roadID

	data, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", ErrRoadNotFound, roadID)
		}
		return nil, fmt.Errorf("failed to retrieve road config: %v", err)
	}

	var road RoadConfig
	if err := json.Unmarshal(data, &road); err != nil {
		return nil, fmt.Errorf("failed to unmarshal road config: %v", err)
	}
	return &road, nil
}

// List returns all stored road configurations.
func (s *Store) List() ([]*RoadConfig, error) {
	var roads []*RoadConfig

	iter := s.db.NewIterator(util.BytesPrefix([]byte(roadKeyPrefix)), nil)
	defer iter.Release()

	for iter.Next() {
		var road RoadConfig
		if err := json.Unmarshal(iter.Value(), &road); err != nil {
			return nil, fmt.Errorf("failed to unmarshal road config: %v", err)
		}
		roads = append(roads, &road)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate road configs: %v", err)
	}
	return roads, nil
}

// Delete removes a road configuration.
func (s *Store) Delete(roadID string) error {
	key := roadKeyPrefix + roadID

	exists, err := s.db.Has([]byte(key), nil)
	if err != nil {
		return fmt.Errorf("failed to check road config: %v", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrRoadNotFound, roadID)
	}
	if err := s.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("failed to delete road config: %v", err)
	}
	return nil
}

// SeedDefaults writes the default four-road intersection when the store is
// empty, so a fresh node starts with a usable configuration.
func (s *Store) SeedDefaults() error {
	existing, err := s.List()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := []*RoadConfig{
		{RoadID: "road-1", Name: "Road 1", SpeedLimit: 40, LengthM: 1000, LaneID: 1, Weight: 1.0},
		{RoadID: "road-2", Name: "Road 2", SpeedLimit: 60, LengthM: 800, LaneID: 2, Weight: 2.0},
		{RoadID: "road-3", Name: "Road 3", SpeedLimit: 70, LengthM: 1100, LaneID: 3, Weight: 1.7},
		{RoadID: "road-4", Name: "Road 4", SpeedLimit: 30, LengthM: 700, LaneID: 4, Weight: 1.2},
	}

	batch := new(leveldb.Batch)
	now := time.Now().UTC().Format(time.RFC3339)
	for _, road := range defaults {
		road.UpdatedAt = now
		data, err := json.Marshal(road)
		if err != nil {
			return fmt.Errorf("failed to marshal default road config: %v", err)
		}
		batch.Put([]byte(roadKeyPrefix+road.RoadID), data)
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to seed road configs: %v", err)
	}

	utils.LogInfo("Seeded %d default road configurations", len(defaults))
	return nil
}
