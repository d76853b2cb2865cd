package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/slingshot/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	Integrator    string             `json:"integrator"`
	SpaceBoundary float64            `json:"space_boundary"`
	MaxStep       float64            `json:"max_step"`
	Tolerance     float64            `json:"tolerance"`
	Ticks         int                `json:"ticks"`
	Outcome       string             `json:"outcome"`
	Bodies        []BodyInfo         `json:"bodies"`
	Metrics       map[string]float64 `json:"metrics"`
}

// BodyInfo describes a body that appeared at some point during a run.
type BodyInfo struct {
	ID     dynamo.BodyID `json:"id"`
	Mass   float64       `json:"mass"`
	Radius float64       `json:"radius"`
	Color  string        `json:"color"`
	// FirstTick and LastTick bound the frames the body appears in.
	FirstTick int `json:"first_tick"`
	LastTick  int `json:"last_tick"`
	// Fate is "collided" or "escaped" for removed bodies, empty otherwise.
	Fate string `json:"fate,omitempty"`
}

// Sample is one body in one frame.
type Sample struct {
	Tick int           `json:"tick"`
	ID   dynamo.BodyID `json:"id"`
	X    float64       `json:"x"`
	Y    float64       `json:"y"`
	VX   float64       `json:"vx"`
	VY   float64       `json:"vy"`
	Step float64       `json:"step"`
}

var trajectoryHeader = []string{"tick", "id", "x", "y", "vx", "vy", "step"}

// Save writes a run directory holding metadata.json and trajectory.csv and
// returns the run ID. meta.ID and meta.Timestamp are filled in when empty.
func (s *Store) Save(meta RunMetadata, samples []Sample) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Name, meta.Timestamp.UnixNano())
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, samples); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(trajectoryHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		sample, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("run %s line %d: %w", runID, i+2, err)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func parseSample(record []string) (Sample, error) {
	tick, err := strconv.Atoi(record[0])
	if err != nil {
		return Sample{}, err
	}
	id, err := strconv.ParseUint(record[1], 10, 64)
	if err != nil {
		return Sample{}, err
	}
	vals := make([]float64, 5)
	for i := range vals {
		if vals[i], err = strconv.ParseFloat(record[i+2], 64); err != nil {
			return Sample{}, err
		}
	}
	return Sample{
		Tick: tick,
		ID:   dynamo.BodyID(id),
		X:    vals[0],
		Y:    vals[1],
		VX:   vals[2],
		VY:   vals[3],
		Step: vals[4],
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
