package dataset

import (
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/polarplant/ecboard/pkg/catalog"
	"github.com/polarplant/ecboard/pkg/fsmatch"
)

// Dataset kinds.
const (
	KindEnvironment = "environment"
	KindGrowth      = "growth"
)

// ErrNoData means zero datasets resolved across all groups. Individual
// missing or broken datasets only produce warnings; this is the one case
// that fails the whole load.
var ErrNoData = errors.New("no datasets resolved")

// Warning is a per-dataset load problem. The dataset is excluded from
// aggregation; siblings are unaffected.
type Warning struct {
	Dataset string `json:"dataset"`
	GroupID string `json:"group"`
	Kind    string `json:"kind"`
	Reason  string `json:"reason"`
}

// Config assembles a Store.
type Config struct {
	DataDir  string
	Groups   []Group
	Encoding string // environment CSV encoding, "" = utf-8
	Resolver fsmatch.Resolver
	Catalog  *catalog.DB // nil = no catalog recording
	Logger   *slog.Logger
}

// Store resolves, loads, and aggregates the per-group datasets under a
// read-only data directory. Load and Reload swap the whole view atomically;
// readers never see a half-loaded state.
type Store struct {
	dataDir  string
	groups   []Group
	encoding string
	resolver fsmatch.Resolver
	catalog  *catalog.DB
	logger   *slog.Logger
	cache    *loadCache

	mu       sync.RWMutex
	env      map[string]*EnvSeries
	growth   map[string]*GrowthTable
	warnings []Warning
}

func NewStore(cfg Config) *Store {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Store{
		dataDir:  cfg.DataDir,
		groups:   cfg.Groups,
		encoding: cfg.Encoding,
		resolver: cfg.Resolver,
		catalog:  cfg.Catalog,
		logger:   cfg.Logger,
		cache:    newLoadCache(),
		env:      make(map[string]*EnvSeries),
		growth:   make(map[string]*GrowthTable),
	}
}

// Load scans the data directory for every group's datasets. Failures are
// isolated per dataset; only total absence returns ErrNoData.
func (s *Store) Load() error {
	env := make(map[string]*EnvSeries)
	growth := make(map[string]*GrowthTable)
	var warnings []Warning

	warn := func(g Group, kind, reason string) {
		warnings = append(warnings, Warning{
			Dataset: g.ID + "/" + kind,
			GroupID: g.ID,
			Kind:    kind,
			Reason:  reason,
		})
		s.logger.Warn("dataset unavailable", "group", g.ID, "kind", kind, "reason", reason)
	}

	growthPath, haveGrowth, growthErr := s.resolver.First(s.dataDir, GrowthWorkbookPattern)

	for _, g := range s.groups {
		// Environment CSV, one file per group.
		path, ok, err := s.resolver.First(s.dataDir, g.EnvironmentPattern())
		switch {
		case err != nil:
			warn(g, KindEnvironment, err.Error())
			s.record(g, KindEnvironment, "", 0, catalog.StatusIOError, err.Error())
		case !ok:
			warn(g, KindEnvironment, "no file matches "+g.EnvironmentPattern())
			s.record(g, KindEnvironment, "", 0, catalog.StatusMissing, "")
		default:
			series, err := s.loadEnvCached(g.ID, path)
			if err != nil {
				warn(g, KindEnvironment, err.Error())
				s.record(g, KindEnvironment, path, 0, catalog.StatusParseError, err.Error())
			} else {
				env[g.ID] = series
				s.record(g, KindEnvironment, path, len(series.Rows), catalog.StatusOK, "")
			}
		}

		// Growth sheet from the shared workbook.
		switch {
		case growthErr != nil:
			warn(g, KindGrowth, growthErr.Error())
			s.record(g, KindGrowth, "", 0, catalog.StatusIOError, growthErr.Error())
		case !haveGrowth:
			warn(g, KindGrowth, "no file matches "+GrowthWorkbookPattern)
			s.record(g, KindGrowth, "", 0, catalog.StatusMissing, "")
		default:
			table, err := s.loadGrowthCached(g.ID, growthPath, g.Name)
			if err != nil {
				warn(g, KindGrowth, err.Error())
				s.record(g, KindGrowth, growthPath, 0, catalog.StatusParseError, err.Error())
			} else {
				growth[g.ID] = table
				s.record(g, KindGrowth, growthPath, len(table.Rows), catalog.StatusOK, "")
			}
		}
	}

	s.mu.Lock()
	s.env = env
	s.growth = growth
	s.warnings = warnings
	s.mu.Unlock()

	if len(env) == 0 && len(growth) == 0 {
		return ErrNoData
	}
	s.logger.Info("datasets loaded",
		"environment", len(env), "growth", len(growth), "warnings", len(warnings))
	return nil
}

// Reload drops the parse cache and re-scans the data directory.
func (s *Store) Reload() error {
	s.cache.clear()
	return s.Load()
}

// InvalidateCache forces the next Load to re-read every file even if
// mtimes are unchanged.
func (s *Store) InvalidateCache() {
	s.cache.clear()
}

func (s *Store) loadEnvCached(groupID, path string) (*EnvSeries, error) {
	key, err := statKey(path, groupID)
	if err != nil {
		return nil, err
	}
	if series, ok := s.cache.getEnv(key); ok {
		return series, nil
	}
	series, err := LoadEnvironment(groupID, path, s.encoding)
	if err != nil {
		return nil, err
	}
	s.cache.putEnv(key, series)
	return series, nil
}

func (s *Store) loadGrowthCached(groupID, path, sheet string) (*GrowthTable, error) {
	key, err := statKey(path, sheet)
	if err != nil {
		return nil, err
	}
	if table, ok := s.cache.getGrowth(key); ok {
		return table, nil
	}
	table, err := LoadGrowth(groupID, path, sheet)
	if err != nil {
		return nil, err
	}
	s.cache.putGrowth(key, table)
	return table, nil
}

func (s *Store) record(g Group, kind, path string, rows int, status, errMsg string) {
	if s.catalog == nil {
		return
	}
	rec := catalog.Record{
		DatasetID:  g.ID + "/" + kind,
		GroupID:    g.ID,
		Kind:       kind,
		Path:       path,
		RowCount:   rows,
		LastStatus: status,
	}
	if path != "" {
		if fi, err := os.Stat(path); err == nil {
			m := fi.ModTime().Unix()
			rec.FileMtime = &m
		}
	}
	if errMsg != "" {
		rec.LastError = &errMsg
	}
	if err := s.catalog.Upsert(rec); err != nil {
		s.logger.Error("catalog upsert failed", "dataset", rec.DatasetID, "error", err)
	}
}

// Groups returns the configured groups in declaration order.
func (s *Store) Groups() []Group {
	out := make([]Group, len(s.groups))
	copy(out, s.groups)
	return out
}

// Group looks up a configured group by ID.
func (s *Store) Group(id string) (Group, bool) {
	for _, g := range s.groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// Warnings returns the per-dataset problems from the last load.
func (s *Store) Warnings() []Warning {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// DatasetCount returns how many datasets the last load resolved.
func (s *Store) DatasetCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.env) + len(s.growth)
}

// Environment returns one group's loaded series.
func (s *Store) Environment(groupID string) (*EnvSeries, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	series, ok := s.env[groupID]
	return series, ok
}

// Growth returns one group's loaded table.
func (s *Store) Growth(groupID string) (*GrowthTable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	table, ok := s.growth[groupID]
	return table, ok
}

// EnvironmentSummaries returns per-group means for every loaded environment
// dataset, in group declaration order.
func (s *Store) EnvironmentSummaries() []EnvSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]EnvSummary, 0, len(s.env))
	for _, g := range s.groups {
		if series, ok := s.env[g.ID]; ok {
			out = append(out, series.Summary(g))
		}
	}
	return out
}

// GrowthSummaries returns per-group means for every loaded growth dataset,
// in group declaration order.
func (s *Store) GrowthSummaries() []GrowthSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]GrowthSummary, 0, len(s.growth))
	for _, g := range s.groups {
		if table, ok := s.growth[g.ID]; ok {
			out = append(out, table.Summary(g))
		}
	}
	return out
}

// Overview is the experiment-level view: group conditions, totals, and the
// EC target that produced the best outcome so far.
type Overview struct {
	Groups         []Group   `json:"groups"`
	TotalPlants    int       `json:"total_plants"`
	AvgTemperature float64   `json:"avg_temperature"`
	AvgHumidity    float64   `json:"avg_humidity"`
	OptimalEC      float64   `json:"optimal_ec,omitempty"`
	OptimalGroup   string    `json:"optimal_group,omitempty"`
	Warnings       []Warning `json:"warnings,omitempty"`
}

// Overview aggregates across all loaded datasets. The optimal EC is the EC
// target of the group with the highest mean fresh weight; it is omitted
// until at least one growth dataset is loaded.
func (s *Store) Overview() Overview {
	ov := Overview{
		Groups:   s.Groups(),
		Warnings: s.Warnings(),
	}
	for _, g := range s.groups {
		ov.TotalPlants += g.Plants
	}

	envSums := s.EnvironmentSummaries()
	if len(envSums) > 0 {
		for _, es := range envSums {
			ov.AvgTemperature += es.Temperature
			ov.AvgHumidity += es.Humidity
		}
		n := float64(len(envSums))
		ov.AvgTemperature /= n
		ov.AvgHumidity /= n
	}

	var best float64
	for _, gs := range s.GrowthSummaries() {
		if gs.FreshWeight > best {
			best = gs.FreshWeight
			ov.OptimalEC = gs.ECTarget
			ov.OptimalGroup = gs.GroupID
		}
	}
	return ov
}
