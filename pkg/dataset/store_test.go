package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/unicode/norm"

	"github.com/polarplant/ecboard/pkg/catalog"
)

func testGroups() []Group {
	return []Group{
		{ID: "songdo", Name: "송도고", ECTarget: 1.0, Plants: 29, Color: "lightblue"},
		{ID: "haneul", Name: "하늘고", ECTarget: 2.0, Plants: 45, Color: "lightgreen"},
	}
}

// writeFixture lays out a data directory with environment CSVs for the given
// group names and a growth workbook with one sheet per group.
func writeFixture(t *testing.T, envNames []string, growthSheets map[string][][]any) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range envNames {
		csv := "temperature,humidity,ph,ec\n20.0,60.0,6.5,1.1\n22.0,62.0,6.3,0.9\n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(csv), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if growthSheets != nil {
		writeGrowthWorkbook(t, dir, growthSheets)
	}
	return dir
}

func newTestStore(t *testing.T, dir string, cat *catalog.DB) *Store {
	t.Helper()
	return NewStore(Config{
		DataDir: dir,
		Groups:  testGroups(),
		Catalog: cat,
	})
}

func TestStoreLoad_AllDatasets(t *testing.T) {
	dir := writeFixture(t,
		[]string{"송도고_환경데이터.csv", "하늘고_환경데이터.csv"},
		map[string][][]any{
			"송도고": {{12.5, 8.0, 110.0}},
			"하늘고": {{15.0, 9.0, 125.0}},
		})

	s := newTestStore(t, dir, nil)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.DatasetCount(); got != 4 {
		t.Errorf("DatasetCount = %d, want 4", got)
	}
	if warns := s.Warnings(); len(warns) != 0 {
		t.Errorf("warnings = %v, want none", warns)
	}
	if len(s.EnvironmentSummaries()) != 2 || len(s.GrowthSummaries()) != 2 {
		t.Error("expected summaries for both groups")
	}
}

func TestStoreLoad_DecomposedFilenames(t *testing.T) {
	// Files written with NFD names, patterns come from NFC group names.
	dir := writeFixture(t,
		[]string{norm.NFD.String("송도고_환경데이터.csv")},
		nil)

	s := newTestStore(t, dir, nil)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := s.Environment("songdo"); !ok {
		t.Error("NFD-named file should resolve for NFC pattern")
	}
}

func TestStoreLoad_MissingDatasetIsWarning(t *testing.T) {
	// Only songdo's environment file exists; everything else is absent.
	dir := writeFixture(t, []string{"송도고_환경데이터.csv"}, nil)

	s := newTestStore(t, dir, nil)
	if err := s.Load(); err != nil {
		t.Fatalf("Load should tolerate partial data: %v", err)
	}
	if _, ok := s.Environment("songdo"); !ok {
		t.Error("songdo environment should be loaded")
	}
	if _, ok := s.Environment("haneul"); ok {
		t.Error("haneul environment should be absent")
	}
	// haneul env + both growth datasets missing.
	if warns := s.Warnings(); len(warns) != 3 {
		t.Errorf("warnings = %d (%v), want 3", len(warns), warns)
	}
}

func TestStoreLoad_ParseFailureIsolated(t *testing.T) {
	dir := writeFixture(t,
		[]string{"하늘고_환경데이터.csv"},
		map[string][][]any{"하늘고": {{15.0, 9.0, 125.0}}})
	// Corrupt songdo's CSV: header only.
	os.WriteFile(filepath.Join(dir, "송도고_환경데이터.csv"), []byte("temperature,humidity,ph,ec\n"), 0o644)

	s := newTestStore(t, dir, nil)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := s.Environment("songdo"); ok {
		t.Error("corrupt dataset should be excluded")
	}
	if _, ok := s.Environment("haneul"); !ok {
		t.Error("sibling dataset should still load")
	}

	var found bool
	for _, w := range s.Warnings() {
		if w.GroupID == "songdo" && w.Kind == KindEnvironment {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a songdo/environment warning, got %v", s.Warnings())
	}
}

func TestStoreLoad_TotalAbsence(t *testing.T) {
	s := newTestStore(t, t.TempDir(), nil)
	if err := s.Load(); !errors.Is(err, ErrNoData) {
		t.Errorf("Load = %v, want ErrNoData", err)
	}
	if s.DatasetCount() != 0 {
		t.Errorf("DatasetCount = %d, want 0", s.DatasetCount())
	}
}

func TestStoreLoad_MissingDataDir(t *testing.T) {
	s := newTestStore(t, filepath.Join(t.TempDir(), "nope"), nil)
	if err := s.Load(); !errors.Is(err, ErrNoData) {
		t.Errorf("Load = %v, want ErrNoData (absence is not an I/O error)", err)
	}
}

func TestStoreReload_PicksUpNewFiles(t *testing.T) {
	dir := writeFixture(t, []string{"송도고_환경데이터.csv"}, nil)

	s := newTestStore(t, dir, nil)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := s.Environment("haneul"); ok {
		t.Fatal("haneul should be absent before reload")
	}

	csv := "temperature,humidity,ph,ec\n21.0,55.0,6.0,2.1\n"
	os.WriteFile(filepath.Join(dir, "하늘고_환경데이터.csv"), []byte(csv), 0o644)

	if err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, ok := s.Environment("haneul"); !ok {
		t.Error("haneul should be loaded after reload")
	}
}

func TestStore_Overview(t *testing.T) {
	dir := writeFixture(t,
		[]string{"송도고_환경데이터.csv", "하늘고_환경데이터.csv"},
		map[string][][]any{
			"송도고": {{10.0, 8.0, 110.0}},
			"하늘고": {{18.0, 9.0, 125.0}}, // best fresh weight
		})

	s := newTestStore(t, dir, nil)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ov := s.Overview()
	if ov.TotalPlants != 29+45 {
		t.Errorf("TotalPlants = %d, want 74", ov.TotalPlants)
	}
	if ov.AvgTemperature != 21.0 {
		t.Errorf("AvgTemperature = %v, want 21.0", ov.AvgTemperature)
	}
	if ov.OptimalGroup != "haneul" || ov.OptimalEC != 2.0 {
		t.Errorf("optimal = %s/%v, want haneul/2.0", ov.OptimalGroup, ov.OptimalEC)
	}
}

func TestStore_OverviewWithoutGrowthOmitsOptimal(t *testing.T) {
	dir := writeFixture(t, []string{"송도고_환경데이터.csv"}, nil)

	s := newTestStore(t, dir, nil)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ov := s.Overview()
	if ov.OptimalGroup != "" || ov.OptimalEC != 0 {
		t.Errorf("optimal should be omitted without growth data, got %s/%v", ov.OptimalGroup, ov.OptimalEC)
	}
}

func TestStore_CatalogRecords(t *testing.T) {
	dir := writeFixture(t, []string{"송도고_환경데이터.csv"}, nil)

	cat, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	defer cat.Close()

	s := newTestStore(t, dir, cat)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	records, err := cat.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	// 2 groups x 2 kinds.
	if len(records) != 4 {
		t.Fatalf("records = %d, want 4", len(records))
	}

	byID := make(map[string]catalog.Record, len(records))
	for _, rec := range records {
		byID[rec.DatasetID] = rec
	}
	if rec := byID["songdo/environment"]; rec.LastStatus != catalog.StatusOK || rec.RowCount != 2 {
		t.Errorf("songdo/environment = %+v", rec)
	}
	if rec := byID["haneul/environment"]; rec.LastStatus != catalog.StatusMissing {
		t.Errorf("haneul/environment = %+v", rec)
	}
	if rec := byID["songdo/growth"]; rec.LastStatus != catalog.StatusMissing {
		t.Errorf("songdo/growth = %+v", rec)
	}
}
