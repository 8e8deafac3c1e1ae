package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/pxbind/internal/build"
)

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := &BuildMetadata{
		ID:          "b1",
		Target:      "x86_64-unknown-linux-gnu",
		Mode:        "profile",
		Family:      "clang",
		Fingerprint: "00ff",
		Status:      StatusOK,
		Sources:     2,
	}
	timings := []build.Timing{
		{Unit: "physx", Path: "a.cpp", Duration: 1500 * time.Millisecond},
		{Unit: "physx_api", Path: "physx_api.cpp", Duration: 250 * time.Millisecond},
	}

	id, err := st.Save(meta, timings)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id != "b1" {
		t.Errorf("expected id 'b1', got '%s'", id)
	}

	loaded, err := st.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Family != "clang" || loaded.Sources != 2 {
		t.Errorf("unexpected metadata: %+v", loaded)
	}
	if loaded.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	got, err := st.LoadTimings(id)
	if err != nil {
		t.Fatalf("load timings failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 timings, got %d", len(got))
	}
	if got[0].Path != "a.cpp" || got[0].Duration != 1500*time.Millisecond {
		t.Errorf("unexpected timing: %+v", got[0])
	}
}

func TestStoreLastSuccess(t *testing.T) {
	st := New(t.TempDir())
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	builds := []BuildMetadata{
		{ID: "old", Target: "linux", Status: StatusOK, Timestamp: base},
		{ID: "new", Target: "linux", Status: StatusOK, Timestamp: base.Add(time.Hour)},
		{ID: "broken", Target: "linux", Status: StatusFailed, Timestamp: base.Add(2 * time.Hour)},
		{ID: "win", Target: "windows", Status: StatusOK, Timestamp: base.Add(3 * time.Hour)},
	}
	for i := range builds {
		if _, err := st.Save(&builds[i], nil); err != nil {
			t.Fatalf("save %s: %v", builds[i].ID, err)
		}
	}

	all, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 4 || all[0].ID != "old" || all[3].ID != "win" {
		t.Errorf("unexpected order: %+v", all)
	}

	last, err := st.LastSuccess("linux")
	if err != nil {
		t.Fatalf("last success: %v", err)
	}
	if last.ID != "new" {
		t.Errorf("expected 'new', got '%s'", last.ID)
	}

	if _, err := st.LastSuccess("android"); !errors.Is(err, ErrNoBuild) {
		t.Errorf("expected ErrNoBuild, got %v", err)
	}
}

func TestListMissingDir(t *testing.T) {
	st := New(t.TempDir() + "/missing")
	builds, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(builds) != 0 {
		t.Errorf("expected no builds, got %d", len(builds))
	}
}

func TestWriteJSON(t *testing.T) {
	meta := &BuildMetadata{ID: "b2", Target: "x86_64-pc-windows-msvc"}
	timings := []build.Timing{
		{Unit: "physx", Path: "a.cpp", Duration: time.Second},
		{Unit: "physx", Path: "b.cpp", Duration: 2 * time.Second},
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, meta, timings); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if data.Build.ID != "b2" || len(data.Units) != 2 || data.Total != 3 {
		t.Errorf("unexpected export: %+v", data)
	}
}
