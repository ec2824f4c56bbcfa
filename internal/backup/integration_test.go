package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestIntegrationBackupRestoreWorkflow(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	mgr.now = steppingClock()

	first, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	// Wipe the database, then bring it back
	if err := os.WriteFile(dbPath, nil, 0600); err != nil {
		t.Fatalf("failed to truncate database: %v", err)
	}
	if _, err := mgr.RestoreBackup(first); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := countRows(t, dbPath); got != 2 {
		t.Errorf("expected 2 rows after restore, got %d", got)
	}

	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestBackupDirectoryCreation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if _, err := os.Stat(mgr.GetBackupDir()); !os.IsNotExist(err) {
		t.Fatal("backup directory should not exist before the first backup")
	}
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	info, err := os.Stat(mgr.GetBackupDir())
	if err != nil {
		t.Fatalf("backup directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("backup path is not a directory")
	}
	if want := filepath.Join(filepath.Dir(dbPath), "backups"); mgr.GetBackupDir() != want {
		t.Errorf("backup dir = %s, want %s", mgr.GetBackupDir(), want)
	}
}

func TestJSONFallbackBackupAndRestore(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "dfw.json")
	original := []byte(`{"version":1,"decisions":{},"checkins":{},"settings":{"minSamples":"3"}}`)
	if err := os.WriteFile(jsonPath, original, 0600); err != nil {
		t.Fatalf("failed to write json store: %v", err)
	}

	mgr := NewManager(jsonPath)
	mgr.now = steppingClock()

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Ext(backupPath) != ".json" {
		t.Errorf("expected .json suffix, got %s", backupPath)
	}

	if err := os.WriteFile(jsonPath, []byte(`{"version":1,"decisions":{},"checkins":{},"settings":{}}`), 0600); err != nil {
		t.Fatalf("failed to modify json store: %v", err)
	}

	if _, err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("failed to read restored file: %v", err)
	}
	var restored struct {
		Settings map[string]string `json:"settings"`
	}
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("restored file is not valid JSON: %v", err)
	}
	if restored.Settings["minSamples"] != "3" {
		t.Errorf("expected restored settings, got %v", restored.Settings)
	}

	// JSON and database backups do not mix in listings
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	for _, b := range backups {
		if filepath.Ext(b.Path) != ".json" {
			t.Errorf("unexpected backup in json listing: %s", b.Path)
		}
	}
}

func TestJSONBackupRejectsCorruptSource(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "dfw.json")
	if err := os.WriteFile(jsonPath, []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to write json store: %v", err)
	}

	mgr := NewManager(jsonPath)
	if _, err := mgr.CreateBackup(); err == nil {
		t.Fatal("expected error backing up corrupt json store")
	}
}

func TestRestoreWithCorruptedBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatalf("failed to create backup dir: %v", err)
	}
	corrupt := filepath.Join(mgr.GetBackupDir(), "dfw-20240101-000000.db")
	if err := os.WriteFile(corrupt, []byte("corrupted data"), 0600); err != nil {
		t.Fatalf("failed to write corrupt backup: %v", err)
	}

	if _, err := mgr.RestoreBackup(corrupt); err == nil {
		t.Error("expected error restoring corrupted backup")
	}
	if got := countRows(t, dbPath); got != 2 {
		t.Errorf("database modified by failed restore: %d rows", got)
	}
}
