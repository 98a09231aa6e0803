package migrations

import (
	"io"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func TestLatestVersion(t *testing.T) {
	version, err := LatestVersion()
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if version != 1 {
		t.Errorf("LatestVersion() = %d, want 1", version)
	}
}

func TestMigrationFiles_UpAndDownPaired(t *testing.T) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		t.Fatalf("iofs.New() error = %v", err)
	}
	defer src.Close()

	version, err := src.First()
	if err != nil {
		t.Fatalf("First() error = %v", err)
	}

	for {
		up, _, err := src.ReadUp(version)
		if err != nil {
			t.Fatalf("ReadUp(%d) error = %v", version, err)
		}
		up.Close()

		down, _, err := src.ReadDown(version)
		if err != nil {
			t.Fatalf("ReadDown(%d) error = %v", version, err)
		}
		down.Close()

		next, err := src.Next(version)
		if err != nil {
			break
		}
		version = next
	}
}

func TestInitMigration_CreatesTables(t *testing.T) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		t.Fatalf("iofs.New() error = %v", err)
	}
	defer src.Close()

	r, _, err := src.ReadUp(1)
	if err != nil {
		t.Fatalf("ReadUp(1) error = %v", err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	tables := []string{"users", "user_associations", "areas", "climbs", "user_interests", "feed_items", "notifications"}
	for _, table := range tables {
		if !strings.Contains(string(body), "CREATE TABLE "+table+" (") {
			t.Errorf("init migration does not create table %s", table)
		}
	}

	constraints := []string{"UNIQUE (user_id, friend_id)", "UNIQUE (user_id, climb_id)", "CHECK (user_id <> friend_id)"}
	for _, c := range constraints {
		if !strings.Contains(string(body), c) {
			t.Errorf("init migration is missing constraint %q", c)
		}
	}
}
