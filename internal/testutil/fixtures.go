package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/mmc102/partner-finder/internal/models"
	"github.com/mmc102/partner-finder/internal/repository"
)

// CreateUser inserts a user named name with email "<lowercase name>@example.com".
func CreateUser(t *testing.T, store repository.Store, name string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         name,
		Email:        strings.ToLower(name) + "@example.com",
		PasswordHash: "not-a-hash",
	}
	if err := store.Repos().Users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

// CreateArea inserts an area. An empty parentID creates a root area.
func CreateArea(t *testing.T, store repository.Store, id, name, parentID string) *models.Area {
	t.Helper()

	area := &models.Area{ID: id, Name: name}
	if parentID != "" {
		area.ParentID = &parentID
	}
	if err := store.Repos().Areas.Create(context.Background(), area); err != nil {
		t.Fatalf("failed to create area %s: %v", id, err)
	}
	return area
}

// CreateClimb inserts a climb in areaID.
func CreateClimb(t *testing.T, store repository.Store, id, name, areaID string) *models.Climb {
	t.Helper()

	climb := &models.Climb{ID: id, Name: name, AreaID: areaID}
	if err := store.Repos().Climbs.Create(context.Background(), climb); err != nil {
		t.Fatalf("failed to create climb %s: %v", id, err)
	}
	return climb
}
