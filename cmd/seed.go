package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var seedUsers = []services.RegisterRequest{
	{Name: "Alice", Email: "alice@example.com", Password: "password1"},
	{Name: "Bob", Email: "bob@example.com", Password: "password2"},
	{Name: "Charlie", Email: "charlie@example.com", Password: "password3"},
	{Name: "Diana", Email: "diana@example.com", Password: "password4"},
}

// seedAreas maps each root area to the climbs placed in it
var seedAreas = []struct {
	name   string
	climbs []string
}{
	{name: "Yosemite National Park", climbs: []string{"El Capitan", "Half Dome"}},
	{name: "Washington", climbs: []string{"Mount Rainier"}},
	{name: "Wyoming", climbs: []string{"Devils Tower"}},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample users, areas and climbs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		store, err := openStore(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer store.Close()

		svc := newServices(cfg, store)
		if err := seed(ctx, svc.Users, svc.Catalog); err != nil {
			return err
		}

		fmt.Println("Seeded sample data")
		return nil
	},
}

// seed is safe to run repeatedly: existing users are skipped and areas
// are only created into an empty tree.
func seed(ctx context.Context, users *services.UserService, catalog *services.CatalogService) error {
	for _, req := range seedUsers {
		user, err := users.Register(ctx, req)
		if errors.Is(err, apperrors.ErrConflict) {
			log.Info().Str("email", req.Email).Msg("Seed user already exists")
			continue
		}
		if err != nil {
			return fmt.Errorf("seeding user %s: %w", req.Email, err)
		}
		log.Info().Int64("user_id", user.ID).Str("email", req.Email).Msg("Seeded user")
	}

	roots, err := catalog.ListRootAreas(ctx)
	if err != nil {
		return err
	}
	if len(roots) > 0 {
		log.Info().Int("areas", len(roots)).Msg("Areas already present, skipping catalog")
		return nil
	}

	for _, a := range seedAreas {
		area, err := catalog.CreateRootArea(ctx, services.NewArea{Name: a.name})
		if err != nil {
			return fmt.Errorf("seeding area %s: %w", a.name, err)
		}

		location := a.name
		for _, name := range a.climbs {
			climb, err := catalog.AddClimb(ctx, area.ID, services.NewClimb{Name: name, Location: &location})
			if err != nil {
				return fmt.Errorf("seeding climb %s: %w", name, err)
			}
			log.Info().Str("climb_id", climb.ID).Str("area", a.name).Msg("Seeded climb")
		}
	}

	return nil
}
