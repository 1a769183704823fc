// Command seed fills the configured document store with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"clique/internal/bootstrap"
	"clique/internal/config"
	"clique/internal/observability"
	"clique/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of profiles to generate")
	density := flag.Float64("density", defaults.LikeDensity, "Chance that a user likes a compatible candidate")
	maxSlots := flag.Int("slots", defaults.MaxSlots, "Availability slots per profile")
	shouldClean := flag.Bool("clean", false, "Replace the document instead of appending")
	fixtures := flag.String("fixtures", "", "Load a YAML fixture file instead of generating data")
	seedValue := flag.Int64("seed", 0, "Random seed (0 uses the clock)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	observability.InitLogger(cfg.Env, os.Stdout)

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipFixtures: true})
	if err != nil {
		log.Fatalf("Failed to initialise runtime: %v", err)
	}
	defer func() {
		if err := rt.Close(ctx); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	if *fixtures != "" {
		doc, err := seed.LoadFixturesFile(*fixtures)
		if err != nil {
			log.Fatalf("Failed to load fixtures: %v", err)
		}
		if *shouldClean {
			if err := rt.Store.Save(ctx, doc); err != nil {
				log.Fatalf("Failed to save fixtures: %v", err)
			}
		} else if applied, err := seed.ApplyFixtures(ctx, rt.Store, doc); err != nil {
			log.Fatalf("Failed to apply fixtures: %v", err)
		} else if !applied {
			log.Println("Store already has users; fixtures skipped (use -clean to replace)")
			return
		}
		log.Printf("Loaded %d users from %s", len(doc.Users), *fixtures)
		return
	}

	s := seed.NewSeeder(rt.Store, seed.NewFactory(*seedValue))
	doc, err := s.Run(ctx, seed.Options{
		NumUsers:    *numUsers,
		LikeDensity: *density,
		MaxSlots:    *maxSlots,
		Clean:       *shouldClean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Done: %d users, %d matches in %s", len(doc.Users), len(doc.Matches), rt.Store.Backend())
}
