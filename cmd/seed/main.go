// Command seed fills the database with demo users and talks.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	cli "github.com/jawher/mow.cli"

	"github.com/johndosdos/talkroom/internal/config"
	"github.com/johndosdos/talkroom/internal/seed"
	"github.com/johndosdos/talkroom/internal/store"
)

const (
	appName        = "seed"
	appDescription = "Create demo users and talks around an anchor user"
)

func main() {
	app := cli.App(appName, appDescription)

	count := app.Int(cli.IntOpt{
		Name:   "count",
		Value:  5,
		Desc:   "Number of users to create",
		EnvVar: "SEED_COUNT",
	})
	anchor := app.String(cli.StringOpt{
		Name:   "anchor",
		Value:  seed.DefaultAnchor,
		Desc:   "Username every talk is sent from or to",
		EnvVar: "SEED_ANCHOR",
	})
	randSeed := app.Int(cli.IntOpt{
		Name:   "seed",
		Value:  0,
		Desc:   "Random seed, 0 picks one from the clock",
		EnvVar: "SEED_RANDOM",
	})

	app.Action = func() {
		cfg, err := config.Load(false)
		if err != nil {
			log.Fatal(err)
		}

		s := uint64(*randSeed)
		if s == 0 {
			s = uint64(time.Now().UnixNano())
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		dbConn, err := pgxpool.New(ctx, cfg.DBURL)
		if err != nil {
			log.Fatalf("could not connect to the postgresql database: %v", err)
		}
		defer dbConn.Close()

		seeder := seed.New(store.NewPostgres(dbConn), seed.Options{
			Anchor:   *anchor,
			Location: cfg.SeedLocation,
			Seed:     s,
		})

		fmt.Print("creating users ... ")
		res, err := seeder.Seed(ctx, *count)
		if err != nil {
			fmt.Println()
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("done")

		log.Printf("created %d users and %d talks around %q (seed %d)",
			res.UsersCreated, len(res.TalkIDs), *anchor, s)
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
