package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"artlog/internal/artist"
	"artlog/internal/catalog"
	"artlog/internal/config"
	"artlog/internal/docstore"
	"artlog/internal/enrich"
	"artlog/internal/logging"
	"artlog/internal/platform/apiclient"
	"artlog/internal/platform/wikidata"
	"artlog/internal/profile"
	"artlog/internal/review"
	"artlog/internal/social"
)

var (
	users      int
	perUser    int
	withImages bool
)

var rootCmd = &cobra.Command{
	Use:          "seed",
	Short:        "Fill the document store with demo journals",
	Long:         "Creates demo users that follow each other and review random catalog artworks.",
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().IntVar(&users, "users", 10, "number of demo users")
	rootCmd.Flags().IntVar(&perUser, "reviews", 20, "reviews per user")
	rootCmd.Flags().BoolVar(&withImages, "images", false, "look up artist portraits on Wikidata")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
}

// noImages keeps seeding offline.
type noImages struct{}

func (noImages) ArtistImageURL(context.Context, string) (string, bool) { return "", false }

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: "console"})

	layout, err := catalog.ParseLayout(cfg.Catalog.Layout)
	if err != nil {
		return err
	}
	records, err := catalog.LoadFile(cfg.Catalog.Path, layout)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("catalog %s has no records", cfg.Catalog.Path)
	}

	docs, err := docstore.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer docs.Close()

	var images artist.ImageSource = noImages{}
	if withImages {
		images = wikidata.NewClient(apiclient.New(apiclient.Config{
			Source:     "wikidata",
			BaseURL:    cfg.Wikidata.BaseURL,
			UserAgent:  cfg.Wikidata.UserAgent,
			RPS:        cfg.Wikidata.RPS,
			MaxRetries: cfg.Wikidata.MaxRetries,
			Timeout:    cfg.Wikidata.Timeout,
		}))
	}

	reviews := review.NewRepository(docs)
	artists := artist.NewStore(docs, images)
	profiles := profile.NewService(docs, reviews, artists)
	follows := social.NewService(docs, reviews, profiles)
	orchestrator := enrich.NewOrchestrator(nil, nil, catalog.NewIndex(records), reviews, artists, cfg.Enrich)

	ids := make([]string, users)
	for i := range ids {
		ids[i] = fmt.Sprintf("seed-user-%03d", i+1)
		name := fmt.Sprintf("%s_%d", randomWord(), i+1)
		if _, err := profiles.UpdateProfile(ctx, ids[i], profile.UpdateCommand{Username: &name}); err != nil {
			return fmt.Errorf("create user %s: %w", ids[i], err)
		}
	}

	// Everyone follows the next two users.
	for i, id := range ids {
		for step := 1; step <= 2 && step < len(ids); step++ {
			if err := follows.Follow(ctx, id, ids[(i+step)%len(ids)]); err != nil {
				return fmt.Errorf("follow: %w", err)
			}
		}
	}

	start := time.Now()
	total := 0
	for _, id := range ids {
		for range perUser {
			rec := records[rand.IntN(len(records))]
			viewed := time.Now().AddDate(0, 0, -rand.IntN(365))
			_, err := orchestrator.SubmitReview(ctx, id, enrich.DraftFromCatalog(rec), review.Review{
				DateViewed: viewed.Format("2006-01-02"),
				Location:   "The Metropolitan Museum of Art",
				ReviewText: fmt.Sprintf("%s and %s.", randomWord(), randomWord()),
			})
			if err != nil {
				return err
			}
			total++
		}
		logging.Info().Str("user_id", id).Int("reviews", total).Msg("seeded user")
	}

	logging.Info().
		Int("users", len(ids)).
		Int("reviews", total).
		Dur("took", time.Since(start)).
		Msg("seed complete")
	return nil
}

func randomWord() string {
	words := []string{
		"Light", "Color", "Stillness", "Motion", "Texture", "Shadow", "Gesture",
		"Memory", "Silence", "Surface", "Line", "Space", "Rhythm", "Form",
		"Contrast", "Harmony", "Depth", "Grace", "Tension", "Balance",
	}
	return words[rand.IntN(len(words))]
}
