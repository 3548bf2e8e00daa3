package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"shortcast/internal/ledger"
)

func newSeedCommand(ctx *commandContext) *cobra.Command {
	var days int
	var startDate string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the ledger with one post per day",
		Long: "Writes one pending post per day into the ledger, pointing at " +
			"sequentially numbered files in the videos directory. Dates that " +
			"already hold posts are left untouched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			start := time.Now()
			if startDate != "" {
				start, err = time.ParseInLocation(ledger.DateLayout, startDate, time.Local)
				if err != nil {
					return fmt.Errorf("parse --start date: %w", err)
				}
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}

			store := ledger.NewStore(cfg.LedgerPath())
			schedule, _, err := store.Load()
			if err != nil {
				return fmt.Errorf("load ledger: %w", err)
			}

			added := 0
			for i := 0; i < days; i++ {
				date := start.AddDate(0, 0, i).Format(ledger.DateLayout)
				if len(schedule[date]) > 0 {
					continue
				}
				schedule[date] = []ledger.Post{{
					VideoPath: filepath.Join(cfg.Paths.VideosDir, fmt.Sprintf("video_%d.mp4", i+1)),
					Caption:   fmt.Sprintf("Daily TikTok Post #%d \U0001F680 #fyp #tiktok", i+1),
					Time:      "09:00",
					Status:    ledger.StatusPending,
				}}
				added++
			}
			if added > 0 {
				if err := store.Save(schedule); err != nil {
					return fmt.Errorf("save ledger: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Seeded %d day(s) into %s\n", added, store.Path())
			if added > 0 {
				fmt.Fprintf(out, "Place the matching video files under %s (video_1.mp4, ...).\n", cfg.Paths.VideosDir)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Number of days to seed")
	cmd.Flags().StringVar(&startDate, "start", "", "First date to seed (YYYY-MM-DD, default today)")
	return cmd
}
