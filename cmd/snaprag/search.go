package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snaprag/snaprag/pkg/retrieval"
)

var searchMode string
var searchFields string
var searchK int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search casts (and, with --fields profiles, profiles) by semantic/keyword/hybrid mode",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchMode, "mode", string(retrieval.ModeHybrid), "semantic | keyword | hybrid")
	searchCmd.Flags().StringVar(&searchFields, "fields", "casts", "casts | profiles")
	searchCmd.Flags().IntVar(&searchK, "k", 20, "max results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	emb, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	eng := retrieval.New(store, emb, 0)
	mode := retrieval.Mode(searchMode)

	switch searchFields {
	case "profiles":
		hits, err := eng.SearchProfiles(ctx, mode, query, searchK)
		if err != nil {
			return fmt.Errorf("search profiles: %w", err)
		}
		for _, h := range hits {
			fmt.Printf("%-10d %-20s %.4f  %s\n", h.Profile.FID, h.Profile.DisplayName, h.Similarity, h.Profile.Bio)
		}
	case "casts":
		hits, err := eng.SearchCasts(ctx, mode, query, searchK, nil)
		if err != nil {
			return fmt.Errorf("search casts: %w", err)
		}
		for _, h := range hits {
			fmt.Printf("%-10d %.4f  %s\n", h.Cast.FID, h.Similarity, h.Cast.Text)
		}
	default:
		return fmt.Errorf("unknown --fields %q: supported values are casts, profiles", searchFields)
	}
	return nil
}
