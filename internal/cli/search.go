package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"recipe-plaza/internal/core/recipe"
	"recipe-plaza/internal/core/service"

	"github.com/spf13/cobra"
)

func newSearchCommand(opts *options) *cobra.Command {
	var params service.SearchParams

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search recipes and filter them locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkWindow(params.MinCalories, params.MaxCalories); err != nil {
				return err
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			searcher, release, err := opts.newSearch(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if release != nil {
				defer release()
			}

			resp, err := service.NewSearchService(searcher, nil).Search(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if opts.output == "json" {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return printSearch(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&params.Query, "query", "q", "", "search text")
	cmd.Flags().StringVarP(&params.DietTag, "diet", "d", "", "diet tag, matched exactly")
	cmd.Flags().IntVar(&params.MinCalories, "min", recipe.DefaultMinCalories, "minimum calories")
	cmd.Flags().IntVar(&params.MaxCalories, "max", recipe.DefaultMaxCalories, "maximum calories")

	return cmd
}

func printSearch(out io.Writer, resp *service.SearchResponse) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTITLE\tCALORIES\tLIKES\tDIET\n")
	for _, r := range resp.Results {
		title := r.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%v\n", r.ID, title, optional(r.Calories), optional(r.Likes), r.Diet)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nShowing %d of %d results (%d with images)\n", len(resp.Results), resp.TotalResults, len(resp.Tiles))
	fmt.Fprintf(out, "Average likes: %.2f\n", resp.AverageLikes)
	printStats(out, resp.CalorieStats)
	return nil
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *v)
}
