package cli

import (
	"fmt"
	"io"

	"recipe-plaza/internal/core/recipe"
	"recipe-plaza/internal/pkg/common"

	"github.com/spf13/cobra"
)

// statsOutput stats 命令的 JSON 輸出
type statsOutput struct {
	MinCalories int                 `json:"min_calories"`
	MaxCalories int                 `json:"max_calories"`
	Stats       recipe.CalorieStats `json:"stats"`
}

func newStatsCommand(opts *options) *cobra.Command {
	var minCalories, maxCalories int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print mean, median and mode of a calorie window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkWindow(minCalories, maxCalories); err != nil {
				return err
			}
			stats := recipe.CalorieStatistics(minCalories, maxCalories)

			if opts.output == "json" {
				return writeJSON(cmd.OutOrStdout(), statsOutput{
					MinCalories: minCalories,
					MaxCalories: maxCalories,
					Stats:       stats,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Calories %d-%d\n", minCalories, maxCalories)
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().IntVar(&minCalories, "min", recipe.DefaultMinCalories, "minimum calories")
	cmd.Flags().IntVar(&maxCalories, "max", recipe.DefaultMaxCalories, "maximum calories")

	return cmd
}

// checkWindow 熱量範圍需落在 0..MaxCalorieBound 且 min 不大於 max
func checkWindow(minCalories, maxCalories int) error {
	for _, v := range []int{minCalories, maxCalories} {
		if v < 0 || v > recipe.MaxCalorieBound {
			return common.NewValidationError(fmt.Sprintf("calories must be between 0 and %d", recipe.MaxCalorieBound))
		}
	}
	if minCalories > maxCalories {
		return common.ErrInvalidCalorieWindow
	}
	return nil
}

func printStats(out io.Writer, stats recipe.CalorieStats) {
	fmt.Fprintf(out, "Mean: %.2f  Median: %.2f  Mode: %d\n", stats.Mean, stats.Median, stats.Mode)
}
