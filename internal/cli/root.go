package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"recipe-plaza/internal/core/quota"
	"recipe-plaza/internal/core/spoonacular"
	"recipe-plaza/internal/infrastructure/config"
	"recipe-plaza/internal/pkg/common"

	"github.com/spf13/cobra"
)

// Version 由 -ldflags 在建置時設定
var Version = "dev"

// SearcherFactory 建立搜尋客戶端與釋放資源的函數
type SearcherFactory func(ctx context.Context, cfg *config.Config) (spoonacular.Searcher, func(), error)

type options struct {
	output     string
	verbose    bool
	out        io.Writer
	loadConfig func() (*config.Config, error)
	newSearch  SearcherFactory
}

// NewRootCommand 建立 recipectl 根命令
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{
		out:        os.Stdout,
		loadConfig: config.LoadConfig,
		newSearch:  defaultSearcher,
	})
}

func newRootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:          "recipectl",
		Short:        "Search recipes and compute calorie statistics",
		Long:         `recipectl queries the Spoonacular recipe search and filters the results by diet and calorie window.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "text" && opts.output != "json" {
				return fmt.Errorf("unsupported output format %q", opts.output)
			}
			if opts.verbose {
				return common.InitLogger(common.LogOptions{Level: "debug", Stderr: true})
			}
			return nil
		},
	}
	root.SetOut(opts.out)

	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(newSearchCommand(opts))
	root.AddCommand(newStatsCommand(opts))

	return root
}

// defaultSearcher 與 API 服務共用額度與斷路器設定
func defaultSearcher(ctx context.Context, cfg *config.Config) (spoonacular.Searcher, func(), error) {
	if cfg.Spoonacular.APIKey == "" {
		return nil, nil, fmt.Errorf("SPOONACULAR_API_KEY is not set")
	}

	limiter, err := quota.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize quota: %w", err)
	}

	client := spoonacular.NewClient(cfg.Spoonacular, limiter)
	return spoonacular.NewBreakerSearcher(client, cfg.Breaker), func() { _ = limiter.Close() }, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := common.ToJSONIndent(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, data)
	return err
}
