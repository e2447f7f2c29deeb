package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pivolan/ocorrencias_analyzer/catalog"
	"github.com/pivolan/ocorrencias_analyzer/config"
	"github.com/pivolan/ocorrencias_analyzer/dashboard"
	"github.com/pivolan/ocorrencias_analyzer/dataset"
	"github.com/pivolan/ocorrencias_analyzer/executor"
	"github.com/pivolan/ocorrencias_analyzer/logging"
	"github.com/pivolan/ocorrencias_analyzer/plot"
	"github.com/pivolan/ocorrencias_analyzer/present"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(config.GetConfig()).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("exit")
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "ocorrencias",
		Short:         "Consultas interativas sobre ocorrências aéreas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
		},
	}
	root.AddCommand(
		newServeCmd(cfg),
		newBotCmd(cfg),
		newQueryCmd(cfg),
		newSchemaCmd(cfg),
	)
	return root
}

// newDashboard wires the catalog, the cached executor and the chart
// recipes over the configured dataset.
func newDashboard(cfg *config.Config) (*dashboard.Dashboard, error) {
	dsn := cfg.DbDsn
	if cfg.DbDriver != config.DriverMySQL {
		var err error
		if dsn, err = dataset.Prepare(dsn); err != nil {
			return nil, fmt.Errorf("prepare dataset: %w", err)
		}
	}

	cat := catalog.Default()
	registry := plot.DefaultRegistry()
	if err := registry.Validate(cat.Labels()); err != nil {
		return nil, err
	}
	exec := executor.New(dataset.Opener(cfg.DbDriver, dsn))
	log.Info().Str("driver", cfg.DbDriver).Str("dataset", dsn).Int("queries", cat.Len()).Msg("dashboard ready")
	return dashboard.New(cat, exec, registry), nil
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard, and the telegram bot when TG_TOKEN is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dash, err := newDashboard(cfg)
			if err != nil {
				return err
			}
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return serveHTTP(ctx, addr, newRouter(dash))
			})
			if cfg.TgToken != "" {
				g.Go(func() error {
					return runBot(ctx, cfg.TgToken, dash, cfg.PreviewRows)
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", cfg.HttpAddr, "HTTP listen address")
	return cmd
}

func newBotCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run only the telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.TgToken == "" {
				return fmt.Errorf("TG_TOKEN is not set")
			}
			dash, err := newDashboard(cfg)
			if err != nil {
				return err
			}
			return runBot(cmd.Context(), cfg.TgToken, dash, cfg.PreviewRows)
		},
	}
}

func newQueryCmd(cfg *config.Config) *cobra.Command {
	var (
		rows    int
		csvPath string
		pngPath string
	)
	cmd := &cobra.Command{
		Use:   "query <n>",
		Short: "Run catalog query n and print its preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseQueryNumber(args[0])
			if err != nil {
				return err
			}
			dash, err := newDashboard(cfg)
			if err != nil {
				return err
			}
			def, err := dash.Catalog().ByNumber(n)
			if err != nil {
				return err
			}
			return runQuery(cmd, dash, def.Label, rows, csvPath, pngPath)
		},
	}
	cmd.Flags().IntVar(&rows, "linhas", cfg.PreviewRows, "number of rows to show")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the full result as CSV to this file")
	cmd.Flags().StringVar(&pngPath, "png", "", "write the chart as PNG to this file")
	return cmd
}

func runQuery(cmd *cobra.Command, dash *dashboard.Dashboard, label string, rows int, csvPath, pngPath string) error {
	sel, err := dash.Select(cmd.Context(), label, rows)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, sel.Label)
	fmt.Fprintln(out, present.TextTable(sel.Result, sel.Rows))
	if sel.Empty() {
		return nil
	}
	fmt.Fprintf(out, "%d de %d linhas\n", sel.Rows, sel.Result.Len())

	if csvPath != "" {
		b, err := present.ExportCSV(sel.Result)
		if err != nil {
			return err
		}
		if err := os.WriteFile(csvPath, b, 0644); err != nil {
			return err
		}
	}
	if sel.Warning != "" {
		fmt.Fprintln(out, sel.Warning)
		return nil
	}
	if pngPath != "" && sel.Chart != nil {
		b, err := plot.RenderPNG(sel.Chart)
		if err != nil {
			return err
		}
		if err := os.WriteFile(pngPath, b, 0644); err != nil {
			return err
		}
	}
	return nil
}

func newSchemaCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the empty dataset tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := dataset.Connect(cmd.Context(), cfg.DbDriver, cfg.DbDsn)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			if err := dataset.Migrate(db); err != nil {
				return err
			}
			log.Info().Strs("tables", dataset.Tables).Msg("schema ready")
			return nil
		},
	}
}
