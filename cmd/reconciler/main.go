package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fa-reconcile/internal/config"
	"github.com/fa-reconcile/internal/db"
	"github.com/fa-reconcile/internal/pipeline"
	"github.com/fa-reconcile/internal/rules"
	"github.com/fa-reconcile/internal/table"
	"github.com/fa-reconcile/internal/web"
)

var (
	settingsFile string
	verbose      bool
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:   "reconciler",
		Short: "Address reconciliation and record-splitting engine",
		Long: `Reconciles address data attached to entities: clusters near-duplicate
spellings, resolves conflicting proposed edits by majority, and splits
records whose evidence is irreconcilable.`,
	}
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "Path to YAML settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose (development) logging")

	rootCmd.AddCommand(createRunCmd())
	rootCmd.AddCommand(createValidateCmd())
	rootCmd.AddCommand(createServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	return logger
}

// loadTables loads the input tables from the requested source.
func loadTables(source, dataDir string) (pipeline.Tables, error) {
	switch source {
	case "csv":
		return pipeline.LoadCSV(dataDir)
	case "postgres":
		conn, err := db.NewConnection()
		if err != nil {
			return pipeline.Tables{}, err
		}
		defer conn.Close()

		var t pipeline.Tables
		if t.Addresses, err = conn.LoadAddresses(); err != nil {
			return t, err
		}
		if t.Entities, err = conn.LoadEntities(); err != nil {
			return t, err
		}
		if t.Relationships, err = conn.LoadRelationships(); err != nil {
			return t, err
		}
		return t, nil
	default:
		return pipeline.Tables{}, fmt.Errorf("unknown source %q (want csv or postgres)", source)
	}
}

// createRunCmd creates the run subcommand: one full reconciliation batch.
func createRunCmd() *cobra.Command {
	var (
		source          string
		dataDir         string
		outDir          string
		streetThreshold float64
		cityThreshold   float64
		workers         int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one reconciliation batch and write cleaned tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(settingsFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data-dir") {
				settings.DataDir = dataDir
			}
			if cmd.Flags().Changed("out-dir") {
				settings.OutDir = outDir
			}
			if cmd.Flags().Changed("street-threshold") {
				settings.StreetThreshold = streetThreshold
			}
			if cmd.Flags().Changed("city-threshold") {
				settings.CityThreshold = cityThreshold
			}
			if cmd.Flags().Changed("workers") {
				settings.Workers = workers
			}

			logger := newLogger()
			defer logger.Sync()

			t, err := loadTables(source, settings.DataDir)
			if err != nil {
				return err
			}
			fmt.Printf("Loaded fa=%d fe=%d r_fe_fa=%d\n",
				t.Addresses.Len(), t.Entities.Len(), t.Relationships.Len())

			cfg := rules.Config{
				StreetThreshold: settings.StreetThreshold,
				CityThreshold:   settings.CityThreshold,
				Workers:         settings.Workers,
			}
			run, err := pipeline.Run(t, cfg, logger)
			if err != nil {
				return err
			}

			fmt.Printf("Collected %d proposals\n", run.ProposalsCollected)
			if len(run.Splits) > 0 {
				fmt.Printf("Total splits created: %d (showing first 5):\n", len(run.Splits))
				for i, ev := range run.Splits {
					if i >= 5 {
						break
					}
					fmt.Printf("  AID %d -> new AID %d (column %s, value='%s')\n",
						ev.OldAID, ev.NewAID, ev.Column, ev.NewValue)
				}
			} else {
				fmt.Println("No AID splits were necessary during conflict resolution.")
			}

			if err := pipeline.WriteOutputs(settings.OutDir, t, run); err != nil {
				return err
			}
			fmt.Printf("Cleaned data written to %s\n", settings.OutDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "csv", "Table source: csv or postgres")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "Input directory (csv source)")
	cmd.Flags().StringVar(&outDir, "out-dir", "data_cleaned", "Output directory")
	cmd.Flags().Float64Var(&streetThreshold, "street-threshold", 0.10, "Street-name clustering threshold")
	cmd.Flags().Float64Var(&cityThreshold, "city-threshold", 0.10, "City-name clustering threshold")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent clustering workers (0 = NumCPU)")
	return cmd
}

// createValidateCmd checks that the input tables carry every column the
// rules need, without running anything.
func createValidateCmd() *cobra.Command {
	var (
		source  string
		dataDir string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate input tables against every rule's column needs",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTables(source, dataDir)
			if err != nil {
				return err
			}
			view := table.BuildMergedView(t.Relationships, t.Entities, t.Addresses)
			if err := rules.ValidateColumns(view, rules.All()); err != nil {
				return err
			}
			fmt.Println("Input tables carry every required column.")
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "csv", "Table source: csv or postgres")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "Input directory (csv source)")
	return cmd
}

// createServeCmd serves a finished run's outputs over HTTP.
func createServeCmd() *cobra.Command {
	var (
		outDir string
		addr   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a finished run's results as a read-only JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer logger.Sync()

			srv, err := web.NewServer(outDir, addr, logger)
			if err != nil {
				return err
			}
			return srv.Start()
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "data_cleaned", "Run output directory to serve")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
