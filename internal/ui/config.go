package ui

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgilabert/focal/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the configuration",
		Long: `Print the active configuration and where it comes from.

If no config file exists yet, one is created with default values.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			configPath := config.DefaultConfigPath()
			fmt.Printf("Config file: %s\n\n", configPath)

			cfg, err := config.LoadFrom(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
				fmt.Println("No config file found. Creating with default values...")
				if err := cfg.Save(); err != nil {
					return fmt.Errorf("saving config: %w", err)
				}
				fmt.Printf("Created %s\n\n", configPath)
			}

			printConfig(cfg)
			return nil
		},
	}
}

func printConfig(cfg *config.Config) {
	fmt.Println(colorHeader.Sprint("[schedule]"))
	fmt.Printf("  day_start    = %s\n", cfg.Schedule.DayStart)
	fmt.Printf("  day_end      = %s\n", cfg.Schedule.DayEnd)
	fmt.Printf("  horizon_days = %d\n", cfg.Schedule.HorizonDays)

	fmt.Println(colorHeader.Sprint("[timer]"))
	fmt.Printf("  focus_minutes = %d\n", cfg.Timer.FocusMinutes)
	fmt.Printf("  break_minutes = %d\n", cfg.Timer.BreakMinutes)

	fmt.Println(colorHeader.Sprint("[llm]"))
	fmt.Printf("  provider = %s\n", cfg.LLM.Provider)
	fmt.Printf("  model    = %s\n", cfg.LLM.Model)
	fmt.Printf("  base_url = %s\n", cfg.LLM.BaseURL)

	fmt.Println(colorHeader.Sprint("[storage]"))
	fmt.Printf("  db_path = %s\n", cfg.Storage.DBPath)

	fmt.Println(colorHeader.Sprint("[ui]"))
	fmt.Printf("  theme = %s\n", cfg.UI.Theme)
}
