package main

import (
	"fmt"
	"log/slog"
	"os"

	"luckydraw-bot/drawbot/draw"

	"github.com/spf13/cobra"
)

const programName = "drawctl"

var dataDir string

func main() {
	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "Maintenance tool for the lucky draw data files",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "directory holding the draw state files")
	rootCmd.AddCommand(statusCommand(), migrateCommand())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the state of the draw data and backup files",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := draw.NewFileStore(dataDir)
			status := store.Status()

			printSlot := func(name string, fi draw.FileInfo) {
				if !fi.Exists {
					fmt.Printf("%-8s not present\n", name)
					return
				}
				fmt.Printf("%-8s %d bytes, written %s\n", name, fi.Size, fi.ModTime.Format("2006-01-02 15:04:05"))
			}
			fmt.Printf("data dir %s\n", status.Dir)
			printSlot("state", status.State)
			printSlot("backup", status.Backup)

			st := store.Load()
			var active, ended int
			for _, c := range st.Draws {
				if c.Active {
					active++
				} else {
					ended++
				}
			}
			fmt.Printf("draws    %d active, %d ended, last id %d\n", active, ended, st.LastID)
			return nil
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite the draw data file in the current format",
		Long: "Loads the draw data file, upgrading any legacy single-winner records, " +
			"and writes it back in the current format. The previous file is kept in the backup slot.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := draw.NewFileStore(dataDir)
			st := store.Load()
			if len(st.Draws) == 0 && st.LastID == 0 {
				return fmt.Errorf("no draw data found in %s", dataDir)
			}
			if err := store.Save(st); err != nil {
				return fmt.Errorf("failed to rewrite draw data: %w", err)
			}
			fmt.Printf("rewrote %d draw(s), last id %d\n", len(st.Draws), st.LastID)
			return nil
		},
	}
}
