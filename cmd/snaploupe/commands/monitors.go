package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bryanchriswhite/snaploupe/internal/capture"
)

var (
	monitorsJSON bool

	monitorsCmd = &cobra.Command{
		Use:   "monitors",
		Short: "List connected monitors",
		Long:  `List the connected monitors with their global origin, size, and scale factor.`,
		RunE:  runMonitors,
	}
)

func init() {
	monitorsCmd.Flags().BoolVar(&monitorsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(monitorsCmd)
}

func runMonitors(cmd *cobra.Command, args []string) error {
	monitors, err := capture.Monitors()
	if err != nil {
		return fmt.Errorf("enumerate monitors: %w", err)
	}

	if monitorsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(monitors)
	}

	for _, m := range monitors {
		fmt.Printf("monitor %d: %dx%d at (%d, %d), scale %.2f\n",
			m.ID, m.Width, m.Height, m.Origin.X, m.Origin.Y, m.ScaleFactor())
	}
	return nil
}
