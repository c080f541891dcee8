package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bryanchriswhite/snaploupe/internal/capture"
	"github.com/bryanchriswhite/snaploupe/internal/export"
	"github.com/bryanchriswhite/snaploupe/internal/logger"
)

var (
	shootMonitor int
	shootOut     string
	shootClip    bool

	shootCmd = &cobra.Command{
		Use:   "shoot",
		Short: "Capture a monitor to a PNG file",
		Long:  `Capture a full monitor non-interactively and write it to a PNG file.`,
		Example: `  # Capture the primary monitor
  snaploupe shoot --out screen.png

  # Capture the second monitor to the clipboard
  snaploupe shoot --monitor 1 --clipboard`,
		RunE: runShoot,
	}
)

func init() {
	shootCmd.Flags().IntVar(&shootMonitor, "monitor", 0, "monitor index to capture")
	shootCmd.Flags().StringVar(&shootOut, "out", "", "output PNG path")
	shootCmd.Flags().BoolVar(&shootClip, "clipboard", false, "copy the PNG to the clipboard")
	rootCmd.AddCommand(shootCmd)
}

func runShoot(cmd *cobra.Command, args []string) error {
	logger.Init(viper.GetString("log_level"), viper.GetBool("pretty"))
	log := logger.WithComponent("shoot")

	if shootOut == "" && !shootClip {
		return fmt.Errorf("nothing to do: pass --out and/or --clipboard")
	}

	monitors, err := capture.Monitors()
	if err != nil {
		return fmt.Errorf("enumerate monitors: %w", err)
	}
	if shootMonitor < 0 || shootMonitor >= len(monitors) {
		return fmt.Errorf("monitor %d out of range, have %d", shootMonitor, len(monitors))
	}
	m := monitors[shootMonitor]

	backend := capture.NewScreenBackend()
	defer backend.Close()

	img, err := backend.CaptureMonitor(m)
	if err != nil {
		return fmt.Errorf("capture monitor %d: %w", m.ID, err)
	}

	data, err := export.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	if shootOut != "" {
		if err := export.WritePNGFile(shootOut, data); err != nil {
			return fmt.Errorf("write %s: %w", shootOut, err)
		}
		log.Info().Str("path", shootOut).Int("bytes", len(data)).Msg("Monitor captured")
	}
	if shootClip {
		if err := export.CopyPNGToClipboard(data); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		log.Info().Msg("Copied to clipboard")
	}
	return nil
}
