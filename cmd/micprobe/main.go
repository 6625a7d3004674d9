package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"micprobe/internal/audio"
	"micprobe/internal/config"
	"micprobe/internal/logging"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"

	deviceIndex int
	durationSec int
	durationMs  int
	outPath     string
)

var rootCmd = &cobra.Command{
	Use:   "micprobe",
	Short: "Probe and record from audio input devices",
	Long:  `micprobe lists audio input devices, measures their signal level, and records bounded WAV captures from them.`,
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *audio.Engine) error {
			devices := eng.ListDevices()
			if len(devices) == 0 {
				fmt.Println("No microphones found")
				return nil
			}
			return printJSON(devices)
		})
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show one device and its supported formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *audio.Engine) error {
			dev, formats, err := eng.DeviceInfo(selector(cmd))
			if err != nil {
				return err
			}

			supported := make([]string, 0, len(formats))
			for _, f := range formats {
				supported = append(supported, f.String())
			}
			return printJSON(struct {
				audio.DeviceDescriptor
				SupportedFormats []string `json:"supported_formats"`
			}{dev, supported})
		})
	},
}

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Record audio to a WAV container",
	Long:  `Record from an input device for a bounded duration (clamped to 1-30 seconds) and write the WAV bytes to --out, or base64 to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *audio.Engine) error {
			rec, err := eng.Capture(selector(cmd), time.Duration(durationSec)*time.Second)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Recorded %s of audio (%d samples, %dHz, %d channels)\n",
				rec.Duration, rec.SampleCount, rec.SampleRate, rec.Channels)

			if outPath != "" {
				return os.WriteFile(outPath, rec.WAV, 0644)
			}
			fmt.Println(base64.StdEncoding.EncodeToString(rec.WAV))
			return nil
		})
	},
}

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Measure the input signal level",
	Long:  `Sample an input device over a short window (clamped to 10-1000 ms) and report RMS, peak, and a silence classification.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *audio.Engine) error {
			level, err := eng.InputLevel(selector(cmd), time.Duration(durationMs)*time.Millisecond)
			if err != nil {
				return err
			}
			return printJSON(level)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("micprobe %s\n", Version)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{infoCmd, captureCmd, levelCmd} {
		cmd.Flags().IntVar(&deviceIndex, "device", -1, "input device index (default: the default input device)")
	}
	captureCmd.Flags().IntVar(&durationSec, "duration", 0, "capture duration in seconds (1-30)")
	captureCmd.Flags().StringVar(&outPath, "out", "", "write WAV bytes to this file instead of base64 to stdout")
	levelCmd.Flags().IntVar(&durationMs, "duration-ms", 0, "sampling window in milliseconds (10-1000)")

	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SilenceUsage = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withEngine loads config, builds the engine, runs fn, and always releases
// the host context.
func withEngine(fn func(*audio.Engine) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logging.NewWithLevel(cfg.LogLevel)

	applyDefaults(cfg)

	eng, err := audio.New(cfg.Audio, log)
	if err != nil {
		return err
	}
	defer eng.Close()

	return fn(eng)
}

// applyDefaults fills unset duration flags from config.
func applyDefaults(cfg *config.Config) {
	if durationSec == 0 {
		durationSec = cfg.Audio.CaptureSeconds
	}
	if durationMs == 0 {
		durationMs = cfg.Audio.LevelMillis
	}
}

// selector maps the --device flag onto the engine's selector: nil means the
// default input device.
func selector(cmd *cobra.Command) *int {
	if !cmd.Flags().Changed("device") {
		return nil
	}
	idx := deviceIndex
	return &idx
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
