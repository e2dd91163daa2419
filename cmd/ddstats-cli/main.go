// ddstats-cli is a small demo driver over ddcore: it can poll a running
// game process, decode spawnset/replay files, and submit a captured run.
// Grounded on the cobra root-command layout in
// ehrlich-b-wingthing/cmd/wt/main.go.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ddstats/ddcore/ddapi"
	"github.com/ddstats/ddcore/ddmem"
	"github.com/ddstats/ddcore/ddreplay/replaydecoder"
	"github.com/ddstats/ddcore/ddspawnset"
	"github.com/ddstats/ddcore/ddsubmit"
	"github.com/ddstats/ddcore/internal/config"
)

const (
	appName    = "ddstats-cli"
	appVersion = "0.1.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:     appName,
		Short:   "Devil Daggers telemetry core CLI",
		Version: appVersion,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a ddcore config file")

	root.AddCommand(newPollCmd(&configPath))
	root.AddCommand(newDecodeSpawnsetCmd())
	root.AddCommand(newDecodeReplayCmd())
	root.AddCommand(newSubmitCmd(&configPath))

	return root
}

func newPollCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Attach to a running game and print one stats snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			memCfg, err := cfg.ToDDMemConfig()
			if err != nil {
				return err
			}

			conn := ddmem.New(memCfg, slog.Default())
			if err := conn.TryCreate(); err != nil {
				return fmt.Errorf("attach: %w", err)
			}
			defer conn.Close()

			snapshot, err := conn.ReadStatsBlockWithFrames()
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}

			fmt.Printf("player=%s time=%.2f gems=%d kills=%d frames=%d\n",
				snapshot.Block.PlayerNameString(), snapshot.Block.Time,
				snapshot.Block.GemsCollected, snapshot.Block.Kills, len(snapshot.Frames))
			return nil
		},
	}
}

func newDecodeSpawnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode-spawnset <file>",
		Short: "Decode a spawnset file and print its header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			s, err := ddspawnset.Deserialize[ddspawnset.V3](f)
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			fmt.Printf("spawn_version=%d world_version=%d spawn_count=%d\n",
				s.Header.SpawnVersion, s.Header.WorldVersion, len(s.Spawns))
			return nil
		},
	}
}

func newDecodeReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode-replay <file>",
		Short: "Decode a ddrpl or DF_RPL2 replay file and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, legacy, modern, err := replaydecoder.DecodeFile(args[0])
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}

			switch format {
			case replaydecoder.FormatLegacy:
				fmt.Printf("format=legacy player=%s time=%.2f frames=%d\n",
					legacy.Header.PlayerName, legacy.Header.Time, len(legacy.Data.Frames))
			case replaydecoder.FormatModern:
				fmt.Printf("format=modern player=%s frames=%d\n",
					modern.Header.PlayerName, len(modern.Data.Frames))
			default:
				fmt.Println("format=unknown")
			}
			return nil
		},
	}
}

func newSubmitCmd(configPath *string) *cobra.Command {
	var replayPath string
	var clientName, clientVersion string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Poll the game once and submit the run to the leaderboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			memCfg, err := cfg.ToDDMemConfig()
			if err != nil {
				return err
			}
			secrets, err := cfg.ToSecrets()
			if err != nil {
				return err
			}

			conn := ddmem.New(memCfg, slog.Default())
			if err := conn.TryCreate(); err != nil {
				return fmt.Errorf("attach: %w", err)
			}
			defer conn.Close()

			snapshot, err := conn.ReadStatsBlockWithFrames()
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}

			var replay []byte
			if replayPath != "" {
				replay, err = os.ReadFile(replayPath)
				if err != nil {
					return fmt.Errorf("read replay: %w", err)
				}
			} else {
				replay, err = conn.ReadReplayBuffer(snapshot.Block)
				if err != nil {
					return fmt.Errorf("read replay buffer: %w", err)
				}
			}

			platform := ddsubmit.PlatformLinux
			submission, err := ddsubmit.Build(snapshot, platform, clientName, clientVersion, replay, secrets)
			if err != nil {
				return fmt.Errorf("build submission: %w", err)
			}

			client := ddapi.New(cfg.API.BaseURL)
			if err := client.SubmitRun(context.Background(), submission); err != nil {
				return fmt.Errorf("submit: %w", err)
			}

			fmt.Println("submitted")
			return nil
		},
	}

	cmd.Flags().StringVar(&replayPath, "replay", "", "path to a replay file to submit instead of the live buffer")
	cmd.Flags().StringVar(&clientName, "client", appName, "client name reported to the API")
	cmd.Flags().StringVar(&clientVersion, "client-version", appVersion, "client version reported to the API")

	return cmd
}
