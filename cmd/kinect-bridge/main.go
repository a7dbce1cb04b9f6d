package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kinectxr/runtime/internal/bridge"
	"github.com/kinectxr/runtime/internal/config"
	"github.com/kinectxr/runtime/internal/device"
	"github.com/kinectxr/runtime/internal/logging"
)

var (
	version = "0.1.0"
	cfgFile string
	mock    bool
	addr    string
)

var log = logging.L("main")

var rootCmd = &cobra.Command{
	Use:   "kinect-bridge",
	Short: "Kinect bridge server",
	Long:  "kinect-bridge streams live Kinect RGB/depth frames and motor control over a WebSocket to any number of clients.",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bridge server",
	Run: func(cmd *cobra.Command, args []string) {
		runBridge()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kinect-bridge v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: bridge.yaml in ~/.config/kinectxr on macOS or /etc/kinectxr elsewhere, then the current directory)")
	runCmd.Flags().BoolVar(&mock, "mock", false, "stream a synthetic pattern instead of reading from hardware")
	runCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config bridge_host/bridge_port)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogging(cfg *config.Config) {
	var output io.Writer = os.Stdout
	logFileFallback := false

	if cfg.LogFile != "" {
		rw, err := logging.NewRotatingWriter(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v (logging to stdout)\n", cfg.LogFile, err)
			logFileFallback = true
		} else {
			output = logging.TeeWriter(os.Stdout, rw)
		}
	}

	logging.Init(cfg.LogFormat, cfg.LogLevel, output)
	log = logging.L("main")

	if logFileFallback {
		log.Warn("log file fallback active, logging to stdout only", "requestedFile", cfg.LogFile)
	}
}

func runBridge() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if mock {
		cfg.Mock = true
	}

	initLogging(cfg)

	listenAddr := addr
	if listenAddr == "" {
		listenAddr = fmt.Sprintf("%s:%d", cfg.BridgeHost, cfg.BridgePort)
	}

	var srv *bridge.Server
	if cfg.Mock {
		log.Info("starting bridge in mock mode", "addr", listenAddr, "path", cfg.BridgePath)
		srv = bridge.NewMockServer(listenAddr, cfg.BridgePath)
	} else {
		log.Info("starting bridge", "addr", listenAddr, "path", cfg.BridgePath, "deviceIndex", cfg.DeviceIndex)
		srv = bridge.NewServer(listenAddr, cfg.BridgePath, device.New())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := srv.Run(ctx); err != nil {
		log.Error("bridge exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("bridge stopped")
}
