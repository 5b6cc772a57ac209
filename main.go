package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

const serialReadTimeout = 1 * time.Second

var (
	flagDevice      string
	flagBaud        int
	flagCalibration string
	flagDryRun      bool
	flagEvents      bool
	flagNice        int
	flagDebug       bool
)

var debugEnabled bool

// dbg prints a debug trace line when --debug is set.
func dbg(format string, args ...any) {
	if debugEnabled {
		fmt.Printf("displaywriter: debug: "+format+"\n", args...)
	}
}

func configDir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "displaywriter")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "displaywriter")
}

func defaultCalibrationPath() string {
	return filepath.Join(configDir(), "calibration.yml")
}

func run() error {
	debugEnabled = flagDebug

	if flagNice != 0 {
		if err := setNiceness(flagNice); err != nil {
			fmt.Fprintf(os.Stderr, "displaywriter: WARNING: set niceness %d: %v\n", flagNice, err)
		}
	}

	store, err := LoadCalibration(flagCalibration)
	if err != nil {
		return fmt.Errorf("load calibration: %w", err)
	}

	var emitter Emitter
	var vkbd *UinputEmitter
	if flagDryRun {
		emitter = NewTraceEmitter(os.Stdout)
	} else {
		vkbd, err = NewUinputEmitter()
		if err != nil {
			return err
		}
		defer vkbd.Close()
		emitter = vkbd
	}

	port, err := OpenSerial(flagDevice, flagBaud, serialReadTimeout)
	if err != nil {
		return err
	}
	defer port.Close()

	// Clean shutdown on SIGINT/SIGTERM: the serial port must be closed
	// on every exit path.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\ndisplaywriter: shutting down")
		port.Close()
		if vkbd != nil {
			vkbd.Close()
		}
		os.Exit(0)
	}()

	mode := "scan"
	if flagEvents {
		mode = "event"
	}
	fmt.Printf("displaywriter: %d keys calibrated — reading %s @ %d baud (%s mode)\n",
		store.Len(), flagDevice, flagBaud, mode)
	if flagDryRun {
		fmt.Println("displaywriter: dry run, no events will be injected")
	}

	return NewReceiver(store, emitter).Run(port, flagEvents)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "displaywriter",
		Short:         "Convert raw keyboard scans from the arduino into OS keystrokes",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	root.Flags().StringVar(&flagDevice, "device", "/dev/ttyACM0", "serial device the arduino is attached to")
	root.Flags().IntVar(&flagBaud, "baud", 115200, "serial baud rate")
	root.Flags().StringVar(&flagCalibration, "calibration", defaultCalibrationPath(), "calibration file path")
	root.Flags().BoolVarP(&flagDryRun, "dry-run", "d", false, "trace decisions instead of injecting keystrokes")
	root.Flags().BoolVar(&flagEvents, "events", false, "read pre-decoded index,flag messages instead of full keyscans")
	root.Flags().IntVar(&flagNice, "nice", 0, "process niceness (negative needs privileges)")
	root.Flags().BoolVar(&flagDebug, "debug", false, "print pipeline debug traces")

	root.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Create the config directory with a starter calibration file",
			RunE: func(cmd *cobra.Command, args []string) error {
				dir := configDir()
				fmt.Printf("displaywriter: initializing config in %s\n", dir)
				return initConfig(dir)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Convert a legacy calibration.json into calibration.yml",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrateCalibration(configDir())
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("displaywriter %s\n", version)
			},
		},
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "displaywriter: %v\n", err)
		os.Exit(1)
	}
}
