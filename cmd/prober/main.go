package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"udpecho/internal/config"
	"udpecho/internal/output"
	"udpecho/internal/probe"
)

func main() {
	args, err := config.ParseProberArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Setup logging
	logFile, err := config.SetupLogging(args.Log, args.LogLevel, args.Json)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	out := &output.OutputManager{}
	p, err := probe.New(args, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The measurement log is always written. Opening it after the dial
	// keeps a failed start from leaving an empty file behind.
	fileOut, err := output.NewJSONOutput(args.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open measurement log: %v\n", err)
		os.Exit(1)
	}
	out.Register(fileOut)

	if args.Json {
		stdoutRows, err := output.NewJSONOutput("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		out.Register(stdoutRows)
	} else {
		out.Register(output.NewProberConsole(os.Stdout, output.RunInfo{
			Target:   p.Target(),
			Count:    args.Count,
			Size:     args.Size,
			Interval: args.Interval,
		}))
	}

	log.WithField("log_file", args.LogFile).Debug("Measurement log opened")

	// Set up signal handling for Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Run in a goroutine so we can handle signals
	done := make(chan error)
	go func() {
		done <- p.Run()
	}()

	// Wait for either completion or interrupt
	select {
	case err = <-done:
		// Probe stream completed naturally
		if err != nil {
			log.WithError(err).Error("Probe run failed")
			os.Exit(1)
		}
	case <-sigChan:
		// User pressed Ctrl+C
		if !args.Json && term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Println("\n\nTest interrupted by user")
		}
		p.Stop()
		// Wait for Run() to emit the summary and finish teardown
		if err = <-done; err != nil {
			log.WithError(err).Error("Error during shutdown")
			os.Exit(1)
		}
	}
}
