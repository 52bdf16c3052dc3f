package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"udpecho/internal/version"
	"udpecho/internal/wire"
)

// ProberArgs holds the prober's command-line configuration.
type ProberArgs struct {
	Server string
	Port   uint

	// Probe stream
	Count    uint
	Size     uint
	Interval time.Duration

	// Output
	LogFile string // measurement row log, always written
	Json    bool   // row stream to stdout instead of console lines

	// Logging
	Log      string // diagnostic log file path, empty means no logging
	LogLevel string // log level: debug, info, warn, error
}

// ResponderArgs holds the responder's command-line configuration.
type ResponderArgs struct {
	Bind string
	Port uint

	// Output
	LogFile string // measurement row log, always written
	Json    bool   // row stream to stdout instead of console lines

	// Logging
	Log      string // diagnostic log file path, empty means no logging
	LogLevel string // log level: debug, info, warn, error
}

// ParseProberArgs parses and validates the prober command line. The
// measurement log gets a timestamped default name when none is given.
func ParseProberArgs() (ProberArgs, error) {
	var args ProberArgs
	var showVersion bool

	// Set custom usage message
	flag.Usage = func() {
		println("udpecho prober - UDP echo round-trip latency measurement")
		println()
		println("Sends a bounded stream of sequenced, timestamped UDP probes and")
		println("measures the round-trip time of each echoed reply in microseconds.")
		println()
		println("Usage:")
		println("  prober [OPTIONS] SERVER")
		println()
		println("Examples:")
		println("  prober 192.0.2.10                     # 100 probes of 64 bytes")
		println("  prober -c 1000 -z 256 -i 1ms <server> # larger probes, faster")
		println("  prober -J <server> > rows.jsonl       # row stream on stdout")
		println()
		println("Options:")
		flag.PrintDefaults()
	}

	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.UintVarP(&args.Port, "port", "p", 5005, "Server UDP port")
	flag.UintVarP(&args.Count, "count", "c", 100, "Number of probes to send (0 = none)")
	flag.UintVarP(&args.Size, "size", "z", 64, "Probe size in bytes (minimum 12)")
	flag.DurationVarP(&args.Interval, "interval", "i", 10*time.Millisecond, "Delay between probes")
	flag.StringVarP(&args.LogFile, "log-file", "l", "", "Measurement log file (default: prober_<timestamp>.jsonl)")
	flag.BoolVarP(&args.Json, "json", "J", false, "Write measurement rows to stdout (disables console lines)")
	flag.StringVar(&args.Log, "log", "", "Diagnostic log file (empty = no logging)")
	flag.StringVar(&args.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	// Handle version flag
	if showVersion {
		fmt.Println(version.FullVersion())
		os.Exit(0)
	}

	args.Server = flag.Arg(0)
	if args.Server == "" {
		return args, errors.New("server address is required")
	}

	switch {
	case args.Port == 0 || args.Port > 65535:
		return args, errors.New("port must be between 1 and 65535")
	case args.Size < wire.MinProbeSize:
		return args, fmt.Errorf("packet size must be at least %d bytes", wire.MinProbeSize)
	case args.Size > wire.MaxProbeSize:
		return args, fmt.Errorf("packet size must be at most %d bytes", wire.MaxProbeSize)
	case args.Count > math.MaxUint32:
		return args, errors.New("count must fit a 32-bit sequence number")
	case args.Interval < 0:
		return args, errors.New("interval must not be negative")
	}

	if args.LogFile == "" {
		args.LogFile = defaultLogName("prober")
	}

	return args, nil
}

// ParseResponderArgs parses and validates the responder command line.
func ParseResponderArgs() (ResponderArgs, error) {
	var args ResponderArgs
	var showVersion bool

	// Set custom usage message
	flag.Usage = func() {
		println("udpecho responder - UDP echo responder")
		println()
		println("Binds a UDP endpoint and echoes every received datagram back to")
		println("its sender byte for byte, logging per-packet processing latency.")
		println()
		println("Usage:")
		println("  responder [OPTIONS]")
		println()
		println("Examples:")
		println("  responder                    # listen on 0.0.0.0:5005")
		println("  responder -b 10.0.0.2 -p 7   # listen on a specific endpoint")
		println()
		println("Options:")
		flag.PrintDefaults()
	}

	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.StringVarP(&args.Bind, "bind", "b", "0.0.0.0", "Listen address")
	flag.UintVarP(&args.Port, "port", "p", 5005, "Listen UDP port")
	flag.StringVarP(&args.LogFile, "log-file", "l", "", "Measurement log file (default: responder_<timestamp>.jsonl)")
	flag.BoolVarP(&args.Json, "json", "J", false, "Write measurement rows to stdout (disables console lines)")
	flag.StringVar(&args.Log, "log", "", "Diagnostic log file (empty = no logging)")
	flag.StringVar(&args.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	// Handle version flag
	if showVersion {
		fmt.Println(version.FullVersion())
		os.Exit(0)
	}

	switch {
	case args.Bind == "":
		return args, errors.New("bind address must not be empty")
	case args.Port == 0 || args.Port > 65535:
		return args, errors.New("port must be between 1 and 65535")
	}

	if args.LogFile == "" {
		args.LogFile = defaultLogName("responder")
	}

	return args, nil
}

// defaultLogName builds the timestamped measurement log filename used when
// --log-file is not given.
func defaultLogName(role string) string {
	return fmt.Sprintf("%s_%s.jsonl", role, time.Now().Format("20060102_150405"))
}
