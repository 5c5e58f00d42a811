package main

import (
	"context"
	"flag"
	"os"
	"syscall"

	logger "github.com/d2r2/go-logger"
	shell "github.com/d2r2/go-shell"
	"github.com/prometheus/common/log"
	"golang.org/x/sync/errgroup"

	"periph.io/x/periph/host"

	"github.com/sensormon/dht11_monitor/poller"
	"github.com/sensormon/dht11_monitor/sensor"
)

// Sensor wiring is fixed, matching the device this runs on.
const (
	sensorPin   = "GPIO2"
	sensorModel = "dht11"
)

var (
	listen = flag.String("listen",
		"",
		"listen address for the metrics endpoint (empty disables it)")
	metricsPath = flag.String("metrics_path",
		"/metrics",
		"path under which metrics are served")
	console = flag.String("console",
		"",
		"serial device to write report lines to (default stdout)")
	verbose = flag.Bool("verbose",
		false,
		"enable sensor debug logging")
)

func main() {
	flag.Parse()
	defer logger.FinalizeLogger()
	if *verbose {
		logger.ChangePackageLogLevel("sensor", logger.DebugLevel)
	}

	// Cancel the poll loop on Ctrl+C or a termination request.
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	defer close(done)
	signals := []os.Signal{os.Kill, os.Interrupt}
	if shell.IsLinuxMacOSFreeBSD() {
		signals = append(signals, syscall.SIGTERM)
	}
	shell.CloseContextOnSignals(cancel, done, signals...)

	if _, err := host.Init(); err != nil {
		log.Fatal("HostInit error:", err)
	}

	dev, err := sensor.Open(sensorPin, sensorModel)
	if err != nil {
		log.Fatal("sensor open error:", err)
	}

	out, closeOut, err := openConsole(*console)
	if err != nil {
		log.Fatal("console open error:", err)
	}
	defer closeOut()

	p := poller.New(dev, out, metricHooks())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Run(ctx)
	})
	if *listen != "" {
		g.Go(func() error {
			return serveMetrics(ctx, *listen, *metricsPath)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
