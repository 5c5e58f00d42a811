package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/log"

	"github.com/sensormon/dht11_monitor/poller"
	"github.com/sensormon/dht11_monitor/sensor"
)

var (
	dhtHumidityMetric = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dht_humidity_percent",
		Help: "Relative humidity from DHT sensor",
	})
	dhtTemperatureMetric = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dht_temperature_celsius",
		Help: "Temperature from DHT sensor",
	})
	dhtReadingsCountMetric = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dht_readings_total",
		Help: "Successful readings from DHT sensor",
	})
	dhtFailuresMetric = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dht_read_failures_total",
		Help: "Failed readings from DHT sensor",
	})
	dhtReadDurationMetric = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dht_read_duration_seconds",
		Help:    "Wall time of one sensor read",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(dhtHumidityMetric)
	prometheus.MustRegister(dhtTemperatureMetric)
	prometheus.MustRegister(dhtReadingsCountMetric)
	prometheus.MustRegister(dhtFailuresMetric)
	prometheus.MustRegister(dhtReadDurationMetric)
}

// metricHooks records every cycle outcome. The collectors are updated even
// when no listener is configured; they are simply never scraped then.
func metricHooks() poller.Hooks {
	return poller.Hooks{
		OnReading: func(r sensor.Reading, took time.Duration) {
			dhtHumidityMetric.Set(r.Humidity)
			dhtTemperatureMetric.Set(r.Temperature)
			dhtReadingsCountMetric.Inc()
			dhtReadDurationMetric.Observe(took.Seconds())
		},
		OnFailure: func(err error) {
			dhtFailuresMetric.Inc()
			log.Errorf("failed to read sensor: %v", err)
		},
	}
}

func serveMetrics(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>
			<head><title>DHT11 Monitor</title></head>
			<body>
			<h1>DHT11 Monitor</h1>
			<p><a href="` + path + `">Metrics</a></p>
			</body></html>`))
	})
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	log.Infoln("Listening on", addr)
	log.Infoln("Serving metrics under", path)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
