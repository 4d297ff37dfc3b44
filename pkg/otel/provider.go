package otel

import (
	"os"
	"strings"
)

const instrumentationName = "github.com/adrianliechti/typst-bot"

var (
	EnableDebug     = false
	EnableTelemetry = false

	// EnablePrometheus serves metrics for scraping instead of pushing them via OTLP.
	EnablePrometheus = false
)

func init() {
	readEnv()
}

// readEnv refreshes the switches, e.g. after a .env file was loaded.
func readEnv() {
	EnableDebug = os.Getenv("DEBUG") != ""
	EnableTelemetry = os.Getenv("TELEMETRY") != ""

	EnablePrometheus = strings.EqualFold(os.Getenv("OTEL_METRICS_EXPORTER"), "prometheus")
}

type Observable interface {
	otelSetup()
}
