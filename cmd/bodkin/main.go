package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/23skdu/longbow-bodkin/internal/config"
	"github.com/23skdu/longbow-bodkin/internal/device"
	"github.com/23skdu/longbow-bodkin/internal/dtype"
	"github.com/23skdu/longbow-bodkin/internal/hostops"
	"github.com/23skdu/longbow-bodkin/internal/logger"
)

var (
	dtypeName   = flag.String("dtype", "bfloat16", "Working dtype (float8_e4m3fn, float8_e4m3fnuz, float16, bfloat16, float32)")
	rows        = flag.Int("rows", 4, "Rows of the demo tensor")
	cols        = flag.Int("cols", 8, "Columns of the demo tensor")
	seed        = flag.Uint64("seed", 0, "Random seed (0 uses the fixed default)")
	logLevel    = flag.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	logFormat   = flag.String("log-format", "console", "Log format (console, json)")
	metricsAddr = flag.String("metrics", "", "Address to serve Prometheus metrics (empty disables)")
)

func parseDType(name string) (dtype.DType, error) {
	for dt := dtype.Bool; dt <= dtype.Complex128; dt++ {
		if dt.String() == strings.ToLower(name) {
			return dt, nil
		}
	}
	return dtype.Invalid, fmt.Errorf("unknown dtype %q", name)
}

func main() {
	flag.Parse()

	cfg := config.Default()
	cfg.LogLevel = *logLevel
	cfg.LogFormat = *logFormat
	cfg.MetricsAddr = *metricsAddr
	cfg.RandomSeed = *seed
	if cfg.RandomSeed == 0 {
		cfg.RandomSeed = hostops.DefaultRandomSeed
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			logger.Log.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				logger.Log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	dt, err := parseDType(*dtypeName)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("bad -dtype")
	}

	ctx := device.NewContext()
	gen := hostops.NewRandomGenerator(cfg.RandomSeed)

	// Fill a random tensor at the working dtype, widen it, normalize
	// each row and report the winning column. Exercises the narrow
	// float codecs, conversion, softmax and the reductions end to end.
	x := device.Allocate(ctx, []int{*rows, *cols}, dt, false)
	defer x.Release()
	if err := hostops.FillRandn(x, gen); err != nil {
		logger.Log.Fatal().Err(err).Msg("fill_randn failed")
	}

	wide, err := hostops.Convert(x, dtype.Float32, nil, false)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("convert failed")
	}
	defer wide.Release()

	probs, err := hostops.Softmax(wide, -1, nil, false)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("softmax failed")
	}
	defer probs.Release()

	best, err := hostops.Argmax(probs, -1, nil, false, false)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("argmax failed")
	}
	defer best.Release()

	scaled, err := hostops.Multiply(hostops.ArrayOperand(probs), hostops.Scalar(100), nil, false)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("multiply failed")
	}
	defer scaled.Release()

	pv := device.View[float32](scaled)
	bv := device.View[int64](best)
	for r := 0; r < *rows; r++ {
		row := pv[r**cols : (r+1)**cols]
		fmt.Printf("row %d: argmax=%d probs%%=%.2f\n", r, bv[r], row)
	}
	logger.Log.Info().Str("dtype", dt.String()).Int("rows", *rows).Int("cols", *cols).Msg("done")
}
