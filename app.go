package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/kwv/cloudfit/fitness"
	"github.com/kwv/cloudfit/registration"
)

// App encapsulates the application state and dependencies
type App struct {
	Config    *fitness.Config
	Evaluator *registration.Evaluator
	Out       io.Writer

	// CLI Flags (effectively dependencies)
	ConfigFile string
	SourceFile string
	TargetFile string
	Pose       string
	ScanYaw    int
	HttpPort   int
	HttpMode   bool
}

// AppOptions carries parsed CLI flags into the App
type AppOptions struct {
	ConfigFile string
	SourceFile string
	TargetFile string
	Pose       string
	ScanYaw    int
	HttpPort   int
	HttpMode   bool
}

// NewApp creates a new App instance
func NewApp() *App {
	return &App{Out: os.Stdout}
}

// ApplyOptions applies CLI options to the App instance
func (a *App) ApplyOptions(opts AppOptions) {
	a.ConfigFile = opts.ConfigFile
	a.SourceFile = opts.SourceFile
	a.TargetFile = opts.TargetFile
	a.Pose = opts.Pose
	a.ScanYaw = opts.ScanYaw
	a.HttpPort = opts.HttpPort
	a.HttpMode = opts.HttpMode
}

// Load reads the config and both clouds and builds the evaluator.
func (a *App) Load() error {
	config := fitness.DefaultConfig()
	if _, err := os.Stat(a.ConfigFile); err == nil {
		loaded, err := fitness.LoadConfig(a.ConfigFile)
		if err != nil {
			return err
		}
		config = *loaded
		log.Printf("Loaded config from %s", a.ConfigFile)
	} else {
		log.Printf("Config %s not found, using defaults (metrics %v)", a.ConfigFile, config.Metrics)
	}
	a.Config = &config

	target, err := registration.ParseCloudFile(a.TargetFile)
	if err != nil {
		return fmt.Errorf("loading target: %w", err)
	}
	source, err := registration.ParseCloudFile(a.SourceFile)
	if err != nil {
		return fmt.Errorf("loading source: %w", err)
	}
	log.Printf("Loaded %d target points, %d source points", len(target), len(source))

	ev, err := registration.NewEvaluator(target, source, config)
	if err != nil {
		return err
	}
	a.Evaluator = ev
	return nil
}

// RunEvaluate scores the single pose given on the command line
func (a *App) RunEvaluate() error {
	p, err := parsePose(a.Pose)
	if err != nil {
		return err
	}
	res, err := a.Evaluator.Evaluate(p)
	if err != nil {
		return err
	}
	printResult(a.Out, res)
	return nil
}

// RunScan evaluates ScanYaw yaw candidates around the given pose and prints
// the best one according to the first configured metric.
func (a *App) RunScan() error {
	base, err := parsePose(a.Pose)
	if err != nil {
		return err
	}

	poses := registration.YawScan(base, a.ScanYaw)
	start := time.Now()
	results, err := a.Evaluator.EvaluateBatch(context.Background(), poses)
	if err != nil {
		return err
	}
	log.Printf("Evaluated %d poses in %v", len(results), time.Since(start).Round(time.Millisecond))

	metric := a.Evaluator.Metrics()[0]
	best := registration.Best(results, metric)
	if best < 0 {
		return fmt.Errorf("no result scored %s", metric)
	}

	fmt.Fprintf(a.Out, "Scan over %d yaw candidates (ranked by %s)\n", len(results), metric)
	for i, r := range results {
		marker := " "
		if i == best {
			marker = "*"
		}
		fmt.Fprintf(a.Out, "%s yaw=%8.4f  %s=%s\n", marker, r.Pose.Yaw, metric, formatScore(r.Scores[metric]))
	}
	fmt.Fprintln(a.Out)
	printResult(a.Out, results[best])
	return nil
}

// RunService serves evaluations over HTTP until interrupted
func (a *App) RunService() {
	httpServer := newHTTPServer(a.Evaluator)
	addr := fmt.Sprintf("0.0.0.0:%d", a.HttpPort)
	go func() {
		log.Printf("[HTTP] Starting server on %s", addr)
		if err := http.ListenAndServe(addr, httpServer); err != nil {
			log.Fatalf("[HTTP] Server error: %v", err)
		}
		log.Printf("[HTTP] Server stopped unexpectedly")
	}()

	fmt.Printf("\nHTTP endpoints (port %d):\n", a.HttpPort)
	fmt.Println("  GET  /health   - Health check")
	fmt.Println("  POST /evaluate - Score candidate poses")
	fmt.Println("  GET  /metrics  - Prometheus metrics")
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("Service stopped")
}

// parsePose parses "ROLL,PITCH,YAW,TX,TY,TZ". An empty string is the identity pose.
func parsePose(s string) (registration.Pose, error) {
	if strings.TrimSpace(s) == "" {
		return registration.Pose{}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return registration.Pose{}, fmt.Errorf("pose needs 6 comma-separated values, got %d", len(parts))
	}

	var v [6]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return registration.Pose{}, fmt.Errorf("pose value %d: %w", i+1, err)
		}
		v[i] = f
	}
	return registration.Pose{Roll: v[0], Pitch: v[1], Yaw: v[2], Tx: v[3], Ty: v[4], Tz: v[5]}, nil
}

func formatScore(s float64) string {
	if s == fitness.MaxError {
		return "MAX (too few inliers)"
	}
	return strconv.FormatFloat(s, 'g', 8, 64)
}

func printResult(w io.Writer, res registration.Result) {
	p := res.Pose
	fmt.Fprintf(w, "Pose: roll=%.4f pitch=%.4f yaw=%.4f t=(%.4f, %.4f, %.4f)\n",
		p.Roll, p.Pitch, p.Yaw, p.Tx, p.Ty, p.Tz)

	names := make([]string, 0, len(res.Scores))
	for name := range res.Scores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-15s %s\n", name, formatScore(res.Scores[name]))
	}
}
