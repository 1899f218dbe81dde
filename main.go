package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Application is the surface main dispatches to. App implements it; tests
// substitute a recorder.
type Application interface {
	ApplyOptions(opts AppOptions)
	Load() error
	RunEvaluate() error
	RunScan() error
	RunService()
}

func main() {
	if err := run(os.Args[1:], os.Stdout, NewApp()); err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		log.Fatalf("Error: %v", err)
	}
}

func run(args []string, out io.Writer, app Application) error {
	fs := flag.NewFlagSet("cloudfit", flag.ContinueOnError)
	fs.SetOutput(out)

	configFile := fs.String("config", "config.yaml", "Path to configuration file (defaults are used if missing)")
	sourceFile := fs.String("source", "", "Source point cloud (.xyz or .json) to be moved by the pose")
	targetFile := fs.String("target", "", "Target point cloud (.xyz or .json) to index")
	pose := fs.String("pose", "", "Candidate pose: ROLL,PITCH,YAW,TX,TY,TZ (radians, cloud units)")
	scanYaw := fs.Int("scan-yaw", 0, "Evaluate N evenly spaced yaw candidates around --pose and report the best")
	httpMode := fs.Bool("http", false, "Run HTTP server exposing /evaluate and /metrics")
	httpPort := fs.Int("http-port", 8080, "HTTP server port (default 8080)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintf(out, "cloudfit version: %s\n", Version)

	if *sourceFile == "" || *targetFile == "" {
		fmt.Fprintln(out, "Usage: cloudfit --source=SRC --target=TGT [--pose=r,p,y,tx,ty,tz]")
		fmt.Fprintln(out, "Use --scan-yaw=N to evaluate N yaw candidates as one batch")
		fmt.Fprintln(out, "Use --http to serve evaluations and Prometheus metrics")
		fmt.Fprintln(out, "\nConfiguration:")
		fmt.Fprintln(out, "  config.yaml - metrics, robustFactor, inlierDistance, index, workers")
		return nil
	}

	app.ApplyOptions(AppOptions{
		ConfigFile: *configFile,
		SourceFile: *sourceFile,
		TargetFile: *targetFile,
		Pose:       *pose,
		ScanYaw:    *scanYaw,
		HttpPort:   *httpPort,
		HttpMode:   *httpMode,
	})

	if err := app.Load(); err != nil {
		return fmt.Errorf("loading inputs: %w", err)
	}

	switch {
	case *httpMode:
		fmt.Fprintln(out, "cloudfit service starting...")
		app.RunService()
		return nil
	case *scanYaw > 0:
		return app.RunScan()
	default:
		return app.RunEvaluate()
	}
}
