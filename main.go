package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kwv/wallpack/packing"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	configFile = flag.String("config", "config.yaml", "Path to configuration file")
	listGroups = flag.Bool("list-groups", false, "List the wallpaper group catalogue and exit")
	printOnly  = flag.Bool("print", false, "Print best states as text instead of writing files")

	shapeName  = flag.String("shape", "", "Run a single shape from the config (default: all jobs)")
	groupLabel = flag.String("group", "", "Run a single wallpaper group (requires -shape)")
	numSites   = flag.Int("sites", 1, "Number of occupied sites for -shape/-group runs")

	steps  = flag.Int("steps", 0, "Override the number of annealing steps")
	cycles = flag.Int("cycles", 0, "Override the number of annealing cycles")
	seed   = flag.Int64("seed", 0, "Override the random seed")

	outputDir    = flag.String("output", "results", "Output directory")
	renderFormat = flag.String("format", "svg", "Render format: svg, png, both or none")
	traceHTML    = flag.String("trace", "", "Write an annealing trace report to this HTML file")
	geoJSON      = flag.Bool("geojson", false, "Also export solutions as GeoJSON")

	mqttMode = flag.Bool("mqtt", false, "Publish progress updates over MQTT")
	httpMode = flag.Bool("http", false, "Serve a status endpoint while running")
	httpPort = flag.Int("http-port", 8080, "HTTP status server port")
)

func main() {
	flag.Parse()
	fmt.Printf("wallpack version: %s\n", Version)

	if *listGroups {
		runListGroups()
		return
	}

	config, err := packing.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	app := NewApp(config)
	app.ApplyOptions(AppOptions{
		ShapeName:    *shapeName,
		GroupLabel:   *groupLabel,
		NumSites:     *numSites,
		Steps:        *steps,
		Cycles:       *cycles,
		Seed:         *seed,
		OutputDir:    *outputDir,
		RenderFormat: *renderFormat,
		TraceHTML:    *traceHTML,
		GeoJSON:      *geoJSON,
		PrintOnly:    *printOnly,
		MqttMode:     *mqttMode,
		HttpMode:     *httpMode,
		HttpPort:     *httpPort,
	})

	if err := app.Run(); err != nil {
		log.Fatalf("Run failed: %v", err)
	}
}

// runListGroups prints the catalogue with the Wyckoff letters and
// multiplicities of every group.
func runListGroups() {
	for _, group := range packing.Groups() {
		fmt.Printf("%-5s", group.Label)
		switch {
		case group.Hexagonal:
			fmt.Printf(" hexagonal  ")
		case group.Rectangular:
			fmt.Printf(" rectangular")
		default:
			fmt.Printf(" oblique    ")
		}
		fmt.Printf(" sites:")
		for i := range group.WyckoffSites {
			site := &group.WyckoffSites[i]
			fmt.Printf(" %s(%d)", site.Letter, site.Multiplicity())
		}
		fmt.Println()
	}
	os.Exit(0)
}
