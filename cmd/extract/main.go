// Command extract runs one extraction pass over a page and prints the
// resulting page state as JSON.
//
//	extract [-engine rod|firecrawl] [-file page.html] [-config path] URL
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"jobsight/internal/browser"
	"jobsight/internal/config"
	"jobsight/internal/extractor"
	"jobsight/internal/logging"
	"jobsight/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	engine := flag.String("engine", "", "page engine: rod or firecrawl (default rod)")
	file := flag.String("file", "", "read HTML from this file instead of loading URL")
	timeout := flag.Duration("timeout", 90*time.Second, "overall deadline")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] URL\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	url := utils.CanonicalJobURL(flag.Arg(0))

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	cfg.Logging.Level = "warn"
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	cfg.Logging.Adapters = []config.LoggingAdapter{{
		Name:    "stderr",
		Type:    "stdout",
		Enabled: true,
		Options: map[string]interface{}{"stream": "stderr", "format": "text"},
	}}
	if err := logging.InitializeLogging(cfg); err != nil {
		fatal(err)
	}
	defer logging.CloseLogging()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	doc, err := load(ctx, cfg, *engine, *file, url)
	if err != nil {
		fatal(err)
	}

	ext := extractor.New(nil, extractor.WithMinDescriptionLength(cfg.Extractor.MinDescriptionLength))
	state, err := ext.Scan(ctx, url, doc)
	if err != nil {
		fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		fatal(err)
	}
	if state.JobData == nil {
		os.Exit(1)
	}
}

func load(ctx context.Context, cfg *config.Config, engine, file, url string) (*extractor.HTMLDocument, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return extractor.NewHTMLDocument(f)
	}

	var engines []browser.Engine
	switch engine {
	case "", browser.EngineRod:
		rod := browser.NewRodManager(cfg)
		defer rod.Close()
		engines = append(engines, rod)
	case browser.EngineFirecrawl:
		fc, err := browser.NewFirecrawlEngine(cfg)
		if err != nil {
			return nil, err
		}
		engines = append(engines, fc)
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}

	doc, _, err := browser.NewLoader(nil, engines...).Load(ctx, engine, url)
	return doc, err
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "extract: %v\n", err)
	os.Exit(1)
}
