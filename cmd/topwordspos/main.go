// exports the most frequent English words with their part of speech
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/computerphysicslab/goPackages/goDebug"
	"go.uber.org/zap"

	"goTopWords/configlib"
	"goTopWords/fetchlib"
	"goTopWords/loglib"
	"goTopWords/pipeline"
	"goTopWords/poslib"
)

const defaultOutput = "top_5000_with_pos.csv"

// exitOnError logs err when a logger is up, prints it and exits with status 1
func exitOnError(logger *zap.SugaredLogger, msg string, err error) {
	if logger != nil {
		logger.Errorw(msg, "error", err)
		logger.Sync()
	}
	fmt.Printf("Error occurred: %v\n", err)
	os.Exit(1)
}

func main() {
	cfg, err := configlib.Load("topwordspos", defaultOutput)
	if err != nil {
		exitOnError(nil, "config", err)
	}
	if cfg.Debug {
		goDebug.Print("config", cfg.Redacted())
	}

	logger, err := loglib.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		exitOnError(nil, "logger", err)
	}
	defer logger.Sync()

	opts := &fetchlib.Options{
		Timeout:    cfg.DownloadTimeout,
		ProxyHost:  cfg.ProxyHost,
		ProxyUser:  cfg.ProxyUser,
		ProxyPass:  cfg.ProxyPass,
		CacheFile:  cfg.CacheFile,
		CacheTTL:   cfg.CacheTTL,
		HTMLToText: cfg.HTMLToText,
	}
	// one client for the word list and the tagger data
	opts.Client = fetchlib.NewClient(opts)

	fetcher, err := fetchlib.New(opts, logger)
	if err != nil {
		exitOnError(logger, "fetcher init failed", err)
	}

	store, err := poslib.NewResourceStore(poslib.StoreOptions{
		DataDir:   cfg.DataDir,
		Resources: cfg.Resources,
		Client:    opts.Client,
		Logger:    logger,
	})
	if err != nil {
		exitOnError(logger, "resource store init failed", err)
	}

	_, err = pipeline.RunTaggedWords(context.Background(), pipeline.Config{
		URL:         cfg.URL,
		Limit:       cfg.Limit,
		OutputFile:  cfg.OutputFile,
		Tagset:      cfg.Tagset,
		PreviewRows: cfg.PreviewRows,
	}, store, fetcher, poslib.NewProseTagger(store), os.Stdout)
	if err != nil {
		exitOnError(logger, "pipeline failed", err)
	}
}
