// exports the most frequent English words as a ranked CSV and a plain list
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
)

const defaultOutput = "top_5000_english_words.csv"

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
	cfg, err := configlib.Load("topwords", defaultOutput)
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

	fetcher, err := fetchlib.New(&fetchlib.Options{
		Timeout:    cfg.DownloadTimeout,
		ProxyHost:  cfg.ProxyHost,
		ProxyUser:  cfg.ProxyUser,
		ProxyPass:  cfg.ProxyPass,
		CacheFile:  cfg.CacheFile,
		CacheTTL:   cfg.CacheTTL,
		HTMLToText: cfg.HTMLToText,
	}, logger)
	if err != nil {
		exitOnError(logger, "fetcher init failed", err)
	}

	_, err = pipeline.RunTopWords(context.Background(), pipeline.Config{
		URL:         cfg.URL,
		Limit:       cfg.Limit,
		OutputFile:  cfg.OutputFile,
		PreviewRows: cfg.PreviewRows,
	}, fetcher, os.Stdout)
	if err != nil {
		exitOnError(logger, "pipeline failed", err)
	}
}
