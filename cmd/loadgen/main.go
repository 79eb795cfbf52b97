// Package main drives scan and click traffic against the menu analytics service.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"menu-analytics-service/internal/loadgen"
)

func main() {
	cfg, err := loadgen.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[LOADGEN] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, err := loadgen.Run(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatalf("attack failed: %v", err)
	}
	if metrics.Success < 1 {
		log.Printf("%d requests, success ratio %.2f%%", metrics.Requests, metrics.Success*100)
		os.Exit(1)
	}
}
