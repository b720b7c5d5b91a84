package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sheetform/pkg/api"
	"sheetform/pkg/config"

	log "github.com/sirupsen/logrus"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose logging")
	configFile := flag.String("config", "", "Path to a sheetform.toml config file")

	flag.Parse()
	cfg, err := config.Load(config.New(*configFile))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *verbose || cfg.Verbose {
		// Set the log level to debug
		log.SetLevel(log.DebugLevel)
	}
	// Set the log format to include a leading timestamp in ISO8601 format
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	svc, err := api.NewServiceFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to set up credentials: %v", err)
	}
	if cfg.SpreadsheetID == "" {
		log.Warn("No default spreadsheet configured, clients must name one in every request")
	}
	router := api.GetRouter(api.NewHandler(svc, cfg.SpreadsheetID))
	go startServer(cfg.ListenAddress, router)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

mainloop:
	// In all cases, just exit and let the container restart from scratch.
	// There's less to get wrong doing it this way.
	for {
		select {
		case <-signalChan:
			log.Info("Signalled, breaking main loop")
			break mainloop
		}
	}
}

func startServer(addr string, router http.Handler) {
	server := http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
	}
	log.Infof("listening for HTTP on: %s", server.Addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("ListenAndServeError", err)
	}
}
