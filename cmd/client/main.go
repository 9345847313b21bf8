// Package main is the ListKeeper interactive command-line client.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atinyakov/listkeeper/internal/certgen"
	"github.com/atinyakov/listkeeper/internal/client"
)

var (
	version   string
	buildDate string
)

// main parses command-line flags and starts the shell.
func main() {
	var (
		baseURL     string
		caFile      string
		sessionFile string
		showVer     bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&caFile, "ca", "", "path to the server certificate to trust for https")
	flag.StringVar(&sessionFile, "session", client.DefaultSessionFile, "path to the session file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("ListKeeper Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	if caFile != "" {
		pool, err := certgen.LoadCertPool(caFile)
		if err != nil {
			log.Fatal(err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
		}
	}

	session, err := client.LoadSession(sessionFile)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.NewAPI(baseURL, httpClient, session)
	if err := client.NewShell(api, session, os.Stdin, os.Stdout).Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}
