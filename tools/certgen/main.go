// Package main generates a self-signed development certificate for the
// ListKeeper server, writing it to files under the "certs" directory.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/listkeeper/internal/certgen"
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated DNS names and IPs")
	validity := flag.Duration("validity", 365*24*time.Hour, "certificate validity")
	flag.Parse()

	if err := run(*dir, splitHosts(*hosts), *validity); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("✅ Certificates generated into ./%s\n", *dir)
}

// run writes server.crt and server.key into dir.
func run(dir string, hosts []string, validity time.Duration) error {
	certPEM, keyPEM, err := certgen.GenerateServerCertificate(hosts, validity)
	if err != nil {
		return err
	}
	return certgen.WriteFiles(filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key"), certPEM, keyPEM)
}

func splitHosts(s string) []string {
	var hosts []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
