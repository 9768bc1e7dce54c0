// Program configgen reads a project .hujson configuration and emits a Go
// source file declaring the frozen public key and bank layout, meant to
// be run by hand or via go:generate ahead of a board build.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/tinkerator/loadstone/config"
)

var (
	configPath = pflag.StringP("config", "c", "", "path to the project .hujson configuration file")
	keyPath    = pflag.StringP("key", "k", "", "path to the raw SEC1-encoded P-256 public key")
	outPath    = pflag.StringP("out", "o", "", "output Go source path ('-' for stdout)")
	pkgName    = pflag.String("package", "boardcfg", "package name for the generated source")
)

func main() {
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("loading configuration", "path", *configPath, "err", err)
	}

	var key []byte
	if *keyPath != "" {
		key, err = os.ReadFile(*keyPath)
		if err != nil {
			log.Fatal("reading public key", "path", *keyPath, "err", err)
		}
	}

	out := os.Stdout
	if *outPath != "" && *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal("creating output file", "path", *outPath, "err", err)
		}
		defer f.Close()
		out = f
	}

	if err := config.Generate(out, *pkgName, cfg, key); err != nil {
		log.Fatal("generating source", "err", err)
	}
}
