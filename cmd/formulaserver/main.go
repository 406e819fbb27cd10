// Command formulaserver runs the formula engine's HTTP API against a sqlite
// workbook.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/dekarrin/formulaengine/cellstore"
	"github.com/dekarrin/formulaengine/server"
)

type config struct {
	ListenAddr string `toml:"listen_addr"`
	DBPath     string `toml:"db_path"`
	APIKeyHash string `toml:"api_key_hash"`
	JWTSecret  string `toml:"jwt_secret"`
}

func main() {
	configPath := pflag.StringP("config", "c", "formulaserver.toml", "path to server config file")
	pflag.Parse()

	var cfg config
	if _, err := toml.DecodeFile(*configPath, &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "formulaserver:", err)
		os.Exit(1)
	}

	store, err := cellstore.OpenSQLite(cfg.DBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "formulaserver:", err)
		os.Exit(1)
	}
	defer store.Close()

	srv := server.New(store, cfg.APIKeyHash, cfg.JWTSecret)

	fmt.Println("formulaserver listening on", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Router()); err != nil {
		fmt.Fprintln(os.Stderr, "formulaserver:", err)
		os.Exit(1)
	}
}
