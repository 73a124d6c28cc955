/*
Cnfserver starts a grammar normalization server and begins listening for new
connections.

Usage:

	cnfserver [flags]
	cnfserver [flags] -l [[ADDRESS]:PORT]

Once started, the server will listen for HTTP requests and respond to them
using REST protocol. By default, it will listen on localhost:8080. This can be
changed with the --listen/-l flag (or config via environment var). The flag
argument must be either a full address with port, such as "192.168.0.2:6001",
or just the IP address preceeded by a colon, such as ":6001".

The flags are:

	-v, --version
		Give the current version of the server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		CHOMSKY_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable CHOMSKY_DATABASE. If no DB driver
		is specified or an empty one is given, an in-memory database is
		automatically selected.

	--error-delay MILLISECONDS
		Wait the given number of milliseconds before sending server errors and
		method-not-allowed responses. Defaults to 1000. A negative value turns
		the delay off.

	-k, --keep-empty
		Keep the empty string in the normal form of grammars whose create
		request does not set keep_empty.

	--max-strings LENGTH
		Refuse strings requests for strings longer than LENGTH symbols.
		Defaults to 12.

	--strings LENGTH
		Use LENGTH for strings requests that do not give a max. Defaults to 4,
		or to the --max-strings value if that is smaller.
*/
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/chomsky/internal/version"
	"github.com/dekarrin/chomsky/server"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "CHOMSKY_LISTEN_ADDRESS"
	EnvDB     = "CHOMSKY_DATABASE"
)

var (
	flagVersion    = pflag.BoolP("version", "v", false, "Give the current version of the server and then exit.")
	flagListen     = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagDB         = pflag.String("db", "", "Use the given DB connection string.")
	flagErrorDelay = pflag.Int("error-delay", 0, "Wait this many milliseconds before sending error responses.")
	flagKeepEmpty  = pflag.BoolP("keep-empty", "k", false, "Keep the empty string in normal forms unless a request says otherwise.")
	flagMaxStrings = pflag.Int("max-strings", 0, "Refuse strings requests for strings longer than this.")
	flagStrings    = pflag.Int("strings", 0, "Use this length for strings requests that do not give one.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (chomsky v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	args := pflag.Args()

	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	// get address info
	port := 0
	addr := ""
	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr != "" {
		bindParts := strings.SplitN(listenAddr, ":", 2)
		if len(bindParts) != 2 {
			fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
			os.Exit(1)
		}

		var err error

		addr = bindParts[0]
		port, err = strconv.Atoi(bindParts[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%q is not a valid port number.\nDo -h for help.\n", bindParts[1])
			os.Exit(1)
		}
	}

	// assemble a server config
	var cfg server.Config

	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
			os.Exit(1)
		}
		cfg.DB = db
	}

	cfg.ErrorDelayMillis = *flagErrorDelay
	cfg.Normalization = server.Normalization{
		KeepEmpty:        *flagKeepEmpty,
		MaxStringsLength: *flagMaxStrings,
		StringsLength:    *flagStrings,
	}

	// configuration complete, initialize the server
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	defer srv.Close()
	log.Printf("DEBUG Server initialized")

	log.Printf("INFO  Starting chomsky server %s...", version.ServerCurrent)
	srv.ServeForever(addr, port)
}
