// Package server provides an HTTP REST server that normalizes grammars and
// answers questions about the ones it holds.
//
//	POST   /grammars               - normalize a grammar and store both forms
//	GET    /grammars               - get every stored grammar
//	GET    /grammars/{id}          - get one grammar
//	DELETE /grammars/{id}          - delete a grammar
//	POST   /grammars/{id}/accepts  - check a string with CYK on the normal form
//	GET    /grammars/{id}/strings  - list the strings up to ?max=N symbols long
//	GET    /info                   - get version info on the server
package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/dekarrin/chomsky/server/api"
	"github.com/dekarrin/chomsky/server/cnfs"
	"github.com/go-chi/chi/v5"
)

var (
	paramTypePats = map[string]string{
		"uuid": "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	}
)

// Server is an HTTP REST server that normalizes grammars. The zero-value of a
// Server should not be used directly; call New() to get one ready for use.
type Server struct {
	router chi.Router
	api    api.API
}

// New creates a new Server using the given config. Unset values of cfg are
// given their defaults before it is validated.
func New(cfg Config) (Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Server{}, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return Server{}, fmt.Errorf("connect DB: %w", err)
	}

	a := api.API{
		Backend: cnfs.Service{
			DB:               db,
			KeepEmpty:        cfg.Normalization.KeepEmpty,
			MaxStringsLength: cfg.Normalization.MaxStringsLength,
		},
		StringsLength: cfg.Normalization.StringsLength,
		ErrorDelay:    cfg.ErrorDelay(),
	}

	return Server{
		router: newRouter(a),
		api:    a,
	}, nil
}

// ServeHTTP routes the request to the API.
func (s Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// Close closes the connection to persistence.
func (s Server) Close() error {
	return s.api.Backend.DB.Close()
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost". If
// port is less than 1, it will default to 8080.
func (s Server) ServeForever(address string, port int) {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)
	log.Fatalf("FATAL %v", http.ListenAndServe(listenAddress, s))
}

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	var name string
	var pat string

	parts := strings.SplitN(nameType, ":", 2)
	name = parts[0]
	if len(parts) == 2 {
		// we have a type, if it's a name in the paramTypePats map use that else
		// treat it as a normal pattern
		pat = parts[1]

		if translatedPat, ok := paramTypePats[parts[1]]; ok {
			pat = translatedPat
		}
	}

	if pat == "" {
		return "{" + name + "}"
	}
	return "{" + name + ":" + pat + "}"
}

func newRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount(api.PathPrefix, newAPIRouter(a))
	r.NotFound(api.NotFound)

	return r
}

func newAPIRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount("/grammars", newGrammarsRouter(a))
	r.Get("/info", a.HTTPGetInfo())
	r.HandleFunc("/info/", api.RedirectNoTrailingSlash)

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(a.MethodNotAllowed())

	return r
}

func newGrammarsRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.HTTPGetAllGrammars())
	r.Post("/", a.HTTPCreateGrammar())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Get("/", a.HTTPGetGrammar())
		r.Delete("/", a.HTTPDeleteGrammar())
		r.Post("/accepts", a.HTTPAccepts())
		r.Get("/strings", a.HTTPStrings())
	})

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(a.MethodNotAllowed())

	return r
}
