package server

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dekarrin/chomsky/server/cnfs"
	"github.com/dekarrin/chomsky/server/dao"
	"github.com/dekarrin/chomsky/server/dao/inmem"
	"github.com/dekarrin/chomsky/server/dao/sqlite"
	"github.com/dekarrin/chomsky/server/serr"
)

// Defaults applied by Config.FillDefaults.
const (
	DefaultDriver           = "inmem"
	DefaultErrorDelayMillis = 1000
	DefaultMaxStringsLength = cnfs.DefaultMaxStringsLength
	DefaultStringsLength    = 4
)

// storeDriver opens one kind of grammar store.
type storeDriver struct {
	// usesDir is whether the driver keeps its data under Database.DataDir.
	usesDir bool
	open    func(dataDir string) (dao.Store, error)
}

var storeDrivers = map[string]storeDriver{
	"inmem": {
		open: func(string) (dao.Store, error) {
			return inmem.NewDatastore(), nil
		},
	},
	"sqlite": {
		usesDir: true,
		open: func(dataDir string) (dao.Store, error) {
			if err := os.MkdirAll(dataDir, 0770); err != nil {
				return nil, serr.WrapDB("create data dir", err)
			}
			store, err := sqlite.NewDatastore(dataDir)
			if err != nil {
				return nil, serr.WrapDB("open sqlite grammar store", err)
			}
			return store, nil
		},
	},
}

// DriverNames returns the name of every supported grammar store driver in
// alphabetical order.
func DriverNames() []string {
	names := make([]string, 0, len(storeDrivers))
	for name := range storeDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Database says where normalized grammars are kept.
type Database struct {
	// Driver is the name of the store driver, one of DriverNames().
	Driver string

	// DataDir is the directory the store keeps its files in. Only drivers
	// that persist to disk use it.
	DataDir string
}

func (db Database) driver() (storeDriver, error) {
	d, ok := storeDrivers[db.Driver]
	if !ok {
		return storeDriver{}, serr.New(fmt.Sprintf("driver %q is not one of %s", db.Driver, strings.Join(DriverNames(), ", ")), serr.ErrBadArgument)
	}
	return d, nil
}

// Connect opens the grammar store db describes. Any error from opening an
// existing store matches serr.ErrDB; an unknown driver matches
// serr.ErrBadArgument.
func (db Database) Connect() (dao.Store, error) {
	d, err := db.driver()
	if err != nil {
		return nil, err
	}
	return d.open(db.DataDir)
}

// Validate returns an error matching serr.ErrBadArgument if the driver is
// unknown or is missing the data dir it needs.
func (db Database) Validate() error {
	d, err := db.driver()
	if err != nil {
		return err
	}
	if d.usesDir && db.DataDir == "" {
		return serr.New(fmt.Sprintf("driver %q needs a data dir", db.Driver), serr.ErrBadArgument)
	}
	if !d.usesDir && db.DataDir != "" {
		return serr.New(fmt.Sprintf("driver %q does not take a data dir", db.Driver), serr.ErrBadArgument)
	}
	return nil
}

// ParseDBConnString parses a connection string of the form "DRIVER" or
// "DRIVER:DATADIR", such as "inmem" or "sqlite:/var/lib/chomsky". The driver
// name is not case-sensitive.
func ParseDBConnString(s string) (Database, error) {
	driver, dataDir, _ := strings.Cut(s, ":")
	db := Database{
		Driver:  strings.ToLower(strings.TrimSpace(driver)),
		DataDir: strings.TrimSpace(dataDir),
	}
	if err := db.Validate(); err != nil {
		return Database{}, fmt.Errorf("connection string %q: %w", s, err)
	}
	return db, nil
}

// Normalization holds the settings applied to grammars the server converts
// and the questions it answers about them.
type Normalization struct {
	// KeepEmpty is whether a grammar whose language has the empty string keeps
	// it in the normal form when the create request does not say.
	KeepEmpty bool

	// MaxStringsLength is the longest string length a strings request may ask
	// for. Enumeration grows exponentially with the length.
	MaxStringsLength int

	// StringsLength is the length used by strings requests that do not give
	// one. It may not exceed MaxStringsLength.
	StringsLength int
}

// Config holds every setting of a Server.
type Config struct {
	// DB is where grammars are stored. Defaults to the in-memory store.
	DB Database

	// Normalization holds the conversion defaults and enumeration limits.
	Normalization Normalization

	// ErrorDelayMillis is how long to wait before answering with an HTTP-405
	// or HTTP-500, to slow down naive clients that flood the server. Defaults
	// to 1000; any negative number turns the delay off.
	ErrorDelayMillis int
}

// ErrorDelay gives ErrorDelayMillis as a time.Duration, which is zero when the
// delay is off.
func (cfg Config) ErrorDelay() time.Duration {
	if cfg.ErrorDelayMillis < 1 {
		return 0
	}
	return time.Duration(cfg.ErrorDelayMillis) * time.Millisecond
}

// FillDefaults returns a copy of cfg with each unset setting given its
// default.
func (cfg Config) FillDefaults() Config {
	if cfg.DB.Driver == "" {
		cfg.DB = Database{Driver: DefaultDriver}
	}
	if cfg.ErrorDelayMillis == 0 {
		cfg.ErrorDelayMillis = DefaultErrorDelayMillis
	}
	if cfg.Normalization.MaxStringsLength == 0 {
		cfg.Normalization.MaxStringsLength = DefaultMaxStringsLength
	}
	if cfg.Normalization.StringsLength == 0 {
		cfg.Normalization.StringsLength = DefaultStringsLength
		if cfg.Normalization.StringsLength > cfg.Normalization.MaxStringsLength {
			cfg.Normalization.StringsLength = cfg.Normalization.MaxStringsLength
		}
	}
	return cfg
}

// Validate returns an error if any setting of cfg is invalid. Unset settings
// are invalid, so call it on the result of FillDefaults to use defaults.
func (cfg Config) Validate() error {
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}

	n := cfg.Normalization
	if n.MaxStringsLength < 1 {
		return serr.New(fmt.Sprintf("normalization: max strings length must be positive, not %d", n.MaxStringsLength), serr.ErrBadArgument)
	}
	if n.StringsLength < 1 || n.StringsLength > n.MaxStringsLength {
		return serr.New(fmt.Sprintf("normalization: strings length must be between 1 and %d, not %d", n.MaxStringsLength, n.StringsLength), serr.ErrBadArgument)
	}

	return nil
}
