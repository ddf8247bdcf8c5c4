package config

import (
	"flag"
	"os"
)

// Config holds everything the process needs to start. Connection
// details come from the environment (the names match the original
// deployment's dotenv contract); everything else is flags.
type Config struct {
	Addr       string // listen address
	CSVPath    string // dataset snapshot to load when the store is empty
	RunLogPath string // sqlite file for ingestion run history, "" disables
	Debug      bool

	MongoURI   string // DB_CONN_STRING
	DBName     string // DB_NAME
	Collection string // COLLECTION_NAME
}

// FromFlags registers flags on the default FlagSet, parses the command
// line and merges in the environment.
func FromFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.Addr, "addr", ":4000", "Address for the HTTP server to listen on")
	flag.StringVar(&cfg.CSVPath, "csv", "./owid-covid-data.csv", "Path to the dataset CSV snapshot")
	flag.StringVar(&cfg.RunLogPath, "runlog-db", "./data/ingest_runs.db", "SQLite file for ingestion run history (empty disables)")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	flag.Parse()

	cfg.MongoURI = envOr("DB_CONN_STRING", "mongodb://localhost:27017")
	cfg.DBName = envOr("DB_NAME", "covid")
	cfg.Collection = envOr("COLLECTION_NAME", "covid_collection")

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
