// Package config provides runtime configuration values for the pipeline.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds configuration knobs for the extract, load and catalog stages.
type Config struct {
	DBType     string
	DBPath     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	CustomersCSV string
	ProductsCSV  string
	SalesCSV     string
	ReportPath   string

	MongoURI string
	MongoDB  string

	// CountryCode is the calling-code prefix applied to normalized phone
	// numbers, without the leading plus.
	CountryCode string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load collects configuration from the environment with defaults. A .env file
// in the working directory is honored when present.
func Load() Config {
	_ = godotenv.Load()

	dbType := getenv("DB_TYPE", "sqlite")
	defPort := "3306"
	if dbType == "postgres" {
		defPort = "5432"
	}
	return Config{
		DBType:       dbType,
		DBPath:       getenv("DB_PATH", "fleximart.db"),
		DBHost:       getenv("DB_HOST", "localhost"),
		DBPort:       getenv("DB_PORT", defPort),
		DBName:       getenv("DB_NAME", "fleximart"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		CustomersCSV: getenv("CUSTOMERS_CSV", "customers_raw.csv"),
		ProductsCSV:  getenv("PRODUCTS_CSV", "products_raw.csv"),
		SalesCSV:     getenv("SALES_CSV", "sales_raw.csv"),
		ReportPath:   getenv("REPORT_PATH", "data_quality_report.txt"),
		MongoURI:     getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getenv("MONGO_DB", "fleximart"),
		CountryCode:  getenv("DEFAULT_COUNTRY_CODE", "91"),
	}
}

// Validate fails fast on configuration the load stage cannot work with.
// Network databases require credentials; sqlite does not.
func (c Config) Validate() error {
	switch c.DBType {
	case "sqlite":
		return nil
	case "mysql", "postgres":
		if c.DBUser == "" {
			return fmt.Errorf("DB_USER not set: set DB_USER in the environment or .env file")
		}
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD not set: set DB_PASSWORD in the environment or .env file")
		}
		return nil
	default:
		return fmt.Errorf("DB_TYPE must be sqlite, mysql or postgres, got %q", c.DBType)
	}
}
