package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	CensusAPIKey  string
	CensusYear    int
	FetchCensus   bool
	ScrapeTableau bool

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int

	MasterDBPath       string
	DemographicsPath   string
	StateSummaryPath   string
	BoundariesPath     string
	EnhancedOutputPath string
	GeoJSONOutputDir   string
	CSVOutputPath      string
	TableauCapturePath string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "alice"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "alice123"),
		PostgresDB:       getEnv("POSTGRES_DB", "alice_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		CensusAPIKey:  getEnv("CENSUS_API_KEY", ""),
		CensusYear:    getEnvInt("CENSUS_YEAR", 2022),
		FetchCensus:   getEnvBool("FETCH_CENSUS", false),
		ScrapeTableau: getEnvBool("SCRAPE_TABLEAU", false),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 500),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		MasterDBPath:       getEnv("MASTER_DB_PATH", "./data/alice_master_database.json"),
		DemographicsPath:   getEnv("DEMOGRAPHICS_PATH", "./data/alice_demographics_enhanced.json"),
		StateSummaryPath:   getEnv("STATE_SUMMARY_PATH", "./data/alice_national_summary.json"),
		BoundariesPath:     getEnv("BOUNDARIES_PATH", "./data/geojson-counties-fips.json"),
		EnhancedOutputPath: getEnv("ENHANCED_OUTPUT_PATH", "./output/alice_master_enhanced.json"),
		GeoJSONOutputDir:   getEnv("GEOJSON_OUTPUT_DIR", "./output/features"),
		CSVOutputPath:      getEnv("CSV_OUTPUT_PATH", "./output/enhanced_records.csv"),
		TableauCapturePath: getEnv("TABLEAU_CAPTURE_PATH", "./output/tableau_captures.json"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
