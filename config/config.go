package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"fern-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// PostgreSQL (linkage artifact store)
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"fern"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Graph Database (Memgraph) for lineage projection
	GraphDBEnabled  bool   `env:"GRAPH_DB_ENABLED" env-default:"false"`
	GraphDBHost     string `env:"GRAPH_DB_HOST" env-default:"localhost"`
	GraphDBPort     int    `env:"GRAPH_DB_PORT" env-default:"7687"`
	GraphDBUser     string `env:"GRAPH_DB_USER" env-default:""`
	GraphDBPassword string `env:"GRAPH_DB_PASSWORD" env-default:""`

	// Kafka Consumer (source record intake)
	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaInputTopic      string   `env:"KAFKA_INPUT_TOPIC" env-default:"source-records"`
	KafkaConsumerGroup   string   `env:"KAFKA_CONSUMER_GROUP" env-default:"fern-consumer"`
	KafkaConsumerEnabled bool     `env:"KAFKA_CONSUMER_ENABLED" env-default:"true"`

	// Kafka Producer (reconciliation events)
	KafkaOutputTopic  string `env:"KAFKA_OUTPUT_TOPIC" env-default:"reconciliation-events"`
	KafkaBatchSize    int    `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int    `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int    `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Aggregation
	SourcePriorities   string `env:"SOURCE_PRIORITIES" env-default:""` // "dataset:rank,dataset:rank"
	DefaultCountryCode string `env:"DEFAULT_COUNTRY_CODE" env-default:"ES"`
	GroupWorkerCount   int    `env:"GROUP_WORKER_COUNT" env-default:"4"`

	// Lead scoring weights
	LeadWeightCompleteness float64 `env:"LEAD_WEIGHT_COMPLETENESS" env-default:"0.30"`
	LeadWeightEmail        float64 `env:"LEAD_WEIGHT_EMAIL" env-default:"0.25"`
	LeadWeightPhone        float64 `env:"LEAD_WEIGHT_PHONE" env-default:"0.15"`
	LeadWeightPriority     float64 `env:"LEAD_WEIGHT_PRIORITY" env-default:"0.20"`
	LeadWeightIntent       float64 `env:"LEAD_WEIGHT_INTENT" env-default:"0.10"`

	// Entity resolution
	UseProbabilistic bool    `env:"USE_PROBABILISTIC" env-default:"true"`
	MatchThreshold   float64 `env:"MATCH_THRESHOLD" env-default:"0.9"`
	ReviewThreshold  float64 `env:"REVIEW_THRESHOLD" env-default:"0.7"`
	RejectThreshold  float64 `env:"REJECT_THRESHOLD" env-default:"0.0"`

	// Review workflow
	ReviewProjectionFields []string `env:"REVIEW_PROJECTION_FIELDS" env-default:""`
}

// ParseSourcePriorities parses the SOURCE_PRIORITIES value ("crm:3,erp:2")
// into the dataset rank table used by the aggregation engine.
func (c Config) ParseSourcePriorities() (map[string]int, error) {
	table := make(map[string]int)
	if strings.TrimSpace(c.SourcePriorities) == "" {
		return table, nil
	}

	for _, pair := range strings.Split(c.SourcePriorities, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid source priority entry %q", pair)
		}
		rank, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid source priority rank in %q: %w", pair, err)
		}
		table[strings.TrimSpace(parts[0])] = rank
	}

	return table, nil
}

// LeadWeights returns the configured lead score weight map.
func (c Config) LeadWeights() map[string]float64 {
	return map[string]float64{
		"completeness":     c.LeadWeightCompleteness,
		"email_confidence": c.LeadWeightEmail,
		"phone_confidence": c.LeadWeightPhone,
		"source_priority":  c.LeadWeightPriority,
		"intent":           c.LeadWeightIntent,
	}
}
