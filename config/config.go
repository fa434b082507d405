package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"basil-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// PostgreSQL (catalog database)
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"basil"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Graph Database (Memgraph)
	GraphDBEnabled  bool   `env:"GRAPH_DB_ENABLED" env-default:"true"`
	GraphDBHost     string `env:"GRAPH_DB_HOST" env-default:"localhost"`
	GraphDBPort     int    `env:"GRAPH_DB_PORT" env-default:"7687"`
	GraphDBUser     string `env:"GRAPH_DB_USER" env-default:""`
	GraphDBPassword string `env:"GRAPH_DB_PASSWORD" env-default:""`

	// Catalog source files (defaults for dataset loads)
	RecipesFilePath             string `env:"RECIPES_FILE_PATH" env-default:"database/01_Recipe_Details.json"`
	RecipesFileFormat           string `env:"RECIPES_FILE_FORMAT" env-default:"json"`
	IngredientsFilePath         string `env:"INGREDIENTS_FILE_PATH" env-default:"database/02_Ingredients.json"`
	IngredientsFileFormat       string `env:"INGREDIENTS_FILE_FORMAT" env-default:"json"`
	CompoundIngredientsFilePath string `env:"COMPOUND_INGREDIENTS_FILE_PATH" env-default:"database/03_Compound_Ingredients.json"`
	CompoundIngredientsFormat   string `env:"COMPOUND_INGREDIENTS_FILE_FORMAT" env-default:"json"`
	RelationsFilePath           string `env:"RELATIONS_FILE_PATH" env-default:"database/04_Recipe-Ingredients_Aliases.json"`
	RelationsFileFormat         string `env:"RELATIONS_FILE_FORMAT" env-default:"json"`

	// Kafka Consumer (record-stream ingestion)
	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaInputTopic      string   `env:"KAFKA_INPUT_TOPIC" env-default:"catalog-records"`
	KafkaConsumerGroup   string   `env:"KAFKA_CONSUMER_GROUP" env-default:"basil-consumer"`
	KafkaConsumerEnabled bool     `env:"KAFKA_CONSUMER_ENABLED" env-default:"false"`

	// Kafka Producer settings
	KafkaEventsEnabled bool   `env:"KAFKA_EVENTS_ENABLED" env-default:"true"`
	KafkaOutputTopic   string `env:"KAFKA_OUTPUT_TOPIC" env-default:"catalog-events"`
	KafkaBatchSize     int    `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout  int    `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks  int    `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression   string `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Analysis
	SimilarityThreshold   float64 `env:"SIMILARITY_THRESHOLD" env-default:"0.5"`
	UncommonThreshold     int     `env:"UNCOMMON_THRESHOLD" env-default:"5"`
	PopularTopN           int     `env:"POPULAR_TOP_N" env-default:"10"`
	CentralityDefaultTopN int     `env:"CENTRALITY_DEFAULT_TOP_N" env-default:"10"`
	GraphSnapshotPath     string  `env:"GRAPH_SNAPSHOT_PATH" env-default:""`
}
