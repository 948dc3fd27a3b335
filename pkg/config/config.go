package config

// Chat definition chat_service YAML structure
type Chat struct {
	Port string `mapstructure:"port"`

	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Mongo      DatabaseConfig `mapstructure:"mongo"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
	RabbitMQ   RabbitConfig   `mapstructure:"rabbitmq"`
	MinIO      MinIOConfig    `mapstructure:"minio"`

	Typing   TypingConfig   `mapstructure:"typing"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
}

// NotifyWorker definition notify_worker YAML structure
type NotifyWorker struct {
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	RabbitMQ   RabbitConfig   `mapstructure:"rabbitmq"`
}

// TypingConfig live typing 廣播設定，啟動後固定
type TypingConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MinIntervalMS int  `mapstructure:"min_interval_ms"`
	MaxContentLen int  `mapstructure:"max_content_len"`
}

// DeliveryConfig delivery state machine 設定
type DeliveryConfig struct {
	AutoDelayMS int `mapstructure:"auto_delay_ms"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	RetryInterval int      `mapstructure:"retry_interval"`
	RetryCount    int      `mapstructure:"retry_count"`
}

// RabbitConfig definition rabbitmq setting
type RabbitConfig struct {
	IP            string `mapstructure:"ip"`
	Port          string `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Queue         string `mapstructure:"queue"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// MinIOConfig definition minio setting
type MinIOConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	BucketName    string `mapstructure:"bucket_name"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}
