package logger

// Log levels accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config holds configuration for the logger.
type Config struct {
	// Level sets the minimum level that is emitted. Unknown values
	// fall back to Info.
	Level string `yaml:"level" envconfig:"LOGGER_LEVEL"`

	// ServiceName is attached to every log entry as the "service" field.
	ServiceName string `yaml:"service_name" envconfig:"LOGGER_SERVICE_NAME"`
}
