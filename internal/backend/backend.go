package backend

import (
	"fmt"

	"jiaban/internal/amqp"
	"jiaban/internal/config"
	"jiaban/internal/sheet"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the created table, the optional AMQP client and an
// optional cleanup function.
type Result struct {
	Table   sheet.Table
	Events  *amqp.Client
	Cleanup CleanupFunc
}

// Type represents the type of backend
type Type string

const (
	SQLiteBackend Type = "sqlite"
	SheetsBackend Type = "sheets"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// AMQP, optional for the sqlite backend
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets specific
	SpreadsheetID     string
	SheetName         string
	CredentialsBase64 string
	CredentialsJSON   string
	CredentialsFile   string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SQLiteDBPath: appConfig.SQLiteDBPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		SpreadsheetID:     appConfig.GoogleSpreadsheetID,
		SheetName:         appConfig.GoogleSheetName,
		CredentialsBase64: appConfig.GoogleCredentialsBase64,
		CredentialsJSON:   appConfig.GoogleCredentialsJSON,
		CredentialsFile:   appConfig.GoogleCredentialsFile,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}

	case SheetsBackend:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
		if c.SheetName == "" {
			return fmt.Errorf("Google Sheet name is required for sheets backend")
		}
		if c.CredentialsBase64 == "" && c.CredentialsJSON == "" && c.CredentialsFile == "" {
			return fmt.Errorf("Google credentials must be provided for sheets backend")
		}

	case MemoryBackend:
		// No additional configuration required.
	}

	return nil
}
