package excel

import (
	"time"

	"bankinfer/adapters/datareadiness/coercer"
)

// ReaderConfig holds configuration shared by the file and remote sources
type ReaderConfig struct {
	Sheet          string                 `json:"sheet"`     // XLSX sheet; empty means the first sheet
	Delimiter      rune                   `json:"delimiter"` // CSV field separator
	FetchTimeout   time.Duration          `json:"fetch_timeout"`
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultReaderConfig returns sensible defaults
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Delimiter:      ',',
		FetchTimeout:   30 * time.Second,
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
