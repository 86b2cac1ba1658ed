package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/chtime/chtime/internal/flagx"
	"github.com/chtime/chtime/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so the TTL can be written either as a string like
// "720h" or as integer nanoseconds.
type JsonConfig struct {
	StorePath     string         `json:"store_path"`
	SessionTTL    timex.Duration `json:"session_ttl"`
	KDFIterations int            `json:"kdf_iterations"`
}

// parseJson overlays cfg with values from the JSON file named by the
// -c/-config flags. When no file is named, nothing happens. Read or parse
// failures panic; the caller decides whether to recover.
//
// Only fields actually present in the JSON override the existing values.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.StorePath != "" {
		cfg.StorePath = jc.StorePath
	}
	if jc.SessionTTL.Duration != 0 {
		cfg.SessionTTL = time.Duration(jc.SessionTTL.Duration)
	}
	if jc.KDFIterations != 0 {
		cfg.KDFIterations = jc.KDFIterations
	}
}
