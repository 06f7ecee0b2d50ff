package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the JSON-specific representation of the service
// configuration. It mirrors [StructuredConfig] but uses JSON struct tags and
// the custom [Duration] type so that duration values can be expressed as
// human-readable strings (e.g. "1h", "30s") in the config file.
//
// After decoding, the values are mapped into a [StructuredConfig] by
// [parseJSON].
type StructuredJSONConfig struct {
	// KeyManager holds key-lifecycle settings loaded from the JSON file.
	KeyManager struct {
		Preset                     string `json:"preset"`
		CertPath                   string `json:"cert_path"`
		KeyExpiryMonths            int    `json:"key_expiry_months"`
		AutoGenerate               bool   `json:"auto_generate"`
		EnableFileBackup           bool   `json:"enable_file_backup"`
		RotationGracePeriodMinutes int    `json:"rotation_grace_period_minutes"`
		RotationIntervalWeeks      int    `json:"rotation_interval_weeks"`
	} `json:"key_manager,omitempty"`

	// Server holds HTTP server settings loaded from the JSON file.
	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	// Client holds client cache/transport settings loaded from the JSON file.
	Client struct {
		PublicKeyURL string   `json:"public_key_url"`
		CacheTTL     Duration `json:"cache_ttl"`
		FetchTimeout Duration `json:"fetch_timeout"`
		FetchRetries int      `json:"fetch_retries"`
	} `json:"client,omitempty"`
}

// parseJSON opens the JSON file at jsonFilePath, decodes it into a
// [StructuredJSONConfig], and maps the result into a [StructuredConfig].
//
// JSONFilePath is intentionally left empty in the returned config so that
// the path is not re-processed during subsequent merge steps.
//
// Returns a wrapped error if the file cannot be opened or its contents
// cannot be decoded as valid JSON.
func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		KeyManager: KeyManager{
			Preset:                     jsonCfg.KeyManager.Preset,
			CertPath:                   jsonCfg.KeyManager.CertPath,
			KeyExpiryMonths:            jsonCfg.KeyManager.KeyExpiryMonths,
			AutoGenerate:               jsonCfg.KeyManager.AutoGenerate,
			EnableFileBackup:           jsonCfg.KeyManager.EnableFileBackup,
			RotationGracePeriodMinutes: jsonCfg.KeyManager.RotationGracePeriodMinutes,
			RotationIntervalWeeks:      jsonCfg.KeyManager.RotationIntervalWeeks,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Client: Client{
			PublicKeyURL: jsonCfg.Client.PublicKeyURL,
			CacheTTL:     time.Duration(jsonCfg.Client.CacheTTL),
			FetchTimeout: time.Duration(jsonCfg.Client.FetchTimeout),
			FetchRetries: jsonCfg.Client.FetchRetries,
		},
		JSONFilePath: "", // intentionally cleared to prevent re-processing
	}

	return cfg, nil
}

// Duration is a thin wrapper around [time.Duration] that adds JSON
// unmarshaling support for human-readable duration strings such as "1h",
// "30m", or "15s", in addition to raw nanosecond integers.
//
// Use Duration in JSON config structs wherever a time.Duration field is
// needed. Convert back to time.Duration with a simple cast:
//
//	d := Duration(5 * time.Minute)
//	std := time.Duration(d) // → 5m0s
type Duration time.Duration

// UnmarshalJSON implements [json.Unmarshaler] for Duration.
//
// Supported JSON value types:
//   - string: parsed with [time.ParseDuration] (e.g. "1h30m", "30s").
//   - number: treated as a raw nanosecond count (same as time.Duration).
//
// Returns an error if the value is a string that cannot be parsed as a
// duration, or if the JSON value is of an unsupported type.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

// MarshalJSON implements [json.Marshaler] for Duration.
// The value is serialized as a human-readable string using
// [time.Duration.String] (e.g. "1h0m0s", "30m0s").
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
