package config

import (
	"encoding/json"
	"os"
	"time"

	"mydiary/internal/flagx"
	"mydiary/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. It uses timex.Duration
// for interval fields, which parses both string values such as "10s" and
// integer nanoseconds. Only fields present in the file override defaults.
type JsonConfig struct {
	EndpointAddrHTTP        *string         `json:"endpoint_addr_http"`
	DatabaseDSN             *string         `json:"database_dsn"`
	SecretKey               *string         `json:"secret_key"`
	SessionValidityDuration *timex.Duration `json:"session_validity_duration"`
	MessageCooldown         *timex.Duration `json:"message_cooldown"`
	DailySubmissionCap      *int64          `json:"daily_submission_cap"`
	NoteMinLen              *int            `json:"note_min_len"`
	NoteMaxLen              *int            `json:"note_max_len"`
	BioMaxLen               *int            `json:"bio_max_len"`
	Denylist                []string        `json:"denylist"`
	PageSize                *int            `json:"page_size"`
	ListingCacheSize        *int            `json:"listing_cache_size"`
	ListingCacheTTL         *timex.Duration `json:"listing_cache_ttl"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config. The file path comes from the -c/-config flags; when neither is
// set, no file is loaded. Unreadable or invalid files panic, matching flag
// parsing behavior.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = time.Duration(c.SessionValidityDuration.Duration)
	}
	if c.MessageCooldown != nil {
		config.MessageCooldown = time.Duration(c.MessageCooldown.Duration)
	}
	if c.DailySubmissionCap != nil {
		config.DailySubmissionCap = *c.DailySubmissionCap
	}
	if c.NoteMinLen != nil {
		config.NoteMinLen = *c.NoteMinLen
	}
	if c.NoteMaxLen != nil {
		config.NoteMaxLen = *c.NoteMaxLen
	}
	if c.BioMaxLen != nil {
		config.BioMaxLen = *c.BioMaxLen
	}
	if c.Denylist != nil {
		config.Denylist = c.Denylist
	}
	if c.PageSize != nil {
		config.PageSize = *c.PageSize
	}
	if c.ListingCacheSize != nil {
		config.ListingCacheSize = *c.ListingCacheSize
	}
	if c.ListingCacheTTL != nil {
		config.ListingCacheTTL = time.Duration(c.ListingCacheTTL.Duration)
	}
}
