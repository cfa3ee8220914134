package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/radarnarcisista/cartaselo/internal/flagx"
	"github.com/radarnarcisista/cartaselo/internal/timex"
)

// JsonConfig is the intermediate DTO for reading JSON configuration files.
type JsonConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When no file is named, the
// Config is left untouched.
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

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.ServerBaseURL != "" {
		config.ServerBaseURL = c.ServerBaseURL
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	}
}
