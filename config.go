package presence

import (
	"fmt"
	"io/ioutil"
	"net"
	"time"

	"gopkg.in/yaml.v2"
)

// A sensible default configuration for the reflector in YAML
var defaultReflectorConfigYAML = `
listen:
    bind:           0.0.0.0:4444
    recv_buffer:    2097600

limits:
    cooldown:       10
    idle:           300
    fanout:         50
    max_pps:        5000

api:
    bind:   0.0.0.0:5000

tags:   {}
`

// ListenConfig describes the configuration of the listening socket.
type ListenConfig struct {
	Bind       string `yaml:"bind"`
	RecvBuffer int    `yaml:"recv_buffer"`
}

// ResolveUDPAddr converts the lc's bind string into a net.UDPAddr
// pointer.
func (lc *ListenConfig) ResolveUDPAddr() (*net.UDPAddr, error) {
	return net.ResolveUDPAddr("udp", lc.Bind)
}

// LimitsConfig holds the damping parameters. Cooldown and Idle are in
// seconds.
type LimitsConfig struct {
	Cooldown int64   `yaml:"cooldown"`
	Idle     int64   `yaml:"idle"`
	Fanout   int     `yaml:"fanout"`
	MaxPPS   float64 `yaml:"max_pps"`
}

// CooldownDuration is the minimum interval between accepted packets
// from the same source.
func (lc *LimitsConfig) CooldownDuration() time.Duration {
	return time.Duration(lc.Cooldown) * time.Second
}

// IdleDuration is how long a contact can go without sending before a
// reflection pass evicts it.
func (lc *LimitsConfig) IdleDuration() time.Duration {
	return time.Duration(lc.Idle) * time.Second
}

// APIConfig describes the parameters for the JSON HTTP API.
type APIConfig struct {
	Bind string `yaml:"bind"`
}

// ReflectorConfig wraps all of the above and defines the overall
// configuration for a reflector.
type ReflectorConfig struct {
	Listen ListenConfig `yaml:"listen"`
	Limits LimitsConfig `yaml:"limits"`
	API    APIConfig    `yaml:"api"`
	Tags   Tags         `yaml:"tags"`
}

//
// Config Creators
//

// NewDefaultReflectorConfig provides a sensible default reflector
// config.
func NewDefaultReflectorConfig() (*ReflectorConfig, error) {
	return NewReflectorConfig([]byte(defaultReflectorConfigYAML))
}

// NewReflectorConfig provides a parsed ReflectorConfig based on the
// provided data.
//
// `data` is expected to be a byte slice version of a YAML
// ReflectorConfig.
func NewReflectorConfig(data []byte) (*ReflectorConfig, error) {
	rc := &ReflectorConfig{}
	err := yaml.Unmarshal(data, rc)
	if err != nil {
		return rc, fmt.Errorf("Failed to parse reflector config: %s", err)
	}
	return rc, nil
}

// NewReflectorConfigFromPath attempts to parse and load a
// configuration file from the provided string path.
func NewReflectorConfigFromPath(path string) (*ReflectorConfig, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return &ReflectorConfig{}, err
	}
	return NewReflectorConfig(data)
}
