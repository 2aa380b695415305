// Package config loads txflow's configuration, grounded on the
// teacher's config package: defaults set into viper, optionally
// overridden by a YAML file, then overridden again by TXFLOW_-prefixed
// environment variables.
package config

// Config is the top-level configuration for the txflow CLI.
type Config struct {
	LogLevel  string        `json:"logLevel" yaml:"logLevel" mapstructure:"logLevel"`
	LogFormat string        `json:"logFormat" yaml:"logFormat" mapstructure:"logFormat"`
	Engine    *EngineConfig `json:"engine" yaml:"engine" mapstructure:"engine"`
	Node      *NodeConfig   `json:"node" yaml:"node" mapstructure:"node"`
	Output    *OutputConfig `json:"output" yaml:"output" mapstructure:"output"`
}

// EngineConfig tunes the partition-mapping search.
type EngineConfig struct {
	ChunkSize            int    `json:"chunkSize" yaml:"chunkSize" mapstructure:"chunkSize"`
	Workers              int    `json:"workers" yaml:"workers" mapstructure:"workers"`
	SizeWarningThreshold uint64 `json:"sizeWarningThreshold" yaml:"sizeWarningThreshold" mapstructure:"sizeWarningThreshold"`
}

// NodeConfig configures how the external node/explorer collaborator is
// reached (spec.md §6, "external node client").
type NodeConfig struct {
	Kind     string `json:"kind" yaml:"kind" mapstructure:"kind"` // "rpc" or "rest"
	Host     string `json:"host" yaml:"host" mapstructure:"host"`
	Port     int    `json:"port" yaml:"port" mapstructure:"port"`
	User     string `json:"user" yaml:"user" mapstructure:"user"`
	Password string `json:"password" yaml:"password" mapstructure:"password"`
	BaseURL  string `json:"baseUrl" yaml:"baseUrl" mapstructure:"baseUrl"`
}

// OutputConfig configures the result sink.
type OutputConfig struct {
	PartitionMappingFile string `json:"partitionMappingFile" yaml:"partitionMappingFile" mapstructure:"partitionMappingFile"`
	SubsetPairsFile      string `json:"subsetPairsFile" yaml:"subsetPairsFile" mapstructure:"subsetPairsFile"`
	PreviewRows          int    `json:"previewRows" yaml:"previewRows" mapstructure:"previewRows"`
}
