// Package config provides application settings loaded from environment variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Provider-specific configuration lookup

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings holds all application configuration.
type Settings struct {
	LLM   LLMConfig
	Swarm SwarmConfig
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Provider    string
	Model       string
	MaxTokens   uint32
	Temperature float64
}

// SwarmConfig holds orchestration configuration.
type SwarmConfig struct {
	// MaxAgents caps primary agents per swarm.
	MaxAgents int

	// MaxSubAgents caps descriptive sub-agent labels.
	MaxSubAgents int

	// PatternCapacity bounds the in-memory pattern store.
	PatternCapacity int

	// AgentTimeout bounds a single agent invocation.
	AgentTimeout time.Duration

	// PatternDB is the SQLite path for persistent patterns.
	// Empty means patterns live in memory only.
	PatternDB string
}

// providerInfo holds configuration for a specific LLM provider.
type providerInfo struct {
	modelEnv     string
	defaultModel string
	apiKeyEnv    string
}

// Supported providers and their configuration.
var providers = map[string]providerInfo{
	"openai":     {"OPENAI_MODEL", "gpt-4o", "OPENAI_API_KEY"},
	"anthropic":  {"ANTHROPIC_MODEL", "claude-sonnet-4-20250514", "ANTHROPIC_API_KEY"},
	"perplexity": {"PERPLEXITY_MODEL", "sonar", "PERPLEXITY_API_KEY"},
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"claude": "anthropic",
	"gpt":    "openai",
	"sonar":  "perplexity",
}

// New creates settings for the specified provider, loading values from environment variables.
// Returns an error if the provider is unknown or environment variables contain invalid values.
func New(provider string) (Settings, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return Settings{}, err
	}

	maxTokens, temperature, err := NewTuning()
	if err != nil {
		return Settings{}, err
	}

	swarmCfg, err := NewSwarm()
	if err != nil {
		return Settings{}, err
	}

	// Get model from environment or use default
	model := os.Getenv(info.modelEnv)
	if model == "" {
		model = info.defaultModel
	}

	return Settings{
		LLM: LLMConfig{
			Provider:    provider,
			Model:       model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
		Swarm: swarmCfg,
	}, nil
}

// NewTuning loads the generation parameters shared by every provider
// client: LLM_MAX_TOKENS (default 4096) and LLM_TEMPERATURE (default 0.7).
// These are provider-independent, so callers building clients for several
// providers at once load them without picking a provider.
func NewTuning() (maxTokens uint32, temperature float64, err error) {
	maxTokens, err = getEnvUint32("LLM_MAX_TOKENS", 4096)
	if err != nil {
		return 0, 0, err
	}

	temperature, err = getEnvFloat64("LLM_TEMPERATURE", 0.7)
	if err != nil {
		return 0, 0, err
	}

	return maxTokens, temperature, nil
}

// NewSwarm loads only the orchestration configuration. The swarm runs
// agents against several providers at once, so it has no single-provider
// parameter.
func NewSwarm() (SwarmConfig, error) {
	maxAgents, err := getEnvInt("SWARM_MAX_AGENTS", 4)
	if err != nil {
		return SwarmConfig{}, err
	}

	maxSubAgents, err := getEnvInt("SWARM_MAX_SUB_AGENTS", 3)
	if err != nil {
		return SwarmConfig{}, err
	}

	patternCapacity, err := getEnvInt("SWARM_PATTERN_CAPACITY", 500)
	if err != nil {
		return SwarmConfig{}, err
	}

	timeoutSeconds, err := getEnvInt("SWARM_AGENT_TIMEOUT_SECONDS", 120)
	if err != nil {
		return SwarmConfig{}, err
	}

	return SwarmConfig{
		MaxAgents:       maxAgents,
		MaxSubAgents:    maxSubAgents,
		PatternCapacity: patternCapacity,
		AgentTimeout:    time.Duration(timeoutSeconds) * time.Second,
		PatternDB:       os.Getenv("SWARM_PATTERN_DB"),
	}, nil
}

// MustNew creates settings for the specified provider.
// Panics if the provider is unknown or environment variables are invalid.
// Use this only when configuration errors should be fatal.
func MustNew(provider string) Settings {
	settings, err := New(provider)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(provider string) string {
	provider = strings.ToLower(provider)
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

// getProviderInfo returns configuration for a provider.
func getProviderInfo(provider string) (providerInfo, error) {
	info, ok := providers[provider]
	if !ok {
		return providerInfo{}, fmt.Errorf("unknown provider: %q", provider)
	}
	return info, nil
}

// APIKeyFor returns the API key for a provider from environment variables.
func APIKeyFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	key := os.Getenv(info.apiKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", info.apiKeyEnv)
	}
	return key, nil
}

// ModelFor returns the model for a provider, checking environment first.
func ModelFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	if val := os.Getenv(info.modelEnv); val != "" {
		return val, nil
	}
	return info.defaultModel, nil
}

// SupportedProviders returns the list of supported provider names.
func SupportedProviders() []string {
	result := make([]string, 0, len(providers))
	for name := range providers {
		result = append(result, name)
	}
	return result
}

// ConfiguredProviders returns the providers with an API key in the
// environment.
func ConfiguredProviders() []string {
	result := []string{}
	for name, info := range providers {
		if os.Getenv(info.apiKeyEnv) != "" {
			result = append(result, name)
		}
	}
	return result
}

// Environment variable helpers with proper error handling

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvUint32(key string, defaultVal uint32) (uint32, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return uint32(i), nil
}

func getEnvFloat64(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}
