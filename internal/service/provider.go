package service

import (
	"net/http"
	"strings"

	"github.com/Junction-25/pdf-service/internal/config"
)

// Provider identifies the OpenAI-compatible vendor behind the base URL
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderOpenRouter Provider = "openrouter"
	ProviderNVIDIA     Provider = "nvidia"
	ProviderDeepSeek   Provider = "deepseek"
	ProviderGeneric    Provider = "generic"
)

// DetectProvider picks the provider from the API base URL
func DetectProvider(baseURL string) Provider {
	u := strings.ToLower(baseURL)
	switch {
	case strings.Contains(u, "openrouter.ai"):
		return ProviderOpenRouter
	case strings.Contains(u, "api.nvidia.com"):
		return ProviderNVIDIA
	case strings.Contains(u, "api.deepseek.com"):
		return ProviderDeepSeek
	case strings.Contains(u, "api.openai.com"):
		return ProviderOpenAI
	default:
		return ProviderGeneric
	}
}

// ApplyHeaders adds vendor-specific request headers
func (p Provider) ApplyHeaders(req *http.Request, cfg *config.ReasoningConfig) {
	if p != ProviderOpenRouter {
		return
	}
	// OpenRouter attribution
	if cfg.AppURL != "" {
		req.Header.Set("HTTP-Referer", cfg.AppURL)
	}
	if cfg.AppTitle != "" {
		req.Header.Set("X-Title", cfg.AppTitle)
	}
}

// ExtractContent returns the answer text. Reasoning models on NVIDIA and
// DeepSeek sometimes leave content empty and put everything in
// reasoning_content.
func (p Provider) ExtractContent(content string, reasoning *string) string {
	if strings.TrimSpace(content) != "" {
		return content
	}
	if reasoning == nil {
		return ""
	}
	switch p {
	case ProviderNVIDIA, ProviderDeepSeek, ProviderGeneric:
		return *reasoning
	default:
		return ""
	}
}
