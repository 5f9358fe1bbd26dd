package catalog

import (
	"github.com/theirongolddev/payg/internal/model"

	"github.com/shopspring/decimal"
)

func textOnly() []model.CapabilityType {
	return []model.CapabilityType{model.TextToText}
}

func defaultAreas() []model.UsageArea {
	return []model.UsageArea{
		{ID: "writing", Name: "Writing", AvgInputTokens: 400, AvgOutputTokens: 1200, ModelTypes: textOnly()},
		{ID: "graphics", Name: "Graphics", AvgInputTokens: 300, AvgOutputTokens: 800,
			ModelTypes: []model.CapabilityType{model.TextToText, model.TextToImage}},
		{ID: "video", Name: "Video production", AvgInputTokens: 500, AvgOutputTokens: 1500,
			ModelTypes: []model.CapabilityType{model.TextToText, model.TextToVideo}},
		{ID: "dataAnalysis", Name: "Data analysis", AvgInputTokens: 800, AvgOutputTokens: 2000, ModelTypes: textOnly()},
		{ID: "programming", Name: "Programming", AvgInputTokens: 600, AvgOutputTokens: 2500, ModelTypes: textOnly()},
		{ID: "onlineResearch", Name: "Online research", AvgInputTokens: 350, AvgOutputTokens: 1800, ModelTypes: textOnly()},
		{ID: "translations", Name: "Translations", AvgInputTokens: 500, AvgOutputTokens: 600, ModelTypes: textOnly()},
		{ID: "summaries", Name: "Summaries", AvgInputTokens: 1000, AvgOutputTokens: 400, ModelTypes: textOnly()},
	}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func defaultModels() []model.AIModel {
	return []model.AIModel{
		{ID: "gpt4o", Name: "GPT-4o", InputCostPer1K: price("0.005"), OutputCostPer1K: price("0.015"),
			Type: model.TextToText, Provider: "OpenAI"},
		{ID: "gpt4omini", Name: "GPT-4o-mini", InputCostPer1K: price("0.0015"), OutputCostPer1K: price("0.006"),
			Type: model.TextToText, Provider: "OpenAI"},
		{ID: "claude3opus", Name: "Claude 3 Opus", InputCostPer1K: price("0.015"), OutputCostPer1K: price("0.075"),
			Type: model.TextToText, Provider: "Anthropic"},
		{ID: "claude3sonnet", Name: "Claude 3 Sonnet", InputCostPer1K: price("0.003"), OutputCostPer1K: price("0.015"),
			Type: model.TextToText, Provider: "Anthropic"},
		{ID: "claude3haiku", Name: "Claude 3 Haiku", InputCostPer1K: price("0.00025"), OutputCostPer1K: price("0.00125"),
			Type: model.TextToText, Provider: "Anthropic"},
		{ID: "llama3", Name: "Llama 3 70B", InputCostPer1K: price("0.0004"), OutputCostPer1K: price("0.0012"),
			Type: model.TextToText, Provider: "Meta"},
		{ID: "dalle3", Name: "DALL-E 3", InputCostPer1K: price("0.04"), OutputCostPer1K: price("0.08"),
			Type: model.TextToImage, Provider: "OpenAI"},
		{ID: "midjourney", Name: "Midjourney v6", InputCostPer1K: price("0.05"), OutputCostPer1K: price("0.1"),
			Type: model.TextToImage, Provider: "Midjourney"},
		{ID: "sora", Name: "Sora", InputCostPer1K: price("0.1"), OutputCostPer1K: price("0.2"),
			Type: model.TextToVideo, Provider: "OpenAI"},
		{ID: "runway", Name: "Runway Gen-2", InputCostPer1K: price("0.08"), OutputCostPer1K: price("0.15"),
			Type: model.TextToVideo, Provider: "Runway"},
	}
}

func defaultSubscriptions() []model.Subscription {
	return []model.Subscription{
		{ID: "chatgptplus", Name: "ChatGPT Plus", MonthlyCost: price("20"), Provider: "OpenAI"},
		{ID: "chatgptteam", Name: "ChatGPT Team", MonthlyCost: price("30"), Provider: "OpenAI"},
		{ID: "chatgptenterprise", Name: "ChatGPT Enterprise", MonthlyCost: price("60"), Provider: "OpenAI"},
		{ID: "claudeproplus", Name: "Claude Pro Plus", MonthlyCost: price("20"), Provider: "Anthropic"},
		{ID: "claudeteam", Name: "Claude Team", MonthlyCost: price("28"), Provider: "Anthropic"},
		{ID: "midjourneypro", Name: "Midjourney Pro", MonthlyCost: price("30"), Provider: "Midjourney"},
		{ID: "midjourneystandard", Name: "Midjourney Standard", MonthlyCost: price("10"), Provider: "Midjourney"},
		{ID: "perplexitypro", Name: "Perplexity Pro", MonthlyCost: price("20"), Provider: "Perplexity"},
		{ID: "runwaygen", Name: "Runway Pro", MonthlyCost: price("15"), Provider: "Runway"},
		// Zero until the user sets a cost in config.
		{ID: "custom", Name: "Custom subscription", MonthlyCost: price("0"), Provider: "Other"},
	}
}
