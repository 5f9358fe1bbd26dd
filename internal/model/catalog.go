// Package model defines domain types for payg reference data, selections and results.
package model

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// CapabilityType is the modality a model operates in.
type CapabilityType string

// Supported capability types.
const (
	TextToText  CapabilityType = "text-to-text"
	TextToImage CapabilityType = "text-to-image"
	TextToVideo CapabilityType = "text-to-video"
)

// CapabilityTypes lists every capability type in bucket order.
var CapabilityTypes = []CapabilityType{TextToText, TextToImage, TextToVideo}

// ParseCapabilityType validates a capability type string.
func ParseCapabilityType(s string) (CapabilityType, error) {
	t := CapabilityType(s)
	if !slices.Contains(CapabilityTypes, t) {
		return "", fmt.Errorf("unknown capability type %q", s)
	}
	return t, nil
}

// Label returns the short display label for the type.
func (t CapabilityType) Label() string {
	switch t {
	case TextToText:
		return "Text"
	case TextToImage:
		return "Image"
	case TextToVideo:
		return "Video"
	default:
		return string(t)
	}
}

// UsageArea is a category of AI-assisted work with its average token
// consumption per prompt.
type UsageArea struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	AvgInputTokens  int64            `json:"avg_input_tokens"`
	AvgOutputTokens int64            `json:"avg_output_tokens"`
	ModelTypes      []CapabilityType `json:"model_types"`
}

// Supports reports whether models of type t can serve this area.
func (a UsageArea) Supports(t CapabilityType) bool {
	return slices.Contains(a.ModelTypes, t)
}

// AIModel holds per-1000-token prices for a model.
type AIModel struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	InputCostPer1K  decimal.Decimal `json:"input_cost_per_1k"`
	OutputCostPer1K decimal.Decimal `json:"output_cost_per_1k"`
	Type            CapabilityType  `json:"type"`
	Provider        string          `json:"provider"`
}

// Subscription is a flat monthly plan.
type Subscription struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	MonthlyCost decimal.Decimal `json:"monthly_cost"`
	Provider    string          `json:"provider"`
}
