package llm

// Price is the USD cost per token.
type Price struct {
	Input  float64
	Output float64
}

// DefaultPricingModel is used for models missing from Pricing.
const DefaultPricingModel = "gemini-2.5-pro"

// Pricing holds per-token prices keyed by model.
var Pricing = map[string]Price{
	"gemini-2.5-pro":     {Input: 1.25 / 1_000_000, Output: 10.00 / 1_000_000},
	"gemini-2.5-pro-exp": {Input: 4.00 / 1_000_000, Output: 20.00 / 1_000_000},
}

// Cost estimates the USD cost of a call to model.
func Cost(model string, inputTokens, outputTokens int) float64 {
	p, ok := Pricing[model]
	if !ok {
		p = Pricing[DefaultPricingModel]
	}
	return float64(inputTokens)*p.Input + float64(outputTokens)*p.Output
}
