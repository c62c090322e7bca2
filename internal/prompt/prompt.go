// Package prompt builds the system and user prompts sent to the model provider
// and converts raw token counts into priced usage. Nothing here performs I/O.
package prompt

import (
	"strings"

	"github.com/j-veylop/uranus/internal/models"
)

// Supported output languages.
const (
	LanguageEnglish  = "en"
	LanguageFrench   = "fr"
	LanguageArabic   = "ar"
	LanguageTunisian = "tn"
)

// DefaultUserMessage is sent when a request carries no customization.
const DefaultUserMessage = "Please process this input following the system rules."

const productDescriptionPrompt = `You are a copywriter specializing in e-commerce. Your goal is to convert audio descriptions into high-converting, professional storefront text.

Task:
1) Listen to the provided product audio description (Tunisian Arabic may be used).
2) Produce a clean, structured product description text STRICTLY in the language provided above.

Output format:
- Product Name: ...
- Short Description: ...
- Key Features:
  - ...
  - ...

Rules:
- Do not mention that this came from audio.
- Keep it concise, professional, and ready to paste into a storefront dashboard.
- If something is unclear, infer the most likely meaning and note assumptions briefly at the end as "Assumptions: ...".
- You are to STRICTLY follow the output format. No deviations or additional commentary, other than assumptions if needed.`

// TunisianRules is appended to the product persona for Tunisian Derja output.
const TunisianRules = `
### TUNISIAN LANGUAGE RULES (STRICT)
- Language: Tunisian Derja (Tounsi).
- Use authentic local vocabulary: (e.g., "Thamma" instead of "Yujad", "Behi" instead of "Jayyid").
- Script: Arabic script only.
- Mixing: Keep common French e-commerce terms in Arabic script (e.g., "Chemise" as "شميز") as is natural in Tunisian shopping.
- Tone: Professional Boutique (not street slang, but not formal MSA).
`

const urlPersona = "You are Uranus, an AI assistant specialized in generating engaging storefront descriptions from product URLs found in the wild. You are friendly, helpful, concise, and adapt your tone to the user’s needs. Your goal is to create clear, accurate, and appealing product descriptions suitable for online stores."

// Options are the optional knobs shared by every request kind.
// Empty fields are treated as absent.
type Options struct {
	OutputLanguage  string `json:"outputLanguage,omitempty"`
	PromptStyle     string `json:"promptStyle,omitempty"`
	OutputVerbosity string `json:"outputVerbosity,omitempty"`
	OutputFormat    string `json:"outputFormat,omitempty"`
	IncludeDetails  string `json:"includeDetails,omitempty"`
	ExcludeDetails  string `json:"excludeDetails,omitempty"`
}

// WithDefaults fills the language and style fields the describe endpoints
// default when the caller leaves them empty.
func (o Options) WithDefaults() Options {
	if o.OutputLanguage == "" {
		o.OutputLanguage = LanguageEnglish
	}
	if o.PromptStyle == "" {
		o.PromptStyle = "concise"
	}
	if o.OutputVerbosity == "" {
		o.OutputVerbosity = "concise"
	}
	if o.OutputFormat == "" {
		o.OutputFormat = "paragraph"
	}
	return o
}

// Payload is the prompt pair for the audio and OCR flows.
type Payload struct {
	SystemPrompt string `json:"systemPrompt"`
	UserMessage  string `json:"userMessage"`
}

// URLPayload is the prompt pair for the URL flow.
type URLPayload struct {
	SystemPrompt string `json:"systemPrompt"`
	FinalPrompt  string `json:"finalPrompt"`
}

// LanguageInstruction returns the directive line for lang, or "" when lang
// is not a supported language.
func LanguageInstruction(lang string) string {
	switch lang {
	case LanguageFrench:
		return "Répondez à la tâche ci-dessous en français."
	case LanguageArabic:
		return "أجب على المهمة أدناه باللغة العربية الفصحى."
	case LanguageTunisian:
		return "Répondez à la tâche ci-dessous en tunisien."
	case LanguageEnglish:
		return "Respond to the task below in English."
	default:
		return ""
	}
}

// CustomizationLines returns one "<Field>: <value>" line per present option,
// always in the same order.
func CustomizationLines(o Options) []string {
	fields := []struct {
		label string
		value string
	}{
		{"Prompt style", o.PromptStyle},
		{"Verbosity", o.OutputVerbosity},
		{"Format", o.OutputFormat},
		{"Include", o.IncludeDetails},
		{"Exclude", o.ExcludeDetails},
	}

	var lines []string
	for _, f := range fields {
		if f.value != "" {
			lines = append(lines, f.label+": "+f.value)
		}
	}
	return lines
}

// BuildAudioPrompt builds the prompts for audio and OCR requests.
func BuildAudioPrompt(o Options) Payload {
	var system string
	if o.OutputLanguage == LanguageTunisian {
		system = productDescriptionPrompt + "\n\n" + TunisianRules
	} else if lang := LanguageInstruction(o.OutputLanguage); lang != "" {
		system = lang + "\n\n" + productDescriptionPrompt
	} else {
		system = productDescriptionPrompt
	}

	user := DefaultUserMessage
	if lines := CustomizationLines(o); len(lines) > 0 {
		user = strings.Join(lines, "\n")
	}

	return Payload{SystemPrompt: system, UserMessage: user}
}

// BuildURLPrompt builds the prompts for a product URL. A non-empty custom
// prompt replaces the default instruction.
func BuildURLPrompt(url, custom string, o Options) URLPayload {
	system := urlPersona
	if lang := LanguageInstruction(o.OutputLanguage); lang != "" {
		system += "\n" + lang
	}

	final := custom
	if final == "" {
		final = "Generate a storefront description for the product at " + url
	}
	if lines := CustomizationLines(o); len(lines) > 0 {
		final += "\n" + strings.Join(lines, "\n")
	}

	return URLPayload{SystemPrompt: system, FinalPrompt: final}
}

// RawUsage is token usage as reported by the provider; any field may be missing.
type RawUsage struct {
	InputTokens  *int
	OutputTokens *int
	TotalTokens  *int
}

// FormatUsage prices raw usage with the model's rates. Missing counts are
// zero and a missing total is recomputed from input and output.
func FormatUsage(raw RawUsage, model models.ModelDescriptor) models.InferenceUsage {
	input := valueOrZero(raw.InputTokens)
	output := valueOrZero(raw.OutputTokens)
	total := input + output
	if raw.TotalTokens != nil {
		total = max(*raw.TotalTokens, 0)
	}

	return models.InferenceUsage{
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  total,
		EstimatedCostUSD: float64(input)/1_000_000*model.InputCostPerMillion +
			float64(output)/1_000_000*model.OutputCostPerMillion,
	}
}

func valueOrZero(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
