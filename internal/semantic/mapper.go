package semantic

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// mappings translates canonical domain phrases found in opportunity text to
// VTKL capability phrases. Matching is case-insensitive substring matching;
// an opportunity that talks about "cyberinfrastructure" gets credit for the
// data-governance and automation capabilities it implies.
var mappings = map[string][]string{
	"cyberinfrastructure": {
		"data governance", "secure data pipelines", "infrastructure automation",
		"data architecture", "data platforms",
	},
	"data management": {
		"data governance", "ETL pipelines", "data quality", "data integration",
		"data warehousing", "data lakes",
	},
	"data science": {
		"machine learning", "predictive analytics", "statistical modeling",
		"data analysis", "business intelligence",
	},
	"decision support": {
		"AI workflows", "machine learning models", "predictive analytics",
		"business intelligence", "analytics dashboards", "decision automation",
	},
	"artificial intelligence": {
		"machine learning", "neural networks", "deep learning", "LLM integration",
		"natural language processing", "computer vision",
	},
	"AI/ML": {
		"machine learning", "neural networks", "LLM integration", "model training",
		"model deployment", "MLOps",
	},
	"automation": {
		"agent configuration", "workflow orchestration", "DevOps", "CI/CD",
		"infrastructure as code", "process automation",
	},
	"workflow automation": {
		"workflow orchestration", "agent configuration", "task automation",
		"process optimization",
	},
	"cloud computing": {
		"AWS", "Azure", "GCP", "cloud-native", "serverless", "cloud migration",
		"multi-cloud",
	},
	"cloud infrastructure": {
		"cloud architecture", "infrastructure as code", "container orchestration",
		"Kubernetes", "Docker",
	},
	"software development": {
		"application development", "API development", "microservices",
		"full-stack development", "agile development",
	},
	"software engineering": {
		"software architecture", "system design", "technical architecture",
		"software integration",
	},
	"cybersecurity": {
		"security architecture", "threat detection", "security monitoring",
		"compliance automation", "security operations",
	},
	"information security": {
		"data security", "access control", "encryption", "security compliance",
		"risk management",
	},
	"research and development": {
		"R&D", "innovation", "proof of concept", "prototyping",
		"experimental development",
	},
	"innovation": {
		"emerging technologies", "cutting-edge solutions", "novel approaches",
		"technology advancement",
	},
	"federal IT": {
		"government technology", "federal systems", "federal modernization",
		"government cloud",
	},
	"digital transformation": {
		"modernization", "digital services", "legacy system migration",
		"technology transformation",
	},
	"IT consulting": {
		"technical consulting", "technology advisory", "systems integration",
		"IT strategy",
	},
	"professional services": {
		"consulting services", "advisory services", "technical services",
		"managed services",
	},
}

// alignmentCurve maps the distinct-match count to a 0-100 score. Monotonic
// and saturating at three matches; tune here, not in the scoring engine.
var alignmentCurve = []float64{0, 50, 75, 100}

const (
	maxCitations  = 3
	contextWindow = 100
)

// FocusAreas are the core-mission phrases used for mission-fit scoring.
func FocusAreas() []string {
	return []string{
		"AI workflows",
		"data governance",
		"agent configuration",
		"decision support systems",
		"workflow automation",
		"machine learning operations",
		"data pipeline development",
		"cloud-native architecture",
		"API development",
		"DevOps automation",
	}
}

// TechnicalCapabilities are the capability phrases used for
// technical-alignment scoring.
func TechnicalCapabilities() []string {
	return []string{
		"machine learning",
		"data governance",
		"ETL pipelines",
		"workflow orchestration",
		"infrastructure as code",
		"API development",
		"cloud architecture",
		"security compliance",
		"predictive analytics",
		"LLM integration",
	}
}

// Expand returns the capability phrases mapped to a canonical domain term.
// Unknown terms expand to nothing.
func Expand(term string) []string {
	key := strings.ToLower(strings.TrimSpace(term))
	for category, caps := range mappings {
		if strings.ToLower(category) == key {
			out := make([]string, len(caps))
			copy(out, caps)
			return out
		}
	}
	return nil
}

// ScoreAlignment counts distinct capability phrases evidenced by the text,
// either verbatim or through a domain term that maps to the capability, and
// converts the count to a 0-100 score. Citations are context snippets
// around the first matches, capped at three.
func ScoreAlignment(text string, capabilities []string) (float64, []string) {
	if strings.TrimSpace(text) == "" || len(capabilities) == 0 {
		return 0, nil
	}

	textLower := strings.ToLower(text)
	matched := make([]string, 0, len(capabilities))
	var citations []string

	for _, capability := range capabilities {
		hit, anchor := matchCapability(textLower, capability)
		if !hit {
			continue
		}
		matched = append(matched, capability)
		if len(citations) < maxCitations {
			citations = append(citations, extractContext(text, anchor))
		}
	}

	count := len(matched)
	if count >= len(alignmentCurve) {
		count = len(alignmentCurve) - 1
	}
	return alignmentCurve[count], citations
}

// matchCapability reports whether the capability is evidenced in the text
// and returns the phrase that anchored the match.
func matchCapability(textLower, capability string) (bool, string) {
	capLower := strings.ToLower(capability)
	if strings.Contains(textLower, capLower) {
		return true, capability
	}

	// Indirect match: a domain term that expands to this capability.
	// Iterate categories in sorted order so citations are deterministic.
	categories := make([]string, 0, len(mappings))
	for category := range mappings {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		if !strings.Contains(textLower, strings.ToLower(category)) {
			continue
		}
		for _, mapped := range mappings[category] {
			if strings.EqualFold(mapped, capability) {
				return true, category
			}
		}
	}
	return false, ""
}

// extractContext returns the text surrounding the first occurrence of the
// phrase, with ellipses when truncated. Window edges snap to rune boundaries
// so citations stay valid UTF-8 even for un-normalized input.
func extractContext(text, phrase string) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(phrase))
	if idx < 0 {
		return phrase
	}

	start := idx - contextWindow
	if start < 0 {
		start = 0
	}
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	end := idx + len(phrase) + contextWindow
	if end > len(text) {
		end = len(text)
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	context := strings.TrimSpace(text[start:end])
	if start > 0 {
		context = "..." + context
	}
	if end < len(text) {
		context = context + "..."
	}
	return context
}
