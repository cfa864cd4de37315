package ingest

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/vtkl/grant-radar/internal/models"
)

// Validate rejects records missing the identity fields the evaluation core
// assumes are present. Everything else may be absent.
func Validate(opp models.Opportunity) error {
	if strings.TrimSpace(opp.Source) == "" {
		return fmt.Errorf("missing source (source_opportunity_id=%s)", opp.SourceOpportunityID)
	}
	if strings.TrimSpace(opp.SourceOpportunityID) == "" {
		return fmt.Errorf("missing source_opportunity_id (source=%s)", opp.Source)
	}
	return nil
}

// Normalize returns a copy of the opportunity with free-text fields reduced
// to clean plain text and classification fields tidied. Source records often
// carry HTML descriptions; keyword matching needs text.
func Normalize(opp models.Opportunity) models.Opportunity {
	opp.Title = cleanText(HTMLToText(sanitizeUTF8(opp.Title)))
	opp.Agency = cleanText(sanitizeUTF8(opp.Agency))
	opp.Description = cleanText(HTMLToText(sanitizeHTML(sanitizeUTF8(opp.Description))))
	opp.RawText = cleanText(HTMLToText(sanitizeHTML(sanitizeUTF8(opp.RawText))))
	opp.SetAsideType = cleanText(opp.SetAsideType)
	opp.OpportunityType = cleanText(opp.OpportunityType)
	opp.SecurityRequirement = cleanText(opp.SecurityRequirement)
	opp.NAICSCodes = mergeUniqueFold(nil, opp.NAICSCodes)
	return opp
}

// HTMLToText converts HTML to plain text, collapsing whitespace.
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html // Fallback to original if parsing fails
	}
	return cleanText(doc.Text())
}

// sanitizeHTML uses bluemonday to strip unsafe tags and attributes.
func sanitizeHTML(s string) string {
	return bluemonday.UGCPolicy().Sanitize(s)
}

// sanitizeUTF8 removes invalid UTF-8 byte sequences.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// cleanText collapses multiple spaces into one and trims the string.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateText cuts a string to max length, appending ellipsis if truncated.
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen > 3 {
		return text[:maxLen-3] + "..."
	}
	return text[:maxLen]
}

func mergeUniqueFold(dst []string, items []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		k := strings.ToLower(strings.TrimSpace(v))
		if k != "" {
			seen[k] = struct{}{}
		}
	}

	for _, v := range items {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		k := strings.ToLower(v)
		if _, ok := seen[k]; ok {
			continue
		}
		dst = append(dst, v)
		seen[k] = struct{}{}
	}

	return dst
}
