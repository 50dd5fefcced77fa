// internal/workers/evidence/fetch-variants/extract.go
package fetchvariants

import (
	"fmt"
	"strconv"
	"strings"

	"varsight/internal/models"
)

// fieldSpec maps one VariantRecord field to its location inside a ClinVar
// summary document. Path segments are object keys; a numeric segment indexes
// into a list. Missing or empty values fall back to the shared "Unknown"
// sentinel, so records are always fully populated.
type fieldSpec struct {
	name string
	path string
}

var variantFields = []fieldSpec{
	{name: "hgvsName", path: "title"},
	{name: "variantType", path: "variation_set.0.variant_type"},
	{name: "classification", path: "germline_classification.description"},
	{name: "condition", path: "germline_classification.trait_set.0.trait_name"},
}

// extractRecord applies the declarative field table to one summary document.
// It fails only when the document itself is not an object; individual missing
// fields default rather than error.
func extractRecord(doc interface{}) (models.VariantRecord, error) {
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return models.VariantRecord{}, fmt.Errorf("summary document is %T, not an object", doc)
	}

	values := make(map[string]string, len(variantFields))
	for _, spec := range variantFields {
		values[spec.name] = extractString(obj, spec.path)
	}

	return models.VariantRecord{
		HGVSName:       values["hgvsName"],
		VariantType:    values["variantType"],
		Classification: values["classification"],
		Condition:      values["condition"],
	}, nil
}

// extractString walks a dotted path through nested maps and lists and returns
// the trimmed string at the end, or the "Unknown" sentinel when any step is
// absent, mistyped, or empty.
func extractString(obj map[string]interface{}, path string) string {
	var current interface{} = obj

	for _, segment := range strings.Split(path, ".") {
		if idx, err := strconv.Atoi(segment); err == nil {
			list, ok := current.([]interface{})
			if !ok || idx >= len(list) {
				return models.UnknownField
			}
			current = list[idx]
			continue
		}

		m, ok := current.(map[string]interface{})
		if !ok {
			return models.UnknownField
		}
		current, ok = m[segment]
		if !ok {
			return models.UnknownField
		}
	}

	s, ok := current.(string)
	if !ok {
		return models.UnknownField
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return models.UnknownField
	}
	return s
}

// actionableClassifications is the clinically actionable subset; matching is
// case-insensitive and exact.
var actionableClassifications = map[string]bool{
	"pathogenic":        true,
	"likely pathogenic": true,
}

// isActionable reports whether a classification passes the pipeline filter.
// The "Unknown" sentinel never passes.
func isActionable(classification string) bool {
	return actionableClassifications[strings.ToLower(classification)]
}
