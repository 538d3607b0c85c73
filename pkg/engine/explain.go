package engine

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/tagsmith/pkg/tagdict"
	"github.com/hazyhaar/tagsmith/pkg/tags"
)

// Explanation is a human-readable rendering of a tag set.
type Explanation struct {
	Description string   `json:"description"`
	Details     []string `json:"details"`
}

// primaryOrder fixes which classifier leads the summary when several are
// present (e.g. building + shop).
var primaryOrder = []string{"amenity", "shop", "tourism", "leisure", "highway", "building", "landuse"}

// Explain renders a tag set as prose using the dictionary's descriptions.
func Explain(dict *tagdict.Dictionary, set *tags.Set) Explanation {
	var parts []string
	var details []string
	lead := ""

	for _, key := range primaryOrder {
		if v, ok := set.Get(key); ok && lead == "" {
			lead = fmt.Sprintf("this is a %s", strings.ReplaceAll(v, "_", " "))
			if desc := dict.DescribeValue(key, v); desc != "" {
				details = append(details, fmt.Sprintf("%s=%s: %s", key, v, desc))
			}
		}
	}
	if lead != "" {
		parts = append(parts, lead)
	}

	if name, ok := set.Get("name"); ok {
		parts = append(parts, fmt.Sprintf("named %q", name))
	}
	if cuisine, ok := set.Get("cuisine"); ok {
		parts = append(parts, fmt.Sprintf("serving %s cuisine", strings.ReplaceAll(cuisine, "_", " ")))
	}
	if hours, ok := set.Get("opening_hours"); ok {
		parts = append(parts, "open "+hours)
	}
	if v, ok := set.Get("wheelchair"); ok && v == "yes" {
		parts = append(parts, "wheelchair accessible")
	}
	if v, ok := set.Get("internet_access"); ok && v != "no" {
		parts = append(parts, "with wifi")
	}
	if v, ok := set.Get("outdoor_seating"); ok && v == "yes" {
		parts = append(parts, "with outdoor seating")
	}
	if v, ok := set.Get("takeaway"); ok && v == "yes" {
		parts = append(parts, "offering takeaway")
	}

	for _, t := range set.Tags() {
		if t.Key == "name" {
			continue
		}
		if desc := dict.DescribeValue(t.Key, t.Value); desc != "" {
			line := fmt.Sprintf("%s=%s: %s", t.Key, t.Value, desc)
			if !containsString(details, line) {
				details = append(details, line)
			}
		}
	}

	description := "generic map feature"
	if len(parts) > 0 {
		description = strings.Join(parts, ", ")
	}
	return Explanation{Description: description, Details: details}
}
