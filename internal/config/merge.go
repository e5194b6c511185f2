package config

// Merge overlays over onto base and returns the result. Values set in over
// win; unset values fall through to base. Neither input is modified.
func Merge(base, over *Config) *Config {
	merged := *base

	mergeString(&merged.FromPolicy, over.FromPolicy)
	mergeString(&merged.OutputFormat, over.OutputFormat)
	if over.Threshold != nil {
		merged.Threshold = over.Threshold
	}
	if over.MinTextLength != nil {
		merged.MinTextLength = over.MinTextLength
	}

	mergeString(&merged.Fields.Subject, over.Fields.Subject)
	mergeString(&merged.Fields.Body, over.Fields.Body)
	mergeString(&merged.Fields.HTMLBody, over.Fields.HTMLBody)
	mergeString(&merged.Fields.From, over.Fields.From)

	if over.Query.Limit != nil {
		merged.Query.Limit = over.Query.Limit
	}
	mergeString(&merged.Query.IncidentTypes, over.Query.IncidentTypes)
	mergeString(&merged.Query.TypeField, over.Query.TypeField)
	mergeString(&merged.Query.StatusScope, over.Query.StatusScope)
	mergeString(&merged.Query.Lookback, over.Query.Lookback)
	mergeString(&merged.Query.Fragment, over.Query.Fragment)

	return &merged
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
