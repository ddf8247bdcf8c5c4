package query

// ResolveMetricAlias maps the short metric aliases accepted by older
// clients to their canonical field names. Anything else passes through
// unchanged, so callers can hand it raw field names directly.
//
// This is an adapter in front of the query core, not part of it: the
// core operations only accept raw catalog names.
func ResolveMetricAlias(name string) string {
	switch name {
	case "cases":
		return "new_cases_smoothed"
	case "deaths":
		return "new_deaths_smoothed"
	case "vacc":
		return "new_vaccinations_smoothed"
	case "hospital":
		return "hosp_patients"
	}
	return name
}
