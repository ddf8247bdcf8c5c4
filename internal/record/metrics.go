package record

// ── Metric catalog ─────────────────────────────────────────
// The fixed set of numeric metric fields a query may address.
// This is a static catalog, not derived from the store: the list
// mirrors the numeric columns of the source dataset.

var metricNames = []string{
	"total_cases",
	"new_cases",
	"new_cases_smoothed",
	"total_deaths",
	"new_deaths",
	"new_deaths_smoothed",
	"total_cases_per_million",
	"new_cases_per_million",
	"new_cases_smoothed_per_million",
	"total_deaths_per_million",
	"new_deaths_per_million",
	"new_deaths_smoothed_per_million",
	"reproduction_rate",
	"icu_patients",
	"icu_patients_per_million",
	"hosp_patients",
	"hosp_patients_per_million",
	"weekly_icu_admissions",
	"weekly_icu_admissions_per_million",
	"weekly_hosp_admissions",
	"weekly_hosp_admissions_per_million",
	"total_tests",
	"new_tests",
	"total_tests_per_thousand",
	"new_tests_per_thousand",
	"new_tests_smoothed",
	"new_tests_smoothed_per_thousand",
	"positive_rate",
	"tests_per_case",
	"total_vaccinations",
	"people_vaccinated",
	"people_fully_vaccinated",
	"total_boosters",
	"new_vaccinations",
	"new_vaccinations_smoothed",
	"total_vaccinations_per_hundred",
	"people_vaccinated_per_hundred",
	"people_fully_vaccinated_per_hundred",
	"total_boosters_per_hundred",
	"new_vaccinations_smoothed_per_million",
	"new_people_vaccinated_smoothed",
	"new_people_vaccinated_smoothed_per_hundred",
	"stringency_index",
	"population",
	"population_density",
	"median_age",
	"aged_65_older",
	"aged_70_older",
	"gdp_per_capita",
	"extreme_poverty",
	"cardiovasc_death_rate",
	"diabetes_prevalence",
	"female_smokers",
	"male_smokers",
	"handwashing_facilities",
	"hospital_beds_per_thousand",
	"life_expectancy",
	"human_development_index",
	"excess_mortality_cumulative_absolute",
	"excess_mortality_cumulative",
	"excess_mortality",
	"excess_mortality_cumulative_per_million",
}

var metricSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(metricNames))
	for _, name := range metricNames {
		m[name] = struct{}{}
	}
	return m
}()

// MetricNames returns the ordered list of known metric field names.
// The returned slice is a copy; callers may modify it freely.
func MetricNames() []string {
	out := make([]string, len(metricNames))
	copy(out, metricNames)
	return out
}

// IsMetric reports whether name is a known numeric metric field.
func IsMetric(name string) bool {
	_, ok := metricSet[name]
	return ok
}
