package record

import (
	"strconv"
	"time"
)

// ── Record ─────────────────────────────────────────────────
// One country-day observation from the OWID COVID dataset.
// Field names match the source CSV columns exactly; the same
// names are used as bson keys so metric addressing in queries
// can use the raw column name.

// DateLayout is the calendar-date format used by the source CSV.
const DateLayout = "2006-01-02"

// Record is a single row of the dataset.
//
// iso_code may be a pseudo-code for aggregate regions (prefixed "OWID_"),
// in which case continent is empty. All numeric fields are zero-filled
// when the source cell is empty or non-numeric — a zero is therefore
// indistinguishable from "not reported" (source-preserved behavior).
type Record struct {
	IsoCode   string    `bson:"iso_code" json:"iso_code"`
	Continent string    `bson:"continent" json:"continent"`
	Location  string    `bson:"location" json:"location"`
	Date      time.Time `bson:"date" json:"date"`

	TotalCases                  float64 `bson:"total_cases" json:"total_cases"`
	NewCases                    float64 `bson:"new_cases" json:"new_cases"`
	NewCasesSmoothed            float64 `bson:"new_cases_smoothed" json:"new_cases_smoothed"`
	TotalDeaths                 float64 `bson:"total_deaths" json:"total_deaths"`
	NewDeaths                   float64 `bson:"new_deaths" json:"new_deaths"`
	NewDeathsSmoothed           float64 `bson:"new_deaths_smoothed" json:"new_deaths_smoothed"`
	TotalCasesPerMillion        float64 `bson:"total_cases_per_million" json:"total_cases_per_million"`
	NewCasesPerMillion          float64 `bson:"new_cases_per_million" json:"new_cases_per_million"`
	NewCasesSmoothedPerMillion  float64 `bson:"new_cases_smoothed_per_million" json:"new_cases_smoothed_per_million"`
	TotalDeathsPerMillion       float64 `bson:"total_deaths_per_million" json:"total_deaths_per_million"`
	NewDeathsPerMillion         float64 `bson:"new_deaths_per_million" json:"new_deaths_per_million"`
	NewDeathsSmoothedPerMillion float64 `bson:"new_deaths_smoothed_per_million" json:"new_deaths_smoothed_per_million"`
	ReproductionRate            float64 `bson:"reproduction_rate" json:"reproduction_rate"`

	ICUPatients                    float64 `bson:"icu_patients" json:"icu_patients"`
	ICUPatientsPerMillion          float64 `bson:"icu_patients_per_million" json:"icu_patients_per_million"`
	HospPatients                   float64 `bson:"hosp_patients" json:"hosp_patients"`
	HospPatientsPerMillion         float64 `bson:"hosp_patients_per_million" json:"hosp_patients_per_million"`
	WeeklyICUAdmissions            float64 `bson:"weekly_icu_admissions" json:"weekly_icu_admissions"`
	WeeklyICUAdmissionsPerMillion  float64 `bson:"weekly_icu_admissions_per_million" json:"weekly_icu_admissions_per_million"`
	WeeklyHospAdmissions           float64 `bson:"weekly_hosp_admissions" json:"weekly_hosp_admissions"`
	WeeklyHospAdmissionsPerMillion float64 `bson:"weekly_hosp_admissions_per_million" json:"weekly_hosp_admissions_per_million"`

	TotalTests                  float64 `bson:"total_tests" json:"total_tests"`
	NewTests                    float64 `bson:"new_tests" json:"new_tests"`
	TotalTestsPerThousand       float64 `bson:"total_tests_per_thousand" json:"total_tests_per_thousand"`
	NewTestsPerThousand         float64 `bson:"new_tests_per_thousand" json:"new_tests_per_thousand"`
	NewTestsSmoothed            float64 `bson:"new_tests_smoothed" json:"new_tests_smoothed"`
	NewTestsSmoothedPerThousand float64 `bson:"new_tests_smoothed_per_thousand" json:"new_tests_smoothed_per_thousand"`
	PositiveRate                float64 `bson:"positive_rate" json:"positive_rate"`
	TestsPerCase                float64 `bson:"tests_per_case" json:"tests_per_case"`
	TestsUnits                  string  `bson:"tests_units" json:"tests_units"`

	TotalVaccinations                     float64 `bson:"total_vaccinations" json:"total_vaccinations"`
	PeopleVaccinated                      float64 `bson:"people_vaccinated" json:"people_vaccinated"`
	PeopleFullyVaccinated                 float64 `bson:"people_fully_vaccinated" json:"people_fully_vaccinated"`
	TotalBoosters                         float64 `bson:"total_boosters" json:"total_boosters"`
	NewVaccinations                       float64 `bson:"new_vaccinations" json:"new_vaccinations"`
	NewVaccinationsSmoothed               float64 `bson:"new_vaccinations_smoothed" json:"new_vaccinations_smoothed"`
	TotalVaccinationsPerHundred           float64 `bson:"total_vaccinations_per_hundred" json:"total_vaccinations_per_hundred"`
	PeopleVaccinatedPerHundred            float64 `bson:"people_vaccinated_per_hundred" json:"people_vaccinated_per_hundred"`
	PeopleFullyVaccinatedPerHundred       float64 `bson:"people_fully_vaccinated_per_hundred" json:"people_fully_vaccinated_per_hundred"`
	TotalBoostersPerHundred               float64 `bson:"total_boosters_per_hundred" json:"total_boosters_per_hundred"`
	NewVaccinationsSmoothedPerMillion     float64 `bson:"new_vaccinations_smoothed_per_million" json:"new_vaccinations_smoothed_per_million"`
	NewPeopleVaccinatedSmoothed           float64 `bson:"new_people_vaccinated_smoothed" json:"new_people_vaccinated_smoothed"`
	NewPeopleVaccinatedSmoothedPerHundred float64 `bson:"new_people_vaccinated_smoothed_per_hundred" json:"new_people_vaccinated_smoothed_per_hundred"`

	StringencyIndex         float64 `bson:"stringency_index" json:"stringency_index"`
	Population              float64 `bson:"population" json:"population"`
	PopulationDensity       float64 `bson:"population_density" json:"population_density"`
	MedianAge               float64 `bson:"median_age" json:"median_age"`
	Aged65Older             float64 `bson:"aged_65_older" json:"aged_65_older"`
	Aged70Older             float64 `bson:"aged_70_older" json:"aged_70_older"`
	GDPPerCapita            float64 `bson:"gdp_per_capita" json:"gdp_per_capita"`
	ExtremePoverty          float64 `bson:"extreme_poverty" json:"extreme_poverty"`
	CardiovascDeathRate     float64 `bson:"cardiovasc_death_rate" json:"cardiovasc_death_rate"`
	DiabetesPrevalence      float64 `bson:"diabetes_prevalence" json:"diabetes_prevalence"`
	FemaleSmokers           float64 `bson:"female_smokers" json:"female_smokers"`
	MaleSmokers             float64 `bson:"male_smokers" json:"male_smokers"`
	HandwashingFacilities   float64 `bson:"handwashing_facilities" json:"handwashing_facilities"`
	HospitalBedsPerThousand float64 `bson:"hospital_beds_per_thousand" json:"hospital_beds_per_thousand"`
	LifeExpectancy          float64 `bson:"life_expectancy" json:"life_expectancy"`
	HumanDevelopmentIndex   float64 `bson:"human_development_index" json:"human_development_index"`

	ExcessMortalityCumulativeAbsolute   float64 `bson:"excess_mortality_cumulative_absolute" json:"excess_mortality_cumulative_absolute"`
	ExcessMortalityCumulative           float64 `bson:"excess_mortality_cumulative" json:"excess_mortality_cumulative"`
	ExcessMortality                     float64 `bson:"excess_mortality" json:"excess_mortality"`
	ExcessMortalityCumulativePerMillion float64 `bson:"excess_mortality_cumulative_per_million" json:"excess_mortality_cumulative_per_million"`
}

// FromRow builds a Record from one header-keyed CSV row.
// String fields pass through unchanged (empty stays empty). The date is
// parsed as yyyy-mm-dd; an unparseable date yields the zero time — the
// row is NOT rejected here. Every other field coerces with "parse float,
// else zero", so an empty cell and a literal "0" are indistinguishable
// afterwards.
func FromRow(row map[string]string) Record {
	return Record{
		IsoCode:   row["iso_code"],
		Continent: row["continent"],
		Location:  row["location"],
		Date:      parseDate(row["date"]),

		TotalCases:                  num(row, "total_cases"),
		NewCases:                    num(row, "new_cases"),
		NewCasesSmoothed:            num(row, "new_cases_smoothed"),
		TotalDeaths:                 num(row, "total_deaths"),
		NewDeaths:                   num(row, "new_deaths"),
		NewDeathsSmoothed:           num(row, "new_deaths_smoothed"),
		TotalCasesPerMillion:        num(row, "total_cases_per_million"),
		NewCasesPerMillion:          num(row, "new_cases_per_million"),
		NewCasesSmoothedPerMillion:  num(row, "new_cases_smoothed_per_million"),
		TotalDeathsPerMillion:       num(row, "total_deaths_per_million"),
		NewDeathsPerMillion:         num(row, "new_deaths_per_million"),
		NewDeathsSmoothedPerMillion: num(row, "new_deaths_smoothed_per_million"),
		ReproductionRate:            num(row, "reproduction_rate"),

		ICUPatients:                    num(row, "icu_patients"),
		ICUPatientsPerMillion:          num(row, "icu_patients_per_million"),
		HospPatients:                   num(row, "hosp_patients"),
		HospPatientsPerMillion:         num(row, "hosp_patients_per_million"),
		WeeklyICUAdmissions:            num(row, "weekly_icu_admissions"),
		WeeklyICUAdmissionsPerMillion:  num(row, "weekly_icu_admissions_per_million"),
		WeeklyHospAdmissions:           num(row, "weekly_hosp_admissions"),
		WeeklyHospAdmissionsPerMillion: num(row, "weekly_hosp_admissions_per_million"),

		TotalTests:                  num(row, "total_tests"),
		NewTests:                    num(row, "new_tests"),
		TotalTestsPerThousand:       num(row, "total_tests_per_thousand"),
		NewTestsPerThousand:         num(row, "new_tests_per_thousand"),
		NewTestsSmoothed:            num(row, "new_tests_smoothed"),
		NewTestsSmoothedPerThousand: num(row, "new_tests_smoothed_per_thousand"),
		PositiveRate:                num(row, "positive_rate"),
		TestsPerCase:                num(row, "tests_per_case"),
		TestsUnits:                  row["tests_units"],

		TotalVaccinations:                     num(row, "total_vaccinations"),
		PeopleVaccinated:                      num(row, "people_vaccinated"),
		PeopleFullyVaccinated:                 num(row, "people_fully_vaccinated"),
		TotalBoosters:                         num(row, "total_boosters"),
		NewVaccinations:                       num(row, "new_vaccinations"),
		NewVaccinationsSmoothed:               num(row, "new_vaccinations_smoothed"),
		TotalVaccinationsPerHundred:           num(row, "total_vaccinations_per_hundred"),
		PeopleVaccinatedPerHundred:            num(row, "people_vaccinated_per_hundred"),
		PeopleFullyVaccinatedPerHundred:       num(row, "people_fully_vaccinated_per_hundred"),
		TotalBoostersPerHundred:               num(row, "total_boosters_per_hundred"),
		NewVaccinationsSmoothedPerMillion:     num(row, "new_vaccinations_smoothed_per_million"),
		NewPeopleVaccinatedSmoothed:           num(row, "new_people_vaccinated_smoothed"),
		NewPeopleVaccinatedSmoothedPerHundred: num(row, "new_people_vaccinated_smoothed_per_hundred"),

		StringencyIndex:         num(row, "stringency_index"),
		Population:              num(row, "population"),
		PopulationDensity:       num(row, "population_density"),
		MedianAge:               num(row, "median_age"),
		Aged65Older:             num(row, "aged_65_older"),
		Aged70Older:             num(row, "aged_70_older"),
		GDPPerCapita:            num(row, "gdp_per_capita"),
		ExtremePoverty:          num(row, "extreme_poverty"),
		CardiovascDeathRate:     num(row, "cardiovasc_death_rate"),
		DiabetesPrevalence:      num(row, "diabetes_prevalence"),
		FemaleSmokers:           num(row, "female_smokers"),
		MaleSmokers:             num(row, "male_smokers"),
		HandwashingFacilities:   num(row, "handwashing_facilities"),
		HospitalBedsPerThousand: num(row, "hospital_beds_per_thousand"),
		LifeExpectancy:          num(row, "life_expectancy"),
		HumanDevelopmentIndex:   num(row, "human_development_index"),

		ExcessMortalityCumulativeAbsolute:   num(row, "excess_mortality_cumulative_absolute"),
		ExcessMortalityCumulative:           num(row, "excess_mortality_cumulative"),
		ExcessMortality:                     num(row, "excess_mortality"),
		ExcessMortalityCumulativePerMillion: num(row, "excess_mortality_cumulative_per_million"),
	}
}

// num coerces a cell to float64. Empty or non-numeric input yields 0.
func num(row map[string]string, key string) float64 {
	f, err := strconv.ParseFloat(row[key], 64)
	if err != nil {
		return 0
	}
	return f
}

func parseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
