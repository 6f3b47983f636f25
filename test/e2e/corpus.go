// Package e2e provides end-to-end tests over a realistic open-data catalog and multiple queries.
package e2e

import (
	"fmt"
	"strings"
	"time"

	"github.com/hyperjump/metaboost/internal/models"
)

// Now is the fixed clock the corpus dates are relative to.
var Now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// TextQueryCase defines a free-text query and the dataset IDs of which at least
// one must appear in the recommendations.
type TextQueryCase struct {
	Query       string
	ExpectedIDs []string
	Description string
}

// Corpus holds catalog records and query test cases for E2E tests.
type Corpus struct {
	Records      []models.DatasetRecord
	TextCases    []TextQueryCase
	Categories   []string
	TotalRecords int
	TotalQueries int
}

type topic struct {
	slug        string
	title       string
	description string
	tags        []string
	category    string
	query       string
}

var topics = []topic{
	{"bus-lines", "EMT bus lines and stops", "Bus routes operated by EMT with stop locations, schedules and geographic coordinates.", []string{"transport", "bus", "mobility"}, "Transporte", "bus routes stops"},
	{"metro-stations", "Metro stations and accesses", "Metro network stations with entrances, elevators and line connections.", []string{"transport", "metro", "mobility"}, "Transporte", "metro stations entrances"},
	{"bicimad", "BiciMAD bike sharing docks", "Public bike sharing docking stations with capacity and availability.", []string{"transport", "bicycle", "mobility"}, "Transporte", "bike sharing docks"},
	{"parking", "Public car parks occupancy", "Occupancy of municipal underground car parks updated every few minutes.", []string{"transport", "parking", "cars"}, "Transporte", "car parks occupancy"},
	{"traffic-counts", "Traffic intensity counters", "Road traffic intensity measured by loop detectors on main streets.", []string{"traffic", "roads", "sensors"}, "Transporte", "traffic intensity detectors"},
	{"census", "Municipal population census", "Registered population by district, age group and nationality.", []string{"population", "census", "districts"}, "Demografia", "population census district"},
	{"births", "Births by district", "Annual births registered per district with mother age brackets.", []string{"population", "births", "districts"}, "Demografia", "births registered district"},
	{"migration", "Migration flows", "Residents moving in and out of the city by origin country.", []string{"population", "migration"}, "Demografia", "migration flows residents"},
	{"households", "Household composition", "Households by number of members and type of family unit.", []string{"population", "households"}, "Demografia", "household members family"},
	{"air-quality", "Air quality measurements", "Hourly nitrogen dioxide and particulate matter readings from monitoring stations.", []string{"environment", "air", "pollution"}, "Medio ambiente", "nitrogen dioxide particulate"},
	{"noise", "Noise pollution levels", "Environmental noise levels recorded by acoustic monitoring stations.", []string{"environment", "noise", "pollution"}, "Medio ambiente", "acoustic noise levels"},
	{"trees", "Street trees inventory", "Inventory of street trees with species, height and trunk diameter.", []string{"environment", "trees", "parks"}, "Medio ambiente", "street trees species"},
	{"recycling", "Recycling containers", "Location of glass, paper and packaging recycling containers.", []string{"environment", "waste", "recycling"}, "Medio ambiente", "recycling containers glass"},
	{"water-use", "Water consumption", "Monthly water consumption by district and use type.", []string{"environment", "water"}, "Medio ambiente", "water consumption monthly"},
	{"budget", "Municipal budget", "Approved annual budget with income and expenditure by program.", []string{"economy", "budget", "finance"}, "Economia", "annual budget expenditure"},
	{"contracts", "Public procurement contracts", "Awarded public contracts with supplier, amount and procedure.", []string{"economy", "contracts", "procurement"}, "Economia", "procurement contracts supplier"},
	{"unemployment", "Registered unemployment", "Registered job seekers by district, sex and sector.", []string{"economy", "employment"}, "Economia", "job seekers unemployment"},
	{"businesses", "Business licences", "Business activity licences granted with activity type and address.", []string{"economy", "business", "licences"}, "Economia", "business activity licences"},
	{"tourism", "Tourist accommodation", "Hotels and tourist apartments with number of beds.", []string{"economy", "tourism", "hotels"}, "Economia", "tourist apartments hotels"},
	{"libraries", "Public libraries", "Municipal libraries with opening hours and loan statistics.", []string{"culture", "libraries", "books"}, "Cultura", "libraries loans opening"},
	{"museums", "Museum visitors", "Monthly visitors to municipal museums and exhibition halls.", []string{"culture", "museums", "visitors"}, "Cultura", "museum visitors exhibitions"},
	{"events", "Cultural events agenda", "Agenda of concerts, theatre and festivals organised by the city.", []string{"culture", "events", "agenda"}, "Cultura", "concerts theatre festivals"},
	{"monuments", "Historic monuments", "Catalogue of protected historic monuments and heritage buildings.", []string{"culture", "heritage", "monuments"}, "Cultura", "heritage monuments protected"},
	{"schools", "Schools directory", "Public and private schools with education levels and addresses.", []string{"education", "schools"}, "Educacion", "schools education levels"},
	{"school-meals", "School meal grants", "Grants for school meals awarded per school year.", []string{"education", "grants"}, "Educacion", "school meal grants"},
	{"health-centres", "Health centres", "Primary care health centres with services and opening times.", []string{"health", "centres"}, "Salud", "primary care centres"},
	{"pharmacies", "Pharmacies on duty", "Pharmacies on night duty by district and date.", []string{"health", "pharmacies"}, "Salud", "pharmacies night duty"},
	{"defibrillators", "Public defibrillators", "Location of automated external defibrillators in public spaces.", []string{"health", "emergency"}, "Salud", "external defibrillators"},
	{"police", "Police interventions", "Municipal police interventions by type and district.", []string{"security", "police"}, "Seguridad", "police interventions"},
	{"fire", "Fire brigade call-outs", "Fire brigade emergency call-outs by incident type.", []string{"security", "fire", "emergency"}, "Seguridad", "fire brigade callouts"},
}

var (
	formats     = []string{"CSV", "JSON", "XLSX", "XML", "PDF", ""}
	licenses    = []string{"CC-BY", "CC0", "ODbL", "CC-BY-SA", "proprietary", ""}
	frequencies = []string{"daily", "weekly", "monthly", "quarterly", "annual", ""}
)

// editions is how many yearly editions of each topic the corpus contains.
const editions = 2

// BuildCorpus returns a catalog of two yearly editions per topic with varied metadata quality,
// plus one free-text query case per topic.
func BuildCorpus() *Corpus {
	records := buildRecords()
	cases := buildTextCases()
	return &Corpus{
		Records:      records,
		TextCases:    cases,
		Categories:   categories(),
		TotalRecords: len(records),
		TotalQueries: len(cases),
	}
}

// RecordID is the dataset ID for a topic edition.
func RecordID(slug string, edition int) string {
	return fmt.Sprintf("%s-%d", slug, 2023+edition)
}

func buildRecords() []models.DatasetRecord {
	out := make([]models.DatasetRecord, 0, len(topics)*editions)
	for e := 0; e < editions; e++ {
		for i, t := range topics {
			n := e*len(topics) + i
			rec := models.DatasetRecord{
				ID:          RecordID(t.slug, e),
				Title:       fmt.Sprintf("%s %d", t.title, 2023+e),
				Description: t.description,
				Format:      formats[n%len(formats)],
				License:     licenses[n%len(licenses)],
				Frequency:   frequencies[n%len(frequencies)],
				Category:    t.category,
				Tags:        append([]string(nil), t.tags...),
				LastUpdated: Now.AddDate(0, 0, -n*20),
			}
			// Every seventh record is a poorly documented stub.
			if n%7 == 3 {
				rec.Description = ""
				rec.Tags = []string{}
			}
			out = append(out, rec)
		}
	}
	return out
}

func buildTextCases() []TextQueryCase {
	cases := make([]TextQueryCase, 0, len(topics))
	for _, t := range topics {
		ids := make([]string, 0, editions)
		for e := 0; e < editions; e++ {
			ids = append(ids, RecordID(t.slug, e))
		}
		cases = append(cases, TextQueryCase{
			Query:       t.query,
			ExpectedIDs: ids,
			Description: fmt.Sprintf("query %q should recommend a %s edition", t.query, t.slug),
		})
	}
	return cases
}

func categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range topics {
		if !seen[t.category] {
			seen[t.category] = true
			out = append(out, t.category)
		}
	}
	return out
}

// ContainsQueryTerm reports whether any query word appears in the record's text.
func ContainsQueryTerm(rec models.DatasetRecord, query string) bool {
	text := strings.ToLower(rec.Title + " " + rec.Description + " " + strings.Join(rec.Tags, " "))
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
