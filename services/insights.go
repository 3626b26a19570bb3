package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"caregrid-listings/models"
	"caregrid-listings/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate builds the QA report for a finished run. totalProcessed is the
// number of raw rows loaded.
func (s *InsightService) Generate(totalProcessed int, listings []*models.Listing) *models.QAReport {
	report := &models.QAReport{
		TotalProcessed: totalProcessed,
		TotalOutput:    len(listings),
		ByStatus:       make(map[models.Status]int),
		ByCategory:     make(map[string]int),
		ByCity:         make(map[string]int),
	}

	for _, l := range listings {
		report.ByStatus[l.Status]++
		if l.Status == models.StatusMergedDuplicate {
			continue
		}
		report.ByCategory[l.Category]++
		if l.City != "" {
			report.ByCity[l.City]++
		}
		if l.Latitude != nil && l.Longitude != nil {
			report.Geocoded++
		}
		if report.FirstReady == nil && l.Status == models.StatusReady {
			report.FirstReady = l
		}
	}

	return report
}

func (s *InsightService) Print(w io.Writer, r *models.QAReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 QA SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total records processed : \033[1m%d\033[0m\n", r.TotalProcessed)
	fmt.Fprintf(w, "  Total records output    : \033[1m%d\033[0m\n", r.TotalOutput)
	fmt.Fprintf(w, "  Geocoded                : \033[1m%d\033[0m\n", r.Geocoded)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Status breakdown\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, st := range models.Statuses {
		fmt.Fprintf(w, "  %s %d\n", pad(string(st), 24), r.ByStatus[st])
	}
	fmt.Fprintln(w)

	printCounts(w, "Listings by Category", r.ByCategory, thin)
	printCounts(w, "Listings by City", r.ByCity, thin)

	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)
}

func printCounts(w io.Writer, title string, counts map[string]int, thin string) {
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(counts) == 0 {
		fmt.Fprintf(w, "  No data\n\n")
		return
	}

	type keyCount struct {
		key   string
		count int
	}
	var rows []keyCount
	for k, c := range counts {
		rows = append(rows, keyCount{k, c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].key < rows[j].key
	})

	for _, kc := range rows {
		bar := strings.Repeat("█", kc.count)
		fmt.Fprintf(w, "  %s %s (%d)\n", pad(runewidth.Truncate(kc.key, 28, "..."), 30), bar, kc.count)
	}
	fmt.Fprintln(w)
}

// pad right-fills s to a terminal display width.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
