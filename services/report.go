package services

import (
	"fmt"
	"sort"
	"strings"

	"alice-pipeline/models"
	"alice-pipeline/utils"
)

// IntegrationReport holds the computed statistics over the enhanced dataset.
type IntegrationReport struct {
	TotalRecords     int
	WithDemographics int
	CoveragePercent  float64
	RecordsByLevel   map[string]int
	AvgCombinedRate  float64
	MinCombinedRate  float64
	MaxCombinedRate  float64
	HardestHit       []*models.EnhancedRecord
	DataSources      []string
}

type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

func (s *ReportService) Generate(records []models.EnhancedRecord, summary *MergeSummary, sources []string) *IntegrationReport {
	report := &IntegrationReport{
		RecordsByLevel: make(map[string]int),
		DataSources:    sources,
	}

	if summary != nil {
		report.TotalRecords = summary.TotalRecords
		report.WithDemographics = summary.WithDemographics
		report.CoveragePercent = summary.CoveragePercent
	}

	if len(records) == 0 {
		return report
	}

	var rated []*models.EnhancedRecord
	for i := range records {
		r := &records[i]
		report.RecordsByLevel[r.GeoLevel]++
		if r.CombinedRate > 0 {
			rated = append(rated, r)
		}
	}

	// Rate stats (only records with a combined rate)
	if len(rated) > 0 {
		report.MinCombinedRate = rated[0].CombinedRate
		report.MaxCombinedRate = rated[0].CombinedRate
		var total float64
		for _, r := range rated {
			total += r.CombinedRate
			if r.CombinedRate < report.MinCombinedRate {
				report.MinCombinedRate = r.CombinedRate
			}
			if r.CombinedRate > report.MaxCombinedRate {
				report.MaxCombinedRate = r.CombinedRate
			}
		}
		report.AvgCombinedRate = round1(total / float64(len(rated)))
	}

	// Top 5 hardest hit by combined rate
	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].CombinedRate > rated[j].CombinedRate
	})
	if len(rated) > 5 {
		report.HardestHit = rated[:5]
	} else {
		report.HardestHit = rated
	}

	return report
}

func (s *ReportService) Print(r *IntegrationReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 ALICE INTEGRATION SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Coverage
	fmt.Printf("\033[1;33m  Merge Coverage\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total records      : \033[1m%d\033[0m\n", r.TotalRecords)
	fmt.Printf("  With demographics  : \033[1m%d\033[0m\n", r.WithDemographics)
	fmt.Printf("  Coverage           : \033[1;32m%.1f%%\033[0m\n", r.CoveragePercent)
	fmt.Println()

	// Records by level
	fmt.Printf("\033[1;33m  Records by Geography Level\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.RecordsByLevel) == 0 {
		fmt.Printf("  No records\n")
	} else {
		levels := make([]string, 0, len(r.RecordsByLevel))
		for level := range r.RecordsByLevel {
			levels = append(levels, level)
		}
		sort.Strings(levels)
		for _, level := range levels {
			fmt.Printf("  %-10s : \033[1m%d\033[0m\n", level, r.RecordsByLevel[level])
		}
	}
	fmt.Println()

	// Combined-rate statistics
	fmt.Printf("\033[1;33m  Households Below ALICE Threshold (combined rate)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.AvgCombinedRate > 0 {
		fmt.Printf("  Average : \033[1;32m%.1f%%\033[0m\n", r.AvgCombinedRate)
		fmt.Printf("  Minimum : \033[1;32m%.1f%%\033[0m\n", r.MinCombinedRate)
		fmt.Printf("  Maximum : \033[1;32m%.1f%%\033[0m\n", r.MaxCombinedRate)
	} else {
		fmt.Printf("  No rate data available\n")
	}
	fmt.Println()

	// Hardest-hit geographies
	fmt.Printf("\033[1;33m  Top 5 Hardest-Hit Geographies\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.HardestHit) == 0 {
		fmt.Printf("  No rated records found\n")
	} else {
		for i, rec := range r.HardestHit {
			label := rec.GeoDisplayLabel
			if label == "" {
				label = rec.GeoID
			}
			fmt.Printf("  \033[1m%d.\033[0m %-36s \033[1;31m%.1f%%\033[0m\n",
				i+1, truncate(label, 34), rec.CombinedRate)
		}
	}
	fmt.Println()

	// Data sources
	fmt.Printf("\033[1;33m  Data Sources\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, src := range r.DataSources {
		fmt.Printf("  • %s\n", src)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
