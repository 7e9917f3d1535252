package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/score"
)

// Category names used across the index, filters and exports.
const (
	CategoryContract  = "contract"
	CategoryPersonnel = "personnel"
	CategoryBudget    = "budget"
)

// CategoryWeight is one weighted category sub-score of the integration index.
type CategoryWeight struct {
	// Score is the category sub-score, 0–100.
	Score float64 `json:"score"`

	// Weight is the category's share of the total, 0–1. The three weights
	// must sum to 1.0.
	Weight float64 `json:"weight"`
}

// CategoryScores groups the three weighted categories of the index.
type CategoryScores struct {
	Contract  CategoryWeight `json:"contract"`
	Personnel CategoryWeight `json:"personnel"`
	Budget    CategoryWeight `json:"budget"`
}

// scoreCategories converts to the score package's input type.
func (c CategoryScores) scoreCategories() score.Categories {
	return score.Categories{
		Contract:  score.Category{Score: c.Contract.Score, Weight: c.Contract.Weight},
		Personnel: score.Category{Score: c.Personnel.Score, Weight: c.Personnel.Weight},
		Budget:    score.Category{Score: c.Budget.Score, Weight: c.Budget.Weight},
	}
}

// DeptCategories holds a department's plain per-category scores.
type DeptCategories struct {
	Contract  float64 `json:"contract"`
	Personnel float64 `json:"personnel"`
	Budget    float64 `json:"budget"`
}

// Department is one municipal department's integrity standing.
// Score is mutated only by the live simulator.
type Department struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Score          float64        `json:"score"`
	Rank           int            `json:"rank"`
	Trend          string         `json:"trend"` // signed delta, e.g. "+0.7"
	EmployeeCount  int            `json:"employeeCount"`
	CategoryScores DeptCategories `json:"categoryScores"`
}

// TrendValue parses the department's trend label as a number.
// Unparsable trends read as 0.
func (d Department) TrendValue() float64 {
	v, err := strconv.ParseFloat(d.Trend, 64)
	if err != nil {
		return 0
	}
	return v
}

// IntegrationIndex is the city-wide integrity index. TotalScore and Grade
// are derived from Categories — Load recomputes them and nothing else may
// set them directly.
type IntegrationIndex struct {
	TotalScore          float64        `json:"totalScore"`
	Grade               string         `json:"grade"`
	Categories          CategoryScores `json:"categories"`
	CitizenSatisfaction float64        `json:"citizenSatisfaction"`
	LastUpdated         time.Time      `json:"lastUpdated"`
}

// MonthlyTrend is one month of the historical score series.
// The series is append-only; recorded months are never rewritten.
type MonthlyTrend struct {
	Month          string  `json:"month"` // "2025-07"
	TotalScore     float64 `json:"totalScore"`
	ContractScore  float64 `json:"contractScore"`
	PersonnelScore float64 `json:"personnelScore"`
	BudgetScore    float64 `json:"budgetScore"`
}

// Statistics holds the dashboard's aggregate figures.
type Statistics struct {
	TotalDepartments     int     `json:"totalDepartments"`
	AverageScore         float64 `json:"averageScore"`
	ImprovementRate      float64 `json:"improvementRate"`
	CitizenParticipation int     `json:"citizenParticipation"`
}

// Snapshot is one immutable, internally consistent copy of the full dataset.
// Once published to consumers a Snapshot is never mutated; the simulator
// replaces it wholesale on every tick.
type Snapshot struct {
	IntegrationIndex IntegrationIndex `json:"integrationIndex"`
	Departments      []Department     `json:"departments"`
	MonthlyTrends    []MonthlyTrend   `json:"monthlyTrends"`
	Statistics       Statistics       `json:"statistics"`
}

// Clone returns a deep copy of s. Mutating the copy never affects s.
func (s *Snapshot) Clone() *Snapshot {
	cp := *s
	cp.Departments = append([]Department(nil), s.Departments...)
	cp.MonthlyTrends = append([]MonthlyTrend(nil), s.MonthlyTrends...)
	return &cp
}

// AverageScore is the mean of all department scores, rounded to one decimal.
// Returns 0 for an empty department list.
func (s *Snapshot) AverageScore() float64 {
	if len(s.Departments) == 0 {
		return 0
	}
	var sum float64
	for _, d := range s.Departments {
		sum += d.Score
	}
	return score.Round1(sum / float64(len(s.Departments)))
}

// Load reads the seed dataset from a JSON file, validates it and derives
// the computed fields (index total score, grade, department statistics).
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %q: %w", path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("dataset: parse %q: %w", path, err)
	}

	if err := Validate(&snap); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	if err := Derive(&snap); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return &snap, nil
}

// Validate checks the structural invariants of a snapshot: score ranges,
// unique department ids, and weights summing to 1.
func Validate(s *Snapshot) error {
	seen := make(map[string]bool, len(s.Departments))
	for i, d := range s.Departments {
		if d.ID == "" {
			return fmt.Errorf("departments[%d]: id is required", i)
		}
		if seen[d.ID] {
			return fmt.Errorf("departments[%d]: duplicate id %q", i, d.ID)
		}
		seen[d.ID] = true
		if d.Name == "" {
			return fmt.Errorf("department %q: name is required", d.ID)
		}
		if err := checkRange(d.Score, "department "+d.ID+" score"); err != nil {
			return err
		}
		for name, v := range map[string]float64{
			CategoryContract:  d.CategoryScores.Contract,
			CategoryPersonnel: d.CategoryScores.Personnel,
			CategoryBudget:    d.CategoryScores.Budget,
		} {
			if err := checkRange(v, "department "+d.ID+" "+name+" score"); err != nil {
				return err
			}
		}
	}

	cats := s.IntegrationIndex.Categories
	for name, c := range map[string]CategoryWeight{
		CategoryContract:  cats.Contract,
		CategoryPersonnel: cats.Personnel,
		CategoryBudget:    cats.Budget,
	} {
		if err := checkRange(c.Score, "index "+name+" score"); err != nil {
			return err
		}
		if c.Weight < 0 || c.Weight > 1 {
			return fmt.Errorf("index %s weight %g is out of range [0, 1]", name, c.Weight)
		}
	}

	if err := checkRange(s.IntegrationIndex.CitizenSatisfaction, "citizen satisfaction"); err != nil {
		return err
	}
	return nil
}

// Derive recomputes all derived fields in place: the index total score and
// grade from the weighted categories, and the department statistics.
// It fails if the category weights do not sum to 1.
func Derive(s *Snapshot) error {
	total, err := score.WeightedTotal(s.IntegrationIndex.Categories.scoreCategories())
	if err != nil {
		return err
	}
	s.IntegrationIndex.TotalScore = total
	s.IntegrationIndex.Grade = score.Grade(total)
	s.Statistics.TotalDepartments = len(s.Departments)
	s.Statistics.AverageScore = s.AverageScore()
	return nil
}

func checkRange(v float64, what string) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%s %g is out of range [0, 100]", what, v)
	}
	return nil
}
