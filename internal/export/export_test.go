package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"
)

func testSnapshot() *dataset.Snapshot {
	return &dataset.Snapshot{
		IntegrationIndex: dataset.IntegrationIndex{
			TotalScore: 78.5,
			Grade:      "B",
			Categories: dataset.CategoryScores{
				Contract:  dataset.CategoryWeight{Score: 82.1, Weight: 0.4},
				Personnel: dataset.CategoryWeight{Score: 75.8, Weight: 0.3},
				Budget:    dataset.CategoryWeight{Score: 77.9, Weight: 0.3},
			},
		},
		Departments: []dataset.Department{
			{ID: "planning", Name: "Planning and Budget", Score: 85.2, Rank: 1,
				Trend: "+1.2", EmployeeCount: 32,
				CategoryScores: dataset.DeptCategories{Contract: 86, Personnel: 84.1, Budget: 85.5}},
			{ID: "civil", Name: "Civil Service", Score: 82.7, Rank: 2,
				Trend: "-0.3", EmployeeCount: 28,
				CategoryScores: dataset.DeptCategories{Contract: 81.9, Personnel: 83.2, Budget: 83}},
		},
		Statistics: dataset.Statistics{TotalDepartments: 2, AverageScore: 84.0},
	}
}

var testNow = time.Date(2025, 7, 31, 14, 30, 0, 0, time.UTC)

func TestCSV_StartsWithBOM(t *testing.T) {
	out := CSV(testSnapshot())
	if !strings.HasPrefix(out, "\ufeff") {
		t.Error("CSV output missing UTF-8 BOM")
	}
}

func TestCSV_HeaderAndRows(t *testing.T) {
	out := strings.TrimPrefix(CSV(testSnapshot()), "\ufeff")

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("re-parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	if got := strings.Join(records[0], ","); got != "Department,Score,Rank,Trend,Employees,Contract,Personnel,Budget" {
		t.Errorf("header: got %q", got)
	}
	row := records[1]
	if row[0] != "Planning and Budget" || row[1] != "85.2" || row[2] != "1" || row[3] != "+1.2" {
		t.Errorf("first row: got %v", row)
	}
}

func TestCSV_EmptyDepartments(t *testing.T) {
	out := strings.TrimPrefix(CSV(&dataset.Snapshot{}), "\ufeff")
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("re-parse CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want header only", len(records))
	}
}

func TestCSVFilename(t *testing.T) {
	if got := CSVFilename(testNow); got != "gongju_integrity_2025-07-31.csv" {
		t.Errorf("CSVFilename: got %q", got)
	}
}

func TestPrintableHTML(t *testing.T) {
	out := PrintableHTML(testSnapshot(), testNow)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"78.5 (B)",
		"Planning and Budget",
		"Civil Service",
		"2025-07-31 14:30",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestPrintableHTML_EscapesNames(t *testing.T) {
	snap := testSnapshot()
	snap.Departments[0].Name = `<script>alert("x")</script>`
	out := PrintableHTML(snap, testNow)
	if strings.Contains(out, "<script>") {
		t.Error("report did not escape HTML in department names")
	}
}

func TestShareText(t *testing.T) {
	out := ShareText(testSnapshot(), testNow)
	for _, want := range []string{
		"Gongju Integrity Index (2025-07-31)",
		"Total: 78.5 (B, grade-B)",
		"1. Planning and Budget 85.2 (+1.2)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("share text missing %q\n%s", want, out)
		}
	}
}

func TestBookmarks_SaveIsolatesSnapshot(t *testing.T) {
	bs := NewBookmarks()
	snap := testSnapshot()

	bm := bs.Save("before reform", snap)
	snap.Departments[0].Score = 0

	got, ok := bs.Get(bm.ID)
	if !ok {
		t.Fatal("Get: bookmark not found")
	}
	if got.Snapshot.Departments[0].Score == 0 {
		t.Error("bookmark shares memory with the live snapshot")
	}
	if got.Label != "before reform" {
		t.Errorf("label: got %q", got.Label)
	}
}

func TestBookmarks_ListAndDelete(t *testing.T) {
	bs := NewBookmarks()
	a := bs.Save("a", testSnapshot())
	b := bs.Save("b", testSnapshot())

	if a.ID == b.ID {
		t.Fatal("bookmark ids must be unique")
	}
	if got := len(bs.List()); got != 2 {
		t.Fatalf("List: got %d, want 2", got)
	}

	if !bs.Delete(a.ID) {
		t.Fatal("Delete returned false for existing id")
	}
	if bs.Delete(a.ID) {
		t.Error("Delete returned true for already-deleted id")
	}
	list := bs.List()
	if len(list) != 1 || list[0].ID != b.ID {
		t.Errorf("List after delete: got %v", list)
	}
}

func TestBookmarks_GetMissing(t *testing.T) {
	if _, ok := NewBookmarks().Get("nope"); ok {
		t.Error("Get on empty store returned true")
	}
}
