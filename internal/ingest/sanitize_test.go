package ingest

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestSanitizeFiltersAndTrims(t *testing.T) {
	table := Table{
		Headers: []string{"ID", "review_text"},
		Rows: [][]string{
			{"1", "  hello  "},
			{"2", ""},
			{"3", "NaN"},
			{"4", "ok"},
		},
	}

	rows, err := Sanitize(table, 4)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	got := Texts(rows)
	if !reflect.DeepEqual(got, []string{"hello", "ok"}) {
		t.Fatalf("got %q, want [hello ok]", got)
	}
	if rows[0].ID != "1" || rows[1].ID != "4" {
		t.Fatalf("ids not kept with their rows: %+v", rows)
	}
}

func TestSanitizeMissingValues(t *testing.T) {
	var data [][]string
	for i, v := range []string{"nan", "None", "NULL", " N/A ", "<NA>", "#N/A", "\t", "real text"} {
		data = append(data, []string{string(rune('a' + i)), v})
	}

	rows, err := Sanitize(Table{Headers: []string{"ID", "review_text"}, Rows: data}, 0)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if len(rows) != 1 || rows[0].Text != "real text" {
		t.Fatalf("expected only the real text to survive, got %+v", rows)
	}
}

func TestSanitizeCapAppliesAfterFiltering(t *testing.T) {
	table := Table{
		Headers: []string{"ID", "review_text"},
		Rows:    [][]string{{"1", ""}, {"2", "a"}, {"3", " "}, {"4", "b"}, {"5", "c"}},
	}

	rows, err := Sanitize(table, 2)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if got := Texts(rows); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("got %q, want [a b]", got)
	}
}

func TestSanitizeWrongSchema(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		missing string
	}{
		{name: "no text column", headers: []string{"ID", "review", "rating"}, missing: "review_text"},
		{name: "no id column", headers: []string{"row", "review_text"}, missing: "ID"},
		{name: "no columns", headers: nil, missing: "ID, review_text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := Table{Headers: tt.headers, Rows: [][]string{{"1", "great", "5"}}}
			rows, err := Sanitize(table, 10)
			if !errors.Is(err, ErrWrongSchema) {
				t.Fatalf("expected ErrWrongSchema, got %v", err)
			}
			if len(rows) != 0 {
				t.Fatalf("expected no rows, got %+v", rows)
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error %q does not name %s", err, tt.missing)
			}
		})
	}
}

func TestSanitizeHeaderMatching(t *testing.T) {
	table := Table{
		Headers: []string{" id ", "Review_Text"},
		Rows:    [][]string{{"7", "fine"}},
	}
	rows, err := Sanitize(table, 10)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "7" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestLoad(t *testing.T) {
	rows, err := Load("reviews.csv", strings.NewReader("ID,review_text\n1,great\n2,\n3,awful\n"), 10)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	_, err = Load("reviews.csv", strings.NewReader("ID,review_text\n1,\n2,NaN\n"), 10)
	if !errors.Is(err, ErrNoValidRows) {
		t.Fatalf("expected ErrNoValidRows, got %v", err)
	}

	_, err = Load("reviews.csv", strings.NewReader("ID,comment\n1,great\n"), 10)
	if !errors.Is(err, ErrWrongSchema) {
		t.Fatalf("expected ErrWrongSchema, got %v", err)
	}
}
