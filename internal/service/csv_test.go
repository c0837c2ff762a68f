package service

import (
	"errors"
	"testing"

	"github.com/theoleuthardt/backlog-manager/internal/domain"
)

func TestParseCSVContent(t *testing.T) {
	content := "Fortnite,Battle Royale,PC\nHollow Knight,Metroidvania,Switch,Completed\n"

	records, err := ParseCSVContent(content)
	if err != nil {
		t.Fatalf("ParseCSVContent returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0]["A"] != "Fortnite" || records[0]["B"] != "Battle Royale" || records[0]["C"] != "PC" {
		t.Errorf("unexpected first record: %v", records[0])
	}
	if _, ok := records[0]["D"]; ok {
		t.Errorf("first record should have no D cell, got %q", records[0]["D"])
	}
	if records[1]["D"] != "Completed" {
		t.Errorf("expected D=Completed in second record, got %q", records[1]["D"])
	}
}

func TestParseCSVContentQuoting(t *testing.T) {
	content := "\"Baldur's Gate, Enhanced\",\"RPG\",\"PC\"\n\"Multi\nline note\",B,C\n\"He said \"\"hi\"\"\",X,Y\n"

	records, err := ParseCSVContent(content)
	if err != nil {
		t.Fatalf("ParseCSVContent returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if records[0]["A"] != "Baldur's Gate, Enhanced" {
		t.Errorf("embedded comma not preserved: %q", records[0]["A"])
	}
	if records[1]["A"] != "Multi\nline note" {
		t.Errorf("embedded newline not preserved: %q", records[1]["A"])
	}
	if records[2]["A"] != `He said "hi"` {
		t.Errorf("doubled quotes not unescaped: %q", records[2]["A"])
	}
}

func TestParseCSVContentSkipsBlankLines(t *testing.T) {
	content := "Fortnite,A\n\n\nHades,B\n"

	records, err := ParseCSVContent(content)
	if err != nil {
		t.Fatalf("ParseCSVContent returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records after skipping blank lines, got %d", len(records))
	}
	if records[0]["A"] != "Fortnite" || records[1]["A"] != "Hades" {
		t.Errorf("unexpected records: %v", records)
	}
}

func TestParseCSVContentKeepsEmptyCellRows(t *testing.T) {
	// A row of delimiters is not a blank line: it decodes to a record of
	// empty cells and fails title validation downstream instead of
	// vanishing from the row count.
	content := "Fortnite,A\n,,\nHades,B\n"

	records, err := ParseCSVContent(content)
	if err != nil {
		t.Fatalf("ParseCSVContent returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[1]["A"] != "" || records[1]["C"] != "" {
		t.Errorf("unexpected middle record: %v", records[1])
	}
}

func TestParseCSVContentDropsCellsBeyondZ(t *testing.T) {
	cells := make([]string, 30)
	for i := range cells {
		cells[i] = "v"
	}
	content := ""
	for i, c := range cells {
		if i > 0 {
			content += ","
		}
		content += c
	}

	records, err := ParseCSVContent(content)
	if err != nil {
		t.Fatalf("ParseCSVContent returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if len(records[0]) != 26 {
		t.Errorf("expected 26 keyed cells, got %d", len(records[0]))
	}
	if records[0]["Z"] != "v" {
		t.Errorf("column Z missing: %v", records[0])
	}
}

func TestParseCSVContentMalformed(t *testing.T) {
	_, err := ParseCSVContent("\"unterminated,quote\nB,C\n")
	if err == nil {
		t.Fatal("expected error for malformed quoting")
	}
	if !errors.Is(err, ErrMalformedCSV) {
		t.Errorf("expected ErrMalformedCSV, got %v", err)
	}
}

func TestParseCSVContentEmpty(t *testing.T) {
	records, err := ParseCSVContent("")
	if err != nil {
		t.Fatalf("ParseCSVContent returned error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestEncodeRecordsRoundTrip(t *testing.T) {
	records := []domain.ImportRecord{
		{"A": "Fortnite", "B": "Battle Royale", "C": "PC"},
		{"A": "Baldur's Gate, Enhanced", "D": "Completed"},
	}

	encoded, err := EncodeRecords(records)
	if err != nil {
		t.Fatalf("EncodeRecords returned error: %v", err)
	}

	decoded, err := ParseCSVContent(encoded)
	if err != nil {
		t.Fatalf("re-parse returned error: %v", err)
	}
	if len(decoded) != len(records) {
		t.Fatalf("expected %d records after round trip, got %d", len(records), len(decoded))
	}
	if decoded[0]["B"] != "Battle Royale" {
		t.Errorf("round trip lost cell B: %v", decoded[0])
	}
	if decoded[1]["A"] != "Baldur's Gate, Enhanced" {
		t.Errorf("round trip lost quoted cell: %v", decoded[1])
	}
	if decoded[1]["D"] != "Completed" {
		t.Errorf("round trip lost sparse cell D: %v", decoded[1])
	}
}
