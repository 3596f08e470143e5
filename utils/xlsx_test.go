package utils

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeTestXLSX(t *testing.T, sheetXML, sharedXML string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "roster.xlsx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create xlsx: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	sheet, err := w.Create("xl/worksheets/sheet1.xml")
	if err != nil {
		t.Fatalf("failed to add worksheet: %v", err)
	}
	if _, err := sheet.Write([]byte(sheetXML)); err != nil {
		t.Fatalf("failed to write worksheet: %v", err)
	}
	if sharedXML != "" {
		shared, err := w.Create("xl/sharedStrings.xml")
		if err != nil {
			t.Fatalf("failed to add shared strings: %v", err)
		}
		if _, err := shared.Write([]byte(sharedXML)); err != nil {
			t.Fatalf("failed to write shared strings: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finish xlsx: %v", err)
	}
	return path
}

func TestReadXLSXRowsInlineStrings(t *testing.T) {
	sheet := `<?xml version="1.0"?><worksheet><sheetData>` +
		`<row r="1">` +
		`<c r="A1" t="inlineStr"><is><t>Matricule</t></is></c>` +
		`<c r="B1" t="inlineStr"><is><t>Prénom</t></is></c>` +
		`<c r="C1" t="inlineStr"><is><t>Nom</t></is></c>` +
		`</row>` +
		`<row r="2">` +
		`<c r="A2" t="inlineStr"><is><t>M-2019/114</t></is></c>` +
		`<c r="C2" t="inlineStr"><is><t>Traoré</t></is></c>` +
		`</row>` +
		`</sheetData></worksheet>`

	rows, err := ReadXLSXRows(writeTestXLSX(t, sheet, ""))
	if err != nil {
		t.Fatalf("ReadXLSXRows returned error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("rows: got %d want 2", len(rows))
	}
	if rows[0][0] != "Matricule" || rows[0][1] != "Prénom" || rows[0][2] != "Nom" {
		t.Fatalf("header row: got %v", rows[0])
	}
	// the skipped B2 cell must leave a gap so columns stay aligned
	if rows[1][0] != "M-2019/114" || rows[1][1] != "" || rows[1][2] != "Traoré" {
		t.Fatalf("data row: got %v", rows[1])
	}
}

func TestReadXLSXRowsSharedStrings(t *testing.T) {
	shared := `<?xml version="1.0"?><sst><si><t>id</t></si><si><t>first_name</t></si><si><t>last_name</t></si></sst>`
	sheet := `<?xml version="1.0"?><worksheet><sheetData>` +
		`<row r="1">` +
		`<c r="A1" t="s"><v>0</v></c>` +
		`<c r="B1" t="s"><v>1</v></c>` +
		`<c r="C1" t="s"><v>2</v></c>` +
		`</row>` +
		`<row r="2">` +
		`<c r="A2"><v>114</v></c>` +
		`<c r="B2" t="s"><v>1</v></c>` +
		`<c r="C2" t="s"><v>2</v></c>` +
		`</row>` +
		`</sheetData></worksheet>`

	rows, err := ReadXLSXRows(writeTestXLSX(t, sheet, shared))
	if err != nil {
		t.Fatalf("ReadXLSXRows returned error: %v", err)
	}

	headers := NormalizeHeaders(rows[0])
	for _, col := range []string{"id", "first_name", "last_name"} {
		if _, ok := headers[col]; !ok {
			t.Fatalf("missing header %q in %v", col, headers)
		}
	}
	data := ReadRow(headers, rows[1])
	if data["id"] != "114" {
		t.Fatalf("numeric cell: got %q want 114", data["id"])
	}
}

func TestReadXLSXRowsCellsWithoutReferences(t *testing.T) {
	// Some generators omit the r attribute entirely; cells then occupy
	// consecutive columns.
	sheet := `<?xml version="1.0"?><worksheet><sheetData>` +
		`<row>` +
		`<c t="inlineStr"><is><t>Matricule</t></is></c>` +
		`<c t="inlineStr"><is><t>Prénom</t></is></c>` +
		`<c t="inlineStr"><is><t>Nom</t></is></c>` +
		`</row>` +
		`<row>` +
		`<c t="inlineStr"><is><t>M-2020/051</t></is></c>` +
		`<c t="inlineStr"><is><t>Awa</t></is></c>` +
		`<c t="inlineStr"><is><t>Diallo</t></is></c>` +
		`</row>` +
		`</sheetData></worksheet>`

	rows, err := ReadXLSXRows(writeTestXLSX(t, sheet, ""))
	if err != nil {
		t.Fatalf("ReadXLSXRows returned error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("rows: got %d want 2", len(rows))
	}
	if rows[0][0] != "Matricule" || rows[0][1] != "Prénom" || rows[0][2] != "Nom" {
		t.Fatalf("header row: got %v", rows[0])
	}
	if rows[1][0] != "M-2020/051" || rows[1][1] != "Awa" || rows[1][2] != "Diallo" {
		t.Fatalf("data row: got %v", rows[1])
	}
}

func TestReadXLSXRowsMissingWorksheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	w := zip.NewWriter(f)
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	f.Close()

	if _, err := ReadXLSXRows(path); err == nil {
		t.Fatalf("expected error for xlsx without worksheet")
	}
}
