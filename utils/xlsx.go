package utils

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// NormalizeHeaders maps lowercased, trimmed header names to column indices.
func NormalizeHeaders(row []string) map[string]int {
	headers := make(map[string]int)
	for idx, h := range row {
		key := strings.TrimSpace(strings.ToLower(h))
		if key != "" {
			headers[key] = idx
		}
	}
	return headers
}

// ReadRow extracts named values from a data row using the header map.
func ReadRow(headers map[string]int, row []string) map[string]string {
	values := make(map[string]string)
	for key, idx := range headers {
		if idx < len(row) {
			values[key] = row[idx]
		}
	}
	return values
}

// OptionalString returns nil for blank values.
func OptionalString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ParseDate tries the date layouts seen in exported spreadsheets.
func ParseDate(val string) *time.Time {
	layouts := []string{"2006-01-02", "02/01/2006", "01/02/2006", "2/1/2006"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, val); err == nil {
			return &t
		}
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t
	}
	return nil
}

// ReadXLSXRows extracts all rows from the first worksheet of an XLSX file without third-party dependencies.
func ReadXLSXRows(path string) ([][]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var sheetXML, sharedXML io.ReadCloser
	for _, f := range r.File {
		switch f.Name {
		case "xl/worksheets/sheet1.xml":
			sheetXML, _ = f.Open()
		case "xl/sharedStrings.xml":
			sharedXML, _ = f.Open()
		}
	}

	if sheetXML == nil {
		return nil, fmt.Errorf("worksheet not found")
	}
	defer sheetXML.Close()
	defer func() {
		if sharedXML != nil {
			sharedXML.Close()
		}
	}()

	sharedStrings, _ := parseSharedStrings(sharedXML)
	return parseSheet(sheetXML, sharedStrings)
}

func parseSharedStrings(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, nil
	}
	type t struct {
		XMLName xml.Name `xml:"sst"`
		Items   []struct {
			T string `xml:"t"`
		} `xml:"si"`
	}
	var data t
	if err := xml.NewDecoder(r).Decode(&data); err != nil {
		return nil, err
	}
	strs := make([]string, 0, len(data.Items))
	for _, item := range data.Items {
		strs = append(strs, item.T)
	}
	return strs, nil
}

func parseSheet(r io.Reader, shared []string) ([][]string, error) {
	decoder := xml.NewDecoder(r)
	rows := [][]string{}
	var currentRow []string
	var lastCol int

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				currentRow = []string{}
				lastCol = 0
			}
			if se.Name.Local == "c" {
				var cell struct {
					R  string `xml:"r,attr"`
					T  string `xml:"t,attr"`
					V  string `xml:"v"`
					IS struct {
						T string `xml:"t"`
					} `xml:"is"`
				}
				if err := decoder.DecodeElement(&cell, &se); err != nil {
					return nil, err
				}

				colIdx := columnIndex(cell.R)
				if colIdx < 1 {
					// Cell references are optional in the sheet XML; an
					// unreferenced cell occupies the next column.
					colIdx = lastCol + 1
				}
				for len(currentRow) < colIdx-1 {
					currentRow = append(currentRow, "")
				}

				value := cell.V
				if cell.T == "s" { // shared string
					if idx, err := strconv.Atoi(strings.TrimSpace(cell.V)); err == nil && idx < len(shared) {
						value = shared[idx]
					}
				} else if cell.T == "inlineStr" {
					value = cell.IS.T
				}

				if len(currentRow) < colIdx {
					currentRow = append(currentRow, value)
				} else {
					currentRow[colIdx-1] = value
				}
				lastCol = colIdx
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				// Ensure row length aligns
				if len(currentRow) < lastCol {
					for len(currentRow) < lastCol {
						currentRow = append(currentRow, "")
					}
				}
				rows = append(rows, currentRow)
			}
		}
	}

	return rows, nil
}

func columnIndex(cellRef string) int {
	colPart := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, cellRef)

	col := 0
	for i := 0; i < len(colPart); i++ {
		col = col*26 + int(strings.ToUpper(string(colPart[i]))[0]-'A') + 1
	}
	return col
}
