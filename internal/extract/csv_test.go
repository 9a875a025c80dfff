package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeTable(t *testing.T) {
	in := "first_name,last_name,email\nAsha,Rao,asha@x.com\nRavi,Iyer,\n"
	tab, err := DecodeTable(strings.NewReader(in))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(tab.Columns) != 3 || tab.Columns[0] != "first_name" {
		t.Fatalf("columns: %v", tab.Columns)
	}
	if len(tab.Rows) != 2 {
		t.Fatalf("rows: %d", len(tab.Rows))
	}
	if tab.Rows[0]["email"] != "asha@x.com" {
		t.Fatalf("row0: %v", tab.Rows[0])
	}
	if tab.Rows[1]["email"] != "" {
		t.Fatalf("empty cell must stay empty: %v", tab.Rows[1])
	}
}

func TestDecodeTableSemicolonDelimiter(t *testing.T) {
	in := "product_name;category;price\nMug;kitchen;5.00\n"
	tab, err := DecodeTable(strings.NewReader(in))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(tab.Columns) != 3 {
		t.Fatalf("delimiter detection failed: %v", tab.Columns)
	}
	if tab.Rows[0]["price"] != "5.00" {
		t.Fatalf("row: %v", tab.Rows[0])
	}
}

func TestDecodeTableShortRow(t *testing.T) {
	in := "a,b,c\n1,2\n"
	tab, err := DecodeTable(strings.NewReader(in))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if tab.Rows[0]["c"] != "" {
		t.Fatalf("missing trailing cell must be empty: %v", tab.Rows[0])
	}
}

func TestDecodeTableEmpty(t *testing.T) {
	tab, err := DecodeTable(strings.NewReader(""))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(tab.Columns) != 0 || len(tab.Rows) != 0 {
		t.Fatalf("got %+v", tab)
	}
}

func TestReadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "customers.csv")
	if err := os.WriteFile(path, []byte("email\na@x.com\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tab, err := ReadTable(path)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(tab.Rows) != 1 || tab.Rows[0]["email"] != "a@x.com" {
		t.Fatalf("got %+v", tab)
	}
}

func TestReadTableMissingFile(t *testing.T) {
	if _, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatalf("missing file must error")
	}
}
