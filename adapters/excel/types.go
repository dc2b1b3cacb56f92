package excel

// RawTable is a parsed sheet or CSV file before typing
type RawTable struct {
	Headers []string   // Column headers
	Rows    [][]string // Data rows, cells in header order
}
