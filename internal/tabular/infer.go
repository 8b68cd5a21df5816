package tabular

import "regexp"

// ColumnType is the sniffed data type of a spreadsheet column.
type ColumnType string

const (
	TypeEmail  ColumnType = "email"
	TypeURL    ColumnType = "url"
	TypePhone  ColumnType = "phone"
	TypeNumber ColumnType = "number"
	TypeString ColumnType = "string"
)

var (
	sniffEmailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	sniffURLRe    = regexp.MustCompile(`^(https?://|www\.)\S+$`)
	sniffPhoneRe  = regexp.MustCompile(`^\+?[\d\s().-]{7,20}$`)
	sniffNumberRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// inferSampleSize bounds how many rows the sniffer examines per column.
const inferSampleSize = 20

// InferColumnTypes sniffs each column's type from a sample of its values.
// A column gets a non-string type only when a majority of its non-empty
// sampled values match the pattern.
func InferColumnTypes(header []string, rows []Row) map[string]ColumnType {
	types := make(map[string]ColumnType, len(header))
	for _, col := range header {
		types[col] = inferColumn(col, rows)
	}
	return types
}

func inferColumn(col string, rows []Row) ColumnType {
	var emails, urls, phones, numbers, seen int

	for i, row := range rows {
		if i >= inferSampleSize {
			break
		}
		v := row[col]
		if v == "" {
			continue
		}
		seen++
		switch {
		case sniffEmailRe.MatchString(v):
			emails++
		case sniffURLRe.MatchString(v):
			urls++
		case sniffNumberRe.MatchString(v):
			numbers++
		case sniffPhoneRe.MatchString(v):
			phones++
		}
	}

	if seen == 0 {
		return TypeString
	}
	majority := seen/2 + 1
	switch {
	case emails >= majority:
		return TypeEmail
	case urls >= majority:
		return TypeURL
	case numbers >= majority:
		return TypeNumber
	case phones >= majority:
		return TypePhone
	default:
		return TypeString
	}
}
