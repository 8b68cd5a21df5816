package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"incorporated to inc", "ACME Incorporated", "Acme Inc."},
		{"corporation to corp", "Globex Corporation", "Globex Corp."},
		{"limited to ltd", "Initech Limited", "Initech Ltd."},
		{"llc long form", "Vandelay limited liability company", "Vandelay LLC"},
		{"bare inc gets period", "Acme Inc", "Acme Inc."},
		{"inc period stable", "Acme Inc.", "Acme Inc."},
		{"short acronym kept", "IBM", "IBM"},
		{"long shout title-cased", "ACME", "Acme"},
		{"brand casing kept", "eBay", "eBay"},
		{"interior caps kept", "McKinsey", "McKinsey"},
		{"whitespace collapsed", "Acme   Widgets  Co", "Acme Widgets Co."},
		{"lowercase", "acme widgets", "Acme Widgets"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompanyName(tt.input))
		})
	}
}

func TestCompanyName_Idempotent(t *testing.T) {
	for _, input := range []string{
		"ACME Incorporated",
		"Globex Corporation",
		"eBay Inc",
		"IBM",
		"acme widgets co",
	} {
		once := CompanyName(input)
		assert.Equal(t, once, CompanyName(once), "input %q", input)
	}
}

func TestStripLegalSuffix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Acme Inc.", "Acme"},
		{"Acme, Inc.", "Acme"},
		{"Acme LLC", "Acme"},
		{"Acme Corp", "Acme"},
		{"Globex GmbH", "Globex"},
		{"Initech", "Initech"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, StripLegalSuffix(tt.input))
		})
	}
}
