package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hirestack/resume-intake/constants"
)

var now = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestAge(t *testing.T) {
	tests := []struct {
		name     string
		dob      string
		gradYear string
		want     string
	}{
		{name: "date of birth wins", dob: "1995-06-20", gradYear: "2017", want: "31"},
		{name: "graduation year fallback", gradYear: "2018", want: "30"},
		{name: "bad dob never falls back", dob: "20/06/1995", gradYear: "2017", want: constants.NotAvailable},
		{name: "sentinel dob treated as absent", dob: constants.NotAvailable, gradYear: "2018", want: "30"},
		{name: "bad graduation year", gradYear: "circa 2018", want: constants.NotAvailable},
		{name: "nothing known", want: constants.NotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(now, tt.dob, tt.gradYear))
		})
	}
}

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "already on ten scale", raw: "7.5", want: "7.5", wantOK: true},
		{name: "integer formatted with one decimal", raw: "8", want: "8.0", wantOK: true},
		{name: "hundred scale rescaled", raw: "85", want: "8.5", wantOK: true},
		{name: "boundary ten stays", raw: "10", want: "10.0", wantOK: true},
		{name: "non numeric", raw: "excellent", wantOK: false},
		{name: "empty", raw: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeScore(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBatchScore(t *testing.T) {
	assert.Equal(t, "8.5", BatchScore("85"))
	assert.Equal(t, "0", BatchScore("not a score"))
	assert.Equal(t, "0", BatchScore(""))
}

func TestCleanMobile(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain ten digits", raw: "9876543210", want: "9876543210"},
		{name: "formatted number", raw: "+91 98765-43210", want: "9876543210"},
		{name: "country code stripped", raw: "919876543210", want: "9876543210"},
		{name: "too short", raw: "98765", want: constants.NotAvailable},
		{name: "empty", raw: "", want: constants.NotAvailable},
		{name: "sentinel passthrough", raw: constants.NotAvailable, want: constants.NotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanMobile(tt.raw))
		})
	}
}
