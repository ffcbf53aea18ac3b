package main

import (
	"reflect"
	"testing"
)

func TestParseAttrs(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]any
		wantErr bool
	}{
		{
			name:  "empty",
			pairs: nil,
			want:  nil,
		},
		{
			name:  "typed values",
			pairs: []string{"amount=1200", "approved=true", "region=eu-west-1"},
			want:  map[string]any{"amount": float64(1200), "approved": true, "region": "eu-west-1"},
		},
		{
			name:  "value containing equals",
			pairs: []string{"filter=a=b"},
			want:  map[string]any{"filter": "a=b"},
		},
		{
			name:  "empty value is a string",
			pairs: []string{"note="},
			want:  map[string]any{"note": ""},
		},
		{
			name:    "missing equals",
			pairs:   []string{"amount"},
			wantErr: true,
		},
		{
			name:    "empty key",
			pairs:   []string{"=5"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAttrs(tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAttrs(%v) error = %v, wantErr %v", tt.pairs, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseAttrs(%v) = %v, want %v", tt.pairs, got, tt.want)
			}
		})
	}
}

func TestParseScalar(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"1200", float64(1200)},
		{"3.14", 3.14},
		{"-5", float64(-5)},
		{"true", true},
		{"false", false},
		{"pii", "pii"},
		{"eu-west-1", "eu-west-1"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := parseScalar(tt.in); got != tt.want {
			t.Errorf("parseScalar(%q) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
		}
	}
}
