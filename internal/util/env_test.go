package util

import "testing"

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "value")

	if got := GetEnvString("TEST_STRING", "fallback"); got != "value" {
		t.Errorf("GetEnvString() = %q, want %q", got, "value")
	}
	if got := GetEnvString("TEST_STRING_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnvString() = %q, want %q", got, "fallback")
	}
}

func TestGetEnvNumeric(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{name: "integer", value: "42", want: 42},
		{name: "float", value: "1.5", want: 1.5},
		{name: "not a number", value: "many", want: 7},
		{name: "empty", value: "", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_NUMERIC", tt.value)
			if got := GetEnvNumeric("TEST_NUMERIC", 7); got != tt.want {
				t.Errorf("GetEnvNumeric(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	if got := GetEnvNumeric("TEST_NUMERIC_MISSING", 7); got != 7 {
		t.Errorf("GetEnvNumeric() = %v, want default 7", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "true", value: "true", want: true},
		{name: "false", value: "false", want: false},
		{name: "one", value: "1", want: true},
		{name: "zero", value: "0", want: false},
		{name: "mixed case", value: "TRUE", want: true},
		{name: "garbage", value: "yes", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := GetEnvBool("TEST_BOOL", false); got != tt.want {
				t.Errorf("GetEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	if got := GetEnvBool("TEST_BOOL_MISSING", true); got != true {
		t.Errorf("GetEnvBool() = %v, want default true", got)
	}
}
