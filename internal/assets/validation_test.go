package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	valid := []string{"print", "studio", "print-dark", "print_v2", "Print2"}
	invalid := []string{"", "print.css", "css/print", `css\print`, "..", "../print", "print."}

	for _, name := range valid {
		if err := ValidateAssetName(name); err != nil {
			t.Errorf("ValidateAssetName(%q) unexpected error: %v", name, err)
		}
	}
	for _, name := range invalid {
		if err := ValidateAssetName(name); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", name, err)
		}
	}
}

func TestValidateAssetName_ErrorMessages(t *testing.T) {
	t.Parallel()

	if err := ValidateAssetName(""); err == nil || !strings.Contains(err.Error(), "empty name") {
		t.Errorf("empty name error = %v, want mention of empty name", err)
	}
	if err := ValidateAssetName("../print"); err == nil || !strings.Contains(err.Error(), `"../print"`) {
		t.Errorf("traversal error = %v, want the quoted name", err)
	}
}

func TestValidateAssetPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "index.html"},
		{input: "css/app.css"},
		{input: "."},
		{input: "", wantErr: true},
		{input: "..", wantErr: true},
		{input: "../secret", wantErr: true},
		{input: "css/../../secret", wantErr: true},
		{input: "/etc/passwd", wantErr: true},
		{input: "css/", wantErr: true},
		{input: "css\\app.css", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetPath(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidAssetPath) {
				t.Errorf("ValidateAssetPath(%q) error = %v, want ErrInvalidAssetPath", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateAssetPath(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}
