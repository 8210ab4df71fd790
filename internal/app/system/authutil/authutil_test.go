package authutil

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		{"valid simple", "user@example.com", nil},
		{"valid subdomain", "user@mail.example.co.uk", nil},
		{"valid plus tag", "user+notes@example.com", nil},

		{"empty", "", ErrEmailRequired},
		{"no at sign", "userexample.com", ErrInvalidEmail},
		{"two at signs", "user@@example.com", ErrInvalidEmail},
		{"missing local part", "@example.com", ErrInvalidEmail},
		{"missing domain dot", "user@example", ErrInvalidEmail},
		{"dot at domain start", "user@.com", ErrInvalidEmail},
		{"dot at domain end", "user@example.", ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if err != tt.wantErr {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, err, tt.wantErr)
			}
		})
	}
}
