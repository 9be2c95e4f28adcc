package validator

import (
	"testing"

	govalidator "github.com/go-playground/validator/v10"
)

type phonePayload struct {
	Father string `json:"father_phone" validate:"required,ke_phone"`
	Helper string `json:"house_help_phone" validate:"omitempty,ke_phone"`
}

func newValidate() *govalidator.Validate {
	v := govalidator.New()
	Register(v, "254")
	return v
}

func TestPhoneRule(t *testing.T) {
	v := newValidate()

	tests := []struct {
		name    string
		payload phonePayload
		wantErr bool
	}{
		{"valid", phonePayload{Father: "+254712345678"}, false},
		{"valid with helper", phonePayload{Father: "+254712345678", Helper: "+254700000000"}, false},
		{"local format", phonePayload{Father: "0712345678"}, true},
		{"too short", phonePayload{Father: "+25471234567"}, true},
		{"wrong country", phonePayload{Father: "+255712345678"}, true},
		{"bad helper", phonePayload{Father: "+254712345678", Helper: "12"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTranslateErrorsUsesJSONNames(t *testing.T) {
	v := newValidate()

	fields := TranslateErrors(v.Struct(phonePayload{Father: "0712"}))
	msg, ok := fields["father_phone"]
	if !ok {
		t.Fatalf("fields = %v, want father_phone key", fields)
	}
	if msg != "father_phone must be a phone number like +254712345678" {
		t.Errorf("message = %q", msg)
	}
}
