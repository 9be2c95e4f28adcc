package model

import "time"

// AppSetting represents a key-value pair for global application configuration.
type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Known school setting keys.
const (
	SettingSchoolName = "school_name"
	SettingPhone      = "phone"
	SettingEmail      = "email"
	SettingWebsite    = "website"
	SettingAddress    = "address"
	SettingLogoURL    = "logo_url"
)

// SchoolSettingKeys lists every key accepted by the settings endpoint.
var SchoolSettingKeys = []string{
	SettingSchoolName,
	SettingPhone,
	SettingEmail,
	SettingWebsite,
	SettingAddress,
	SettingLogoURL,
}

// SchoolSettings is the typed view of the school branding settings.
type SchoolSettings struct {
	SchoolName string `json:"school_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Website    string `json:"website"`
	Address    string `json:"address"`
	LogoURL    string `json:"logo_url"`
}

// SchoolSettingsFromMap builds the typed view from stored key-value pairs.
func SchoolSettingsFromMap(m map[string]string) *SchoolSettings {
	return &SchoolSettings{
		SchoolName: m[SettingSchoolName],
		Phone:      m[SettingPhone],
		Email:      m[SettingEmail],
		Website:    m[SettingWebsite],
		Address:    m[SettingAddress],
		LogoURL:    m[SettingLogoURL],
	}
}

// UpdateSettingsRequest is the payload for updating school settings.
type UpdateSettingsRequest struct {
	SchoolName string `json:"school_name" binding:"required,min=2,max=150"`
	Phone      string `json:"phone" binding:"omitempty,ke_phone"`
	Email      string `json:"email" binding:"omitempty,email,max=255"`
	Website    string `json:"website" binding:"omitempty,url,max=255"`
	Address    string `json:"address" binding:"omitempty,max=255"`
	LogoURL    string `json:"logo_url" binding:"omitempty,max=500"`
}

// ToMap flattens the request into setting keys.
func (r *UpdateSettingsRequest) ToMap() map[string]string {
	return map[string]string{
		SettingSchoolName: r.SchoolName,
		SettingPhone:      r.Phone,
		SettingEmail:      r.Email,
		SettingWebsite:    r.Website,
		SettingAddress:    r.Address,
		SettingLogoURL:    r.LogoURL,
	}
}
