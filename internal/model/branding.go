package model

// DefaultDepartmentName is shown when no branding has been saved.
const DefaultDepartmentName = "DocuSafe"

// BrandingSettings customizes the dashboard chrome.
type BrandingSettings struct {
	DepartmentName string `json:"departmentName,omitempty" yaml:"departmentName,omitempty"`
	LogoURL        string `json:"logoUrl,omitempty" yaml:"logoUrl,omitempty"`
}

// BrandingPatch is a partial update; nil fields keep their current value.
type BrandingPatch struct {
	DepartmentName *string `json:"departmentName,omitempty"`
	LogoURL        *string `json:"logoUrl,omitempty"`
}

// Apply merges p into s and returns the result.
func (p BrandingPatch) Apply(s BrandingSettings) BrandingSettings {
	if p.DepartmentName != nil {
		s.DepartmentName = *p.DepartmentName
	}
	if p.LogoURL != nil {
		s.LogoURL = *p.LogoURL
	}
	return s
}
