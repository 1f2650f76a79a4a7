package model

// Certification tags recognised by the set-aside rule
const (
	Cert8a      = "8a"
	CertSDVOSB  = "sdvosb"
	CertWOSB    = "wosb"
	CertHUBZone = "hubzone"
	CertSB      = "sb"
)

// ContractorProfile describes the contractor an opportunity pool is scored against.
// CompanyName and Email are accepted for pass-through only.
type ContractorProfile struct {
	CompanyName    string   `json:"company_name,omitempty" yaml:"company_name"`
	Email          string   `json:"email,omitempty" yaml:"email"`
	PrimaryNAICS   string   `json:"primary_naics" yaml:"primary_naics" binding:"required"`
	City           string   `json:"city" yaml:"city"`
	State          string   `json:"state" yaml:"state"`
	Certifications []string `json:"certifications" yaml:"certifications"`
	Capabilities   string   `json:"capabilities" yaml:"capabilities"`
	SAMRegistered  bool     `json:"sam_registered" yaml:"sam_registered"`
}
