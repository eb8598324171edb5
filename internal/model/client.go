package model

// ClientStatus tracks where a client sits in their lifecycle. Records are
// never physically deleted; status transitions model the lifecycle instead.
type ClientStatus string

const (
	StatusProspect   ClientStatus = "prospect"
	StatusOnboarding ClientStatus = "onboarding"
	StatusActive     ClientStatus = "active"
	StatusOffboarded ClientStatus = "offboarded"
)

type ClientType string

const (
	TypeIndividual ClientType = "individual"
	TypeEntity     ClientType = "entity"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// KYCEntry is one row of a client's KYC screening history.
type KYCEntry struct {
	Date   int64  `json:"date"` // unix nanoseconds
	Result string `json:"result"`
	Notes  string `json:"notes"`
}

// ClientRecord is the full client profile as the backend stores it.
//
// The id is unique across the union of remote, seed and local-fallback
// records and never changes once assigned. Timestamps are unix nanoseconds;
// they serialize as strings so 64-bit values survive JSON round-trips
// through text-based stores.
type ClientRecord struct {
	ID        int64  `json:"id,string"`
	AccountID string `json:"accountId"`

	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	DOB            string `json:"dob,omitempty"`
	Nationality    string `json:"nationality"`
	PassportNumber string `json:"passportNumber,omitempty"`
	PassportExpiry string `json:"passportExpiry,omitempty"`
	TIN            string `json:"tin,omitempty"`
	PlaceOfBirth   string `json:"placeOfBirth,omitempty"`

	Address        string `json:"address"`
	PrimaryCountry string `json:"primaryCountry,omitempty"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`

	ClientType        ClientType   `json:"clientType"`
	Status            ClientStatus `json:"status"`
	RiskLevel         RiskLevel    `json:"riskLevel"`
	RiskJustification string       `json:"riskJustification,omitempty"`

	CreatedBy           string `json:"createdBy"`
	RelationshipManager string `json:"relationshipManager"`
	CreatedDate         int64  `json:"createdDate,string"`
	OnboardingDate      int64  `json:"onboardingDate,string,omitempty"`
	KYCReviewDue        int64  `json:"kycReviewDue,string,omitempty"`

	KYCHistory  []KYCEntry `json:"kycHistory,omitempty"`
	ActivityLog []string   `json:"activityLog,omitempty"`
}

// Name returns the display name used by list views and search.
func (c *ClientRecord) Name() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// DashboardStats are the aggregate counts the backend derives over all
// remote clients.
type DashboardStats struct {
	TotalClients    int64 `json:"totalClients"`
	ActiveCount     int64 `json:"activeCount"`
	OnboardingCount int64 `json:"onboardingCount"`
	ProspectCount   int64 `json:"prospectCount"`
	OffboardedCount int64 `json:"offboardedCount"`
	LowRiskCount    int64 `json:"lowRiskCount"`
	MediumRiskCount int64 `json:"mediumRiskCount"`
	HighRiskCount   int64 `json:"highRiskCount"`
}

// UserProfile is the caller's own profile as stored by the backend.
type UserProfile struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}
