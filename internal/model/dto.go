package model

// CreateClientRequest is the incoming JSON body for client creation. The id
// is assigned by the backend, or drawn from the reserved local range when
// the remote write fails.
type CreateClientRequest struct {
	FirstName           string       `json:"firstName" binding:"required"`
	LastName            string       `json:"lastName" binding:"required"`
	DOB                 string       `json:"dob,omitempty"`
	Nationality         string       `json:"nationality,omitempty"`
	PassportNumber      string       `json:"passportNumber,omitempty"`
	PassportExpiry      string       `json:"passportExpiry,omitempty"`
	TIN                 string       `json:"tin,omitempty"`
	PlaceOfBirth        string       `json:"placeOfBirth,omitempty"`
	Address             string       `json:"address,omitempty"`
	PrimaryCountry      string       `json:"primaryCountry,omitempty"`
	Email               string       `json:"email,omitempty"`
	Phone               string       `json:"phone,omitempty"`
	ClientType          ClientType   `json:"clientType,omitempty"`
	Status              ClientStatus `json:"status,omitempty"`
	RiskLevel           RiskLevel    `json:"riskLevel,omitempty"`
	RiskJustification   string       `json:"riskJustification,omitempty"`
	RelationshipManager string       `json:"relationshipManager,omitempty"`
}

// OverviewPatch carries only the overview fields the user actually changed.
// Keys are restricted to the known editable field set.
type OverviewPatch map[string]string

// MoveStageRequest moves a client to a pipeline stage.
type MoveStageRequest struct {
	ClientID       int64  `json:"clientId,string" binding:"required"`
	StepNumber     int    `json:"stepNumber" binding:"required"`
	Status         string `json:"status" binding:"required"`
	AssignedPerson string `json:"assignedPerson"`
	DueDate        int64  `json:"dueDate,string,omitempty"`
}

// ActivityAppendRequest appends structured activity entries for a client.
type ActivityAppendRequest struct {
	Entries []ActivityChange `json:"entries" binding:"required,min=1"`
}

// ActivityChange is one field-level change to be recorded.
type ActivityChange struct {
	Field    string `json:"field" binding:"required"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
	User     string `json:"user"`
}

// AddAdminRequest registers a new staff principal.
type AddAdminRequest struct {
	Principal string    `json:"principal" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	Role      AdminRole `json:"role,omitempty"`
}
