package domain

// IntentKind classifies what the extractor found in a user query.
type IntentKind string

// Intent kinds produced by entity extraction.
const (
	// IntentNormal means a company and service were both identified.
	IntentNormal IntentKind = "normal"

	// IntentGreeting means the query is a simple greeting.
	IntentGreeting IntentKind = "greeting"

	// IntentChitchat means the query is an acknowledgement or farewell.
	IntentChitchat IntentKind = "chitchat"

	// IntentUnresolved means extraction failed or found nothing usable.
	IntentUnresolved IntentKind = "unresolved"
)

// IsValid returns true if the kind is recognised.
func (k IntentKind) IsValid() bool {
	switch k {
	case IntentNormal, IntentGreeting, IntentChitchat, IntentUnresolved:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k IntentKind) String() string {
	return string(k)
}

// ExtractedIntent is the result of entity extraction for one query.
// Derived fresh per turn and never persisted.
type ExtractedIntent struct {
	// Kind classifies the query.
	Kind IntentKind

	// CompanyName is the identified company, empty if not specified.
	CompanyName string

	// ServiceKeywords describes the services asked about, empty if not
	// specified.
	ServiceKeywords string
}

// HasCompany returns true if a company name was identified.
func (i ExtractedIntent) HasCompany() bool {
	return i.CompanyName != ""
}

// HasKeywords returns true if service keywords were identified.
func (i ExtractedIntent) HasKeywords() bool {
	return i.ServiceKeywords != ""
}

// Complete returns true if the intent carries both a company and keywords.
// Kind IntentNormal implies Complete.
func (i ExtractedIntent) Complete() bool {
	return i.HasCompany() && i.HasKeywords()
}
