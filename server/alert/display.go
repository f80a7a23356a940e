package alert

// Variant is the badge style used to display an enumerated value.
type Variant string

const (
	VariantEmergency Variant = "emergency"
	VariantWarning   Variant = "warning"
	VariantInfo      Variant = "info"
	VariantSafe      Variant = "safe"
	VariantSecondary Variant = "secondary"
)

// Category chart colors
const (
	ColorSOS              = "#ef4444"
	ColorGeofenceBreach   = "#f59e0b"
	ColorMedicalEmergency = "#8b5cf6"
	ColorMissingPerson    = "#06b6d4"
	ColorAnomalyDetection = "#10b981"
)

// Every switch below covers the closed set of constants for its type; the
// default branch is only reachable for values that fail Valid().

// Label returns the human readable name of the category.
func (c Category) Label() string {
	switch c {
	case CategorySOS:
		return "SOS Alert"
	case CategoryGeofenceBreach:
		return "Geo-fence Breach"
	case CategoryMedicalEmergency:
		return "Medical Emergency"
	case CategoryAnomalyDetection:
		return "Anomaly Detection"
	case CategoryMissingPerson:
		return "Missing Person"
	default:
		return string(c)
	}
}

// Color returns the chart color for the category.
func (c Category) Color() string {
	switch c {
	case CategorySOS:
		return ColorSOS
	case CategoryGeofenceBreach:
		return ColorGeofenceBreach
	case CategoryMedicalEmergency:
		return ColorMedicalEmergency
	case CategoryAnomalyDetection:
		return ColorAnomalyDetection
	case CategoryMissingPerson:
		return ColorMissingPerson
	default:
		return "#808080"
	}
}

// Variant returns the badge style for the severity.
func (s Severity) Variant() Variant {
	switch s {
	case SeverityHigh:
		return VariantEmergency
	case SeverityMedium:
		return VariantWarning
	case SeverityLow:
		return VariantInfo
	default:
		return VariantSecondary
	}
}

// Variant returns the badge style for the status.
func (s Status) Variant() Variant {
	switch s {
	case StatusActive:
		return VariantEmergency
	case StatusAssigned:
		return VariantWarning
	case StatusInvestigating:
		return VariantInfo
	case StatusResolved:
		return VariantSafe
	default:
		return VariantSecondary
	}
}

// Variant returns the badge style for the tourist status.
func (s TouristStatus) Variant() Variant {
	switch s {
	case TouristActive:
		return VariantInfo
	case TouristAlert:
		return VariantEmergency
	case TouristSafe:
		return VariantSafe
	case TouristMonitoring:
		return VariantWarning
	default:
		return VariantSecondary
	}
}

// Variant returns the badge style for the risk level.
func (r RiskLevel) Variant() Variant {
	switch r {
	case RiskHigh:
		return VariantEmergency
	case RiskMedium:
		return VariantWarning
	case RiskLow:
		return VariantSafe
	default:
		return VariantSecondary
	}
}
