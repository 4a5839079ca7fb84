package constants

// StateAll marks a user whose visibility is not restricted to one state.
const StateAll = "All"

// IndianStates lists the states and union territories a training or a
// state-scoped user can be assigned to. "All" is a user-only value.
var IndianStates = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand",
	"Karnataka", "Kerala", "Madhya Pradesh", "Maharashtra", "Manipur",
	"Meghalaya", "Mizoram", "Nagaland", "Odisha", "Punjab",
	"Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura",
	"Uttar Pradesh", "Uttarakhand", "West Bengal",
	"Andaman and Nicobar Islands", "Chandigarh",
	"Dadra and Nagar Haveli and Daman and Diu",
	"Delhi", "Jammu and Kashmir", "Ladakh", "Lakshadweep", "Puducherry",
}

var indianStateSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(IndianStates))
	for _, s := range IndianStates {
		m[s] = struct{}{}
	}
	return m
}()

// ValidState reports whether s names an Indian state or UT.
func ValidState(s string) bool {
	_, ok := indianStateSet[s]
	return ok
}

// ValidUserState additionally accepts "All".
func ValidUserState(s string) bool {
	return s == StateAll || ValidState(s)
}

// Themes the platform recognizes for a training event.
var Themes = []string{
	"Flood Management",
	"Earthquake Safety",
	"Cyclone Management",
	"Fire Safety",
	"Landslide Prevention",
	"Drought Management",
	"Tsunami Preparedness",
	"Medical Emergency",
	"Search and Rescue",
	"Community Awareness",
	"CBDRR (Community Based Disaster Risk Reduction)",
	"IRS (Incident Response System)",
	"Emergency Operations Center (EOC)",
	"Early Warning Systems",
	"School Safety",
}

var TrainingTypes = []string{
	"Workshop", "Drill", "Simulation", "Seminar",
	"Mock Exercise", "Awareness Program", "Capacity Building",
}

var TargetAudiences = []string{
	"Government Officials", "NGO Workers", "Volunteers", "School Students",
	"Community Members", "First Responders", "Mixed Audience",
}

// Training lifecycle status.
const (
	StatusScheduled = "Scheduled"
	StatusOngoing   = "Ongoing"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

var TrainingStatuses = []string{StatusScheduled, StatusOngoing, StatusCompleted, StatusCancelled}

// Approval workflow status.
const (
	ApprovalPending      = "Pending"
	ApprovalApproved     = "Approved"
	ApprovalRejected     = "Rejected"
	ApprovalAutoApproved = "Auto-Approved"
)

// Registration status for a participant signup.
const (
	RegistrationRegistered = "Registered"
	RegistrationAttended   = "Attended"
	RegistrationAbsent     = "Absent"
	RegistrationCancelled  = "Cancelled"
)

// Contains reports whether v is a member of list. The enum slices above
// are small enough that a linear scan is fine.
func Contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// India bounding box for training coordinates (validation, not business
// logic). Longitude then latitude, GeoJSON order.
const (
	IndiaMinLongitude = 68.7
	IndiaMaxLongitude = 97.25
	IndiaMinLatitude  = 8.4
	IndiaMaxLatitude  = 37.6
)

// WithinIndia reports whether the point lies inside the national
// bounding box.
func WithinIndia(longitude, latitude float64) bool {
	return longitude >= IndiaMinLongitude && longitude <= IndiaMaxLongitude &&
		latitude >= IndiaMinLatitude && latitude <= IndiaMaxLatitude
}

// Numeric bounds on training fields.
const (
	MaxParticipantsCap = 10000
	MinDurationHours   = 0.5
	MaxDurationHours   = 720
)
