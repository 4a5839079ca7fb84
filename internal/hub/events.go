package hub

import (
	"encoding/json"
	"time"
)

// Client-sent event names.
const (
	EventAuthenticate           = "authenticate"
	EventJoinTrainingSession    = "joinTrainingSession"
	EventMarkAttendance         = "markAttendance"
	EventRequestAnalyticsUpdate = "requestAnalyticsUpdate"
	EventSystemNotification     = "systemNotification"
	EventPing                   = "ping"
)

// Server-sent event names.
const (
	EventUserOnline              = "userOnline"
	EventUserOffline             = "userOffline"
	EventTrainingAdded           = "trainingAdded"
	EventTrainingPendingApproval = "trainingPendingApproval"
	EventTrainingUpdated         = "trainingUpdated"
	EventTrainingDeleted         = "trainingDeleted"
	EventNewRegistration         = "newRegistration"
	EventParticipantCountUpdated = "participantCountUpdated"
	EventParticipantJoined       = "participantJoined"
	EventParticipantLeft         = "participantLeft"
	EventAttendanceMarked        = "attendanceMarked"
	EventTrainingApprovalUpdate  = "trainingApprovalUpdate"
	EventTrainingApproved        = "trainingApproved"
	EventSystemAlert             = "systemAlert"
	EventRefreshAnalytics        = "refreshAnalytics"
	EventPong                    = "pong"
)

// Envelope is the wire format in both directions: a named event plus
// an arbitrary JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Identity is the payload of the authenticate event. Role checks for
// client-sent events use the role attached here.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	State  string `json:"state"`
	Email  string `json:"email"`
}

// TrainingNotice carries the fields fanned out for training lifecycle
// events. RegistrantIDs feeds the per-registrant user rooms on updates
// and approvals.
type TrainingNotice struct {
	TrainingID     string    `json:"trainingId"`
	Title          string    `json:"title"`
	State          string    `json:"state"`
	Theme          string    `json:"theme,omitempty"`
	Date           time.Time `json:"date,omitempty"`
	OrganizerID    string    `json:"organizer"`
	ApprovalStatus string    `json:"approvalStatus,omitempty"`
	RegistrantIDs  []string  `json:"-"`
}

type presencePayload struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type pendingApprovalPayload struct {
	TrainingID  string `json:"trainingId"`
	Title       string `json:"title"`
	OrganizerID string `json:"organizer"`
	State       string `json:"state"`
}

type newRegistrationPayload struct {
	TrainingID   string    `json:"trainingId"`
	UserName     string    `json:"userName"`
	UserEmail    string    `json:"userEmail"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type participantCountPayload struct {
	TrainingID      string `json:"trainingId"`
	NewCount        int    `json:"newCount"`
	MaxParticipants int    `json:"maxParticipants"`
}

type participantPayload struct {
	UserID            string `json:"userId"`
	Name              string `json:"name"`
	TotalParticipants int    `json:"totalParticipants"`
}

type attendancePayload struct {
	TrainingID string    `json:"trainingId"`
	UserID     string    `json:"userId"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	MarkedBy   string    `json:"markedBy"`
}

type approvalUpdatePayload struct {
	TrainingID string    `json:"trainingId"`
	Status     string    `json:"status"`
	ApprovedBy string    `json:"approvedBy"`
	Reason     string    `json:"reason,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type trainingApprovedPayload struct {
	TrainingID    string `json:"trainingId"`
	TrainingTitle string `json:"trainingTitle"`
	Message       string `json:"message"`
}

type systemAlertPayload struct {
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	From      string    `json:"from"`
}

type refreshAnalyticsPayload struct {
	Filters   json.RawMessage `json:"filters,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
