package hub

import "time"

// sessionParticipant is one attendee of a live training session.
type sessionParticipant struct {
	UserID           string     `json:"userId"`
	Name             string     `json:"name"`
	JoinTime         time.Time  `json:"joinTime"`
	AttendanceStatus string     `json:"attendanceStatus,omitempty"`
	AttendanceTime   *time.Time `json:"attendanceTime,omitempty"`
}

// liveSession is the transient per-training room state. It exists only
// in the dispatcher goroutine and is never persisted.
type liveSession struct {
	participants []sessionParticipant
	startTime    time.Time
	lastActivity time.Time
	status       string
}

func newLiveSession(now time.Time) *liveSession {
	return &liveSession{
		startTime:    now,
		lastActivity: now,
		status:       "active",
	}
}

func (s *liveSession) addParticipant(id Identity, now time.Time) {
	s.participants = append(s.participants, sessionParticipant{
		UserID:   id.UserID,
		Name:     id.Name,
		JoinTime: now,
	})
	s.lastActivity = now
}

// removeParticipant drops the first entry for userID and reports
// whether anything was removed.
func (s *liveSession) removeParticipant(userID string, now time.Time) bool {
	for i, p := range s.participants {
		if p.UserID == userID {
			s.participants = append(s.participants[:i], s.participants[i+1:]...)
			s.lastActivity = now
			return true
		}
	}
	return false
}

func (s *liveSession) markAttendance(userID, status string, at time.Time) {
	for i := range s.participants {
		if s.participants[i].UserID == userID {
			s.participants[i].AttendanceStatus = status
			t := at
			s.participants[i].AttendanceTime = &t
			break
		}
	}
	s.lastActivity = time.Now()
}

// expired reports whether an empty session has been idle long enough
// to sweep.
func (s *liveSession) expired(now time.Time, idleTimeout time.Duration) bool {
	return len(s.participants) == 0 && now.Sub(s.lastActivity) > idleTimeout
}
