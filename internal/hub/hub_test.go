package hub

import (
	"encoding/json"
	"testing"
	"time"

	"resilient-bharat/prashikshan/internal/constants"
)

// The tests drive the dispatcher's handlers directly instead of
// running the loop, so every delivery is observable synchronously on
// the fake clients' send buffers.

func newTestClient() *Client {
	return &Client{send: make(chan []byte, sendBuffer)}
}

func connect(h *Hub, c *Client) {
	h.clients[c] = nil
}

func authenticate(t *testing.T, h *Hub, c *Client, id Identity) {
	t.Helper()
	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("marshal identity: %v", err)
	}
	h.handleClientEvent(c, Envelope{Event: EventAuthenticate, Data: data})
	if got := h.clients[c]; got == nil || got.UserID != id.UserID {
		t.Fatalf("authenticate did not attach identity for %s", id.UserID)
	}
}

func joinSession(t *testing.T, h *Hub, c *Client, trainingID string) {
	t.Helper()
	data, err := json.Marshal(trainingID)
	if err != nil {
		t.Fatalf("marshal training id: %v", err)
	}
	h.handleClientEvent(c, Envelope{Event: EventJoinTrainingSession, Data: data})
}

// received drains and decodes everything queued on the client.
func received(t *testing.T, c *Client) []Envelope {
	t.Helper()
	var out []Envelope
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return out
			}
			var env Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				t.Fatalf("undecodable frame %q: %v", msg, err)
			}
			out = append(out, env)
		default:
			return out
		}
	}
}

func eventNames(envs []Envelope) []string {
	names := make([]string, 0, len(envs))
	for _, e := range envs {
		names = append(names, e.Event)
	}
	return names
}

func hasEvent(envs []Envelope, event string) bool {
	for _, e := range envs {
		if e.Event == event {
			return true
		}
	}
	return false
}

func drainOps(h *Hub) {
	for {
		select {
		case op := <-h.ops:
			op()
		default:
			return
		}
	}
}

func TestAuthenticate_RoomsAndPresence(t *testing.T) {
	h := NewHub(nil)

	delhiA := newTestClient()
	delhiB := newTestClient()
	punjab := newTestClient()
	for _, c := range []*Client{delhiA, delhiB, punjab} {
		connect(h, c)
	}

	authenticate(t, h, delhiA, Identity{UserID: "u1", Name: "Asha", Role: "Volunteer", State: "Delhi"})
	authenticate(t, h, punjab, Identity{UserID: "u2", Name: "Gurpreet", Role: "NGO", State: "Punjab"})
	authenticate(t, h, delhiB, Identity{UserID: "u3", Name: "Ravi", Role: "ATI", State: "Delhi"})

	if _, ok := h.rooms[userRoom("u1")][delhiA]; !ok {
		t.Error("client missing from its user room")
	}
	if _, ok := h.rooms[roleRoom("Volunteer")][delhiA]; !ok {
		t.Error("client missing from its role room")
	}
	if _, ok := h.rooms[stateRoom("Delhi")][delhiA]; !ok {
		t.Error("client missing from its state room")
	}

	// Presence goes to the state room only, excluding the newcomer.
	if got := received(t, delhiA); !hasEvent(got, EventUserOnline) {
		t.Errorf("delhiA events = %v, want userOnline", eventNames(got))
	}
	if got := received(t, delhiB); hasEvent(got, EventUserOnline) {
		t.Error("newcomer should not see its own userOnline")
	}
	if got := received(t, punjab); hasEvent(got, EventUserOnline) {
		t.Error("presence leaked across states")
	}
}

func TestAuthenticate_SuperAdminSkipsStateRoom(t *testing.T) {
	h := NewHub(nil)
	c := newTestClient()
	connect(h, c)

	authenticate(t, h, c, Identity{UserID: "root", Role: "SuperAdmin", State: constants.StateAll})

	for room := range h.rooms {
		if room == stateRoom(constants.StateAll) {
			t.Errorf("SuperAdmin joined state room %q", room)
		}
	}
}

func TestAuthenticate_RequiresUserID(t *testing.T) {
	h := NewHub(nil)
	c := newTestClient()
	connect(h, c)

	data, _ := json.Marshal(Identity{Name: "Nameless", Role: "Volunteer"})
	h.handleClientEvent(c, Envelope{Event: EventAuthenticate, Data: data})

	if h.clients[c] != nil {
		t.Error("identity attached without a user id")
	}
	if len(h.rooms) != 0 {
		t.Errorf("rooms created for an invalid authenticate: %v", h.rooms)
	}
}

func TestPing_AnswersBeforeAuthentication(t *testing.T) {
	h := NewHub(nil)
	c := newTestClient()
	connect(h, c)

	h.handleClientEvent(c, Envelope{Event: EventPing})

	got := received(t, c)
	if len(got) != 1 || got[0].Event != EventPong {
		t.Errorf("ping reply = %v, want a single pong", eventNames(got))
	}
}

func TestUnknownEventIsDropped(t *testing.T) {
	h := NewHub(nil)
	c := newTestClient()
	connect(h, c)

	h.handleClientEvent(c, Envelope{Event: "selfDestruct"})
	if got := received(t, c); len(got) != 0 {
		t.Errorf("unknown event produced a reply: %v", eventNames(got))
	}
}

func TestSystemNotification_SuperAdminOnly(t *testing.T) {
	h := NewHub(nil)
	admin := newTestClient()
	super := newTestClient()
	bystander := newTestClient()
	for _, c := range []*Client{admin, super, bystander} {
		connect(h, c)
	}
	authenticate(t, h, admin, Identity{UserID: "a1", Role: "Admin", State: "Kerala"})
	authenticate(t, h, super, Identity{UserID: "s1", Role: "SuperAdmin", State: constants.StateAll})
	received(t, admin) // clear presence noise

	notice, _ := json.Marshal(map[string]string{"message": "maintenance at 02:00", "type": "warning"})

	// An Admin is not allowed to broadcast.
	h.handleClientEvent(admin, Envelope{Event: EventSystemNotification, Data: notice})
	if got := received(t, bystander); len(got) != 0 {
		t.Errorf("admin broadcast reached clients: %v", eventNames(got))
	}

	h.handleClientEvent(super, Envelope{Event: EventSystemNotification, Data: notice})
	got := received(t, bystander)
	if len(got) != 1 || got[0].Event != EventSystemAlert {
		t.Fatalf("bystander events = %v, want one systemAlert", eventNames(got))
	}

	var alert systemAlertPayload
	if err := json.Unmarshal(got[0].Data, &alert); err != nil {
		t.Fatalf("decode alert: %v", err)
	}
	if alert.Message != "maintenance at 02:00" || alert.From != "System Administrator" {
		t.Errorf("alert = %+v", alert)
	}
}

func TestRequestAnalyticsUpdate_RoleGate(t *testing.T) {
	h := NewHub(nil)
	vol := newTestClient()
	admin := newTestClient()
	connect(h, vol)
	connect(h, admin)
	authenticate(t, h, vol, Identity{UserID: "v1", Role: "Volunteer"})
	authenticate(t, h, admin, Identity{UserID: "a1", Role: "Admin", State: "Kerala"})
	received(t, admin)

	h.handleClientEvent(vol, Envelope{Event: EventRequestAnalyticsUpdate})
	if got := received(t, vol); len(got) != 0 {
		t.Errorf("volunteer got analytics reply: %v", eventNames(got))
	}

	h.handleClientEvent(admin, Envelope{Event: EventRequestAnalyticsUpdate})
	got := received(t, admin)
	if len(got) != 1 || got[0].Event != EventRefreshAnalytics {
		t.Errorf("admin events = %v, want refreshAnalytics", eventNames(got))
	}
}

func TestJoinSession_TracksParticipants(t *testing.T) {
	h := NewHub(nil)
	first := newTestClient()
	second := newTestClient()
	connect(h, first)
	connect(h, second)
	authenticate(t, h, first, Identity{UserID: "u1", Name: "Asha", Role: "Volunteer"})
	authenticate(t, h, second, Identity{UserID: "u2", Name: "Ravi", Role: "Volunteer"})

	joinSession(t, h, first, "t-100")
	joinSession(t, h, second, "t-100")

	session, ok := h.sessions["t-100"]
	if !ok {
		t.Fatal("session not created")
	}
	if len(session.participants) != 2 {
		t.Fatalf("participants = %d, want 2", len(session.participants))
	}

	// The earlier joiner hears about the later one, not vice versa.
	got := received(t, first)
	if len(got) != 1 || got[0].Event != EventParticipantJoined {
		t.Fatalf("first's events = %v, want one participantJoined", eventNames(got))
	}
	var p participantPayload
	if err := json.Unmarshal(got[0].Data, &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if p.UserID != "u2" || p.TotalParticipants != 2 {
		t.Errorf("payload = %+v", p)
	}
	if got := received(t, second); hasEvent(got, EventParticipantJoined) {
		t.Error("joiner saw its own participantJoined")
	}
}

func TestMarkAttendance_FansOutToSessionRoom(t *testing.T) {
	h := NewHub(nil)
	organizer := newTestClient()
	attendee := newTestClient()
	connect(h, organizer)
	connect(h, attendee)
	authenticate(t, h, organizer, Identity{UserID: "org", Name: "Meera", Role: "NGO"})
	authenticate(t, h, attendee, Identity{UserID: "u1", Name: "Asha", Role: "Volunteer"})
	joinSession(t, h, organizer, "t-200")
	joinSession(t, h, attendee, "t-200")
	received(t, organizer)

	mark, _ := json.Marshal(map[string]string{
		"trainingId": "t-200",
		"userId":     "u1",
		"status":     "present",
	})
	h.handleClientEvent(organizer, Envelope{Event: EventMarkAttendance, Data: mark})

	got := received(t, attendee)
	if !hasEvent(got, EventAttendanceMarked) {
		t.Fatalf("attendee events = %v, want attendanceMarked", eventNames(got))
	}

	var recorded bool
	for _, p := range h.sessions["t-200"].participants {
		if p.UserID == "u1" && p.AttendanceStatus == "present" {
			recorded = true
		}
	}
	if !recorded {
		t.Errorf("session attendance not recorded: %+v", h.sessions["t-200"].participants)
	}
}

func TestDisconnect_CleansUpAndAnnounces(t *testing.T) {
	h := NewHub(nil)
	leaver := newTestClient()
	peer := newTestClient()
	connect(h, leaver)
	connect(h, peer)
	authenticate(t, h, leaver, Identity{UserID: "u1", Name: "Asha", Role: "Volunteer", State: "Delhi"})
	authenticate(t, h, peer, Identity{UserID: "u2", Name: "Ravi", Role: "ATI", State: "Delhi"})
	joinSession(t, h, leaver, "t-300")
	joinSession(t, h, peer, "t-300")
	received(t, peer)

	h.handleDisconnect(leaver)

	got := received(t, peer)
	if !hasEvent(got, EventUserOffline) {
		t.Errorf("peer events = %v, want userOffline", eventNames(got))
	}
	if !hasEvent(got, EventParticipantLeft) {
		t.Errorf("peer events = %v, want participantLeft", eventNames(got))
	}

	if _, ok := h.clients[leaver]; ok {
		t.Error("client still registered after disconnect")
	}
	for room, members := range h.rooms {
		if _, ok := members[leaver]; ok {
			t.Errorf("client still in room %q", room)
		}
	}
	if n := len(h.sessions["t-300"].participants); n != 1 {
		t.Errorf("session participants = %d, want 1", n)
	}

	// A second disconnect for the same client is a no-op.
	h.handleDisconnect(leaver)
}

func TestSweepSessions_RemovesIdleEmptySessions(t *testing.T) {
	h := NewHub(nil)
	c := newTestClient()
	connect(h, c)
	authenticate(t, h, c, Identity{UserID: "u1", Name: "Asha", Role: "Volunteer"})

	joinSession(t, h, c, "t-idle")
	joinSession(t, h, c, "t-live")
	h.handleDisconnect(c)
	// t-idle and t-live are both empty now; repopulate t-live.
	live := newTestClient()
	connect(h, live)
	authenticate(t, h, live, Identity{UserID: "u2", Name: "Ravi", Role: "Volunteer"})
	joinSession(t, h, live, "t-live")

	// Not yet idle long enough.
	h.now = func() time.Time { return time.Now().Add(5 * time.Minute) }
	h.sweepSessions()
	if len(h.sessions) != 2 {
		t.Fatalf("sessions = %d after early sweep, want 2", len(h.sessions))
	}

	h.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	h.sweepSessions()
	if _, ok := h.sessions["t-idle"]; ok {
		t.Error("idle empty session survived the sweep")
	}
	if _, ok := h.sessions["t-live"]; !ok {
		t.Error("occupied session was swept")
	}
}

func TestPublishTrainingAdded_PendingAlertsApprovers(t *testing.T) {
	h := NewHub(nil)
	admin := newTestClient()
	stateUser := newTestClient()
	outsider := newTestClient()
	for _, c := range []*Client{admin, stateUser, outsider} {
		connect(h, c)
	}
	authenticate(t, h, admin, Identity{UserID: "a1", Role: "Admin", State: "Kerala"})
	authenticate(t, h, stateUser, Identity{UserID: "n1", Role: "NGO", State: "Kerala"})
	authenticate(t, h, outsider, Identity{UserID: "o1", Role: "NGO", State: "Punjab"})
	received(t, admin)

	h.PublishTrainingAdded(TrainingNotice{
		TrainingID:     "t-1",
		Title:          "Flood Drill",
		State:          "Kerala",
		OrganizerID:    "n1",
		ApprovalStatus: constants.ApprovalPending,
	})
	drainOps(h)

	adminEvents := eventNames(received(t, admin))
	if len(adminEvents) != 2 || adminEvents[0] != EventTrainingAdded || adminEvents[1] != EventTrainingPendingApproval {
		t.Errorf("admin events = %v, want [trainingAdded trainingPendingApproval]", adminEvents)
	}

	stateEvents := received(t, stateUser)
	if !hasEvent(stateEvents, EventTrainingAdded) || !hasEvent(stateEvents, EventTrainingPendingApproval) {
		t.Errorf("state room events = %v", eventNames(stateEvents))
	}
	if got := received(t, outsider); len(got) != 0 {
		t.Errorf("other state received %v", eventNames(got))
	}
}

func TestPublishTrainingAdded_AutoApprovedSkipsApprovalAlert(t *testing.T) {
	h := NewHub(nil)
	admin := newTestClient()
	connect(h, admin)
	authenticate(t, h, admin, Identity{UserID: "a1", Role: "Admin", State: "Kerala"})

	h.PublishTrainingAdded(TrainingNotice{
		TrainingID:     "t-2",
		State:          "Kerala",
		ApprovalStatus: constants.ApprovalAutoApproved,
	})
	drainOps(h)

	got := received(t, admin)
	if len(got) != 1 || got[0].Event != EventTrainingAdded {
		t.Errorf("admin events = %v, want only trainingAdded", eventNames(got))
	}
}

func TestPublishRegistration(t *testing.T) {
	h := NewHub(nil)
	organizer := newTestClient()
	inSession := newTestClient()
	connect(h, organizer)
	connect(h, inSession)
	authenticate(t, h, organizer, Identity{UserID: "org", Role: "NGO"})
	authenticate(t, h, inSession, Identity{UserID: "u1", Role: "Volunteer"})
	joinSession(t, h, inSession, "t-3")

	h.PublishRegistration("t-3", "org", "Asha", "asha@example.com", 7, 50)
	drainOps(h)

	orgEvents := received(t, organizer)
	if len(orgEvents) != 1 || orgEvents[0].Event != EventNewRegistration {
		t.Fatalf("organizer events = %v, want newRegistration", eventNames(orgEvents))
	}

	sessionEvents := received(t, inSession)
	if len(sessionEvents) != 1 || sessionEvents[0].Event != EventParticipantCountUpdated {
		t.Fatalf("session events = %v, want participantCountUpdated", eventNames(sessionEvents))
	}
	var count participantCountPayload
	if err := json.Unmarshal(sessionEvents[0].Data, &count); err != nil {
		t.Fatalf("decode count: %v", err)
	}
	if count.NewCount != 7 || count.MaxParticipants != 50 {
		t.Errorf("count payload = %+v", count)
	}
}

func TestPublishApprovalDecision(t *testing.T) {
	h := NewHub(nil)
	organizer := newTestClient()
	registrant := newTestClient()
	connect(h, organizer)
	connect(h, registrant)
	authenticate(t, h, organizer, Identity{UserID: "org", Role: "NGO"})
	authenticate(t, h, registrant, Identity{UserID: "u1", Role: "Volunteer"})

	h.PublishApprovalDecision(TrainingNotice{
		TrainingID:     "t-4",
		Title:          "Flood Drill",
		OrganizerID:    "org",
		ApprovalStatus: constants.ApprovalApproved,
		RegistrantIDs:  []string{"u1"},
	}, "Kerala Admin", "")
	drainOps(h)

	orgEvents := received(t, organizer)
	if len(orgEvents) != 1 || orgEvents[0].Event != EventTrainingApprovalUpdate {
		t.Fatalf("organizer events = %v", eventNames(orgEvents))
	}
	regEvents := received(t, registrant)
	if len(regEvents) != 1 || regEvents[0].Event != EventTrainingApproved {
		t.Fatalf("registrant events = %v", eventNames(regEvents))
	}

	// A rejection reaches the organizer only.
	h.PublishApprovalDecision(TrainingNotice{
		TrainingID:     "t-4",
		OrganizerID:    "org",
		ApprovalStatus: constants.ApprovalRejected,
		RegistrantIDs:  []string{"u1"},
	}, "Kerala Admin", "incomplete trainer details")
	drainOps(h)

	if got := received(t, registrant); len(got) != 0 {
		t.Errorf("registrant notified of a rejection: %v", eventNames(got))
	}
	orgEvents = received(t, organizer)
	if len(orgEvents) != 1 || orgEvents[0].Event != EventTrainingApprovalUpdate {
		t.Fatalf("organizer events = %v", eventNames(orgEvents))
	}
	var update approvalUpdatePayload
	if err := json.Unmarshal(orgEvents[0].Data, &update); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if update.Reason != "incomplete trainer details" {
		t.Errorf("reason = %q", update.Reason)
	}
}

func TestPublish_NilHubIsSafe(t *testing.T) {
	var h *Hub
	h.PublishTrainingAdded(TrainingNotice{TrainingID: "t-9"})
	h.PublishTrainingDeleted("t-9", "Kerala")
	h.PublishRegistration("t-9", "org", "Asha", "asha@example.com", 1, 10)
	h.PublishAttendance("t-9", "u1", "present", "Meera")
	h.PublishApprovalDecision(TrainingNotice{TrainingID: "t-9"}, "admin", "")
}

func TestPublish_DropsWhenQueueFull(t *testing.T) {
	h := NewHub(nil)
	for i := 0; i < opsBuffer; i++ {
		h.publish(func() {})
	}
	// The queue is full; this must return instead of blocking.
	done := make(chan struct{})
	go func() {
		h.PublishTrainingDeleted("t-5", "Kerala")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full queue")
	}
}
