package hub

import (
	"context"
	"encoding/json"
	"time"

	"resilient-bharat/prashikshan/internal/constants"
	"resilient-bharat/prashikshan/internal/logging"
	"resilient-bharat/prashikshan/internal/metrics"
)

const (
	// opsBuffer bounds the queue of server-side publishes; events are
	// dropped, not blocked on, when the dispatcher falls behind.
	opsBuffer = 256

	sessionIdleTimeout = 10 * time.Minute
	sessionSweepPeriod = time.Minute
)

// Hub is the in-process real-time registry. A single dispatcher
// goroutine started by Run owns all maps below; clients and HTTP
// handlers only ever talk to it through channels. Fan-out is
// process-local: events are not delivered across server instances,
// and a client disconnected at fan-out time simply misses the event.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundEvent
	ops        chan func()

	// Dispatcher-owned state. Never touch outside run().
	clients  map[*Client]*Identity
	rooms    map[string]map[*Client]struct{}
	sessions map[string]*liveSession

	metrics *metrics.MetricsRegistry
	now     func() time.Time
}

type inboundEvent struct {
	client *Client
	env    Envelope
}

func NewHub(reg *metrics.MetricsRegistry) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundEvent, opsBuffer),
		ops:        make(chan func(), opsBuffer),
		clients:    make(map[*Client]*Identity),
		rooms:      make(map[string]map[*Client]struct{}),
		sessions:   make(map[string]*liveSession),
		metrics:    reg,
		now:        time.Now,
	}
}

// Run is the dispatcher loop. It returns when ctx is cancelled, after
// closing every client connection.
func (h *Hub) Run(ctx context.Context) {
	sweep := time.NewTicker(sessionSweepPeriod)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.closeSend()
			}
			return

		case c := <-h.register:
			h.clients[c] = nil

		case c := <-h.unregister:
			h.handleDisconnect(c)

		case evt := <-h.inbound:
			h.handleClientEvent(evt.client, evt.env)

		case op := <-h.ops:
			op()

		case <-sweep.C:
			h.sweepSessions()
		}
	}
}

// run-loop internals --------------------------------------------------

func (h *Hub) handleDisconnect(c *Client) {
	identity, ok := h.clients[c]
	if !ok {
		return
	}

	if identity != nil {
		if identity.State != "" && identity.State != constants.StateAll {
			h.emitToRoom(stateRoom(identity.State), EventUserOffline, presencePayload{
				UserID: identity.UserID,
				Name:   identity.Name,
				Role:   identity.Role,
			}, c)
		}

		for trainingID, session := range h.sessions {
			if session.removeParticipant(identity.UserID, h.now()) {
				h.emitToRoom(trainingRoom(trainingID), EventParticipantLeft, participantPayload{
					UserID:            identity.UserID,
					Name:              identity.Name,
					TotalParticipants: len(session.participants),
				}, c)
			}
		}

		if h.metrics != nil {
			h.metrics.WSConnectedClients.Dec()
		}
	}

	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}

	delete(h.clients, c)
	c.closeSend()
}

func (h *Hub) handleClientEvent(c *Client, env Envelope) {
	// Unauthenticated clients may only authenticate or ping; anything
	// else is dropped without a reply.
	identity := h.clients[c]

	switch env.Event {
	case EventAuthenticate:
		h.handleAuthenticate(c, env.Data)

	case EventPing:
		h.emitToClient(c, EventPong, struct{}{})

	case EventJoinTrainingSession:
		if identity == nil {
			return
		}
		h.handleJoinSession(c, *identity, env.Data)

	case EventMarkAttendance:
		if identity == nil {
			return
		}
		h.handleMarkAttendance(c, *identity, env.Data)

	case EventRequestAnalyticsUpdate:
		if identity == nil {
			return
		}
		if identity.Role != constants.RoleAdmin.String() && identity.Role != constants.RoleSuperAdmin.String() {
			return
		}
		h.emitToClient(c, EventRefreshAnalytics, refreshAnalyticsPayload{
			Filters:   env.Data,
			Timestamp: h.now(),
		})

	case EventSystemNotification:
		// Only a SuperAdmin may broadcast; everyone else is ignored.
		if identity == nil || identity.Role != constants.RoleSuperAdmin.String() {
			return
		}
		var payload struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		}
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return
		}
		h.broadcast(EventSystemAlert, systemAlertPayload{
			Message:   payload.Message,
			Type:      payload.Type,
			Timestamp: h.now(),
			From:      "System Administrator",
		})

	default:
		// Unknown events are silently dropped.
	}
}

func (h *Hub) handleAuthenticate(c *Client, data json.RawMessage) {
	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil || identity.UserID == "" {
		return
	}

	h.clients[c] = &identity
	h.joinRoom(c, userRoom(identity.UserID))
	h.joinRoom(c, roleRoom(identity.Role))

	if identity.State != "" && identity.State != constants.StateAll {
		h.joinRoom(c, stateRoom(identity.State))
		h.emitToRoom(stateRoom(identity.State), EventUserOnline, presencePayload{
			UserID: identity.UserID,
			Name:   identity.Name,
			Role:   identity.Role,
		}, c)
	}

	if h.metrics != nil {
		h.metrics.WSConnectedClients.Inc()
	}
	logging.Debug("ws client authenticated", "user_id", identity.UserID, "role", identity.Role)
}

func (h *Hub) handleJoinSession(c *Client, identity Identity, data json.RawMessage) {
	var trainingID string
	if err := json.Unmarshal(data, &trainingID); err != nil || trainingID == "" {
		return
	}

	h.joinRoom(c, trainingRoom(trainingID))

	session, ok := h.sessions[trainingID]
	if !ok {
		session = newLiveSession(h.now())
		h.sessions[trainingID] = session
		if h.metrics != nil {
			h.metrics.WSLiveSessions.Set(float64(len(h.sessions)))
		}
	}

	session.addParticipant(identity, h.now())
	h.emitToRoom(trainingRoom(trainingID), EventParticipantJoined, participantPayload{
		UserID:            identity.UserID,
		Name:              identity.Name,
		TotalParticipants: len(session.participants),
	}, c)
}

func (h *Hub) handleMarkAttendance(c *Client, identity Identity, data json.RawMessage) {
	var payload struct {
		TrainingID string    `json:"trainingId"`
		UserID     string    `json:"userId"`
		Status     string    `json:"status"`
		Timestamp  time.Time `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.TrainingID == "" {
		return
	}
	if payload.Timestamp.IsZero() {
		payload.Timestamp = h.now()
	}

	h.emitToRoom(trainingRoom(payload.TrainingID), EventAttendanceMarked, attendancePayload{
		TrainingID: payload.TrainingID,
		UserID:     payload.UserID,
		Status:     payload.Status,
		Timestamp:  payload.Timestamp,
		MarkedBy:   identity.Name,
	}, c)

	if session, ok := h.sessions[payload.TrainingID]; ok {
		session.markAttendance(payload.UserID, payload.Status, payload.Timestamp)
	}
}

func (h *Hub) sweepSessions() {
	now := h.now()
	for trainingID, session := range h.sessions {
		if session.expired(now, sessionIdleTimeout) {
			delete(h.sessions, trainingID)
		}
	}
	if h.metrics != nil {
		h.metrics.WSLiveSessions.Set(float64(len(h.sessions)))
	}
}

// room plumbing -------------------------------------------------------

func userRoom(id string) string     { return "user:" + id }
func roleRoom(role string) string   { return "role:" + role }
func stateRoom(state string) string { return "state:" + state }
func trainingRoom(id string) string { return "training:" + id }

func (h *Hub) joinRoom(c *Client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
}

// emitToRooms sends one event to the union of the named rooms,
// skipping exclude. A slow client's full send buffer drops the event
// for that client only.
func (h *Hub) emitToRooms(rooms []string, event string, payload any, exclude *Client) {
	msg, err := marshalEnvelope(event, payload)
	if err != nil {
		logging.Error("ws marshal failed", "event", event, "error", err)
		return
	}

	seen := make(map[*Client]struct{})
	for _, room := range rooms {
		for c := range h.rooms[room] {
			if c == exclude {
				continue
			}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			c.trySend(msg)
		}
	}

	if h.metrics != nil {
		h.metrics.WSEventsTotal.WithLabelValues(event).Inc()
	}
}

func (h *Hub) emitToRoom(room, event string, payload any, exclude *Client) {
	h.emitToRooms([]string{room}, event, payload, exclude)
}

func (h *Hub) emitToClient(c *Client, event string, payload any) {
	msg, err := marshalEnvelope(event, payload)
	if err != nil {
		logging.Error("ws marshal failed", "event", event, "error", err)
		return
	}
	c.trySend(msg)
	if h.metrics != nil {
		h.metrics.WSEventsTotal.WithLabelValues(event).Inc()
	}
}

func (h *Hub) broadcast(event string, payload any) {
	msg, err := marshalEnvelope(event, payload)
	if err != nil {
		logging.Error("ws marshal failed", "event", event, "error", err)
		return
	}
	for c := range h.clients {
		c.trySend(msg)
	}
	if h.metrics != nil {
		h.metrics.WSEventsTotal.WithLabelValues(event).Inc()
	}
}

// producer API --------------------------------------------------------
//
// HTTP handlers publish through these; each hands a closure to the
// dispatcher and never touches hub state directly. When the queue is
// full the event is dropped, matching the no-durability contract.

func (h *Hub) publish(op func()) {
	if h == nil {
		return
	}
	select {
	case h.ops <- op:
	default:
		logging.Warn("hub publish queue full, event dropped")
	}
}

// PublishTrainingAdded notifies the training's state room plus the
// Admin and SuperAdmin role rooms; a Pending training additionally
// alerts approvers in the state.
func (h *Hub) PublishTrainingAdded(n TrainingNotice) {
	h.publish(func() {
		h.emitToRooms([]string{
			stateRoom(n.State),
			roleRoom(constants.RoleAdmin.String()),
			roleRoom(constants.RoleSuperAdmin.String()),
		}, EventTrainingAdded, n, nil)

		if n.ApprovalStatus == constants.ApprovalPending {
			h.emitToRooms([]string{
				stateRoom(n.State),
				roleRoom(constants.RoleAdmin.String()),
			}, EventTrainingPendingApproval, pendingApprovalPayload{
				TrainingID:  n.TrainingID,
				Title:       n.Title,
				OrganizerID: n.OrganizerID,
				State:       n.State,
			}, nil)
		}
	})
}

// PublishTrainingUpdated notifies every registrant's user room, the
// state room, and the Admin/SuperAdmin role rooms.
func (h *Hub) PublishTrainingUpdated(n TrainingNotice) {
	h.publish(func() {
		rooms := make([]string, 0, len(n.RegistrantIDs)+3)
		for _, id := range n.RegistrantIDs {
			rooms = append(rooms, userRoom(id))
		}
		rooms = append(rooms,
			stateRoom(n.State),
			roleRoom(constants.RoleAdmin.String()),
			roleRoom(constants.RoleSuperAdmin.String()),
		)
		h.emitToRooms(rooms, EventTrainingUpdated, n, nil)
	})
}

func (h *Hub) PublishTrainingDeleted(trainingID, state string) {
	h.publish(func() {
		h.emitToRooms([]string{
			stateRoom(state),
			roleRoom(constants.RoleAdmin.String()),
			roleRoom(constants.RoleSuperAdmin.String()),
		}, EventTrainingDeleted, map[string]string{"trainingId": trainingID}, nil)
	})
}

// PublishRegistration notifies the organizer and pushes the fresh
// participant count into the training's session room.
func (h *Hub) PublishRegistration(trainingID, organizerID, userName, userEmail string, newCount, maxParticipants int) {
	h.publish(func() {
		h.emitToRoom(userRoom(organizerID), EventNewRegistration, newRegistrationPayload{
			TrainingID:   trainingID,
			UserName:     userName,
			UserEmail:    userEmail,
			RegisteredAt: h.now(),
		}, nil)

		h.emitToRoom(trainingRoom(trainingID), EventParticipantCountUpdated, participantCountPayload{
			TrainingID:      trainingID,
			NewCount:        newCount,
			MaxParticipants: maxParticipants,
		}, nil)
	})
}

func (h *Hub) PublishAttendance(trainingID, userID, status, markedBy string) {
	h.publish(func() {
		at := h.now()
		h.emitToRoom(trainingRoom(trainingID), EventAttendanceMarked, attendancePayload{
			TrainingID: trainingID,
			UserID:     userID,
			Status:     status,
			Timestamp:  at,
			MarkedBy:   markedBy,
		}, nil)

		if session, ok := h.sessions[trainingID]; ok {
			session.markAttendance(userID, status, at)
		}
	})
}

// PublishApprovalDecision notifies the organizer, and on approval also
// each registrant.
func (h *Hub) PublishApprovalDecision(n TrainingNotice, approvedBy, reason string) {
	h.publish(func() {
		h.emitToRoom(userRoom(n.OrganizerID), EventTrainingApprovalUpdate, approvalUpdatePayload{
			TrainingID: n.TrainingID,
			Status:     n.ApprovalStatus,
			ApprovedBy: approvedBy,
			Reason:     reason,
			Timestamp:  h.now(),
		}, nil)

		if n.ApprovalStatus != constants.ApprovalApproved {
			return
		}
		for _, id := range n.RegistrantIDs {
			h.emitToRoom(userRoom(id), EventTrainingApproved, trainingApprovedPayload{
				TrainingID:    n.TrainingID,
				TrainingTitle: n.Title,
				Message:       "Your registered training has been approved!",
			}, nil)
		}
	})
}
