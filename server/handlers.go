package server

import (
	"net/http"
	"strconv"

	apperrors "wsrooms/pkg/errors"
	"wsrooms/pkg/pool"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Rooms accept connections from any origin. Access control, when
	// wanted, belongs in front of this server, not in the upgrade
	// handshake.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleRoomSocket upgrades the request and adds the connection to the
// named room. The connection id comes from the ?id= query parameter; a
// random id is assigned when the caller provides none.
func (s *Server) handleRoomSocket(c *gin.Context) {
	room := c.Param("room")
	id := c.Query("id")
	if id == "" {
		id = uuid.NewString()
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.ErrorErr("websocket upgrade failed", err, "room", room)
		return
	}

	conn := newWSConn(ws, s.cfg.Pool.PongTimeout(), s.cfg.Pool.WriteTimeout(), s.cfg.Pool.MaxMessageBytes)

	p := s.registry.Get(room)
	if _, err := p.Add(id, conn); err != nil {
		s.log.Warn("rejecting connection", "room", room, "conn_id", id, "error", err.Error())
		conn.Close(websocket.ClosePolicyViolation, err.Error())
		return
	}

	go s.runSession(p, id, conn)
}

// handleHealth reports server health including room and connection counts.
func (s *Server) handleHealth(c *gin.Context) {
	rooms := s.registry.Names()
	connections := 0
	for _, name := range rooms {
		if p, ok := s.registry.Lookup(name); ok {
			connections += p.Len()
		}
	}
	c.JSON(http.StatusOK, s.monitor.GetHealth(len(rooms), connections))
}

func (s *Server) handleRoomGet(c *gin.Context) {
	room := c.Param("room")
	p, ok := s.registry.Lookup(room)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrRoomNotFound.Error()})
		return
	}

	detail := gin.H{
		"name":        p.Name(),
		"connections": p.IDs(),
	}
	if s.store != nil {
		if stats, err := s.store.RoomStats(room); err == nil {
			detail["stats"] = stats
		}
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) handleRoomEvents(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": apperrors.ErrStoreUnavailable.Error()})
		return
	}

	room := c.Param("room")
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	events, err := s.store.RecentEvents(room, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room, "events": events})
}

// messageRequest is the body for broadcast and single-target sends.
type messageRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) handleRoomBroadcast(c *gin.Context) {
	room := c.Param("room")
	p, ok := s.registry.Lookup(room)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrRoomNotFound.Error()})
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message required"})
		return
	}

	p.Broadcast(c.Request.Context(), pool.TextMessage, []byte(req.Message))
	c.JSON(http.StatusOK, gin.H{"status": "sent", "connections": p.Len()})
}

func (s *Server) handleRoomSend(c *gin.Context) {
	room := c.Param("room")
	p, ok := s.registry.Lookup(room)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrRoomNotFound.Error()})
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message required"})
		return
	}

	result := p.Send(c.Request.Context(), c.Param("id"), pool.TextMessage, []byte(req.Message))
	switch result {
	case pool.ResultNone:
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrConnectionNotFound.Error()})
	case pool.ResultNormal:
		c.JSON(http.StatusOK, gin.H{"status": "sent"})
	default:
		c.JSON(http.StatusGone, gin.H{"error": apperrors.ErrConnectionLost.Error(), "result": result.String()})
	}
}

func (s *Server) handleConnectionRemove(c *gin.Context) {
	room := c.Param("room")
	p, ok := s.registry.Lookup(room)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrRoomNotFound.Error()})
		return
	}

	entry, removed := p.Remove(c.Param("id"), pool.ResultRemoved)
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrConnectionNotFound.Error()})
		return
	}
	entry.Conn().Close(websocket.CloseNormalClosure, "removed by server")
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (s *Server) handleRoomDispose(c *gin.Context) {
	room := c.Param("room")
	if !s.registry.Dispose(room) {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrRoomNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "disposed"})
}
