package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/internal/types"
	"github.com/taskhub-dev/taskhub/internal/utils"
)

var (
	activityClients   = make(map[uint]map[*websocket.Conn]bool)
	activityClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type ActivityEvent struct {
	Type      string `json:"type"`
	ProjectID uint   `json:"project_id"`
	Subject   string `json:"subject"`
}

// BroadcastActivity pushes an event to every client watching the project.
// Failed connections are dropped from the registry.
func BroadcastActivity(projectID uint, eventType, subject string) {
	activityClientsMu.RLock()
	clients, exists := activityClients[projectID]
	if !exists || len(clients) == 0 {
		activityClientsMu.RUnlock()
		return
	}

	conns := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		conns = append(conns, conn)
	}
	activityClientsMu.RUnlock()

	event := ActivityEvent{
		Type:      eventType,
		ProjectID: projectID,
		Subject:   subject,
	}

	for _, conn := range conns {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		if err := conn.WriteJSON(event); err != nil {
			log.Printf("Failed to broadcast activity to client: %v", err)
			unregisterClient(projectID, conn)
			conn.Close()
		}
	}
}

func registerClient(projectID uint, conn *websocket.Conn) {
	activityClientsMu.Lock()
	if activityClients[projectID] == nil {
		activityClients[projectID] = make(map[*websocket.Conn]bool)
	}
	activityClients[projectID][conn] = true
	activityClientsMu.Unlock()
}

func unregisterClient(projectID uint, conn *websocket.Conn) {
	activityClientsMu.Lock()
	if clients, exists := activityClients[projectID]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(activityClients, projectID)
		}
	}
	activityClientsMu.Unlock()
}

// ProjectActivity upgrades the connection into the project's activity feed.
// The ownership check runs before the upgrade, so non-owners never hold a
// feed connection.
func ProjectActivity(c *gin.Context) {
	projectID, err := utils.GetProjectID(c)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := services.ShowProject(utils.ActorID(c), projectID); err != nil {
		renderServiceError(c, err, types.LandingPath)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	registerClient(projectID, conn)

	defer func() {
		unregisterClient(projectID, conn)
		conn.Close()
		log.Printf("Activity feed closed for project %d", projectID)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}

	if err := conn.WriteJSON(ActivityEvent{Type: "connected", ProjectID: projectID}); err != nil {
		log.Printf("Failed to send connect event: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Activity feed error for project %d: %v", projectID, err)
			}
			break
		}
	}
}
