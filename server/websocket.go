package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/inklusif-kerja/gesturecli/commands"
	"github.com/inklusif-kerja/gesturecli/gestures"
	"github.com/inklusif-kerja/gesturecli/utils"
)

const (
	notificationGestureDetected = "gesture.detected"

	// wsWriteWait bounds every write so a client that stops reading cannot
	// hold a connection's writer forever
	wsWriteWait = 5 * time.Second

	// wsNotificationBuffer is how many pushes may wait for the writer before
	// new ones are dropped
	wsNotificationBuffer = 64
)

type wsConnection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	// notifications are written by pushNotifications, never by the
	// classifier goroutine that produced them
	notifications chan JSONRPCNotification
	done          chan struct{}

	sessionsMu sync.Mutex
	sessions   []string
}

func newWSConnection(conn *websocket.Conn) *wsConnection {
	return &wsConnection{
		conn:          conn,
		notifications: make(chan JSONRPCNotification, wsNotificationBuffer),
		done:          make(chan struct{}),
	}
}

func newUpgrader(enableCORS bool) *websocket.Upgrader {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	if enableCORS {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	} else {
		upgrader.CheckOrigin = isSameOrigin
	}

	return &upgrader
}

// NewWebSocketHandler serves JSON-RPC over websocket. Sessions created on a
// connection push "gesture.detected" notifications to it and are closed
// when it goes away.
func NewWebSocketHandler(enableCORS bool) http.Handler {
	upgrader := newUpgrader(enableCORS)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(upgrader, w, r)
	})
}

func handleWebSocket(upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.Warn("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	wsConn := newWSConnection(conn)
	go wsConn.pushNotifications()
	defer close(wsConn.done)
	defer wsConn.closeSessions()

	call := &Call{
		Notify:           wsConn.notifyDetection,
		OnSessionCreated: wsConn.trackSession,
	}

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			// connection closed or error
			utils.Verbose("WebSocket connection closed: %v", err)
			break
		}

		if messageType != websocket.TextMessage {
			_ = wsConn.sendError(nil, ErrCodeInvalidRequest, errTitleInvalidReq, "only text messages accepted for requests")
			continue
		}

		handleWSMessage(wsConn, call, message)
	}
}

func isSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return originURL.Host == r.Host
}

func handleWSMessage(wsConn *wsConnection, call *Call, message []byte) {
	var req JSONRPCRequest
	if err := json.Unmarshal(message, &req); err != nil {
		_ = wsConn.sendError(nil, ErrCodeParseError, errTitleParseError, errMsgParseError)
		return
	}

	if req.JSONRPC != "2.0" {
		_ = wsConn.sendError(req.ID, ErrCodeInvalidRequest, errTitleInvalidReq, errMsgInvalidJSONRPC)
		return
	}

	if req.ID == nil {
		_ = wsConn.sendError(nil, ErrCodeInvalidRequest, errTitleInvalidReq, errMsgIDRequired)
		return
	}

	if req.Method == "" {
		_ = wsConn.sendError(req.ID, ErrCodeInvalidRequest, errTitleInvalidReq, errMsgMethodRequired)
		return
	}

	utils.Verbose("WebSocket Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	result, err := Execute(call, req.Method, req.Params)
	if err != nil {
		utils.Verbose("Error executing method %s: %v", req.Method, err)
		code, title, data := errorObject(err)
		_ = wsConn.sendError(req.ID, code, title, data)
		return
	}

	_ = wsConn.sendResponse(req.ID, result)
}

func (wsc *wsConnection) trackSession(sessionID string) {
	wsc.sessionsMu.Lock()
	defer wsc.sessionsMu.Unlock()
	wsc.sessions = append(wsc.sessions, sessionID)
}

func (wsc *wsConnection) closeSessions() {
	wsc.sessionsMu.Lock()
	ids := wsc.sessions
	wsc.sessions = nil
	wsc.sessionsMu.Unlock()

	registry := commands.GetRegistry()
	if registry == nil {
		return
	}

	for _, id := range ids {
		err := registry.Close(id)
		if err != nil && !errors.Is(err, gestures.ErrSessionNotFound) {
			utils.Warn("Failed to close session %s: %v", id, err)
		}
	}
}

// notifyDetection runs on the classifier's goroutine, which may be the
// long-press timer, while the classifier lock is held. It only queues.
func (wsc *wsConnection) notifyDetection(sessionID string, detection gestures.Detection) {
	notification := JSONRPCNotification{
		JSONRPC: "2.0",
		Method:  notificationGestureDetected,
		Params: GestureNotification{
			SessionID:       sessionID,
			DetectedGesture: commands.Describe(detection),
		},
	}

	select {
	case wsc.notifications <- notification:
	case <-wsc.done:
	default:
		utils.Warn("Dropping %s for session %s: client is not reading", detection.Gesture, sessionID)
	}
}

func (wsc *wsConnection) pushNotifications() {
	for {
		select {
		case <-wsc.done:
			return
		case notification := <-wsc.notifications:
			if err := wsc.sendJSON(notification); err != nil {
				utils.Verbose("Failed to push %s: %v", notification.Method, err)
			}
		}
	}
}

func (wsc *wsConnection) sendResponse(id interface{}, result interface{}) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendError(id interface{}, code int, message string, data interface{}) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendJSON(v interface{}) error {
	wsc.writeMu.Lock()
	defer wsc.writeMu.Unlock()

	if err := wsc.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return wsc.conn.WriteJSON(v)
}
