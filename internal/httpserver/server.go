package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/AndrewKaranu/ScamShield/internal/call"
	"github.com/AndrewKaranu/ScamShield/internal/scenario"
)

// ReportLister provides read access to persisted call reports.
type ReportLister interface {
	List(ctx context.Context, limit int) ([]call.Report, error)
}

// Handlers bundles the HTTP and WebSocket surface over the session manager.
type Handlers struct {
	Manager      *call.Manager
	Registry     *scenario.Registry
	Reports      ReportLister
	AuthPassword string
	Log          *logrus.Entry
}

func NewHandlers(manager *call.Manager, registry *scenario.Registry, reports ReportLister, authPassword string, log *logrus.Entry) Handlers {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return Handlers{
		Manager:      manager,
		Registry:     registry,
		Reports:      reports,
		AuthPassword: authPassword,
		Log:          log,
	}
}

func (h Handlers) Register(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/scenarios", h.listScenarios)
	e.POST("/sessions", h.createSession, h.requireAuth)
	e.GET("/sessions/:id", h.getSession, h.requireAuth)
	e.POST("/sessions/:id/events", h.dispatchEvent, h.requireAuth)
	e.GET("/sessions/:id/ws", h.sessionSocket)
	e.GET("/reports", h.listReports, h.requireAuth)
}

// requireAuth guards mutating and read endpoints when a password is
// configured. The socket endpoint authenticates on its own because browser
// WebSocket clients cannot set headers.
func (h Handlers) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.AuthPassword != "" && !authOK(c.Request(), h.AuthPassword) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		return next(c)
	}
}

// authOK accepts the shared password via the password query parameter, the
// X-Auth-Token header, or an Authorization bearer token.
func authOK(r *http.Request, expected string) bool {
	if expected == "" {
		return true
	}
	if r == nil {
		return false
	}
	if r.URL.Query().Get("password") == expected {
		return true
	}
	if r.Header.Get("X-Auth-Token") == expected {
		return true
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") && auth[7:] == expected {
		return true
	}
	return false
}

type scenarioSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CallerName   string `json:"caller_name"`
	CallerNumber string `json:"caller_number"`
	TwoStage     bool   `json:"two_stage"`
}

func (h Handlers) listScenarios(c echo.Context) error {
	personas := h.Registry.List()
	out := make([]scenarioSummary, 0, len(personas))
	for _, p := range personas {
		out = append(out, scenarioSummary{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			CallerName:   p.CallerName,
			CallerNumber: p.CallerNumber,
			TwoStage:     p.HasDistinctOpeningVoice(),
		})
	}
	return c.JSON(http.StatusOK, out)
}

type createSessionRequest struct {
	ScenarioID string `json:"scenario_id"`
}

func (h Handlers) createSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	eng, err := h.Manager.Create(req.ScenarioID)
	if err != nil {
		if errors.Is(err, scenario.ErrUnknownScenario) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, eng.Snapshot())
}

func (h Handlers) getSession(c echo.Context) error {
	eng, ok := h.Manager.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown session"})
	}
	return c.JSON(http.StatusOK, eng.Snapshot())
}

type eventRequest struct {
	Type       string `json:"type"`
	Key        string `json:"key,omitempty"`
	Text       string `json:"text,omitempty"`
	AudioRef   string `json:"audio_ref,omitempty"`
	ScenarioID string `json:"scenario_id,omitempty"`
}

// buildEvent validates an external event request. Internal completion event
// types are rejected.
func (h Handlers) buildEvent(req eventRequest) (call.Event, error) {
	t := call.EventType(req.Type)
	if !call.IsUIEvent(t) {
		return call.Event{}, echo.NewHTTPError(http.StatusBadRequest, "unknown event type")
	}
	ev := call.Event{Type: t, Key: req.Key, Text: req.Text, AudioRef: req.AudioRef}
	if t == call.EventAssignPersona {
		p, err := h.Registry.Get(req.ScenarioID)
		if err != nil {
			return call.Event{}, echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		ev.Persona = p
	}
	return ev, nil
}

func (h Handlers) dispatchEvent(c echo.Context) error {
	eng, ok := h.Manager.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown session"})
	}
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	ev, err := h.buildEvent(req)
	if err != nil {
		return err
	}
	eng.Dispatch(ev)
	return c.JSON(http.StatusOK, eng.Snapshot())
}

func (h Handlers) listReports(c echo.Context) error {
	if h.Reports == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "report store not configured"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	reports, err := h.Reports.List(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if reports == nil {
		reports = []call.Report{}
	}
	return c.JSON(http.StatusOK, reports)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// sessionSocket streams snapshots to the client after every transition and
// accepts UI events in the other direction. If the request itself did not
// authenticate, the first frame must carry the password.
func (h Handlers) sessionSocket(c echo.Context) error {
	eng, ok := h.Manager.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown session"})
	}
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	if h.AuthPassword != "" && !authOK(c.Request(), h.AuthPassword) {
		var creds struct {
			Password string `json:"password"`
		}
		ws.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := ws.ReadJSON(&creds); err != nil || creds.Password != h.AuthPassword {
			msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized")
			ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return nil
		}
		ws.SetReadDeadline(time.Time{})
	}

	send := make(chan call.Snapshot, 32)
	done := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(done) }) }

	// Slow clients miss intermediate snapshots instead of stalling the
	// engine's observer fan-out.
	unsubscribe := eng.AddObserver(func(s call.Snapshot) {
		select {
		case send <- s:
		default:
		}
	})
	defer unsubscribe()

	go func() {
		for {
			select {
			case s := <-send:
				if err := ws.WriteJSON(s); err != nil {
					finish()
					return
				}
			case <-done:
				return
			}
		}
	}()

	send <- eng.Snapshot()

	for {
		var req eventRequest
		if err := ws.ReadJSON(&req); err != nil {
			finish()
			break
		}
		ev, err := h.buildEvent(req)
		if err != nil {
			h.Log.WithField("type", req.Type).Warn("rejected socket event")
			continue
		}
		eng.Dispatch(ev)
	}
	return nil
}
