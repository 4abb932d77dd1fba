// Package web serves the browser dashboard: a gin router exposing the live
// readings as JSON, a websocket feed pushing one snapshot per tick, and the
// page that renders them. The engine is single-threaded by design, so every
// handler and tick serializes through one mutex.
package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/nati/waterdash/internal/alert"
	"github.com/nati/waterdash/internal/config"
	"github.com/nati/waterdash/internal/export"
	"github.com/nati/waterdash/internal/i18n"
	"github.com/nati/waterdash/internal/prefs"
	"github.com/nati/waterdash/internal/sched"
	"github.com/nati/waterdash/internal/sim"
)

// Task names for the two periodic concerns.
const (
	tickTask  = "sensor-tick"
	clockTask = "clock"
)

// SensorView is one reading as the page consumes it.
type SensorView struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Display   string  `json:"display"`
	Unit      string  `json:"unit"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Range     string  `json:"range"`
	Tier      string  `json:"tier"`
	TierLabel string  `json:"tierLabel"`
	Breached  bool    `json:"breached"`
}

// Snapshot is one websocket frame. Kind "tick" carries the full sensor set;
// kind "clock" only refreshes the time display.
type Snapshot struct {
	Kind         string              `json:"kind"`
	At           time.Time           `json:"at"`
	Language     i18n.Lang           `json:"language"`
	Sensors      []SensorView        `json:"sensors,omitempty"`
	Notification *alert.Notification `json:"notification,omitempty"`
}

// TableRow is one line of the readings table as JSON.
type TableRow struct {
	Time   time.Time `json:"time"`
	Values []float64 `json:"values"`
	Status string    `json:"status"`
}

// Server owns the HTTP surface and the periodic tasks feeding it. The
// engine assumes one logical thread of control, so mu serializes every
// handler and tick that touches it.
type Server struct {
	mu      sync.Mutex
	engine  *sim.Engine
	cfg     config.Config
	store   prefs.Store
	runner  *sched.Runner
	router  *gin.Engine
	logger  *slog.Logger
	clients *hub

	upgrader websocket.Upgrader
}

// NewServer wires the engine to a router; Start launches the tick loops.
func NewServer(engine *sim.Engine, cfg config.Config, store prefs.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:  engine,
		cfg:     cfg,
		store:   store,
		runner:  sched.NewRunner(logger),
		logger:  logger,
		clients: newHub(logger),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/", s.handleIndex)
	r.GET("/ws", s.handleWebSocket)
	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	api.GET("/readings", s.handleReadings)
	api.GET("/table", s.handleTable)
	api.GET("/export", s.handleExport)
	api.GET("/language", s.handleGetLanguage)
	api.POST("/language", s.handleSetLanguage)
	api.POST("/dismiss", s.handleDismiss)
	s.router = r
	return s
}

// Router exposes the gin engine for tests and embedding.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start launches the sensor tick and the clock refresh. Calling it again
// restarts both loops; the runner cancels the previous ones first.
func (s *Server) Start() {
	s.runner.Start(tickTask, s.cfg.TickInterval, s.tick)
	s.runner.Start(clockTask, s.cfg.ClockInterval, s.clockTick)
}

// Stop cancels both loops. Safe to call repeatedly.
func (s *Server) Stop() {
	s.runner.StopAll()
}

// Run starts the tick loops and serves until the listener fails.
func (s *Server) Run() error {
	s.Start()
	defer s.Stop()
	s.logger.Info("dashboard listening", slog.String("addr", s.cfg.HTTPAddr))
	return s.router.Run(s.cfg.HTTPAddr)
}

func (s *Server) tick(now time.Time) {
	s.mu.Lock()
	result := s.engine.Tick(now)
	snap := s.snapshotFrom("tick", result)
	s.mu.Unlock()

	s.clients.broadcast(snap)
}

func (s *Server) clockTick(now time.Time) {
	s.mu.Lock()
	lang := s.engine.Language()
	s.mu.Unlock()

	s.clients.broadcast(Snapshot{Kind: "clock", At: now, Language: lang})
}

// snapshotFrom projects a tick result for the page. Callers hold the engine
// mutex.
func (s *Server) snapshotFrom(kind string, result sim.TickResult) Snapshot {
	tr := i18n.New(s.engine.Language())
	views := make([]SensorView, len(result.Rows))
	for i, row := range result.Rows {
		r := row.Reading
		views[i] = SensorView{
			ID:        r.ID,
			Name:      tr.Sensor(r.ID),
			Value:     r.Value,
			Display:   r.ValueWithUnit(),
			Unit:      r.Unit,
			Min:       r.Min,
			Max:       r.Max,
			Range:     r.FormatRange(),
			Tier:      row.Tier.String(),
			TierLabel: tr.TierLabel(row.Tier.String()),
			Breached:  row.Tier.Breached(),
		}
	}
	return Snapshot{
		Kind:         kind,
		At:           result.At,
		Language:     s.engine.Language(),
		Sensors:      views,
		Notification: result.Notification,
	}
}

// ── Handlers ─────────────────────────────────────────────────────────

func (s *Server) handleIndex(c *gin.Context) {
	s.mu.Lock()
	tr := i18n.New(s.engine.Language())
	s.mu.Unlock()

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(c.Writer, pageData{
		Title: tr.T("app.title"),
		Lang:  string(tr.Lang()),
	}); err != nil {
		s.logger.Error("page render failed", slog.String("error", err.Error()))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReadings(c *gin.Context) {
	s.mu.Lock()
	snap := s.snapshotFrom("tick", s.engine.Snapshot(time.Now()))
	s.mu.Unlock()

	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleTable(c *gin.Context) {
	s.mu.Lock()
	tr := i18n.New(s.engine.Language())
	rows := s.engine.Table(s.cfg.TableRows, s.cfg.TableStep, time.Now())
	readings := s.engine.Readings()
	s.mu.Unlock()

	headers := make([]string, 0, len(readings)+2)
	headers = append(headers, tr.T("ui.timestamp"))
	for _, r := range readings {
		headers = append(headers, tr.Sensor(r.ID))
	}
	headers = append(headers, tr.T("ui.status"))

	out := make([]TableRow, len(rows))
	for i, row := range rows {
		out[i] = TableRow{Time: row.Time, Values: row.Values, Status: tr.TierLabel(row.Tier.String())}
	}
	c.JSON(http.StatusOK, gin.H{"headers": headers, "rows": out})
}

func (s *Server) handleExport(c *gin.Context) {
	now := time.Now()
	s.mu.Lock()
	readings := s.engine.Readings()
	rows := s.engine.Table(s.cfg.TableRows, s.cfg.TableStep, now)
	s.mu.Unlock()

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+export.DefaultFilename(now)+`"`)
	if err := export.Write(c.Writer, readings, rows); err != nil {
		s.logger.Error("export failed", slog.String("error", err.Error()))
	}
}

func (s *Server) handleGetLanguage(c *gin.Context) {
	s.mu.Lock()
	lang := s.engine.Language()
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"language": lang})
}

func (s *Server) handleSetLanguage(c *gin.Context) {
	var body struct {
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	lang, ok := i18n.Parse(body.Language)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown language: " + body.Language})
		return
	}
	if err := s.store.Set(prefs.LanguageKey, string(lang)); err != nil {
		s.logger.Warn("language preference not persisted", slog.String("error", err.Error()))
	}

	now := time.Now()
	s.mu.Lock()
	s.engine.SetLanguage(lang)
	tr := i18n.New(lang)
	s.engine.Dispatcher().Dispatch(
		fmt.Sprintf(tr.T("notify.language"), tr.LangName(lang)), alert.SeveritySuccess, now)
	snap := s.snapshotFrom("tick", s.engine.Snapshot(now))
	s.mu.Unlock()

	s.clients.broadcast(snap)
	c.JSON(http.StatusOK, gin.H{"language": lang})
}

func (s *Server) handleDismiss(c *gin.Context) {
	s.mu.Lock()
	s.engine.Dispatcher().Dismiss()
	snap := s.snapshotFrom("tick", s.engine.Snapshot(time.Now()))
	s.mu.Unlock()

	s.clients.broadcast(snap)
	c.JSON(http.StatusOK, gin.H{"dismissed": true})
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	snap := s.snapshotFrom("tick", s.engine.Snapshot(time.Now()))
	s.mu.Unlock()

	s.clients.add(conn, snap)
	defer s.clients.remove(conn)

	// Drain the connection; the page never sends anything meaningful.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
