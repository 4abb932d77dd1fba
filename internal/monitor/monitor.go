// Package monitor implements the live water-quality TUI using BubbleTea,
// with tier-colored readings, safe-band gauges, sparkline history and
// transient notifications.
package monitor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nati/waterdash/internal/alert"
	"github.com/nati/waterdash/internal/chart"
	"github.com/nati/waterdash/internal/config"
	"github.com/nati/waterdash/internal/export"
	"github.com/nati/waterdash/internal/history"
	"github.com/nati/waterdash/internal/i18n"
	"github.com/nati/waterdash/internal/prefs"
	"github.com/nati/waterdash/internal/sensor"
	"github.com/nati/waterdash/internal/sim"
	"github.com/nati/waterdash/internal/status"
)

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type clockMsg time.Time

// ── Render targets ───────────────────────────────────────────────────

// tile is the render target bound to one sensor's value cell. The engine
// pushes into it once per tick; the view only reads.
type tile struct {
	value string
	tier  status.Tier
}

func (t *tile) Update(value string, tier status.Tier) {
	t.value = value
	t.tier = tier
}

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the live dashboard.
type Model struct {
	engine    *sim.Engine
	cfg       config.Config
	store     prefs.Store
	tr        i18n.Translator
	tiles     map[string]*tile
	order     []string
	rows      []sim.TickRow
	tableRows []history.Row
	lastTick  time.Time
	clock     time.Time
	startTime time.Time
	width     int
	height    int
	scroll    int
	paused    bool
	showTable bool
}

// New creates the initial model, binds a render tile per catalog sensor and
// primes the view with the station's seed state.
func New(engine *sim.Engine, cfg config.Config, store prefs.Store, lang i18n.Lang) Model {
	m := Model{
		engine:    engine,
		cfg:       cfg,
		store:     store,
		tr:        i18n.New(lang),
		tiles:     make(map[string]*tile),
		clock:     time.Now(),
		startTime: time.Now(),
	}
	engine.SetLanguage(lang)

	snap := engine.Snapshot(time.Now())
	m.rows = snap.Rows
	for _, row := range snap.Rows {
		t := &tile{value: row.Reading.ValueWithUnit(), tier: row.Tier}
		m.tiles[row.Reading.ID] = t
		m.order = append(m.order, row.Reading.ID)
		engine.Bind(row.Reading.ID, t)
	}
	return m
}

// ── Commands ─────────────────────────────────────────────────────────

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clockCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.cfg.TickInterval), clockCmd(m.cfg.ClockInterval))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			m.scroll++
		case "home":
			m.scroll = 0
		case " ", "p":
			m.paused = !m.paused
		case "l":
			m = m.toggleLanguage()
		case "t":
			m.showTable = !m.showTable
			if m.showTable {
				m.tableRows = m.engine.Table(m.cfg.TableRows, m.cfg.TableStep, time.Now())
			}
		case "e":
			m.exportTable()
		case "x":
			m.engine.Dispatcher().Dismiss()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.paused {
			return m, tickCmd(m.cfg.TickInterval)
		}
		res := m.engine.Tick(time.Time(msg))
		m.rows = res.Rows
		m.lastTick = res.At
		if m.showTable {
			m.tableRows = m.engine.Table(m.cfg.TableRows, m.cfg.TableStep, res.At)
		}
		return m, tickCmd(m.cfg.TickInterval)

	case clockMsg:
		m.clock = time.Time(msg)
		return m, clockCmd(m.cfg.ClockInterval)
	}

	return m, nil
}

func (m Model) toggleLanguage() Model {
	next := m.tr.Lang().Next()
	m.tr = i18n.New(next)
	m.engine.SetLanguage(next)
	if m.store != nil {
		// Preference write failures are not fatal; the toggle still applies.
		_ = m.store.Set(prefs.LanguageKey, string(next))
	}
	msg := fmt.Sprintf(m.tr.T("notify.language"), m.tr.LangName(next))
	m.engine.Dispatcher().Dispatch(msg, alert.SeverityInfo, time.Now())
	return m
}

func (m Model) exportTable() {
	now := time.Now()
	name := export.DefaultFilename(now)
	rows := m.engine.Table(m.cfg.TableRows, m.cfg.TableStep, now)

	readings := make([]sensor.Reading, len(m.rows))
	for i, tr := range m.rows {
		readings[i] = tr.Reading
	}

	if err := export.WriteFile(name, readings, rows); err != nil {
		m.engine.Dispatcher().Dispatch(
			fmt.Sprintf(m.tr.T("notify.export.fail"), err),
			alert.SeverityDanger, now)
		return
	}
	m.engine.Dispatcher().Dispatch(
		fmt.Sprintf(m.tr.T("notify.export"), name),
		alert.SeveritySuccess, now)
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorName     = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorPaused   = lipgloss.Color("196")
)

func severityColor(s alert.Severity) lipgloss.Color {
	switch s {
	case alert.SeveritySuccess:
		return lipgloss.Color("78")
	case alert.SeverityWarning:
		return lipgloss.Color("220")
	case alert.SeverityDanger:
		return lipgloss.Color("196")
	default:
		return lipgloss.Color("39")
	}
}

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string

	sections = append(sections, m.renderTitleBar(contentWidth))

	if toast := m.renderToast(contentWidth); toast != "" {
		sections = append(sections, toast)
	}

	if m.showTable {
		sections = append(sections, m.renderTable(contentWidth))
	} else {
		sections = append(sections, m.renderReadingsPanel(contentWidth))
		sections = append(sections, m.renderTrendsPanel(contentWidth))
	}

	sections = append(sections, m.renderFooter(contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
	visibleLines := m.height
	if visibleLines < 5 {
		visibleLines = 5
	}
	maxScroll := len(lines) - visibleLines
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}

	start := m.scroll
	end := start + visibleLines
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render(strings.ToUpper(m.tr.T("app.title")))

	var statusParts []string

	uptime := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("up %s", fmtDuration(time.Since(m.startTime))))
	statusParts = append(statusParts, uptime)

	clock := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(m.clock.Format("15:04:05"))
	statusParts = append(statusParts, clock)

	if !m.lastTick.IsZero() {
		ts := lipgloss.NewStyle().
			Foreground(colorDim).
			Render(m.tr.T("ui.last_updated") + " " + m.lastTick.Format("15:04:05"))
		statusParts = append(statusParts, ts)
	}

	lang := lipgloss.NewStyle().
		Foreground(colorTitleFg).
		Render(strings.ToUpper(string(m.tr.Lang())))
	statusParts = append(statusParts, lang)

	if m.paused {
		p := lipgloss.NewStyle().
			Foreground(colorPaused).
			Bold(true).
			Render(strings.ToUpper(m.tr.T("ui.paused")))
		statusParts = append(statusParts, p)
	}

	sep := lipgloss.NewStyle().Foreground(colorDim).Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + filler + right)
}

func (m Model) renderToast(width int) string {
	n := m.engine.Dispatcher().Current(time.Now())
	if n == nil {
		return ""
	}

	color := severityColor(n.Severity)
	text := lipgloss.NewStyle().Foreground(color).Bold(true).Render(n.Message)
	hint := lipgloss.NewStyle().Foreground(colorDim).Render("  [x]")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(width).
		Render(text + hint)
}

func (m Model) renderReadingsPanel(totalWidth int) string {
	labelW := 18
	valueW := 12

	gaugeWidth := totalWidth - labelW - valueW - 40
	if gaugeWidth < 12 {
		gaugeWidth = 12
	}
	if gaugeWidth > 60 {
		gaugeWidth = 60
	}

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
	frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")

	var rows []string
	for _, tr := range m.rows {
		r := tr.Reading

		name := lipgloss.NewStyle().
			Foreground(colorName).
			Width(labelW).
			Render(truncate(m.tr.Sensor(r.ID), labelW))

		tier := tr.Tier
		if t, ok := m.tiles[r.ID]; ok {
			tier = t.tier
		}
		badge := lipgloss.NewStyle().
			Foreground(chart.TierColor(tier)).
			Bold(tier.Breached()).
			Width(14).
			Render(truncate(m.tr.TierLabel(tier.String()), 14))

		value := lipgloss.NewStyle().
			Width(valueW).
			Align(lipgloss.Right).
			Render(chart.Value(r, tier))

		gauge := frameL + chart.BandGauge(r, gaugeWidth) + frameR

		rng := dimS.Render(" " + m.tr.T("ui.safe_range") + " " + r.FormatRange())

		rows = append(rows, name+badge+value+" "+gauge+rng)
	}

	panelContent := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(panelContent)
}

func (m Model) renderTrendsPanel(totalWidth int) string {
	labelW := 18

	chartWidth := totalWidth - labelW - 40
	if chartWidth < 15 {
		chartWidth = 15
	}
	if chartWidth > 140 {
		chartWidth = 140
	}

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
	frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")

	var rows []string
	var lastPts []history.Point

	for _, tr := range m.rows {
		r := tr.Reading
		hist := m.engine.Histories().Get(r.ID)
		if hist == nil {
			continue
		}

		name := lipgloss.NewStyle().
			Foreground(colorLabel).
			Width(labelW).
			Render(truncate(m.tr.Sensor(r.ID), labelW))

		pts := hist.LastNPoints(chartWidth)
		lastPts = pts
		spark := chart.Sparkline(pts, chartWidth, r)

		stats := dimS.Render(" avg") + valS.Render(fmt.Sprintf("%7.1f", hist.Avg())) +
			dimS.Render(" lo") + valS.Render(fmt.Sprintf("%7.1f", hist.Min())) +
			dimS.Render(" pk") + valS.Render(fmt.Sprintf("%7.1f", hist.Peak()))

		rows = append(rows, name+frameL+spark+frameR+stats)
	}

	if len(rows) == 0 {
		waiting := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(totalWidth - 4).
			Align(lipgloss.Center).
			Padding(1, 0).
			Render("Collecting history...")
		rows = append(rows, waiting)
	}

	if lastPts != nil {
		timeline := chart.Timeline(lastPts, chartWidth)
		if strings.TrimSpace(timeline) != "" {
			rows = append(rows, strings.Repeat(" ", labelW)+" "+timeline)
		}
	}

	panelContent := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(panelContent)
}

func (m Model) renderTable(totalWidth int) string {
	timeW := 20
	colW := 13
	statusW := 14

	header := lipgloss.NewStyle().
		Foreground(colorName).
		Bold(true).
		Width(timeW).
		Render(m.tr.T("ui.timestamp"))
	for _, tr := range m.rows {
		header += lipgloss.NewStyle().
			Foreground(colorName).
			Bold(true).
			Width(colW).
			Align(lipgloss.Right).
			Render(truncate(m.tr.Sensor(tr.Reading.ID), colW-1))
	}
	header += lipgloss.NewStyle().
		Foreground(colorName).
		Bold(true).
		Width(statusW).
		Align(lipgloss.Right).
		Render(m.tr.T("ui.status"))

	rows := []string{
		lipgloss.NewStyle().Bold(true).Foreground(colorLabel).Render(m.tr.T("ui.table")),
		header,
	}

	for _, row := range m.tableRows {
		line := lipgloss.NewStyle().
			Foreground(colorLabel).
			Width(timeW).
			Render(row.Time.Format("2006-01-02 15:04"))
		for j, v := range row.Values {
			prec := 2
			if j < len(m.rows) {
				prec = m.rows[j].Reading.Precision
			}
			line += lipgloss.NewStyle().
				Foreground(colorLabel).
				Width(colW).
				Align(lipgloss.Right).
				Render(strconv.FormatFloat(v, 'f', prec, 64))
		}
		line += lipgloss.NewStyle().
			Foreground(chart.TierColor(row.Tier)).
			Bold(row.Tier.Breached()).
			Width(statusW).
			Align(lipgloss.Right).
			Render(m.tr.TierLabel(row.Tier.String()))
		rows = append(rows, line)
	}

	panelContent := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(panelContent)
}

func (m Model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)

	var legendParts []string
	for _, t := range []status.Tier{status.Normal, status.Alert, status.Warning, status.High} {
		block := lipgloss.NewStyle().Foreground(chart.TierColor(t)).Render("██")
		label := m.tr.TierLabel(t.String())
		if t == status.High {
			label = m.tr.TierLabel("Low") + "/" + m.tr.TierLabel("High")
		}
		legendParts = append(legendParts, block+dimS.Render(" "+label))
	}
	legend := strings.Join(legendParts, " ")

	keys := dimS.Render(m.tr.T("ui.help"))

	gap := width - lipgloss.Width(legend) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(legend + filler + keys)
}

func truncate(s string, w int) string {
	if len(s) <= w {
		return s
	}
	if w <= 3 {
		return s[:w]
	}
	return s[:w-1] + "…"
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, mins, s)
	}
	return fmt.Sprintf("%dm%02ds", mins, s)
}

// Run starts the full-screen dashboard and blocks until the user quits.
func Run(engine *sim.Engine, cfg config.Config, store prefs.Store, lang i18n.Lang) error {
	p := tea.NewProgram(New(engine, cfg, store, lang), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
