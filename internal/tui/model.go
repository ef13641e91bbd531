package tui

import (
	"context"
	"fmt"
	"strings"

	"market-mood/internal/domain"
	"market-mood/internal/sentiment"
	"market-mood/internal/service"
	"market-mood/pkg/format"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SnapshotProvider is the dashboard surface the TUI renders from.
type SnapshotProvider interface {
	BuildSnapshot(ctx context.Context, days int) domain.Snapshot
}

// AdvisorQuerier produces optional commentary; nil disables the 'a' key.
type AdvisorQuerier interface {
	Comment(ctx context.Context, snapshot domain.Snapshot) (string, error)
}

// Services bundles everything a session model needs.
type Services struct {
	Dashboard SnapshotProvider
	Advisor   AdvisorQuerier
	Username  string
}

type keyMap struct {
	Narrow  key.Binding
	Widen   key.Binding
	Refresh key.Binding
	Advice  key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Narrow, k.Widen, k.Refresh, k.Advice, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Narrow, k.Widen}, {k.Refresh, k.Advice, k.Quit}}
}

var defaultKeys = keyMap{
	Narrow:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "narrower window")),
	Widen:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "wider window")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Advice:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "commentary")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// sliderStep is how many days one key press moves the window.
const sliderStep = 7

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	metricStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	chartStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type snapshotMsg domain.Snapshot

type adviceMsg struct {
	text string
	err  error
}

// Model is the bubbletea model for one dashboard session.
type Model struct {
	services Services
	keys     keyMap
	help     help.Model
	spinner  spinner.Model

	days     int
	snapshot domain.Snapshot
	loaded   bool
	loading  bool

	advice        string
	adviceLoading bool

	width  int
	height int
}

func NewModel(services Services) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		services: services,
		keys:     defaultKeys,
		help:     help.New(),
		spinner:  sp,
		days:     service.DefaultDays,
		loading:  true,
	}
}

// SetSize primes the layout before the first WindowSizeMsg arrives.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadSnapshot())
}

func (m Model) loadSnapshot() tea.Cmd {
	days := m.days
	dash := m.services.Dashboard
	return func() tea.Msg {
		return snapshotMsg(dash.BuildSnapshot(context.Background(), days))
	}
}

func (m Model) loadAdvice() tea.Cmd {
	advisor := m.services.Advisor
	snap := m.snapshot
	return func() tea.Msg {
		text, err := advisor.Comment(context.Background(), snap)
		return adviceMsg{text: text, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		m.snapshot = domain.Snapshot(msg)
		m.loaded = true
		m.loading = false
		return m, nil

	case adviceMsg:
		m.adviceLoading = false
		if msg.err != nil {
			m.advice = warnStyle.Render("Commentary unavailable: " + msg.err.Error())
		} else {
			m.advice = msg.text
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loading || m.adviceLoading {
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Narrow):
			m.days = service.ClampDays(m.days - sliderStep)
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadSnapshot())

		case key.Matches(msg, m.keys.Widen):
			m.days = service.ClampDays(m.days + sliderStep)
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadSnapshot())

		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadSnapshot())

		case key.Matches(msg, m.keys.Advice):
			if m.services.Advisor == nil || !m.loaded || m.adviceLoading {
				return m, nil
			}
			m.adviceLoading = true
			return m, tea.Batch(m.spinner.Tick, m.loadAdvice())
		}
	}

	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Stock Sentiment Dashboard: BTC & ETF"))
	sb.WriteString("\n")
	sb.WriteString(m.renderSlider())
	sb.WriteString("\n\n")

	if !m.loaded {
		sb.WriteString(m.spinner.View())
		sb.WriteString(" loading market data...\n")
		return sb.String()
	}

	for _, w := range m.snapshot.Warnings {
		sb.WriteString(warnStyle.Render("⚠ " + w))
		sb.WriteString("\n")
	}
	if len(m.snapshot.Warnings) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString(m.renderCryptoSection())
	sb.WriteString("\n")
	sb.WriteString(m.renderMarketSection())

	if m.adviceLoading {
		sb.WriteString("\n")
		sb.WriteString(m.spinner.View())
		sb.WriteString(" asking for commentary...\n")
	} else if m.advice != "" {
		sb.WriteString("\n")
		sb.WriteString(faintStyle.Render(wrap(m.advice, m.chartWidth())))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) renderSlider() string {
	span := service.MaxDays - service.MinDays
	width := 24
	pos := (m.days - service.MinDays) * (width - 1) / span

	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i == pos {
			bar.WriteString("●")
		} else {
			bar.WriteString("─")
		}
	}
	label := fmt.Sprintf("%d [%s] %d  showing %d days", service.MinDays, bar.String(), service.MaxDays, m.days)
	if m.loading {
		label += "  " + m.spinner.View()
	}
	return faintStyle.Render(label)
}

func (m Model) renderCryptoSection() string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("── Bitcoin ──"))
	sb.WriteString("\n")

	price := m.snapshot.SeriesFor(domain.KindPrice)
	if latest, ok := price.Latest(); ok {
		sb.WriteString(metricStyle.Render(fmt.Sprintf("Bitcoin Price (EUR): %s", format.Thousands(latest.Value))))
		sb.WriteString("\n")
	}

	scoreLabel := sentiment.Describe[sentiment.Label(m.snapshot.ScoreLabel)]
	if m.snapshot.Score.OK {
		delta := "n/a"
		if m.snapshot.DeltaOK {
			delta = format.SignedInt(m.snapshot.Delta)
		}
		sb.WriteString(metricStyle.Render(fmt.Sprintf("Crypto Fear & Greed: %d (%s)  Δ %s",
			m.snapshot.Score.Value, scoreLabel, delta)))
	} else {
		sb.WriteString(metricStyle.Render(fmt.Sprintf("Crypto Fear & Greed: n/a (%s)", scoreLabel)))
	}
	sb.WriteString("\n")

	if !price.Empty() {
		sb.WriteString(faintStyle.Render("Bitcoin Price Trend"))
		sb.WriteString("\n")
		sb.WriteString(chartStyle.Render(renderChart(price, chartOptions{
			Width:   m.chartWidth(),
			Height:  m.chartHeight(),
			FormatY: func(v float64) string { return format.Thousands(v) },
		})))
		sb.WriteString("\n")
	}

	fg := m.snapshot.SeriesFor(domain.KindFearGreed)
	if fg.Empty() {
		sb.WriteString(warnStyle.Render("⚠ Could not load Fear & Greed data."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(faintStyle.Render("Crypto Fear & Greed Index"))
		sb.WriteString("\n")
		sb.WriteString(chartStyle.Render(renderChart(fg, chartOptions{
			Width:       m.chartWidth(),
			Height:      m.chartHeight(),
			YMin:        0,
			YMax:        100,
			FixedBounds: true,
		})))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m Model) renderMarketSection() string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("── Market ──"))
	sb.WriteString("\n")

	equity := m.snapshot.SeriesFor(domain.KindEquity)
	if latest, ok := equity.Latest(); ok {
		sb.WriteString(metricStyle.Render(fmt.Sprintf("MSCI World Proxy (VEA): %.2f", latest.Value)))
		sb.WriteString("\n")
	}

	vix := m.snapshot.SeriesFor(domain.KindVolatility)
	if latest, ok := vix.Latest(); ok {
		eval := sentiment.Describe[sentiment.Label(m.snapshot.VolLabel)]
		sb.WriteString(metricStyle.Render(fmt.Sprintf("VIX Index: %.2f (%s)", latest.Value, eval)))
		sb.WriteString("\n")
	}

	if !equity.Empty() {
		sb.WriteString(faintStyle.Render("MSCI World Proxy (VEA) Trend"))
		sb.WriteString("\n")
		sb.WriteString(chartStyle.Render(renderChart(equity, chartOptions{
			Width:  m.chartWidth(),
			Height: m.chartHeight(),
		})))
		sb.WriteString("\n")
	}

	if !vix.Empty() {
		sb.WriteString(faintStyle.Render("VIX Index Trend"))
		sb.WriteString("\n")
		sb.WriteString(chartStyle.Render(renderChart(vix, chartOptions{
			Width:  m.chartWidth(),
			Height: m.chartHeight(),
		})))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m Model) chartWidth() int {
	if m.width <= 0 {
		return 60
	}
	w := m.width - 14
	if w < 20 {
		w = 20
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) chartHeight() int {
	if m.height <= 0 {
		return 6
	}
	h := (m.height - 16) / 4
	if h < 4 {
		h = 4
	}
	if h > 10 {
		h = 10
	}
	return h
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	var lines []string
	var line string
	for _, w := range words {
		if line == "" {
			line = w
		} else if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
