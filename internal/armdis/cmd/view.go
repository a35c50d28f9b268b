package cmd

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	pathpkg "path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"armdis/internal/analysis"
	"armdis/internal/armdis/styles"
	"armdis/internal/crosscheck"
	"armdis/internal/disasm"
	"armdis/internal/ui/colorize"
)

type viewMode int

const (
	viewListing viewMode = iota
	viewSymbols
	viewInfo
)

type symbolItem struct {
	addr      uint32
	name      string
	demangled string
	thumb     bool
}

func (i symbolItem) Title() string       { return fmt.Sprintf("%08x  %s", i.addr, i.demangled) }
func (i symbolItem) Description() string { return i.name }
func (i symbolItem) FilterValue() string { return fmt.Sprintf("%x %s", i.addr, i.demangled) }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(symbolItem)
	if !ok {
		return
	}

	indicator := " "
	addrStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	if index == m.Index() {
		indicator = ">"
		addrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	}
	set := "A"
	if i.thumb {
		set = "T"
	}
	fmt.Fprintf(w, " %s  %s  %s  %s", indicator, addrStyle.Render(fmt.Sprintf("%08x", i.addr)), set, i.demangled)
}

// Message types
type digestMsg struct {
	digest string
}

type listingMsg struct {
	listing *listing
	report  crosscheck.Report
	err     error
}

type model struct {
	listingView viewport.Model
	symbolsList list.Model
	infoView    viewport.Model
	spinner     spinner.Model
	mode        viewMode
	path        string
	opts        dumpOptions
	digest      string
	loading     bool
	loadErr     error
	listing     *listing
	report      crosscheck.Report
	current     string // symbol shown in the listing, "" for the whole range
	width       int
	height      int
}

// NewModel returns the viewer for path.
func NewModel(path string, opts dumpOptions) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	symbolsList := list.New([]list.Item{}, itemDelegate{}, 80, 24)
	symbolsList.SetShowStatusBar(false)
	symbolsList.SetFilteringEnabled(true)
	symbolsList.Title = "Functions"
	symbolsList.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	info := viewport.New()
	info.SetWidth(80)
	info.SetHeight(24)

	return model{
		listingView: vp,
		symbolsList: symbolsList,
		infoView:    info,
		spinner:     s,
		mode:        viewListing,
		path:        path,
		opts:        opts,
		loading:     true,
		current:     opts.Symbol,
	}
}

func digestCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return digestMsg{digest: fmt.Sprintf("error: %v", err)}
		}
		defer f.Close()
		h := sha256.New()
		if _, err := io.Copy(h, f); err != nil {
			return digestMsg{digest: fmt.Sprintf("error: %v", err)}
		}
		return digestMsg{digest: fmt.Sprintf("%x", h.Sum(nil))}
	}
}

func loadListingCmd(path string, opts dumpOptions) tea.Cmd {
	return func() tea.Msg {
		l, err := buildListing(path, opts)
		if err != nil {
			return listingMsg{err: err}
		}
		return listingMsg{listing: l, report: crosscheck.Stream(l.stream)}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		digestCmd(m.path),
		loadListingCmd(m.path, m.opts),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case digestMsg:
		m.digest = msg.digest
		m.updateInfo()
		return m, nil

	case listingMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.listing = msg.listing
			m.report = msg.report
			m.updateSymbolsList()
			m.listingView.SetContent(m.listingText(m.listing.lines))
		} else {
			m.listingView.SetContent("error: " + msg.err.Error())
		}
		m.updateInfo()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loading {
			m.updateInfo()
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.listingView.SetWidth(msg.Width)
			m.listingView.SetHeight(msg.Height - 2)
			m.symbolsList.SetWidth(msg.Width)
			m.symbolsList.SetHeight(msg.Height - 2)
			m.infoView.SetWidth(msg.Width)
			m.infoView.SetHeight(msg.Height - 2)
			m.updateInfo()
		}

	case tea.KeyMsg:
		if m.mode == viewSymbols && m.symbolsList.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m.quit()
			}
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m.quit()
		case "l":
			m.mode = viewListing
			return m, nil
		case "s":
			if len(m.symbolsList.Items()) > 0 {
				m.mode = viewSymbols
			}
			return m, nil
		case "i":
			m.mode = viewInfo
			return m, nil
		case "enter":
			if m.mode == viewSymbols {
				if item, ok := m.symbolsList.SelectedItem().(symbolItem); ok {
					m.showSymbol(item)
				}
			}
			return m, nil
		case "tab":
			m.mode = m.nextMode(1)
			return m, nil
		case "shift+tab":
			m.mode = m.nextMode(-1)
			return m, nil
		}
	}

	switch m.mode {
	case viewSymbols:
		m.symbolsList, cmd = m.symbolsList.Update(msg)
	case viewInfo:
		m.infoView, cmd = m.infoView.Update(msg)
	default:
		m.listingView, cmd = m.listingView.Update(msg)
	}
	return m, cmd
}

func (m model) quit() (tea.Model, tea.Cmd) {
	if m.listing != nil {
		m.listing.Close()
	}
	return m, tea.Quit
}

// nextMode cycles through the views, skipping the symbol list when the
// input has no functions.
func (m model) nextMode(step int) viewMode {
	modes := []viewMode{viewListing, viewSymbols, viewInfo}
	if len(m.symbolsList.Items()) == 0 {
		modes = []viewMode{viewListing, viewInfo}
	}
	cur := 0
	for i, v := range modes {
		if v == m.mode {
			cur = i
		}
	}
	return modes[(cur+step+len(modes))%len(modes)]
}

func (m model) View() string {
	var content string
	switch m.mode {
	case viewSymbols:
		content = m.symbolsList.View()
	case viewInfo:
		content = m.infoView.View()
	default:
		content = m.listingView.View()
	}

	var menu string
	switch m.mode {
	case viewSymbols:
		menu = " Enter: disassemble • L: listing • I: info • Tab: cycle • Q: quit "
	case viewInfo:
		menu = " L: listing • S: symbols • Tab: cycle • Q: quit "
	default:
		where := m.current
		if where == "" {
			where = "all code"
		}
		menu = fmt.Sprintf(" %s • S: symbols • I: info • Tab: cycle • Q: quit ", where)
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}

func (m model) listingText(lines []analysis.AnnotatedInst) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	if colorize.Enabled() {
		out = colorize.ColorizeListing(out)
	}
	return strings.Join(out, "\n")
}

func (m *model) updateSymbolsList() {
	if m.listing == nil || m.listing.src.img == nil {
		return
	}
	funcs := m.listing.src.img.Functions()
	items := make([]list.Item, 0, len(funcs))
	for _, f := range funcs {
		items = append(items, symbolItem{
			addr:      f.Addr,
			name:      f.Name,
			demangled: analysis.CachedDemangle(f.Name),
			thumb:     f.Thumb,
		})
	}
	m.symbolsList.SetItems(items)
	m.symbolsList.Title = fmt.Sprintf("Functions (%d)", len(items))
}

// showSymbol disassembles one function into the listing view.
func (m *model) showSymbol(item symbolItem) {
	src := m.listing.src
	opts := sweepOptions{Symbol: item.name}
	if m.opts.Forced {
		opts.Mode, opts.Forced = m.opts.Mode, true
	}
	s, err := src.stream(opts)
	if err != nil {
		m.listingView.SetContent("error: " + err.Error())
		m.mode = viewListing
		return
	}
	a := &analysis.Annotator{Symbols: m.listing.syms, Mem: src.memory(), Lower: m.opts.Lower}
	m.listingView.SetContent(m.listingText(a.Annotate(s)))
	m.listingView.GotoTop()
	m.current = item.demangled
	m.mode = viewListing
}

// infoMarkdown summarises the loaded file.
func (m *model) infoMarkdown() string {
	relPath := m.path
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := pathpkg.Rel(cwd, m.path); err == nil {
			relPath = rel
		}
	}

	var lines []string
	lines = append(lines, "; "+relPath)
	if m.digest != "" {
		lines = append(lines, "; sha256 "+m.digest)
	}
	if m.listing != nil {
		lines = append(lines, "; "+m.listing.src.kind())
	}
	md := fmt.Sprintf("# armdis\n\n```\n%s\n```\n", strings.Join(lines, "\n"))

	switch {
	case m.loading:
		md += fmt.Sprintf("\n%s Decoding...\n", m.spinner.View())
	case m.loadErr != nil:
		md += fmt.Sprintf("\n> %v\n", m.loadErr)
	case m.listing != nil:
		st := m.listing.stream
		var arm, thumb, data int
		for i := range st {
			switch st[i].Mode {
			case disasm.ModeARM:
				arm++
			case disasm.ModeThumb:
				thumb++
			default:
				data++
			}
		}
		md += "\n## Code\n\n| | |\n|---|---|\n"
		md += fmt.Sprintf("| ARM instructions | %d |\n", arm)
		md += fmt.Sprintf("| Thumb instructions | %d |\n", thumb)
		md += fmt.Sprintf("| Data words | %d |\n", data)
		md += fmt.Sprintf("| Invalid | %d |\n", st.Invalid())
		md += fmt.Sprintf("| Symbols | %d |\n", m.listing.syms.Len())
		if img := m.listing.src.img; img != nil {
			md += fmt.Sprintf("| Mapping symbols | %d |\n", len(img.Mapping))
			md += fmt.Sprintf("| PLT stubs | %d |\n", len(img.PLTStubs))
		}
		if m.report.Checked > 0 {
			md += fmt.Sprintf("\n## armasm cross-check\n\n%.1f%% agreement over %d ARM words, %d mismatches.\n",
				m.report.Agreement()*100, m.report.Checked, len(m.report.Mismatches))
			for i, r := range m.report.Mismatches {
				if i == 10 {
					md += fmt.Sprintf("\n...and %d more\n", len(m.report.Mismatches)-10)
					break
				}
				md += fmt.Sprintf("\n- `%08x` `%s` vs `%s` (%s)", r.Addr, r.Ours, r.Theirs, r.Reason)
			}
			md += "\n"
		}
	}
	return md
}

func (m *model) updateInfo() {
	width := m.width
	if width == 0 {
		width = 80
	}
	m.infoView.SetContent(strings.TrimSuffix(styles.Render(m.infoMarkdown(), width-2), "\n"))
}
