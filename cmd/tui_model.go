package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/techjojo/catalogue/internal/api"
	"github.com/techjojo/catalogue/internal/browse"
	"github.com/techjojo/catalogue/internal/catalog"
	"github.com/techjojo/catalogue/internal/contact"
	"github.com/techjojo/catalogue/internal/display"
	"github.com/techjojo/catalogue/internal/filter"
	"github.com/techjojo/catalogue/internal/loader"
	"github.com/techjojo/catalogue/internal/pagination"
	"go.uber.org/zap"
)

const (
	minTUIWidth  = 92
	minTUIHeight = 24
)

var (
	tuiHeaderStyle  lipgloss.Style
	tuiMetaStyle    lipgloss.Style
	tuiHintStyle    lipgloss.Style
	tuiValueStyle   lipgloss.Style
	tuiNameStyle    lipgloss.Style
	tuiMutedStyle   lipgloss.Style
	tuiSectionStyle lipgloss.Style
	tuiErrorStyle   lipgloss.Style
	tuiFocusColor   lipgloss.Color
	tuiBorderColor  lipgloss.Color
)

func applyTUITheme(t display.Theme) {
	tuiHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	tuiMetaStyle = lipgloss.NewStyle().Foreground(t.Muted)
	tuiHintStyle = lipgloss.NewStyle().Foreground(t.Muted).Faint(true)
	tuiValueStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Price)
	tuiNameStyle = lipgloss.NewStyle().Bold(true)
	tuiMutedStyle = lipgloss.NewStyle().Foreground(t.Muted)
	tuiSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	tuiErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	tuiFocusColor = t.Accent
	tuiBorderColor = t.Border
}

// tuiLoadedMsg carries a finished load. token identifies the request so that
// results for a category the user has already left are dropped.
type tuiLoadedMsg struct {
	token   uint64
	slug    string
	state   loader.State
	current bool
}

type tuiFocus int

const (
	tuiFocusList tuiFocus = iota
	tuiFocusDetail
)

type tuiProductItem struct {
	product     catalog.Product
	title       string
	description string
	filterValue string
}

func (p tuiProductItem) FilterValue() string { return p.filterValue }
func (p tuiProductItem) Title() string       { return p.title }
func (p tuiProductItem) Description() string { return p.description }

// tuiFeed holds the loader for the category on screen. It is shared by every
// copy of the model so the program can close it on exit.
type tuiFeed struct {
	loader *loader.Loader
}

type catalogueTUIModel struct {
	ctx  context.Context
	app  *app
	feed *tuiFeed

	sources     []source
	sourceIndex int
	initialSlug string

	loading   bool
	loadToken uint64
	loadErr   string
	spinner   spinner.Model
	fatalErr  error

	session *browse.Session

	controlIndex int

	search    textinput.Model
	searching bool

	list   list.Model
	detail viewport.Model

	focus      tuiFocus
	showHelp   bool
	selectedID string

	width, height   int
	bodyHeight      int
	listPaneWidth   int
	detailPaneWidth int
	tooSmall        bool
}

func newCatalogueTUIModel(ctx context.Context, a *app, sources []source, initial source) catalogueTUIModel {
	applyTUITheme(display.CurrentTheme())

	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(1)

	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "Products"
	lst.SetStatusBarItemName("product", "products")
	lst.SetShowStatusBar(false)
	lst.SetFilteringEnabled(false)
	lst.SetShowHelp(false)
	lst.SetShowPagination(false)
	lst.DisableQuitKeybindings()

	detail := viewport.New(0, 0)
	detail.KeyMap.PageDown.SetKeys("pgdown")
	detail.KeyMap.PageUp.SetKeys("pgup")
	detail.KeyMap.HalfPageDown.SetKeys("d")
	detail.KeyMap.HalfPageUp.SetKeys("u")

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(display.CurrentTheme().Accent)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search name, brand, specs..."
	search.CharLimit = 120

	index := 0
	for i, src := range sources {
		if src.Slug == initial.Slug {
			index = i
			break
		}
	}

	m := catalogueTUIModel{
		ctx:         ctx,
		app:         a,
		feed:        &tuiFeed{},
		sources:     sources,
		sourceIndex: index,
		initialSlug: initial.Slug,
		loading:     true,
		spinner:     spin,
		search:      search,
		list:        lst,
		detail:      detail,
		focus:       tuiFocusList,
	}
	m.feed.loader = m.newLoader(m.currentSource())
	return m
}

func (m catalogueTUIModel) newLoader(src source) *loader.Loader {
	return loader.New(api.NewClient(), src.Fallback, m.app.logger.With(zap.String("category", src.Slug)))
}

func (m catalogueTUIModel) close() {
	if m.feed != nil && m.feed.loader != nil {
		m.feed.loader.Close()
	}
}

func (m catalogueTUIModel) currentSource() source {
	return m.sources[m.sourceIndex]
}

func (m catalogueTUIModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(m.loadToken))
}

func (m catalogueTUIModel) loadCmd(token uint64) tea.Cmd {
	l := m.feed.loader
	src := m.currentSource()
	ctx := m.ctx
	return func() tea.Msg {
		state, current := l.Load(ctx, src.URL)
		return tuiLoadedMsg{token: token, slug: src.Slug, state: state, current: current}
	}
}

// startLoad fetches the current source again. The previous rows stay on
// screen until the new ones arrive.
func (m *catalogueTUIModel) startLoad() tea.Cmd {
	m.loadToken++
	m.loading = true
	m.loadErr = ""
	return tea.Batch(m.spinner.Tick, m.loadCmd(m.loadToken))
}

// switchSource moves delta categories along and loads the new one with a
// fresh query state.
func (m *catalogueTUIModel) switchSource(delta int) tea.Cmd {
	if len(m.sources) < 2 {
		return nil
	}
	m.sourceIndex = (m.sourceIndex + delta + len(m.sources)) % len(m.sources)
	m.feed.loader.Close()
	m.feed.loader = m.newLoader(m.currentSource())
	m.session = nil
	m.controlIndex = 0
	m.list.SetItems(nil)
	m.refreshDetail(true)
	return m.startLoad()
}

func (m catalogueTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tuiLoadedMsg:
		if msg.token != m.loadToken || !msg.current {
			return m, nil
		}
		m.loading = false
		m.applyLoad(msg)
		if m.fatalErr != nil {
			return m, tea.Quit
		}
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m, nil
	}
	key := keyMsg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.searching {
		return m.updateSearch(keyMsg)
	}

	if m.session == nil {
		switch key {
		case "q":
			return m, tea.Quit
		case "r":
			if !m.loading {
				return m, m.startLoad()
			}
		case "]", "c":
			return m, m.switchSource(1)
		case "[":
			return m, m.switchSource(-1)
		}
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.focus == tuiFocusList {
			m.focus = tuiFocusDetail
		} else {
			m.focus = tuiFocusList
		}
		return m, nil
	case "esc":
		if m.focus == tuiFocusDetail {
			m.focus = tuiFocusList
		}
		return m, nil
	case "?":
		m.showHelp = !m.showHelp
		m.resize()
		return m, nil
	case "/":
		m.searching = true
		m.search.SetValue(m.session.Query())
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "n", "right":
		m.session.Next()
		m.refreshList(true)
		return m, nil
	case "p", "left":
		m.session.Prev()
		m.refreshList(true)
		return m, nil
	case "f":
		m.cycleControl()
		return m, nil
	case "v":
		m.cycleControlValue()
		return m, nil
	case "$":
		m.cyclePriceRange()
		return m, nil
	case "s":
		m.cycleSortMode()
		return m, nil
	case "x":
		m.session.ClearFilters()
		m.refreshList(true)
		return m, m.list.NewStatusMessage("Filters cleared.")
	case "r":
		return m, m.startLoad()
	case "]", "c":
		return m, m.switchSource(1)
	case "[":
		return m, m.switchSource(-1)
	}

	if m.focus == tuiFocusDetail {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.refreshDetail(false)
	return m, cmd
}

func (m catalogueTUIModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		if m.session != nil {
			m.session.SetQuery(strings.TrimSpace(m.search.Value()))
			m.refreshList(true)
		}
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// applyLoad installs a finished load. A failure keeps whatever is on screen;
// a failure with nothing to show ends the program.
func (m *catalogueTUIModel) applyLoad(msg tuiLoadedMsg) {
	src := m.currentSource()
	if msg.state.Err != "" {
		m.loadErr = msg.state.Err
		if m.session == nil && len(msg.state.Rows) == 0 {
			if len(m.sources) > 1 {
				m.refreshDetail(true)
				return
			}
			m.fatalErr = loadFailure(msg.state)
		}
		return
	}
	m.loadErr = ""

	table := catalog.Table{Headers: msg.state.Headers, Rows: msg.state.Rows}
	if m.session != nil {
		m.session.SetTable(table)
		m.refreshList(false)
		return
	}

	if msg.slug == m.initialSlug {
		session, err := newSession(src, table)
		if err != nil {
			m.fatalErr = err
			return
		}
		m.session = session
	} else {
		m.session = browse.NewSession(src.PageSize, browse.WithFilterKeys(src.Keys), browse.WithLimit(flagLimit))
		m.session.SetTable(table)
	}
	m.refreshList(true)
}

func (m catalogueTUIModel) View() string {
	if m.width == 0 || m.height == 0 {
		if m.loading {
			return m.loadingView()
		}
		return tuiMetaStyle.Render("Loading interface...")
	}
	if m.tooSmall {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(
				fmt.Sprintf(
					"Terminal too small (%dx%d).\nResize to at least %dx%d for the two-pane catalogue.",
					m.width, m.height, minTUIWidth, minTUIHeight,
				),
			)
	}
	if m.session == nil {
		if m.loading {
			return m.loadingView()
		}
		return m.failedView()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		m.bodyView(),
		m.footerView(),
	)
}

func (m catalogueTUIModel) loadingView() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	src := m.currentSource()
	skeletonStyle := lipgloss.NewStyle().Foreground(tuiBorderColor)

	lines := []string{
		tuiHeaderStyle.Render("techjojo tui"),
		tuiMetaStyle.Render(src.Title),
		"",
		fmt.Sprintf("%s Fetching products...", m.spinner.View()),
		tuiHintStyle.Render("Tip: press q to cancel, [ or ] to pick another category."),
		"",
		skeletonStyle.Render("┌──────────────────────────────┬─────────────────────────────────────────┐"),
		skeletonStyle.Render("│  Loading product list...     │  Loading detail panel...               │"),
		skeletonStyle.Render("│  • filters from columns      │  • price and specs                     │"),
		skeletonStyle.Render("│  • price ranges              │  • WhatsApp order link                 │"),
		skeletonStyle.Render("└──────────────────────────────┴─────────────────────────────────────────┘"),
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (m catalogueTUIModel) failedView() string {
	lines := []string{
		tuiHeaderStyle.Render("techjojo tui  |  " + m.currentSource().Title),
		"",
		tuiErrorStyle.Render(wrapText(m.loadErr, maxInt(40, m.width-6))),
		"",
		tuiHintStyle.Render("r retry • [ / ] another category • q quit"),
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func (m *catalogueTUIModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}

	m.tooSmall = m.width < minTUIWidth || m.height < minTUIHeight
	if m.tooSmall {
		return
	}

	headerH := 4
	footerH := 2
	if m.showHelp {
		footerH = 7
	}
	m.bodyHeight = maxInt(8, m.height-headerH-footerH-1)

	listWidth := maxInt(40, int(float64(m.width)*0.43))
	if listWidth > m.width-42 {
		listWidth = m.width / 2
	}
	detailWidth := m.width - listWidth - 1
	if detailWidth < 36 {
		detailWidth = 36
		listWidth = m.width - detailWidth - 1
	}

	m.listPaneWidth = listWidth
	m.detailPaneWidth = detailWidth

	listInnerWidth := maxInt(24, listWidth-4)
	detailInnerWidth := maxInt(24, detailWidth-4)
	panelInnerHeight := maxInt(6, m.bodyHeight-2)

	m.list.SetSize(listInnerWidth, panelInnerHeight)
	m.search.Width = maxInt(20, m.width-8)
	m.detail.Width = detailInnerWidth
	m.detail.Height = panelInnerHeight
	m.refreshDetail(false)
}

func (m catalogueTUIModel) headerView() string {
	view := m.session.View()

	focus := "list"
	if m.focus == tuiFocusDetail {
		focus = "detail"
	}

	top := fmt.Sprintf("techjojo tui  |  %s", m.currentSource().Title)
	if m.loading {
		top += "  " + m.spinner.View()
	}
	meta := fmt.Sprintf("%s  |  filters: %s  |  focus: %s", view.Summary, m.activeFilterSummary(), focus)

	third := m.controlLine(view)
	if m.searching {
		third = m.search.View()
	} else if m.loadErr != "" {
		third = tuiErrorStyle.Render(m.loadErr)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(tuiHeaderStyle.Render(top) + "\n" + tuiMetaStyle.Render(meta) + "\n" + third)
}

func (m catalogueTUIModel) controlLine(view browse.View) string {
	if len(view.Controls) == 0 {
		return tuiHintStyle.Render("No column has two or more values to filter on.")
	}
	c := view.Controls[m.controlIndex%len(view.Controls)]
	value := filter.SafeValue(m.session.Filters(), m.session.Facets(), c.Header)
	if value == "" {
		value = "any"
	}
	return tuiMetaStyle.Render(fmt.Sprintf("filter %d/%d: ", m.controlIndex%len(view.Controls)+1, len(view.Controls))) +
		tuiSectionStyle.Render(c.Label) + " = " + tuiValueStyle.Render(value) +
		tuiHintStyle.Render("   (f next filter • v next value)")
}

func (m catalogueTUIModel) bodyView() string {
	listBorder := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuiBorderColor).
		Padding(0, 1)
	detailBorder := listBorder

	if m.focus == tuiFocusList {
		listBorder = listBorder.BorderForeground(tuiFocusColor)
	} else {
		detailBorder = detailBorder.BorderForeground(tuiFocusColor)
	}

	left := listBorder.
		Width(m.listPaneWidth).
		Height(m.bodyHeight).
		Render(m.list.View())
	right := detailBorder.
		Width(m.detailPaneWidth).
		Height(m.bodyHeight).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m catalogueTUIModel) footerView() string {
	keys := []string{"Tab switch pane", "/ search", "f/v filter", "$ price", "s sort"}
	if m.session != nil {
		keys = append(keys, pageKeys(m.session.View().Page)...)
	}
	keys = append(keys, "x clear", "[/] category", "r reload", "? help", "q quit")
	base := strings.Join(keys, " • ")
	if m.focus == tuiFocusDetail {
		base = "Detail: j/k or ↑/↓ scroll • u/d half-page • pgup/pgdown page • esc list • ? help • q quit"
	}

	if !m.showHelp {
		return lipgloss.NewStyle().Padding(0, 1).Render(tuiHintStyle.Render(base))
	}

	lines := []string{
		"Key Help",
		"list pane: ↑/↓ or j/k move • / search every column • enter apply • esc cancel",
		"filters: f next filter • v cycle its value • $ cycle price range • s sort • x clear all",
		"pages: n/→ next page • p/← previous page • [ and ] switch category • r reload the sheet",
		"global: tab switch pane • esc list • ? toggle help • q quit • ctrl+c force quit",
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(tuiHintStyle.Render(strings.Join(lines, "\n")))
}

// pageKeys lists the paging keys that lead somewhere from page.
func pageKeys(page pagination.Page) []string {
	switch {
	case page.HasPrev() && page.HasNext():
		return []string{"n/p page"}
	case page.HasNext():
		return []string{"n next page"}
	case page.HasPrev():
		return []string{"p previous page"}
	}
	return nil
}

func (m *catalogueTUIModel) cycleControl() {
	controls := m.session.View().Controls
	if len(controls) == 0 {
		return
	}
	m.controlIndex = (m.controlIndex + 1) % len(controls)
}

func (m *catalogueTUIModel) cycleControlValue() {
	controls := m.session.View().Controls
	if len(controls) == 0 {
		return
	}
	c := controls[m.controlIndex%len(controls)]
	current := filter.SafeValue(m.session.Filters(), m.session.Facets(), c.Header)
	m.session.SetFilter(c.Header, nextChoice(append([]string{""}, c.Options...), current))
	m.refreshList(true)
}

func (m *catalogueTUIModel) cyclePriceRange() {
	buckets := m.session.Buckets()
	if len(buckets) == 0 {
		return
	}
	choices := make([]string, 0, len(buckets)+1)
	choices = append(choices, "")
	for _, b := range buckets {
		choices = append(choices, b.Label)
	}
	m.session.SetFilter(filter.PriceRangeKey, nextChoice(choices, m.session.Filter(filter.PriceRangeKey)))
	m.refreshList(true)
}

func (m *catalogueTUIModel) cycleSortMode() {
	m.session.SetSort(nextChoice(filter.SortModes, m.session.Sort()))
	m.refreshList(true)
}

// nextChoice returns the choice after current, wrapping around. An unknown
// current value starts the cycle over.
func nextChoice(choices []string, current string) string {
	if len(choices) == 0 {
		return ""
	}
	i := indexOfStringFold(choices, current)
	return choices[(i+1)%len(choices)]
}

func (m catalogueTUIModel) activeFilterSummary() string {
	parts := []string{}
	if q := strings.TrimSpace(m.session.Query()); q != "" {
		parts = append(parts, "query:"+q)
	}
	filters := m.session.Filters()
	for _, h := range m.session.Dataset().Headers {
		if v := filter.SafeValue(filters, m.session.Facets(), h); v != "" {
			parts = append(parts, strings.ToLower(h)+":"+v)
		}
	}
	if v := filters[filter.PriceRangeKey]; v != "" {
		parts = append(parts, "price:"+v)
	}
	if mode := m.session.Sort(); mode != filter.SortSource {
		parts = append(parts, "sort:"+mode)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func (m *catalogueTUIModel) refreshList(resetSelection bool) {
	view := m.session.View()
	items := buildProductListItems(view.Items, m.session.Dataset().Headers, m.app.money)

	m.list.Title = fmt.Sprintf("Page %d/%d • %d match", view.Page.Number, view.Page.Pages, view.Matched)
	m.list.SetItems(items)

	target := -1
	if !resetSelection && m.selectedID != "" {
		target = findItemIndexByID(items, m.selectedID)
	}
	if target < 0 && len(items) > 0 {
		target = 0
	}
	if target >= 0 {
		m.list.Select(target)
	}

	m.refreshDetail(resetSelection)
}

func (m *catalogueTUIModel) refreshDetail(resetScroll bool) {
	var content string
	nextID := ""

	if selected, ok := m.list.SelectedItem().(tuiProductItem); ok && m.session != nil {
		content = renderProductDetail(
			selected.product,
			m.session.Dataset().Headers,
			m.app.money,
			m.app.cfg.Store.WhatsApp,
			m.detail.Width,
		)
		nextID = selected.product.ID
	}
	if content == "" {
		content = "No products match. Try clearing filters or searching for something else.\n\nPress x to clear filters."
		if phone := m.app.cfg.Store.WhatsApp; contact.DigitsOnly(phone) != "" {
			content += "\n\nAsk the seller: " + contact.ChatLink(phone)
		}
	}

	if resetScroll || nextID != m.selectedID {
		m.detail.GotoTop()
	}
	m.selectedID = nextID
	m.detail.SetContent(content)
}

func buildProductListItems(products []catalog.Product, headers []string, money *display.CurrencyFormatter) []list.Item {
	priceHeader, hasPrice := filter.FindPriceHeader(headers)

	items := make([]list.Item, 0, len(products))
	for _, p := range products {
		descParts := []string{}
		if hasPrice {
			descParts = append(descParts, money.PriceText(p.Cell(priceHeader)))
		} else {
			descParts = append(descParts, display.ContactForPrice)
		}
		if p.Brand != "" && p.Brand != catalog.Sentinel {
			descParts = append(descParts, p.Brand)
		}

		items = append(items, tuiProductItem{
			product:     p,
			title:       productTitle(p),
			description: strings.Join(descParts, "  •  "),
			filterValue: filter.Haystack(headers, p),
		})
	}
	return items
}

func productTitle(p catalog.Product) string {
	if name := strings.TrimSpace(p.Name); name != "" && name != catalog.Sentinel {
		return name
	}
	return "Untitled product"
}

func renderProductDetail(p catalog.Product, headers []string, money *display.CurrencyFormatter, whatsapp string, width int) string {
	maxWidth := maxInt(24, width)

	lines := []string{
		tuiNameStyle.Render(wrapText(productTitle(p), maxWidth)),
	}
	if p.Brand != "" && p.Brand != catalog.Sentinel {
		lines = append(lines, tuiMetaStyle.Render(p.Brand))
	}

	price := display.ContactForPrice
	if header, ok := filter.FindPriceHeader(headers); ok {
		price = money.PriceText(p.Cell(header))
	}
	lines = append(lines, "", fmt.Sprintf("%s %s", tuiMetaStyle.Render("Price:"), tuiValueStyle.Render(price)))

	if specs := display.SpecLines(p, headers); len(specs) > 0 {
		lines = append(lines, "", tuiSectionStyle.Render("Specs"))
		for _, s := range specs {
			lines = append(lines, wrapText(fmt.Sprintf("%s %s: %s", s.Icon, s.Label, s.Text), maxWidth))
		}
	}

	lines = append(lines, "", tuiSectionStyle.Render("All fields"))
	for _, h := range headers {
		if filter.Skipped(h) {
			continue
		}
		value := p.Cell(h).String()
		if value == "" {
			value = catalog.Sentinel
		}
		lines = append(lines, fmt.Sprintf("%s %s", tuiMetaStyle.Render(humanizeLabel(h)+":"), wrapText(value, maxWidth)))
	}

	if contact.DigitsOnly(whatsapp) != "" {
		lines = append(lines, "", tuiMutedStyle.Render("Order on WhatsApp:"))
		lines = append(lines, tuiMutedStyle.Render(wrapLong(contact.WhatsAppLink(whatsapp, p, headers, money.Format), maxWidth)))
	}
	if img := strings.TrimSpace(p.Image); img != "" && img != catalog.Sentinel {
		lines = append(lines, "", tuiMutedStyle.Render("Image URL:"))
		lines = append(lines, tuiMutedStyle.Render(wrapLong(img, maxWidth)))
	}

	return strings.Join(lines, "\n")
}

func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if width < 12 {
		width = 12
	}

	line := words[0]
	lines := make([]string, 0, len(words)/6+1)
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// wrapLong hard-wraps text without spaces, such as URLs.
func wrapLong(text string, width int) string {
	if width < 12 {
		width = 12
	}
	var lines []string
	for len(text) > width {
		lines = append(lines, text[:width])
		text = text[width:]
	}
	lines = append(lines, text)
	return strings.Join(lines, "\n")
}

func indexOfStringFold(values []string, target string) int {
	for i, value := range values {
		if strings.EqualFold(value, target) {
			return i
		}
	}
	return -1
}

func findItemIndexByID(items []list.Item, id string) int {
	for i, item := range items {
		if p, ok := item.(tuiProductItem); ok && p.product.ID == id {
			return i
		}
	}
	return -1
}

func humanizeLabel(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "Other"
	}
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		if len(word) == 0 {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
