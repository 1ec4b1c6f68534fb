package cmd

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techjojo/catalogue/internal/catalog"
	"github.com/techjojo/catalogue/internal/config"
	"github.com/techjojo/catalogue/internal/display"
	"github.com/techjojo/catalogue/internal/filter"
	"github.com/techjojo/catalogue/internal/loader"
	"go.uber.org/zap"
)

func testTUIModel(t *testing.T) catalogueTUIModel {
	t.Helper()
	resetCLIState()

	cfg, err := config.Default()
	require.NoError(t, err)
	a := &app{
		cfg:    cfg,
		logger: zap.NewNop(),
		money:  display.NewCurrencyFormatter("NGN", "not a locale!!"),
	}
	cat, err := cfg.Category("tablets")
	require.NoError(t, err)
	src := sourceFor(cat)

	m := newCatalogueTUIModel(context.Background(), a, []source{src}, src)
	t.Cleanup(m.close)
	return m
}

func loadedTablets(m catalogueTUIModel) tuiLoadedMsg {
	fallback := m.currentSource().Fallback
	return tuiLoadedMsg{
		token:   m.loadToken,
		slug:    "tablets",
		state:   loader.State{Headers: fallback.Headers, Rows: fallback.Rows},
		current: true,
	}
}

func press(t *testing.T, m catalogueTUIModel, keys ...string) catalogueTUIModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(catalogueTUIModel)
	}
	return m
}

func ready(t *testing.T) catalogueTUIModel {
	t.Helper()
	m := testTUIModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(catalogueTUIModel)
	next, _ = m.Update(loadedTablets(m))
	m = next.(catalogueTUIModel)
	require.NotNil(t, m.session)
	return m
}

func TestTUIModel_LoadsAndRendersProducts(t *testing.T) {
	m := ready(t)

	assert.False(t, m.loading)
	assert.Len(t, m.list.Items(), 3)
	assert.Contains(t, m.View(), "techjojo tui  |  Tablets")
	assert.Contains(t, m.detail.View(), "iPad 9th Gen")
}

func TestTUIModel_DropsStaleLoads(t *testing.T) {
	m := testTUIModel(t)
	msg := loadedTablets(m)
	msg.token = m.loadToken + 1

	next, _ := m.Update(msg)
	m = next.(catalogueTUIModel)

	assert.True(t, m.loading)
	assert.Nil(t, m.session)
}

func TestTUIModel_SearchAppliesQuery(t *testing.T) {
	m := ready(t)

	m = press(t, m, "/")
	assert.True(t, m.searching)
	m = press(t, m, "g", "a", "l", "a", "x", "y", "enter")

	assert.False(t, m.searching)
	assert.Equal(t, "galaxy", m.session.Query())
	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, "Galaxy Tab S6 Lite", m.list.Items()[0].(tuiProductItem).title)

	m = press(t, m, "x")
	assert.Equal(t, "", m.session.Query())
	assert.Len(t, m.list.Items(), 3)
}

func TestTUIModel_CyclesFilterValues(t *testing.T) {
	m := ready(t)
	controls := m.session.View().Controls
	require.NotEmpty(t, controls)

	m = press(t, m, "v")
	first := controls[0]
	assert.Equal(t, first.Options[0], m.session.Filter(first.Header))
	assert.Less(t, len(m.list.Items()), 3)

	for range first.Options {
		m = press(t, m, "v")
	}
	assert.Equal(t, "", m.session.Filter(first.Header))
	assert.Len(t, m.list.Items(), 3)
}

func TestTUIModel_CyclesPriceAndSort(t *testing.T) {
	m := ready(t)

	m = press(t, m, "$")
	assert.NotEmpty(t, m.session.Filter(filter.PriceRangeKey))

	m = press(t, m, "s")
	assert.Equal(t, filter.SortPrice, m.session.Sort())
	m = press(t, m, "s", "s", "s")
	assert.Equal(t, filter.SortSource, m.session.Sort())
}

func TestTUIModel_FocusAndHelp(t *testing.T) {
	m := ready(t)

	m = press(t, m, "tab")
	assert.Equal(t, tuiFocusDetail, m.focus)
	m = press(t, m, "esc")
	assert.Equal(t, tuiFocusList, m.focus)

	m = press(t, m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Key Help")
}

func TestTUIModel_TooSmall(t *testing.T) {
	m := ready(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = next.(catalogueTUIModel)

	assert.Contains(t, m.View(), "Terminal too small")
}

func TestTUIModel_LoadFailureWithoutRowsQuits(t *testing.T) {
	m := testTUIModel(t)
	msg := tuiLoadedMsg{
		token:   m.loadToken,
		slug:    "tablets",
		state:   loader.State{Err: "loading products: unexpected status 500"},
		current: true,
	}

	next, cmd := m.Update(msg)
	m = next.(catalogueTUIModel)

	require.NotNil(t, cmd)
	require.Error(t, m.fatalErr)
	assert.Equal(t, ExitUpstream, classifyCLIError(m.fatalErr).ExitCode)
}

func TestTUIModel_PagingResetsSelectionAndScroll(t *testing.T) {
	m := testTUIModel(t)
	flagPageSize = 2
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(catalogueTUIModel)
	next, _ = m.Update(loadedTablets(m))
	m = next.(catalogueTUIModel)
	require.Equal(t, 2, m.session.View().Page.Pages)
	assert.Contains(t, m.footerView(), "n next page")

	m = press(t, m, "j")
	require.Equal(t, 1, m.list.Index())
	m.detail.Height = 3
	m.detail.SetYOffset(2)
	require.Equal(t, 2, m.detail.YOffset)

	m = press(t, m, "n")

	assert.Equal(t, 2, m.session.Page())
	assert.Contains(t, m.list.Title, "Page 2/2")
	assert.Equal(t, 0, m.list.Index())
	assert.Equal(t, 0, m.detail.YOffset)
	assert.Contains(t, m.footerView(), "p previous page")

	m.detail.SetYOffset(2)
	require.Equal(t, 2, m.detail.YOffset)

	m = press(t, m, "p")

	assert.Equal(t, 1, m.session.Page())
	assert.Equal(t, 0, m.list.Index())
	assert.Equal(t, 0, m.detail.YOffset)
}

func TestTUIModel_EmptyResultOffersSellerChat(t *testing.T) {
	m := ready(t)

	m = press(t, m, "/", "z", "z", "z", "enter")

	require.Empty(t, m.list.Items())
	assert.Contains(t, m.detail.View(), "Ask the seller: https://wa.me/")
	assert.NotContains(t, m.footerView(), "n/p page")
}

func TestNextChoice(t *testing.T) {
	choices := []string{"", "8GB", "16GB"}

	assert.Equal(t, "8GB", nextChoice(choices, ""))
	assert.Equal(t, "16GB", nextChoice(choices, "8gb"))
	assert.Equal(t, "", nextChoice(choices, "16GB"))
	assert.Equal(t, "", nextChoice(choices, "64GB"))
	assert.Equal(t, "", nextChoice(nil, "x"))
}

func TestRenderProductDetail(t *testing.T) {
	headers := []string{"id", "name", "brand", "price", "ram", "image"}
	ds := catalog.Normalize(headers, []catalog.RawRow{{
		"id":    catalog.Text("sku-1"),
		"name":  catalog.Text("Latitude 5420"),
		"brand": catalog.Text("Dell"),
		"price": catalog.Number(250000),
		"ram":   catalog.Text("16GB"),
		"image": catalog.Text("https://example.com/latitude.jpg"),
	}}, nil)
	require.Len(t, ds.Products, 1)
	money := display.NewCurrencyFormatter("NGN", "not a locale!!")

	out := renderProductDetail(ds.Products[0], headers, money, "+234 805 471 7837", 60)

	assert.Contains(t, out, "Latitude 5420")
	assert.Contains(t, out, "₦250,000")
	assert.Contains(t, out, "Ram:")
	assert.Contains(t, out, "https://example.com/latitude.jpg")
	assert.Contains(t, strings.ReplaceAll(out, "\n", ""), "https://wa.me/2348054717837?text=")
	assert.NotContains(t, out, "Id:")
}

func TestBuildProductListItems_ContactForPriceWithoutPriceColumn(t *testing.T) {
	headers := []string{"name", "brand"}
	ds := catalog.Normalize(headers, []catalog.RawRow{{
		"name":  catalog.Text("Mystery box"),
		"brand": catalog.Text(catalog.Sentinel),
	}}, nil)

	items := buildProductListItems(ds.Products, headers, nil)

	require.Len(t, items, 1)
	item := items[0].(tuiProductItem)
	assert.Equal(t, "Mystery box", item.Title())
	assert.Equal(t, display.ContactForPrice, item.Description())
}

func TestHumanizeLabel(t *testing.T) {
	assert.Equal(t, "Refresh Ra", humanizeLabel("refresh_ra"))
	assert.Equal(t, "Screen Size", humanizeLabel("SCREEN-size"))
	assert.Equal(t, "Other", humanizeLabel("  "))
}
