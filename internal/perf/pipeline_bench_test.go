package perf_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/techjojo/catalogue/internal/api"
	"github.com/techjojo/catalogue/internal/browse"
	"github.com/techjojo/catalogue/internal/catalog"
	"github.com/techjojo/catalogue/internal/display"
	"github.com/techjojo/catalogue/internal/filter"
	"github.com/techjojo/catalogue/internal/loader"
)

func benchmarkCSV(count int) string {
	brands := []string{"Dell", "HP", "Lenovo", "Acer", "ASUS"}
	rams := []string{"8GB", "16GB", "32GB"}
	conditions := []string{"UK Used", "Brand New", "Open Box"}

	var b strings.Builder
	b.WriteString("id,Name,Brand,Price,RAM,Storage,Condition,Tags\n")
	for i := range count {
		fmt.Fprintf(&b, "sku-%d,\"Laptop %d, %s edition\",%s,%d,%s,%dGB SSD,%s,\"fast;light\"\n",
			i,
			i,
			brands[i%len(brands)],
			brands[i%len(brands)],
			100000+(i%9)*50000,
			rams[i%len(rams)],
			256<<(i%3),
			conditions[i%len(conditions)],
		)
	}
	return b.String()
}

func setupSheetServer(b *testing.B, rows int) *httptest.Server {
	b.Helper()

	body := benchmarkCSV(rows)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, body)
	}))
	b.Cleanup(server.Close)
	return server
}

func runPipeline(b *testing.B, l *loader.Loader, url string) {
	b.Helper()

	state, _ := l.Load(context.Background(), url)
	if state.Err != "" {
		b.Fatalf("load: %s", state.Err)
	}

	s := browse.NewSession(browse.DefaultPageSize)
	s.SetTable(catalog.Table{Headers: state.Headers, Rows: state.Rows})
	s.SetQuery("edition")
	s.SetFilter("RAM", "16gb")
	s.SetFilter(filter.PriceRangeKey, "200K–300K")
	s.SetSort(filter.SortPrice)

	view := s.View()
	if view.Matched == 0 {
		b.Fatalf("filter returned no products")
	}
	err := display.PrintListingJSON(io.Discard, display.Listing{
		Category: "Laptops",
		Headers:  s.Dataset().Headers,
		View:     view,
		Money:    display.NewCurrencyFormatter("NGN", "en-NG"),
		WhatsApp: "+234 805 471 7837",
	})
	if err != nil {
		b.Fatalf("print listing json: %v", err)
	}
}

func BenchmarkSheetPipeline_1kRows(b *testing.B) {
	server := setupSheetServer(b, 1000)
	l := loader.New(api.NewClient(), catalog.Table{}, nil)
	b.Cleanup(l.Close)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		runPipeline(b, l, server.URL)
	}
}

func BenchmarkQueryRecompute_5kProducts(b *testing.B) {
	table := catalog.ParseCSV(benchmarkCSV(5000))
	s := browse.NewSession(browse.DefaultPageSize)
	s.SetTable(table)
	queries := []string{"edition", "dell", "16gb", "open box", ""}

	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		s.SetQuery(queries[i%len(queries)])
		_ = s.View()
	}
}
