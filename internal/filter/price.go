package filter

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/techjojo/catalogue/internal/catalog"
)

const (
	// PriceStep is the width of one price bucket.
	PriceStep = 100_000
	// MaxBucketPrice is the dearest price placed in a bucket. Up to here bucket
	// bounds are whole thousands that survive a trip through their label.
	MaxBucketPrice = 1e15
)

var (
	rePriceNumber = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
	reCurrency    = regexp.MustCompile(`(?i)ngn`)
	rePriceRange  = regexp.MustCompile(`(?i)(\d+)\s*k\s*[–—-]\s*(\d+)\s*k`)
)

var priceHeaderAliases = []string{"price", "amount", "cost", "ngn", "price (ngn)"}

// FindPriceHeader returns the header that holds prices, if any.
func FindPriceHeader(headers []string) (string, bool) {
	return catalog.FindHeader(headers, priceHeaderAliases...)
}

// ParsePrice extracts the first number from a price string such as
// "₦150,000" or "NGN 1,200,000.50".
func ParsePrice(s string) (float64, bool) {
	s = strings.NewReplacer("₦", "", ",", "").Replace(s)
	s = reCurrency.ReplaceAllString(strings.Join(strings.Fields(s), " "), "")
	m := rePriceNumber.FindStringSubmatch(s)
	if len(m) < 2 {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ParsePriceCell returns the numeric price held by c.
func ParsePriceCell(c catalog.Cell) (float64, bool) {
	if c.Kind == catalog.KindNumber {
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return 0, false
		}
		return c.Number, true
	}
	if c.IsSentinel() {
		return 0, false
	}
	return ParsePrice(c.String())
}

// Range is an inclusive price interval.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether p lies within the range, bounds included.
func (r Range) Contains(p float64) bool {
	return p >= r.Min && p <= r.Max
}

// RangeFromLabel parses a bucket label such as "300K–400K" (a plain hyphen
// and lower-case k are accepted too).
func RangeFromLabel(label string) (Range, bool) {
	m := rePriceRange.FindStringSubmatch(label)
	if len(m) < 3 {
		return Range{}, false
	}
	lo, err1 := strconv.ParseFloat(m[1], 64)
	hi, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return Range{}, false
	}
	return Range{Min: lo * 1000, Max: hi * 1000}, true
}

// Bucket is one price range offered to the user.
type Bucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// BucketLabel renders the label of the bucket starting at start.
func BucketLabel(start float64) string {
	return fmt.Sprintf("%s–%s", toK(start), toK(start+PriceStep))
}

func toK(n float64) string {
	return fmt.Sprintf("%dK", int64(math.Round(n/1000)))
}

// PriceBuckets groups the dataset's prices into PriceStep-wide buckets and
// returns the populated ones in ascending order. Negative and unparseable
// prices are ignored, as are prices above MaxBucketPrice. Without any usable
// price the default 100K–900K ladder is returned with zero counts.
func PriceBuckets(ds catalog.Dataset) []Bucket {
	header, ok := FindPriceHeader(ds.Headers)
	if !ok {
		return defaultBuckets()
	}

	counts := map[int64]int{}
	for _, p := range ds.Products {
		price, ok := ParsePriceCell(p.Cell(header))
		if !ok || price < 0 || price > MaxBucketPrice {
			continue
		}
		counts[int64(math.Floor(price/PriceStep))]++
	}
	if len(counts) == 0 {
		return defaultBuckets()
	}

	idx := make([]int64, 0, len(counts))
	for i := range counts {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool { return idx[a] < idx[b] })

	out := make([]Bucket, 0, len(idx))
	for _, i := range idx {
		start := float64(i) * PriceStep
		out = append(out, Bucket{
			Label: BucketLabel(start),
			Min:   start,
			Max:   start + PriceStep,
			Count: counts[i],
		})
	}
	return out
}

func defaultBuckets() []Bucket {
	out := make([]Bucket, 0, 8)
	for start := float64(PriceStep); start < 900_000; start += PriceStep {
		out = append(out, Bucket{Label: BucketLabel(start), Min: start, Max: start + PriceStep})
	}
	return out
}
