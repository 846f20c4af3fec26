package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/gatequote/internal/domain"
)

type supplier struct {
	name      string
	searchURL string
}

var suppliers = map[string]supplier{
	"homedepot.com":     {name: "Home Depot", searchURL: "https://www.homedepot.com/s/%s"},
	"lowes.com":         {name: "Lowe's", searchURL: "https://www.lowes.com/search?searchTerm=%s"},
	"tractorsupply.com": {name: "Tractor Supply", searchURL: "https://www.tractorsupply.com/tsc/search/%s"},
	"walmart.com":       {name: "Walmart", searchURL: "https://www.walmart.com/search?q=%s"},
}

var priceRes = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(\d+\.\d{2})`),
	regexp.MustCompile(`USD\s*(\d+\.?\d*)`),
}

// PriceScraper checks supplier product pages for current prices. Results are
// cached in memory for an hour per URL.
type PriceScraper struct {
	client *http.Client

	mu    sync.Mutex
	cache map[string]domain.PriceQuote
	ttl   time.Duration
}

func NewPriceScraper() *PriceScraper {
	return &PriceScraper{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		cache: map[string]domain.PriceQuote{},
		ttl:   time.Hour,
	}
}

// NewPriceScraperWithClient exists for tests.
func NewPriceScraperWithClient(c *http.Client) *PriceScraper {
	s := NewPriceScraper()
	s.client = c
	return s
}

// PriceFromURL fetches one product page and extracts supplier, title and
// price. Pages with no recognizable price come back as domain.ErrNotFound.
func (s *PriceScraper) PriceFromURL(ctx context.Context, productURL string) (*domain.PriceQuote, error) {
	s.mu.Lock()
	if cached, ok := s.cache[productURL]; ok && time.Since(cached.CheckedAt) < s.ttl {
		s.mu.Unlock()
		return &cached, nil
	}
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, productURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", productURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", productURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	pq := s.parse(doc, productURL)
	if pq == nil {
		log.Debug().Str("url", productURL).Msg("no price found on page")
		return nil, domain.ErrNotFound
	}

	s.mu.Lock()
	s.cache[productURL] = *pq
	s.mu.Unlock()
	return pq, nil
}

func (s *PriceScraper) parse(doc *goquery.Document, productURL string) *domain.PriceQuote {
	price, ok := extractPagePrice(doc)
	if !ok {
		return nil
	}

	title := truncateRunes(strings.TrimSpace(doc.Find("h1").First().Text()), 100)

	name := supplierName(productURL)
	if title == "" {
		title = name + " Product"
	}

	return &domain.PriceQuote{
		Supplier:    name,
		ProductName: title,
		Price:       price,
		SourceURL:   productURL,
		CheckedAt:   time.Now(),
	}
}

func extractPagePrice(doc *goquery.Document) (float64, bool) {
	candidates := []string{}

	doc.Find(`meta[property="product:price:amount"]`).Each(func(_ int, sel *goquery.Selection) {
		if v, ok := sel.Attr("content"); ok {
			candidates = append(candidates, v)
		}
	})
	doc.Find(`span[itemprop="price"]`).Each(func(_ int, sel *goquery.Selection) {
		if v, ok := sel.Attr("content"); ok {
			candidates = append(candidates, v)
		}
		candidates = append(candidates, sel.Text())
	})
	doc.Find("span, div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		if strings.Contains(strings.ToLower(class), "price") {
			candidates = append(candidates, sel.Text())
			return len(candidates) < 8
		}
		return true
	})

	for _, c := range candidates {
		if p, ok := extractPrice(c); ok {
			return p, true
		}
	}
	return 0, false
}

func extractPrice(text string) (float64, bool) {
	text = strings.ReplaceAll(text, ",", "")
	for _, re := range priceRes {
		if m := re.FindStringSubmatch(text); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			return v, true
		}
	}
	return 0, false
}

// truncateRunes caps a string at n runes so a cut never lands inside a
// multi-byte character.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func supplierName(productURL string) string {
	u, err := url.Parse(productURL)
	if err != nil {
		return "supplier"
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	for dom, sup := range suppliers {
		if strings.HasSuffix(host, dom) {
			return sup.name
		}
	}
	return host
}

// SearchURLs builds manual search links per supplier. Search result pages
// need scripting to render, so this stops at handing the caller a URL.
func (s *PriceScraper) SearchURLs(productName string) map[string]string {
	query := url.QueryEscape(productName)
	out := make(map[string]string, len(suppliers))
	for _, sup := range suppliers {
		out[sup.name] = fmt.Sprintf(sup.searchURL, query)
	}
	return out
}
