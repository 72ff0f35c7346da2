package marketdata

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Currency is one entry of the marketplace's currencies endpoint.
type Currency struct {
	Name    string `json:"abbreviation"`
	IsoCode int    `json:"isoCode"`
}

// LendingCompany is one entry of the marketplace's lending companies endpoint.
type LendingCompany struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// Catalog resolves friendly filter values (currency names, countries,
// lenders) to the marketplace's wire identifiers. It starts out seeded with
// the static tables and can be refreshed with values fetched from the
// marketplace; each client owns its own catalog so tests and multiple
// accounts never share lookup state.
type Catalog struct {
	mu        sync.RWMutex
	populated bool

	currencies map[string]int
	lenders    map[string]int
}

func NewCatalog() *Catalog {
	currencies := make(map[string]int, len(Currencies))
	for k, v := range Currencies {
		currencies[k] = v
	}
	lenders := make(map[string]int, len(LendingCompanies))
	for k, v := range LendingCompanies {
		lenders[k] = v
	}
	return &Catalog{
		currencies: currencies,
		lenders:    lenders,
	}
}

// Populated reports whether the catalog has been refreshed from the
// marketplace since construction.
func (c *Catalog) Populated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.populated
}

// Populate overlays server-reported currencies and lending companies on top
// of the static tables.
func (c *Catalog) Populate(currencies []Currency, lenders []LendingCompany) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cur := range currencies {
		if cur.Name == "" {
			continue
		}
		c.currencies[cur.Name] = cur.IsoCode
	}
	for _, l := range lenders {
		if l.Name == "" {
			continue
		}
		c.lenders[l.Name] = l.ID
	}
	c.populated = true
}

func choiceError(kind string, choices []string) error {
	sort.Strings(choices)
	return fmt.Errorf("%s must be one of the following: %s", kind, strings.Join(choices, ", "))
}

func mapKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// CurrencyCode returns the ISO 4217 numeric code for a currency name.
func (c *Catalog) CurrencyCode(currency string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	code, ok := c.currencies[currency]
	if !ok {
		return 0, choiceError("currency", mapKeys(c.currencies))
	}
	return code, nil
}

// LenderID returns the marketplace ID for a lending company name.
func (c *Catalog) LenderID(lender string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.lenders[lender]
	if !ok {
		return 0, choiceError("lending company", mapKeys(c.lenders))
	}
	return id, nil
}

// CountryID returns the marketplace ID for a country name.
func (c *Catalog) CountryID(country string) (int, error) {
	id, ok := Countries[country]
	if !ok {
		return 0, choiceError("country", mapKeys(Countries))
	}
	return id, nil
}

// AmortizationMethodID returns the wire ID for an amortization method.
func AmortizationMethodID(method string) (int, error) {
	id, ok := AmortizationMethods[method]
	if !ok {
		return 0, choiceError("amortization method", mapKeys(AmortizationMethods))
	}
	return id, nil
}
