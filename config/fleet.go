package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/cabs/core/model"
)

// DefaultBalance is given to customers listed without a balance.
const DefaultBalance = 10000

const rosterSeparator = "****"

// FleetConfig describes the fixed roster of cabs and customers.
type FleetConfig struct {
	// Roster is an optional fixture file, either the legacy text format or YAML.
	Roster         string           `json:"roster"`
	Cabs           []string         `json:"cabs"`
	Customers      []model.Customer `json:"customers"`
	DefaultBalance int              `json:"default_balance"`
}

// SetDefaults applies the default balance.
func (c *FleetConfig) SetDefaults() {
	if c.DefaultBalance == 0 {
		c.DefaultBalance = DefaultBalance
	}
}

// Validate rejects negative balances.
func (c FleetConfig) Validate() error {
	if c.DefaultBalance < 0 {
		return fmt.Errorf("fleet.default_balance must be >= 0")
	}
	for _, cu := range c.Customers {
		if cu.Balance < 0 {
			return fmt.Errorf("fleet.customers: negative balance for %s", cu.ID)
		}
	}
	return nil
}

// LoadRoster reads the roster file, if any, then merges the inline cabs and
// customers. Duplicate ids keep their first occurrence, except that an inline
// customer overrides the balance read from the file.
func LoadRoster(c FleetConfig) (model.Roster, error) {
	c.SetDefaults()
	var r model.Roster
	if c.Roster != "" {
		var err error
		r, err = readRosterFile(c.Roster, c.DefaultBalance)
		if err != nil {
			return model.Roster{}, err
		}
	}
	r.Cabs = appendUnique(r.Cabs, c.Cabs...)
	for _, cu := range c.Customers {
		if cu.Balance == 0 {
			cu.Balance = c.DefaultBalance
		}
		if i := customerIndex(r.Customers, cu.ID); i >= 0 {
			r.Customers[i] = cu
			continue
		}
		r.Customers = append(r.Customers, cu)
	}
	return r, nil
}

func readRosterFile(path string, defaultBalance int) (model.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Roster{}, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseRosterYAML(f, defaultBalance)
	default:
		return ParseLegacyRoster(f, defaultBalance)
	}
}

// ParseRosterYAML reads
//
//	cabs: [101, 102]
//	customers:
//	  - {id: "201", balance: 10000}
func ParseRosterYAML(r io.Reader, defaultBalance int) (model.Roster, error) {
	var raw struct {
		Cabs      []string `yaml:"cabs"`
		Customers []struct {
			ID      string `yaml:"id"`
			Balance *int   `yaml:"balance"`
		} `yaml:"customers"`
	}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return model.Roster{}, fmt.Errorf("decode roster: %w", err)
	}
	out := model.Roster{Cabs: appendUnique(nil, raw.Cabs...)}
	for _, c := range raw.Customers {
		if c.ID == "" {
			return model.Roster{}, fmt.Errorf("decode roster: customer without id")
		}
		bal := defaultBalance
		if c.Balance != nil {
			bal = *c.Balance
		}
		if customerIndex(out.Customers, c.ID) < 0 {
			out.Customers = append(out.Customers, model.Customer{ID: c.ID, Balance: bal})
		}
	}
	return out, nil
}

// ParseLegacyRoster reads the text fixture: a header line, cab ids up to a
// "****" line, customer ids up to a second "****" line, then one initial
// balance per customer in the same order. Customers past the last balance
// line reuse the last balance read, or defaultBalance when there is none.
func ParseLegacyRoster(r io.Reader, defaultBalance int) (model.Roster, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return model.Roster{}, err
		}
		return model.Roster{}, fmt.Errorf("roster: empty file")
	}
	var out model.Roster
	var customers []string
	section := 0
	balance := defaultBalance
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if text == rosterSeparator && section < 2 {
			section++
			continue
		}
		switch section {
		case 0:
			out.Cabs = appendUnique(out.Cabs, text)
		case 1:
			if !slices.Contains(customers, text) {
				customers = append(customers, text)
			}
		default:
			n, err := strconv.Atoi(text)
			if err != nil {
				return model.Roster{}, fmt.Errorf("roster line %d: balance %q: %w", line, text, err)
			}
			if len(out.Customers) < len(customers) {
				out.Customers = append(out.Customers, model.Customer{ID: customers[len(out.Customers)], Balance: n})
			}
			balance = n
		}
	}
	if err := sc.Err(); err != nil {
		return model.Roster{}, err
	}
	for i := len(out.Customers); i < len(customers); i++ {
		out.Customers = append(out.Customers, model.Customer{ID: customers[i], Balance: balance})
	}
	return out, nil
}

func appendUnique(dst []string, ids ...string) []string {
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(dst, id) {
			dst = append(dst, id)
		}
	}
	return dst
}

func customerIndex(cs []model.Customer, id string) int {
	return slices.IndexFunc(cs, func(c model.Customer) bool { return c.ID == id })
}
