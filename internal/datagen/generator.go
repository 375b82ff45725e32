//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/pgEdge/pgedge-salesdash/internal/datagen/profiles"
	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

const (
	// catalogSize is the number of distinct products.
	catalogSize = 80

	// maxLines is the largest number of line items on one invoice.
	maxLines = 5

	// firstInvoice and firstCustomer follow the numbering of the UCI
	// Online Retail dataset.
	firstInvoice  = 536365
	firstCustomer = 12346

	homeCountry = "United Kingdom"
	homeShare   = 0.75
)

// Return status values.
const (
	StatusReturned    = "Returned"
	StatusNotReturned = "Not Returned"
)

// Config controls the shape of the generated dataset.
type Config struct {
	Customers           int
	Invoices            int
	StartYear           int
	EndYear             int
	RefundRate          float64
	MissingCustomerRate float64
	Profile             string
	Seed                int64

	// Progress receives a progress bar; nil disables it.
	Progress io.Writer
}

type customer struct {
	id      string
	country string
}

type product struct {
	description string
	category    string
	price       float64
}

// Generator produces order line items.
type Generator struct {
	cfg   Config
	faker *Faker

	customers       []customer
	customerWeights []int

	catalog        []product
	productWeights []int

	slots       []profiles.Slot
	slotWeights []int

	years []int
}

// New builds a generator. The customer base and product catalog are drawn
// up front from the seed.
func New(cfg Config) (*Generator, error) {
	if cfg.Customers < 1 {
		return nil, fmt.Errorf("customers must be at least 1")
	}
	if cfg.Invoices < cfg.Customers {
		return nil, fmt.Errorf("invoices must be >= customers")
	}
	if cfg.EndYear < cfg.StartYear {
		return nil, fmt.Errorf("end year must be >= start year")
	}

	profile, err := profiles.Get(cfg.Profile)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:   cfg,
		faker: NewFaker(uint64(cfg.Seed)),
	}
	g.buildCustomers()
	g.buildCatalog()
	for y := cfg.StartYear; y <= cfg.EndYear; y++ {
		g.years = append(g.years, y)
	}

	slots, levels := profiles.Week(profile)
	g.slots = slots
	g.slotWeights = make([]int, len(levels))
	for i, level := range levels {
		g.slotWeights[i] = int(math.Round(level * 1000))
	}

	return g, nil
}

// buildCustomers gives each customer a long-tailed order weight so that a
// few customers order far more often than the rest.
func (g *Generator) buildCustomers() {
	f := g.faker
	g.customers = make([]customer, g.cfg.Customers)
	g.customerWeights = make([]int, g.cfg.Customers)
	for i := range g.customers {
		country := homeCountry
		if !f.Chance(homeShare) {
			country = f.Country()
		}
		g.customers[i] = customer{
			id:      strconv.Itoa(firstCustomer + i),
			country: country,
		}
		g.customerWeights[i] = 1 + int(30*math.Pow(f.Float64(0, 1), 3))
	}
}

func (g *Generator) buildCatalog() {
	f := g.faker
	seen := make(map[string]bool, catalogSize)
	g.catalog = make([]product, catalogSize)
	g.productWeights = make([]int, catalogSize)
	for i := range g.catalog {
		base := f.ProductName()
		name := base
		for n := 2; seen[name]; n++ {
			name = fmt.Sprintf("%s %d", base, n)
		}
		seen[name] = true

		g.catalog[i] = product{
			description: name,
			category:    f.ProductCategory(),
			price:       f.Price(0.5, 40),
		}
		g.productWeights[i] = 1 + int(10*math.Pow(f.Float64(0, 1), 2))
	}
}

// Generate produces every invoice. The first invoices go one to each
// customer so that every customer appears at least once.
func (g *Generator) Generate(ctx context.Context) (*dataset.Table, error) {
	f := g.faker
	bar := newProgressBar(g.cfg.Progress, g.cfg.Invoices)
	start := time.Now()

	orders := make([]dataset.Order, 0, g.cfg.Invoices*(maxLines+1)/2)
	for i := 0; i < g.cfg.Invoices; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var c customer
		if i < len(g.customers) {
			c = g.customers[i]
		} else {
			c = ChooseWeighted(f, g.customers, g.customerWeights)
		}
		customerID := c.id
		if f.Chance(g.cfg.MissingCustomerRate) {
			customerID = ""
		}

		invoice := strconv.Itoa(firstInvoice + i)
		year := Choose(f, g.years)
		month := f.Int(1, 12)
		slot := ChooseWeighted(f, g.slots, g.slotWeights)

		for range f.Int(1, maxLines) {
			p := ChooseWeighted(f, g.catalog, g.productWeights)
			sales := RoundCents(p.price * float64(f.Int(1, 12)))
			refund := f.Chance(g.cfg.RefundRate)
			status := StatusNotReturned
			if refund {
				sales = -sales
				status = StatusReturned
			}

			orders = append(orders, dataset.Order{
				InvoiceNum:   invoice,
				CustomerID:   customerID,
				Country:      c.country,
				Category:     p.category,
				Description:  p.description,
				Sales:        sales,
				IsRefund:     refund,
				ReturnStatus: status,
				OrderYear:    year,
				OrderMonth:   month,
				OrderHour:    slot.Hour,
				OrderWeekday: isoWeekday(slot.Weekday),
			})
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	logging.Info().
		Int("customers", g.cfg.Customers).
		Int("invoices", g.cfg.Invoices).
		Int("rows", len(orders)).
		Str("profile", g.cfg.Profile).
		Dur("elapsed", time.Since(start)).
		Msg("Generated dataset")

	return dataset.NewTable(nil, orders), nil
}

// isoWeekday converts to the dataset numbering, Monday = 0.
func isoWeekday(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func newProgressBar(w io.Writer, n int) *progressbar.ProgressBar {
	if w == nil {
		return progressbar.DefaultSilent(int64(n))
	}
	return progressbar.NewOptions64(int64(n),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Generating invoices"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}
