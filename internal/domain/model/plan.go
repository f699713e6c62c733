package model

// Plan is a purchasable subscription tier.
type Plan struct {
	ID           string
	Name         string
	PriceMonthly float64
	ProductLimit *int // nil = unlimited
	Features     []string
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// PlanCatalog is an immutable registry of plan tiers and per-tier product
// limits. It is constructed once at startup and injected wherever plan or
// limit lookups are needed, so tests can swap in alternate tiers.
type PlanCatalog struct {
	plans        map[string]Plan
	order        []string
	limits       map[string]*int
	defaultLimit int
}

// NewPlanCatalog builds a catalog from purchasable plans and a limit table.
// The limit table may contain non-purchasable tiers (e.g. "trial"). Plans not
// present in the table fall back to defaultLimit.
func NewPlanCatalog(plans []Plan, limits map[string]*int, defaultLimit int) *PlanCatalog {
	c := &PlanCatalog{
		plans:        make(map[string]Plan, len(plans)),
		limits:       make(map[string]*int, len(limits)),
		defaultLimit: defaultLimit,
	}
	for _, p := range plans {
		c.plans[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	for k, v := range limits {
		c.limits[k] = v
	}
	return c
}

// Find returns the purchasable plan for id, or a zero plan when unknown.
func (c *PlanCatalog) Find(id string) (Plan, bool) {
	p, ok := c.plans[id]
	return p, ok
}

// List returns purchasable plans in declaration order.
func (c *PlanCatalog) List() []Plan {
	out := make([]Plan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}

// ProductLimit returns the product-count limit for a plan tier.
// nil means unlimited; unknown tiers get the default limit.
func (c *PlanCatalog) ProductLimit(planName string) *int {
	if limit, ok := c.limits[planName]; ok {
		return limit
	}
	d := c.defaultLimit
	return &d
}

func intPtr(n int) *int { return &n }

// DefaultCatalog returns the production plan tiers.
func DefaultCatalog() *PlanCatalog {
	plans := []Plan{
		{
			ID:           "starter",
			Name:         "Starter",
			PriceMonthly: 99.00,
			ProductLimit: intPtr(50),
			Features:     []string{"Up to 50 products", "Basic Analytics", "Email Support", "1 Device"},
		},
		{
			ID:           "professional",
			Name:         "Professional",
			PriceMonthly: 129.00,
			ProductLimit: intPtr(200),
			Features:     []string{"Up to 200 products", "Advanced Analytics", "Priority Support", "Custom Branding", "3 Devices"},
		},
		{
			ID:           "enterprise",
			Name:         "Enterprise",
			PriceMonthly: 299.00,
			ProductLimit: nil,
			Features:     []string{"Unlimited products", "Full Analytics Suite", "Dedicated Account Manager", "White-label Solution", "Unlimited Devices", "API Access"},
		},
	}
	limits := map[string]*int{
		"trial":        intPtr(10),
		"starter":      intPtr(50),
		"professional": intPtr(200),
		"enterprise":   nil,
	}
	return NewPlanCatalog(plans, limits, 10)
}
