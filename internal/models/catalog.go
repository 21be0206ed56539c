package models

// Service is an immutable catalog entry selectable as the base of a booking.
type Service struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Duration int    `yaml:"duration" json:"duration"` // minutes
}

// Extra is an immutable add-on that extends a booking's total duration.
type Extra struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Duration int    `yaml:"duration" json:"duration"` // minutes
}

// Catalog is the static service/extra list loaded once at startup and
// indexed by id.
type Catalog struct {
	services map[string]Service
	extras   map[string]Extra

	serviceList []Service
	extraList   []Extra
}

func NewCatalog(services []Service, extras []Extra) *Catalog {
	c := &Catalog{
		services:    make(map[string]Service, len(services)),
		extras:      make(map[string]Extra, len(extras)),
		serviceList: services,
		extraList:   extras,
	}
	for _, s := range services {
		c.services[s.ID] = s
	}
	for _, e := range extras {
		c.extras[e.ID] = e
	}
	return c
}

func (c *Catalog) Service(id string) (Service, bool) {
	s, ok := c.services[id]
	return s, ok
}

func (c *Catalog) Extra(id string) (Extra, bool) {
	e, ok := c.extras[id]
	return e, ok
}

// Services returns catalog services in configured order.
func (c *Catalog) Services() []Service {
	return c.serviceList
}

// Extras returns catalog extras in configured order.
func (c *Catalog) Extras() []Extra {
	return c.extraList
}

// ExtraNames maps extra ids to display names, keeping unknown ids as-is.
func (c *Catalog) ExtraNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if e, ok := c.extras[id]; ok {
			names = append(names, e.Name)
			continue
		}
		names = append(names, id)
	}
	return names
}
