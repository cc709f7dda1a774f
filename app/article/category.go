package article

import "fmt"

// Category is the closed taxonomy every article is filed under.
type Category uint8

const (
	CategoryMarketTrends Category = iota
	CategoryGoldenVisa
	CategoryOffPlan
	CategoryDeveloperNews
	CategoryRegulations
)

// Categories lists every member in declaration order.
var Categories = []Category{
	CategoryMarketTrends,
	CategoryGoldenVisa,
	CategoryOffPlan,
	CategoryDeveloperNews,
	CategoryRegulations,
}

func (c Category) String() string {
	switch c {
	case CategoryGoldenVisa:
		return "golden_visa"
	case CategoryOffPlan:
		return "off_plan"
	case CategoryDeveloperNews:
		return "developer_news"
	case CategoryRegulations:
		return "regulations"
	case CategoryMarketTrends:
		return "market_trends"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// ParseCategory maps a stored value back to its Category.
func ParseCategory(value string) (Category, error) {
	for _, c := range Categories {
		if c.String() == value {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", value)
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
