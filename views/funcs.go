package views

import (
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"bitemebuddy/models"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Funcs are the helpers available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":       Money,
		"ago":         Ago,
		"datetime":    DateTime,
		"clock":       Clock,
		"duration":    Duration,
		"statusClass": StatusClass,
		"dict":        Dict,
		"deref":       Deref,
		"comma":       humanize.Comma,
		"year":        func() int { return time.Now().Year() },
	}
}

// Money formats an amount in rupees with thousands separators
func Money(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + "₹" + fixed
	}
	return sign + "₹" + humanize.Comma(n) + "." + frac
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	}
	return time.Time{}, false
}

// Ago renders "3 minutes ago" style times; nil or zero renders "never"
func Ago(v any) string {
	t, ok := asTime(v)
	if !ok {
		return "never"
	}
	return humanize.Time(t)
}

func DateTime(v any) string {
	t, ok := asTime(v)
	if !ok {
		return "-"
	}
	return t.UTC().Format("02 Jan 2006, 15:04")
}

func Clock(v any) string {
	t, ok := asTime(v)
	if !ok {
		return "-"
	}
	return t.UTC().Format("15:04:05")
}

// Duration renders seconds as "1h 05m" or "4m 10s"
func Duration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
}

func StatusClass(s models.OrderStatus) string {
	switch s {
	case models.StatusPending:
		return "badge-pending"
	case models.StatusAssigned:
		return "badge-assigned"
	case models.StatusOutForDelivery:
		return "badge-transit"
	case models.StatusDelivered:
		return "badge-done"
	case models.StatusCancelled:
		return "badge-cancelled"
	}
	return "badge"
}

// Dict builds a map from key/value pairs so partials can take several arguments
func Dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict needs an even number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func Deref(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}
