package icons

import (
	"sort"
	"strings"
)

// Name is a stable UI icon identifier.
type Name string

// Navigation
const (
	Home         Name = "home"
	Menu         Name = "menu"
	Close        Name = "close"
	ArrowLeft    Name = "arrowLeft"
	ArrowRight   Name = "arrowRight"
	ChevronDown  Name = "chevronDown"
	ChevronUp    Name = "chevronUp"
	ChevronLeft  Name = "chevronLeft"
	ChevronRight Name = "chevronRight"
)

// Actions
const (
	Search Name = "search"
	Filter Name = "filter"
	Plus   Name = "plus"
	Minus  Name = "minus"
	Edit   Name = "edit"
	Trash  Name = "trash"
	Check  Name = "check"
	Eye    Name = "eye"
	EyeOff Name = "eyeOff"
	Reset  Name = "reset"
)

// Commerce
const (
	ShoppingCart Name = "shoppingCart"
	Package      Name = "package"
	CreditCard   Name = "creditCard"
	Star         Name = "star"
	Heart        Name = "heart"
)

// User
const (
	User     Name = "user"
	Bell     Name = "bell"
	Mail     Name = "mail"
	Phone    Name = "phone"
	MapPin   Name = "mapPin"
	Settings Name = "settings"
)

// Status
const (
	CheckCircle Name = "checkCircle"
	AlertCircle Name = "alertCircle"
	Info        Name = "info"
	Spinner     Name = "spinner"
)

// Definition describes one registered icon.
type Definition struct {
	Name   Name
	Lucide string
	Group  string
}

var catalog = []Definition{
	{Name: Home, Lucide: "house", Group: "navigation"},
	{Name: Menu, Lucide: "menu", Group: "navigation"},
	{Name: Close, Lucide: "x", Group: "navigation"},
	{Name: ArrowLeft, Lucide: "arrow-left", Group: "navigation"},
	{Name: ArrowRight, Lucide: "arrow-right", Group: "navigation"},
	{Name: ChevronDown, Lucide: "chevron-down", Group: "navigation"},
	{Name: ChevronUp, Lucide: "chevron-up", Group: "navigation"},
	{Name: ChevronLeft, Lucide: "chevron-left", Group: "navigation"},
	{Name: ChevronRight, Lucide: "chevron-right", Group: "navigation"},

	{Name: Search, Lucide: "search", Group: "actions"},
	{Name: Filter, Lucide: "filter", Group: "actions"},
	{Name: Plus, Lucide: "plus", Group: "actions"},
	{Name: Minus, Lucide: "minus", Group: "actions"},
	{Name: Edit, Lucide: "pencil", Group: "actions"},
	{Name: Trash, Lucide: "trash", Group: "actions"},
	{Name: Check, Lucide: "check", Group: "actions"},
	{Name: Eye, Lucide: "eye", Group: "actions"},
	{Name: EyeOff, Lucide: "eye-off", Group: "actions"},
	{Name: Reset, Lucide: "rotate-ccw", Group: "actions"},

	{Name: ShoppingCart, Lucide: "shopping-cart", Group: "commerce"},
	{Name: Package, Lucide: "package", Group: "commerce"},
	{Name: CreditCard, Lucide: "credit-card", Group: "commerce"},
	{Name: Star, Lucide: "star", Group: "commerce"},
	{Name: Heart, Lucide: "heart", Group: "commerce"},

	{Name: User, Lucide: "user", Group: "user"},
	{Name: Bell, Lucide: "bell", Group: "user"},
	{Name: Mail, Lucide: "mail", Group: "user"},
	{Name: Phone, Lucide: "phone", Group: "user"},
	{Name: MapPin, Lucide: "map-pin", Group: "user"},
	{Name: Settings, Lucide: "settings", Group: "user"},

	{Name: CheckCircle, Lucide: "circle-check", Group: "status"},
	{Name: AlertCircle, Lucide: "circle-alert", Group: "status"},
	{Name: Info, Lucide: "info", Group: "status"},
	{Name: Spinner, Lucide: "loader-circle", Group: "status"},
}

var byName = func() map[Name]Definition {
	out := make(map[Name]Definition, len(catalog))
	for _, def := range catalog {
		out[def.Name] = def
	}
	return out
}()

// Catalog returns a copy of the icon definitions.
func Catalog() []Definition {
	result := make([]Definition, len(catalog))
	copy(result, catalog)
	return result
}

// Lookup returns the definition for name.
func Lookup(name Name) (Definition, bool) {
	def, ok := byName[name]
	return def, ok
}

// Groups returns the sorted group names.
func Groups() []string {
	seen := map[string]struct{}{}
	for _, def := range catalog {
		seen[def.Group] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for group := range seen {
		out = append(out, group)
	}
	sort.Strings(out)
	return out
}

// CatalogMarkdown renders the icon catalog as markdown.
func CatalogMarkdown() string {
	var builder strings.Builder
	builder.WriteString("# Icon Catalog\n\n")
	builder.WriteString("| Name | Lucide | Group |\n")
	builder.WriteString("| --- | --- | --- |\n")
	for _, def := range catalog {
		builder.WriteString("| ")
		builder.WriteString(string(def.Name))
		builder.WriteString(" | ")
		builder.WriteString(def.Lucide)
		builder.WriteString(" | ")
		builder.WriteString(def.Group)
		builder.WriteString(" |\n")
	}
	return builder.String()
}
