package descriptor

import (
	"fmt"
	"strings"

	"github.com/byte4ever/postrender/fault"
)

// CenterOrder is the order of post centers on the index page.
type CenterOrder int

// Center orders. The zero value is Forward.
const (
	// Forward lists posts from the lowest number up.
	Forward CenterOrder = iota
	// Backward lists the newest post first.
	Backward
)

var orderNames = [...]string{
	Forward:  "forward",
	Backward: "backward",
}

// ParseCenterOrder parses an order name, ignoring case.
func ParseCenterOrder(s string) (CenterOrder, error) {
	for o, name := range orderNames {
		if strings.EqualFold(s, name) {
			return CenterOrder(o), nil
		}
	}

	return 0, fault.NewParse(
		"center order specifier",
		`expected "forward" or "backward"`,
		fmt.Sprintf("%q invalid", s),
	)
}

// String returns the lower-case name, which ParseCenterOrder accepts.
func (o CenterOrder) String() string {
	if o < 0 || int(o) >= len(orderNames) {
		return "unknown"
	}

	return orderNames[o]
}
