// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retrofit

import (
	"fmt"
	"strings"

	"github.com/poiesic/retrofit/core"
)

// DefaultIterations is the number of rounds used when none is given.
const DefaultIterations = 10

// Order selects the sequence in which tokens are updated within a round.
type Order int

const (
	// OrderSorted visits tokens in lexicographic order.
	OrderSorted Order = iota
	// OrderInsertion visits tokens in the vector table's insertion order.
	OrderInsertion
)

// String returns the flag spelling of the order.
func (o Order) String() string {
	switch o {
	case OrderSorted:
		return "sorted"
	case OrderInsertion:
		return "insertion"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder parses "sorted" or "insertion", case-insensitively.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "sorted":
		return OrderSorted, nil
	case "insertion":
		return OrderInsertion, nil
	default:
		return 0, fmt.Errorf("%w: unknown order %q: must be one of sorted, insertion", core.ErrInvalidArgument, s)
	}
}

// Config holds retrofitting parameters.
type Config struct {
	Iterations int
	Order      Order
}

// DefaultConfig returns a Config with DefaultIterations rounds in sorted order.
func DefaultConfig() *Config {
	return &Config{
		Iterations: DefaultIterations,
		Order:      OrderSorted,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be non-negative, got %d", core.ErrInvalidArgument, c.Iterations)
	}
	if c.Order != OrderSorted && c.Order != OrderInsertion {
		return fmt.Errorf("%w: unknown order %v", core.ErrInvalidArgument, c.Order)
	}
	return nil
}
