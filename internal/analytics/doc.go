// Package analytics turns raw call and supplier-number records into funnel and
// cost statistics.
//
// Every function is a pure reduction over already loaded slices: no I/O, no
// shared state, no errors. Bad data degrades to zero or empty aggregates.
//
// Division by zero follows two rules. Rates (answer rate, conversion rate,
// call rate) become 0. Cost per lead, average cost per minute and
// period-over-period change become nil, meaning "unavailable".
package analytics
