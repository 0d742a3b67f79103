// Package calculator implements the money arithmetic behind expense splitting:
// even and custom splits of a total among participants, and the balances that
// result from who paid and who owes.
//
// Amounts are shopspring decimals with cent precision. Every function here is
// pure and safe for concurrent use.
package calculator
