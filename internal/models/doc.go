// Package models defines the persisted domain records for splitledger.
//
// # Models
//
//   - User: registered account, identified by a UUID
//   - Household: a group of users sharing expenses, joined through an invite code
//   - Expense: an amount paid by one user, divided into Shares
//   - Share: one user's portion of an expense
//   - Settlement: a payment between two household members to clear debts
//   - Category: per-user expense category, created on first use
//
// Relationships use ID strings instead of pointers. Amounts are decimals with
// cent precision; the storage layer keeps them as integer cents.
package models
