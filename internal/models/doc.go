// Package models defines the core domain models for settleup.
//
// # Models
//
//   - Group: a named roster of members that share expenses
//   - Member: a person in one or more groups, with a preferred display currency
//   - Expense: an amount paid by one member and split across members
//   - Settlement: a recorded payment between two members of a group
//
// # Design Principles
//
// 1. **IDs, not pointers**: relationships use ID strings to avoid cycles
// 2. **Decimal money**: every amount is a decimal.Decimal, never a float
// 3. **Unix timestamps**: CreatedAt-style fields are Unix seconds, 0 means unset
//
// Balances, transfers and plans are not models; they are recomputed on every
// request by the calculator package and never stored.
package models
