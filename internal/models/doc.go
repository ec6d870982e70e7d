// Package models defines the core domain models for Roomies.
//
// # Models
//
//   - User: a roommate taking part in the shared ledger
//   - Expense: a payment made by one roommate and split equally among a set of roommates
//   - Category: the closed set of expense categories shown in the activity feed
//   - Ledger: an immutable snapshot of users and expenses at one moment
//
// Balances are never stored on these types. They are derived from a Ledger
// by the calculator package every time they are needed.
//
// # Design Principles
//
// 1. **Snapshots, not shared state**: a Ledger is replaced wholesale on every mutation
// 2. **IDs, not pointers**: expenses reference users by ID string
// 3. **Validate at the boundary**: models carry data only; the service layer rejects bad input
package models
