// Package foliosim provides the types and functions for simulating a
// personal investment portfolio made of weighted, long-dated ETFs.
//
// The core functionalities include:
//   - Portfolio Management: A basket of assets identified by ticker, each
//     with a weight. Weights are kept normalized so they always sum to one.
//   - Market Data: Weekly adjusted closing prices and asset descriptions
//     (currency, exchange, sector weightings) fetched from a quote provider
//     and cached locally.
//   - Simulation: A stateless engine that rebases each asset's price series
//     to its first known value, forward-fills missing points, and combines
//     them by weight into the portfolio's worth over time, along with CAGR
//     and currency/sector exposure breakdowns.
//   - Data Persistence: Encoding and decoding portfolios to a human-readable,
//     version-controllable JSONL format.
//
// This package serves as the foundational logic for the `fsim` command-line
// tool and its web dashboard.
package foliosim
