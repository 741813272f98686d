// Package api provides the Hyperliquid info client and the wallet activity source.
//
// Every query is a read-only POST to {baseURL}/info with a JSON body:
//
//	{"type": "userFillsByTime", "user": "0x...", "startTime": 1700000000000}
//
// Endpoints:
//   - Mainnet: https://api.hyperliquid.xyz
//   - Testnet: https://api.hyperliquid-testnet.xyz
//
// Absent data comes back as [] or null, both of which decode to empty collections.
package api
