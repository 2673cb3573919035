// Package domain contains the records shared by the scan station: decoded
// symbols, confirmed scan entries, product metadata and the stock records used
// for reconciliation. They carry no infrastructure concerns.
package domain
