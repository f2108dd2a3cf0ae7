package model

// ColorToken names one entry of the closed visualization palette.
type ColorToken string

const (
	ColorPrimary           ColorToken = "primary"
	ColorNetworkNode       ColorToken = "network-node"
	ColorNetworkZone       ColorToken = "network-zone"
	ColorNetworkConnection ColorToken = "network-connection"
)

// Color is a palette entry resolved to concrete render attributes.
type Color struct {
	Token ColorToken
	Hex   string // "#RRGGBB"
	R     uint8
	G     uint8
	B     uint8
}
