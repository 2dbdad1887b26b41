package config

import "time"

// DefaultURL is the node endpoint used when neither --url nor the config file names one.
const DefaultURL = "ws://localhost:9944"

// DefaultSS58Prefix is the generic Substrate address format.
const DefaultSS58Prefix = uint16(42)

// Timeout constants used by cmd and the node client.
const (
	DialTimeout      = 10 * time.Second // websocket handshake
	RPCCallTimeout   = 30 * time.Second // single request/response round trip
	TxConfirmTimeout = 3 * time.Minute  // block inclusion wait for a submitted extrinsic
)

// KeyColumnWidth is the label column used for status lines ("Dry-running", "Success!").
const KeyColumnWidth = 12
