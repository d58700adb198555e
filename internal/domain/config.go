package domain

type GatewayMode string

const (
	ModeTest GatewayMode = "test"
	ModeLive GatewayMode = "live"
)

// GatewayConfig holds the gateway module's configured variables as loaded
// from the billing system. Loaded once per request and never mutated.
type GatewayConfig struct {
	Active        bool
	TestMode      bool
	TestSecretKey string
	TestPublicKey string
	LiveSecretKey string
	LivePublicKey string
	GatewayLogs   bool
	ConvertTo     string // target currency code, empty disables conversion
}

func (c GatewayConfig) Mode() GatewayMode {
	if c.TestMode {
		return ModeTest
	}
	return ModeLive
}

// SecretKey returns the secret key for the active mode.
func (c GatewayConfig) SecretKey() string {
	if c.TestMode {
		return c.TestSecretKey
	}
	return c.LiveSecretKey
}

// PublicKey returns the public key for the active mode.
func (c GatewayConfig) PublicKey() string {
	if c.TestMode {
		return c.TestPublicKey
	}
	return c.LivePublicKey
}
