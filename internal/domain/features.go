package domain

// Features is the feature set enabled while a mode is active.
type Features struct {
	Marketplace string   `json:"marketplace"`
	Agents      []string `json:"agents"`
	Currencies  []string `json:"currencies"`
	Services    []string `json:"services"`
}

// Features returns the feature set for m. Unknown modes get the Standard set.
func (m Mode) Features() Features {
	if m == ModeTor {
		return Features{
			Marketplace: "Privacy Marketplace (BTC/XMR)",
			Agents:      []string{"Privacy Agents", "Anonymous Trading"},
			Currencies:  []string{"BTC", "XMR"},
			Services:    []string{"Hidden Services", "Anonymous Communication"},
		}
	}
	return Features{
		Marketplace: "Standard Marketplace (SOL)",
		Agents:      []string{"Public Agents", "Solana Trading"},
		Currencies:  []string{"SOL"},
		Services:    []string{"Public Services", "Standard Communication"},
	}
}
