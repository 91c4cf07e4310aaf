package tg

// Callbacks buttons
const (
	RefreshAll        string = "refresh_all"
	RefreshHoldings   string = "refresh_holdings"
	RefreshShares     string = "refresh_shares"
	RefreshEtfs       string = "refresh_etfs"
	RefreshCurrencies string = "refresh_currencies"
	RefreshCrypto     string = "refresh_crypto"
)
