package api

// PageInfo describes the position of a page within a listing.
type PageInfo struct {
	Limit      int `json:"limit"`
	Page       int `json:"page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Network is a supported blockchain.
type Network struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Dex is a decentralized exchange on a network.
type Dex struct {
	ID       string `json:"dex_id"`
	Name     string `json:"dex_name"`
	Chain    string `json:"chain"`
	Protocol string `json:"protocol"`
}

// DexesPage is a page of DEXes.
type DexesPage struct {
	Dexes    []Dex    `json:"dexes"`
	PageInfo PageInfo `json:"page_info"`
}

// Token is a token as listed inside pools and search results.
type Token struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Chain    string `json:"chain"`
	Decimals int    `json:"decimals"`
	AddedAt  string `json:"added_at"`
}

// Pool is a liquidity pool summary.
type Pool struct {
	ID                    string  `json:"id"`
	DexID                 string  `json:"dex_id"`
	DexName               string  `json:"dex_name"`
	Chain                 string  `json:"chain"`
	VolumeUSD             float64 `json:"volume_usd"`
	CreatedAt             string  `json:"created_at"`
	CreatedAtBlockNumber  int64   `json:"created_at_block_number"`
	Transactions          int64   `json:"transactions"`
	PriceUSD              float64 `json:"price_usd"`
	LastPriceChangeUSD5m  float64 `json:"last_price_change_usd_5m"`
	LastPriceChangeUSD1h  float64 `json:"last_price_change_usd_1h"`
	LastPriceChangeUSD24h float64 `json:"last_price_change_usd_24h"`
	Fee                   float64 `json:"fee"`
	Tokens                []Token `json:"tokens"`
}

// PoolsPage is a page of pools.
type PoolsPage struct {
	Pools    []Pool   `json:"pools"`
	PageInfo PageInfo `json:"page_info"`
}

// PoolDetails is the full description of a pool.
type PoolDetails struct {
	ID                   string  `json:"id"`
	CreatedAtBlockNumber int64   `json:"created_at_block_number"`
	Chain                string  `json:"chain"`
	CreatedAt            string  `json:"created_at"`
	FactoryID            string  `json:"factory_id"`
	DexID                string  `json:"dex_id"`
	DexName              string  `json:"dex_name"`
	Tokens               []Token `json:"tokens"`
	LastPrice            float64 `json:"last_price"`
	LastPriceUSD         float64 `json:"last_price_usd"`
	Fee                  float64 `json:"fee"`
	PriceTime            string  `json:"price_time"`
}

// OHLCVRecord is one candle of pool price data.
type OHLCVRecord struct {
	TimeOpen  string  `json:"time_open"`
	TimeClose string  `json:"time_close"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Transaction is a swap or liquidity event in a pool.
type Transaction struct {
	ID                   string `json:"id"`
	LogIndex             int    `json:"log_index"`
	TransactionIndex     int    `json:"transaction_index"`
	PoolID               string `json:"pool_id"`
	Sender               string `json:"sender"`
	Recipient            string `json:"recipient"`
	Token0               string `json:"token_0"`
	Token1               string `json:"token_1"`
	Amount0              string `json:"amount_0"`
	Amount1              string `json:"amount_1"`
	CreatedAtBlockNumber int64  `json:"created_at_block_number"`
}

// TransactionsPage is a page of pool transactions.
type TransactionsPage struct {
	Transactions []Transaction `json:"transactions"`
	PageInfo     PageInfo      `json:"page_info"`
}

// TokenSummary holds market figures for a token.
type TokenSummary struct {
	PriceUSD     float64 `json:"price_usd"`
	FDV          float64 `json:"fdv"`
	LiquidityUSD float64 `json:"liquidity_usd"`
}

// TokenDetails is the full description of a token.
type TokenDetails struct {
	Token
	TotalSupply float64       `json:"total_supply"`
	Description string        `json:"description"`
	Website     string        `json:"website"`
	HasImage    bool          `json:"has_image"`
	Summary     *TokenSummary `json:"summary,omitempty"`
}

// SearchResult holds entities matching a search query.
type SearchResult struct {
	Tokens []Token `json:"tokens"`
	Pools  []Pool  `json:"pools"`
	Dexes  []Dex   `json:"dexes"`
}

// Stats are ecosystem-wide totals.
type Stats struct {
	Chains    int `json:"chains"`
	Factories int `json:"factories"`
	Pools     int `json:"pools"`
	Tokens    int `json:"tokens"`
}
