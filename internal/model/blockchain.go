package model

import "time"

// BlockchainRecord is an append-only entry for one ownership transfer.
type BlockchainRecord struct {
	ID                int       `json:"id"`
	PropertyID        int       `json:"property_id"`
	BlockchainAddress string    `json:"blockchain_address"`
	TokenID           int       `json:"token_id"`
	PreviousOwner     int       `json:"previous_owner"`
	NewOwner          int       `json:"new_owner"`
	TxHash            string    `json:"tx_hash"`
	BlockNumber       int64     `json:"block_number"`
	CreatedAt         time.Time `json:"created_at"`
}
