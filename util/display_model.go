package util

import "github.com/tranvictor/fundctl/ui"

// TxDisplay is the human-readable view-model of a sent transaction.
// StyledText fields carry Severity annotations used only by the terminal
// print phase; JSON consumers receive clean plain strings.
type TxDisplay struct {
	Hash     string        `json:"hash"`
	Status   ui.StyledText `json:"status"`
	From     ui.StyledText `json:"from"`
	To       ui.StyledText `json:"to"`
	Contract string        `json:"contract,omitempty"`
	Value    string        `json:"value"`

	Nonce    string `json:"nonce"`
	GasPrice string `json:"gas_price"`
	GasLimit string `json:"gas_limit"`
	GasUsed  string `json:"gas_used,omitempty"`
	GasCost  string `json:"gas_cost,omitempty"`
	Block    string `json:"block,omitempty"`

	// RawTx is set for txs that were signed but not broadcasted.
	RawTx string `json:"raw_tx,omitempty"`
}
