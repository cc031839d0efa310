package util

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	fundcommon "github.com/tranvictor/fundctl/common"
	"github.com/tranvictor/fundctl/networks"
	"github.com/tranvictor/fundctl/ui"
	"github.com/tranvictor/fundctl/util/txsender"
)

// Labels names addresses the user knows, eg. their account or the Funding
// contract.
type Labels map[common.Address]string

func (l Labels) styled(addr common.Address) ui.StyledText {
	if name, found := l[addr]; found {
		return ui.StyledText{Text: fmt.Sprintf("%s (%s)", addr.Hex(), name), Severity: ui.SeveritySuccess}
	}
	return ui.StyledText{Text: addr.Hex(), Severity: ui.SeverityWarn}
}

func styledStatus(status string) ui.StyledText {
	switch status {
	case fundcommon.TxStatusDone:
		return ui.StyledText{Text: "✓ " + status, Severity: ui.SeveritySuccess}
	case fundcommon.TxStatusReverted, fundcommon.TxStatusLost, fundcommon.TxStatusError:
		return ui.StyledText{Text: status, Severity: ui.SeverityError}
	}
	return ui.StyledText{Text: status, Severity: ui.SeverityWarn}
}

// ── Build phase (pure: no UI side-effects) ──────────────────────────────────

func buildTxDisplay(result *txsender.Result, network networks.Network, labels Labels) *TxDisplay {
	tx := result.Tx
	d := &TxDisplay{
		Hash:     tx.Hash().Hex(),
		Status:   styledStatus(result.Info.Status),
		Value:    fundcommon.WeiToEthString(tx.Value(), network.GetNativeTokenSymbol()),
		Nonce:    fmt.Sprintf("%d", tx.Nonce()),
		GasPrice: fundcommon.BigToFloatString(tx.GasFeeCap(), 9),
		GasLimit: fmt.Sprintf("%d", tx.Gas()),
	}
	if !result.Broadcasted {
		d.Status = ui.StyledText{Text: "not broadcasted", Severity: ui.SeverityWarn}
		d.RawTx = result.RawTx
	}

	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err == nil {
		d.From = labels.styled(from)
	}
	if tx.To() != nil {
		d.To = labels.styled(*tx.To())
	} else {
		d.To = ui.StyledText{Text: "contract creation", Severity: ui.SeverityInfo}
		if err == nil {
			d.Contract = crypto.CreateAddress(from, tx.Nonce()).Hex()
		}
	}

	if receipt := result.Info.Receipt; receipt != nil {
		d.GasUsed = fmt.Sprintf("%d", receipt.GasUsed)
		d.GasCost = fundcommon.WeiToEthString(result.Info.GasCost(), network.GetNativeTokenSymbol())
		if receipt.BlockNumber != nil {
			d.Block = receipt.BlockNumber.String()
		}
		if receipt.ContractAddress != (common.Address{}) {
			d.Contract = receipt.ContractAddress.Hex()
		}
	}
	return d
}

// ── Print phase ─────────────────────────────────────────────────────────────

func printTxDisplay(u ui.UI, d *TxDisplay) {
	txGroup := [][]string{
		{"Hash", d.Hash},
		{"Status", u.Style(d.Status)},
		{"From", u.Style(d.From)},
		{"To", u.Style(d.To)},
		{"Value", d.Value},
	}
	if d.Contract != "" {
		txGroup = append(txGroup, []string{"Contract", d.Contract})
	}
	gasGroup := [][]string{
		{"Nonce", d.Nonce},
		{"Gas price", d.GasPrice + " gwei"},
		{"Gas limit", d.GasLimit},
	}
	if d.GasUsed != "" {
		gasGroup = append(gasGroup,
			[]string{"Gas used", d.GasUsed},
			[]string{"Gas cost", d.GasCost},
		)
	}
	if d.Block != "" {
		gasGroup = append(gasGroup, []string{"Block", d.Block})
	}
	u.TableWithGroups(nil, [][][]string{txGroup, gasGroup})
	if d.RawTx != "" {
		u.Critical("Signed tx: %s", d.RawTx)
	}
}

// DisplayTxResult builds the view-model of a sent transaction and writes it
// to u.
func DisplayTxResult(u ui.UI, result *txsender.Result, network networks.Network, labels Labels) *TxDisplay {
	d := buildTxDisplay(result, network, labels)
	printTxDisplay(u, d)
	return d
}
