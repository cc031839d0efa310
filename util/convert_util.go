package util

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	fundcommon "github.com/tranvictor/fundctl/common"
	"github.com/tranvictor/fundctl/networks"
)

// ConvertToBig parses a wei amount. It accepts a plain integer, a hex
// integer, or an amount followed by a unit: wei, gwei, ether or the
// network's native token symbol, eg. "0.05 ETH".
func ConvertToBig(str string, network networks.Network) (*big.Int, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return nil, fmt.Errorf("invalid int format: empty string")
	}
	parts := strings.Fields(str)
	if len(parts) == 1 {
		if strings.HasPrefix(str, "0x") {
			return hexutil.DecodeBig(str)
		}
		resultBig, ok := big.NewInt(0).SetString(str, 10)
		if !ok {
			return nil, fmt.Errorf("can't convert %s to big int", str)
		}
		if resultBig.Sign() < 0 {
			return nil, fmt.Errorf("amount can't be negative: %s", str)
		}
		return resultBig, nil
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("`%s` is invalid, use an amount followed by a unit", str)
	}
	amount, unit := parts[0], parts[1]
	var decimal uint64
	switch {
	case strings.EqualFold(unit, "wei"):
		decimal = 0
	case strings.EqualFold(unit, "gwei"):
		decimal = 9
	case strings.EqualFold(unit, "ether"), strings.EqualFold(unit, network.GetNativeTokenSymbol()):
		decimal = network.GetNativeTokenDecimal()
	default:
		return nil, fmt.Errorf("unknown unit %s", unit)
	}
	result, err := fundcommon.FloatStringToBig(amount, decimal)
	if err != nil {
		return nil, err
	}
	if result.Sign() < 0 {
		return nil, fmt.Errorf("amount can't be negative: %s", str)
	}
	return result, nil
}

// ConvertToUSD parses a whole dollar amount such as "300", "$300" or
// "300 USD".
func ConvertToUSD(str string) (*big.Int, error) {
	str = strings.TrimSpace(str)
	str = strings.TrimPrefix(str, "$")
	if fields := strings.Fields(str); len(fields) == 2 && strings.EqualFold(fields[1], "usd") {
		str = fields[0]
	}
	result, err := fundcommon.StringToBigInt(str)
	if err != nil {
		return nil, fmt.Errorf("`%s` is not a whole dollar amount", strings.TrimSpace(str))
	}
	if result.Sign() < 0 {
		return nil, fmt.Errorf("usd amount can't be negative")
	}
	return result, nil
}

func ConvertToAddress(str string) (common.Address, error) {
	addresses := ScanForAddresses(strings.TrimSpace(str))
	if len(addresses) == 0 {
		return common.Address{}, fmt.Errorf("invalid address: %s", str)
	}
	if len(addresses) > 1 {
		return common.Address{}, fmt.Errorf("too many addresses provided")
	}
	return fundcommon.HexToAddress(addresses[0]), nil
}
