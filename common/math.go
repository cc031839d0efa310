package common

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

var (
	// Big1e10 scales an 8 decimals oracle answer up to 18 decimals.
	Big1e10 = new(big.Int).Exp(big.NewInt(10), big.NewInt(10), nil)
	Big1e18 = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	Big1e36 = new(big.Int).Exp(big.NewInt(10), big.NewInt(36), nil)
)

func FloatToInt(amount float64) int64 {
	s := fmt.Sprintf("%.0f", amount)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	} else {
		panic(err)
	}
}

// FloatToBigInt converts a float to a big int with specific decimal
// Example:
// - FloatToBigInt(1, 4) = 10000
// - FloatToBigInt(1.234, 4) = 12340
func FloatToBigInt(amount float64, decimal uint64) *big.Int {
	// 9 is our smallest precision, amounts below 1e-9 lose precision
	if decimal < 9 {
		return big.NewInt(FloatToInt(amount * math.Pow10(int(decimal))))
	}
	result := big.NewInt(FloatToInt(amount * math.Pow10(9)))
	return result.Mul(result, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimal-9)), nil))
}

// BigToFloat converts a big int to float according to its number of decimal digits
// Example:
// - BigToFloat(1100, 3) = 1.1
// - BigToFloat(1100, 2) = 11
// - BigToFloat(1100, 5) = 0.011
func BigToFloat(b *big.Int, decimal uint64) float64 {
	f := new(big.Float).SetInt(b)
	power := new(big.Float).SetInt(new(big.Int).Exp(
		big.NewInt(10), big.NewInt(int64(decimal)), nil,
	))
	res := new(big.Float).Quo(f, power)
	result, _ := res.Float64()
	return result
}

// GweiToWei converts Gwei as a float to Wei as a big int
func GweiToWei(n float64) *big.Int {
	return FloatToBigInt(n, 9)
}

// EthToWei converts Eth as a float to Wei as a big int
func EthToWei(n float64) *big.Int {
	return FloatToBigInt(n, 18)
}

func StringToBigInt(str string) (*big.Int, error) {
	result, success := new(big.Int).SetString(strings.TrimSpace(str), 10)
	if !success {
		return nil, fmt.Errorf("parsed %s to big int failed", str)
	}
	return result, nil
}

// FloatStringToBig parses a decimal string such as "0.25" into an integer
// amount with the given number of decimals. It is exact, unlike FloatToBigInt.
func FloatStringToBig(value string, decimal uint64) (*big.Int, error) {
	value = strings.TrimSpace(value)
	neg := strings.HasPrefix(value, "-")
	value = strings.TrimPrefix(value, "-")
	parts := strings.Split(value, ".")
	if len(parts) > 2 || value == "" || strings.ContainsAny(value, "+-") {
		return nil, fmt.Errorf("couldn't parse %q as a decimal number", value)
	}
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}
	if uint64(len(frac)) > decimal {
		return nil, fmt.Errorf("%q has more than %d decimals", value, decimal)
	}
	digits := parts[0] + frac + strings.Repeat("0", int(decimal)-len(frac))
	result, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("couldn't parse %q as a decimal number", value)
	}
	if neg {
		result.Neg(result)
	}
	return result, nil
}

// BigToFloatString renders value with decimal digits, trimming trailing zeros.
// Example: BigToFloatString(1500000000000000000, 18) = "1.5"
func BigToFloatString(value *big.Int, decimal uint64) string {
	if value == nil {
		return "0"
	}
	abs := new(big.Int).Abs(value)
	s := abs.String()
	if uint64(len(s)) <= decimal {
		s = strings.Repeat("0", int(decimal)-len(s)+1) + s
	}
	point := len(s) - int(decimal)
	result := s[:point]
	if frac := strings.TrimRight(s[point:], "0"); frac != "" {
		result += "." + frac
	}
	if value.Sign() < 0 {
		result = "-" + result
	}
	return result
}

// WeiToEthString formats a wei amount as ether, eg "0.6 ETH".
func WeiToEthString(wei *big.Int, symbol string) string {
	return fmt.Sprintf("%s %s", BigToFloatString(wei, 18), symbol)
}
