package common

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ZERO_ADDRESS is used as the caller of read-only contract calls.
const ZERO_ADDRESS string = "0x0000000000000000000000000000000000000000"

// fundingabi is the ABI of the deployed Funding contract. It is kept inline
// so that a deployed instance can be bound without a build artifact.
const fundingabi string = `[
	{"inputs": [{"internalType": "address", "name": "_priceFeedAddress", "type": "address"}], "stateMutability": "nonpayable", "type": "constructor"},
	{"inputs": [{"internalType": "uint256", "name": "_amount", "type": "uint256"}], "name": "convert", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
	{"inputs": [{"internalType": "uint256", "name": "usdAmount", "type": "uint256"}], "name": "donate", "outputs": [], "stateMutability": "payable", "type": "function"},
	{"inputs": [{"internalType": "address", "name": "", "type": "address"}], "name": "funders", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "getPrice", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "owner", "outputs": [{"internalType": "address", "name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "withdraw", "outputs": [], "stateMutability": "payable", "type": "function"}
]`

const mockv3aggregatorabi string = `[
	{"inputs": [{"internalType": "uint8", "name": "_decimals", "type": "uint8"}, {"internalType": "int256", "name": "_initialAnswer", "type": "int256"}], "stateMutability": "nonpayable", "type": "constructor"},
	{"inputs": [], "name": "decimals", "outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "latestRoundData", "outputs": [
		{"internalType": "uint80", "name": "roundId", "type": "uint80"},
		{"internalType": "int256", "name": "answer", "type": "int256"},
		{"internalType": "uint256", "name": "startedAt", "type": "uint256"},
		{"internalType": "uint256", "name": "updatedAt", "type": "uint256"},
		{"internalType": "uint80", "name": "answeredInRound", "type": "uint80"}
	], "stateMutability": "view", "type": "function"},
	{"inputs": [{"internalType": "int256", "name": "_answer", "type": "int256"}], "name": "updateAnswer", "outputs": [], "stateMutability": "nonpayable", "type": "function"}
]`

func GetFundingABI() *abi.ABI {
	result, _ := abi.JSON(strings.NewReader(fundingabi))
	return &result
}

func GetMockV3AggregatorABI() *abi.ABI {
	result, _ := abi.JSON(strings.NewReader(mockv3aggregatorabi))
	return &result
}

func GetABIFromString(str string) (*abi.ABI, error) {
	result, err := abi.JSON(strings.NewReader(str))
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func HexToAddress(hex string) common.Address {
	return common.HexToAddress(hex)
}

func HexToHash(hex string) common.Hash {
	return common.HexToHash(hex)
}

// IsAddress reports whether str is a 0x prefixed 20 bytes hex string.
func IsAddress(str string) bool {
	return strings.HasPrefix(str, "0x") && common.IsHexAddress(str)
}
