package config

// Values bound to command line flags.
var (
	Network    string
	ConfigFile string
	Verbose    bool
	LogFile    string

	From string

	GasPrice      float64
	ExtraGasPrice float64
	TipGas        float64
	ExtraTipGas   float64
	GasLimit      uint64
	ExtraGasLimit uint64
	Nonce         uint64
	ForceLegacy   bool
	DynamicFee    bool

	DontBroadcast     bool
	DontWaitToBeMined bool

	FundingAddress string
	Value          string
)

const DEFAULT_CONFIG_FILE = "fundctl.yaml"

// DEFAULT_FUNDING_ADDRESS is where the Funding contract lands on a fresh
// deterministic ganache when deployed by its first account.
const DEFAULT_FUNDING_ADDRESS = "0x271eeF818C84f592c105008a983F2208e24bbAc7"
