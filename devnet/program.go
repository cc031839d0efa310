package devnet

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrExecutionReverted is matched by every revert raised while executing a
// program, use errors.Is to detect it.
var ErrExecutionReverted = errors.New("execution reverted")

// Revert aborts the current call and rolls back its state changes.
type Revert struct {
	Reason string
}

func (r *Revert) Error() string {
	if r.Reason == "" {
		return ErrExecutionReverted.Error()
	}
	return fmt.Sprintf("%s: %s", ErrExecutionReverted, r.Reason)
}

func (r *Revert) Unwrap() error {
	return ErrExecutionReverted
}

func Revertf(format string, args ...interface{}) error {
	return &Revert{Reason: fmt.Sprintf(format, args...)}
}

// Program is the Go stand-in for the runtime bytecode of a contract. A
// program holds no state of its own, everything it persists goes through
// Env so that reverts and read-only calls can discard it.
type Program interface {
	ABI() *abi.ABI
	Call(env *Env, method *abi.Method, args []interface{}) ([]interface{}, error)
}

// Factory runs a constructor. args are the unpacked constructor inputs.
type Factory func(env *Env, args []interface{}) (Program, error)

type registration struct {
	code    []byte
	abi     *abi.ABI
	factory Factory
}

// Env is the execution context of one call frame.
type Env struct {
	chain  *Chain
	st     *state
	depth  int
	Self   common.Address
	Caller common.Address
	Value  *big.Int
	Static bool
}

func (e *Env) Now() uint64 {
	return e.chain.now()
}

func (e *Env) Load(key string) common.Hash {
	return e.st.load(e.Self, key)
}

func (e *Env) Store(key string, value common.Hash) error {
	if e.Static {
		return Revertf("state change during static call")
	}
	e.st.store(e.Self, key, value)
	return nil
}

func (e *Env) LoadBig(key string) *big.Int {
	return fromWord(e.Load(key))
}

func (e *Env) StoreBig(key string, value *big.Int) error {
	return e.Store(key, toWord(value))
}

func (e *Env) LoadAddress(key string) common.Address {
	return common.BytesToAddress(e.Load(key).Bytes())
}

func (e *Env) StoreAddress(key string, addr common.Address) error {
	return e.Store(key, common.BytesToHash(addr.Bytes()))
}

func (e *Env) Balance(addr common.Address) *big.Int {
	return new(big.Int).Set(e.st.balance(addr))
}

// Transfer moves amount from the running contract to addr.
func (e *Env) Transfer(to common.Address, amount *big.Int) error {
	if e.Static {
		return Revertf("value transfer during static call")
	}
	return e.st.transfer(e.Self, to, amount)
}

// StaticCall calls another contract without allowing it to change state.
func (e *Env) StaticCall(to common.Address, data []byte) ([]byte, error) {
	return e.chain.call(e.st, e.Self, to, nil, data, true, e.depth+1)
}

var two256 = new(big.Int).Lsh(big.NewInt(1), 256)
var two255 = new(big.Int).Lsh(big.NewInt(1), 255)

// toWord stores a signed integer as a 256 bits two's complement word.
func toWord(v *big.Int) common.Hash {
	if v.Sign() < 0 {
		return common.BigToHash(new(big.Int).Add(two256, v))
	}
	return common.BigToHash(v)
}

func fromWord(h common.Hash) *big.Int {
	v := h.Big()
	if v.Cmp(two255) >= 0 {
		v.Sub(v, two256)
	}
	return v
}
