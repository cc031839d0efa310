package devnet

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type state struct {
	balances map[common.Address]*big.Int
	nonces   map[common.Address]uint64
	code     map[common.Address][]byte
	programs map[common.Address]Program
	storage  map[common.Address]map[string]common.Hash
}

func newState() *state {
	return &state{
		balances: map[common.Address]*big.Int{},
		nonces:   map[common.Address]uint64{},
		code:     map[common.Address][]byte{},
		programs: map[common.Address]Program{},
		storage:  map[common.Address]map[string]common.Hash{},
	}
}

// copy is deep except for code and programs which are never mutated in place.
func (s *state) copy() *state {
	result := newState()
	for addr, b := range s.balances {
		result.balances[addr] = new(big.Int).Set(b)
	}
	for addr, n := range s.nonces {
		result.nonces[addr] = n
	}
	for addr, c := range s.code {
		result.code[addr] = c
	}
	for addr, p := range s.programs {
		result.programs[addr] = p
	}
	for addr, slots := range s.storage {
		cp := make(map[string]common.Hash, len(slots))
		for k, v := range slots {
			cp[k] = v
		}
		result.storage[addr] = cp
	}
	return result
}

func (s *state) balance(addr common.Address) *big.Int {
	if b, ok := s.balances[addr]; ok {
		return b
	}
	return new(big.Int)
}

func (s *state) addBalance(addr common.Address, amount *big.Int) {
	s.balances[addr] = new(big.Int).Add(s.balance(addr), amount)
}

func (s *state) subBalance(addr common.Address, amount *big.Int) {
	s.balances[addr] = new(big.Int).Sub(s.balance(addr), amount)
}

func (s *state) transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if s.balance(from).Cmp(amount) < 0 {
		return Revertf("insufficient balance for transfer")
	}
	s.subBalance(from, amount)
	s.addBalance(to, amount)
	return nil
}

func (s *state) load(addr common.Address, key string) common.Hash {
	return s.storage[addr][key]
}

func (s *state) store(addr common.Address, key string, value common.Hash) {
	slots, ok := s.storage[addr]
	if !ok {
		slots = map[string]common.Hash{}
		s.storage[addr] = slots
	}
	if value == (common.Hash{}) {
		delete(slots, key)
		return
	}
	slots[key] = value
}
