// Package ledger maintains account state and applies transactions to it.
//
// Every account holds a single unified balance. The legacy
// consumer/industrial split survives only in fee bookkeeping (see the
// fee package); it never partitions spendable funds, so a transfer is
// checked against one balance and one balance only.
//
// Mutations can be journaled into an Undo record, which restores the
// exact prior state on revert. Chain reorganizations are built on this.
package ledger

import (
	"encoding/binary"
	"errors"
	"math/bits"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/blocknet/go-blocknet/blocknet"
	"github.com/blocknet/go-blocknet/fee"
	"github.com/blocknet/go-blocknet/inter"
)

var (
	// ErrBadNonce is returned when a transaction's nonce isn't exactly
	// the sender's nonce + 1.
	ErrBadNonce = errors.New("invalid nonce")
	// ErrInsufficientFunds is returned when the sender cannot cover
	// amount + fee from its unified balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrValueTooLarge is returned for amounts >= 2^63.
	ErrValueTooLarge = errors.New("amount out of range")
	// ErrBalanceOverflow is returned when a credit would push a balance
	// past the supply cap.
	ErrBalanceOverflow = errors.New("balance exceeds supply cap")
	// ErrUnknownAccount is returned by lookups that require existence.
	ErrUnknownAccount = errors.New("unknown account")
)

var stateDomainTag = []byte("BLOCK_STATE")

// Account is the full per-address state.
type Account struct {
	Balance uint64
	Nonce   uint64
}

// State is the account map at some chain position. It is not safe for
// concurrent mutation; the chain store serializes writers.
type State struct {
	accounts map[common.Address]Account
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		accounts: make(map[common.Address]Account),
	}
}

// Copy returns a deep copy. Used to build scratch states for validation
// so a rejected block never touches the committed state.
func (s *State) Copy() *State {
	cp := &State{
		accounts: make(map[common.Address]Account, len(s.accounts)),
	}
	for addr, acc := range s.accounts {
		cp.accounts[addr] = acc
	}
	return cp
}

// Account returns the state of addr. Unknown addresses read as zero
// accounts.
func (s *State) Account(addr common.Address) Account {
	return s.accounts[addr]
}

// Exists reports whether addr has ever been touched.
func (s *State) Exists(addr common.Address) bool {
	_, ok := s.accounts[addr]
	return ok
}

// SetAccount overwrites the state of addr. Used by genesis seeding and
// undo; consensus paths go through ApplyTx and Credit.
func (s *State) SetAccount(addr common.Address, acc Account) {
	s.accounts[addr] = acc
}

// Len returns the number of touched accounts.
func (s *State) Len() int {
	return len(s.accounts)
}

// TotalBalance sums every account balance. The result is bounded by
// MaxSupply, which keeps plain uint64 summation safe.
func (s *State) TotalBalance() uint64 {
	var total uint64
	for _, acc := range s.accounts {
		total += acc.Balance
	}
	return total
}

// ApplyTx validates tx against the current state and applies it,
// journaling prior account values into u (nil disables journaling).
// Returns the fee lane decomposition for block-level bookkeeping.
//
// Checks, in order: value range, fee algebra, nonce continuity, funds,
// recipient balance cap. A failed check leaves the state untouched.
// Signature validity is the caller's concern.
func (s *State) ApplyTx(tx *inter.Transaction, u *Undo) (feeCT, feeIT uint64, err error) {
	if tx.Amount > inter.MaxTxValue {
		return 0, 0, ErrValueTooLarge
	}
	feeCT, feeIT, err = fee.Decompose(tx.FeeSelector, tx.Fee)
	if err != nil {
		return 0, 0, err
	}

	sender := s.Account(tx.From)
	if tx.Nonce != sender.Nonce+1 {
		return 0, 0, ErrBadNonce
	}

	// amount and fee are both < 2^63, the sum cannot wrap
	needed := tx.Amount + tx.Fee
	if sender.Balance < needed {
		return 0, 0, ErrInsufficientFunds
	}

	if tx.IsSelfTransfer() {
		// fee-only no-op: the amount stays put, the fee still leaves
		// the balance and the nonce still advances
		u.note(s, tx.From)
		sender.Balance -= tx.Fee
		sender.Nonce++
		s.accounts[tx.From] = sender
		return feeCT, feeIT, nil
	}

	recipient := s.Account(tx.To)
	newBalance, carry := bits.Add64(recipient.Balance, tx.Amount, 0)
	if carry != 0 || newBalance > blocknet.MaxSupply {
		return 0, 0, ErrBalanceOverflow
	}

	u.note(s, tx.From)
	u.note(s, tx.To)

	sender.Balance -= needed
	sender.Nonce++
	recipient.Balance = newBalance

	s.accounts[tx.From] = sender
	s.accounts[tx.To] = recipient
	return feeCT, feeIT, nil
}

// Credit adds amount to addr, enforcing the supply cap. Used for the
// coinbase payout and genesis allocations.
func (s *State) Credit(addr common.Address, amount uint64, u *Undo) error {
	acc := s.Account(addr)
	newBalance, carry := bits.Add64(acc.Balance, amount, 0)
	if carry != 0 || newBalance > blocknet.MaxSupply {
		return ErrBalanceOverflow
	}
	u.note(s, addr)
	acc.Balance = newBalance
	s.accounts[addr] = acc
	return nil
}

// Root computes the deterministic state commitment: accounts sorted by
// address, hashed under the state domain tag.
func (s *State) Root() common.Hash {
	addrs := make([]common.Address, 0, len(s.accounts))
	for addr := range s.accounts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return string(addrs[i][:]) < string(addrs[j][:])
	})

	data := make([]byte, 0, len(stateDomainTag)+len(addrs)*(common.AddressLength+16))
	data = append(data, stateDomainTag...)
	var buf [8]byte
	for _, addr := range addrs {
		acc := s.accounts[addr]
		data = append(data, addr[:]...)
		binary.LittleEndian.PutUint64(buf[:], acc.Balance)
		data = append(data, buf[:]...)
		binary.LittleEndian.PutUint64(buf[:], acc.Nonce)
		data = append(data, buf[:]...)
	}
	return crypto.Keccak256Hash(data)
}
