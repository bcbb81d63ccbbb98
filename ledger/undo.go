package ledger

import (
	"github.com/ethereum/go-ethereum/common"
)

type prevAccount struct {
	acc     Account
	existed bool
}

// Undo journals the first-touch value of every account a batch of
// mutations modifies. Reverting restores those values exactly, deleting
// accounts the batch created. One Undo spans one block.
type Undo struct {
	prev map[common.Address]prevAccount
}

// NewUndo returns an empty journal.
func NewUndo() *Undo {
	return &Undo{
		prev: make(map[common.Address]prevAccount),
	}
}

// note records addr's current value unless already journaled. A nil
// receiver is a no-op so consensus code can pass nil when it doesn't
// need rollback.
func (u *Undo) note(s *State, addr common.Address) {
	if u == nil {
		return
	}
	if _, ok := u.prev[addr]; ok {
		return
	}
	acc, existed := s.accounts[addr]
	u.prev[addr] = prevAccount{acc: acc, existed: existed}
}

// Revert restores every journaled account to its first-touch value.
func (u *Undo) Revert(s *State) {
	if u == nil {
		return
	}
	for addr, p := range u.prev {
		if p.existed {
			s.accounts[addr] = p.acc
		} else {
			delete(s.accounts, addr)
		}
	}
}

// Touched returns the number of journaled accounts.
func (u *Undo) Touched() int {
	if u == nil {
		return 0
	}
	return len(u.prev)
}
