// Package types defines Go mirrors of the superorganism runtime types
// named in the registry package.
//
// These are plain Go structs with cramberry struct tags for the
// transport packages and EncodeScale/DecodeScale methods producing the
// chain's SCALE layout. Field order in every struct matches the
// on-chain definition.
package types

import (
	"encoding/hex"
	"fmt"
)

// AccountID is a 32-byte substrate account identifier.
type AccountID [32]byte

// Address and LookupSource are how the runtime addresses accounts.
type (
	Address      = AccountID
	LookupSource = AccountID
)

// IdentityID identifies a community member. ID is the event alias.
type (
	IdentityID = AccountID
	ID         = IdentityID
)

// AccountIDFromBytes copies b into an AccountID.
func AccountIDFromBytes(b []byte) (AccountID, error) {
	var a AccountID
	if len(b) != len(a) {
		return a, fmt.Errorf("types: account id must be %d bytes, got %d", len(a), len(b))
	}
	copy(a[:], b)
	return a, nil
}

// AccountIDFromHex parses a hex account id, with or without 0x prefix.
func AccountIDFromHex(s string) (AccountID, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return AccountID{}, fmt.Errorf("types: account id: %w", err)
	}
	return AccountIDFromBytes(b)
}

// String returns the 0x-prefixed hex form.
func (a AccountID) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IdentityLevel is the verification level of an identity.
type IdentityLevel uint8

// ProofType is a 32-byte proof of physical identity.
type ProofType [32]byte

// Ticket identifies a council poll.
type Ticket uint64

// ProjectID identifies a project spawned from a winning proposal.
type ProjectID uint64

// BlockNumber is the runtime block number.
type BlockNumber uint32
