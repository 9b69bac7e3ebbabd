package types

import (
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// ProposalCID references off-chain proposal content by its IPFS
// content identifier. On chain it is an unconstrained byte vector.
type ProposalCID []byte

// ConcernCID and DocumentCID share the representation of ProposalCID.
type (
	ConcernCID  = ProposalCID
	DocumentCID = ProposalCID
)

// NewCID stores c in its textual form, which is what the frontend
// submits to the chain.
func NewCID(c cid.Cid) ProposalCID {
	return ProposalCID(c.String())
}

// CIDFromContent hashes data with SHA2-256 and returns the CIDv1 (raw
// codec) identifying it.
func CIDFromContent(data []byte) (ProposalCID, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return nil, fmt.Errorf("types: hash content: %w", err)
	}
	return NewCID(cid.NewCidV1(cid.Raw, mh)), nil
}

// ParseCID parses a content identifier from b. Both the textual
// (multibase or base58) form and the binary form are accepted.
func ParseCID(b []byte) (cid.Cid, error) {
	if len(b) == 0 {
		return cid.Undef, fmt.Errorf("types: empty CID")
	}
	if utf8.Valid(b) {
		if c, err := cid.Decode(string(b)); err == nil {
			return c, nil
		}
	}
	c, err := cid.Cast(b)
	if err != nil {
		return cid.Undef, fmt.Errorf("types: %s is not a CID: %w", ProposalCID(b), err)
	}
	return c, nil
}

// CID parses p.
func (p ProposalCID) CID() (cid.Cid, error) {
	return ParseCID(p)
}

// Matches reports whether p identifies data, comparing multihashes
// so CIDv0 and CIDv1 references to the same content agree.
func (p ProposalCID) Matches(data []byte) (bool, error) {
	c, err := p.CID()
	if err != nil {
		return false, err
	}
	prefix := c.Prefix()
	sum, err := prefix.Sum(data)
	if err != nil {
		return false, fmt.Errorf("types: hash content: %w", err)
	}
	return string(sum.Hash()) == string(c.Hash()), nil
}

// Equal compares the raw bytes.
func (p ProposalCID) Equal(o ProposalCID) bool {
	return string(p) == string(o)
}

func (p ProposalCID) String() string {
	if utf8.Valid(p) {
		return string(p)
	}
	return "0x" + hex.EncodeToString(p)
}
