package types

import (
	"fmt"

	"github.com/spacemeshos/go-scale"
)

func (t *States) EncodeScale(enc *scale.Encoder) (total int, err error) {
	if !t.Valid() {
		return 0, fmt.Errorf("states: invalid discriminant %d", uint8(*t))
	}
	return scale.EncodeByte(enc, uint8(*t))
}

func (t *States) DecodeScale(dec *scale.Decoder) (total int, err error) {
	v, n, err := scale.DecodeByte(dec)
	if err != nil {
		return n, err
	}
	if s := States(v); !s.Valid() {
		return n, fmt.Errorf("states: invalid discriminant %d", v)
	}
	*t = States(v)
	return n, nil
}

func (t *Proposal) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeByteSlice(enc, t.Proposal)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeUint32(enc, t.Votes)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (t *Proposal) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeByteSlice(dec)
		if err != nil {
			return total, err
		}
		total += n
		t.Proposal = field
	}
	{
		field, n, err := decodeUint32(dec)
		if err != nil {
			return total, err
		}
		total += n
		t.Votes = field
	}
	return total, nil
}

func (t *Concern) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeByteSlice(enc, t.AssociatedProposal)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteSlice(enc, t.Concern)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeUint32(enc, t.Votes)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (t *Concern) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeByteSlice(dec)
		if err != nil {
			return total, err
		}
		total += n
		t.AssociatedProposal = field
	}
	{
		field, n, err := scale.DecodeByteSlice(dec)
		if err != nil {
			return total, err
		}
		total += n
		t.Concern = field
	}
	{
		field, n, err := decodeUint32(dec)
		if err != nil {
			return total, err
		}
		total += n
		t.Votes = field
	}
	return total, nil
}

func (t *ProposalWinner) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeStructSlice(enc, t.Concerns)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteArray(enc, t.Proposer[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteSlice(enc, t.Proposal)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeUint32(enc, uint32(t.VoteRatio))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (t *ProposalWinner) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeStructSlice[ConcernCID](dec)
		if err != nil {
			return total, err
		}
		total += n
		t.Concerns = field
	}
	{
		n, err := scale.DecodeByteArray(dec, t.Proposer[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		field, n, err := scale.DecodeByteSlice(dec)
		if err != nil {
			return total, err
		}
		total += n
		t.Proposal = field
	}
	{
		field, n, err := decodeUint32(dec)
		if err != nil {
			return total, err
		}
		total += n
		t.VoteRatio = Permill(field)
	}
	return total, nil
}

func (t *VecDeque) EncodeScale(enc *scale.Encoder) (total int, err error) {
	return scale.EncodeStructSlice(enc, []ProposalWinner(*t))
}

func (t *VecDeque) DecodeScale(dec *scale.Decoder) (total int, err error) {
	field, n, err := scale.DecodeStructSlice[ProposalWinner](dec)
	if err != nil {
		return n, err
	}
	*t = field
	return n, nil
}
