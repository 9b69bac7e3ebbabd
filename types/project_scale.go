package types

import "github.com/spacemeshos/go-scale"

func (t *Worker) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeByteArray(enc, t.Worker[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteSlice(enc, t.JobDescription)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteArray(enc, t.Salary[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeUint32(enc, uint32(t.Hired))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (t *Worker) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		n, err := scale.DecodeByteArray(dec, t.Worker[:])
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
		t.JobDescription = field
	}
	{
		n, err := scale.DecodeByteArray(dec, t.Salary[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		field, n, err := decodeUint32(dec)
		if err != nil {
			return total, err
		}
		total += n
		t.Hired = BlockNumber(field)
	}
	return total, nil
}

func (t *Project) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeUint64(enc, uint64(t.ID))
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := t.Proposal.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeOption(enc, t.ProjectLeader)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeStructSlice(enc, t.OpenPositions)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeStructSlice(enc, t.Workers)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeUint32(enc, uint32(t.Deadline))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (t *Project) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := decodeUint64(dec)
		if err != nil {
			return total, err
		}
		total += n
		t.ID = ProjectID(field)
	}
	{
		n, err := t.Proposal.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		field, n, err := scale.DecodeOption[Worker](dec)
		if err != nil {
			return total, err
		}
		total += n
		t.ProjectLeader = field
	}
	{
		field, n, err := scale.DecodeStructSlice[DocumentCID](dec)
		if err != nil {
			return total, err
		}
		total += n
		t.OpenPositions = field
	}
	{
		field, n, err := scale.DecodeStructSlice[Worker](dec)
		if err != nil {
			return total, err
		}
		total += n
		t.Workers = field
	}
	{
		field, n, err := decodeUint32(dec)
		if err != nil {
			return total, err
		}
		total += n
		t.Deadline = BlockNumber(field)
	}
	return total, nil
}
