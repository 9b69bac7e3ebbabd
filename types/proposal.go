package types

import "github.com/sea212/Masterthesis-Superorganism/registry"

// Proposal is a submitted proposal and its vote count.
type Proposal struct {
	Proposal ProposalCID `cramberry:"1"`
	Votes    uint32      `cramberry:"2"`
}

// NewProposal returns a proposal with no votes.
func NewProposal(proposal ProposalCID) Proposal {
	return Proposal{Proposal: proposal}
}

// Concern is an objection raised against a winning proposal.
type Concern struct {
	AssociatedProposal ProposalCID `cramberry:"1"`
	Concern            ConcernCID  `cramberry:"2"`
	Votes              uint32      `cramberry:"3"`
}

// NewConcern returns a concern with no votes.
func NewConcern(concern ConcernCID, proposal ProposalCID) Concern {
	return Concern{AssociatedProposal: proposal, Concern: concern}
}

// ProposalWinner is a proposal that passed its vote, together with the
// concerns that passed theirs.
type ProposalWinner struct {
	Concerns []ConcernCID `cramberry:"1"`
	// Proposer is kept for later rewards.
	Proposer  IdentityID  `cramberry:"2"`
	Proposal  ProposalCID `cramberry:"3"`
	VoteRatio Permill     `cramberry:"4"`
}

// VecDeque is the per-round list of winners handed to the council.
type VecDeque []ProposalWinner

func (*Proposal) TypeName() string       { return registry.TypeProposal }
func (*Concern) TypeName() string        { return registry.TypeConcern }
func (*ProposalWinner) TypeName() string { return registry.TypeProposalWinner }
func (*VecDeque) TypeName() string       { return registry.TypeVecDeque }
