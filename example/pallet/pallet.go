// Package pallet implements an in-memory stand-in for the proposal
// pallet. It runs the propose / vote / concern / council round on the
// records of package types and reports every state rotation to a
// registry service, the way a chain observer would.
package pallet

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

var (
	ErrWrongState = errors.New("pallet: wrong state")
	ErrDuplicate  = errors.New("pallet: already submitted")
	ErrNotFound   = errors.New("pallet: not found")
)

// Config holds the acceptance thresholds of the pallet.
type Config struct {
	// ProposeVoteAcceptanceMin is the share of all proposal votes a
	// proposal needs to win.
	ProposeVoteAcceptanceMin types.Permill
	// ConcernVoteAcceptanceMin is the share of all concern votes a
	// concern needs to be attached to its proposal.
	ConcernVoteAcceptanceMin types.Permill
	// CouncilDenyMin is the share of council "no" votes that denies a
	// winner. Below it a project is spawned.
	CouncilDenyMin types.Permill
	// ProjectDuration is added to the current block to set a spawned
	// project's deadline.
	ProjectDuration types.BlockNumber
}

// DefaultConfig returns the thresholds of the development runtime.
func DefaultConfig() Config {
	return Config{
		ProposeVoteAcceptanceMin: 100_000,
		ConcernVoteAcceptanceMin: 100_000,
		CouncilDenyMin:           500_000,
		ProjectDuration:          types.BlocksIn(24 * time.Hour),
	}
}

// CouncilFunc returns the council's yes and no votes on a winner.
type CouncilFunc func(types.ProposalWinner) (yes, no uint32)

type submitted struct {
	by       types.IdentityID
	proposal types.Proposal
}

type raised struct {
	by      types.IdentityID
	concern types.Concern
}

// Pallet is safe for concurrent use.
type Pallet struct {
	mu      sync.Mutex
	cfg     Config
	svc     superorganism.TypeService
	council CouncilFunc

	state        types.States
	round        uint8
	block        types.BlockNumber
	proposals    []submitted
	proposalVote uint32
	concerns     []raised
	concernVote  uint32
	winners      types.VecDeque
	projects     []types.Project
	nextProject  types.ProjectID
}

// New creates a pallet in the Uninitialized state.
func New(svc superorganism.TypeService, cfg Config, council CouncilFunc) *Pallet {
	return &Pallet{cfg: cfg, svc: svc, council: council}
}

func (p *Pallet) expect(s types.States) error {
	if p.state != s {
		return fmt.Errorf("%w: %s, want %s", ErrWrongState, p.state, s)
	}
	return nil
}

// Propose submits a proposal.
func (p *Pallet) Propose(by types.IdentityID, proposal types.ProposalCID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.expect(types.StatePropose); err != nil {
		return err
	}
	for _, s := range p.proposals {
		if s.proposal.Proposal.Equal(proposal) {
			return fmt.Errorf("%w: proposal %s", ErrDuplicate, proposal)
		}
	}
	p.proposals = append(p.proposals, submitted{by: by, proposal: types.NewProposal(proposal)})
	return nil
}

// VoteProposal adds one vote to a submitted proposal.
func (p *Pallet) VoteProposal(proposal types.ProposalCID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.expect(types.StateVotePropose); err != nil {
		return err
	}
	for i := range p.proposals {
		if p.proposals[i].proposal.Proposal.Equal(proposal) {
			p.proposals[i].proposal.Votes++
			p.proposalVote++
			return nil
		}
	}
	return fmt.Errorf("%w: proposal %s", ErrNotFound, proposal)
}

// Concern raises a concern against a winning proposal.
func (p *Pallet) Concern(by types.IdentityID, concern types.ConcernCID, proposal types.ProposalCID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.expect(types.StateConcern); err != nil {
		return err
	}
	for _, c := range p.concerns {
		if c.concern.Concern.Equal(concern) && c.concern.AssociatedProposal.Equal(proposal) {
			return fmt.Errorf("%w: concern %s", ErrDuplicate, concern)
		}
	}
	p.concerns = append(p.concerns, raised{by: by, concern: types.NewConcern(concern, proposal)})
	return nil
}

// VoteConcern adds one vote to a raised concern.
func (p *Pallet) VoteConcern(concern types.ConcernCID, proposal types.ProposalCID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.expect(types.StateVoteConcern); err != nil {
		return err
	}
	for i := range p.concerns {
		c := &p.concerns[i].concern
		if c.Concern.Equal(concern) && c.AssociatedProposal.Equal(proposal) {
			c.Votes++
			p.concernVote++
			return nil
		}
	}
	return fmt.Errorf("%w: concern %s", ErrNotFound, concern)
}

// StateTransit advances the pallet by one phase at block now and
// reports the rotation to the registry service. If the service rejects
// the rotation the pallet is left unchanged.
func (p *Pallet) StateTransit(ctx context.Context, now types.BlockNumber) (types.StateReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next, winners := p.decide()
	report, err := p.svc.Rotate(ctx, next)
	if err != nil {
		return report, err
	}

	p.block = now
	switch p.state {
	case types.StateVotePropose:
		p.winners = winners
		p.proposals, p.proposalVote = nil, 0
	case types.StateVoteConcern:
		p.winners = winners
		p.concerns, p.concernVote = nil, 0
	case types.StateVoteCouncil:
		p.spawnProjects()
		p.winners = nil
	}
	if p.state.StartsRound(next) {
		p.round++
	}
	p.state = next
	return report, nil
}

// decide computes the next state and the winner list it carries
// without changing the pallet.
func (p *Pallet) decide() (types.States, types.VecDeque) {
	switch p.state {
	case types.StateUninitialized:
		return types.StatePropose, nil
	case types.StatePropose:
		if len(p.proposals) == 0 {
			return types.StatePropose, nil
		}
		return types.StateVotePropose, nil
	case types.StateVotePropose:
		winners := p.proposalWinners()
		if len(winners) == 0 {
			return types.StatePropose, nil
		}
		return types.StateConcern, winners
	case types.StateConcern:
		if len(p.concerns) == 0 {
			return types.StateVoteCouncil, p.winners
		}
		return types.StateVoteConcern, p.winners
	case types.StateVoteConcern:
		return types.StateVoteCouncil, p.concernWinners()
	default:
		return types.StatePropose, nil
	}
}

// proposalWinners returns the proposals above the acceptance share,
// ordered by ascending vote ratio.
func (p *Pallet) proposalWinners() types.VecDeque {
	var winners types.VecDeque
	for _, s := range p.proposals {
		ratio := types.PermillFromRational(s.proposal.Votes, p.proposalVote)
		if p.proposalVote == 0 || ratio < p.cfg.ProposeVoteAcceptanceMin {
			continue
		}
		winners = append(winners, types.ProposalWinner{
			Proposer:  s.by,
			Proposal:  s.proposal.Proposal,
			VoteRatio: ratio,
		})
	}
	slices.SortStableFunc(winners, func(a, b types.ProposalWinner) int {
		return int(a.VoteRatio) - int(b.VoteRatio)
	})
	return winners
}

// concernWinners attaches the concerns above the acceptance share to
// a copy of the current winners.
func (p *Pallet) concernWinners() types.VecDeque {
	winners := make(types.VecDeque, len(p.winners))
	for i, w := range p.winners {
		w.Concerns = slices.Clone(w.Concerns)
		winners[i] = w
	}
	for _, c := range p.concerns {
		ratio := types.PermillFromRational(c.concern.Votes, p.concernVote)
		if p.concernVote == 0 || ratio < p.cfg.ConcernVoteAcceptanceMin {
			continue
		}
		for i := range winners {
			if winners[i].Proposal.Equal(c.concern.AssociatedProposal) {
				winners[i].Concerns = append(winners[i].Concerns, c.concern.Concern)
				break
			}
		}
	}
	return winners
}

func (p *Pallet) spawnProjects() {
	if p.council == nil {
		return
	}
	for _, w := range p.winners {
		yes, no := p.council(w)
		if types.PermillFromRational(no, yes+no) >= p.cfg.CouncilDenyMin {
			continue
		}
		prj := types.NewProject(p.nextProject, w)
		prj.Deadline = p.block + p.cfg.ProjectDuration
		p.projects = append(p.projects, prj)
		p.nextProject++
	}
}

// State returns the pallet's phase and round.
func (p *Pallet) State() types.StateReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return types.StateReport{State: p.state, Round: p.round}
}

// Winners returns a copy of the current round's winners.
func (p *Pallet) Winners() types.VecDeque {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.winners)
}

// Projects returns a copy of the spawned projects.
func (p *Pallet) Projects() []types.Project {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.projects)
}

// EncodedWinners returns the SCALE encoding of the current winners as
// the pallet stores them.
func (p *Pallet) EncodedWinners(ctx context.Context) (types.Encoded, error) {
	winners := p.Winners()
	return p.svc.Encode(ctx, types.Value{Winners: &winners})
}
