package sotest

import (
	"fmt"

	"github.com/sea212/Masterthesis-Superorganism/types"
)

// SampleAccount returns an account id filled with seed.
func SampleAccount(seed byte) types.AccountID {
	var a types.AccountID
	for i := range a {
		a[i] = seed
	}
	return a
}

// SampleCID returns the content id of text.
func SampleCID(text string) types.ProposalCID {
	c, err := types.CIDFromContent([]byte(text))
	if err != nil {
		panic(fmt.Sprintf("sotest: cid of %q: %v", text, err))
	}
	return c
}

// SampleProposal returns a proposal with three votes.
func SampleProposal() types.Proposal {
	p := types.NewProposal(SampleCID("build a community garden"))
	p.Votes = 3
	return p
}

// SampleConcern returns a concern against SampleProposal.
func SampleConcern() types.Concern {
	c := types.NewConcern(SampleCID("the garden needs water rights"), SampleProposal().Proposal)
	c.Votes = 1
	return c
}

// SampleWinner returns SampleProposal as a winner carrying
// SampleConcern.
func SampleWinner() types.ProposalWinner {
	return types.ProposalWinner{
		Concerns:  []types.ConcernCID{SampleConcern().Concern},
		Proposer:  SampleAccount(0xA1),
		Proposal:  SampleProposal().Proposal,
		VoteRatio: types.PermillFromRational(3, 4),
	}
}

// SampleWinners returns a two-entry winner list.
func SampleWinners() types.VecDeque {
	second := types.ProposalWinner{
		Proposer:  SampleAccount(0xB2),
		Proposal:  SampleCID("repaint the town hall"),
		VoteRatio: types.OneMillion,
	}
	return types.VecDeque{SampleWinner(), second}
}

// SampleWorker returns a worker hired at block 100.
func SampleWorker(seed byte) types.Worker {
	return types.NewWorker(
		SampleAccount(seed),
		SampleCID(fmt.Sprintf("job description %d", seed)),
		types.NewBalance(1_000_000_000_000),
		100,
	)
}

// SampleProject returns a project with a leader, one worker and one
// open position.
func SampleProject() types.Project {
	p := types.NewProject(7, SampleWinner())
	leader := SampleWorker(0x01)
	p.ProjectLeader = &leader
	p.Workers = []types.Worker{SampleWorker(0x02)}
	p.OpenPositions = []types.DocumentCID{SampleCID("gardener")}
	p.Deadline = 10_000
	return p
}

// SampleRecords returns one record of every kind, plus the zero
// States variant and an empty Proposal.
func SampleRecords() []types.Record {
	state := types.StateVoteCouncil
	uninitialized := types.StateUninitialized
	proposal := SampleProposal()
	concern := SampleConcern()
	winner := SampleWinner()
	winners := SampleWinners()
	worker := SampleWorker(0x03)
	project := SampleProject()
	return []types.Record{
		&state, &uninitialized, &proposal, new(types.Proposal),
		&concern, &winner, &winners, &worker, &project,
	}
}
