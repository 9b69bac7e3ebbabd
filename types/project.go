package types

import "github.com/sea212/Masterthesis-Superorganism/registry"

// Worker is a member hired into a project position.
type Worker struct {
	Worker         IdentityID  `cramberry:"1"`
	JobDescription DocumentCID `cramberry:"2"`
	Salary         Balance     `cramberry:"3"`
	Hired          BlockNumber `cramberry:"4"`
}

// NewWorker returns a Worker record.
func NewWorker(worker IdentityID, job DocumentCID, salary Balance, hired BlockNumber) Worker {
	return Worker{Worker: worker, JobDescription: job, Salary: salary, Hired: hired}
}

// Project is spawned from a proposal the council accepted.
type Project struct {
	ID       ProjectID      `cramberry:"1"`
	Proposal ProposalWinner `cramberry:"2"`
	// ProjectLeader is nil until a leader is hired.
	ProjectLeader *Worker       `cramberry:"3"`
	OpenPositions []DocumentCID `cramberry:"4"`
	Workers       []Worker      `cramberry:"5"`
	Deadline      BlockNumber   `cramberry:"6"`
}

// PRJ is the event alias of Project, PW the one of ProposalWinner.
type (
	PRJ = Project
	PW  = ProposalWinner
)

// NewProject returns a project without leader, workers, open
// positions or deadline.
func NewProject(id ProjectID, proposal ProposalWinner) Project {
	return Project{ID: id, Proposal: proposal}
}

// Worker returns the worker with the given identity.
func (p *Project) Worker(id IdentityID) (Worker, bool) {
	if p.ProjectLeader != nil && p.ProjectLeader.Worker == id {
		return *p.ProjectLeader, true
	}
	for _, w := range p.Workers {
		if w.Worker == id {
			return w, true
		}
	}
	return Worker{}, false
}

// HasOpenPosition reports whether position is still open.
func (p *Project) HasOpenPosition(position DocumentCID) bool {
	for _, o := range p.OpenPositions {
		if o.Equal(position) {
			return true
		}
	}
	return false
}

func (*Worker) TypeName() string  { return registry.TypeWorker }
func (*Project) TypeName() string { return registry.TypeProject }
